package pipeline

import (
	"context"
	"log/slog"

	"github.com/ookrx/wx-reporter/internal/domain"
)

// TelegramTransformer implements Transformer with domain.Process.
type TelegramTransformer struct {
	rules  domain.Rules
	logger *slog.Logger
}

// NewTransformer creates a TelegramTransformer for the given station rules.
func NewTransformer(rules domain.Rules, logger *slog.Logger) *TelegramTransformer {
	return &TelegramTransformer{
		rules:  rules,
		logger: logger,
	}
}

func (t *TelegramTransformer) Transform(_ context.Context, raw domain.RawTelegram) (domain.Observation, error) {
	t.logger.Debug("telegram received", "line", raw.Line, "source", raw.Source)

	obs, err := domain.Process(raw.Line, t.rules)
	if err != nil {
		return domain.Observation{}, err
	}
	obs.Source = raw.Source
	obs.ReceivedAt = raw.ReceivedAt
	return obs, nil
}
