package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ookrx/wx-reporter/internal/domain"
	"github.com/ookrx/wx-reporter/internal/observability"
)

// readErrorPause is how long the loop waits after a failed read before
// polling the source again.
const readErrorPause = 100 * time.Millisecond

// Extractor yields the next raw telegram, blocking until one arrives.
// It returns io.EOF once the source is exhausted.
type Extractor interface {
	Extract(ctx context.Context) (domain.RawTelegram, error)
}

// Transformer validates a raw telegram into an observation.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawTelegram) (domain.Observation, error)
}

// Loader delivers an accepted observation.
type Loader interface {
	Load(ctx context.Context, obs domain.Observation) error
}

// Pipeline runs the receive-validate-deliver loop.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	running     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil while the receive loop is running.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return errors.New("receive loop is not running")
	}
	return nil
}

// Run processes telegrams until the context is cancelled or the source
// reports io.EOF. Malformed telegrams and delivery failures are logged and
// skipped; they never stop the loop.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started")
	p.running.Store(true)
	p.metrics.PipelineRunning.Set(1)
	defer func() {
		p.running.Store(false)
		p.metrics.PipelineRunning.Set(0)
	}()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processOne(ctx) {
			return nil
		}
	}
}

// processOne handles a single telegram. Returns false if the pipeline should stop.
func (p *Pipeline) processOne(ctx context.Context) bool {
	raw, err := p.extractor.Extract(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		if errors.Is(err, io.EOF) {
			p.logger.Info("telegram source closed")
			return false
		}
		p.logger.Error("read telegram failed", "error", err)
		p.metrics.ReadErrors.Inc()
		return sleepWithContext(ctx, readErrorPause)
	}

	start := time.Now()
	p.metrics.TelegramsReceived.Inc()

	obs, err := p.transformer.Transform(ctx, raw)
	if err != nil {
		reason := domain.ReasonOf(err)
		p.logger.Warn("telegram rejected, discarding",
			"reason", reason.String(),
			"error", err,
			"line", raw.Line,
			"source", raw.Source,
		)
		p.metrics.TelegramsRejected.WithLabelValues(reason.String()).Inc()
		return true
	}

	p.metrics.TelegramsAccepted.Inc()
	if !obs.ReceivedAt.IsZero() {
		p.metrics.LastObservationTime.Set(float64(obs.ReceivedAt.Unix()))
	}
	p.logger.Info("telegram accepted",
		"sender", obs.Sender,
		"temperature_c", obs.Temperature,
		"humidity_pct", obs.Humidity,
		"pressure_hpa", obs.Pressure,
	)

	if err := p.loader.Load(ctx, obs); err != nil {
		p.logger.Error("deliver observation failed", "error", err, "sender", obs.Sender)
	}
	p.metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	return true
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
