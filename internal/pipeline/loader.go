package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ookrx/wx-reporter/internal/domain"
	"github.com/ookrx/wx-reporter/internal/observability"
)

// Sink is a named delivery target.
type Sink struct {
	Name   string
	Loader Loader
}

// MultiLoader delivers each observation to every sink in order. A failing
// sink does not prevent delivery to the others.
type MultiLoader struct {
	sinks   []Sink
	metrics *observability.Metrics
}

// NewMultiLoader creates a fan-out Loader over sinks.
func NewMultiLoader(metrics *observability.Metrics, sinks ...Sink) *MultiLoader {
	return &MultiLoader{sinks: sinks, metrics: metrics}
}

// Len returns the number of configured sinks.
func (m *MultiLoader) Len() int {
	return len(m.sinks)
}

func (m *MultiLoader) Load(ctx context.Context, obs domain.Observation) error {
	var errs []error
	for _, s := range m.sinks {
		start := time.Now()
		err := s.Loader.Load(ctx, obs)
		m.metrics.DeliveryDuration.WithLabelValues(s.Name).Observe(time.Since(start).Seconds())
		if err != nil {
			m.metrics.DeliveryErrors.WithLabelValues(s.Name).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		m.metrics.Deliveries.WithLabelValues(s.Name).Inc()
	}
	return errors.Join(errs...)
}
