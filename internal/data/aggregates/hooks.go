package aggregates

import (
	"time"

	"github.com/yungbote/quranstudy-backend/internal/observability"
)

// Hooks captures aggregate-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	ObserveLockWait(name string, dur time.Duration)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) ObserveLockWait(string, time.Duration)          {}

type observabilityHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks creates aggregate hooks backed by prometheus metrics.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics}
}

func (h *observabilityHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.IncAggregateOperation(name, status)
	if status == "success" {
		h.metrics.ObserveAggregation(dur)
	}
}

func (h *observabilityHooks) ObserveLockWait(_ string, dur time.Duration) {
	h.metrics.ObserveLockWait(dur)
}
