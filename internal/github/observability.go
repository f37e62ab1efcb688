package github

import (
	"log/slog"
)

// CallEvent records metadata about a single API request.
type CallEvent struct {
	Operation string
	Status    int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about API calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a slog.Logger at debug level, and
// failures at warn level.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"operation", event.Operation,
		"status", event.Status,
		"latency_ms", event.LatencyMs,
	}
	if event.Success {
		o.logger.Debug("github_call", attrs...)
		return
	}
	o.logger.Warn("github_call", append(attrs, "error_code", event.ErrorCode)...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
