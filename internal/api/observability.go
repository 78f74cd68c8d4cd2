package api

import (
	"github.com/rs/zerolog"
)

// CallEvent records metadata about a single backend call.
type CallEvent struct {
	Method    string
	Path      string
	RequestID string
	Status    int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about backend calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events through a zerolog logger.
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates an Observer that logs events to l.
func NewLogObserver(l zerolog.Logger) *LogObserver {
	return &LogObserver{logger: l}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	e := o.logger.Info()
	if !event.Success {
		e = o.logger.Warn().Str("error_code", event.ErrorCode)
	}
	e.Str("method", event.Method).
		Str("path", event.Path).
		Str("request_id", event.RequestID).
		Int("status", event.Status).
		Int64("latency_ms", event.LatencyMs).
		Msg("api_call")
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
