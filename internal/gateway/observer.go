// ABOUTME: Observer hooks for model calls.
// ABOUTME: LogObserver writes one structured log line per call.
package gateway

import (
	"time"

	"github.com/charmbracelet/log"
)

// CallEvent records metadata about a single model call.
type CallEvent struct {
	Provider  string
	Model     string
	Latency   time.Duration
	Success   bool
	ErrorCode string
}

// Observer receives events about model calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

// LogObserver logs call events. Successes go to debug, failures to warn.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver creates an Observer that logs to logger.
func NewLogObserver(logger *log.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	kv := []any{
		"provider", event.Provider,
		"model", event.Model,
		"latency_ms", event.Latency.Milliseconds(),
	}
	if event.Success {
		o.logger.Debug("model call", kv...)
		return
	}
	o.logger.Warn("model call failed", append(kv, "code", event.ErrorCode)...)
}
