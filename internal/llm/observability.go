package llm

import "github.com/rs/zerolog"

// LLMCallEvent summarizes one Generate call.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer is notified after every Generate call, successful or not.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver emits one "llm_call" line per call. Failures log at warn.
type LogObserver struct {
	logger zerolog.Logger
}

func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With().Str("component", "llm").Logger()}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	ev, status := o.logger.Info(), "ok"
	if !event.Success {
		ev, status = o.logger.Warn(), "err:"+event.ErrorCode
	}
	ev.Str("task", string(event.Task)).
		Str("model", event.Model).
		Int64("latency_ms", event.LatencyMs).
		Str("status", status).
		Msg("llm_call")
}

// NoopObserver drops events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
