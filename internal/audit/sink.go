package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// ZerologSink writes audit events to a structured logger.
type ZerologSink struct {
	log zerolog.Logger
}

// NewZerologSink creates a sink over the given logger.
func NewZerologSink(log zerolog.Logger) *ZerologSink {
	return &ZerologSink{log: log}
}

func (s *ZerologSink) Write(_ context.Context, event Event) error {
	ev := s.log.Info().
		Time("occurred_at", event.OccurredAt).
		Str("action", event.Action).
		Str("rule_set_id", event.RuleSetID).
		Str("status", event.Status)
	if event.RequestID != "" {
		ev = ev.Str("request_id", event.RequestID)
	}
	if event.Title != "" {
		ev = ev.Str("title", event.Title)
	}
	if event.Source.IPAddress != "" {
		ev = ev.Str("ip", event.Source.IPAddress)
	}
	if event.ErrorMessage != "" {
		ev = ev.Str("error", event.ErrorMessage)
	}
	ev.Msg("audit")
	return nil
}

// MemorySink collects events in memory, for tests and introspection.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
