package webhook

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// EventBuilder assembles a change event from an incoming request. The event
// type is derived from which states are present.
//
// Usage:
//
//	dispatcher.Dispatch(webhook.NewEventBuilder(r).
//		ForRuleSet(id.String()).
//		WithStates(before, after).
//		Build())
type EventBuilder struct {
	event Event
}

// NewEventBuilder seeds a builder with request metadata.
func NewEventBuilder(r *http.Request) *EventBuilder {
	return &EventBuilder{
		event: Event{
			Timestamp: time.Now(),
			Metadata: Metadata{
				RequestID: middleware.GetReqID(r.Context()),
				IPAddress: r.RemoteAddr,
			},
		},
	}
}

// ForRuleSet sets the rule set the event is about.
func (b *EventBuilder) ForRuleSet(id string) *EventBuilder {
	b.event.Resource = Resource{Type: "ruleset", ID: id}
	return b
}

// WithStates sets before/after and derives the event type:
// nil before means created, nil after means deleted, both set means updated.
func (b *EventBuilder) WithStates(before, after map[string]any) *EventBuilder {
	b.event.Data.Before = before
	b.event.Data.After = after

	switch {
	case before == nil && after != nil:
		b.event.Type = EventRuleSetCreated
	case before != nil && after == nil:
		b.event.Type = EventRuleSetDeleted
	case before != nil && after != nil:
		b.event.Type = EventRuleSetUpdated
	}
	return b
}

// Build returns the assembled event.
func (b *EventBuilder) Build() Event {
	return b.event
}
