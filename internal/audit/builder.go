package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// EventBuilder assembles an audit event from an incoming request plus the
// mutation details the handler knows about.
//
// Usage:
//
//	svc.Log(audit.NewEventBuilder(r).
//		ForRuleSet(id.String(), title).
//		WithAction(audit.ActionUpdated).
//		WithStates(before, after).
//		Build())
type EventBuilder struct {
	event Event
}

// NewEventBuilder seeds a builder with request ID and source metadata.
func NewEventBuilder(r *http.Request) *EventBuilder {
	return &EventBuilder{
		event: Event{
			RequestID: middleware.GetReqID(r.Context()),
			Source: Source{
				IPAddress: r.RemoteAddr,
				UserAgent: r.UserAgent(),
			},
			Status: StatusSuccess,
		},
	}
}

// ForRuleSet sets the rule set the event is about.
func (b *EventBuilder) ForRuleSet(id, title string) *EventBuilder {
	b.event.RuleSetID = id
	b.event.Title = title
	return b
}

// WithAction sets the mutation kind.
func (b *EventBuilder) WithAction(action string) *EventBuilder {
	b.event.Action = action
	return b
}

// WithStates sets the before and after document states.
func (b *EventBuilder) WithStates(before, after map[string]any) *EventBuilder {
	b.event.BeforeState = before
	b.event.AfterState = after
	return b
}

// Failure marks the event as failed with an error message.
func (b *EventBuilder) Failure(msg string) *EventBuilder {
	b.event.Status = StatusFailure
	b.event.ErrorMessage = msg
	return b
}

// Build returns the assembled event.
func (b *EventBuilder) Build() Event {
	return b.event
}
