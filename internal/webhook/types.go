// Package webhook delivers rule-set change events to subscribed HTTP
// endpoints, signed with a per-endpoint HMAC secret.
package webhook

import (
	"time"
)

// Event types that trigger deliveries.
const (
	EventRuleSetCreated = "ruleset.created"
	EventRuleSetUpdated = "ruleset.updated"
	EventRuleSetDeleted = "ruleset.deleted"
)

// Event is one rule-set change notification.
type Event struct {
	Type      string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Resource  Resource  `json:"resource"`
	Data      EventData `json:"data"`
	Metadata  Metadata  `json:"metadata"`
}

// Resource identifies the rule set that changed.
type Resource struct {
	Type string `json:"type"` // always "ruleset"
	ID   string `json:"id"`
}

// EventData carries the before and after document states.
type EventData struct {
	Before map[string]any `json:"before,omitempty"`
	After  map[string]any `json:"after,omitempty"`
}

// Metadata carries request context about the change.
type Metadata struct {
	RequestID string `json:"requestId,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
}
