package webhook

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestEndpointMatches(t *testing.T) {
	tests := []struct {
		name      string
		events    []string
		eventType string
		want      bool
	}{
		{
			name:      "matches subscribed type",
			events:    []string{EventRuleSetCreated, EventRuleSetUpdated},
			eventType: EventRuleSetUpdated,
			want:      true,
		},
		{
			name:      "does not match other type",
			events:    []string{EventRuleSetCreated},
			eventType: EventRuleSetDeleted,
			want:      false,
		},
		{
			name:      "empty list matches everything",
			events:    nil,
			eventType: EventRuleSetDeleted,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := Endpoint{Events: tt.events}
			if got := ep.Matches(tt.eventType); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.eventType, got, tt.want)
			}
		})
	}
}

func TestRegistryAddDefaults(t *testing.T) {
	reg := NewRegistry()
	ep := reg.Add(Endpoint{URL: "http://example.com/hook", Secret: "s"})

	if ep.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if ep.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", ep.MaxRetries)
	}
	if ep.Timeout <= 0 {
		t.Error("Timeout not defaulted")
	}
	if ep.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestRegistryMatching(t *testing.T) {
	reg := NewRegistry()
	created := reg.Add(Endpoint{URL: "http://a", Secret: "s", Events: []string{EventRuleSetCreated}})
	reg.Add(Endpoint{URL: "http://b", Secret: "s", Events: []string{EventRuleSetDeleted}})
	all := reg.Add(Endpoint{URL: "http://c", Secret: "s"})

	matching := reg.Matching(EventRuleSetCreated)
	if len(matching) != 2 {
		t.Fatalf("matching = %d endpoints, want 2", len(matching))
	}
	ids := map[uuid.UUID]bool{matching[0].ID: true, matching[1].ID: true}
	if !ids[created.ID] || !ids[all.ID] {
		t.Error("wrong endpoints matched")
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()
	ep := reg.Add(Endpoint{URL: "http://a", Secret: "s"})

	reg.Remove(ep.ID)
	if _, ok := reg.Get(ep.ID); ok {
		t.Error("endpoint still present after remove")
	}
	// unknown ID is a no-op
	reg.Remove(uuid.New())
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	if got := reg.List(); len(got) != 0 {
		t.Fatalf("empty registry listed %d endpoints", len(got))
	}
	reg.Add(Endpoint{URL: "http://a", Secret: "s"})
	reg.Add(Endpoint{URL: "http://b", Secret: "s"})
	if got := reg.List(); len(got) != 2 {
		t.Errorf("List() = %d endpoints, want 2", len(got))
	}
}

func TestDispatcherCloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(NewRegistry(), zerolog.Nop())
	d.Start()
	if err := d.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	// dispatch after close must not panic
	d.Dispatch(Event{Type: EventRuleSetCreated})
}
