package audit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func waitForEvents(t *testing.T, sink *MemorySink, n int) []Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if events := sink.Events(); len(events) >= n {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", n, len(sink.Events()))
	return nil
}

func TestServiceWritesEvents(t *testing.T) {
	sink := NewMemorySink()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(sink, fixedClock{now}, 16, zerolog.Nop())
	defer svc.Close()

	svc.Log(Event{Action: ActionCreated, RuleSetID: "abc", Title: "Banner"})

	events := waitForEvents(t, sink, 1)
	got := events[0]
	if got.Action != ActionCreated {
		t.Errorf("action = %q, want %q", got.Action, ActionCreated)
	}
	if got.RuleSetID != "abc" {
		t.Errorf("rule set id = %q", got.RuleSetID)
	}
	if !got.OccurredAt.Equal(now) {
		t.Errorf("occurred_at = %v, want clock time %v", got.OccurredAt, now)
	}
	if got.Status != StatusSuccess {
		t.Errorf("status defaulted to %q, want %q", got.Status, StatusSuccess)
	}
}

func TestServiceCloseDrainsQueue(t *testing.T) {
	sink := NewMemorySink()
	svc := NewService(sink, nil, 64, zerolog.Nop())

	for i := 0; i < 10; i++ {
		svc.Log(Event{Action: ActionUpdated, RuleSetID: "rs"})
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := len(sink.Events()); got != 10 {
		t.Errorf("events after close = %d, want 10", got)
	}
}

func TestServiceCloseIsIdempotent(t *testing.T) {
	svc := NewService(NewMemorySink(), nil, 4, zerolog.Nop())
	if err := svc.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	// logging after close is a no-op, not a panic
	svc.Log(Event{Action: ActionDeleted, RuleSetID: "rs"})
}

func TestEventBuilder(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/rulesets", nil)
	r.Header.Set("User-Agent", "test-agent")

	event := NewEventBuilder(r).
		ForRuleSet("id-1", "Members banner").
		WithAction(ActionCreated).
		WithStates(nil, map[string]any{"title": "Members banner"}).
		Build()

	if event.Action != ActionCreated {
		t.Errorf("action = %q", event.Action)
	}
	if event.RuleSetID != "id-1" || event.Title != "Members banner" {
		t.Errorf("resource = %q/%q", event.RuleSetID, event.Title)
	}
	if event.Source.UserAgent != "test-agent" {
		t.Errorf("user agent = %q", event.Source.UserAgent)
	}
	if event.Status != StatusSuccess {
		t.Errorf("status = %q", event.Status)
	}
	if event.AfterState == nil || event.BeforeState != nil {
		t.Error("states not carried through")
	}
}

func TestEventBuilderFailure(t *testing.T) {
	r := httptest.NewRequest("DELETE", "/v1/rulesets/x", nil)
	event := NewEventBuilder(r).
		ForRuleSet("id-2", "").
		WithAction(ActionDeleted).
		Failure("store unavailable").
		Build()

	if event.Status != StatusFailure {
		t.Errorf("status = %q, want %q", event.Status, StatusFailure)
	}
	if event.ErrorMessage != "store unavailable" {
		t.Errorf("error message = %q", event.ErrorMessage)
	}
}
