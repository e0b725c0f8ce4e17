package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// End-to-end delivery: registry match, HMAC signing, headers, payload shape.
func TestDispatcherDelivery(t *testing.T) {
	received := make(chan Event, 10)
	secret := "whsec_integration"

	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if r.Header.Get("X-Visibility-Event") == "" {
			t.Error("missing X-Visibility-Event header")
		}
		if r.Header.Get("X-Visibility-Delivery") == "" {
			t.Error("missing X-Visibility-Delivery header")
		}

		body, _ := io.ReadAll(r.Body)
		if !VerifySignature(body, r.Header.Get("X-Visibility-Signature"), secret) {
			t.Error("signature did not verify")
		}

		var event Event
		if err := json.Unmarshal(body, &event); err != nil {
			t.Errorf("payload unmarshal: %v", err)
		}
		received <- event
		w.WriteHeader(http.StatusOK)
	}))
	defer mock.Close()

	reg := NewRegistry()
	reg.Add(Endpoint{URL: mock.URL, Secret: secret, Events: []string{EventRuleSetUpdated}})

	d := NewDispatcher(reg, zerolog.Nop())
	d.Start()
	defer d.Close()

	d.Dispatch(Event{
		Type:      EventRuleSetUpdated,
		Timestamp: time.Now(),
		Resource:  Resource{Type: "ruleset", ID: "rs-1"},
		Data: EventData{
			Before: map[string]any{"status": "draft"},
			After:  map[string]any{"status": "published"},
		},
	})

	select {
	case event := <-received:
		if event.Type != EventRuleSetUpdated {
			t.Errorf("event type = %q", event.Type)
		}
		if event.Resource.ID != "rs-1" {
			t.Errorf("resource id = %q", event.Resource.ID)
		}
		if event.Data.After["status"] != "published" {
			t.Errorf("after state = %v", event.Data.After)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

// An endpoint not subscribed to the event type receives nothing.
func TestDispatcherFiltersByEventType(t *testing.T) {
	hits := make(chan struct{}, 10)
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer mock.Close()

	reg := NewRegistry()
	reg.Add(Endpoint{URL: mock.URL, Secret: "s", Events: []string{EventRuleSetDeleted}})

	d := NewDispatcher(reg, zerolog.Nop())
	d.Start()

	d.Dispatch(Event{Type: EventRuleSetCreated, Resource: Resource{Type: "ruleset", ID: "rs-2"}})
	d.Close()

	select {
	case <-hits:
		t.Error("unsubscribed endpoint received a delivery")
	default:
	}
}

// A failing endpoint is retried and eventually succeeds.
func TestDispatcherRetries(t *testing.T) {
	if testing.Short() {
		t.Skip("retry backoff sleeps")
	}

	var attempts int
	done := make(chan struct{})
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		close(done)
	}))
	defer mock.Close()

	reg := NewRegistry()
	reg.Add(Endpoint{URL: mock.URL, Secret: "s", MaxRetries: 2, Timeout: time.Second})

	d := NewDispatcher(reg, zerolog.Nop())
	d.Start()
	defer d.Close()

	d.Dispatch(Event{Type: EventRuleSetCreated, Resource: Resource{Type: "ruleset", ID: "rs-3"}})

	select {
	case <-done:
		if attempts != 2 {
			t.Errorf("attempts = %d, want 2", attempts)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for retry success")
	}
}
