package webhook

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Endpoint is one webhook subscription.
type Endpoint struct {
	ID            uuid.UUID     `json:"id"`
	URL           string        `json:"url"`
	Secret        string        `json:"-"`
	Events        []string      `json:"events"`
	MaxRetries    int           `json:"maxRetries"`
	Timeout       time.Duration `json:"-"`
	CreatedAt     time.Time     `json:"createdAt"`
	LastTriggered time.Time     `json:"lastTriggered,omitempty"`
}

// Matches reports whether the endpoint subscribes to the event type. An
// empty event list subscribes to everything.
func (e Endpoint) Matches(eventType string) bool {
	if len(e.Events) == 0 {
		return true
	}
	for _, ev := range e.Events {
		if ev == eventType {
			return true
		}
	}
	return false
}

// Registry holds webhook subscriptions in memory.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[uuid.UUID]Endpoint
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{endpoints: make(map[uuid.UUID]Endpoint)}
}

// Add registers an endpoint. A zero ID gets a fresh one; defaults are
// applied to retries and timeout.
func (r *Registry) Add(ep Endpoint) Endpoint {
	if ep.ID == uuid.Nil {
		ep.ID = uuid.New()
	}
	if ep.MaxRetries <= 0 {
		ep.MaxRetries = 3
	}
	if ep.Timeout <= 0 {
		ep.Timeout = 10 * time.Second
	}
	if ep.CreatedAt.IsZero() {
		ep.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints[ep.ID] = ep
	return ep
}

// Remove deletes an endpoint. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.endpoints, id)
}

// Get returns one endpoint.
func (r *Registry) Get(id uuid.UUID) (Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.endpoints[id]
	return ep, ok
}

// List returns all endpoints ordered by creation time.
func (r *Registry) List() []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Matching returns the endpoints subscribed to the event type.
func (r *Registry) Matching(eventType string) []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Endpoint
	for _, ep := range r.endpoints {
		if ep.Matches(eventType) {
			out = append(out, ep)
		}
	}
	return out
}

// Touch updates the endpoint's last-triggered timestamp.
func (r *Registry) Touch(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ep, ok := r.endpoints[id]; ok {
		ep.LastTriggered = time.Now()
		r.endpoints[id] = ep
	}
}
