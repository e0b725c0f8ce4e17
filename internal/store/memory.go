package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation backed by a map and an
// RWMutex. Suitable for development, testing, and single-instance use.
type MemoryStore struct {
	mu       sync.RWMutex
	ruleSets map[uuid.UUID]RuleSet
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ruleSets: make(map[uuid.UUID]RuleSet)}
}

// List retrieves rule sets filtered by status, newest first.
func (m *MemoryStore) List(ctx context.Context, status Status) ([]RuleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]RuleSet, 0, len(m.ruleSets))
	for _, rs := range m.ruleSets {
		if status != "" && rs.Status != status {
			continue
		}
		result = append(result, rs)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// Get retrieves a rule set by ID.
func (m *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*RuleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rs, ok := m.ruleSets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rs, nil
}

// Upsert creates or updates a rule set in memory.
func (m *MemoryStore) Upsert(ctx context.Context, params UpsertParams) (*RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	id := params.ID
	createdAt := now
	if id == uuid.Nil {
		id = uuid.New()
	} else if existing, ok := m.ruleSets[id]; ok {
		createdAt = existing.CreatedAt
	}

	status := params.Status
	if status == "" {
		status = StatusDraft
	}

	rs := RuleSet{
		ID:        id,
		Title:     params.Title,
		Status:    status,
		Set:       params.Set,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	m.ruleSets[id] = rs
	return &rs, nil
}

// Delete removes a rule set; deleting an absent ID is a no-op.
func (m *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ruleSets, id)
	return nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
