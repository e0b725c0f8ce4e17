package store

import (
	"sync"

	"github.com/TimurManjosov/govisibility/internal/conditions"
)

// ContentItem is one content record held by MemorySources.
type ContentItem struct {
	Meta      map[string]any
	Ancestors []int64
	Terms     map[string][]int64
	AuthorID  int64
}

// MemorySources is an in-memory content repository implementing the
// evaluation source interfaces. The server and CLI use it when no external
// content system is wired in.
type MemorySources struct {
	mu      sync.RWMutex
	items   map[int64]ContentItem
	users   map[int64]map[string]any
	options map[string]any
}

// NewMemorySources creates an empty in-memory source bundle.
func NewMemorySources() *MemorySources {
	return &MemorySources{
		items:   make(map[int64]ContentItem),
		users:   make(map[int64]map[string]any),
		options: make(map[string]any),
	}
}

// PutItem stores or replaces a content item.
func (s *MemorySources) PutItem(id int64, item ContentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = item
}

// PutUserMeta stores one user metadata value.
func (s *MemorySources) PutUserMeta(userID int64, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.users[userID]
	if !ok {
		meta = make(map[string]any)
		s.users[userID] = meta
	}
	meta[key] = value
}

// PutOption stores one process-wide option.
func (s *MemorySources) PutOption(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[name] = value
}

// Meta implements conditions.ContentSource.
func (s *MemorySources) Meta(itemID int64, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, false, nil
	}
	v, ok := item.Meta[key]
	return v, ok, nil
}

// Ancestors implements conditions.ContentSource.
func (s *MemorySources) Ancestors(itemID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, nil
	}
	out := make([]int64, len(item.Ancestors))
	copy(out, item.Ancestors)
	return out, nil
}

// Terms implements conditions.ContentSource. An empty taxonomy returns the
// terms of every taxonomy on the item.
func (s *MemorySources) Terms(itemID int64, taxonomy string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, nil
	}
	if taxonomy != "" {
		terms := item.Terms[taxonomy]
		out := make([]int64, len(terms))
		copy(out, terms)
		return out, nil
	}
	var out []int64
	for _, terms := range item.Terms {
		out = append(out, terms...)
	}
	return out, nil
}

// Author implements conditions.ContentSource.
func (s *MemorySources) Author(itemID int64) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok || item.AuthorID == 0 {
		return 0, false, nil
	}
	return item.AuthorID, true, nil
}

// UserMeta returns a conditions.UserSource view of the repository.
func (s *MemorySources) UserMeta(userID int64, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.users[userID]
	if !ok {
		return nil, false, nil
	}
	v, ok := meta[key]
	return v, ok, nil
}

// Option implements conditions.OptionSource.
func (s *MemorySources) Option(name string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.options[name]
	return v, ok, nil
}

// Sources bundles the repository into the shape evaluation expects.
func (s *MemorySources) Sources() conditions.Sources {
	return conditions.Sources{
		Content: s,
		Users:   userSourceFunc(s.UserMeta),
		Options: s,
	}
}

type userSourceFunc func(userID int64, key string) (any, bool, error)

func (f userSourceFunc) Meta(userID int64, key string) (any, bool, error) {
	return f(userID, key)
}
