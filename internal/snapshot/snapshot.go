// Package snapshot holds an atomic in-memory view of the published rule
// sets. Evaluation by ID reads from here instead of hitting the store on
// every request; writes rebuild and swap the whole snapshot.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/TimurManjosov/govisibility/internal/conditions"
	"github.com/TimurManjosov/govisibility/internal/store"
)

// RuleSetView is the published projection of one rule set.
type RuleSetView struct {
	ID        uuid.UUID               `json:"id"`
	Title     string                  `json:"title"`
	Set       conditions.ConditionSet `json:"set"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// Snapshot is one immutable published view. Replace, never mutate.
type Snapshot struct {
	ETag      string                    `json:"etag"`
	RuleSets  map[uuid.UUID]RuleSetView `json:"ruleSets"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

var current atomic.Pointer[Snapshot]

// Load returns the current snapshot; before the first Update it returns an
// empty one.
func Load() *Snapshot {
	if s := current.Load(); s != nil {
		return s
	}
	return &Snapshot{ETag: "", RuleSets: map[uuid.UUID]RuleSetView{}, UpdatedAt: time.Now().UTC()}
}

// Get looks up one published rule set by ID.
func (s *Snapshot) Get(id uuid.UUID) (RuleSetView, bool) {
	v, ok := s.RuleSets[id]
	return v, ok
}

// Build projects published store rows into a snapshot with a weak ETag over
// the serialized contents.
func Build(rows []store.RuleSet) *Snapshot {
	views := make(map[uuid.UUID]RuleSetView, len(rows))
	for _, r := range rows {
		if r.Status != store.StatusPublished {
			continue
		}
		views[r.ID] = RuleSetView{
			ID:        r.ID,
			Title:     r.Title,
			Set:       r.Set,
			UpdatedAt: r.UpdatedAt,
		}
	}
	blob, _ := json.Marshal(views)
	sum := sha256.Sum256(blob)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return &Snapshot{ETag: etag, RuleSets: views, UpdatedAt: time.Now().UTC()}
}

// Update swaps the current snapshot and notifies subscribers.
func Update(s *Snapshot) {
	current.Store(s)
	changes.broadcast(s.ETag)
}
