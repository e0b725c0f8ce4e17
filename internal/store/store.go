// Package store persists rule-set documents: named, publishable condition
// trees that the evaluation engine reads per request.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/TimurManjosov/govisibility/internal/conditions"
)

// ErrNotFound is returned when a rule set does not exist.
var ErrNotFound = errors.New("rule set not found")

// Status is the publication state of a rule set. Drafts are never used for
// evaluation.
type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
)

// RuleSet is one stored condition-set document.
type RuleSet struct {
	ID        uuid.UUID               `json:"id"`
	Title     string                  `json:"title"`
	Status    Status                  `json:"status"`
	Set       conditions.ConditionSet `json:"set"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// UpsertParams contains the parameters for creating or updating a rule set.
// A nil ID creates a new document.
type UpsertParams struct {
	ID     uuid.UUID               `json:"id"`
	Title  string                  `json:"title"`
	Status Status                  `json:"status"`
	Set    conditions.ConditionSet `json:"set"`
}

// Store defines rule-set persistence. Implementations must be safe for
// concurrent use.
type Store interface {
	// List retrieves rule sets, optionally filtered by status. An empty
	// status returns everything.
	List(ctx context.Context, status Status) ([]RuleSet, error)

	// Get retrieves one rule set by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id uuid.UUID) (*RuleSet, error)

	// Upsert creates or updates a rule set and returns the stored copy.
	Upsert(ctx context.Context, params UpsertParams) (*RuleSet, error)

	// Delete removes a rule set. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// Close releases any resources held by the store.
	Close() error
}
