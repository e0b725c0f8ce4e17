package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/TimurManjosov/govisibility/internal/conditions"
	"github.com/TimurManjosov/govisibility/internal/store"
)

type ruleSetRequest struct {
	ID     *uuid.UUID              `json:"id,omitempty"`
	Title  string                  `json:"title"`
	Status string                  `json:"status,omitempty"`
	Set    conditions.ConditionSet `json:"set"`
}

type ruleSetResponse struct {
	ID        uuid.UUID               `json:"id"`
	Title     string                  `json:"title"`
	Status    string                  `json:"status"`
	Set       conditions.ConditionSet `json:"set"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

func toRuleSetResponse(rs *store.RuleSet) ruleSetResponse {
	return ruleSetResponse{
		ID:        rs.ID,
		Title:     rs.Title,
		Status:    string(rs.Status),
		Set:       rs.Set,
		CreatedAt: rs.CreatedAt,
		UpdatedAt: rs.UpdatedAt,
	}
}

type validateRequest struct {
	Set conditions.ConditionSet `json:"set"`
}

// evalContext describes the visitor-side evaluation state supplied by the
// caller. Query parameters, cookies, and headers are taken from the HTTP
// request itself via the signal allow-lists, never from this body.
type evalContext struct {
	ItemID int64                 `json:"itemId,omitempty"`
	User   *conditions.UserRef   `json:"user,omitempty"`
	Query  conditions.QueryState `json:"query,omitempty"`
	Now    *time.Time            `json:"now,omitempty"`
}

type evaluateRequest struct {
	RuleSetID *uuid.UUID               `json:"ruleSetId,omitempty"`
	Set       *conditions.ConditionSet `json:"set,omitempty"`
	Context   evalContext              `json:"context"`
	Invert    bool                     `json:"invert,omitempty"`
}

type evaluateResponse struct {
	Visible bool   `json:"visible"`
	ETag    string `json:"etag,omitempty"`
}

type typeResponse struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Operators []string `json:"operators"`
	Priority  int      `json:"priority"`
}

type ruleResponse struct {
	Rule          string   `json:"rule"`
	Operators     []string `json:"operators"`
	NeedsValue    bool     `json:"needsValue"`
	ValueType     string   `json:"valueType"`
	SupportsMulti bool     `json:"supportsMulti"`
}

func operatorStrings(ops []conditions.Operator) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = string(op)
	}
	return out
}
