// Package client is an HTTP client for the visibility API, used by the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/TimurManjosov/govisibility/internal/conditions"
	"github.com/TimurManjosov/govisibility/internal/store"
)

// Client is an HTTP client for the visibility API
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// RuleSet is the API's rule-set representation.
type RuleSet struct {
	ID        uuid.UUID               `json:"id"`
	Title     string                  `json:"title"`
	Status    string                  `json:"status"`
	Set       conditions.ConditionSet `json:"set"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// TypeInfo describes one registered condition category.
type TypeInfo struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Operators []string `json:"operators"`
	Priority  int      `json:"priority"`
}

// RuleInfo describes one rule of a category.
type RuleInfo struct {
	Rule          string   `json:"rule"`
	Operators     []string `json:"operators"`
	NeedsValue    bool     `json:"needsValue"`
	ValueType     string   `json:"valueType"`
	SupportsMulti bool     `json:"supportsMulti"`
}

// EvalContext mirrors the evaluation request context.
type EvalContext struct {
	ItemID int64                 `json:"itemId,omitempty"`
	User   *conditions.UserRef   `json:"user,omitempty"`
	Query  conditions.QueryState `json:"query,omitempty"`
}

// EvalResult is one visibility decision.
type EvalResult struct {
	Visible bool   `json:"visible"`
	ETag    string `json:"etag,omitempty"`
}

// ValidationResult mirrors the server-side document validation response.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ListTypes retrieves the registered condition categories.
func (c *Client) ListTypes(ctx context.Context) ([]TypeInfo, error) {
	var out []TypeInfo
	if err := c.do(ctx, "GET", "/v1/conditions/types", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	return out, nil
}

// ListRules retrieves the rules of one category.
func (c *Client) ListRules(ctx context.Context, typeKey string) ([]RuleInfo, error) {
	var out []RuleInfo
	if err := c.do(ctx, "GET", "/v1/conditions/types/"+typeKey+"/rules", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return out, nil
}

// ListRuleSets retrieves all rule sets, optionally filtered by status.
func (c *Client) ListRuleSets(ctx context.Context, status string) ([]RuleSet, error) {
	path := "/v1/rulesets"
	if status != "" {
		path += "?status=" + status
	}
	var out []RuleSet
	if err := c.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list rule sets: %w", err)
	}
	return out, nil
}

// GetRuleSet retrieves a single rule set by ID.
func (c *Client) GetRuleSet(ctx context.Context, id uuid.UUID) (*RuleSet, error) {
	var out RuleSet
	if err := c.do(ctx, "GET", "/v1/rulesets/"+id.String(), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get rule set: %w", err)
	}
	return &out, nil
}

// UpsertRuleSet creates or updates a rule set.
func (c *Client) UpsertRuleSet(ctx context.Context, params store.UpsertParams) (*RuleSet, error) {
	body := map[string]any{
		"title":  params.Title,
		"status": params.Status,
		"set":    params.Set,
	}
	if params.ID != uuid.Nil {
		body["id"] = params.ID
	}
	var out RuleSet
	if err := c.do(ctx, "POST", "/v1/rulesets", body, &out); err != nil {
		return nil, fmt.Errorf("failed to upsert rule set: %w", err)
	}
	return &out, nil
}

// DeleteRuleSet deletes a rule set by ID.
func (c *Client) DeleteRuleSet(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, "DELETE", "/v1/rulesets/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("failed to delete rule set: %w", err)
	}
	return nil
}

// Validate checks a condition-set document against the server's registry.
func (c *Client) Validate(ctx context.Context, set conditions.ConditionSet) (*ValidationResult, error) {
	var out ValidationResult
	if err := c.do(ctx, "POST", "/v1/conditions/validate", map[string]any{"set": set}, &out); err != nil {
		return nil, fmt.Errorf("failed to validate: %w", err)
	}
	return &out, nil
}

// Evaluate resolves one visibility decision against an inline set or a
// published rule-set ID.
func (c *Client) Evaluate(ctx context.Context, id *uuid.UUID, set *conditions.ConditionSet, ectx EvalContext, invert bool) (*EvalResult, error) {
	body := map[string]any{
		"context": ectx,
		"invert":  invert,
	}
	if id != nil {
		body["ruleSetId"] = id
	}
	if set != nil {
		body["set"] = set
	}
	var out EvalResult
	if err := c.do(ctx, "POST", "/v1/evaluate", body, &out); err != nil {
		return nil, fmt.Errorf("failed to evaluate: %w", err)
	}
	return &out, nil
}
