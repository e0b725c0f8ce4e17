package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/govisibility/internal/conditions"
	"github.com/TimurManjosov/govisibility/internal/store"
)

const testAdminKey = "test-admin-key"

func newTestServer(t *testing.T) (*Server, *store.MemorySources) {
	t.Helper()

	src := store.NewMemorySources()
	engine := conditions.NewEngine(conditions.DefaultRegistry())
	srv := NewServer(store.NewMemoryStore(), engine, src.Sources(), testAdminKey, 1000, zerolog.Nop())

	// start from a clean snapshot
	if err := srv.RebuildSnapshot(context.Background()); err != nil {
		t.Fatalf("initial snapshot: %v", err)
	}
	return srv, src
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAdminKey)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func loggedInSet() conditions.ConditionSet {
	return conditions.ConditionSet{
		Groups: []conditions.ConditionGroup{{
			Conditions: []conditions.Condition{{
				Type:     "user_role",
				Rule:     "general:logged_in",
				Operator: conditions.OpIs,
			}},
		}},
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), "GET", "/healthz", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d, want 200", rec.Code)
	}
}

func TestListTypes(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), "GET", "/v1/conditions/types", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	types := decodeBody[[]typeResponse](t, rec)
	if len(types) != 12 {
		t.Fatalf("got %d types, want 12", len(types))
	}
	if types[0].Key != "location" {
		t.Errorf("first type = %s, want location (lowest priority first)", types[0].Key)
	}
	for i := 1; i < len(types); i++ {
		if types[i].Priority < types[i-1].Priority {
			t.Errorf("types not ordered by priority at %d", i)
		}
	}
}

func TestListRules(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Router(), "GET", "/v1/conditions/types/user_role/rules", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	rules := decodeBody[[]ruleResponse](t, rec)
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}

	rec = doJSON(t, srv.Router(), "GET", "/v1/conditions/types/weather/rules", nil, false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown type status = %d, want 404", rec.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Router(), "POST", "/v1/conditions/validate",
		validateRequest{Set: loggedInSet()}, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody[map[string]any](t, rec)
	if body["valid"] != true {
		t.Errorf("valid = %v, want true", body["valid"])
	}

	bad := conditions.ConditionSet{
		Groups: []conditions.ConditionGroup{{
			Conditions: []conditions.Condition{{
				Type: "weather", Rule: "x", Operator: conditions.OpIs,
			}},
		}},
	}
	rec = doJSON(t, srv.Router(), "POST", "/v1/conditions/validate", validateRequest{Set: bad}, false)
	body = decodeBody[map[string]any](t, rec)
	if body["valid"] != false {
		t.Errorf("valid = %v, want false", body["valid"])
	}
}

func TestAdminAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	// missing token
	rec := doJSON(t, router, "GET", "/v1/rulesets", nil, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", rec.Code)
	}

	// wrong token
	req := httptest.NewRequest("GET", "/v1/rulesets", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	wrongRec := httptest.NewRecorder()
	router.ServeHTTP(wrongRec, req)
	if wrongRec.Code != http.StatusForbidden {
		t.Errorf("wrong token status = %d, want 403", wrongRec.Code)
	}

	// correct token
	rec = doJSON(t, router, "GET", "/v1/rulesets", nil, true)
	if rec.Code != http.StatusOK {
		t.Errorf("correct token status = %d, want 200", rec.Code)
	}
}

func TestRuleSetCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	// create
	rec := doJSON(t, router, "POST", "/v1/rulesets", ruleSetRequest{
		Title:  "Members only",
		Status: "published",
		Set:    loggedInSet(),
	}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[ruleSetResponse](t, rec)
	if created.ID == uuid.Nil {
		t.Fatal("create did not assign an ID")
	}

	// get
	rec = doJSON(t, router, "GET", "/v1/rulesets/"+created.ID.String(), nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	got := decodeBody[ruleSetResponse](t, rec)
	if got.Title != "Members only" || got.Status != "published" {
		t.Errorf("get returned %+v", got)
	}

	// list
	rec = doJSON(t, router, "GET", "/v1/rulesets?status=published", nil, true)
	listed := decodeBody[[]ruleSetResponse](t, rec)
	if len(listed) != 1 {
		t.Errorf("listed %d rule sets, want 1", len(listed))
	}

	// snapshot includes the published set
	rec = doJSON(t, router, "GET", "/v1/rulesets/snapshot", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Error("snapshot response missing ETag")
	}

	// conditional request with the current ETag is a 304
	req := httptest.NewRequest("GET", "/v1/rulesets/snapshot", nil)
	req.Header.Set("If-None-Match", etag)
	notMod := httptest.NewRecorder()
	router.ServeHTTP(notMod, req)
	if notMod.Code != http.StatusNotModified {
		t.Errorf("conditional snapshot status = %d, want 304", notMod.Code)
	}

	// delete
	rec = doJSON(t, router, "DELETE", "/v1/rulesets/"+created.ID.String(), nil, true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, router, "GET", "/v1/rulesets/"+created.ID.String(), nil, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestUpsertRejectsInvalidDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Router(), "POST", "/v1/rulesets", ruleSetRequest{
		Title: "broken",
		Set: conditions.ConditionSet{
			Groups: []conditions.ConditionGroup{{
				Conditions: []conditions.Condition{{
					Type: "weather", Rule: "x", Operator: conditions.OpIs,
				}},
			}},
		},
	}, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	errResp := decodeBody[ErrorResponse](t, rec)
	if errResp.Code != ErrCodeValidation {
		t.Errorf("error code = %s, want %s", errResp.Code, ErrCodeValidation)
	}
	if len(errResp.Fields) == 0 {
		t.Error("expected field-level errors")
	}
}

func TestDraftsExcludedFromSnapshot(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, "POST", "/v1/rulesets", ruleSetRequest{
		Title:  "draft set",
		Status: "draft",
		Set:    loggedInSet(),
	}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d", rec.Code)
	}
	created := decodeBody[ruleSetResponse](t, rec)

	// evaluating the draft by ID must fail
	rec = doJSON(t, router, "POST", "/v1/evaluate", evaluateRequest{
		RuleSetID: &created.ID,
	}, false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("evaluate draft status = %d, want 404", rec.Code)
	}
}
