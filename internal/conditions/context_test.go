package conditions

import (
	"net/http/httptest"
	"testing"
)

func TestNewRequestSignals_AllowLists(t *testing.T) {
	req := httptest.NewRequest("GET", "/pricing?plan=pro", nil)
	req.Header.Set("Referer", "https://example.com/")
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "consent=yes; __Secure-token=x; weird name=1")

	signals := NewRequestSignals(req)

	if got := signals.QueryParams.Get("plan"); got != "pro" {
		t.Fatalf("query plan = %q, want pro", got)
	}
	if _, ok := signals.Headers["Authorization"]; ok {
		t.Fatal("Authorization header leaked past the allow-list")
	}
	for _, name := range []string{"Referer", "User-Agent", "Accept-Language"} {
		if _, ok := signals.Headers[name]; !ok {
			t.Fatalf("allow-listed header %s missing", name)
		}
	}
	if _, ok := signals.Cookies["consent"]; !ok {
		t.Fatal("plain cookie missing")
	}
	if _, ok := signals.Cookies["__Secure-token"]; ok {
		t.Fatal("reserved-prefix cookie leaked")
	}
}

func TestEvaluationContext_ItemID(t *testing.T) {
	ambient := &EvaluationContext{Query: QueryState{ObjectID: 7}}
	if got := ambient.ItemID(); got != 7 {
		t.Fatalf("ItemID() = %d, want 7", got)
	}
	explicit := &EvaluationContext{ExplicitItemID: 42, Query: QueryState{ObjectID: 7}}
	if got := explicit.ItemID(); got != 42 {
		t.Fatalf("ItemID() = %d, want 42", got)
	}
}
