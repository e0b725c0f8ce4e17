package conditions

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// UserRef identifies the current visitor when logged in.
type UserRef struct {
	ID    int64    `json:"id"`
	Roles []string `json:"roles,omitempty"`
}

// QueryState is the ambient "where on the site are we" snapshot. Location
// predicates always read this, even when an explicit loop item is active.
type QueryState struct {
	FrontPage   bool   `json:"frontPage,omitempty"`
	Home        bool   `json:"home,omitempty"`
	Singular    bool   `json:"singular,omitempty"`
	Archive     bool   `json:"archive,omitempty"`
	Search      bool   `json:"search,omitempty"`
	NotFound    bool   `json:"notFound,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	ObjectID    int64  `json:"objectId,omitempty"`
	Taxonomy    string `json:"taxonomy,omitempty"`
	TermID      int64  `json:"termId,omitempty"`
	AuthorID    int64  `json:"authorId,omitempty"`
}

// RequestSignals is the bounded subset of the HTTP request the engine may
// read: query parameters, allow-listed cookies, and a fixed set of headers.
type RequestSignals struct {
	QueryParams url.Values        `json:"queryParams,omitempty"`
	Cookies     map[string]string `json:"cookies,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// allowedHeaders is the fixed allow-list of request headers exposed to
// evaluators.
var allowedHeaders = []string{"Referer", "User-Agent", "Accept-Language"}

// cookieNamePattern bounds which cookie names are exposed; reserved
// prefixes carry browser or session semantics and are never surfaced.
var (
	cookieNamePattern      = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	reservedCookiePrefixes = []string{"__Host-", "__Secure-", "session"}
)

func cookieNameAllowed(name string) bool {
	if !cookieNamePattern.MatchString(name) {
		return false
	}
	for _, prefix := range reservedCookiePrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return true
}

// NewRequestSignals extracts the allow-listed signal subset from an incoming
// request. The engine never reads the request itself.
func NewRequestSignals(r *http.Request) RequestSignals {
	signals := RequestSignals{
		QueryParams: r.URL.Query(),
		Cookies:     map[string]string{},
		Headers:     map[string]string{},
	}
	for _, c := range r.Cookies() {
		if cookieNameAllowed(c.Name) {
			signals.Cookies[c.Name] = c.Value
		}
	}
	for _, name := range allowedHeaders {
		if v := r.Header.Get(name); v != "" {
			signals.Headers[name] = v
		}
	}
	return signals
}

// EvaluationContext carries everything one evaluation pass may read. It is
// built fresh per request and discarded afterwards; the memoization cache it
// owns never outlives it.
type EvaluationContext struct {
	// ExplicitItemID is set when evaluating inside a loop or repeater.
	// Categories that reason about "the current item" must prefer it over
	// the ambient query state; zero means no explicit item.
	ExplicitItemID int64
	Signals        RequestSignals
	User           *UserRef
	Query          QueryState
	Sources        Sources

	// Now pins the evaluation clock; the zero value means wall time.
	Now time.Time

	cache *Cache
}

// ItemID resolves the item that content-scoped categories reason about:
// the explicit loop item when present, otherwise the ambient query object.
func (e *EvaluationContext) ItemID() int64 {
	if e.ExplicitItemID != 0 {
		return e.ExplicitItemID
	}
	return e.Query.ObjectID
}

func (e *EvaluationContext) now() time.Time {
	if e.Now.IsZero() {
		return time.Now()
	}
	return e.Now
}

// Cache returns the per-pass memoization cache, creating it on first use.
func (e *EvaluationContext) Cache() *Cache {
	if e.cache == nil {
		e.cache = NewCache()
	}
	return e.cache
}

// ResetCache drops all memoized predicate results. Tests use this to avoid
// cross-test leakage.
func (e *EvaluationContext) ResetCache() {
	e.cache = nil
}

func (e *EvaluationContext) header(name string) string {
	return e.Signals.Headers[name]
}
