package conditions

import (
	"sort"
	"sync"
)

// Evaluator is the capability set every condition category implements.
type Evaluator interface {
	// Rules lists the category's rule keys.
	Rules() []string

	// RuleMetadata describes the value shape of one rule.
	RuleMetadata(rule string) RuleMetadata

	// OperatorsForRule narrows the category's declared operators to those
	// legal for one rule.
	OperatorsForRule(rule string) []Operator

	// Evaluate resolves a single predicate against the context. It must
	// never panic on malformed input; anything it cannot interpret
	// resolves to false.
	Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool

	// SanitizeValue normalizes a raw candidate value for one rule.
	SanitizeValue(value any, rule string) any
}

type registryEntry struct {
	desc Descriptor
	ctor func() Evaluator
	seq  int

	once sync.Once
	inst Evaluator
}

// Registry maps category keys to evaluators. Evaluator instances are
// constructed lazily, exactly once, and cached for the process lifetime.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
	seq     int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

// Register adds a category. It returns false, without panicking, when the
// key is empty, the constructor is missing, or the key is already taken.
func (r *Registry) Register(key string, desc Descriptor, ctor func() Evaluator) bool {
	if key == "" || ctor == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return false
	}
	desc.Key = key
	r.entries[key] = &registryEntry{desc: desc, ctor: ctor, seq: r.seq}
	r.seq++
	return true
}

// Unregister removes a category and drops any cached evaluator instance.
func (r *Registry) Unregister(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Has reports whether a category is registered. Startup code uses it to
// keep repeated default registration idempotent.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Get returns the descriptor for a category key.
func (r *Registry) Get(key string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return Descriptor{}, false
	}
	return e.desc, true
}

// Instance returns the lazily constructed evaluator singleton for a
// category. The constructor runs at most once per registration.
func (r *Registry) Instance(key string) (Evaluator, bool) {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	e.once.Do(func() { e.inst = e.ctor() })
	if e.inst == nil {
		return nil, false
	}
	return e.inst, true
}

// All returns descriptors ordered by ascending priority, registration order
// breaking ties.
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	entries := make([]*registryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].desc.Priority != entries[j].desc.Priority {
			return entries[i].desc.Priority < entries[j].desc.Priority
		}
		return entries[i].seq < entries[j].seq
	})

	out := make([]Descriptor, len(entries))
	for i, e := range entries {
		out[i] = e.desc
	}
	return out
}
