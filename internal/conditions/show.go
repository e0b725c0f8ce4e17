package conditions

// Engine composes predicate results over a ConditionSet tree. It is the
// only entry point render-time consumers use.
type Engine struct {
	reg *Registry

	// OnEvaluate, when set, observes every predicate dispatch. The server
	// wires it to telemetry counters; the engine itself stays pure.
	OnEvaluate func(typ string, cached bool)
}

// NewEngine creates an engine over a registry.
func NewEngine(reg *Registry) *Engine {
	return &Engine{reg: reg}
}

// Registry exposes the engine's registry for introspection surfaces.
func (e *Engine) Registry() *Registry {
	return e.reg
}

// Show walks the two-level tree and reports whether content should be
// shown. An empty or absent set fails open: content is visible by default.
// Aside from the per-pass cache this is a pure function of its inputs; the
// tree is never mutated.
func (e *Engine) Show(set *ConditionSet, ectx *EvaluationContext) bool {
	if set == nil || len(set.Groups) == 0 {
		return true
	}

	if ParseLogic(string(set.Logic)) == LogicAnd {
		for _, group := range set.Groups {
			if !e.showGroup(group, ectx) {
				return false
			}
		}
		return true
	}
	for _, group := range set.Groups {
		if e.showGroup(group, ectx) {
			return true
		}
	}
	return false
}

func (e *Engine) showGroup(group ConditionGroup, ectx *EvaluationContext) bool {
	if len(group.Conditions) == 0 {
		return true
	}

	if ParseLogic(string(group.Logic)) == LogicAnd {
		for _, c := range group.Conditions {
			if !e.Evaluate(c.Type, c.Rule, c.Operator, c.Value, ectx) {
				return false
			}
		}
		return true
	}
	for _, c := range group.Conditions {
		if e.Evaluate(c.Type, c.Rule, c.Operator, c.Value, ectx) {
			return true
		}
	}
	return false
}

// Evaluate dispatches one predicate through the registry, memoizing the
// result in the context's per-pass cache. An unknown category, a malformed
// predicate, or a panicking evaluator all resolve to false; a single bad
// predicate never takes down composition of the rest of the tree.
func (e *Engine) Evaluate(typ, rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if ectx == nil {
		return false
	}
	ev, ok := e.reg.Instance(typ)
	if !ok {
		return false
	}

	cache := ectx.Cache()
	key := cacheKey(typ, rule, op, value, ectx.ExplicitItemID)
	if result, hit := cache.Get(key); hit {
		if e.OnEvaluate != nil {
			e.OnEvaluate(typ, true)
		}
		return result
	}

	result := evaluateContained(ev, rule, op, value, ectx)
	cache.Set(key, result)
	if e.OnEvaluate != nil {
		e.OnEvaluate(typ, false)
	}
	return result
}

// evaluateContained isolates evaluator faults: a panic resolves that single
// predicate to false instead of aborting the pass.
func evaluateContained(ev Evaluator, rule string, op Operator, value any, ectx *EvaluationContext) (result bool) {
	defer func() {
		if recover() != nil {
			result = false
		}
	}()
	return ev.Evaluate(rule, op, value, ectx)
}
