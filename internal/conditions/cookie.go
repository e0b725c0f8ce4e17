package conditions

// Cookie category: key-value checks against the allow-listed cookie subset
// of the request signals. Names failing the allow-pattern resolve as
// absent even if the browser sent them.
const RuleCookie = "cookie"

type cookieEvaluator struct {
	baseEvaluator
}

func newCookieEvaluator() Evaluator {
	return &cookieEvaluator{baseEvaluator{
		declared: keyValueOperators,
		rules:    []string{RuleCookie},
		meta: map[string]RuleMetadata{
			RuleCookie: {NeedsValue: true, ValueType: ValueCustomField},
		},
	}}
}

func (c *cookieEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if rule != RuleCookie || !operatorAllowed(c, rule, op) {
		return false
	}

	packed := ParsePackedField(value)
	if packed.Field == "" {
		return false
	}
	if !cookieNameAllowed(packed.Field) {
		// behaves as if the browser never sent it
		return EvalKeyValue(op, nil, false, packed.Value)
	}
	current, found := ectx.Signals.Cookies[packed.Field]
	if !found {
		return EvalKeyValue(op, nil, false, packed.Value)
	}
	return EvalKeyValue(op, current, true, packed.Value)
}
