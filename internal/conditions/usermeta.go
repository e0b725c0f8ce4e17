package conditions

// User meta category: key-value checks against records attached to the
// current visitor. Logged-out visitors resolve every key as absent.
const RuleUserField = "user_field"

type userMetaEvaluator struct {
	baseEvaluator
}

func newUserMetaEvaluator() Evaluator {
	return &userMetaEvaluator{baseEvaluator{
		declared: keyValueOperators,
		rules:    []string{RuleUserField},
		meta: map[string]RuleMetadata{
			RuleUserField: {NeedsValue: true, ValueType: ValueCustomField},
		},
	}}
}

func (u *userMetaEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if rule != RuleUserField || !operatorAllowed(u, rule, op) {
		return false
	}

	packed := ParsePackedField(value)
	if packed.Field == "" {
		return false
	}
	var (
		current any
		found   bool
	)
	if ectx.User != nil {
		current, found = ectx.Sources.userMeta(ectx.User.ID, packed.Field)
	}
	return EvalKeyValue(op, current, found, packed.Value)
}
