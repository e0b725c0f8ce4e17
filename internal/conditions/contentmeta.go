package conditions

// Content meta category: key-value checks against the records attached to
// the current content item. Inside a loop the explicit item wins over the
// ambient query object.
const RuleCustomField = "custom_field"

type contentMetaEvaluator struct {
	baseEvaluator
}

func newContentMetaEvaluator() Evaluator {
	return &contentMetaEvaluator{baseEvaluator{
		declared: keyValueOperators,
		rules:    []string{RuleCustomField},
		meta: map[string]RuleMetadata{
			RuleCustomField: {NeedsValue: true, ValueType: ValueCustomField},
		},
	}}
}

func (c *contentMetaEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if rule != RuleCustomField || !operatorAllowed(c, rule, op) {
		return false
	}

	packed := ParsePackedField(value)
	if packed.Field == "" {
		return false
	}
	current, found := ectx.Sources.contentMeta(ectx.ItemID(), packed.Field)
	return EvalKeyValue(op, current, found, packed.Value)
}
