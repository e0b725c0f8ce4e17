package conditions

// baseEvaluator carries the rule table shared by every category: declared
// operators, rule keys, and per-rule metadata. Categories embed it and add
// their Evaluate method.
type baseEvaluator struct {
	declared []Operator
	rules    []string
	meta     map[string]RuleMetadata
}

func (b *baseEvaluator) Rules() []string {
	out := make([]string, len(b.rules))
	copy(out, b.rules)
	return out
}

func (b *baseEvaluator) RuleMetadata(rule string) RuleMetadata {
	if m, ok := b.meta[rule]; ok {
		return m
	}
	return RuleMetadata{ValueType: ValueNone}
}

// OperatorsForRule starts from the category's declared operator set and
// removes the four multi-value operators unless the rule's value is chosen
// from a list. Free-text and boolean-only rules never expose set operators.
func (b *baseEvaluator) OperatorsForRule(rule string) []Operator {
	meta := b.RuleMetadata(rule)
	multiOK := meta.SupportsMulti ||
		meta.ValueType == ValueObject || meta.ValueType == ValueObjectTree

	out := make([]Operator, 0, len(b.declared))
	for _, op := range b.declared {
		if op.IsMultiValue() && !multiOK {
			continue
		}
		out = append(out, op)
	}
	return out
}

// SanitizeValue normalizes a raw candidate value according to the rule's
// metadata: multi-select rules get a truncated plain-text list, value-less
// rules get an empty string, everything else a bounded scalar.
func (b *baseEvaluator) SanitizeValue(value any, rule string) any {
	meta := b.RuleMetadata(rule)
	if !meta.NeedsValue {
		return ""
	}
	if meta.SupportsMulti || meta.ValueType == ValueObject || meta.ValueType == ValueObjectTree {
		return ParseMultiValue(value)
	}
	s, ok := scalarString(value)
	if !ok {
		return ""
	}
	return sanitizeText(s)
}

// operatorAllowed is the defensive evaluation-time check mirroring
// OperatorsForRule. It goes through the interface so categories that
// override OperatorsForRule keep both surfaces consistent.
func operatorAllowed(ev Evaluator, rule string, op Operator) bool {
	for _, legal := range ev.OperatorsForRule(rule) {
		if legal == op {
			return true
		}
	}
	return false
}
