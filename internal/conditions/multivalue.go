package conditions

// EvalMultiValue folds a parsed value list into one boolean using the given
// set operator and a per-element match predicate. An empty list always
// yields false: the condition is not satisfied rather than vacuously true.
func EvalMultiValue(op Operator, values []string, match func(string) bool) bool {
	if len(values) == 0 {
		return false
	}

	anyMatch := false
	allMatch := true
	for _, v := range values {
		if match(v) {
			anyMatch = true
		} else {
			allMatch = false
		}
	}

	switch op {
	case OpIncludesAny:
		return anyMatch
	case OpIncludesAll:
		return allMatch
	case OpExcludesAny:
		return !anyMatch
	case OpExcludesAll:
		return !allMatch
	default:
		return false
	}
}

// evalMembership maps the scalar is/is_not operators onto their set
// equivalents so rules that accept either shape share one code path.
func evalMembership(op Operator, values []string, match func(string) bool) bool {
	switch op {
	case OpIs:
		op = OpIncludesAny
	case OpIsNot:
		op = OpExcludesAny
	}
	return EvalMultiValue(op, values, match)
}
