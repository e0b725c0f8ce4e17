package conditions

// User role category: login state and role membership of the current
// visitor.
const (
	RuleLoggedIn = "general:logged_in"
	RuleRole     = "general:role"
)

type userRoleEvaluator struct {
	baseEvaluator
}

func newUserRoleEvaluator() Evaluator {
	return &userRoleEvaluator{baseEvaluator{
		declared: []Operator{
			OpIs, OpIsNot,
			OpIncludesAny, OpIncludesAll, OpExcludesAny, OpExcludesAll,
		},
		rules: []string{RuleLoggedIn, RuleRole},
		meta: map[string]RuleMetadata{
			RuleLoggedIn: {ValueType: ValueNone},
			RuleRole:     {NeedsValue: true, ValueType: ValueObject, SupportsMulti: true},
		},
	}}
}

func (u *userRoleEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if !operatorAllowed(u, rule, op) {
		return false
	}

	switch rule {
	case RuleLoggedIn:
		return evalFlag(op, ectx.User != nil)
	case RuleRole:
		if ectx.User == nil {
			// A logged-out visitor has no roles; only the excluding
			// operators can be satisfied, and only against a non-empty list.
			return evalMembership(op, ParseMultiValue(value), func(string) bool { return false })
		}
		return evalMembership(op, ParseMultiValue(value), func(v string) bool {
			for _, role := range ectx.User.Roles {
				if role == v {
					return true
				}
			}
			return false
		})
	default:
		return false
	}
}
