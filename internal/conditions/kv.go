package conditions

import "strings"

// EvalKeyValue applies one of the shared key-value operators to a looked-up
// value. found reports whether the key resolved at all; current is the
// resolved value. Used by every category that reads from a key-value source
// (content meta, user meta, site options, cookies, query parameters,
// referrer).
func EvalKeyValue(op Operator, current any, found bool, want string) bool {
	switch op {
	case OpExists:
		return found
	case OpNotExists:
		return !found
	case OpHasValue:
		return found && hasValue(current)
	case OpNoValue:
		return !found || !hasValue(current)
	case OpEquals, OpIs:
		return found && LooseEquals(current, want)
	case OpNotEquals, OpIsNot:
		return !(found && LooseEquals(current, want))
	case OpContains:
		s, ok := current.(string)
		return found && ok && strings.Contains(s, want)
	case OpNotContains:
		// A non-string value cannot contain a substring.
		s, ok := current.(string)
		return !found || !ok || !strings.Contains(s, want)
	case OpStartsWith:
		s, ok := current.(string)
		return found && ok && strings.HasPrefix(s, want)
	case OpEndsWith:
		s, ok := current.(string)
		return found && ok && strings.HasSuffix(s, want)
	case OpGreaterThan:
		if !found {
			return false
		}
		cmp, ok := NumericCompare(current, want)
		return ok && cmp > 0
	case OpLessThan:
		if !found {
			return false
		}
		cmp, ok := NumericCompare(current, want)
		return ok && cmp < 0
	default:
		return false
	}
}

// hasValue distinguishes "key present but empty" from a real value. Nil,
// empty strings, and empty collections count as no value; 0 and "0" count
// as having one.
func hasValue(v any) bool {
	switch s := v.(type) {
	case nil:
		return false
	case string:
		return s != ""
	case []any:
		return len(s) > 0
	case []string:
		return len(s) > 0
	case map[string]any:
		return len(s) > 0
	default:
		return true
	}
}

// keyValueOperators is the declared operator set for packed-field
// categories.
var keyValueOperators = []Operator{
	OpExists, OpNotExists, OpHasValue, OpNoValue,
	OpEquals, OpNotEquals, OpContains, OpNotContains,
	OpStartsWith, OpEndsWith, OpGreaterThan, OpLessThan,
}
