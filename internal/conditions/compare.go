package conditions

import (
	"math"
	"strconv"
	"strings"
)

// LooseEquals compares two values with documented type coercion: if both
// sides parse as finite numbers they compare numerically, otherwise their
// scalar string forms compare. Non-scalar operands never compare equal.
func LooseEquals(a, b any) bool {
	if na, ok := numericValue(a); ok {
		if nb, ok := numericValue(b); ok {
			return na == nb
		}
	}
	sa, oka := scalarString(a)
	sb, okb := scalarString(b)
	return oka && okb && sa == sb
}

// NumericCompare performs a three-way comparison. ok is false unless both
// operands parse as finite numbers.
func NumericCompare(a, b any) (cmp int, ok bool) {
	na, oka := numericValue(a)
	nb, okb := numericValue(b)
	if !oka || !okb {
		return 0, false
	}
	switch {
	case na < nb:
		return -1, true
	case na > nb:
		return 1, true
	default:
		return 0, true
	}
}

// numericValue converts a scalar to float64, guarding against NaN and
// infinities. Strings are parsed; anything non-finite is rejected.
func numericValue(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case string:
		s := strings.TrimSpace(n)
		if s == "" || len(s) > maxScalarLen {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		if s, ok := scalarString(v); ok {
			return numericValue(s)
		}
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
