package conditions

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Caps that bound worst-case work per predicate. Oversized input is
// truncated or rejected, never processed whole.
const (
	maxScalarLen = 10000
	maxJSONLen   = 50000
	maxListLen   = 1000
)

// PackedField is the result of splitting a "field|value" string: the field
// being addressed and the comparison value, if any.
type PackedField struct {
	Field string
	Value string
}

// ParsePackedField splits a raw condition value on the first "|". Non-string
// scalars are coerced to their string form; non-scalars and oversized
// strings yield an empty field, which downstream evaluators treat as a
// predicate that cannot match.
func ParsePackedField(raw any) PackedField {
	s, ok := scalarString(raw)
	if !ok || len(s) > maxScalarLen {
		return PackedField{}
	}
	field, value, found := strings.Cut(s, "|")
	if !found {
		return PackedField{Field: strings.TrimSpace(s)}
	}
	return PackedField{
		Field: strings.TrimSpace(field),
		Value: strings.TrimSpace(value),
	}
}

// ParseMultiValue normalizes a condition value into a list of plain-text
// elements. Arrays are truncated to maxListLen elements; strings that look
// like JSON arrays are decoded (bounded to maxJSONLen characters); any other
// scalar becomes a one-element list. Non-scalar input yields an empty list.
func ParseMultiValue(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, 0, min(len(v), maxListLen))
		for _, item := range v {
			if len(out) == maxListLen {
				break
			}
			out = append(out, sanitizeText(item))
		}
		return out
	case []any:
		out := make([]string, 0, min(len(v), maxListLen))
		for _, item := range v {
			if len(out) == maxListLen {
				break
			}
			s, ok := scalarString(item)
			if !ok {
				continue
			}
			out = append(out, sanitizeText(s))
		}
		return out
	}

	s, ok := scalarString(raw)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	if len(trimmed) <= maxJSONLen && (strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{")) {
		var decoded []any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return ParseMultiValue(decoded)
		}
	}
	if len(trimmed) > maxScalarLen {
		return nil
	}
	return []string{sanitizeText(trimmed)}
}

// scalarString coerces a scalar to its string form. Lists, maps, and other
// composites are rejected.
func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool:
		if s {
			return "1", true
		}
		return "0", true
	case int:
		return strconv.Itoa(s), true
	case int32:
		return strconv.FormatInt(int64(s), 10), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case json.Number:
		return s.String(), true
	default:
		return "", false
	}
}

func sanitizeText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxScalarLen {
		s = s[:maxScalarLen]
	}
	return s
}
