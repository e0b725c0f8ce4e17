package conditions

import "strings"

// Language category: the active locale, taken from the site's locale
// option when set and otherwise from the visitor's Accept-Language header.
const RuleLanguage = "general:language"

type languageEvaluator struct {
	baseEvaluator
}

func newLanguageEvaluator() Evaluator {
	return &languageEvaluator{baseEvaluator{
		declared: []Operator{
			OpIs, OpIsNot,
			OpIncludesAny, OpIncludesAll, OpExcludesAny, OpExcludesAll,
		},
		rules: []string{RuleLanguage},
		meta: map[string]RuleMetadata{
			RuleLanguage: {NeedsValue: true, ValueType: ValueObject, SupportsMulti: true},
		},
	}}
}

func (l *languageEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if rule != RuleLanguage || !operatorAllowed(l, rule, op) {
		return false
	}

	locale := currentLocale(ectx)
	if locale == "" {
		return false
	}
	return evalMembership(op, ParseMultiValue(value), func(v string) bool {
		return localeMatches(locale, v)
	})
}

func currentLocale(ectx *EvaluationContext) string {
	if v, ok := ectx.Sources.option("locale"); ok {
		if s, ok := scalarString(v); ok && s != "" {
			return s
		}
	}
	accept := ectx.header("Accept-Language")
	if accept == "" {
		return ""
	}
	first, _, _ := strings.Cut(accept, ",")
	first, _, _ = strings.Cut(first, ";")
	return strings.TrimSpace(first)
}

// localeMatches compares locales loosely: "en" matches "en-US" and
// underscore/hyphen variants compare equal.
func localeMatches(current, want string) bool {
	normalize := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	}
	current, want = normalize(current), normalize(want)
	if current == "" || want == "" {
		return false
	}
	if current == want {
		return true
	}
	base, _, _ := strings.Cut(current, "-")
	return base == want
}
