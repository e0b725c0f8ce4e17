package conditions

import "strings"

// Device category: coarse device class derived from the allow-listed
// User-Agent header. Classification is heuristic; an absent header counts
// as desktop.
const (
	RuleMobile  = "general:mobile"
	RuleTablet  = "general:tablet"
	RuleDesktop = "general:desktop"
)

type deviceEvaluator struct {
	baseEvaluator
}

func newDeviceEvaluator() Evaluator {
	return &deviceEvaluator{baseEvaluator{
		declared: []Operator{OpIs, OpIsNot},
		rules:    []string{RuleMobile, RuleTablet, RuleDesktop},
		meta: map[string]RuleMetadata{
			RuleMobile:  {ValueType: ValueNone},
			RuleTablet:  {ValueType: ValueNone},
			RuleDesktop: {ValueType: ValueNone},
		},
	}}
}

func (d *deviceEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if !operatorAllowed(d, rule, op) {
		return false
	}

	class := classifyUserAgent(ectx.header("User-Agent"))
	switch rule {
	case RuleMobile:
		return evalFlag(op, class == "mobile")
	case RuleTablet:
		return evalFlag(op, class == "tablet")
	case RuleDesktop:
		return evalFlag(op, class == "desktop")
	default:
		return false
	}
}

func classifyUserAgent(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"),
		strings.Contains(lower, "android") && !strings.Contains(lower, "mobile"):
		return "tablet"
	case strings.Contains(lower, "mobi"), strings.Contains(lower, "iphone"):
		return "mobile"
	default:
		return "desktop"
	}
}
