package conditions

import (
	"strconv"
	"strings"
	"time"
)

// Date/time category. Date rules compare full timestamps, the time rule
// compares seconds since local midnight, and day_of_week is a multi-value
// capable rule over ISO weekday numbers (1=Monday .. 7=Sunday).
const (
	RuleDate      = "date"
	RuleTime      = "time"
	RuleDayOfWeek = "day_of_week"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

type dateTimeEvaluator struct {
	baseEvaluator
}

func newDateTimeEvaluator() Evaluator {
	return &dateTimeEvaluator{baseEvaluator{
		declared: []Operator{
			OpIs, OpIsNot, OpBefore, OpAfter, OpOn, OpBetween,
			OpIncludesAny, OpIncludesAll, OpExcludesAny, OpExcludesAll,
		},
		rules: []string{RuleDate, RuleTime, RuleDayOfWeek},
		meta: map[string]RuleMetadata{
			RuleDate:      {NeedsValue: true, ValueType: ValueDateTime},
			RuleTime:      {NeedsValue: true, ValueType: ValueTimeOfDay},
			RuleDayOfWeek: {NeedsValue: true, ValueType: ValueDaySelector, SupportsMulti: true},
		},
	}}
}

func (d *dateTimeEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if !operatorAllowed(d, rule, op) {
		return false
	}

	now := ectx.now()
	switch rule {
	case RuleDate:
		return evalDate(op, value, now)
	case RuleTime:
		return evalTimeOfDay(op, value, now)
	case RuleDayOfWeek:
		weekday := isoWeekday(now)
		return evalMembership(op, ParseMultiValue(value), func(v string) bool {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			return err == nil && n == weekday
		})
	default:
		return false
	}
}

func evalDate(op Operator, value any, now time.Time) bool {
	if op == OpBetween {
		packed := ParsePackedField(value)
		start, okStart := parseDate(packed.Field, now.Location())
		end, okEnd := parseDate(packed.Value, now.Location())
		if !okStart || !okEnd {
			return false
		}
		return !now.Before(start) && !now.After(end)
	}

	s, ok := scalarString(value)
	if !ok {
		return false
	}
	target, ok := parseDate(s, now.Location())
	if !ok {
		return false
	}
	switch op {
	case OpBefore:
		return now.Before(target)
	case OpAfter:
		return now.After(target)
	case OpOn, OpIs:
		return sameDay(now, target)
	case OpIsNot:
		return !sameDay(now, target)
	default:
		return false
	}
}

// evalTimeOfDay compares seconds since local midnight. A between range
// whose start is numerically greater than its end wraps past midnight.
func evalTimeOfDay(op Operator, value any, now time.Time) bool {
	current := secondsSinceMidnight(now)

	if op == OpBetween {
		packed := ParsePackedField(value)
		start, okStart := parseClock(packed.Field)
		end, okEnd := parseClock(packed.Value)
		if !okStart || !okEnd {
			return false
		}
		if start > end {
			return current >= start || current <= end
		}
		return current >= start && current <= end
	}

	s, ok := scalarString(value)
	if !ok {
		return false
	}
	target, okClock := parseClock(s)
	if !okClock {
		return false
	}
	switch op {
	case OpBefore:
		return current < target
	case OpAfter:
		return current > target
	case OpOn, OpIs:
		return current/60 == target/60
	case OpIsNot:
		return current/60 != target/60
	default:
		return false
	}
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseClock converts "15:04" or "15:04:05" to seconds since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	sec := 0
	if len(parts) == 3 {
		var err error
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, false
		}
	}
	return h*3600 + m*60 + sec, true
}

func secondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
