package conditions

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// literalEvaluator resolves to whatever its value says; used to script
// exact predicate outcomes in composition tests.
type literalEvaluator struct {
	baseEvaluator
}

func (l *literalEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	return value == "t"
}

func literalRegistry() *Registry {
	reg := NewRegistry()
	reg.Register("literal", Descriptor{Label: "Literal"}, func() Evaluator {
		return &literalEvaluator{}
	})
	return reg
}

func literalCondition(result bool, tag string) Condition {
	value := "f"
	if result {
		value = "t"
	}
	return Condition{Type: "literal", Rule: tag, Operator: OpIs, Value: value}
}

func TestShow_FailOpenOnEmptyInput(t *testing.T) {
	engine := NewEngine(literalRegistry())
	ectx := &EvaluationContext{}

	if !engine.Show(nil, ectx) {
		t.Fatal("Show(nil) = false, want true")
	}
	if !engine.Show(&ConditionSet{Logic: LogicOr}, ectx) {
		t.Fatal("Show(empty OR set) = false, want true")
	}
	if !engine.Show(&ConditionSet{Logic: LogicAnd}, ectx) {
		t.Fatal("Show(empty AND set) = false, want true")
	}
	set := &ConditionSet{Logic: LogicAnd, Groups: []ConditionGroup{{Logic: LogicOr}}}
	if !engine.Show(set, ectx) {
		t.Fatal("Show(set with one empty group) = false, want true")
	}
}

// Property: the two-level fold matches a reference implementation for
// arbitrary boolean vectors and logic choices.
func TestShow_TwoLevelBooleanAlgebra(t *testing.T) {
	engine := NewEngine(literalRegistry())

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	fold := func(logic Logic, results []bool) bool {
		if len(results) == 0 {
			return true
		}
		if logic == LogicAnd {
			for _, r := range results {
				if !r {
					return false
				}
			}
			return true
		}
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	}

	properties.Property("fold matches reference", prop.ForAll(
		func(groups [][]bool, setAnd bool, groupAnd bool) bool {
			setLogic, groupLogic := LogicOr, LogicOr
			if setAnd {
				setLogic = LogicAnd
			}
			if groupAnd {
				groupLogic = LogicAnd
			}

			set := &ConditionSet{Logic: setLogic}
			groupResults := make([]bool, 0, len(groups))
			for gi, predicates := range groups {
				group := ConditionGroup{Logic: groupLogic}
				for pi, p := range predicates {
					// Distinct rules keep the cache from conflating
					// scripted outcomes.
					tag := string(rune('a'+gi)) + string(rune('a'+pi))
					group.Conditions = append(group.Conditions, literalCondition(p, tag))
				}
				set.Groups = append(set.Groups, group)
				groupResults = append(groupResults, fold(groupLogic, predicates))
			}

			want := true
			if len(set.Groups) > 0 {
				want = fold(setLogic, groupResults)
			}
			return engine.Show(set, &EvaluationContext{}) == want
		},
		gen.SliceOf(gen.SliceOf(gen.Bool())),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestShow_EndToEndWeekdaySubscribers(t *testing.T) {
	engine := NewEngine(DefaultRegistry())
	wednesday := time.Date(2026, time.January, 7, 12, 0, 0, 0, time.Local)

	set := &ConditionSet{
		Logic: LogicOr,
		Groups: []ConditionGroup{{
			Logic: LogicAnd,
			Conditions: []Condition{
				{Type: TypeUserRole, Rule: RuleLoggedIn, Operator: OpIs, Value: ""},
				{Type: TypeDateTime, Rule: RuleDayOfWeek, Operator: OpIncludesAny, Value: []string{"1", "2", "3", "4", "5"}},
			},
		}},
	}

	loggedIn := &EvaluationContext{User: &UserRef{ID: 1}, Now: wednesday}
	if !engine.Show(set, loggedIn) {
		t.Fatal("logged-in user on a Wednesday: Show() = false, want true")
	}

	loggedOut := &EvaluationContext{Now: wednesday}
	if engine.Show(set, loggedOut) {
		t.Fatal("logged-out user: Show() = true, want false")
	}

	// The invert flag is the caller's job, not the engine's.
	if invert := !engine.Show(set, loggedOut); !invert {
		t.Fatal("inverted logged-out result = false, want true")
	}
}

func TestShow_ContextPrecedence(t *testing.T) {
	engine := NewEngine(DefaultRegistry())
	ectx := &EvaluationContext{
		ExplicitItemID: 42,
		Query:          QueryState{FrontPage: true, ObjectID: 7},
		Sources:        testSources(),
	}

	// Content meta must read the explicit loop item, not the ambient object.
	got := engine.Evaluate(TypeContentMeta, RuleCustomField, OpEquals, "featured|yes", ectx)
	if !got {
		t.Fatal("content_meta on explicit item 42 = false, want true")
	}

	// Location must keep reading the ambient query state.
	got = engine.Evaluate(TypeLocation, RuleFrontPage, OpIs, "", ectx)
	if !got {
		t.Fatal("location front_page with explicit item set = false, want true")
	}
}

func TestShow_FaultContainment(t *testing.T) {
	engine := NewEngine(DefaultRegistry())
	ectx := &EvaluationContext{
		Query:   QueryState{Singular: true, ObjectID: 42},
		Sources: Sources{Content: &fakeContent{panicky: true}},
	}

	set := &ConditionSet{
		Logic: LogicOr,
		Groups: []ConditionGroup{{
			Logic: LogicOr,
			Conditions: []Condition{
				{Type: TypeContentMeta, Rule: RuleCustomField, Operator: OpEquals, Value: "featured|yes"},
				{Type: TypeLocation, Rule: RuleSingular, Operator: OpIs, Value: ""},
			},
		}},
	}

	// The panicking meta lookup resolves its own predicate to false; the
	// sibling location predicate still evaluates and carries the group.
	if !engine.Show(set, ectx) {
		t.Fatal("Show() = false, want true despite faulting sibling predicate")
	}
}

func TestEvaluate_NilContext(t *testing.T) {
	engine := NewEngine(DefaultRegistry())

	if engine.Evaluate(TypeUserRole, RuleLoggedIn, OpIs, "", nil) {
		t.Fatal("nil context = true, want false")
	}

	// through the tree walk too: no context means no predicate can hold,
	// but the empty-set fail-open still applies
	set := &ConditionSet{Groups: []ConditionGroup{{
		Conditions: []Condition{{Type: TypeUserRole, Rule: RuleLoggedIn, Operator: OpIs}},
	}}}
	if engine.Show(set, nil) {
		t.Fatal("Show with nil context = true, want false")
	}
	if !engine.Show(&ConditionSet{}, nil) {
		t.Fatal("empty set with nil context = false, want true")
	}
}

func TestEvaluate_UnknownCategoryAndCache(t *testing.T) {
	engine := NewEngine(DefaultRegistry())
	ectx := &EvaluationContext{User: &UserRef{ID: 1}}

	if engine.Evaluate("no_such_type", "rule", OpIs, "", ectx) {
		t.Fatal("unknown category = true, want false")
	}

	engine.Evaluate(TypeUserRole, RuleLoggedIn, OpIs, "", ectx)
	engine.Evaluate(TypeUserRole, RuleLoggedIn, OpIs, "", ectx)
	if hits := ectx.Cache().Hits(); hits != 1 {
		t.Fatalf("cache hits = %d, want 1", hits)
	}

	ectx.ResetCache()
	if got := ectx.Cache().Len(); got != 0 {
		t.Fatalf("cache len after reset = %d, want 0", got)
	}
}
