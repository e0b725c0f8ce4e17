package conditions

import "strconv"

// Location category: where on the site are we, plus content hierarchy
// checks. General rules read the ambient query state only, so a loop item
// can never corrupt a page-level decision; child_of/parent_of and
// taxonomy_term read the explicit-or-ambient item.
const (
	RuleFrontPage    = "general:front_page"
	RuleHome         = "general:home"
	RuleSingular     = "general:singular"
	RuleArchive      = "general:archive"
	RuleSearch       = "general:search"
	RuleNotFound     = "general:404"
	RuleContentType  = "content_type"
	RuleTaxonomyTerm = "taxonomy_term"
	RuleChildOf      = "child_of"
	RuleParentOf     = "parent_of"
)

type locationEvaluator struct {
	baseEvaluator
}

func newLocationEvaluator() Evaluator {
	return &locationEvaluator{baseEvaluator{
		declared: []Operator{
			OpIs, OpIsNot,
			OpIncludesAny, OpIncludesAll, OpExcludesAny, OpExcludesAll,
		},
		rules: []string{
			RuleFrontPage, RuleHome, RuleSingular, RuleArchive,
			RuleSearch, RuleNotFound,
			RuleContentType, RuleTaxonomyTerm, RuleChildOf, RuleParentOf,
		},
		meta: map[string]RuleMetadata{
			RuleFrontPage:    {ValueType: ValueNone},
			RuleHome:         {ValueType: ValueNone},
			RuleSingular:     {NeedsValue: false, ValueType: ValueNone},
			RuleArchive:      {ValueType: ValueNone},
			RuleSearch:       {ValueType: ValueNone},
			RuleNotFound:     {ValueType: ValueNone},
			RuleContentType:  {NeedsValue: true, ValueType: ValueObject, SupportsMulti: true},
			RuleTaxonomyTerm: {NeedsValue: true, ValueType: ValueObjectTree, SupportsMulti: true},
			RuleChildOf:      {NeedsValue: true, ValueType: ValueObjectTree, SupportsMulti: true},
			RuleParentOf:     {NeedsValue: true, ValueType: ValueObjectTree, SupportsMulti: true},
		},
	}}
}

func (l *locationEvaluator) Evaluate(rule string, op Operator, value any, ectx *EvaluationContext) bool {
	if !operatorAllowed(l, rule, op) {
		return false
	}

	switch rule {
	case RuleFrontPage, RuleHome, RuleSingular, RuleArchive, RuleSearch, RuleNotFound:
		return evalFlag(op, l.generalTag(rule, value, ectx))
	case RuleContentType:
		return evalMembership(op, ParseMultiValue(value), func(v string) bool {
			return v != "" && v == ectx.Query.ContentType
		})
	case RuleTaxonomyTerm:
		packed := ParsePackedField(value)
		terms := ectx.Sources.terms(ectx.ItemID(), packed.Field)
		raw := any(packed.Value)
		if packed.Value == "" {
			raw = value
		}
		return evalMembership(op, ParseMultiValue(raw), func(v string) bool {
			id, err := strconv.ParseInt(v, 10, 64)
			return err == nil && containsID(terms, id)
		})
	case RuleChildOf:
		ancestors := ectx.Sources.ancestors(ectx.ItemID())
		return evalMembership(op, ParseMultiValue(value), func(v string) bool {
			id, err := strconv.ParseInt(v, 10, 64)
			return err == nil && containsID(ancestors, id)
		})
	case RuleParentOf:
		item := ectx.ItemID()
		if item == 0 {
			return false
		}
		return evalMembership(op, ParseMultiValue(value), func(v string) bool {
			id, err := strconv.ParseInt(v, 10, 64)
			return err == nil && containsID(ectx.Sources.ancestors(id), item)
		})
	default:
		return false
	}
}

// generalTag resolves one ambient location flag. A numeric value narrows
// the match to a specific object id; "where are we" always comes from the
// original query state, never the loop item.
func (l *locationEvaluator) generalTag(rule string, value any, ectx *EvaluationContext) bool {
	q := ectx.Query
	var tag bool
	switch rule {
	case RuleFrontPage:
		tag = q.FrontPage
	case RuleHome:
		tag = q.Home
	case RuleSingular:
		tag = q.Singular
	case RuleArchive:
		tag = q.Archive
	case RuleSearch:
		tag = q.Search
	case RuleNotFound:
		tag = q.NotFound
	}
	if !tag {
		return false
	}
	if s, ok := scalarString(value); ok && s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return false
		}
		return q.ObjectID == id
	}
	return true
}

// evalFlag applies is/is_not to a boolean location tag.
func evalFlag(op Operator, matched bool) bool {
	switch op {
	case OpIs:
		return matched
	case OpIsNot:
		return !matched
	default:
		return false
	}
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
