package conditions

// Category keys of the core condition types.
const (
	TypeLocation    = "location"
	TypeDateTime    = "date_time"
	TypeUserRole    = "user_role"
	TypeDevice      = "device"
	TypeReferrer    = "referrer"
	TypeContentMeta = "content_meta"
	TypeUserMeta    = "user_meta"
	TypeCookie      = "cookie"
	TypeLanguage    = "language"
	TypeSiteOption  = "site_option"
	TypeAuthor      = "author"
	TypeQueryParam  = "query_param"
)

type defaultRegistration struct {
	key   string
	label string
	prio  int
	ctor  func() Evaluator
}

var defaultRegistrations = []defaultRegistration{
	{TypeLocation, "Location", 10, newLocationEvaluator},
	{TypeUserRole, "User Role", 20, newUserRoleEvaluator},
	{TypeDateTime, "Date & Time", 30, newDateTimeEvaluator},
	{TypeDevice, "Device", 40, newDeviceEvaluator},
	{TypeReferrer, "Referrer", 50, newReferrerEvaluator},
	{TypeContentMeta, "Content Meta", 60, newContentMetaEvaluator},
	{TypeUserMeta, "User Meta", 70, newUserMetaEvaluator},
	{TypeCookie, "Cookie", 80, newCookieEvaluator},
	{TypeLanguage, "Language", 90, newLanguageEvaluator},
	{TypeSiteOption, "Site Option", 100, newSiteOptionEvaluator},
	{TypeAuthor, "Author", 110, newAuthorEvaluator},
	{TypeQueryParam, "Query Parameter", 120, newQueryParamEvaluator},
}

// RegisterDefaults adds the core categories to a registry. Repeated calls
// are idempotent: already-registered keys are left untouched.
func RegisterDefaults(reg *Registry) {
	for _, d := range defaultRegistrations {
		if reg.Has(d.key) {
			continue
		}
		ctor := d.ctor
		desc := Descriptor{
			Key:      d.key,
			Label:    d.label,
			Priority: d.prio,
		}
		if ev := ctor(); ev != nil {
			desc.Operators = declaredOperators(ev)
		}
		reg.Register(d.key, desc, ctor)
	}
}

// declaredOperators unions the legal operators across a category's rules
// for the descriptor's introspection surface.
func declaredOperators(ev Evaluator) []Operator {
	seen := make(map[Operator]struct{})
	var out []Operator
	for _, rule := range ev.Rules() {
		for _, op := range ev.OperatorsForRule(rule) {
			if _, ok := seen[op]; ok {
				continue
			}
			seen[op] = struct{}{}
			out = append(out, op)
		}
	}
	return out
}

// DefaultRegistry builds a registry with all core categories registered.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	RegisterDefaults(reg)
	return reg
}
