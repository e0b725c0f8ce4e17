package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TimurManjosov/govisibility/internal/validation"
)

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	descs := s.engine.Registry().All()
	out := make([]typeResponse, 0, len(descs))
	for _, d := range descs {
		out = append(out, typeResponse{
			Key:       d.Key,
			Label:     d.Label,
			Operators: operatorStrings(d.Operators),
			Priority:  d.Priority,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	ev, ok := s.engine.Registry().Instance(key)
	if !ok {
		NotFoundError(w, r, "unknown condition type: "+key)
		return
	}

	rules := ev.Rules()
	out := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		meta := ev.RuleMetadata(rule)
		out = append(out, ruleResponse{
			Rule:          rule,
			Operators:     operatorStrings(ev.OperatorsForRule(rule)),
			NeedsValue:    meta.NeedsValue,
			ValueType:     string(meta.ValueType),
			SupportsMulti: meta.SupportsMulti,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}
	result := validation.ValidateConditionSet(req.Set, s.engine.Registry())
	writeJSON(w, http.StatusOK, result)
}
