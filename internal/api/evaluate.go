package api

import (
	"net/http"

	"github.com/TimurManjosov/govisibility/internal/conditions"
	"github.com/TimurManjosov/govisibility/internal/snapshot"
)

// handleEvaluate resolves one visibility decision. The condition set comes
// either inline or by published rule-set ID; the visitor context comes from
// the request body plus the allow-listed signals of the request itself.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}
	if req.RuleSetID == nil && req.Set == nil {
		BadRequestError(w, r, ErrCodeBadRequest, "either ruleSetId or set is required")
		return
	}
	if req.RuleSetID != nil && req.Set != nil {
		BadRequestError(w, r, ErrCodeBadRequest, "ruleSetId and set are mutually exclusive")
		return
	}

	set := req.Set
	var etag string
	if req.RuleSetID != nil {
		snap := snapshot.Load()
		view, ok := snap.Get(*req.RuleSetID)
		if !ok {
			NotFoundError(w, r, "published rule set not found")
			return
		}
		set = &view.Set
		etag = snap.ETag
	}

	ectx := &conditions.EvaluationContext{
		ExplicitItemID: req.Context.ItemID,
		Signals:        conditions.NewRequestSignals(r),
		User:           req.Context.User,
		Query:          req.Context.Query,
		Sources:        s.sources,
	}
	if req.Context.Now != nil {
		ectx.Now = *req.Context.Now
	}

	visible := s.engine.Show(set, ectx)
	// Inversion is a caller-side display concern, applied after the tree
	// resolves; fail-open semantics are computed on the uninverted result.
	if req.Invert {
		visible = !visible
	}

	writeJSON(w, http.StatusOK, evaluateResponse{Visible: visible, ETag: etag})
}
