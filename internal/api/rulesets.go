package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TimurManjosov/govisibility/internal/audit"
	"github.com/TimurManjosov/govisibility/internal/snapshot"
	"github.com/TimurManjosov/govisibility/internal/store"
	"github.com/TimurManjosov/govisibility/internal/telemetry"
	"github.com/TimurManjosov/govisibility/internal/validation"
	"github.com/TimurManjosov/govisibility/internal/webhook"
)

// ruleSetState summarizes a rule set for audit and webhook payloads.
func ruleSetState(rs *store.RuleSet) map[string]any {
	if rs == nil {
		return nil
	}
	return map[string]any{
		"title":  rs.Title,
		"status": string(rs.Status),
		"groups": len(rs.Set.Groups),
	}
}

// recordChange notifies the audit trail and webhook subscribers of one
// rule-set mutation. Both collaborators are optional and non-blocking.
func (s *Server) recordChange(r *http.Request, action string, rs *store.RuleSet, before, after map[string]any) {
	if s.Audit != nil {
		s.Audit.Log(audit.NewEventBuilder(r).
			ForRuleSet(rs.ID.String(), rs.Title).
			WithAction(action).
			WithStates(before, after).
			Build())
	}
	if s.Hooks != nil {
		s.Hooks.Dispatch(webhook.NewEventBuilder(r).
			ForRuleSet(rs.ID.String()).
			WithStates(before, after).
			Build())
	}
}

func (s *Server) handleListRuleSets(w http.ResponseWriter, r *http.Request) {
	status := store.Status(r.URL.Query().Get("status"))
	if res := validation.ValidateStatus(string(status)); !res.Valid {
		ValidationError(w, r, "invalid status filter", res.Errors)
		return
	}

	rows, err := s.store.List(r.Context(), status)
	if err != nil {
		s.log.Error().Err(err).Msg("list rule sets")
		InternalError(w, r, "failed to list rule sets")
		return
	}

	out := make([]ruleSetResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toRuleSetResponse(&rows[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRuleSet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError(w, r, ErrCodeInvalidID, "invalid rule set ID")
		return
	}

	rs, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "rule set not found")
			return
		}
		s.log.Error().Err(err).Stringer("id", id).Msg("get rule set")
		InternalError(w, r, "failed to load rule set")
		return
	}
	writeJSON(w, http.StatusOK, toRuleSetResponse(rs))
}

func (s *Server) handleUpsertRuleSet(w http.ResponseWriter, r *http.Request) {
	var req ruleSetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}

	result := validation.ValidateRuleSet(validation.RuleSetValidationParams{
		Title:  req.Title,
		Status: req.Status,
		Set:    req.Set,
	}, s.engine.Registry())
	if !result.Valid {
		ValidationError(w, r, "rule set failed validation", result.Errors)
		return
	}

	params := store.UpsertParams{
		Title:  req.Title,
		Status: store.Status(req.Status),
		Set:    req.Set,
	}
	var prior *store.RuleSet
	if req.ID != nil {
		params.ID = *req.ID
		if existing, err := s.store.Get(r.Context(), *req.ID); err == nil {
			prior = existing
		}
	}

	rs, err := s.store.Upsert(r.Context(), params)
	if err != nil {
		s.log.Error().Err(err).Msg("upsert rule set")
		InternalError(w, r, "failed to store rule set")
		return
	}

	if err := s.RebuildSnapshot(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("snapshot rebuild")
		InternalError(w, r, "snapshot rebuild failed")
		return
	}

	action := audit.ActionCreated
	if prior != nil {
		action = audit.ActionUpdated
	}
	s.recordChange(r, action, rs, ruleSetState(prior), ruleSetState(rs))

	writeJSON(w, http.StatusOK, toRuleSetResponse(rs))
}

func (s *Server) handleDeleteRuleSet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError(w, r, ErrCodeInvalidID, "invalid rule set ID")
		return
	}

	var prior *store.RuleSet
	if existing, err := s.store.Get(r.Context(), id); err == nil {
		prior = existing
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.log.Error().Err(err).Stringer("id", id).Msg("delete rule set")
		InternalError(w, r, "failed to delete rule set")
		return
	}

	if err := s.RebuildSnapshot(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("snapshot rebuild")
		InternalError(w, r, "snapshot rebuild failed")
		return
	}

	if prior != nil {
		s.recordChange(r, audit.ActionDeleted, prior, ruleSetState(prior), nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := snapshot.Load()
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == snap.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", snap.ETag)
	_ = json.NewEncoder(w).Encode(snap)
}

// handleEvents streams snapshot ETag changes as server-sent events so
// render-time consumers can drop their cached snapshot promptly.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		InternalError(w, r, "streaming unsupported")
		return
	}

	updates, unsub := snapshot.Subscribe()
	defer unsub()
	telemetry.StreamClients.Inc()
	defer telemetry.StreamClients.Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", snapshot.Load().ETag)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case etag, open := <-updates:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", etag)
			flusher.Flush()
		}
	}
}
