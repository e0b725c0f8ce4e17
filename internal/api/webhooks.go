package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TimurManjosov/govisibility/internal/webhook"
)

type webhookRequest struct {
	URL        string   `json:"url"`
	Events     []string `json:"events,omitempty"`
	MaxRetries int      `json:"maxRetries,omitempty"`
}

type webhookResponse struct {
	ID         uuid.UUID `json:"id"`
	URL        string    `json:"url"`
	Events     []string  `json:"events,omitempty"`
	MaxRetries int       `json:"maxRetries"`
	CreatedAt  time.Time `json:"createdAt"`
	// Secret is returned once, on creation.
	Secret string `json:"secret,omitempty"`
}

func toWebhookResponse(ep webhook.Endpoint) webhookResponse {
	return webhookResponse{
		ID:         ep.ID,
		URL:        ep.URL,
		Events:     ep.Events,
		MaxRetries: ep.MaxRetries,
		CreatedAt:  ep.CreatedAt,
	}
}

var knownWebhookEvents = map[string]bool{
	webhook.EventRuleSetCreated: true,
	webhook.EventRuleSetUpdated: true,
	webhook.EventRuleSetDeleted: true,
}

func (s *Server) handleListWebhooks(w http.ResponseWriter, r *http.Request) {
	endpoints := s.Hooks.Registry().List()
	out := make([]webhookResponse, 0, len(endpoints))
	for _, ep := range endpoints {
		out = append(out, toWebhookResponse(ep))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		BadRequestError(w, r, ErrCodeBadRequest, "url must be a valid http(s) URL")
		return
	}
	for _, ev := range req.Events {
		if !knownWebhookEvents[ev] {
			BadRequestError(w, r, ErrCodeBadRequest, "unknown event type: "+ev)
			return
		}
	}

	secret, err := webhook.GenerateSecret()
	if err != nil {
		s.log.Error().Err(err).Msg("generate webhook secret")
		InternalError(w, r, "failed to create webhook")
		return
	}

	ep := s.Hooks.Registry().Add(webhook.Endpoint{
		URL:        req.URL,
		Secret:     secret,
		Events:     req.Events,
		MaxRetries: req.MaxRetries,
	})

	resp := toWebhookResponse(ep)
	resp.Secret = secret
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDeleteWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError(w, r, ErrCodeInvalidID, "invalid webhook ID")
		return
	}
	s.Hooks.Registry().Remove(id)
	w.WriteHeader(http.StatusNoContent)
}
