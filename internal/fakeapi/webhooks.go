// ABOUTME: Webhook handlers for the development backend
// ABOUTME: Listing, create/update with URL and event-type validation, delete, and test delivery

package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/2389/catalog-panel/internal/api"
	"github.com/2389/catalog-panel/internal/store"
)

func toAPIWebhook(w *store.Webhook) api.Webhook {
	out := api.Webhook{
		ID:        w.ID,
		URL:       w.URL,
		EventType: w.EventType,
		IsEnabled: w.IsEnabled,
		CreatedAt: &api.Timestamp{Time: w.CreatedAt},
		UpdatedAt: &api.Timestamp{Time: w.UpdatedAt},
	}
	if w.LastTriggeredAt != nil {
		out.LastTriggeredAt = &api.Timestamp{Time: *w.LastTriggeredAt}
	}
	return out
}

// handleListWebhooks handles GET /api/webhooks.
func (s *Server) handleListWebhooks(w http.ResponseWriter, r *http.Request) {
	hooks, err := s.store.ListWebhooks(r.Context())
	if err != nil {
		s.logger.Error("failed to list webhooks", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := api.WebhookList{Webhooks: make([]api.Webhook, 0, len(hooks))}
	for _, h := range hooks {
		resp.Webhooks = append(resp.Webhooks, toAPIWebhook(h))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateWebhook handles POST /api/webhooks.
func (s *Server) handleCreateWebhook(w http.ResponseWriter, r *http.Request) {
	in := api.WebhookInput{IsEnabled: true}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		sendJSONError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if err := in.Validate(); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	hook := &store.Webhook{URL: in.URL, EventType: in.EventType, IsEnabled: in.IsEnabled}
	if err := s.store.CreateWebhook(r.Context(), hook); err != nil {
		s.logger.Error("failed to create webhook", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toAPIWebhook(hook))
}

// webhookUpdateRequest is the PUT body; absent fields are left unchanged.
type webhookUpdateRequest struct {
	URL       *string `json:"url"`
	EventType *string `json:"event_type"`
	IsEnabled *bool   `json:"is_enabled"`
}

func (req webhookUpdateRequest) validate() error {
	if req.URL != nil && !api.ValidWebhookURL(*req.URL) {
		return errors.New("Invalid webhook URL")
	}
	if req.EventType != nil && !api.ValidEventType(*req.EventType) {
		return api.ErrInvalidEventType()
	}
	return nil
}

// handleUpdateWebhook handles PUT /api/webhooks/{id}.
func (s *Server) handleUpdateWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		sendJSONError(w, http.StatusNotFound, "Webhook not found")
		return
	}

	var req webhookUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	hook, err := s.store.UpdateWebhook(r.Context(), id, store.WebhookUpdate{
		URL:       req.URL,
		EventType: req.EventType,
		IsEnabled: req.IsEnabled,
	})
	if errors.Is(err, store.ErrNotFound) {
		sendJSONError(w, http.StatusNotFound, "Webhook not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to update webhook", "id", id, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toAPIWebhook(hook))
}

// handleDeleteWebhook handles DELETE /api/webhooks/{id}.
func (s *Server) handleDeleteWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		sendJSONError(w, http.StatusNotFound, "Webhook not found")
		return
	}

	err := s.store.DeleteWebhook(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		sendJSONError(w, http.StatusNotFound, "Webhook not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to delete webhook", "id", id, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, api.MessageResult{Message: "Webhook deleted successfully"})
}

// handleTestWebhook handles POST /api/webhooks/{id}/test.
func (s *Server) handleTestWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		sendJSONError(w, http.StatusNotFound, "Webhook not found")
		return
	}

	hook, err := s.store.GetWebhook(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		sendJSONError(w, http.StatusNotFound, "Webhook not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get webhook", "id", id, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	d, err := s.notifier.Send(r.Context(), hook, hook.EventType, map[string]any{
		"test":    true,
		"message": "This is a test webhook notification",
	})
	if err != nil {
		sendJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Webhook test failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, api.WebhookTestResult{
		Message:      "Webhook test successful",
		StatusCode:   d.StatusCode,
		ResponseTime: d.Elapsed.Seconds(),
	})
}
