package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/bulletin-board/internal/auth"
	"github.com/isdelr/bulletin-board/internal/services"
	"github.com/rs/zerolog/log"
)

// EventHandler exposes the audit event log to admins.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get recent activity/events.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	if !auth.HasModuleAccess(user, auth.ModuleAdmin) {
		writeJSONError(w, http.StatusForbidden, "admin access required")
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20 // Default limit
	}

	events, err := h.service.GetRecentEvents(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve events")
		writeJSONError(w, http.StatusInternalServerError, "failed to retrieve events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}
