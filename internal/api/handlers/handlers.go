package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/bulletin-board/internal/auth"
	"github.com/isdelr/bulletin-board/internal/models"
	"github.com/isdelr/bulletin-board/internal/views"
	"github.com/rs/zerolog/log"
)

// Renderer renders a named page template.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any)
}

// FeedPublisher announces new posts to live subscribers.
type FeedPublisher interface {
	PublishPost(post models.Post)
}

// idParam parses the {id} URL parameter. Non-numeric ids are reported as
// missing so they answer 404 like any unknown key.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func base(r *http.Request) views.Base {
	user, _ := auth.UserFromContext(r.Context())
	return views.Base{CurrentUser: user}
}

func renderError(w http.ResponseWriter, r *http.Request, rd Renderer, status int, message string) {
	rd.Render(w, status, views.PageError, views.ErrorPage{Base: base(r), Status: status, Message: message})
}

func notFound(w http.ResponseWriter, r *http.Request, rd Renderer) {
	renderError(w, r, rd, http.StatusNotFound, "The page you requested does not exist.")
}

// NotFound renders the 404 page for unmatched routes.
func NotFound(rd Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notFound(w, r, rd)
	}
}

func serverError(w http.ResponseWriter, r *http.Request, rd Renderer, err error, msg string) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	renderError(w, r, rd, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
