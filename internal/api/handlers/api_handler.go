package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/bulletin-board/internal/services"
	"github.com/rs/zerolog/log"
)

// APIHandler serves the read-only JSON API.
type APIHandler struct {
	boards services.BoardServiceProvider
	posts  services.PostServiceProvider
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(boards services.BoardServiceProvider, posts services.PostServiceProvider) *APIHandler {
	return &APIHandler{boards: boards, posts: posts}
}

// ListBoards returns every board by sort order.
func (h *APIHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.GetAllBoards(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve boards")
		writeJSONError(w, http.StatusInternalServerError, "failed to retrieve boards")
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// ListPosts returns every post, notices first then newest.
func (h *APIHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.GetAllPosts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve posts")
		writeJSONError(w, http.StatusInternalServerError, "failed to retrieve posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetBoard returns a single board.
func (h *APIHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "board not found")
		return
	}
	board, err := h.boards.GetBoardByID(r.Context(), id)
	if err != nil {
		h.lookupError(w, err, "board")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// ListBoardPosts returns a board's posts in listing order.
func (h *APIHandler) ListBoardPosts(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "board not found")
		return
	}
	ctx := r.Context()
	if _, err := h.boards.GetBoardByID(ctx, id); err != nil {
		h.lookupError(w, err, "board")
		return
	}
	posts, err := h.posts.GetPostsForBoard(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("board_id", id).Msg("Failed to retrieve board posts")
		writeJSONError(w, http.StatusInternalServerError, "failed to retrieve posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetPost returns a single post. API reads do not count as views.
func (h *APIHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "post not found")
		return
	}
	post, err := h.posts.GetPostByID(r.Context(), id)
	if err != nil {
		h.lookupError(w, err, "post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *APIHandler) lookupError(w http.ResponseWriter, err error, kind string) {
	if errors.Is(err, services.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, kind+" not found")
		return
	}
	log.Error().Err(err).Str("kind", kind).Msg("Lookup failed")
	writeJSONError(w, http.StatusInternalServerError, "failed to retrieve "+kind)
}
