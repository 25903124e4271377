package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/bulletin-board/internal/services"
	"github.com/isdelr/bulletin-board/internal/views"
)

// BoardHandler serves the home page and board pages.
type BoardHandler struct {
	boards services.BoardServiceProvider
	posts  services.PostServiceProvider
	views  Renderer
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boards services.BoardServiceProvider, posts services.PostServiceProvider, views Renderer) *BoardHandler {
	return &BoardHandler{boards: boards, posts: posts, views: views}
}

// Home renders the board list; no sign-in required.
func (h *BoardHandler) Home(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.GetAllBoards(r.Context())
	if err != nil {
		serverError(w, r, h.views, err, "Failed to retrieve boards")
		return
	}
	h.views.Render(w, http.StatusOK, views.PageIndex, views.IndexPage{Base: base(r), Boards: boards})
}

// List renders all boards by sort order.
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.GetAllBoards(r.Context())
	if err != nil {
		serverError(w, r, h.views, err, "Failed to retrieve boards")
		return
	}
	h.views.Render(w, http.StatusOK, views.PageBoardList, views.BoardListPage{Base: base(r), Boards: boards})
}

// Get renders one board with its posts.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w, r, h.views)
		return
	}

	ctx := r.Context()
	board, err := h.boards.GetBoardByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			notFound(w, r, h.views)
			return
		}
		serverError(w, r, h.views, err, "Failed to retrieve board")
		return
	}

	posts, err := h.posts.GetPostsForBoard(ctx, id)
	if err != nil {
		serverError(w, r, h.views, err, "Failed to retrieve board posts")
		return
	}
	boards, err := h.boards.GetAllBoards(ctx)
	if err != nil {
		serverError(w, r, h.views, err, "Failed to retrieve boards")
		return
	}

	h.views.Render(w, http.StatusOK, views.PageBoardDetail, views.BoardDetailPage{
		Base:   base(r),
		Board:  board,
		Posts:  posts,
		Boards: boards,
	})
}
