package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/isdelr/bulletin-board/internal/auth"
	"github.com/isdelr/bulletin-board/internal/forms"
	"github.com/isdelr/bulletin-board/internal/models"
	"github.com/isdelr/bulletin-board/internal/services"
	"github.com/isdelr/bulletin-board/internal/views"
	"github.com/rs/zerolog/log"
)

// PostHandler serves post pages and the post form.
type PostHandler struct {
	posts  services.PostServiceProvider
	boards services.BoardServiceProvider
	feed   FeedPublisher
	views  Renderer
}

// NewPostHandler creates a new PostHandler. feed may be nil.
func NewPostHandler(posts services.PostServiceProvider, boards services.BoardServiceProvider, feed FeedPublisher, views Renderer) *PostHandler {
	return &PostHandler{posts: posts, boards: boards, feed: feed, views: views}
}

// Get renders one post with the board navigation, counting the view.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		notFound(w, r, h.views)
		return
	}

	ctx := r.Context()
	if err := h.posts.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			notFound(w, r, h.views)
			return
		}
		serverError(w, r, h.views, err, "Failed to count post view")
		return
	}

	post, err := h.posts.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			notFound(w, r, h.views)
			return
		}
		serverError(w, r, h.views, err, "Failed to retrieve post")
		return
	}

	boards, err := h.boards.GetAllBoards(ctx)
	if err != nil {
		serverError(w, r, h.views, err, "Failed to retrieve boards")
		return
	}

	page := views.PostDetailPage{Base: base(r), Post: post, Boards: boards}
	page.CanPin = auth.HasPermission(page.CurrentUser, auth.PermPinPost)
	h.views.Render(w, http.StatusOK, views.PagePostDetail, page)
}

// Create shows the post form on GET and stores the post on POST. It is
// mounted behind auth.RequireUser.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, auth.SigninURL(r.URL.RequestURI()), http.StatusFound)
		return
	}
	// Every active role holds PermAddPost; only a user restricted after the
	// session was loaded gets here.
	if !auth.HasPermission(user, auth.PermAddPost) {
		renderError(w, r, h.views, http.StatusForbidden, "You do not have permission to write posts.")
		return
	}

	ctx := r.Context()
	boards, err := h.boards.GetAllBoards(ctx)
	if err != nil {
		serverError(w, r, h.views, err, "Failed to retrieve boards")
		return
	}

	if r.Method != http.MethodPost {
		form := forms.NewPostForm(url.Values{"board": {r.URL.Query().Get("board")}})
		h.views.Render(w, http.StatusOK, views.PagePostForm, views.PostFormPage{Base: base(r), Form: form, Boards: boards})
		return
	}

	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.views, http.StatusBadRequest, "The submitted form could not be read.")
		return
	}

	form := forms.NewPostForm(r.PostForm)
	valid, err := form.Validate(ctx, h.boardExists)
	if err != nil {
		serverError(w, r, h.views, err, "Failed to validate post form")
		return
	}
	if !valid {
		h.views.Render(w, http.StatusOK, views.PagePostForm, views.PostFormPage{Base: base(r), Form: form, Boards: boards})
		return
	}

	post, err := h.posts.CreatePost(ctx, services.NewPost{
		BoardID:  form.BoardID,
		AuthorID: &user.ID,
		Title:    form.Title,
		Content:  form.Content,
	})
	if err != nil {
		serverError(w, r, h.views, err, "Failed to create post")
		return
	}
	log.Info().Int64("post_id", post.ID).Int64("user_id", user.ID).Msg("Post created")

	if h.feed != nil {
		h.feed.PublishPost(post)
	}
	http.Redirect(w, r, post.URL(), http.StatusFound)
}

// SetNotice pins (notice=on) or unpins a post and returns to it. It is
// mounted behind auth.RequireUser.
func (h *PostHandler) SetNotice(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	if !auth.HasPermission(user, auth.PermPinPost) {
		renderError(w, r, h.views, http.StatusForbidden, "You do not have permission to pin posts.")
		return
	}

	id, ok := idParam(r)
	if !ok {
		notFound(w, r, h.views)
		return
	}
	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.views, http.StatusBadRequest, "The submitted form could not be read.")
		return
	}

	notice := r.PostForm.Get("notice") == "on"
	if err := h.posts.SetNotice(r.Context(), id, notice); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			notFound(w, r, h.views)
			return
		}
		serverError(w, r, h.views, err, "Failed to update notice flag")
		return
	}
	log.Info().Int64("post_id", id).Int64("user_id", user.ID).Bool("notice", notice).Msg("Post notice flag changed")

	http.Redirect(w, r, models.Post{ID: id}.URL(), http.StatusFound)
}

func (h *PostHandler) boardExists(ctx context.Context, id int64) (bool, error) {
	_, err := h.boards.GetBoardByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
