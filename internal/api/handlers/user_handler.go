package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/isdelr/bulletin-board/internal/auth"
	"github.com/isdelr/bulletin-board/internal/forms"
	"github.com/isdelr/bulletin-board/internal/services"
	"github.com/isdelr/bulletin-board/internal/views"
	"github.com/rs/zerolog/log"
)

// Sign-in messages shown next to the form fields.
const (
	MsgUnknownUsername = "Check your username or sign up."
	MsgWrongPassword   = "The password does not match."
	MsgRestricted      = "This account has been restricted."
)

// UserHandler handles sign-in and sign-out.
type UserHandler struct {
	service  services.UserServiceProvider
	events   services.EventServiceProvider
	sessions *auth.Sessions
	views    Renderer
}

// NewUserHandler creates a new UserHandler. events may be nil.
func NewUserHandler(service services.UserServiceProvider, events services.EventServiceProvider, sessions *auth.Sessions, views Renderer) *UserHandler {
	return &UserHandler{service: service, events: events, sessions: sessions, views: views}
}

// Signin renders the sign-in form on GET and authenticates on POST.
// Signed-in visitors are sent home straight away.
func (h *UserHandler) Signin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	next := safeNext(r.URL.Query().Get("next"))

	if r.Method != http.MethodPost {
		h.render(w, r, forms.NewSigninForm(nil), next)
		return
	}

	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.views, http.StatusBadRequest, "The submitted form could not be read.")
		return
	}
	form := forms.NewSigninForm(r.PostForm)
	if !form.Validate() {
		h.render(w, r, form, next)
		return
	}

	ctx := r.Context()
	if _, err := h.service.GetUserByUsername(ctx, form.Username); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Warn().Str("username", form.Username).Msg("Sign-in for unknown username")
			services.RecordEvent(ctx, h.events, services.EventUserSigninFail, "warn",
				fmt.Sprintf("Unknown username '%s'.", form.Username), nil)
			form.AddError("username", MsgUnknownUsername)
			h.render(w, r, form, next)
			return
		}
		serverError(w, r, h.views, err, "Failed to look up user")
		return
	}

	user, err := h.service.Authenticate(ctx, form.Username, form.Password)
	if err != nil {
		serverError(w, r, h.views, err, "Failed to authenticate user")
		return
	}
	if user == nil {
		log.Warn().Str("username", form.Username).Msg("Failed sign-in attempt")
		services.RecordEvent(ctx, h.events, services.EventUserSigninFail, "warn",
			fmt.Sprintf("Wrong password for '%s'.", form.Username), nil)
		form.AddError("password", MsgWrongPassword)
		h.render(w, r, form, next)
		return
	}
	if !user.IsActive {
		form.AddError("", MsgRestricted)
		h.render(w, r, form, next)
		return
	}

	if err := h.sessions.Login(w, *user); err != nil {
		serverError(w, r, h.views, err, "Failed to generate session token")
		return
	}
	services.RecordEvent(ctx, h.events, services.EventUserSignin, "info",
		fmt.Sprintf("User '%s' signed in.", user.Username), &user.ID)

	if next == "" {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusFound)
}

// Signout clears the session and returns home.
func (h *UserHandler) Signout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *UserHandler) render(w http.ResponseWriter, r *http.Request, form *forms.SigninForm, next string) {
	h.views.Render(w, http.StatusOK, views.PageSignin, views.SigninPage{Base: base(r), Form: form, Next: next})
}

// safeNext keeps only local absolute paths so sign-in cannot redirect
// off-site. Browsers drop tabs and newlines and read a backslash as a slash,
// so any of those makes the value unsafe.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	if strings.ContainsAny(next, "\t\r\n\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
