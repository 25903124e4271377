package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/isdelr/bulletin-board/internal/forms"
	"github.com/isdelr/bulletin-board/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var files embed.FS

// Page names accepted by Render.
const (
	PageIndex       = "index.html"
	PageSignin      = "signin.html"
	PageBoardList   = "board_list.html"
	PageBoardDetail = "board_detail.html"
	PagePostDetail  = "post_detail.html"
	PagePostForm    = "post_form.html"
	PageError       = "error.html"
)

// Base is embedded by every page; the layout reads CurrentUser for the nav.
type Base struct {
	CurrentUser *models.User
}

type IndexPage struct {
	Base
	Boards []models.Board
}

type SigninPage struct {
	Base
	Form *forms.SigninForm
	Next string
}

type BoardListPage struct {
	Base
	Boards []models.Board
}

type BoardDetailPage struct {
	Base
	Board  models.Board
	Posts  []models.Post
	Boards []models.Board
}

type PostDetailPage struct {
	Base
	Post   models.Post
	Boards []models.Board
	CanPin bool
}

type PostFormPage struct {
	Base
	Form   *forms.PostForm
	Boards []models.Board
}

type ErrorPage struct {
	Base
	Status  int
	Message string
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
	md    goldmark.Markdown
}

// New parses every page template up front so a broken template fails at
// startup rather than on first request.
func New() (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}

	funcs := template.FuncMap{
		"markdown": r.markdown,
		"date":     formatDate,
	}

	for _, page := range []string{PageIndex, PageSignin, PageBoardList, PageBoardDetail, PagePostDetail, PagePostForm, PageError} {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(files, "templates/layout.html", "templates/partials.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render writes page with the given status. The template is executed into a
// buffer first so a failure can still produce a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := r.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("Unknown page template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("Failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Markdown converts post content to HTML. Raw HTML in the source is
// omitted by goldmark's default renderer.
func (r *Renderer) Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) markdown(source string) template.HTML {
	out, err := r.Markdown(source)
	if err != nil {
		log.Warn().Err(err).Msg("Markdown conversion failed, falling back to escaped text")
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(out)
}

func formatDate(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
