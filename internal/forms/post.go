package forms

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// MaxTitleLength bounds the title field.
const MaxTitleLength = 200

// BoardExists reports whether a board id refers to an existing board.
type BoardExists func(ctx context.Context, id int64) (bool, error)

// PostForm collects the user-editable fields of a post. Notice flag,
// timestamps, view counter and author are never read from input.
type PostForm struct {
	Form
	Title   string
	BoardID *int64
	Content string
}

// postInput carries the trimmed values through validation. Blank content
// counts as missing but is stored as typed.
type postInput struct {
	Title   string `form:"title" validate:"required,max=200"`
	Content string `form:"content" validate:"required"`
}

// NewPostForm binds submitted values without validating them.
func NewPostForm(values url.Values) *PostForm {
	return &PostForm{Form: newForm(values)}
}

// Validate checks the fields and fills the cleaned values. boardExists is
// consulted only when a board was chosen.
func (f *PostForm) Validate(ctx context.Context, boardExists BoardExists) (bool, error) {
	f.Title = strings.TrimSpace(f.Values.Get("title"))
	f.Content = f.Values.Get("content")
	f.check(postInput{Title: f.Title, Content: strings.TrimSpace(f.Content)})

	if raw := strings.TrimSpace(f.Values.Get("board")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			f.AddError("board", "Select a valid board.")
		} else {
			ok, err := boardExists(ctx, id)
			if err != nil {
				return false, err
			}
			if !ok {
				f.AddError("board", "Select a valid board.")
			} else {
				f.BoardID = &id
			}
		}
	}
	return f.Valid(), nil
}

// SelectedBoard returns the submitted board id for re-rendering the select.
func (f *PostForm) SelectedBoard() int64 {
	id, _ := strconv.ParseInt(f.Values.Get("board"), 10, 64)
	return id
}
