package models

import (
	"strconv"
	"time"
)

// Post is a user-authored content item. Board and author are weak
// references: deleting either leaves the post with a nil link.
type Post struct {
	ID           int64     `json:"id"`
	BoardID      *int64    `json:"boardId"`
	BoardName    string    `json:"boardName,omitempty"`
	AuthorID     *int64    `json:"authorId"`
	AuthorName   string    `json:"author,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	IsNotice     bool      `json:"isNotice"`
	Views        int64     `json:"views"`
	DateCreated  time.Time `json:"dateCreated"`
	DateModified time.Time `json:"dateModified"`
}

// URL returns the post's detail page path.
func (p Post) URL() string {
	return "/posts/" + strconv.FormatInt(p.ID, 10)
}

// BoardURL returns the detail path of the post's board, or "" when the
// post has none.
func (p Post) BoardURL() string {
	if p.BoardID == nil {
		return ""
	}
	return "/boards/" + strconv.FormatInt(*p.BoardID, 10)
}

func (p Post) String() string {
	return p.Title
}
