package models

import (
	"strconv"
	"time"
)

// Board is a named category of posts.
type Board struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Order       int       `json:"order"`
	DateCreated time.Time `json:"dateCreated"`
}

// URL returns the board's detail page path.
func (b Board) URL() string {
	return "/boards/" + strconv.FormatInt(b.ID, 10)
}

func (b Board) String() string {
	return b.Name
}
