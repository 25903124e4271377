package websocket

import (
	"encoding/json"

	"github.com/isdelr/bulletin-board/internal/models"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// ActionPostCreated announces a newly created post.
const ActionPostCreated = "post.created"

// NewPostCreatedMessage encodes the announcement for post.
func NewPostCreatedMessage(post models.Post) []byte {
	b, _ := json.Marshal(Message{Action: ActionPostCreated, Payload: post})
	return b
}
