package websocket

import (
	"context"
	"strconv"

	"github.com/isdelr/bulletin-board/internal/models"
	"github.com/rs/zerolog/log"
)

// AllBoards is the subscription key for clients following every board.
const AllBoards = "all"

// BoardKey is the subscription key for a single board.
func BoardKey(boardID int64) string {
	return strconv.FormatInt(boardID, 10)
}

type delivery struct {
	key     string
	message []byte
}

// Hub maintains the set of active clients and fans new posts out to them.
// All maps are owned by the Run goroutine.
type Hub struct {
	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	publish chan delivery
	done    chan struct{}

	// Subscription key to the set of clients following it.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		publish:       make(chan delivery, 64),
		done:          make(chan struct{}),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run processes hub traffic until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, subs := range h.subscriptions {
				for client := range subs {
					close(client.Send)
				}
			}
			h.subscriptions = make(map[string]map[*Client]bool)
			return
		case client := <-h.Register:
			if h.subscriptions[client.Key] == nil {
				h.subscriptions[client.Key] = make(map[*Client]bool)
			}
			h.subscriptions[client.Key][client] = true
			log.Debug().Str("key", client.Key).Int("subscribers", len(h.subscriptions[client.Key])).Msg("Feed client connected")
		case client := <-h.Unregister:
			h.remove(client)
		case d := <-h.publish:
			h.deliver(AllBoards, d.message)
			if d.key != AllBoards {
				h.deliver(d.key, d.message)
			}
		}
	}
}

// PublishPost announces post to clients following all boards and to those
// following its board. It never blocks the caller for long: when the queue
// is full the announcement is dropped.
func (h *Hub) PublishPost(post models.Post) {
	d := delivery{key: AllBoards, message: NewPostCreatedMessage(post)}
	if post.BoardID != nil {
		d.key = BoardKey(*post.BoardID)
	}
	select {
	case h.publish <- d:
	default:
		log.Warn().Int64("post_id", post.ID).Msg("Feed queue full, dropping announcement")
	}
}

// Join registers client, reporting false once the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave detaches client, or does nothing once the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) deliver(key string, message []byte) {
	for client := range h.subscriptions[key] {
		select {
		case client.Send <- message:
		default:
			// Slow consumer.
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	subs, ok := h.subscriptions[client.Key]
	if !ok || !subs[client] {
		return
	}
	delete(subs, client)
	close(client.Send)
	if len(subs) == 0 {
		delete(h.subscriptions, client.Key)
	}
	log.Debug().Str("key", client.Key).Msg("Feed client disconnected")
}
