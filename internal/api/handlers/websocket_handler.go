package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	ws "github.com/isdelr/bulletin-board/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades feed requests to WebSocket connections.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The feed only carries public post data.
		return true
	},
}

// Serve subscribes the client to new posts, on every board or on the board
// named by the board query parameter.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := ws.AllBoards
	if raw := r.URL.Query().Get("board"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid board")
			return
		}
		key = ws.BoardKey(id)
	}

	// Join before the handshake completes so no post published after the
	// client sees the upgrade is missed.
	client := ws.NewClient(h.hub, key)
	if !h.hub.Join(client) {
		writeJSONError(w, http.StatusServiceUnavailable, "feed unavailable")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.Leave(client)
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}
	client.Start(conn)
}
