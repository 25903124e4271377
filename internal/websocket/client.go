package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is a single feed subscriber.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Key is the subscription key: AllBoards or a BoardKey.
	Key string

	// Buffered channel of outbound messages.
	Send chan []byte
}

// NewClient creates a client subscribed under key. Messages queue on Send
// until Start attaches a connection.
func NewClient(hub *Hub, key string) *Client {
	return &Client{hub: hub, Key: key, Send: make(chan []byte, 16)}
}

// Start attaches conn and runs the read and write pumps.
func (c *Client) Start(conn *websocket.Conn) {
	c.conn = conn
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump drains the connection so control frames are processed, and
// unregisters the client when the peer goes away. The feed is one-way, so
// inbound data messages are discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump forwards queued messages to the connection and keeps it alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
