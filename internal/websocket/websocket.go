// Package websocket pushes session and event status changes to open
// console pages, so a logout in one tab bounces every tab to the login
// page and dashboards refresh when an organizer moves an event along.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SohamKamathi18/synaphack/internal/logger"
	"github.com/SohamKamathi18/synaphack/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The console serves a single local user; cross-origin pages
		// cannot reach the backend without the token anyway.
		return true
	},
}

// Message is the frame sent to connected pages.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// SessionReader exposes the current session state to the hub.
type SessionReader interface {
	Snapshot() session.Snapshot
}

// Hub maintains the set of connected pages and broadcasts messages to them.
type Hub struct {
	log        logger.Logger
	clients    map[*client]bool
	broadcast  chan Message
	register   chan *client
	unregister chan *client
	mutex      sync.RWMutex
	sessions   SessionReader
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// New creates a Hub reading the current session state from sessions.
func New(log logger.Logger, sessions SessionReader) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*client]bool),
		broadcast:  make(chan Message),
		register:   make(chan *client),
		unregister: make(chan *client),
		sessions:   sessions,
	}
}

// Start begins the hub's main loop in a goroutine.
func (h *Hub) Start() {
	go h.run()
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c] = true
			h.mutex.Unlock()
			h.log.Debug("page connected", "total_clients", len(h.clients))

			// Bring the new page up to date immediately
			go func() {
				snap := h.sessions.Snapshot()
				c.send <- Message{
					Type:    "session_status",
					Payload: map[string]interface{}{"status": snap.Status.String()},
				}
			}()

		case c := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			h.log.Debug("page disconnected", "total_clients", len(h.clients))

		case message := <-h.broadcast:
			h.mutex.RLock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Client's send channel is full, unregister
					go func(c *client) {
						h.unregister <- c
					}(c)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastMessage sends a message to all connected pages.
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	h.broadcast <- Message{Type: msgType, Payload: payload}
}

// BroadcastSessionStatus implements session.Broadcaster.
func (h *Hub) BroadcastSessionStatus(status string) {
	h.BroadcastMessage("session_status", map[string]interface{}{
		"status": status,
	})
}

// BroadcastEventStatus announces an event lifecycle change.
func (h *Hub) BroadcastEventStatus(eventID, status string) {
	h.BroadcastMessage("event_status", map[string]interface{}{
		"event_id": eventID,
		"status":   status,
	})
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("websocket error", "error", err)
			}
			break
		}

		// Pages only listen; log anything they send for diagnostics
		var msg Message
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("received message", "type", msg.Type)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			msgBytes, _ := json.Marshal(message)
			w.Write(msgBytes)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and registers the page with the hub.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade error", "error", err)
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan Message, 256),
	}
	h.register <- c

	go c.writePump()
	go c.readPump()
}
