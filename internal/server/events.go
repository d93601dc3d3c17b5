package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airdraw/internal/server/api"
)

// DefaultEventInterval is the state broadcast period (~15 FPS).
const DefaultEventInterval = 66 * time.Millisecond

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Event is one state message on the events socket.
type Event struct {
	api.State
	Timestamp int64 `json:"timestamp"`
}

// EventsHandler pushes the drawing state to WebSocket clients.
type EventsHandler struct {
	engine   api.Engine
	interval time.Duration

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewEventsHandler creates a handler broadcasting engine state every
// interval once Run is called.
func NewEventsHandler(engine api.Engine, interval time.Duration) *EventsHandler {
	if interval <= 0 {
		interval = DefaultEventInterval
	}
	return &EventsHandler{
		engine:   engine,
		interval: interval,
		clients:  make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client disconnects. Incoming messages are ignored.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer h.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *EventsHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Clients returns the number of connected sockets.
func (h *EventsHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run broadcasts until ctx is done.
func (h *EventsHandler) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if h.Clients() == 0 {
				continue
			}
			h.Broadcast()
		}
	}
}

// Broadcast sends the current state to every client, dropping clients whose
// write fails.
func (h *EventsHandler) Broadcast() {
	msg, err := json.Marshal(Event{
		State:     api.CurrentState(h.engine),
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("Failed to encode state: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// CloseAll disconnects every client.
func (h *EventsHandler) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		delete(h.clients, conn)
	}
}
