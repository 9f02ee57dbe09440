package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Logger is satisfied by the application logger.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 5 * time.Second
)

// ModerationEvent is pushed to every connected moderator.
type ModerationEvent struct {
	Type string      `json:"type"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// ModerationHub fans moderation events out to moderator dashboards.
type ModerationHub struct {
	upgrader websocket.Upgrader
	logger   Logger
	now      func() time.Time

	mu      sync.RWMutex
	clients map[string]*client
}

func NewModerationHub(logger Logger, now func() time.Time) *ModerationHub {
	if now == nil {
		now = time.Now
	}
	return &ModerationHub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:   logger,
		now:      now,
		clients:  make(map[string]*client),
	}
}

// ServeWS upgrades the request and keeps the connection until the peer leaves.
func (h *ModerationHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("moderation ws upgrade failed: %v", err)
		return
	}
	id := uuid.NewString()

	h.mu.Lock()
	h.clients[id] = &client{conn: conn}
	h.mu.Unlock()

	go h.readLoop(id, conn)
}

func (h *ModerationHub) readLoop(id string, conn *websocket.Conn) {
	defer func() {
		conn.Close()
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
	}()

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		if mt == websocket.TextMessage && strings.EqualFold(strings.TrimSpace(string(msg)), "ping") {
			h.write(id, []byte("pong"))
		}
	}
}

func (h *ModerationHub) write(id string, data []byte) {
	h.mu.RLock()
	c := h.clients[id]
	h.mu.RUnlock()
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Errorf("moderation ws %s write failed: %v", id, err)
	}
}

// Notify broadcasts an event to all connected moderators.
func (h *ModerationHub) Notify(eventType string, payload interface{}) {
	data, err := json.Marshal(ModerationEvent{Type: eventType, At: h.now(), Data: payload})
	if err != nil {
		h.logger.Errorf("moderation event %s: %v", eventType, err)
		return
	}

	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.write(id, data)
	}
}

// Connected reports the number of open moderator connections.
func (h *ModerationHub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close drops every connection.
func (h *ModerationHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.conn.Close()
		delete(h.clients, id)
	}
}
