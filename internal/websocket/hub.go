// Package websocket pushes sheet change notifications to connected
// front ends so they can refresh without polling.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Change describes one successful write. Type is "<sheet>.<action>".
type Change struct {
	Type   string `json:"type"`
	Sheet  string `json:"sheet"`
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func NewChange(sheet, action, id string, data any) Change {
	return Change{
		Type:   sheet + "." + action,
		Sheet:  sheet,
		Action: action,
		ID:     id,
		Data:   data,
	}
}

// Hub tracks connected clients and fans changes out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger.With("component", "websocket"),
	}
}

// Register adds c. It reports false once the hub is closed.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

// Unregister removes c and closes its send channel. Calling it twice is safe.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast queues ch for every client. A client whose buffer is full
// misses the change.
func (h *Hub) Broadcast(ch Change) {
	data, err := json.Marshal(ch)
	if err != nil {
		h.logger.Error("marshal change", "type", ch.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("change dropped for slow clients", "type", ch.Type, "clients", dropped)
	}
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
