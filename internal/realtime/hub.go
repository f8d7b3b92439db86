package realtime

import (
	"encoding/json"
	"sync"
)

// Event types pushed to browsers after a task changes.
const (
	EventTaskCreated = "task_created"
	EventTaskUpdated = "task_updated"
	EventTaskDeleted = "task_deleted"
)

// Event tells connected pages that their lists are stale.
type Event struct {
	Type   string `json:"type"`
	TaskID int64  `json:"taskId"`
}

// Client represents a single websocket client connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains open browser connections and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Client]struct{})}
}

// Register adds a client.
func (h *Hub) Register(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

// Unregister removes a client.
func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a raw message to every client and returns how many accepted it.
// Clients whose write fails are unregistered and closed.
func (h *Hub) Broadcast(message []byte) int {
	h.mu.RLock()
	sent := 0
	var dead []Client
	for c := range h.clients {
		if c.Send(message) {
			sent++
		} else {
			dead = append(dead, c)
		}
	}
	h.mu.RUnlock()

	if len(dead) > 0 {
		h.mu.Lock()
		for _, c := range dead {
			delete(h.clients, c)
		}
		h.mu.Unlock()
		for _, c := range dead {
			c.Close()
		}
	}
	return sent
}

// Publish encodes the event and broadcasts it.
func (h *Hub) Publish(evt Event) {
	if bytes, err := json.Marshal(evt); err == nil {
		h.Broadcast(bytes)
	}
}
