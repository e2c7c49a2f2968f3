package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Bips27/tiffinly-daily-bites/models"

	"github.com/gorilla/websocket"
)

// MealUpdate is the payload pushed to a customer's tracking socket whenever
// one of their meals changes
type MealUpdate struct {
	MealID   uint                  `json:"meal_id"`
	Event    string                `json:"event"` // "status_change" | "customized"
	Status   models.DeliveryStatus `json:"status,omitempty"`
	Message  string                `json:"message"`
	Occurred time.Time             `json:"occurred_at"`
}

type Client struct {
	UserID uint
	Conn   *websocket.Conn

	// Serializes writes — gorilla/websocket supports at most one
	// concurrent writer per connection
	writeMu sync.Mutex
}

func (c *Client) send(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub fans meal updates out to each user's connected tracking sockets
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Broadcast pushes an update to every socket the user has open. Write errors
// are ignored; a dead connection is cleaned up by its reader loop.
func (h *Hub) Broadcast(userID uint, update MealUpdate) {
	msg, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.send(msg)
	}
}
