// Package ws pushes state-change notifications to connected UI clients.
// The register is local-first: the UI never receives state over the socket,
// only a "something changed" signal with the kind of state that changed, and
// re-reads the HTTP surface for the data.
package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event is the message broadcast to every connected UI client.
type Event struct {
	Type string `json:"type"`
	Kind string `json:"kind,omitempty"`
}

// EventStateChanged signals that a slice of register state was mutated.
// Kind carries which one ("order", "history", "catalog").
const EventStateChanged = "state_changed"

// Hub maintains the set of connected UI clients and broadcasts events to
// them. A tablet register typically has one client, but nothing stops a
// kitchen display from connecting too.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event

	mu  sync.RWMutex
	log *zap.Logger
}

// NewHub creates a Hub. logger may be nil.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		log:        logger,
	}
}

// Run starts the hub's main loop. Call as a goroutine: go hub.Run().
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				h.log.Warn("marshal ws event", zap.Error(err))
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full, the client is not draining.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an event for every connected client. Never blocks the
// caller; the state store's change listener calls this on its mutation path.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
		h.log.Warn("ws broadcast queue full, dropping event", zap.String("kind", event.Kind))
	}
}

// NotifyStateChanged is the store's ChangeListener.
func (h *Hub) NotifyStateChanged(kind string) {
	h.Broadcast(Event{Type: EventStateChanged, Kind: kind})
}
