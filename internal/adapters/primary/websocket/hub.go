package websocket

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// Hub maintains the set of active Clients and fans change notifications
// out to them. Clients without an explicit table filter receive every
// event; a client that subscribed to specific tables receives only those.
type Hub struct {
	// Clients maps user IDs to their active connections
	// A single user can have multiple connections (multiple tabs/devices)
	clients map[uuid.UUID]map[*Client]bool

	// Broadcast channel for change events
	broadcast chan domain.ChangeEvent

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the clients map
	mu sync.RWMutex

	// logger for the hub
	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan domain.ChangeEvent, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast queues a change event for delivery to connected clients.
// This method implements the ports.EventBroadcaster interface.
func (h *Hub) Broadcast(event domain.ChangeEvent) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"table", event.Table,
			"seq", event.Seq,
		)
		return nil
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true

	h.logger.Info("client registered",
		"user_id", client.UserID,
		"total_connections", len(h.clients[client.UserID]),
	)
}

// unregisterClient removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userClients, ok := h.clients[client.UserID]; ok {
		if _, exists := userClients[client]; exists {
			delete(userClients, client)
			if len(userClients) == 0 {
				delete(h.clients, client.UserID)
			}
		}
	}

	client.CloseSend()

	h.logger.Info("client unregistered",
		"user_id", client.UserID,
	)
}

// broadcastEvent delivers an event to every client whose table filter
// matches
func (h *Hub) broadcastEvent(event domain.ChangeEvent) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, userClients := range h.clients {
		for client := range userClients {
			if client.WantsTable(event.Table) {
				clients = append(clients, client)
			}
		}
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting change event",
		"table", event.Table,
		"seq", event.Seq,
		"client_count", len(clients),
	)

	message := Message{Type: MessageTypeChange, Event: &event}
	for _, client := range clients {
		select {
		case client.Send <- message:
			// Successfully queued
		default:
			// Client's send buffer is full, unregister them
			h.logger.Warn("client send buffer full, unregistering",
				"user_id", client.UserID,
			)
			h.Unregister <- client
		}
	}
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, userClients := range h.clients {
		count += len(userClients)
	}
	return count
}

// IsUserConnected checks if a user has any active connections
func (h *Hub) IsUserConnected(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[userID]
	return ok && len(clients) > 0
}

// SendToUser sends a message directly to a specific user (all their connections)
func (h *Hub) SendToUser(userID uuid.UUID, message Message) {
	h.mu.RLock()
	clients, ok := h.clients[userID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	for _, client := range clientList {
		select {
		case client.Send <- message:
		default:
			// Buffer full, skip this connection
		}
	}
}
