package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Outbound message types.
const (
	MessageTypeChange = "CHANGE"
	MessageTypePong   = "PONG"
)

// Message is the envelope written to the peer.
type Message struct {
	Type  string              `json:"type"`
	Event *domain.ChangeEvent `json:"event,omitempty"`
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan Message

	// User ID for this client.
	UserID uuid.UUID

	// tables holds the client's table filter. Empty means all tables.
	tables map[domain.ChangeTable]bool

	// closeOnce ensures the Send channel is only closed once
	closeOnce sync.Once

	// mu protects the tables map
	mu sync.RWMutex

	// logger for this client
	logger *slog.Logger
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, logger *slog.Logger) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan Message, 256),
		UserID: userID,
		tables: make(map[domain.ChangeTable]bool),
		logger: logger.With("user_id", userID.String()),
	}
}

// CloseSend safely closes the Send channel exactly once
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// WantsTable reports whether the client should receive events for a table.
// A client with no explicit filter receives everything.
func (c *Client) WantsTable(table domain.ChangeTable) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.tables) == 0 {
		return true
	}
	return c.tables[table]
}

// Subscribe narrows the client's filter to include the given table. Used by
// the HTTP handler to honor filters requested at connect time.
func (c *Client) Subscribe(table domain.ChangeTable) {
	c.addTable(table)
}

func (c *Client) addTable(table domain.ChangeTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[table] = true
}

func (c *Client) removeTable(table domain.ChangeTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tables, table)
}

// ReadPump pumps messages from the websocket connection to the hub.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The hub closed the channel. Send close message.
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
				return
			}

			if err := c.writeJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// writeJSON writes a JSON message to the websocket connection
func (c *Client) writeJSON(message Message) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(message); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// --- Incoming Message Handling ---

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// TablePayload is the payload for subscribe/unsubscribe messages
type TablePayload struct {
	Table string `json:"table"`
}

// handleIncomingMessage processes messages received from the client
func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case "SUBSCRIBE_TO_TABLE":
		c.handleSubscribe(msg.Payload)

	case "UNSUBSCRIBE_FROM_TABLE":
		c.handleUnsubscribe(msg.Payload)

	case "PING":
		// Client-side keep-alive, respond with pong
		c.sendPong()

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}

func (c *Client) handleSubscribe(payload json.RawMessage) {
	var p TablePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn("failed to unmarshal subscribe payload", "error", err)
		return
	}

	if p.Table == "" {
		c.logger.Warn("empty table in subscribe request")
		return
	}

	c.addTable(domain.ChangeTable(p.Table))
}

func (c *Client) handleUnsubscribe(payload json.RawMessage) {
	var p TablePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn("failed to unmarshal unsubscribe payload", "error", err)
		return
	}

	c.removeTable(domain.ChangeTable(p.Table))
}

func (c *Client) sendPong() {
	select {
	case c.Send <- Message{Type: MessageTypePong}:
	default:
		// Channel full, skip pong response
	}
}
