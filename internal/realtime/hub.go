package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/pkg/logging"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = 54 * time.Second
	sendBufferSize  = 256
	maxConnsPerUser = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins before exposing the hub outside the app domain
		return true
	},
}

// Event is one message pushed to a connected client
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Client is one open connection of a user. A user may hold several at once.
type client struct {
	id     uuid.UUID
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub

	mu     sync.Mutex
	closed bool
}

// Hub tracks open connections per user and fans events out to all of a
// user's devices.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[uuid.UUID]*client
	logger  *zap.Logger
}

// NewHub creates an empty connection hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[uuid.UUID]*client),
		logger:  logging.GetLogger().With(zap.String("component", "realtime")),
	}
}

// Push sends an event to every open connection of userID. Users with no
// connection are skipped silently.
func (h *Hub) Push(userID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(Event{Type: event, Data: payload})
	if err != nil {
		h.logger.Warn("failed to marshal event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients[userID]))
	for _, c := range h.clients[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if !c.trySend(data) {
			// Slow consumer, drop the connection rather than block the hub
			go h.unregister(c)
		}
	}
}

// IsOnline reports whether userID has at least one open connection
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Close drops every open connection
func (h *Hub) Close() {
	h.mu.Lock()
	all := make([]*client, 0)
	for _, conns := range h.clients {
		for _, c := range conns {
			all = append(all, c)
		}
	}
	h.clients = make(map[uuid.UUID]map[uuid.UUID]*client)
	h.mu.Unlock()

	for _, c := range all {
		c.close()
		c.conn.Close()
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[uuid.UUID]*client)
	}
	if len(h.clients[c.userID]) >= maxConnsPerUser {
		return false
	}
	h.clients[c.userID][c.id] = c
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if conns, ok := h.clients[c.userID]; ok {
		delete(conns, c.id)
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()

	c.close()
}

// trySend queues data for the connection unless it is closed or its buffer
// is full. The client mutex orders the send against close, so a connection
// dropped between snapshot and send never receives on a closed channel.
func (c *client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// AuthFunc resolves a connection token to a user id
type AuthFunc func(token string) (uuid.UUID, error)

// Handler upgrades an HTTP request to a websocket connection. The token is
// carried as a query parameter since browsers cannot set headers on
// websocket upgrades.
func (h *Hub) Handler(auth AuthFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		userID, err := auth(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed",
				zap.String("user_id", userID.String()), zap.Error(err))
			return
		}

		cl := &client{
			id:     uuid.New(),
			userID: userID,
			conn:   conn,
			send:   make(chan []byte, sendBufferSize),
			hub:    h,
		}
		if !h.register(cl) {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too many connections"))
			conn.Close()
			return
		}

		go cl.readPump()
		go cl.writePump()
	}
}

// readPump drains incoming frames so pongs are processed; clients do not
// send application data over this connection.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
