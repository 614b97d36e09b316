// Package broadcast fans persisted access logs out to live WebSocket
// subscribers (dashboards). Delivery is best-effort: a slow or closed
// subscriber is dropped, never waited on, and publish failures are invisible
// to the write path.
package broadcast

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/taggate/taggate/internal/models"
	"github.com/taggate/taggate/pkg/logger"
	"github.com/taggate/taggate/pkg/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// EventAccessLog is emitted once per persisted access log.
	EventAccessLog = "access_log"
	// EventWelcome is sent immediately after a subscriber connects.
	EventWelcome = "welcome"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the API is CORS-open; the socket follows the same policy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Envelope wraps every message sent over the socket.
type Envelope struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Client is one subscriber connection.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub maintains the live subscriber set and broadcasts access logs to it.
// The set is guarded by a mutex; Publish fans out to exactly the connections
// subscribed at the moment it runs, so a subscriber that joins afterwards
// never sees the event.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.BroadcastSubscribers.Set(float64(n))
	logger.Infof("broadcast: subscriber %s connected (total %d)", c.id, n)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		metrics.BroadcastSubscribers.Set(float64(n))
		logger.Infof("broadcast: subscriber %s disconnected (total %d)", c.id, n)
	}
}

// Publish delivers one access log to every current subscriber. It never
// blocks: a subscriber whose send buffer is full is dropped on the spot (the
// record itself is already durable, only the live notification is lost).
// Concurrent publishers are serialized on the hub lock, so subscribers see
// events in the order the lock was acquired.
func (h *Hub) Publish(log models.AccessLog) {
	msg, err := json.Marshal(Envelope{Event: EventAccessLog, Data: log, Timestamp: time.Now().Unix()})
	if err != nil {
		logger.Errorf("broadcast: marshal failed: %v", err)
		return
	}
	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// send buffer full: subscriber is too slow, drop it
			delete(h.clients, c)
			close(c.send)
			metrics.BroadcastDropped.Inc()
			logger.Warnf("broadcast: dropped slow subscriber %s", c.id)
		}
	}
	metrics.BroadcastSubscribers.Set(float64(len(h.clients)))
	h.mu.Unlock()
}

// SubscriberCount reports the current number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWS upgrades the request to a WebSocket, sends the welcome envelope
// and registers the connection with the hub.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("broadcast: upgrade failed: %v", err)
		return
	}
	cl := &Client{id: uuid.NewString(), conn: conn, send: make(chan []byte, 32), hub: h}

	welcome, _ := json.Marshal(Envelope{Event: EventWelcome, Data: gin.H{"id": cl.id}, Timestamp: time.Now().Unix()})
	cl.send <- welcome

	h.register(cl)
	go cl.writePump()
	go cl.readPump()
}

// readPump drains inbound frames so pongs and close frames are processed.
// Subscribers do not send application messages.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
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

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
