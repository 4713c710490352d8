package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens out of band; cross-origin browsers are allowed to
	// open the socket and must still join before receiving anything.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection. It starts in the connected
// state and only enters the registry once the peer sends a joinRoom
// event with a user id.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	logger *slog.Logger

	send chan []byte

	mu     sync.Mutex
	closed bool
}

// Deliver queues an event for the write pump without blocking.
func (c *Client) Deliver(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

func (c *Client) sendEvent(event string, data any) {
	b, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	c.Deliver(b)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Registry().Leave(c)
		c.shutdown()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendEvent(EventError, "malformed event")
			continue
		}
		switch env.Event {
		case EventJoinRoom:
			c.handleJoin(env.Data)
		default:
			// Unknown client events are ignored.
		}
	}
}

// handleJoin accepts the user id as either a JSON string or number.
// Both forms go through the same numeric check, so "0" and 0 are
// rejected alike.
func (c *Client) handleJoin(data json.RawMessage) {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		var n uint64
		if err := json.Unmarshal(data, &n); err == nil {
			id = strconv.FormatUint(n, 10)
		}
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		c.sendEvent(EventError, "User ID is required to join room")
		return
	}
	key := "user:" + strconv.FormatUint(n, 10)
	if err := c.hub.Registry().Join(c, key); err != nil {
		c.sendEvent(EventError, err.Error())
		return
	}
	c.logger.Info("connection joined", "key", key)
	c.sendEvent(EventRoomJoined, key)
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

// ServeWS upgrades the request and runs the connection's pumps.
func ServeWS(hub *Hub, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		client := &Client{
			hub:    hub,
			conn:   conn,
			logger: logger,
			send:   make(chan []byte, sendBuffer),
		}
		go client.writePump()
		go client.readPump()
	}
}
