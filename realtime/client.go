package realtime

import (
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/mayankbisht-tech/excelidraw/logger"
	"github.com/mayankbisht-tech/excelidraw/shared"
)

const (
	// writeWait bounds how long a single frame write may take.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead. Pings go out at pingPeriod to keep it talking.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxFrameSize caps inbound frames; shape payloads are small.
	maxFrameSize = 64 * 1024

	// sendBuffer is the per-connection fan-out queue. When it fills, new
	// frames for this connection are dropped rather than blocking the
	// sender; the client self-heals with a snapshot fetch on reconnect.
	sendBuffer = 64
)

// Client is one live websocket session. Its lifetime is a single
// connection: a reconnecting client is a brand-new Client that must join
// its room again and re-fetch a snapshot over HTTP to catch up.
type Client struct {
	conn     *websocket.Conn
	registry *Registry
	send     chan []byte
	done     chan struct{}
}

func NewClient(conn *websocket.Conn, registry *Registry) *Client {
	return &Client{
		conn:     conn,
		registry: registry,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
}

// Deliver queues a frame for this client without blocking. It reports
// false when the client is gone or its queue is full.
func (c *Client) Deliver(message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// Run pumps the connection until it dies. It blocks the calling handler
// goroutine on reads, which is what the websocket middleware expects, and
// spawns one writer goroutine for outbound frames. On any exit path the
// client leaves its room and the connection is closed.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.registry.Leave(c)
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket closed unexpectedly: %v", err)
			}
			return
		}
		c.handleFrame(data)
	}
}

// handleFrame applies one client frame. Join subscribes the connection to
// a room, moving it if it was subscribed elsewhere. Anything the server
// does not understand is ignored; a malformed frame only costs a log line.
func (c *Client) handleFrame(data []byte) {
	frame, err := ParseClientFrame(data)
	if err != nil {
		if shared.IsClientError(err) {
			logger.Debug("ignoring bad frame: %v", err)
			return
		}
		logger.Error("failed to handle frame: %v", err)
		return
	}

	switch frame.Type {
	case FrameJoin:
		c.registry.Join(frame.RoomId, c)
	default:
		logger.Debug("ignoring frame of unknown type %q", frame.Type)
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
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}
