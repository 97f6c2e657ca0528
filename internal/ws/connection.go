package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Connection represents one active device relay WebSocket connection. Relays
// only receive commands; inbound frames are read to keep the connection alive
// and discarded. The write pump is the sole writer on the underlying socket;
// command frames and keepalive pings both go through it.
type Connection struct {
	relayID      string
	ws           *websocket.Conn
	send         chan []byte
	logger       *zap.Logger
	pingInterval time.Duration
	writeTimeout time.Duration
	onClose      func(relayID string)
}

// NewConnection builds a connection wrapper.
func NewConnection(relayID string, ws *websocket.Conn, pingInterval, writeTimeout time.Duration, logger *zap.Logger, onClose func(string)) *Connection {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Connection{
		relayID:      relayID,
		ws:           ws,
		send:         make(chan []byte, 16),
		logger:       logger,
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
		onClose:      onClose,
	}
}

// RelayID returns the identifier.
func (c *Connection) RelayID() string {
	return c.relayID
}

// Start launches read/write pumps.
func (c *Connection) Start(ctx context.Context) {
	go c.writePump(ctx)
	c.readPump(ctx)
}

func (c *Connection) readPump(ctx context.Context) {
	defer c.cleanup()
	c.ws.SetReadLimit(64 * 1024)
	c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := c.ws.ReadMessage()
		if err != nil {
			c.logger.Info("relay connection closed", zap.String("relay_id", c.relayID), zap.Error(err))
			return
		}
		// Relays may report status lines; there is no acknowledgment protocol,
		// so the frame only refreshes liveness.
		c.logger.Debug("relay message ignored", zap.String("relay_id", c.relayID), zap.Int("bytes", len(message)))
	}
}

func (c *Connection) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}

// Send enqueues a command frame without blocking. Reports whether the
// connection accepted it; a full buffer means the relay is stuck.
func (c *Connection) Send(msg []byte) (accepted bool) {
	defer func() {
		if r := recover(); r != nil {
			accepted = false
		}
	}()
	select {
	case c.send <- msg:
		return true
	default:
		c.logger.Warn("dropping command, relay buffer full", zap.String("relay_id", c.relayID))
		return false
	}
}

// Close tears the connection down.
func (c *Connection) Close() {
	if c.ws != nil {
		_ = c.ws.Close()
	}
}

func (c *Connection) write(messageType int, data []byte) error {
	c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(messageType, data)
}

func (c *Connection) cleanup() {
	close(c.send)
	_ = c.ws.Close()
	if c.onClose != nil {
		c.onClose(c.relayID)
	}
}
