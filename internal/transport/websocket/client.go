package websocket

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"medcare/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
)

var errHubStopped = errors.New("event hub stopped")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Browsers on other origins, same policy as the REST CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Client struct {
	actor domain.Actor
	conn  *websocket.Conn
	send  chan []byte
	hub   *Hub
}

// Serve upgrades the request and streams events for actor until the
// connection closes. The caller must have authenticated the actor.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, actor domain.Actor) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		actor: actor,
		conn:  conn,
		send:  make(chan []byte, eventBuffer),
		hub:   h,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return errHubStopped
	}

	go client.writePump()
	go client.readPump()

	return nil
}

// readPump only watches for pongs and close frames; clients never send events.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("event stream read error", zap.Int64("userId", c.actor.UserID), zap.Error(err))
			}
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
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Warn("failed to write event", zap.Int64("userId", c.actor.UserID), zap.Error(err))
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
