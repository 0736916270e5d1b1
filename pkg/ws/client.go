package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type Client struct {
	conn *websocket.Conn
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

// Serve writes every message from send to the connection until send is closed
// or the peer goes away. Inbound frames are only read to handle control
// messages.
func (c *Client) Serve(send <-chan []byte) error {
	closed := make(chan struct{})
	go c.runReader(closed)

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				return c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}

		case <-closed:
			return nil
		}
	}
}

func (c *Client) runReader(closed chan<- struct{}) {
	defer close(closed)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
