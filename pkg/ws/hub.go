package ws

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync"
)

const clientBufferSize = 1 << 6

// Hub keeps the clients subscribed to channels and fans messages out to them.
// A channel can have many clients, for example a user connected from two
// devices.
type Hub struct {
	counter atomic.Int64
	clients *xsync.MapOf[string, *subscription]
}

type subscription struct {
	channel string
	send    chan []byte

	mu     sync.Mutex
	closed bool
}

// trySend queues msg without blocking. It reports false when the buffer is
// full or the subscription is already closed.
func (s *subscription) trySend(msg []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

func NewHub() *Hub {
	return &Hub{clients: xsync.NewMapOf[*subscription]()}
}

// Register subscribes a new client to channel. It returns the client id used to
// unregister and the channel receiving broadcast messages.
func (h *Hub) Register(channel string) (string, <-chan []byte) {
	id := channel + "#" + strconv.FormatInt(h.counter.Add(1), 10)
	sub := &subscription{channel: channel, send: make(chan []byte, clientBufferSize)}
	h.clients.Store(id, sub)
	return id, sub.send
}

func (h *Hub) Unregister(clientID string) error {
	sub, ok := h.clients.LoadAndDelete(clientID)
	if !ok {
		return errors.New("the client has not registered yet")
	}

	sub.close()
	return nil
}

// Broadcast sends msg to all clients of channel. A client whose buffer is full
// is dropped.
func (h *Hub) Broadcast(channel string, msg []byte) {
	h.clients.Range(func(id string, sub *subscription) bool {
		if sub.channel != channel {
			return true
		}

		if !sub.trySend(msg) {
			_ = h.Unregister(id)
		}

		return true
	})
}
