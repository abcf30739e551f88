package ws

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Sender delivers an encoded frame to one connection without blocking and
// reports whether it was queued.
type Sender interface {
	Send(connectionID string, frame []byte) bool
}

// Hub keeps the live websocket per connection id.
type Hub struct {
	conns sync.Map // connectionID -> *clientConn
}

func NewHub() *Hub { return &Hub{} }

func (h *Hub) Add(c *clientConn) {
	h.conns.Store(c.id, c)
}

func (h *Hub) Remove(connectionID string) {
	h.conns.Delete(connectionID)
}

// Send queues frame for connectionID. A connection whose queue is full is
// treated as dead and closed so its reader cleans it up.
func (h *Hub) Send(connectionID string, frame []byte) bool {
	v, ok := h.conns.Load(connectionID)
	if !ok {
		return false
	}
	c := v.(*clientConn)
	if err := c.enqueue(frame); err != nil {
		if errors.Is(err, errSendBufferFull) {
			zap.L().Warn("ws.slow_consumer", zap.String("connection_id", connectionID))
			_ = c.rawConn.Close()
		}
		return false
	}
	return true
}

func (h *Hub) Len() int {
	n := 0
	h.conns.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
