package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	writeTimeout  = 3 * time.Second
	sendQueueSize = 64
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients by id and fans messages out to them. Each
// client gets a buffered outbound queue drained by its own writer goroutine,
// so a slow reader cannot stall the session loop; a client that overflows its
// queue or fails a write is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

func (h *Hub) Add(id string, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendQueueSize)}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	go c.writePump()
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()
	if ok {
		close(c.send)
	}
}

// Broadcast queues a message for every connected client. Queue order per
// client matches call order, so all clients observe the same event sequence.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		if !c.enqueue(message) {
			delete(h.clients, id)
			close(c.send)
		}
	}
}

// Send queues a message for a single client; unknown ids are ignored (the
// connection may have raced a disconnect).
func (h *Hub) Send(id string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	if !c.enqueue(message) {
		delete(h.clients, id)
		close(c.send)
	}
}

// SendMany queues a message for each of the given client ids.
func (h *Hub) SendMany(ids []string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range ids {
		c, ok := h.clients[id]
		if !ok {
			continue
		}
		if !c.enqueue(message) {
			delete(h.clients, id)
			close(c.send)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *client) enqueue(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *client) writePump() {
	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			_ = c.conn.Close(websocket.StatusNormalClosure, "")
			// Drain so a concurrent Broadcast cannot block on the queue.
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.Close(websocket.StatusNormalClosure, "")
}
