package ws

import (
	"encoding/json"
	"sync"
)

// Client is one live delivery channel belonging to a user. A user may hold
// several at once (multiple tabs/devices).
//
// Send is never closed: a broadcast may race with a disconnect, and a send
// on a closed channel would panic the sender. Shutdown is signaled through
// Done instead, and deliver drops messages once the client is closed.
type Client struct {
	UserID uint
	Send   chan []byte
	done   chan struct{}
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func NewClient(userID uint, buffer int) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan []byte, buffer),
		done:   make(chan struct{}),
	}
}

// Done is closed when the client disconnects; writePump exits on it.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// deliver offers data to the client without ever blocking: a full buffer or
// a concurrently closing client drops the message.
func (c *Client) deliver(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub is the live-connection registry: identity -> active channels. It is
// created at service start and injected where needed, never ambient state.
// Registration, removal and broadcast are all safe under concurrency,
// including a client closing mid-broadcast.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byUser: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
}

// SendToUser marshals payload and offers it to every channel registered under
// the identity. Sends never block: a channel with a full buffer misses the
// event, and a user with no channels misses it silently. The durable ledger
// is the record of truth, not this push.
func (h *Hub) SendToUser(userID uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	m := h.byUser[userID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.deliver(data)
	}
}

// ConnectionCount reports how many channels an identity currently holds.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}
