package stream

import (
	"sync"
)

// wsConn is the subset of *websocket.Conn that Channel needs. Accepting
// this interface rather than the concrete type lets tests drive a
// Channel without a real network connection.
type wsConn interface {
	WriteJSON(v interface{}) error
	ReadJSON(v interface{}) error
	Close() error
}

// Channel is one full-duplex connection keyed by execution ID. Sends
// are non-blocking: Send never stalls the caller waiting on a slow or
// stuck client.
type Channel struct {
	executionID string
	conn        wsConn

	outbound chan OutboundMessage
	closed   chan struct{}
	closeOnce sync.Once
}

func newChannel(executionID string, conn wsConn, bufferSize int) *Channel {
	return &Channel{
		executionID: executionID,
		conn:        conn,
		outbound:    make(chan OutboundMessage, bufferSize),
		closed:      make(chan struct{}),
	}
}

// ExecutionID returns the execution this channel is attached to.
func (c *Channel) ExecutionID() string { return c.executionID }

// Send queues msg for delivery. If the channel is already closed, the
// send is silently dropped. If the outbound buffer is full, the
// oldest queued message is dropped to make room — a stalled client
// loses history, not liveness.
func (c *Channel) Send(msg OutboundMessage) {
	select {
	case <-c.closed:
		return
	default:
	}

	select {
	case c.outbound <- msg:
		return
	default:
	}

	select {
	case <-c.outbound:
	default:
	}
	select {
	case c.outbound <- msg:
	default:
	}
}

// Close terminates the channel's goroutines and underlying connection.
// Safe to call more than once or concurrently.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.conn.Close()
	})
}

// writePump drains outbound and writes each message as a JSON frame
// until the channel is closed or a write fails.
func (c *Channel) writePump() {
	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.outbound:
			if err := c.conn.WriteJSON(msg); err != nil {
				c.Close()
				return
			}
		}
	}
}

// readPump reads inbound control frames and dispatches each to onInbound
// until the connection errors or closes, then calls onClose exactly once.
func (c *Channel) readPump(onInbound func(InboundMessage), onClose func()) {
	defer onClose()
	for {
		var msg InboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.Close()
			return
		}
		if onInbound != nil {
			onInbound(msg)
		}
	}
}

const defaultBufferSize = 64

// Hub is the process-wide registry of active channels, one per
// execution_id, mirroring the scheduler's own active-executions map.
type Hub struct {
	mu         sync.RWMutex
	channels   map[string]*Channel
	bufferSize int
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{channels: make(map[string]*Channel), bufferSize: defaultBufferSize}
}

// Register attaches conn as the channel for executionID, starts its
// pumps, sends the initial "connected" event, and returns the Channel.
// A prior channel for the same execution ID is replaced and closed.
func (h *Hub) Register(executionID string, conn wsConn, onInbound func(InboundMessage)) *Channel {
	ch := newChannel(executionID, conn, h.bufferSize)

	h.mu.Lock()
	if old, ok := h.channels[executionID]; ok {
		old.Close()
	}
	h.channels[executionID] = ch
	h.mu.Unlock()

	go ch.writePump()
	go ch.readPump(onInbound, func() { h.unregisterIfCurrent(executionID, ch) })

	ch.Send(OutboundMessage{Type: OutConnected, ExecutionID: executionID})
	return ch
}

// Get returns the channel for executionID, if one is registered.
func (h *Hub) Get(executionID string) (*Channel, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ch, ok := h.channels[executionID]
	return ch, ok
}

// Unregister closes and removes executionID's channel, if any.
func (h *Hub) Unregister(executionID string) {
	h.mu.Lock()
	ch, ok := h.channels[executionID]
	delete(h.channels, executionID)
	h.mu.Unlock()
	if ok {
		ch.Close()
	}
}

func (h *Hub) unregisterIfCurrent(executionID string, ch *Channel) {
	h.mu.Lock()
	if current, ok := h.channels[executionID]; ok && current == ch {
		delete(h.channels, executionID)
	}
	h.mu.Unlock()
}

// Broadcast sends msg to every currently registered channel. Used for
// admin-facing fan-out; ordinary per-execution events go through the
// single Channel returned by Register.
func (h *Hub) Broadcast(msg OutboundMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.channels {
		ch.Send(msg)
	}
}

// Count returns the number of currently registered channels.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}
