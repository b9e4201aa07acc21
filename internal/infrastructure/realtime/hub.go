package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Hub fans change events out to connected stream clients. Each client
// gets its own buffered channel; a client that cannot keep up has events
// dropped rather than stalling the feed.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan ChangeEvent]struct{}
	buffer  int
	logger  *zap.Logger
}

// NewHub creates a hub with the given per-client buffer size.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[chan ChangeEvent]struct{}),
		buffer:  buffer,
		logger:  logger,
	}
}

// Subscribe registers a new client. The returned cancel func must be
// called when the client disconnects.
func (h *Hub) Subscribe() (<-chan ChangeEvent, func()) {
	ch := make(chan ChangeEvent, h.buffer)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.clients[ch]; ok {
			delete(h.clients, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast delivers an event to every connected client, dropping it for
// clients whose buffers are full.
func (h *Hub) Broadcast(event ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			h.logger.Warn("Dropping change event for slow client",
				zap.String("entity", event.Entity),
				zap.String("action", string(event.Action)))
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
