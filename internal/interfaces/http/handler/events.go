package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sprayshop/backend/internal/infrastructure/realtime"
)

// EventsHandler streams the change feed to browsers over SSE and serves
// the mirrored read model clients use to seed their local state before
// tailing the stream.
type EventsHandler struct {
	BaseHandler
	hub               *realtime.Hub
	mirror            *realtime.Mirror
	heartbeatInterval time.Duration
	logger            *zap.Logger
}

// NewEventsHandler creates a new EventsHandler. Heartbeats keep
// intermediaries from closing an idle stream.
func NewEventsHandler(hub *realtime.Hub, mirror *realtime.Mirror, heartbeatInterval time.Duration, logger *zap.Logger) *EventsHandler {
	if heartbeatInterval <= 0 {
		heartbeatInterval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsHandler{
		hub:               hub,
		mirror:            mirror,
		heartbeatInterval: heartbeatInterval,
		logger:            logger,
	}
}

// RegisterRoutes registers the SSE and read-model routes
func (h *EventsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/events", h.Stream)
	rg.GET("/events/state", h.State)
}

// State handles GET /events/state. It returns every mirrored row grouped
// by entity so a reconnecting client can resync without replaying the
// feed.
func (h *EventsHandler) State(c *gin.Context) {
	if h.mirror == nil {
		h.Success(c, gin.H{})
		return
	}

	state := make(map[string][]json.RawMessage, 4)
	for _, entity := range []string{
		realtime.EntityCustomer,
		realtime.EntityStockItem,
		realtime.EntityInvoice,
		realtime.EntityPayment,
	} {
		state[entity] = h.mirror.Rows(entity)
	}
	h.Success(c, state)
}

// Stream handles GET /events
func (h *EventsHandler) Stream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.BadRequest(c, "Streaming is not supported on this connection")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	events, cancel := h.hub.Subscribe()
	defer cancel()

	// Tell the client the stream is live before the first event.
	fmt.Fprintf(c.Writer, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn("Failed to encode change event", zap.Error(err))
				continue
			}
			fmt.Fprintf(c.Writer, "event: change\ndata: %s\n\n", payload)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(c.Writer, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
