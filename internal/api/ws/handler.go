package ws

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/perchos/mailslot/internal/infrastructure/logging"
	"github.com/perchos/mailslot/internal/infrastructure/monitoring"
	"github.com/perchos/mailslot/internal/mailbox"
	"github.com/perchos/mailslot/internal/shared/id"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler manages watch connections
type Handler struct {
	bus     *mailbox.Bus
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a new watch handler
func NewHandler(bus *mailbox.Bus, logger *logging.Logger) *Handler {
	return &Handler{
		bus:    bus,
		logger: logger,
	}
}

// WithMetrics adds metrics tracking to the handler
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// HandleConnection upgrades the request and streams write events until
// the client disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	var slotFilter *uint32
	if raw := c.Query("slot"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid slot: " + raw,
			})
			return
		}
		slot := uint32(parsed)
		slotFilter = &slot
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	watchID := id.NewWatchID()
	h.logger.Debug("Watcher connected", zap.String("watch_id", watchID.String()))
	defer h.logger.Debug("Watcher disconnected", zap.String("watch_id", watchID.String()))

	if h.metrics != nil {
		h.metrics.IncWatchers()
		defer h.metrics.DecWatchers()
	}

	events, cancel := h.bus.Subscribe(64)
	defer cancel()

	// Drain client frames so close and ping frames are processed; the
	// watch stream itself is one-directional.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.send(conn, map[string]interface{}{
		"type":     "system",
		"watch_id": watchID.String(),
		"message": func() string {
			if slotFilter != nil {
				return "watching slot " + strconv.FormatUint(uint64(*slotFilter), 10)
			}
			return "watching all slots"
		}(),
	})

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if slotFilter != nil && ev.Slot != *slotFilter {
				continue
			}
			if err := h.send(conn, map[string]interface{}{
				"type":    "write",
				"slot":    ev.Slot,
				"channel": ev.Channel,
				"length":  ev.Length,
			}); err != nil {
				return
			}
			if h.metrics != nil {
				h.metrics.IncEventsDelivered()
			}
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, payload map[string]interface{}) error {
	if err := conn.WriteJSON(payload); err != nil {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
		return err
	}
	return nil
}
