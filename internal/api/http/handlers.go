package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/perchos/mailslot/internal/device"
	"github.com/perchos/mailslot/internal/mailbox"
	"github.com/perchos/mailslot/internal/service"
	"github.com/perchos/mailslot/internal/shared/types"
)

// Handlers holds the HTTP handler dependencies
type Handlers struct {
	devices  *device.Manager
	registry *service.Registry
}

// NewHandlers creates the handler set
func NewHandlers(devices *device.Manager, registry *service.Registry) *Handlers {
	return &Handlers{
		devices:  devices,
		registry: registry,
	}
}

// Root returns service identification
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "mailslot",
		"status":  "running",
	})
}

// Health returns liveness and store occupancy
func (h *Handlers) Health(c *gin.Context) {
	stats := h.devices.StoreStats()
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"open_handles": h.devices.Handles(),
		"entries":      stats.Entries,
	})
}

// ListSlots returns the device table
func (h *Handlers) ListSlots(c *gin.Context) {
	table := h.devices.Table()
	if table == nil {
		c.JSON(http.StatusOK, gin.H{"slots": []device.SlotDef{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": table.Slots()})
}

// OpenHandle creates a handle on a slot (by id or table name)
func (h *Handlers) OpenHandle(c *gin.Context) {
	var req types.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	var handleID string
	switch {
	case req.Name != nil:
		id, err := h.devices.OpenByName(*req.Name)
		if err != nil {
			c.JSON(statusFor(err), gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		handleID = id
	case req.Slot != nil:
		handleID = h.devices.Open(*req.Slot)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "either slot or name must be provided",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"handle_id": handleID,
	})
}

// SelectChannel selects the channel for a handle
func (h *Handlers) SelectChannel(c *gin.Context) {
	var req types.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	err := h.devices.Control(c.Param("id"), device.OpSelectChannel, req.Channel)
	if err != nil {
		c.JSON(statusFor(err), gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"channel": req.Channel,
	})
}

// WriteMessage stores a message on the handle's selected channel
func (h *Handlers) WriteMessage(c *gin.Context) {
	var req types.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	written, err := h.devices.Write(c.Param("id"), []byte(req.Data))
	if err != nil {
		c.JSON(statusFor(err), gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"bytes_written": written,
	})
}

// ReadMessage returns the message on the handle's selected channel
func (h *Handlers) ReadMessage(c *gin.Context) {
	capacity := mailbox.MaxMessageSize
	if raw := c.Query("capacity"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid capacity: " + raw,
			})
			return
		}
		capacity = parsed
	}

	msg, err := h.devices.Read(c.Param("id"), capacity)
	if err != nil {
		c.JSON(statusFor(err), gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    string(msg),
		"bytes":   len(msg),
	})
}

// CloseHandle discards a handle
func (h *Handlers) CloseHandle(c *gin.Context) {
	if !h.devices.Close(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown handle: " + c.Param("id"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// UnregisterSlot tears down a slot: open handles close, messages drop
func (h *Handlers) UnregisterSlot(c *gin.Context) {
	slot, err := strconv.ParseUint(c.Param("slot"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid slot: " + c.Param("slot"),
		})
		return
	}

	closed, removed := h.devices.Unregister(uint32(slot))
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"handles_closed":  closed,
		"entries_removed": removed,
	})
}

// ListServices returns registered service definitions
func (h *Handlers) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(nil),
		"stats":    h.registry.Stats(),
	})
}

// ExecuteService runs a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	result, _ := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, nil)
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mailbox.ErrNoMessage):
		return http.StatusNotFound
	case errors.Is(err, device.ErrUnknownHandle), errors.Is(err, device.ErrUnknownSlot):
		return http.StatusNotFound
	case errors.Is(err, mailbox.ErrInvalidSize),
		errors.Is(err, mailbox.ErrInvalidChannel),
		errors.Is(err, mailbox.ErrUnknownOperation),
		errors.Is(err, mailbox.ErrNoChannelSelected):
		return http.StatusBadRequest
	case errors.Is(err, mailbox.ErrBufferTooSmall):
		return http.StatusRequestedRangeNotSatisfiable
	case errors.Is(err, mailbox.ErrResourceExhausted):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}
