package mailbox

import (
	"context"
	"fmt"

	"github.com/perchos/mailslot/internal/device"
	"github.com/perchos/mailslot/internal/mailbox"
	"github.com/perchos/mailslot/internal/shared/types"
)

// Provider implements mailbox operations over the device manager
type Provider struct {
	devices *device.Manager
}

// NewProvider creates a new mailbox provider
func NewProvider(devices *device.Manager) *Provider {
	return &Provider{devices: devices}
}

// Definition returns the service definition
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "mailbox",
		Name:        "Slot Mailbox",
		Description: "Per-slot channel mailboxes holding the single most recent message per channel",
		Category:    types.CategoryDevice,
		Capabilities: []string{
			"open",
			"select_channel",
			"write",
			"read",
			"close",
			"slots",
			"statistics",
		},
		Tools: []types.Tool{
			{
				ID:          "mailbox.open",
				Name:        "Open Slot",
				Description: "Open a handle on a slot with no channel selected",
				Parameters: []types.Parameter{
					{
						Name:        "slot",
						Type:        "number",
						Description: "Slot id to open",
						Required:    false,
					},
					{
						Name:        "name",
						Type:        "string",
						Description: "Slot name from the device table (alternative to slot)",
						Required:    false,
					},
				},
				Returns: "Handle ID (string)",
			},
			{
				ID:          "mailbox.select",
				Name:        "Select Channel",
				Description: "Select the channel targeted by subsequent reads and writes",
				Parameters: []types.Parameter{
					{
						Name:        "handle_id",
						Type:        "string",
						Description: "Open handle id",
						Required:    true,
					},
					{
						Name:        "channel",
						Type:        "number",
						Description: "Non-zero channel id",
						Required:    true,
					},
				},
				Returns: "Success confirmation",
			},
			{
				ID:          "mailbox.write",
				Name:        "Write Message",
				Description: "Store a message (1-128 bytes) on the selected channel, replacing any prior message",
				Parameters: []types.Parameter{
					{
						Name:        "handle_id",
						Type:        "string",
						Description: "Open handle id",
						Required:    true,
					},
					{
						Name:        "data",
						Type:        "string",
						Description: "Message payload",
						Required:    true,
					},
				},
				Returns: "Number of bytes stored",
			},
			{
				ID:          "mailbox.read",
				Name:        "Read Message",
				Description: "Read the stored message on the selected channel without consuming it",
				Parameters: []types.Parameter{
					{
						Name:        "handle_id",
						Type:        "string",
						Description: "Open handle id",
						Required:    true,
					},
					{
						Name:        "capacity",
						Type:        "number",
						Description: "Destination buffer capacity in bytes (default: 128)",
						Required:    false,
					},
				},
				Returns: "Message payload (string)",
			},
			{
				ID:          "mailbox.close",
				Name:        "Close Handle",
				Description: "Discard the handle; stored messages remain for future handles",
				Parameters: []types.Parameter{
					{
						Name:        "handle_id",
						Type:        "string",
						Description: "Open handle id",
						Required:    true,
					},
				},
				Returns: "Success confirmation",
			},
			{
				ID:          "mailbox.slots",
				Name:        "List Slots",
				Description: "List slots declared in the device table",
				Parameters:  []types.Parameter{},
				Returns:     "Array of slot definitions",
			},
			{
				ID:          "mailbox.stats",
				Name:        "Get Statistics",
				Description: "Report open handles and store occupancy",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute handles mailbox tool execution
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "mailbox.open":
		return p.open(params)
	case "mailbox.select":
		return p.selectChannel(params)
	case "mailbox.write":
		return p.write(params)
	case "mailbox.read":
		return p.read(params)
	case "mailbox.close":
		return p.close(params)
	case "mailbox.slots":
		return p.slots()
	case "mailbox.stats":
		return p.stats()
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) open(params map[string]interface{}) (*types.Result, error) {
	if name, ok := params["name"].(string); ok && name != "" {
		handleID, err := p.devices.OpenByName(name)
		if err != nil {
			return failure(err.Error())
		}
		return success(map[string]interface{}{
			"handle_id": handleID,
			"name":      name,
		})
	}

	slot, ok := params["slot"].(float64)
	if !ok {
		return failure("slot or name is required")
	}

	handleID := p.devices.Open(uint32(slot))
	return success(map[string]interface{}{
		"handle_id": handleID,
		"slot":      uint32(slot),
	})
}

func (p *Provider) selectChannel(params map[string]interface{}) (*types.Result, error) {
	handleID, ok := params["handle_id"].(string)
	if !ok {
		return failure("handle_id is required")
	}

	channel, ok := params["channel"].(float64)
	if !ok {
		return failure("channel is required")
	}

	if err := p.devices.Control(handleID, device.OpSelectChannel, uint32(channel)); err != nil {
		return failure(err.Error())
	}

	return success(map[string]interface{}{
		"handle_id": handleID,
		"channel":   uint32(channel),
	})
}

func (p *Provider) write(params map[string]interface{}) (*types.Result, error) {
	handleID, ok := params["handle_id"].(string)
	if !ok {
		return failure("handle_id is required")
	}

	data, ok := params["data"].(string)
	if !ok {
		return failure("data is required")
	}

	written, err := p.devices.Write(handleID, []byte(data))
	if err != nil {
		return failure(err.Error())
	}

	return success(map[string]interface{}{
		"bytes_written": written,
	})
}

func (p *Provider) read(params map[string]interface{}) (*types.Result, error) {
	handleID, ok := params["handle_id"].(string)
	if !ok {
		return failure("handle_id is required")
	}

	capacity := mailbox.MaxMessageSize
	if c, ok := params["capacity"].(float64); ok {
		capacity = int(c)
	}

	msg, err := p.devices.Read(handleID, capacity)
	if err != nil {
		return failure(err.Error())
	}

	return success(map[string]interface{}{
		"data":  string(msg),
		"bytes": len(msg),
	})
}

func (p *Provider) close(params map[string]interface{}) (*types.Result, error) {
	handleID, ok := params["handle_id"].(string)
	if !ok {
		return failure("handle_id is required")
	}

	if !p.devices.Close(handleID) {
		return failure(fmt.Sprintf("unknown handle: %s", handleID))
	}

	return success(map[string]interface{}{
		"closed": true,
	})
}

func (p *Provider) slots() (*types.Result, error) {
	table := p.devices.Table()
	if table == nil {
		return success(map[string]interface{}{
			"slots": []device.SlotDef{},
			"count": 0,
		})
	}

	defs := table.Slots()
	return success(map[string]interface{}{
		"slots": defs,
		"count": len(defs),
	})
}

func (p *Provider) stats() (*types.Result, error) {
	storeStats := p.devices.StoreStats()
	return success(map[string]interface{}{
		"open_handles": p.devices.Handles(),
		"entries":      storeStats.Entries,
		"max_entries":  storeStats.MaxEntries,
	})
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{
		Success: true,
		Data:    data,
	}, nil
}

func failure(message string) (*types.Result, error) {
	errMsg := message
	return &types.Result{
		Success: false,
		Error:   &errMsg,
	}, fmt.Errorf("%s", message)
}
