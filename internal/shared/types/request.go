package types

// OpenRequest asks for a new handle on a slot, by id or table name.
type OpenRequest struct {
	Slot *uint32 `json:"slot,omitempty"`
	Name *string `json:"name,omitempty"`
}

// SelectRequest selects the channel for a handle.
type SelectRequest struct {
	Channel uint32 `json:"channel" binding:"required"`
}

// WriteRequest carries a message payload for a handle's selected channel.
type WriteRequest struct {
	Data string `json:"data" binding:"required"`
}

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params" binding:"required"`
}
