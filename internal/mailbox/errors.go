package mailbox

import "errors"

// Error taxonomy for store and handle operations. Every operation either
// succeeds or returns exactly one of these; there is no partial success.
var (
	// ErrInvalidSize reports a write whose payload is empty or exceeds
	// MaxMessageSize.
	ErrInvalidSize = errors.New("message size must be between 1 and 128 bytes")

	// ErrInvalidChannel reports a selection of the reserved channel id 0.
	ErrInvalidChannel = errors.New("channel id must be non-zero")

	// ErrUnknownOperation reports an unrecognized control code.
	ErrUnknownOperation = errors.New("unknown control operation")

	// ErrNoChannelSelected reports a read or write on a handle that never
	// selected a channel.
	ErrNoChannelSelected = errors.New("no channel selected")

	// ErrNoMessage reports a read on a channel that was never written.
	ErrNoMessage = errors.New("no message stored for channel")

	// ErrBufferTooSmall reports a read whose destination capacity is less
	// than the stored message length.
	ErrBufferTooSmall = errors.New("buffer capacity smaller than stored message")

	// ErrResourceExhausted reports a write that would create a new entry
	// beyond the store's configured capacity.
	ErrResourceExhausted = errors.New("store entry limit reached")
)
