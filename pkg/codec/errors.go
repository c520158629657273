package codec

import "errors"

var (
	// ErrValueOutOfRange indicates a delta too large for the variable-length code.
	ErrValueOutOfRange = errors.New("value out of range")
	// ErrCorruptRecord indicates a record which doesn't decode cleanly.
	ErrCorruptRecord = errors.New("corrupt record")
)
