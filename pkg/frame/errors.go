package frame

import "fmt"

// ChecksumError indicates the received checksum doesn't match the bytes.
type ChecksumError struct {
	Computed uint16
	Received uint16
}

// Error implements error.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: computed %04x, received %04x", e.Computed, e.Received)
}
