package driver

import "fmt"

// RotationError indicates the log kept starting new buffers and never
// accepted a record.
type RotationError struct {
	Index    uint32
	Attempts int
}

// Error implements error.
func (e *RotationError) Error() string {
	return fmt.Sprintf("log rotated %d times without accepting record (last index %d)", e.Attempts, e.Index)
}
