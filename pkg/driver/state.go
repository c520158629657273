package driver

import "github.com/robotalks/pms.go/pkg/frame"

// State is the delta encoding baseline: the log buffer the last record was
// appended to and the values of that record.
type State struct {
	Index  uint32
	Values frame.Values
}

// Reset starts a zero baseline for the buffer identified by index.
func (s *State) Reset(index uint32) {
	s.Index, s.Values = index, frame.Values{}
}

// Commit records f as appended to the buffer identified by index.
func (s *State) Commit(index uint32, f *frame.Frame) {
	s.Index, s.Values = index, f.Values()
}
