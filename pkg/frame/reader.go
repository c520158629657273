package frame

import "io"

// Reader pulls bytes from a source and yields validated frames.
type Reader struct {
	Source io.ByteReader

	parser Parser
}

// NewReader creates a Reader.
func NewReader(src io.ByteReader) *Reader {
	return &Reader{Source: src}
}

// Next reads until a frame completes. A frame failing the checksum is
// reported as *ChecksumError and the Reader resumes seeking on the next
// call. Errors from the source are returned as is and drop the partial
// frame.
func (r *Reader) Next() (*Frame, error) {
	for {
		b, err := r.Source.ReadByte()
		if err != nil {
			r.parser.Reset()
			return nil, err
		}
		if pr := r.parser.Parse(b); pr.Err != nil || pr.Frame != nil {
			return pr.Frame, pr.Err
		}
	}
}

// State returns the state of the underlying Parser.
func (r *Reader) State() State {
	return r.parser.State()
}

// Stats returns the parsing counters.
func (r *Reader) Stats() Stats {
	return r.parser.Stats()
}
