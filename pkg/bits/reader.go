package bits

import "errors"

// ErrShortBuffer indicates a read past the end of the data.
var ErrShortBuffer = errors.New("bits: short buffer")

// Reader reads values in the order they were emitted by a Packer.
type Reader struct {
	data []byte
	pos  uint
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Read reads a value of width bits (1..MaxWidth).
func (r *Reader) Read(width uint) (uint32, error) {
	if width == 0 || width > MaxWidth {
		panic("bits: invalid width")
	}
	if uint(r.Remaining()) < width {
		return 0, ErrShortBuffer
	}
	var v uint32
	for n := uint(0); n < width; {
		b := uint32(r.data[r.pos/8]) >> (r.pos % 8)
		take := 8 - r.pos%8
		if take > width-n {
			take = width - n
		}
		v |= (b & (1<<take - 1)) << n
		n += take
		r.pos += take
	}
	return v, nil
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return len(r.data)*8 - int(r.pos)
}

// Pos returns the number of bits consumed.
func (r *Reader) Pos() int {
	return int(r.pos)
}
