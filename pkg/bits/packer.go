// Package bits packs and unpacks variable width values with no byte
// alignment between them.
package bits

// MaxWidth is the widest value accepted by Emit and Read.
const MaxWidth = 16

// Packer accumulates values of variable bit width into a byte buffer,
// least-significant bit first.
type Packer struct {
	out     []byte
	scratch uint32
	pending uint
}

// NewPacker creates a Packer with a fixed output capacity in bytes.
func NewPacker(capacity int) *Packer {
	return &Packer{out: make([]byte, 0, capacity)}
}

// Emit appends the width low-order bits of v.
// Width must be in 1..MaxWidth and the output must not exceed the capacity,
// otherwise Emit panics.
func (p *Packer) Emit(v uint32, width uint) {
	if width == 0 || width > MaxWidth {
		panic("bits: invalid width")
	}
	p.scratch |= (v & (1<<width - 1)) << p.pending
	p.pending += width
	for p.pending >= 8 {
		if len(p.out) == cap(p.out) {
			panic("bits: packer overflow")
		}
		p.out = append(p.out, byte(p.scratch))
		p.scratch >>= 8
		p.pending -= 8
	}
}

// Reset clears the output and the scratch register.
func (p *Packer) Reset() {
	p.out = p.out[:0]
	p.scratch, p.pending = 0, 0
}

// BitLen returns the number of bits emitted since the last Reset.
func (p *Packer) BitLen() int {
	return len(p.out)*8 + int(p.pending)
}

// Bytes returns the output rounded up to whole bytes. Unused high bits of
// the last byte are zero. The returned slice is only valid until the next
// Emit or Reset.
func (p *Packer) Bytes() []byte {
	if p.pending == 0 {
		return p.out
	}
	return append(p.out[:len(p.out):len(p.out)], byte(p.scratch))
}
