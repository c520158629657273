package codec

import (
	"github.com/robotalks/pms.go/pkg/bits"
)

// Magnitude limits of the variable-length code.
const (
	SmallMax     = 32
	MaxMagnitude = 65568

	smallWidth  = 5
	largeWidth  = 16
	smallEscape = 1<<smallWidth - 1
)

// EncodeDelta emits the variable-length code of v:
//
//	0            -> 1
//	+1 / -1      -> 001 / 011
//	±[2,32]      -> 0s0 xxxxx        (m-2)
//	±[33,65568]  -> 0s0 11111 x{16}  (m-33)
//
// Nothing is emitted if |v| > MaxMagnitude.
func EncodeDelta(p *bits.Packer, v int32) error {
	if v == 0 {
		p.Emit(1, 1)
		return nil
	}
	m, sign := magnitude(v)
	if m > MaxMagnitude {
		return ErrValueOutOfRange
	}
	p.Emit(0, 1)
	p.Emit(sign, 1)
	if m == 1 {
		p.Emit(1, 1)
		return nil
	}
	p.Emit(0, 1)
	if m <= SmallMax {
		p.Emit(m-2, smallWidth)
		return nil
	}
	p.Emit(smallEscape, smallWidth)
	p.Emit(m-SmallMax-1, largeWidth)
	return nil
}

// DecodeDelta reads one value written by EncodeDelta.
func DecodeDelta(r *bits.Reader) (int32, error) {
	b, err := r.Read(1)
	if err != nil || b == 1 {
		return 0, err
	}
	sign, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	m, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	if m == 0 {
		if m, err = r.Read(smallWidth); err != nil {
			return 0, err
		}
		if m != smallEscape {
			m += 2
		} else if m, err = r.Read(largeWidth); err != nil {
			return 0, err
		} else {
			m += SmallMax + 1
		}
	}
	if sign != 0 {
		return -int32(m), nil
	}
	return int32(m), nil
}

// DeltaBits returns the code length of v in bits, or 0 if v is out of range.
func DeltaBits(v int32) int {
	m, _ := magnitude(v)
	switch {
	case v == 0:
		return 1
	case m == 1:
		return 3
	case m <= SmallMax:
		return 8
	case m <= MaxMagnitude:
		return 24
	}
	return 0
}

func magnitude(v int32) (uint32, uint32) {
	if v < 0 {
		return uint32(-int64(v)), 1
	}
	return uint32(v), 0
}
