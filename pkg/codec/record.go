package codec

import (
	"github.com/robotalks/pms.go/pkg/bits"
	"github.com/robotalks/pms.go/pkg/frame"
)

// Checksum bits carried at the end of a record.
const (
	ChecksumBits = 15
	ChecksumMask = 1<<ChecksumBits - 1
)

// MaxRecordSize is the size in bytes of the largest record: every field of
// a long frame using the 24-bit code plus the checksum bits.
const MaxRecordSize = (frame.NumFields*24 + ChecksumBits + 7) / 8

// Encoder encodes frames into records.
type Encoder struct {
	packer *bits.Packer
}

// NewEncoder creates an Encoder.
func NewEncoder() *Encoder {
	return &Encoder{packer: bits.NewPacker(MaxRecordSize)}
}

// Encode encodes f against base, the values of the previous frame or zeros
// at the start of a buffer. The returned bytes are only valid until the
// next call.
func (e *Encoder) Encode(f *frame.Frame, base *frame.Values) ([]byte, error) {
	cur := f.Values()
	e.packer.Reset()
	for _, field := range f.Variant.Fields() {
		if err := EncodeDelta(e.packer, cur[field]-base[field]); err != nil {
			return nil, err
		}
	}
	e.packer.Emit(uint32(f.Checksum), ChecksumBits)
	return e.packer.Bytes(), nil
}

// Decoder decodes the records of one buffer in order.
type Decoder struct {
	base frame.Values
}

// Reset restarts from a zero baseline, like at the start of a buffer.
func (d *Decoder) Reset() {
	d.base = frame.Values{}
}

// Decode decodes the next record. The returned frame carries only the low
// ChecksumBits of the wire checksum.
func (d *Decoder) Decode(variant frame.Variant, record []byte) (*frame.Frame, error) {
	r := bits.NewReader(record)
	var cur frame.Values
	for _, field := range variant.Fields() {
		delta, err := DecodeDelta(r)
		if err != nil {
			return nil, ErrCorruptRecord
		}
		cur[field] = d.base[field] + delta
	}
	sum, err := r.Read(ChecksumBits)
	if err != nil || r.Remaining() >= 8 {
		return nil, ErrCorruptRecord
	}
	d.base = cur
	return frame.FromValues(variant, cur, uint16(sum)), nil
}

// DecodeRecord decodes a record encoded against a zero baseline.
func DecodeRecord(variant frame.Variant, record []byte) (*frame.Frame, error) {
	var d Decoder
	return d.Decode(variant, record)
}
