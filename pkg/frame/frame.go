package frame

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Marker bytes starting every frame.
const (
	Marker0 byte = 'B'
	Marker1 byte = 'M'

	checksumBase = uint16(Marker0) + uint16(Marker1)
)

// Variant identifies the frame shape by its wire length.
type Variant uint16

const (
	// Short is the PMS3003 frame with two count bins.
	Short Variant = 0x14
	// Long is the PMS5003 frame with six count bins.
	Long Variant = 0x1c
)

// IsValid checks if it's a known frame shape.
func (v Variant) IsValid() bool {
	return v == Short || v == Long
}

// NumBins returns the number of particle count bins.
func (v Variant) NumBins() int {
	if v == Long {
		return 6
	}
	return 2
}

// WireSize returns the size of a complete frame including the marker.
func (v Variant) WireSize() int {
	return 4 + int(v)
}

// Fields returns the encodable fields of the variant in record order.
func (v Variant) Fields() []Field {
	if v == Long {
		return longFields
	}
	return shortFields
}

func (v Variant) String() string {
	switch v {
	case Short:
		return "short"
	case Long:
		return "long"
	}
	return fmt.Sprintf("variant(%#x)", uint16(v))
}

// Frame is one reading.
type Frame struct {
	Variant Variant

	PM1A  uint16
	PM25A uint16
	PM10A uint16
	PM1B  uint16
	PM25B uint16
	PM10B uint16

	// Counts holds c1..c6, only the first two are used by Short.
	Counts [6]uint16
	R1     uint16

	Checksum uint16
}

// Bins returns the count bins carried by the variant.
func (f *Frame) Bins() []uint16 {
	return f.Counts[:f.Variant.NumBins()]
}

// fields lists the body fields in wire order.
func (f *Frame) fields() []*uint16 {
	ptrs := []*uint16{&f.PM1A, &f.PM25A, &f.PM10A, &f.PM1B, &f.PM25B, &f.PM10B}
	for n := range f.Bins() {
		ptrs = append(ptrs, &f.Counts[n])
	}
	return append(ptrs, &f.R1)
}

// Sum computes the checksum over the length and the body fields.
func (f *Frame) Sum() uint16 {
	sum := checksumBase + uint16(f.Variant>>8) + uint16(f.Variant&0xff)
	for _, v := range f.fields() {
		sum += *v>>8 + *v&0xff
	}
	return sum
}

// Seal sets Checksum to the computed value.
func (f *Frame) Seal() *Frame {
	f.Checksum = f.Sum()
	return f
}

// Bytes returns the wire encoding using the current Checksum.
func (f *Frame) Bytes() []byte {
	b := make([]byte, 4, f.Variant.WireSize())
	b[0], b[1] = Marker0, Marker1
	binary.BigEndian.PutUint16(b[2:], uint16(f.Variant))
	for _, v := range f.fields() {
		b = append(b, byte(*v>>8), byte(*v))
	}
	return append(b, byte(f.Checksum>>8), byte(f.Checksum))
}

// WriteTo implements io.WriterTo.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

func (f *Frame) String() string {
	return fmt.Sprintf("%s pm1=%d/%d pm2.5=%d/%d pm10=%d/%d counts=%v r1=%d sum=%04x",
		f.Variant, f.PM1A, f.PM1B, f.PM25A, f.PM25B, f.PM10A, f.PM10B, f.Bins(), f.R1, f.Checksum)
}
