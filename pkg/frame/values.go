package frame

import "fmt"

// Field indexes the encodable values derived from a frame.
type Field int

// Encodable fields in record order. Mass concentrations are carried as
// increments over the next smaller size and count bins as increments over
// the next larger bin.
const (
	FieldPM1A Field = iota
	FieldPM25AD
	FieldPM10AD
	FieldPM1B
	FieldPM25BD
	FieldPM10BD
	FieldC1D
	FieldC2D
	FieldC3D
	FieldC4D
	FieldC5D
	FieldC6
	FieldR1

	NumFields int = iota
)

var (
	fieldNames = [NumFields]string{
		"pm1a", "pm25ad", "pm10ad", "pm1b", "pm25bd", "pm10bd",
		"c1d", "c2d", "c3d", "c4d", "c5d", "c6", "r1",
	}

	shortFields = []Field{
		FieldPM1A, FieldPM25AD, FieldPM10AD,
		FieldPM1B, FieldPM25BD, FieldPM10BD,
		FieldC1D, FieldC2D,
		FieldR1,
	}
	longFields = []Field{
		FieldPM1A, FieldPM25AD, FieldPM10AD,
		FieldPM1B, FieldPM25BD, FieldPM10BD,
		FieldC1D, FieldC2D, FieldC3D, FieldC4D, FieldC5D, FieldC6,
		FieldR1,
	}
)

func (f Field) String() string {
	if f >= 0 && int(f) < NumFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Values holds one value per Field.
type Values [NumFields]int32

// Values derives the encodable values. Bins not carried by the variant
// are zero, so for Short c2d is c2 itself.
func (f *Frame) Values() (v Values) {
	c := f.Counts
	if f.Variant != Long {
		c[2], c[3], c[4], c[5] = 0, 0, 0, 0
	}
	v[FieldPM1A] = int32(f.PM1A)
	v[FieldPM25AD] = int32(f.PM25A) - int32(f.PM1A)
	v[FieldPM10AD] = int32(f.PM10A) - int32(f.PM25A)
	v[FieldPM1B] = int32(f.PM1B)
	v[FieldPM25BD] = int32(f.PM25B) - int32(f.PM1B)
	v[FieldPM10BD] = int32(f.PM10B) - int32(f.PM25B)
	v[FieldC1D] = int32(c[0]) - int32(c[1])
	v[FieldC2D] = int32(c[1]) - int32(c[2])
	v[FieldC3D] = int32(c[2]) - int32(c[3])
	v[FieldC4D] = int32(c[3]) - int32(c[4])
	v[FieldC5D] = int32(c[4]) - int32(c[5])
	v[FieldC6] = int32(c[5])
	v[FieldR1] = int32(f.R1)
	return
}

// FromValues rebuilds a frame from derived values, the inverse of Values.
// Fields the variant doesn't carry are ignored.
func FromValues(variant Variant, v Values, checksum uint16) *Frame {
	f := &Frame{Variant: variant, Checksum: checksum}
	f.PM1A = uint16(v[FieldPM1A])
	f.PM25A = uint16(v[FieldPM1A] + v[FieldPM25AD])
	f.PM10A = uint16(v[FieldPM1A] + v[FieldPM25AD] + v[FieldPM10AD])
	f.PM1B = uint16(v[FieldPM1B])
	f.PM25B = uint16(v[FieldPM1B] + v[FieldPM25BD])
	f.PM10B = uint16(v[FieldPM1B] + v[FieldPM25BD] + v[FieldPM10BD])
	var acc int32
	if variant == Long {
		acc = v[FieldC6]
		f.Counts[5] = uint16(acc)
		for n, field := range []Field{FieldC5D, FieldC4D, FieldC3D} {
			acc += v[field]
			f.Counts[4-n] = uint16(acc)
		}
	}
	acc += v[FieldC2D]
	f.Counts[1] = uint16(acc)
	acc += v[FieldC1D]
	f.Counts[0] = uint16(acc)
	f.R1 = uint16(v[FieldR1])
	return f
}
