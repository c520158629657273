package frame

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	exampleShortBytes = []byte{
		'B', 'M', 0x00, 0x14,
		0x00, 0x0a, 0x00, 0x14, 0x00, 0x1e,
		0x00, 0x05, 0x00, 0x0a, 0x00, 0x14,
		0x00, 0x03, 0x00, 0x02,
		0x00, 0x00,
		0x01, 0x07,
	}

	exampleShort = Frame{
		Variant:  Short,
		PM1A:     10,
		PM25A:    20,
		PM10A:    30,
		PM1B:     5,
		PM25B:    10,
		PM10B:    20,
		Counts:   [6]uint16{3, 2},
		Checksum: 0x0107,
	}

	exampleLong = Frame{
		Variant: Long,
		PM1A:    12,
		PM25A:   18,
		PM10A:   21,
		PM1B:    11,
		PM25B:   17,
		PM10B:   20,
		Counts:  [6]uint16{2100, 640, 101, 12, 4, 1},
		R1:      0x9100,
	}
)

func randomFrame(rnd *rand.Rand, variant Variant) *Frame {
	f := &Frame{Variant: variant}
	for _, v := range f.fields() {
		*v = uint16(rnd.Intn(0x10000))
	}
	return f.Seal()
}

func TestVariant(t *testing.T) {
	require.True(t, Short.IsValid())
	require.True(t, Long.IsValid())
	require.False(t, Variant(0x15).IsValid())
	require.Equal(t, 2, Short.NumBins())
	require.Equal(t, 6, Long.NumBins())
	require.Equal(t, 24, Short.WireSize())
	require.Equal(t, 32, Long.WireSize())
	require.Len(t, Short.Fields(), 9)
	require.Len(t, Long.Fields(), 13)
	require.Equal(t, "short", Short.String())
	require.Equal(t, "long", Long.String())
}

func TestFrameBytes(t *testing.T) {
	f := exampleShort
	f.Checksum = 0
	require.Equal(t, uint16(0x0107), f.Sum())
	require.Equal(t, exampleShortBytes, f.Seal().Bytes())

	long := exampleLong
	raw := long.Seal().Bytes()
	require.Len(t, raw, Long.WireSize())
	var buf bytes.Buffer
	n, err := long.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(len(raw)), n)
	require.Equal(t, raw, buf.Bytes())
}

func TestChecksumIsByteSum(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for n := 0; n < 200; n++ {
		variant := Short
		if n%2 == 1 {
			variant = Long
		}
		f := randomFrame(rnd, variant)
		raw := f.Bytes()
		sum := uint16(143)
		for _, b := range raw[2 : len(raw)-2] {
			sum += uint16(b)
		}
		require.Equal(t, sum, f.Checksum)
	}
}

func TestValues(t *testing.T) {
	v := exampleShort.Values()
	require.Equal(t, Values{
		FieldPM1A: 10, FieldPM25AD: 10, FieldPM10AD: 10,
		FieldPM1B: 5, FieldPM25BD: 5, FieldPM10BD: 10,
		FieldC1D: 1, FieldC2D: 2,
	}, v)

	v = exampleLong.Values()
	require.Equal(t, int32(2100-640), v[FieldC1D])
	require.Equal(t, int32(640-101), v[FieldC2D])
	require.Equal(t, int32(101-12), v[FieldC3D])
	require.Equal(t, int32(12-4), v[FieldC4D])
	require.Equal(t, int32(4-1), v[FieldC5D])
	require.Equal(t, int32(1), v[FieldC6])
	require.Equal(t, int32(0x9100), v[FieldR1])
}

func TestShortIgnoresLongBins(t *testing.T) {
	f := exampleShort
	f.Counts[2], f.Counts[5] = 7, 9
	require.Equal(t, exampleShort.Values(), f.Values())
}

func TestFromValues(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for n := 0; n < 200; n++ {
		variant := Long
		if n%2 == 1 {
			variant = Short
		}
		f := randomFrame(rnd, variant)
		require.Equal(t, f, FromValues(variant, f.Values(), f.Checksum))
	}
}

func TestFieldString(t *testing.T) {
	require.Equal(t, "pm1a", FieldPM1A.String())
	require.Equal(t, "r1", FieldR1.String())
	require.Equal(t, "field(13)", Field(NumFields).String())
}
