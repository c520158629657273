package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/pms.go/pkg/frame"
)

var exampleShort = frame.Frame{
	Variant:  frame.Short,
	PM1A:     10,
	PM25A:    20,
	PM10A:    30,
	PM1B:     5,
	PM25B:    10,
	PM10B:    20,
	Counts:   [6]uint16{3, 2},
	Checksum: 0x0107,
}

func randomWalk(rnd *rand.Rand, variant frame.Variant, count int) []*frame.Frame {
	cur := &frame.Frame{Variant: variant, PM1A: 8, PM25A: 12, PM10A: 15, PM1B: 8, PM25B: 12, PM10B: 15}
	for n := range cur.Bins() {
		cur.Counts[n] = uint16(1000 >> uint(n))
	}
	step := func(v uint16) uint16 {
		next := int(v) + rnd.Intn(41) - 20
		if next < 0 {
			next = 0
		}
		return uint16(next)
	}
	frames := make([]*frame.Frame, count)
	for i := range frames {
		f := *cur
		f.PM1A, f.PM25A, f.PM10A = step(f.PM1A), step(f.PM25A), step(f.PM10A)
		f.PM1B, f.PM25B, f.PM10B = step(f.PM1B), step(f.PM25B), step(f.PM10B)
		for n := range f.Bins() {
			f.Counts[n] = step(f.Counts[n])
		}
		f.Seal()
		frames[i], cur = &f, &f
	}
	return frames
}

func TestEncodeExample(t *testing.T) {
	enc := NewEncoder()
	var base frame.Values
	record, err := enc.Encode(&exampleShort, &base)
	require.NoError(t, err)
	require.Len(t, record, 10)

	base = exampleShort.Values()
	record, err = enc.Encode(&exampleShort, &base)
	require.NoError(t, err)
	// nine "no change" bits then 0x0107 in 15 bits.
	require.Equal(t, []byte{0xff, 0x0f, 0x02}, record)
}

func TestEncodeSize(t *testing.T) {
	enc := NewEncoder()
	rnd := rand.New(rand.NewSource(7))
	for _, variant := range []frame.Variant{frame.Short, frame.Long} {
		var base frame.Values
		for _, f := range randomWalk(rnd, variant, 50) {
			record, err := enc.Encode(f, &base)
			require.NoError(t, err)
			cur := f.Values()
			expect := ChecksumBits
			for _, field := range variant.Fields() {
				expect += DeltaBits(cur[field] - base[field])
			}
			require.Len(t, record, (expect+7)/8)
			base = cur
		}
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	f := exampleShort
	f.PM25A, f.PM10A = 65535, 0
	var base frame.Values
	base[frame.FieldPM10AD] = 65535
	_, err := NewEncoder().Encode(&f, &base)
	require.Equal(t, ErrValueOutOfRange, err)
}

func TestDecoder(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for _, variant := range []frame.Variant{frame.Short, frame.Long} {
		frames := randomWalk(rnd, variant, 100)
		enc := NewEncoder()
		var base frame.Values
		var records [][]byte
		for _, f := range frames {
			record, err := enc.Encode(f, &base)
			require.NoError(t, err)
			records = append(records, append([]byte{}, record...))
			base = f.Values()
		}

		var dec Decoder
		for n, record := range records {
			f, err := dec.Decode(variant, record)
			require.NoErrorf(t, err, "%s record %d", variant, n)
			expect := *frames[n]
			expect.Checksum &= ChecksumMask
			require.Equalf(t, &expect, f, "%s record %d", variant, n)
		}
	}
}

func TestDecodeMixedVariants(t *testing.T) {
	long := frame.Frame{
		Variant: frame.Long,
		PM1A:    3,
		PM25A:   4,
		PM10A:   9,
		Counts:  [6]uint16{900, 300, 80, 20, 6, 2},
	}
	long.Seal()
	frames := []*frame.Frame{&long, &exampleShort, &long}

	enc := NewEncoder()
	var base frame.Values
	var dec Decoder
	for n, f := range frames {
		record, err := enc.Encode(f, &base)
		require.NoError(t, err)
		decoded, err := dec.Decode(f.Variant, record)
		require.NoError(t, err)
		expect := *f
		expect.Checksum &= ChecksumMask
		require.Equalf(t, &expect, decoded, "frame %d", n)
		base = f.Values()
	}
}

func TestDecodeRecordStandalone(t *testing.T) {
	enc := NewEncoder()
	var zero frame.Values
	record, err := enc.Encode(&exampleShort, &zero)
	require.NoError(t, err)
	f, err := DecodeRecord(frame.Short, record)
	require.NoError(t, err)
	require.Equal(t, &exampleShort, f)
}

func TestDecodeCorrupt(t *testing.T) {
	enc := NewEncoder()
	var zero frame.Values
	record, err := enc.Encode(&exampleShort, &zero)
	require.NoError(t, err)

	_, err = DecodeRecord(frame.Short, record[:len(record)-2])
	require.Equal(t, ErrCorruptRecord, err)
	_, err = DecodeRecord(frame.Short, append(append([]byte{}, record...), 0))
	require.Equal(t, ErrCorruptRecord, err)
	_, err = DecodeRecord(frame.Short, nil)
	require.Equal(t, ErrCorruptRecord, err)
}
