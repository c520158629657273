package frame

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type parserTestSequence struct {
	in     []byte
	expect ParseResult
	final  ParseResult
}

type parserTestSequenceBuilder struct {
	seq []parserTestSequence
}

func parserTestSequences() *parserTestSequenceBuilder {
	return &parserTestSequenceBuilder{}
}

func (b *parserTestSequenceBuilder) on(state State, in ...byte) *parserTestSequenceBuilder {
	s := parserTestSequence{in: in, expect: ParseResult{State: state}}
	s.final = s.expect
	b.seq = append(b.seq, s)
	return b
}

func (b *parserTestSequenceBuilder) then(state State) *parserTestSequenceBuilder {
	b.seq[len(b.seq)-1].final = ParseResult{State: state}
	return b
}

func (b *parserTestSequenceBuilder) frame(f Frame) *parserTestSequenceBuilder {
	b.seq[len(b.seq)-1].final = ParseResult{State: Seeking, Frame: &f}
	return b
}

func (b *parserTestSequenceBuilder) mismatch(computed, received uint16) *parserTestSequenceBuilder {
	b.seq[len(b.seq)-1].final = ParseResult{
		State: Seeking,
		Err:   &ChecksumError{Computed: computed, Received: received},
	}
	return b
}

// wire feeds a complete frame up to the last byte of it.
func (b *parserTestSequenceBuilder) wire(raw []byte) *parserTestSequenceBuilder {
	n := len(raw)
	return b.on(Seeking, raw[0]).
		on(Seeking, raw[1]).then(ReadingHeader).
		on(ReadingHeader, raw[2:4]...).then(ReadingBody).
		on(ReadingBody, raw[4:n-2]...).then(Validating).
		on(Validating, raw[n-2:]...)
}

func (b *parserTestSequenceBuilder) build() []parserTestSequence {
	return b.seq
}

func withChecksum(raw []byte, sum uint16) []byte {
	out := append([]byte{}, raw...)
	out[len(out)-2], out[len(out)-1] = byte(sum>>8), byte(sum)
	return out
}

func TestParser(t *testing.T) {
	long := exampleLong
	long.Seal()
	longBytes := long.Bytes()

	testCases := []struct {
		name string
		seq  []parserTestSequence
	}{
		{
			name: "short frame",
			seq: parserTestSequences().
				wire(exampleShortBytes).frame(exampleShort).
				build(),
		},
		{
			name: "long frame",
			seq: parserTestSequences().
				wire(longBytes).frame(long).
				build(),
		},
		{
			name: "skip noise before marker",
			seq: parserTestSequences().
				on(Seeking, 0x00, 0xff, 'M', 'x', 0x42).
				on(Seeking, 'M').then(ReadingHeader).
				build(),
		},
		{
			name: "repeated first marker byte",
			seq: parserTestSequences().
				on(Seeking, 'B', 'B', 'B').
				on(Seeking, 'M').then(ReadingHeader).
				build(),
		},
		{
			name: "broken marker resyncs from next byte",
			seq: parserTestSequences().
				on(Seeking, 'B', 'x', 'M').
				wire(exampleShortBytes).frame(exampleShort).
				build(),
		},
		{
			name: "unknown length",
			seq: parserTestSequences().
				on(Seeking, 'B').
				on(Seeking, 'M').then(ReadingHeader).
				on(ReadingHeader, 0x00, 0x15).then(Seeking).
				wire(exampleShortBytes).frame(exampleShort).
				build(),
		},
		{
			name: "checksum mismatch",
			seq: parserTestSequences().
				wire(withChecksum(exampleShortBytes, 0x0108)).mismatch(0x0107, 0x0108).
				wire(exampleShortBytes).frame(exampleShort).
				build(),
		},
		{
			name: "marker inside body is data",
			seq: parserTestSequences().
				wire(frameWithMarkerInBody().Bytes()).frame(*frameWithMarkerInBody()).
				build(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var parser Parser
			for n, s := range tc.seq {
				var pr ParseResult
				l := len(s.in)
				for i, b := range s.in {
					pr = parser.Parse(b)
					if i+1 < l {
						require.Equalf(t, s.expect, pr, "seq[%d][%d] expect mismatch", n, i)
					}
				}
				require.Equalf(t, s.final, pr, "seq[%d] final mismatch", n)
			}
		})
	}
}

func frameWithMarkerInBody() *Frame {
	f := exampleShort
	f.PM1A = uint16(Marker0)<<8 | uint16(Marker1)
	f.R1 = uint16(Marker0)
	return f.Seal()
}

func TestParserStats(t *testing.T) {
	var parser Parser
	inputs := [][]byte{
		exampleShortBytes,
		{'B', 'M', 0x00, 0x00},
		withChecksum(exampleShortBytes, 0),
		exampleShortBytes,
	}
	for _, in := range inputs {
		for _, b := range in {
			parser.Parse(b)
		}
	}
	require.Equal(t, Stats{Frames: 2, Rejected: 1, ChecksumErrors: 1}, parser.Stats())
}

func TestParserReset(t *testing.T) {
	var parser Parser
	for _, b := range exampleShortBytes[:10] {
		parser.Parse(b)
	}
	require.Equal(t, ReadingBody, parser.State())
	parser.Reset()
	require.Equal(t, Seeking, parser.State())
	var pr ParseResult
	for _, b := range exampleShortBytes {
		pr = parser.Parse(b)
	}
	require.NotNil(t, pr.Frame)
	require.Equal(t, exampleShort, *pr.Frame)
}

func TestParserRejectsSingleBitFlip(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for _, variant := range []Variant{Short, Long} {
		raw := randomFrame(rnd, variant).Bytes()
		for pos := 4; pos < len(raw)-2; pos++ {
			for bit := uint(0); bit < 8; bit++ {
				flipped := append([]byte{}, raw...)
				flipped[pos] ^= 1 << bit
				var parser Parser
				var pr ParseResult
				for _, b := range flipped {
					pr = parser.Parse(b)
				}
				require.Nilf(t, pr.Frame, "%s pos %d bit %d", variant, pos, bit)
				require.IsTypef(t, &ChecksumError{}, pr.Err, "%s pos %d bit %d", variant, pos, bit)
			}
		}
	}
}

func TestStateString(t *testing.T) {
	require.Equal(t, "seeking", Seeking.String())
	require.Equal(t, "reading-header", ReadingHeader.String())
	require.Equal(t, "reading-body", ReadingBody.String())
	require.Equal(t, "validating", Validating.String())
}
