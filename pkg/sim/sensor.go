// Package sim simulates PMS3003 and PMS5003 sensors.
package sim

import (
	"io"
	"math/rand"

	"github.com/robotalks/pms.go/pkg/frame"
)

const maxNoise = 8

func variantOf(short bool) frame.Variant {
	if short {
		return frame.Short
	}
	return frame.Long
}

// Sensor generates readings as a random walk.
type Sensor struct {
	Variant frame.Variant

	// NoiseRate is the probability of junk bytes before a frame.
	NoiseRate float64
	// CorruptRate is the probability of a frame with a wrong checksum.
	CorruptRate float64

	rnd *rand.Rand
	cur frame.Frame
}

// NewSensor creates a Sensor.
func NewSensor(variant frame.Variant, seed int64) *Sensor {
	s := &Sensor{Variant: variant, rnd: rand.New(rand.NewSource(seed))}
	s.cur = frame.Frame{
		Variant: variant,
		PM1A:    8,
		PM25A:   12,
		PM10A:   15,
		PM1B:    8,
		PM25B:   12,
		PM10B:   15,
	}
	for n := range s.cur.Bins() {
		s.cur.Counts[n] = uint16(1500 >> uint(2*n))
	}
	return s
}

func (s *Sensor) step(v uint16, span int) uint16 {
	next := int(v) + s.rnd.Intn(2*span+1) - span
	if next < 0 {
		return 0
	}
	if next > 0xffff {
		return 0xffff
	}
	return uint16(next)
}

// Next advances the walk and returns a sealed frame.
func (s *Sensor) Next() *frame.Frame {
	f := &s.cur
	d25, d10 := f.PM25A-f.PM1A, f.PM10A-f.PM25A
	f.PM1A = s.step(f.PM1A, 2)
	f.PM25A = f.PM1A + s.step(d25, 1)
	f.PM10A = f.PM25A + s.step(d10, 1)
	f.PM1B, f.PM25B, f.PM10B = f.PM1A, f.PM25A, f.PM10A
	for n := range f.Bins() {
		f.Counts[n] = s.step(f.Counts[n], 40>>uint(n))
	}
	out := *f
	return out.Seal()
}

// WriteFrame writes the next frame to w, after junk bytes or with a bad
// checksum as configured. It returns the frame with its correct checksum.
func (s *Sensor) WriteFrame(w io.Writer) (*frame.Frame, error) {
	f := s.Next()
	var out []byte
	if s.rnd.Float64() < s.NoiseRate {
		for n := 1 + s.rnd.Intn(maxNoise); n > 0; n-- {
			b := byte(s.rnd.Intn(0x100))
			if b == frame.Marker0 {
				b = 0
			}
			out = append(out, b)
		}
	}
	raw := f.Bytes()
	if s.rnd.Float64() < s.CorruptRate {
		raw[len(raw)-1] ^= 1 << uint(s.rnd.Intn(8))
	}
	_, err := w.Write(append(out, raw...))
	return f, err
}
