package sim

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang/glog"
)

// Stream feeds frames of a Sensor through a pipe, one per Interval.
type Stream struct {
	Sensor   *Sensor
	Interval time.Duration

	reader *io.PipeReader
	writer *io.PipeWriter
	buf    *bufio.Reader
}

// NewStream creates a Stream.
func NewStream(sensor *Sensor, interval time.Duration) *Stream {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Stream{Sensor: sensor, Interval: interval}
	s.reader, s.writer = io.Pipe()
	s.buf = bufio.NewReader(s.reader)
	return s
}

// ReadByte implements io.ByteReader.
func (s *Stream) ReadByte() (byte, error) {
	return s.buf.ReadByte()
}

// Close implements io.Closer. Blocked reads and writes return.
func (s *Stream) Close() error {
	s.writer.Close()
	return s.reader.Close()
}

// Run implements framework.Runnable.
func (s *Stream) Run(ctx context.Context) error {
	glog.Infof("simulating %s sensor every %v", s.Sensor.Variant, s.Interval)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.writer.Close()
			return ctx.Err()
		case <-ticker.C:
			f, err := s.Sensor.WriteFrame(s.writer)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if errors.Is(err, io.ErrClosedPipe) {
					return nil
				}
				return err
			}
			glog.V(4).Infof("simulated %v", f)
		}
	}
}
