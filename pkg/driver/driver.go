package driver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/pms.go/pkg/codec"
	"github.com/robotalks/pms.go/pkg/dbuf"
	"github.com/robotalks/pms.go/pkg/frame"
	"github.com/robotalks/pms.go/pkg/status"
)

// DefaultMaxRotations bounds the retries of one record when the log keeps
// starting new buffers.
const DefaultMaxRotations = 4

// ErrInvalidVariant is returned for a frame of neither known length.
var ErrInvalidVariant = errors.New("invalid frame variant")

// Log is the destination of records. Append stores data only if index is
// the current buffer and the entry fits, then returns index unchanged.
// Otherwise nothing is stored and the index of the current buffer, which
// may have just been started, is returned.
type Log interface {
	Append(index uint32, code dbuf.Code, data []byte) uint32
}

// CodeOf returns the log tag for frames of variant.
func CodeOf(variant frame.Variant) (dbuf.Code, error) {
	switch variant {
	case frame.Short:
		return dbuf.EventPMS3003, nil
	case frame.Long:
		return dbuf.EventPMS5003, nil
	}
	return 0, ErrInvalidVariant
}

// VariantOf is the inverse of CodeOf.
func VariantOf(code dbuf.Code) (frame.Variant, error) {
	switch code {
	case dbuf.EventPMS3003:
		return frame.Short, nil
	case dbuf.EventPMS5003:
		return frame.Long, nil
	}
	return 0, ErrInvalidVariant
}

// Driver reads frames from a sensor and appends delta encoded records to
// a Log. It's not safe for concurrent use.
type Driver struct {
	Reader       *frame.Reader
	Log          Log
	Indicator    status.Indicator
	MaxRotations int
	Metrics      *Metrics

	state   State
	encoder *codec.Encoder
}

// New creates a Driver.
func New(src io.ByteReader, log Log, indicator status.Indicator) *Driver {
	if indicator == nil {
		indicator = status.Mux(nil)
	}
	return &Driver{
		Reader:       frame.NewReader(src),
		Log:          log,
		Indicator:    indicator,
		MaxRotations: DefaultMaxRotations,
		encoder:      codec.NewEncoder(),
	}
}

// State returns the current encoding baseline.
func (d *Driver) State() State {
	return d.state
}

func (d *Driver) maxRotations() int {
	if d.MaxRotations > 0 {
		return d.MaxRotations
	}
	return DefaultMaxRotations
}

// Process encodes a validated frame and appends it. The baseline is
// updated and the indicator signaled only after the log accepted the
// record.
func (d *Driver) Process(f *frame.Frame) error {
	code, err := CodeOf(f.Variant)
	if err != nil {
		return err
	}
	index, base := d.state.Index, d.state.Values
	for rotations := 0; ; rotations++ {
		record, err := d.encoder.Encode(f, &base)
		if err != nil {
			return err
		}
		next := d.Log.Append(index, code, record)
		if next == index {
			d.state.Commit(index, f)
			d.Metrics.logged(f.Variant, len(record))
			glog.V(2).Infof("logged %v as %d bytes in buffer %d", f, len(record), index)
			d.Indicator.OK()
			return nil
		}
		d.Metrics.rotated()
		if rotations >= d.maxRotations() {
			return &RotationError{Index: next, Attempts: rotations + 1}
		}
		glog.V(2).Infof("log moved from buffer %d to %d, re-encode", index, next)
		index, base = next, frame.Values{}
	}
}

// Step reads the next frame and processes it. A frame failing the
// checksum is dropped and signaled as error without touching the baseline.
func (d *Driver) Step() error {
	rejected := d.Reader.Stats().Rejected
	f, err := d.Reader.Next()
	d.Metrics.rejectedFrames(d.Reader.Stats().Rejected - rejected)
	var sumErr *frame.ChecksumError
	if errors.As(err, &sumErr) {
		glog.Warningf("drop frame: %v", err)
		d.Metrics.checksumError()
		d.Indicator.Error()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read sensor: %w", err)
	}
	return d.Process(f)
}

// Run implements framework.Runnable. It returns when the byte source
// fails, ctx is done, or a record can't be logged.
func (d *Driver) Run(ctx context.Context) error {
	glog.Infof("driver started, max rotations %d", d.maxRotations())
	for ctx.Err() == nil {
		if err := d.Step(); err != nil {
			if ctx.Err() != nil {
				break
			}
			glog.Errorf("driver stopped: %v", err)
			return err
		}
	}
	return ctx.Err()
}
