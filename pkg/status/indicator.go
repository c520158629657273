// Package status reports the outcome of each sensor reading.
package status

import "sync/atomic"

// Indicator is notified once per reading: OK when a frame is logged,
// Error when a frame fails the checksum.
type Indicator interface {
	OK()
	Error()
}

// Mux notifies multiple Indicators.
type Mux []Indicator

// OK implements Indicator.
func (m Mux) OK() {
	for _, ind := range m {
		ind.OK()
	}
}

// Error implements Indicator.
func (m Mux) Error() {
	for _, ind := range m {
		ind.Error()
	}
}

// Counter counts signals. It's safe to read from other goroutines.
type Counter struct {
	ok  uint64
	err uint64
}

// OK implements Indicator.
func (c *Counter) OK() {
	atomic.AddUint64(&c.ok, 1)
}

// Error implements Indicator.
func (c *Counter) Error() {
	atomic.AddUint64(&c.err, 1)
}

// Counts returns the number of OK and Error signals.
func (c *Counter) Counts() (ok, err uint64) {
	return atomic.LoadUint64(&c.ok), atomic.LoadUint64(&c.err)
}
