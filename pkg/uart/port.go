// Package uart reads sensor bytes from a serial port.
package uart

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// DefaultBaud is the line speed of PMS sensors, 8N1.
const DefaultBaud = 9600

// Port is a buffered byte source over a serial line.
type Port struct {
	*bufio.Reader

	conn io.ReadWriteCloser
}

// Open opens the serial device name.
func Open(name string, baud int) (*Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	conn, err := serial.OpenPort(&serial.Config{
		Name:     name,
		Baud:     baud,
		Size:     8,
		Parity:   serial.ParityNone,
		StopBits: serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return NewPort(conn), nil
}

// NewPort wraps an opened connection, e.g. a pipe from a simulator.
func NewPort(conn io.ReadWriteCloser) *Port {
	return &Port{Reader: bufio.NewReader(conn), conn: conn}
}

// Write sends raw bytes to the sensor.
func (p *Port) Write(b []byte) (int, error) {
	return p.conn.Write(b)
}

// Close implements io.Closer. A blocked ReadByte returns an error.
func (p *Port) Close() error {
	return p.conn.Close()
}
