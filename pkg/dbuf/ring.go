// Package dbuf provides an in-memory ring of fixed size log buffers.
//
// Each buffer is identified by a monotonically increasing index. Records
// are only appended to the current buffer, and only by a caller naming
// that buffer's index, so a producer relying on the previous records of a
// buffer (e.g. for delta encoding) learns about every buffer change.
package dbuf

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// Code tags the type of a logged event.
type Code uint16

// Event codes.
const (
	EventPMS3003 Code = 0x0010
	EventPMS5003 Code = 0x0011
)

func (c Code) String() string {
	switch c {
	case EventPMS3003:
		return "pms3003"
	case EventPMS5003:
		return "pms5003"
	}
	return fmt.Sprintf("code(0x%04x)", uint16(c))
}

// Sizes of the ring.
const (
	// EntryHeaderSize is code:16 LE followed by len:8.
	EntryHeaderSize = 3
	// MaxEntryData is the largest data accepted for one entry.
	MaxEntryData = 0xff
	// MinBufferSize guarantees the largest entry fits in an empty buffer.
	MinBufferSize = EntryHeaderSize + MaxEntryData
)

// Entry is one logged event.
type Entry struct {
	Code Code
	Data []byte
}

// Buffer is a snapshot of one buffer in the ring.
type Buffer struct {
	Index   uint32
	Entries []Entry
	Size    int
}

type buffer struct {
	index uint32
	data  []byte
}

// Ring is a ring of fixed size buffers. The oldest buffer is reused when
// a new one is started.
type Ring struct {
	bufferSize int
	buffers    []buffer
	current    int
	rotations  uint64
	lock       sync.Mutex
}

// NewRing creates a Ring with count buffers of size bytes. The first
// buffer has index 0.
func NewRing(count, size int) *Ring {
	if count < 1 {
		count = 1
	}
	if size < MinBufferSize {
		size = MinBufferSize
	}
	r := &Ring{bufferSize: size, buffers: make([]buffer, count)}
	for n := range r.buffers {
		r.buffers[n].data = make([]byte, 0, size)
	}
	return r
}

// Index returns the index of the current buffer.
func (r *Ring) Index() uint32 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.buffers[r.current].index
}

// Rotations returns how many buffers were started after the first one.
func (r *Ring) Rotations() uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.rotations
}

// Append appends an entry to the buffer identified by index and returns
// the current index. If index is not the current buffer, or the entry
// doesn't fit and a new buffer is started, nothing is stored and the
// returned index differs from index. Data longer than MaxEntryData panics.
func (r *Ring) Append(index uint32, code Code, data []byte) uint32 {
	if len(data) > MaxEntryData {
		panic("dbuf: entry too large")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	cur := &r.buffers[r.current]
	if cur.index != index {
		return cur.index
	}
	if len(cur.data)+EntryHeaderSize+len(data) > r.bufferSize {
		return r.rotate()
	}
	var hdr [EntryHeaderSize]byte
	binary.LittleEndian.PutUint16(hdr[:], uint16(code))
	hdr[2] = byte(len(data))
	cur.data = append(append(cur.data, hdr[:]...), data...)
	return index
}

// Rotate starts a new buffer and returns its index.
func (r *Ring) Rotate() uint32 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.rotate()
}

func (r *Ring) rotate() uint32 {
	index := r.buffers[r.current].index + 1
	r.current = (r.current + 1) % len(r.buffers)
	next := &r.buffers[r.current]
	if len(next.data) > 0 {
		glog.V(2).Infof("dbuf: reuse buffer %d as %d", next.index, index)
	}
	next.index, next.data = index, next.data[:0]
	r.rotations++
	return index
}

// Snapshot copies the started buffers, oldest first.
func (r *Ring) Snapshot() []Buffer {
	r.lock.Lock()
	defer r.lock.Unlock()
	count := len(r.buffers)
	if uint64(count) > r.rotations {
		count = int(r.rotations) + 1
	}
	bufs := make([]Buffer, 0, count)
	for n := count - 1; n >= 0; n-- {
		b := &r.buffers[(r.current-n+len(r.buffers))%len(r.buffers)]
		bufs = append(bufs, Buffer{
			Index:   b.index,
			Entries: parseEntries(b.data),
			Size:    len(b.data),
		})
	}
	return bufs
}

func parseEntries(data []byte) []Entry {
	var entries []Entry
	for len(data) >= EntryHeaderSize {
		size := int(data[2])
		entry := Entry{
			Code: Code(binary.LittleEndian.Uint16(data)),
			Data: append([]byte{}, data[EntryHeaderSize:EntryHeaderSize+size]...),
		}
		entries = append(entries, entry)
		data = data[EntryHeaderSize+size:]
	}
	return entries
}
