package frame

// State is the coarse state of the Parser.
type State int

const (
	// Seeking means looking for the marker.
	Seeking State = iota
	// ReadingHeader means the marker is found and the length is being read.
	ReadingHeader
	// ReadingBody means the body fields are being read.
	ReadingBody
	// Validating means the trailing checksum is being read.
	Validating
)

func (s State) String() string {
	switch s {
	case Seeking:
		return "seeking"
	case ReadingHeader:
		return "reading-header"
	case ReadingBody:
		return "reading-body"
	case Validating:
		return "validating"
	}
	return "unknown"
}

// Stats counts parsing outcomes.
type Stats struct {
	Frames         uint64
	Rejected       uint64 // marker found but length unknown
	ChecksumErrors uint64
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	State State
	Frame *Frame
	Err   error
}

// Parser parses bytes received one at a time.
type Parser struct {
	state  parseState
	frame  Frame
	fields []*uint16
	field  int
	hi     byte
	sum    uint16
	stats  Stats
}

type parseState int

const (
	stateMarker0 parseState = iota // waiting for 'B'
	stateMarker1                   // waiting for 'M'
	stateLenHi                     // waiting for length MSB
	stateLenLo                     // waiting for length LSB, validate length
	stateFieldHi                   // waiting for field MSB
	stateFieldLo                   // waiting for field LSB
	stateSumHi                     // waiting for checksum MSB
	stateSumLo                     // waiting for checksum LSB, validate checksum
)

// State gets the current state.
func (p *Parser) State() State {
	switch p.state {
	case stateMarker0, stateMarker1:
		return Seeking
	case stateLenHi, stateLenLo:
		return ReadingHeader
	case stateFieldHi, stateFieldLo:
		return ReadingBody
	}
	return Validating
}

// Stats returns the counters since the Parser was created.
func (p *Parser) Stats() Stats {
	return p.stats
}

// Reset drops any partial frame and starts seeking.
func (p *Parser) Reset() {
	p.resync()
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	pr.Frame, pr.Err = p.parseByte(b)
	pr.State = p.State()
	return
}

func (p *Parser) parseByte(b byte) (*Frame, error) {
	switch p.state {
	case stateMarker0:
		if b == Marker0 {
			p.state = stateMarker1
		}
	case stateMarker1:
		switch b {
		case Marker1:
			p.state = stateLenHi
		case Marker0:
			// a fresh start candidate, keep waiting for 'M'.
		default:
			p.resync()
		}
	case stateLenHi:
		p.hi, p.state = b, stateLenLo
	case stateLenLo:
		variant := Variant(p.hi)<<8 | Variant(b)
		if !variant.IsValid() {
			p.stats.Rejected++
			p.resync()
			return nil, nil
		}
		p.frame = Frame{Variant: variant}
		p.fields, p.field = p.frame.fields(), 0
		p.sum = checksumBase + uint16(p.hi) + uint16(b)
		p.state = stateFieldHi
	case stateFieldHi:
		p.hi, p.sum = b, p.sum+uint16(b)
		p.state = stateFieldLo
	case stateFieldLo:
		p.sum += uint16(b)
		*p.fields[p.field] = uint16(p.hi)<<8 | uint16(b)
		if p.field++; p.field >= len(p.fields) {
			p.state = stateSumHi
		} else {
			p.state = stateFieldHi
		}
	case stateSumHi:
		p.hi, p.state = b, stateSumLo
	case stateSumLo:
		p.frame.Checksum = uint16(p.hi)<<8 | uint16(b)
		frame := p.frame
		p.resync()
		if frame.Checksum != p.sum {
			p.stats.ChecksumErrors++
			return nil, &ChecksumError{Computed: p.sum, Received: frame.Checksum}
		}
		p.stats.Frames++
		return &frame, nil
	}
	return nil, nil
}

func (p *Parser) resync() {
	p.state, p.fields = stateMarker0, nil
}
