package status

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"
)

// Kind is the outcome of a reading.
type Kind string

// Event kinds.
const (
	KindOK    Kind = "ok"
	KindError Kind = "error"
)

// Event is published for every reading.
type Event struct {
	Sensor  string
	Session string
	Seq     uint64
	Kind    Kind
	Time    time.Time
}

// Encode encodes the event as a protobuf Struct.
func (e *Event) Encode() ([]byte, error) {
	return proto.Marshal(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			"sensor":  stringValue(e.Sensor),
			"session": stringValue(e.Session),
			"seq":     {Kind: &structpb.Value_NumberValue{NumberValue: float64(e.Seq)}},
			"kind":    stringValue(string(e.Kind)),
			"time":    stringValue(e.Time.UTC().Format(time.RFC3339Nano)),
		},
	})
}

// DecodeEvent decodes bytes produced by Event.Encode.
func DecodeEvent(data []byte) (*Event, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	e := &Event{
		Sensor:  s.Fields["sensor"].GetStringValue(),
		Session: s.Fields["session"].GetStringValue(),
		Seq:     uint64(s.Fields["seq"].GetNumberValue()),
		Kind:    Kind(s.Fields["kind"].GetStringValue()),
	}
	if e.Kind != KindOK && e.Kind != KindError {
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	t, err := time.Parse(time.RFC3339Nano, s.Fields["time"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("invalid event time: %w", err)
	}
	e.Time = t
	return e, nil
}

func (e *Event) String() string {
	return fmt.Sprintf("%s/%s #%d %s at %s", e.Sensor, e.Session, e.Seq, e.Kind, e.Time.Format(time.RFC3339))
}

func stringValue(s string) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: s}}
}
