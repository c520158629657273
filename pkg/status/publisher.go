package status

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/pms.go/pkg/mqtt"
)

// Publisher publishes an Event to MQTT for every signal. Publishing never
// waits for the broker.
type Publisher struct {
	Queue   *mqtt.Queue
	Topic   string
	Sensor  string
	Session string

	seq uint64
	now func() time.Time
}

// StatusTopic is the topic of a sensor's status events.
func StatusTopic(sensor string) string {
	return "pms/" + sensor + "/status"
}

// NewPublisher creates a Publisher using the default topic of sensor.
func NewPublisher(q *mqtt.Queue, sensor, session string) *Publisher {
	return &Publisher{
		Queue:   q,
		Topic:   StatusTopic(sensor),
		Sensor:  sensor,
		Session: session,
		now:     time.Now,
	}
}

// OK implements Indicator.
func (p *Publisher) OK() {
	p.publish(KindOK)
}

// Error implements Indicator.
func (p *Publisher) Error() {
	p.publish(KindError)
}

// Next builds the next event.
func (p *Publisher) Next(kind Kind) *Event {
	p.seq++
	return &Event{Sensor: p.Sensor, Session: p.Session, Seq: p.seq, Kind: kind, Time: p.now()}
}

func (p *Publisher) publish(kind Kind) {
	payload, err := p.Next(kind).Encode()
	if err != nil {
		glog.Errorf("status: encode event error: %v", err)
		return
	}
	p.Queue.Pub(p.Topic, payload)
}
