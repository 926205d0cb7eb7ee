package telemetry

import (
	"encoding/json"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// Event is one loop outcome as published on the events topic.
type Event struct {
	Device string    `json:"device"`
	Kind   string    `json:"kind"`
	Detail string    `json:"detail"`
	Time   time.Time `json:"time"`
}

// DeviceID identifies this device instance across restarts.
func DeviceID() string {
	id, err := machineid.ID()
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return "unknown"
	}
	return id
}

// Publisher forwards loop events to the broker. It implements the
// loop's EventSink and never blocks the caller.
type Publisher struct {
	queue  *Queue
	device string
}

// NewPublisher creates a Publisher on the queue.
func NewPublisher(q *Queue) *Publisher {
	return &Publisher{queue: q, device: DeviceID()}
}

// Event implements loop.EventSink.
func (p *Publisher) Event(kind, detail string) {
	payload, err := json.Marshal(Event{
		Device: p.device,
		Kind:   kind,
		Detail: detail,
		Time:   time.Now(),
	})
	if err != nil {
		glog.Errorf("encode event: %v", err)
		return
	}
	p.queue.Pub(p.device+"/events", payload)
}
