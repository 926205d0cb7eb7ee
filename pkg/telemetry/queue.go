// Package telemetry publishes loop outcomes to an MQTT broker so a
// host-side operator can watch the device without holding the serial
// line. It sits outside the wire protocol; the device core never
// depends on it.
package telemetry

import (
	"net/url"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// Queue wraps the MQTT client with a topic prefix.
type Queue struct {
	Client      paho.Client
	TopicPrefix string
}

// NewQueueFromURL creates a Queue from a broker URL of the form
// mqtt://host:port/prefix.
func NewQueueFromURL(serverURL string) (*Queue, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}
	scheme := u.Scheme
	if scheme == "" || scheme == "mqtt" {
		scheme = "tcp"
	}
	prefix := strings.TrimPrefix(u.Path, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	opts := paho.NewClientOptions().
		AddBroker(scheme + "://" + u.Host).
		SetClientID("crab-" + DeviceID())
	return &Queue{
		Client:      paho.NewClient(opts),
		TopicPrefix: prefix,
	}, nil
}

// Connect connects to the broker.
func (q *Queue) Connect() error {
	token := q.Client.Connect()
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (q *Queue) Close() {
	q.Client.Disconnect(250)
}

// Pub publishes without waiting for delivery; the control loop must not
// stall on the broker.
func (q *Queue) Pub(topic string, payload []byte) {
	q.Client.Publish(q.TopicPrefix+topic, 0, false, payload)
}

// Sub subscribes under the topic prefix.
func (q *Queue) Sub(topic string, handler Handler) error {
	token := q.Client.Subscribe(q.TopicPrefix+topic, 0, func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		glog.Errorf("subscribe %s: %v", topic, err)
		return err
	}
	return nil
}
