package report

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/fxamacker/cbor/v2"

	"github.com/ajanata/softrtc/ds1307"
)

// Message is the CBOR payload published for each event.
type Message struct {
	Op       string `cbor:"op"`
	OK       bool   `cbor:"ok"`
	Bytes    int    `cbor:"bytes"`
	Want     int    `cbor:"want"`
	Calendar string `cbor:"calendar,omitempty"`
	Error    string `cbor:"error,omitempty"`
}

// NewMessage converts e to its wire form.
func NewMessage(e ds1307.Event) Message {
	m := Message{
		Op:    string(e.Op),
		OK:    e.Err == nil,
		Bytes: e.Bytes,
		Want:  e.Want,
	}
	if e.Err != nil {
		m.Error = e.Err.Error()
	} else {
		m.Calendar = e.Calendar.String()
	}
	return m
}

// MQTT publishes events, retained at QoS 1, to a topic.
type MQTT struct {
	topic   string
	publish func(topic string, payload []byte) error
	err     error
}

// NewMQTT publishes through a connected client.
func NewMQTT(client mqtt.Client, topic string) *MQTT {
	return &MQTT{
		topic: topic,
		publish: func(topic string, payload []byte) error {
			tok := client.Publish(topic, 1, true, payload)
			tok.Wait()
			return tok.Error()
		},
	}
}

// Dial connects a client to broker.
func Dial(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	client := mqtt.NewClient(opts)
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("report: connect %s: %w", broker, tok.Error())
	}
	return client, nil
}

func (m *MQTT) Report(e ds1307.Event) {
	payload, err := cbor.Marshal(NewMessage(e))
	if err != nil {
		m.err = fmt.Errorf("report: encode event: %w", err)
		return
	}
	if err := m.publish(m.topic, payload); err != nil {
		m.err = fmt.Errorf("report: publish to %s: %w", m.topic, err)
	}
}

// Err returns the last encode or publish failure.
func (m *MQTT) Err() error {
	return m.err
}
