package report

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/fxamacker/cbor/v2"

	"github.com/ajanata/softrtc/ds1307"
)

type fakeLog struct {
	info, errs []string
}

func (l *fakeLog) Infof(format string, args ...interface{}) {
	l.info = append(l.info, fmt.Sprintf(format, args...))
}

func (l *fakeLog) Errorf(format string, args ...interface{}) {
	l.errs = append(l.errs, fmt.Sprintf(format, args...))
}

var written = ds1307.Event{
	Op:       ds1307.OpWrite,
	Bytes:    8,
	Want:     8,
	Calendar: ds1307.Calendar{Second: 30, Minute: 5, Hour: 14, Weekday: 6, Day: 9, Month: 2, Year: 24},
}

var shortRead = ds1307.Event{
	Op:    ds1307.OpRead,
	Bytes: 0,
	Want:  7,
	Err:   ds1307.ErrNotConfigured,
}

func TestLogger(t *testing.T) {
	c := qt.New(t)
	l := &fakeLog{}
	r := Logger{Log: l}

	r.Report(written)
	r.Report(shortRead)
	c.Assert(l.info, qt.DeepEquals, []string{"DS1307 internal time updated to Saturday, 09 March 2024, 14:05:30"})
	c.Assert(l.errs, qt.DeepEquals, []string{"DS1307 read failed: ds1307: bus not configured"})
}

func TestMulti(t *testing.T) {
	c := qt.New(t)
	a, b := &fakeLog{}, &fakeLog{}
	Multi{Logger{Log: a}, nil, Logger{Log: b}}.Report(written)
	c.Assert(a.info, qt.HasLen, 1)
	c.Assert(b.info, qt.HasLen, 1)
}

func TestNewMessage(t *testing.T) {
	c := qt.New(t)
	c.Assert(NewMessage(written), qt.Equals, Message{
		Op:       "write",
		OK:       true,
		Bytes:    8,
		Want:     8,
		Calendar: "Saturday, 09 March 2024, 14:05:30",
	})
	c.Assert(NewMessage(shortRead), qt.Equals, Message{
		Op:    "read",
		Want:  7,
		Error: "ds1307: bus not configured",
	})
}

func TestMQTTPublishesCBOR(t *testing.T) {
	c := qt.New(t)
	var topics []string
	var payloads [][]byte
	m := &MQTT{topic: "clock/ds1307", publish: func(topic string, payload []byte) error {
		topics = append(topics, topic)
		payloads = append(payloads, payload)
		return nil
	}}

	m.Report(written)
	c.Assert(m.Err(), qt.IsNil)
	c.Assert(topics, qt.DeepEquals, []string{"clock/ds1307"})

	var got Message
	c.Assert(cbor.Unmarshal(payloads[0], &got), qt.IsNil)
	c.Assert(got, qt.Equals, NewMessage(written))
}

func TestMQTTPublishError(t *testing.T) {
	c := qt.New(t)
	errBroker := errors.New("not connected")
	m := &MQTT{topic: "t", publish: func(string, []byte) error { return errBroker }}

	m.Report(shortRead)
	c.Assert(m.Err(), qt.ErrorIs, errBroker)
	c.Assert(m.Err(), qt.ErrorMatches, "report: publish to t: not connected")
}
