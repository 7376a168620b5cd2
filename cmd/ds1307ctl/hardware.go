package main

import (
	"errors"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ajanata/softrtc/ds1307"
	"github.com/ajanata/softrtc/hostpin"
	"github.com/ajanata/softrtc/report"
	"github.com/ajanata/softrtc/softi2c"
)

// hardware is opened by the first command that needs the chip and kept for
// the rest of the process, so a shell reuses it.
type hardware struct {
	bus      *softi2c.Bus
	dev      ds1307.Device
	resolver ds1307.Resolver
	pins     []*hostpin.Pin
	client   mqtt.Client
	mqtt     *report.MQTT
}

var hw *hardware

func openHardware() (*hardware, error) {
	if hw != nil {
		return hw, nil
	}
	if sclPin == "" || sdaPin == "" {
		return nil, errors.New("both --scl and --sda must be set")
	}

	level, err := parseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	loc, err := loadZone(zone)
	if err != nil {
		return nil, err
	}

	scl, err := hostpin.Open(sclPin)
	if err != nil {
		return nil, err
	}
	sda, err := hostpin.Open(sdaPin)
	if err != nil {
		return nil, err
	}
	scl.OpenDrain = openDrain
	sda.OpenDrain = openDrain

	bus, err := softi2c.New(softi2c.Config{SCL: scl, SDA: sda, HalfPeriod: halfPeriod})
	if err != nil {
		return nil, err
	}

	h := &hardware{
		bus:      bus,
		dev:      ds1307.New(bus),
		resolver: ds1307.LocationResolver{Location: loc},
		pins:     []*hostpin.Pin{scl, sda},
	}
	reporters := report.Multi{report.NewLogger("ds1307", level)}
	if mqttBroker != "" {
		client, err := report.Dial(mqttBroker, "ds1307ctl")
		if err != nil {
			return nil, err
		}
		h.client = client
		h.mqtt = report.NewMQTT(client, mqttTopic)
		reporters = append(reporters, h.mqtt)
	}
	h.dev.Reporter = reporters

	hw = h
	return h, nil
}

// check returns the first pin or publish error seen so far.
func (h *hardware) check() error {
	for _, p := range h.pins {
		if err := p.Err(); err != nil {
			return fmt.Errorf("gpio: %w", err)
		}
	}
	if h.mqtt != nil {
		return h.mqtt.Err()
	}
	return nil
}

func closeHardware() {
	if hw != nil && hw.client != nil {
		hw.client.Disconnect(250)
	}
	hw = nil
}
