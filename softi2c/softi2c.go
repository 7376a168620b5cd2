// Package softi2c implements an I2C master by toggling two GPIO pins in
// software. It runs a single fixed timing profile (100 kHz standard mode) and
// supports neither clock stretching nor multi-master arbitration.
//
// The pins are not locked: callers must make sure nothing else drives the
// clock or data line while a transfer is in progress. A slave that holds the
// data line low will hang the caller, there is no timeout.
package softi2c

import (
	"errors"
	"time"
)

// HalfPeriod is half a bit time at 100 kHz.
const HalfPeriod = 5 * time.Microsecond

// Line levels. I2C is active low: a receiver acknowledges by pulling the data
// line low.
const (
	ACK  = false
	NACK = true
)

// Mode is the direction of a pin.
type Mode uint8

const (
	Output Mode = iota
	Input
)

func (m Mode) String() string {
	if m == Input {
		return "input"
	}
	return "output"
}

// Pin is a single GPIO line.
type Pin interface {
	SetMode(m Mode)
	Set(high bool)
	Get() bool
}

var ErrNoPins = errors.New("softi2c: clock and data pins must both be set")

// Config describes the bus wiring. SCL and SDA are required.
type Config struct {
	SCL Pin
	SDA Pin
	// HalfPeriod defaults to 5us if zero.
	HalfPeriod time.Duration
	// Delay blocks for d. Defaults to a busy-wait; tests substitute a virtual
	// clock.
	Delay func(d time.Duration)
}

// Bus is a bit-banged I2C master.
type Bus struct {
	scl, sda Pin
	half     time.Duration
	delay    func(time.Duration)
	sdaMode  Mode
}

// New configures both pins as outputs, idles the lines high and returns the
// bus.
func New(c Config) (*Bus, error) {
	if c.SCL == nil || c.SDA == nil {
		return nil, ErrNoPins
	}
	if c.HalfPeriod <= 0 {
		c.HalfPeriod = HalfPeriod
	}
	if c.Delay == nil {
		c.Delay = spin
	}
	b := &Bus{
		scl:   c.SCL,
		sda:   c.SDA,
		half:  c.HalfPeriod,
		delay: c.Delay,
	}
	b.scl.SetMode(Output)
	b.sda.SetMode(Output)
	b.sdaMode = Output
	b.scl.Set(true)
	b.sda.Set(true)
	return b, nil
}

// spin busy-waits; time.Sleep cannot resolve microseconds on most hosts.
func spin(d time.Duration) {
	for t := time.Now(); time.Since(t) < d; {
	}
}

func (b *Bus) bitDelay() {
	b.delay(b.half)
}

// DataMode reports the current direction of the data line.
func (b *Bus) DataMode() Mode {
	return b.sdaMode
}

// releaseData lets the slave drive the data line.
func (b *Bus) releaseData() {
	b.sda.Set(true)
	b.sda.SetMode(Input)
	b.sdaMode = Input
	b.bitDelay()
}

// driveData takes the data line back.
func (b *Bus) driveData() {
	b.sda.SetMode(Output)
	b.sdaMode = Output
	b.bitDelay()
}

func (b *Bus) clock(high bool) {
	b.scl.Set(high)
	b.bitDelay()
}

func (b *Bus) data(high bool) {
	b.sda.Set(high)
	b.bitDelay()
}

// Start drives a start condition: data falls while the clock is high. It is
// also used as a repeated start.
func (b *Bus) Start() {
	b.clock(false)
	b.data(true)
	b.clock(true)
	b.data(false)
	b.clock(false)
}

// Stop drives a stop condition: data rises while the clock is high.
func (b *Bus) Stop() {
	b.clock(false)
	b.data(false)
	b.clock(true)
	b.data(true)
}

// SendByte shifts v out MSB first and reports whether the slave acknowledged
// it. The data line is switched to input for the acknowledge bit and back to
// output before returning.
func (b *Bus) SendByte(v byte) bool {
	for i := 0; i < 8; i++ {
		b.data(v&0x80 != 0)
		v <<= 1
		b.clock(true)
		b.clock(false)
	}

	b.releaseData()
	b.scl.Set(true)
	b.bitDelay()
	ack := b.sda.Get()
	b.clock(false)
	b.driveData()

	return ack == ACK
}

// ReceiveByte clocks in one byte MSB first, then acknowledges it, or sends a
// NACK when last is set to tell the slave to stop transmitting.
func (b *Bus) ReceiveByte(last bool) byte {
	var v byte
	b.releaseData()

	for i := 0; i < 8; i++ {
		v <<= 1
		b.clock(true)
		if b.sda.Get() {
			v |= 0x01
		}
		b.clock(false)
	}

	b.driveData()
	if last {
		b.data(NACK)
	} else {
		b.data(ACK)
	}
	b.clock(true)
	b.clock(false)

	return v
}
