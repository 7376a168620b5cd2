// Package i2ctest simulates the two lines of an I2C bus with a single
// register-file slave attached, so software masters can be tested without
// hardware.
//
// Both lines are open drain: a line is high unless the master drives it low
// or, for the data line, the slave pulls it low. The slave watches line
// transitions only; it never stretches the clock.
package i2ctest

import (
	"time"

	"github.com/ajanata/softrtc/softi2c"
)

// Target is a slave with a byte-addressed register file. The register
// pointer is set by the first byte written after the address and advances
// (wrapping) after every register read or written.
type Target struct {
	Address   uint8
	Registers []byte
	// NACK, when set, is asked before acknowledging each byte the master
	// writes. n counts bytes since the last start condition, the address byte
	// being 0.
	NACK func(n int) bool

	pointer int
}

// NewTarget returns a target at addr with size registers.
func NewTarget(addr uint8, size int) *Target {
	return &Target{Address: addr, Registers: make([]byte, size)}
}

// Pointer returns the current register pointer.
func (t *Target) Pointer() int {
	return t.pointer
}

func (t *Target) refuse(n int) bool {
	return t.NACK != nil && t.NACK(n)
}

func (t *Target) advance() {
	t.pointer = (t.pointer + 1) % len(t.Registers)
}

type state uint8

const (
	stIdle state = iota
	stAddr
	stWrite
	stAckOut
	stRead
	stAckIn
)

// Bus is the simulated pair of lines.
type Bus struct {
	Target *Target

	// Starts and Stops count the conditions seen on the lines; a repeated
	// start counts as a start.
	Starts int
	Stops  int
	// Elapsed accumulates the durations passed to Delay.
	Elapsed time.Duration

	scl, sda *Pin

	sclLevel, sdaLevel bool
	slaveLow           bool

	st      state
	bits    int
	shift   byte
	n       int
	reading bool
	pointed bool
	acked   bool
	out     byte
}

// New returns idle lines (both high) with t attached. t may be nil for an
// empty bus.
func New(t *Target) *Bus {
	b := &Bus{Target: t, sclLevel: true, sdaLevel: true}
	b.scl = &Pin{bus: b, out: true}
	b.sda = &Pin{bus: b, out: true}
	return b
}

// SCL returns the master's clock pin.
func (b *Bus) SCL() *Pin { return b.scl }

// SDA returns the master's data pin.
func (b *Bus) SDA() *Pin { return b.sda }

// Ops returns the number of operations performed on both pins.
func (b *Bus) Ops() int {
	return b.scl.ops + b.sda.ops
}

// Delay is a virtual clock for softi2c.Config.Delay.
func (b *Bus) Delay(d time.Duration) {
	b.Elapsed += d
}

func (b *Bus) levels() (scl, sda bool) {
	scl = b.scl.mode == softi2c.Input || b.scl.out
	sda = (b.sda.mode == softi2c.Input || b.sda.out) && !b.slaveLow
	return scl, sda
}

func (b *Bus) update() {
	scl, sda := b.levels()
	switch {
	case scl != b.sclLevel:
		b.sclLevel = scl
		if scl {
			b.rise(sda)
		} else {
			b.fall()
		}
		_, b.sdaLevel = b.levels()
	case sda != b.sdaLevel:
		b.sdaLevel = sda
		if !scl {
			return
		}
		if sda {
			b.stop()
		} else {
			b.start()
		}
	}
}

func (b *Bus) start() {
	b.Starts++
	b.st = stAddr
	b.bits, b.shift, b.n = 0, 0, 0
	b.slaveLow = false
}

func (b *Bus) stop() {
	b.Stops++
	b.st = stIdle
	b.slaveLow = false
}

func (b *Bus) rise(sda bool) {
	switch b.st {
	case stAddr, stWrite:
		b.shift <<= 1
		if sda {
			b.shift |= 0x01
		}
		b.bits++
	case stAckIn:
		b.acked = !sda
	}
}

func (b *Bus) fall() {
	t := b.Target
	switch b.st {
	case stAddr:
		if b.bits < 8 {
			return
		}
		if t == nil || b.shift>>1 != t.Address&0x7F || t.refuse(b.n) {
			b.st = stIdle
			return
		}
		b.reading = b.shift&0x01 == 1
		b.pointed = false
		b.ack()
	case stWrite:
		if b.bits < 8 {
			return
		}
		if t.refuse(b.n) {
			b.st = stIdle
			return
		}
		if !b.pointed {
			t.pointer = int(b.shift) % len(t.Registers)
			b.pointed = true
		} else {
			t.Registers[t.pointer] = b.shift
			t.advance()
		}
		b.ack()
	case stAckOut:
		b.slaveLow = false
		if b.reading {
			b.load()
			return
		}
		b.st = stWrite
		b.bits, b.shift = 0, 0
	case stRead:
		b.bits++
		if b.bits == 8 {
			b.slaveLow = false
			b.st = stAckIn
			return
		}
		b.drive()
	case stAckIn:
		if b.acked {
			b.load()
			return
		}
		b.st = stIdle
	}
}

func (b *Bus) ack() {
	b.n++
	b.slaveLow = true
	b.st = stAckOut
}

func (b *Bus) load() {
	t := b.Target
	b.out = t.Registers[t.pointer]
	t.advance()
	b.bits = 0
	b.st = stRead
	b.drive()
}

func (b *Bus) drive() {
	b.slaveLow = b.out&(0x80>>uint(b.bits)) == 0
}

// Pin is one master-side pin of the simulated bus. It implements
// softi2c.Pin.
type Pin struct {
	bus  *Bus
	mode softi2c.Mode
	out  bool
	ops  int
}

var _ softi2c.Pin = (*Pin)(nil)

func (p *Pin) SetMode(m softi2c.Mode) {
	p.ops++
	p.mode = m
	p.bus.update()
}

func (p *Pin) Set(high bool) {
	p.ops++
	p.out = high
	p.bus.update()
}

func (p *Pin) Get() bool {
	p.ops++
	scl, sda := p.bus.levels()
	if p == p.bus.scl {
		return scl
	}
	return sda
}

// Mode returns the direction the master last configured.
func (p *Pin) Mode() softi2c.Mode {
	return p.mode
}
