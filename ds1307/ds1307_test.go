package ds1307

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/softrtc/softi2c"
	"github.com/ajanata/softrtc/softi2c/i2ctest"
)

// scriptBus records primitive calls and refuses the SendByte calls listed in
// nack, counted from zero.
type scriptBus struct {
	nack  map[int]bool
	reads []byte

	calls []string
	sent  []byte
	lasts []bool
}

func (b *scriptBus) Start() { b.calls = append(b.calls, "start") }
func (b *scriptBus) Stop()  { b.calls = append(b.calls, "stop") }

func (b *scriptBus) SendByte(v byte) bool {
	b.calls = append(b.calls, "send")
	b.sent = append(b.sent, v)
	return !b.nack[len(b.sent)-1]
}

func (b *scriptBus) ReceiveByte(last bool) byte {
	b.calls = append(b.calls, "receive")
	i := len(b.lasts)
	b.lasts = append(b.lasts, last)
	if i < len(b.reads) {
		return b.reads[i]
	}
	return 0
}

func (b *scriptBus) count(call string) int {
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func TestReadRegisters(t *testing.T) {
	c := qt.New(t)
	bus := &scriptBus{reads: []byte{0x30, 0x05, 0x14, 0x07, 0x09, 0x03, 0x24}}
	d := New(bus)

	regs, n, err := d.ReadRegisters()
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 7)
	c.Assert(regs, qt.Equals, Registers{0x30, 0x05, 0x14, 0x07, 0x09, 0x03, 0x24})
	c.Assert(bus.sent, qt.DeepEquals, []byte{0xD0, 0x00, 0xD1})
	c.Assert(bus.lasts, qt.DeepEquals, []bool{false, false, false, false, false, false, true})
	c.Assert(bus.calls[:5], qt.DeepEquals, []string{"start", "send", "send", "start", "send"})
	c.Assert(bus.calls[len(bus.calls)-1], qt.Equals, "stop")
	c.Assert(bus.count("stop"), qt.Equals, 1)
}

func TestReadRegistersNack(t *testing.T) {
	tests := []struct {
		name  string
		nack  int
		stage softi2c.Stage
	}{
		{"address", 0, softi2c.StageAddrWrite},
		{"pointer", 1, StagePointer},
		{"read address", 2, softi2c.StageAddrRead},
	}
	for _, test := range tests {
		test := test
		qt.New(t).Run(test.name, func(c *qt.C) {
			bus := &scriptBus{nack: map[int]bool{test.nack: true}, reads: []byte{1, 2, 3, 4, 5, 6, 7}}
			d := New(bus)

			regs, n, err := d.ReadRegisters()
			c.Assert(n, qt.Equals, 0)
			c.Assert(regs, qt.Equals, Registers{})
			c.Assert(err, qt.ErrorIs, softi2c.ErrNACK)
			var terr *TransferError
			c.Assert(errors.As(err, &terr), qt.IsTrue)
			c.Assert(terr.Stage, qt.Equals, test.stage)
			c.Assert(terr.Want, qt.Equals, 7)
			c.Assert(bus.count("receive"), qt.Equals, 0)
			c.Assert(bus.count("stop"), qt.Equals, 1)
			c.Assert(len(bus.sent), qt.Equals, test.nack+1)
		})
	}
}

func TestReadRegistersAddressNackMessage(t *testing.T) {
	c := qt.New(t)
	d := New(&scriptBus{nack: map[int]bool{0: true}})
	_, _, err := d.ReadRegisters()
	c.Assert(err, qt.ErrorMatches, `ds1307: read wrong number of bytes: 0 of 7 \(address\+write not acknowledged\)`)
}

func TestWriteRegisters(t *testing.T) {
	c := qt.New(t)
	bus := &scriptBus{}
	d := New(bus)
	f := Encode(saturday)

	n, err := d.WriteRegisters(f)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 8)
	c.Assert(bus.sent, qt.DeepEquals, append([]byte{0xD0, 0x00}, f[:]...))
	c.Assert(bus.count("start"), qt.Equals, 1)
	c.Assert(bus.count("stop"), qt.Equals, 1)
}

func TestWriteRegistersFifthByteNack(t *testing.T) {
	c := qt.New(t)
	// address and pointer come first, so the fifth data byte is send #6
	bus := &scriptBus{nack: map[int]bool{6: true}}
	d := New(bus)

	n, err := d.WriteRegisters(Encode(saturday))
	c.Assert(n, qt.Equals, 4)
	var terr *TransferError
	c.Assert(errors.As(err, &terr), qt.IsTrue)
	c.Assert(*terr, qt.Equals, TransferError{Op: OpWrite, Stage: softi2c.StageData, N: 4, Want: 8})
	c.Assert(len(bus.sent), qt.Equals, 7)
	c.Assert(bus.calls[len(bus.calls)-1], qt.Equals, "stop")
	c.Assert(bus.count("stop"), qt.Equals, 1)
}

func TestWriteRegistersAddressNack(t *testing.T) {
	c := qt.New(t)
	bus := &scriptBus{nack: map[int]bool{0: true}}
	d := New(bus)

	n, err := d.WriteRegisters(Frame{})
	c.Assert(n, qt.Equals, 0)
	c.Assert(err, qt.ErrorMatches, `ds1307: wrote wrong number of bytes: 0 of 8 \(address\+write not acknowledged\)`)
	c.Assert(bus.count("stop"), qt.Equals, 1)
}

func TestNotConfigured(t *testing.T) {
	c := qt.New(t)
	var d Device

	_, n, err := d.ReadRegisters()
	c.Assert(err, qt.Equals, ErrNotConfigured)
	c.Assert(n, qt.Equals, 0)

	n, err = d.WriteRegisters(Frame{})
	c.Assert(err, qt.Equals, ErrNotConfigured)
	c.Assert(n, qt.Equals, 0)

	d = New(nil)
	_, _, err = d.ReadRegisters()
	c.Assert(err, qt.Equals, ErrNotConfigured)
}

func newSimBus(c *qt.C) (*i2ctest.Bus, *i2ctest.Target, *softi2c.Bus) {
	target := i2ctest.NewTarget(Address, 64)
	sim := i2ctest.New(target)
	bus, err := softi2c.New(softi2c.Config{SCL: sim.SCL(), SDA: sim.SDA(), Delay: sim.Delay})
	c.Assert(err, qt.IsNil)
	return sim, target, bus
}

func newSimDevice(c *qt.C) (Device, *i2ctest.Target, *i2ctest.Bus) {
	sim, target, bus := newSimBus(c)
	return New(bus), target, sim
}

func TestSimulatedRoundTrip(t *testing.T) {
	c := qt.New(t)
	d, target, sim := newSimDevice(c)
	f := Encode(saturday)

	n, err := d.WriteRegisters(f)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 8)
	c.Assert(target.Registers[:8], qt.DeepEquals, f[:])

	// the write left the pointer at 8, the read has to reset it
	c.Assert(target.Pointer(), qt.Equals, 8)
	regs, n, err := d.ReadRegisters()
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 7)
	c.Assert(Decode(regs), qt.Equals, saturday)
	c.Assert(sim.Starts, qt.Equals, 3)
	c.Assert(sim.Stops, qt.Equals, 2)
}

func TestSimulatedAbsentChip(t *testing.T) {
	c := qt.New(t)
	sim := i2ctest.New(nil)
	bus, err := softi2c.New(softi2c.Config{SCL: sim.SCL(), SDA: sim.SDA(), Delay: sim.Delay})
	c.Assert(err, qt.IsNil)
	d := New(bus)

	_, n, err := d.ReadRegisters()
	c.Assert(n, qt.Equals, 0)
	c.Assert(err, qt.ErrorIs, softi2c.ErrNACK)
	c.Assert(sim.Stops, qt.Equals, 1)
}

func TestSimulatedWriteNack(t *testing.T) {
	c := qt.New(t)
	d, target, sim := newSimDevice(c)
	// bytes since start: address 0, pointer 1, data from 2
	target.NACK = func(n int) bool { return n == 6 }

	n, err := d.WriteRegisters(Encode(saturday))
	c.Assert(n, qt.Equals, 4)
	c.Assert(err, qt.ErrorIs, softi2c.ErrNACK)
	c.Assert(target.Registers[:5], qt.DeepEquals, []byte{0x30, 0x05, 0x14, 0x07, 0x00})
	c.Assert(sim.Stops, qt.Equals, 1)
}
