// Package ds1307 implements a driver for the DS1307 Real-Time Clock (RTC) on a
// software I2C bus, providing read-write of the current time only. The chip's
// battery-backed RAM and square-wave output remain unused; the control
// register is always written with the square-wave output disabled.
//
// Only 24-hour mode is supported: the 12-hour bit of the hours register is
// never inspected.
//
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/DS1307.pdf
package ds1307

import (
	"errors"
	"fmt"

	"github.com/ajanata/softrtc/softi2c"
)

// Bus is the set of primitives a Device drives. It is implemented by
// *softi2c.Bus.
//
// The bus lines are shared state. Callers must not run two transfers at once
// or let another subsystem touch the pins while one is in flight.
type Bus interface {
	Start()
	Stop()
	SendByte(v byte) (ack bool)
	ReceiveByte(last bool) byte
}

var ErrNotConfigured = errors.New("ds1307: bus not configured")

// ErrYearRange is returned for a time the year register cannot hold.
var ErrYearRange = errors.New("ds1307: year before 2000")

// StagePointer is the write of the register pointer after the address.
const StagePointer softi2c.Stage = "register pointer"

// TransferError reports a short read or write. It matches softi2c.ErrNACK.
type TransferError struct {
	Op    Op
	Stage softi2c.Stage
	N     int
	Want  int
}

func (e *TransferError) Error() string {
	if e.Op == OpRead {
		return fmt.Sprintf("ds1307: read wrong number of bytes: %d of %d (%s not acknowledged)", e.N, e.Want, e.Stage)
	}
	return fmt.Sprintf("ds1307: wrote wrong number of bytes: %d of %d (%s not acknowledged)", e.N, e.Want, e.Stage)
}

func (e *TransferError) Unwrap() error {
	return softi2c.ErrNACK
}

// Registers holds the time registers in chip order: seconds, minutes, hours,
// weekday, date, month, year.
type Registers [readLen]byte

// Halted reports whether the oscillator is stopped.
func (r Registers) Halted() bool {
	return r[Seconds]&0x80 != 0
}

// Frame is what gets written back: the time registers followed by the
// control register.
type Frame [writeLen]byte

type Device struct {
	bus Bus
	// Reporter receives the outcome of ReadTime and WriteTime. May be nil.
	Reporter Reporter
}

// New creates a new DS1307 on the given bus. It does not touch the bus. A
// nil bus makes every operation fail with ErrNotConfigured.
func New(bus Bus) Device {
	return Device{bus: bus}
}

// ReadRegisters reads the seven time registers. It returns the number of
// bytes received; unless that is all seven the registers are zero and the
// error is a *TransferError.
func (d *Device) ReadRegisters() (Registers, int, error) {
	var regs Registers
	if d.bus == nil {
		return regs, 0, ErrNotConfigured
	}

	n := 0
	stage := softi2c.StageAddrWrite
	d.bus.Start()
	ack := d.bus.SendByte(Address << 1)
	if ack {
		stage = StagePointer
		ack = d.bus.SendByte(Seconds)
	}
	if ack {
		// restart to turn the bus around
		d.bus.Start()
		stage = softi2c.StageAddrRead
		if d.bus.SendByte(Address<<1 | 0x01) {
			for n < len(regs) {
				regs[n] = d.bus.ReceiveByte(n == len(regs)-1)
				n++
			}
		}
	}
	d.bus.Stop()

	if n != len(regs) {
		return Registers{}, n, &TransferError{Op: OpRead, Stage: stage, N: n, Want: len(regs)}
	}
	return regs, n, nil
}

// WriteRegisters writes f starting at the seconds register. It stops at the
// first byte the chip does not acknowledge and returns how many were
// written.
func (d *Device) WriteRegisters(f Frame) (int, error) {
	if d.bus == nil {
		return 0, ErrNotConfigured
	}

	n := 0
	stage := softi2c.StageAddrWrite
	d.bus.Start()
	if d.bus.SendByte(Address << 1) {
		stage = StagePointer
		if d.bus.SendByte(Seconds) {
			stage = softi2c.StageData
			for n < len(f) && d.bus.SendByte(f[n]) {
				n++
			}
		}
	}
	d.bus.Stop()

	if n != len(f) {
		return n, &TransferError{Op: OpWrite, Stage: stage, N: n, Want: len(f)}
	}
	return n, nil
}
