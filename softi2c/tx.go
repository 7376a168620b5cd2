package softi2c

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*Bus)(nil)

// ErrNACK is matched by every *NACKError.
var ErrNACK = errors.New("softi2c: not acknowledged")

// Stage names the step of a transfer that was not acknowledged.
type Stage string

const (
	StageAddrWrite Stage = "address+write"
	StageAddrRead  Stage = "address+read"
	StageData      Stage = "data"
)

// NACKError reports where a transfer was aborted.
type NACKError struct {
	Addr  uint16
	Stage Stage
	// Index is the position in the write buffer for StageData.
	Index int
}

func (e *NACKError) Error() string {
	if e.Stage == StageData {
		return fmt.Sprintf("softi2c: 0x%02x: %s byte %d not acknowledged", e.Addr, e.Stage, e.Index)
	}
	return fmt.Sprintf("softi2c: 0x%02x: %s not acknowledged", e.Addr, e.Stage)
}

func (e *NACKError) Is(target error) bool {
	return target == ErrNACK
}

// Tx writes w to the 7-bit address addr, then reads len(r) bytes after a
// repeated start. Either buffer may be empty; with both empty the address is
// only probed. The bus is always stopped before returning.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	a := byte(addr&0x7F) << 1
	defer b.Stop()

	b.Start()
	if len(w) > 0 || len(r) == 0 {
		if !b.SendByte(a) {
			return &NACKError{Addr: addr, Stage: StageAddrWrite}
		}
		for i, v := range w {
			if !b.SendByte(v) {
				return &NACKError{Addr: addr, Stage: StageData, Index: i}
			}
		}
		if len(r) == 0 {
			return nil
		}
		b.Start()
	}

	if !b.SendByte(a | 0x01) {
		return &NACKError{Addr: addr, Stage: StageAddrRead}
	}
	for i := range r {
		r[i] = b.ReceiveByte(i == len(r)-1)
	}
	return nil
}

// ReadRegister reads len(buf) bytes starting at register reg.
func (b *Bus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

// WriteRegister writes buf starting at register reg.
func (b *Bus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	w := make([]byte, 1, len(buf)+1)
	w[0] = reg
	w = append(w, buf...)
	return b.Tx(uint16(addr), w, nil)
}
