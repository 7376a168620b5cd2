// Package hostpin adapts periph.io GPIO pins to softi2c.Pin so the software
// bus can run on a Linux single-board computer.
package hostpin

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/ajanata/softrtc/softi2c"
)

// Line is the part of gpio.PinIO a Pin needs.
type Line interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	Out(l gpio.Level) error
	Read() gpio.Level
}

var _ Line = gpio.PinIO(nil)

// Pin drives a Line. softi2c.Pin has no error results, so the first
// failure is kept and returned by Err.
type Pin struct {
	line Line
	// OpenDrain makes a high output float on the pull-up instead of being
	// driven, which is how I2C lines are wired.
	OpenDrain bool

	mode  softi2c.Mode
	level gpio.Level
	err   error
}

var _ softi2c.Pin = (*Pin)(nil)

func New(l Line) *Pin {
	return &Pin{line: l, level: gpio.High}
}

// Open looks pin name up in the periph registry, initialising the host
// drivers on first use.
func Open(name string) (*Pin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("hostpin: init host: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("hostpin: no such pin %q", name)
	}
	return New(p), nil
}

func (p *Pin) SetMode(m softi2c.Mode) {
	p.mode = m
	if m == softi2c.Input {
		p.keep(p.line.In(gpio.PullUp, gpio.NoEdge))
		return
	}
	p.drive()
}

func (p *Pin) Set(high bool) {
	p.level = gpio.Level(high)
	if p.mode == softi2c.Output {
		p.drive()
	}
}

func (p *Pin) Get() bool {
	return bool(p.line.Read())
}

func (p *Pin) drive() {
	if p.OpenDrain && p.level == gpio.High {
		p.keep(p.line.In(gpio.PullUp, gpio.NoEdge))
		return
	}
	p.keep(p.line.Out(p.level))
}

func (p *Pin) keep(err error) {
	if err != nil && p.err == nil {
		p.err = err
	}
}

// Err returns the first error reported by the line.
func (p *Pin) Err() error {
	return p.err
}
