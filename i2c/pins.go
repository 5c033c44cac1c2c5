package i2c

import "periph.io/x/conn/v3/gpio"

const badPin = "i2c: nil pin"

// PinPads drives SCL and SDA through two GPIO pins, emulating open
// drain wiring: a line is pulled low by driving the pin low and
// released by returning it to a pulled up input, letting any device on
// the wire hold it down. Pin errors are latched and readable through
// Err.
type PinPads struct {
	scl, sda gpio.PinIO
	sclLow   bool
	sdaLow   bool
	err      error
}

// NewPinPads returns pads over the two pins with both lines released.
func NewPinPads(scl, sda gpio.PinIO) *PinPads {
	if scl == nil || sda == nil {
		panic(badPin)
	}
	p := &PinPads{scl: scl, sda: sda}
	p.DriveSCL(false)
	p.DriveSDA(false)
	return p
}

// DriveSCL pulls SCL low or releases it.
func (p *PinPads) DriveSCL(low bool) {
	p.sclLow = low
	p.setErr(driveOpenDrain(p.scl, low))
}

// DriveSDA pulls SDA low or releases it.
func (p *PinPads) DriveSDA(low bool) {
	p.sdaLow = low
	p.setErr(driveOpenDrain(p.sda, low))
}

// SCL returns the clock line level.
func (p *PinPads) SCL() bool {
	if p.sclLow {
		return false
	}
	return bool(p.scl.Read())
}

// SDA returns the data line level.
func (p *PinPads) SDA() bool {
	if p.sdaLow {
		return false
	}
	return bool(p.sda.Read())
}

// Err returns the first pin error seen since construction.
func (p *PinPads) Err() error { return p.err }

func (p *PinPads) setErr(err error) {
	if p.err == nil && err != nil {
		p.err = err
	}
}

func driveOpenDrain(pin gpio.PinIO, low bool) error {
	if low {
		return pin.Out(gpio.Low)
	}
	return pin.In(gpio.PullUp, gpio.NoEdge)
}
