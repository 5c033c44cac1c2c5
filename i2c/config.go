package i2c

import (
	"errors"

	"periph.io/x/conn/v3/physic"
)

var (
	ErrShortPeriod  = errors.New("i2c: clock period must be at least 4 cycles")
	ErrBadFrequency = errors.New("i2c: frequency out of range")
	ErrFIFODepth    = errors.New("i2c: negative fifo depth")
)

// DefaultFIFODepth is the transmit queue depth used when Config leaves
// FIFODepth zero.
const DefaultFIFODepth = 16

// Config carries the construction parameters shared by the initiators
// and the stream transmitter. Each constructor consumes the fields it
// understands and ignores the rest.
type Config struct {
	// PeriodCycles is the length of one SCL period in clock cycles,
	// minimum 4. Only the bit banged initiator consumes it.
	PeriodCycles uint32

	// ClockStretch makes the bit banged initiator wait for SCL to
	// actually rise after releasing it, so a device holding the line
	// low pauses the engine.
	ClockStretch bool

	// FIFODepth is the transmit queue depth. Zero selects
	// DefaultFIFODepth.
	FIFODepth int
}

func (cfg Config) fifoDepth() (int, error) {
	if cfg.FIFODepth < 0 {
		return 0, ErrFIFODepth
	}
	if cfg.FIFODepth == 0 {
		return DefaultFIFODepth, nil
	}
	return cfg.FIFODepth, nil
}

// PeriodCycles returns the Config.PeriodCycles value approximating scl
// for an engine ticked at core, rounded to the nearest whole cycle.
func PeriodCycles(core, scl physic.Frequency) (uint32, error) {
	if core <= 0 || scl <= 0 {
		return 0, ErrBadFrequency
	}
	cycles := (core + scl/2) / scl
	if cycles < 4 {
		return 0, ErrShortPeriod
	}
	if cycles > 1<<31 {
		return 0, ErrBadFrequency
	}
	return uint32(cycles), nil
}
