// Package i2c implements a stream fed I2C controller. A transmitter
// state machine drains framed bytes from a queue and turns them into
// commands for a lower level initiator; the package ships three
// initiators, a cycle accurate bit banged engine for open drain pads,
// an adapter for GPIO pins, and a bridge onto transaction oriented bus
// drivers.
package i2c

// Command is the transmitter's instruction to an initiator for one
// clock cycle. At most one of Start, Stop, Read and Write is set and
// Data carries the byte for a Write. The zero Command is a no-op.
type Command struct {
	Start bool
	Stop  bool
	Read  bool
	Write bool
	Data  uint8
}

// None reports whether the command carries no strobe.
func (c Command) None() bool {
	return !(c.Start || c.Stop || c.Read || c.Write)
}

// Initiator executes bus level I2C primitives one clock cycle at a
// time. Busy reports whether a previously accepted command is still
// executing. Tick advances the initiator by one cycle; the command is
// accepted when the initiator is free and ignored otherwise, so
// callers check Busy before presenting one.
type Initiator interface {
	Busy() bool
	Tick(cmd Command)
}
