package i2c

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Bus is a transaction level I2C host: one Tx call performs a complete
// addressed transfer. Hardware buses from tinygo.org/x/drivers and
// periph.io satisfy it.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

var _ Bus = drivers.I2C(nil)

const badBus = "i2c: nil bus"

var ErrBusSequence = errors.New("i2c: command sequence not expressible as a transaction")

// BusInitiator bridges the command interface onto a transaction bus.
// Commands are collected between start and stop and the stop executes
// them as a single Tx call; the first byte written after each start is
// consumed as the address and direction. Every command completes
// within its cycle, so Busy never asserts, and transaction errors are
// latched for Err.
type BusInitiator struct {
	bus Bus

	inTxn    bool
	wantAddr bool
	haveAddr bool
	read     bool
	addr     uint16
	w        []byte
	nr       int
	rd       []byte
	err      error
}

// NewBusInitiator returns an initiator issuing transactions on bus.
func NewBusInitiator(bus Bus) *BusInitiator {
	if bus == nil {
		panic(badBus)
	}
	return &BusInitiator{bus: bus}
}

// Busy always reports false: commands are absorbed as they arrive.
func (b *BusInitiator) Busy() bool { return false }

// Err returns the first error since the previous call and clears it.
func (b *BusInitiator) Err() error {
	err := b.err
	b.err = nil
	return err
}

// ReadData returns the bytes produced by the read commands of the most
// recently completed transaction.
func (b *BusInitiator) ReadData() []byte { return b.rd }

// Tick consumes one command.
func (b *BusInitiator) Tick(cmd Command) {
	switch {
	case cmd.Start:
		if !b.inTxn {
			b.inTxn = true
			b.haveAddr = false
			b.w = b.w[:0]
			b.nr = 0
		}
		b.wantAddr = true
	case cmd.Stop:
		b.finish()
	case cmd.Write:
		if !b.inTxn {
			b.fail()
			return
		}
		if b.wantAddr {
			b.addr = uint16(cmd.Data >> 1)
			b.read = cmd.Data&1 != 0
			b.wantAddr = false
			b.haveAddr = true
			return
		}
		if b.read {
			b.fail()
			return
		}
		b.w = append(b.w, cmd.Data)
	case cmd.Read:
		if !b.inTxn || b.wantAddr || !b.read {
			b.fail()
			return
		}
		b.nr++
	}
}

func (b *BusInitiator) finish() {
	if !b.inTxn {
		return
	}
	b.inTxn = false
	if !b.haveAddr {
		return
	}
	b.rd = make([]byte, b.nr)
	if err := b.bus.Tx(b.addr, b.w, b.rd); err != nil && b.err == nil {
		b.err = err
	}
}

// fail abandons the transaction in progress; the commands up to the
// next start are dropped.
func (b *BusInitiator) fail() {
	if b.err == nil {
		b.err = ErrBusSequence
	}
	b.inTxn = false
}
