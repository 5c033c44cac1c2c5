// Package i2ctest provides software doubles for exercising the i2c
// package without hardware: a pulled up pad model with an attachable
// monitor that decodes traffic and can play the addressed device, and
// a command recorder standing in for an initiator.
package i2ctest

import "github.com/amaranth-community-unofficial/amlib/i2c"

// Pads models a two wire bus segment with pull up resistors. The
// initiator side and the device side each pull the lines low
// independently; a line reads high only while nobody pulls it.
type Pads struct {
	mSCL, mSDA bool
	sSCL, sSDA bool
}

var _ i2c.Pads = (*Pads)(nil)

// DriveSCL pulls SCL low from the initiator side.
func (p *Pads) DriveSCL(low bool) { p.mSCL = low }

// DriveSDA pulls SDA low from the initiator side.
func (p *Pads) DriveSDA(low bool) { p.mSDA = low }

// SCL returns the resolved clock line level.
func (p *Pads) SCL() bool { return !(p.mSCL || p.sSCL) }

// SDA returns the resolved data line level.
func (p *Pads) SDA() bool { return !(p.mSDA || p.sSDA) }

func (p *Pads) deviceSCL(low bool) { p.sSCL = low }
func (p *Pads) deviceSDA(low bool) { p.sSDA = low }

// Monitor watches a Pads bus segment, decoding start and stop
// conditions and the bytes on the wire, and optionally acts as the
// addressed device: acknowledging received bytes, stretching the
// clock after each acknowledge and supplying data for reads.
//
// Tick it once per simulation cycle, before the initiator's tick, so
// it reacts to the previous cycle's line state.
type Monitor struct {
	// AutoAck acknowledges every byte written to the device.
	AutoAck bool

	// StretchCycles holds SCL low for this many cycles after each
	// acknowledge slot.
	StretchCycles int

	// SendData supplies the bytes handed to the initiator during read
	// transfers, played in order. Transmission begins when an address
	// byte with the read bit arrives and stops on a not acknowledged
	// byte.
	SendData []uint8

	// Starts and Stops count decoded bus conditions; Bytes collects
	// every byte received from the initiator, address bytes included.
	Starts int
	Stops  int
	Bytes  []uint8

	// MasterAcks records, per byte sent to the initiator, whether it
	// was acknowledged.
	MasterAcks []bool

	p         *Pads
	prevSCL   bool
	prevSDA   bool
	started   bool
	firstByte bool
	sending   bool
	sendArm   bool
	sendIdx   int
	bit       int
	sr        uint8
	ackSlot   bool
	stretch   int
}

// NewMonitor attaches a monitor to p.
func NewMonitor(p *Pads) *Monitor {
	return &Monitor{p: p, prevSCL: p.SCL(), prevSDA: p.SDA()}
}

// Tick advances the monitor by one cycle.
func (mon *Monitor) Tick() {
	if mon.stretch > 0 {
		mon.stretch--
		if mon.stretch == 0 {
			mon.p.deviceSCL(false)
		}
	}
	scl := mon.p.SCL()
	sda := mon.p.SDA()

	switch {
	case mon.started && scl && mon.prevSCL && sda && !mon.prevSDA:
		// SDA rising while SCL high: stop condition
		mon.Stops++
		mon.reset()
	case scl && mon.prevSCL && !sda && mon.prevSDA:
		// SDA falling while SCL high: start or repeated start
		mon.Starts++
		mon.started = true
		mon.firstByte = true
		mon.sending = false
		mon.sendArm = false
		mon.ackSlot = false
		mon.bit = 0
		mon.sr = 0
	case scl && !mon.prevSCL && mon.started:
		mon.sclRise(sda)
	case !scl && mon.prevSCL && mon.started:
		mon.sclFall()
	}

	mon.prevSCL = scl
	mon.prevSDA = sda
}

func (mon *Monitor) sclRise(sda bool) {
	if mon.ackSlot {
		if mon.sending {
			mon.MasterAcks = append(mon.MasterAcks, !sda)
		}
		return
	}
	if mon.sending {
		mon.bit++
		return
	}
	mon.sr <<= 1
	if sda {
		mon.sr |= 1
	}
	mon.bit++
}

func (mon *Monitor) sclFall() {
	switch {
	case mon.ackSlot:
		mon.endAckSlot()
	case mon.bit == 8 && mon.sending:
		// our byte is out; release for the initiator's acknowledge
		mon.sendIdx++
		mon.p.deviceSDA(false)
		mon.ackSlot = true
	case mon.bit == 8:
		mon.Bytes = append(mon.Bytes, mon.sr)
		readReq := mon.firstByte && mon.sr&1 != 0
		mon.firstByte = false
		mon.ackSlot = true
		if mon.AutoAck {
			mon.p.deviceSDA(true)
		}
		// transmission starts after this acknowledge slot, not inside
		// it, so the slot is not mistaken for an initiator acknowledge
		if readReq && len(mon.SendData) > 0 {
			mon.sendArm = true
		}
	case mon.sending:
		mon.driveSendBit()
	}
}

// endAckSlot releases the acknowledge pull, arms an optional clock
// stretch and decides whether device transmission continues.
func (mon *Monitor) endAckSlot() {
	mon.ackSlot = false
	mon.p.deviceSDA(false)
	if mon.sending {
		last := len(mon.MasterAcks) - 1
		if (last >= 0 && !mon.MasterAcks[last]) || mon.sendIdx >= len(mon.SendData) {
			mon.sending = false
		}
	}
	if mon.sendArm {
		mon.sendArm = false
		mon.sending = true
	}
	mon.bit = 0
	mon.sr = 0
	if mon.StretchCycles > 0 {
		mon.p.deviceSCL(true)
		mon.stretch = mon.StretchCycles
	}
	if mon.sending {
		mon.driveSendBit()
	}
}

// driveSendBit presents the bit the next rising edge will sample.
func (mon *Monitor) driveSendBit() {
	b := mon.SendData[mon.sendIdx]
	mon.p.deviceSDA(b>>(7-mon.bit)&1 == 0)
}

func (mon *Monitor) reset() {
	mon.started = false
	mon.sending = false
	mon.sendArm = false
	mon.ackSlot = false
	mon.bit = 0
	mon.sr = 0
	mon.stretch = 0
	mon.p.deviceSDA(false)
	mon.p.deviceSCL(false)
}

// Recorder is an Initiator double that records every accepted command.
// Each acceptance keeps Busy asserted for BusyCycles following cycles,
// modelling engine latency for trace tests.
type Recorder struct {
	BusyCycles int

	// Commands holds the accepted commands; At holds the one based
	// tick index each was accepted on.
	Commands []i2c.Command
	At       []int

	tick int
	left int
}

var _ i2c.Initiator = (*Recorder)(nil)

// Busy reports whether the recorder is still consuming the previous
// command.
func (r *Recorder) Busy() bool { return r.left > 0 }

// Tick consumes one cycle, recording cmd when free.
func (r *Recorder) Tick(cmd i2c.Command) {
	r.tick++
	if r.left > 0 {
		r.left--
		return
	}
	if !cmd.None() {
		r.Commands = append(r.Commands, cmd)
		r.At = append(r.At, r.tick)
		r.left = r.BusyCycles
	}
}
