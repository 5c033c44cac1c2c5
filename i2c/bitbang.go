package i2c

// Pads is the pair of open drain bus lines an initiator controls.
// DriveSCL and DriveSDA pull a line low when low is true and release
// it to the bus pull-ups otherwise. SCL and SDA report the resolved
// line levels, which other bus parties may also be holding low.
type Pads interface {
	DriveSCL(low bool)
	DriveSDA(low bool)
	SCL() bool
	SDA() bool
}

type bbState uint8

const (
	bbIdle bbState = iota

	// start condition; the first two phases run only for a repeated
	// start, releasing the lines from their post byte state
	bbStartSDAHigh
	bbStartSCLHigh
	bbStartSDALow
	bbStartSCLLow

	// one data bit, repeated for 8 payload bits plus the ack slot
	bbBitSCLLow
	bbBitSCLHigh
	bbBitEnd

	// stop condition
	bbStopSDALow
	bbStopSCLHigh
	bbStopSDAHigh
)

const badPads = "i2c: nil pads"

// BitBangInitiator executes start, stop, write and read commands by
// toggling a pair of open drain pads, half an SCL period per bus
// phase. Data changes while SCL is low and is sampled at the end of
// the high phase; the ninth slot of each byte releases SDA so the
// addressed device can acknowledge.
type BitBangInitiator struct {
	pads    Pads
	half    uint32
	stretch bool

	state   bbState
	wait    uint32
	bit     uint8
	sr      uint8
	reading bool
	ackRead bool
	active  bool
	ack     bool
	data    uint8
}

// NewBitBangInitiator returns an initiator driving pads with both
// lines released. Config's PeriodCycles and ClockStretch are consumed
// here.
func NewBitBangInitiator(pads Pads, cfg Config) (*BitBangInitiator, error) {
	if pads == nil {
		panic(badPads)
	}
	if cfg.PeriodCycles < 4 {
		return nil, ErrShortPeriod
	}
	ini := &BitBangInitiator{
		pads:    pads,
		half:    cfg.PeriodCycles / 2,
		stretch: cfg.ClockStretch,
	}
	pads.DriveSCL(false)
	pads.DriveSDA(false)
	return ini, nil
}

// Busy reports whether a command is still executing.
func (ini *BitBangInitiator) Busy() bool { return ini.state != bbIdle }

// Ack reports whether the most recent write was acknowledged.
func (ini *BitBangInitiator) Ack() bool { return ini.ack }

// Data returns the byte captured by the most recent read.
func (ini *BitBangInitiator) Data() uint8 { return ini.data }

// AckReads controls whether read commands acknowledge the received
// byte. Acknowledge every byte of a transfer except the final one.
func (ini *BitBangInitiator) AckReads(ack bool) { ini.ackRead = ack }

// Tick advances the engine by one clock cycle. A command presented
// while the engine is free starts executing on the same cycle; while
// busy, cmd is ignored.
func (ini *BitBangInitiator) Tick(cmd Command) {
	if ini.state == bbIdle {
		ini.accept(cmd)
		return
	}
	if ini.stretch && ini.sclReleased() && !ini.pads.SCL() {
		return
	}
	ini.wait--
	if ini.wait == 0 {
		ini.advance()
	}
}

func (ini *BitBangInitiator) accept(cmd Command) {
	switch {
	case cmd.Start:
		if ini.active {
			ini.enter(bbStartSDAHigh)
		} else {
			ini.enter(bbStartSDALow)
		}
	case cmd.Stop:
		ini.enter(bbStopSDALow)
	case cmd.Write:
		ini.sr = cmd.Data
		ini.bit = 9
		ini.reading = false
		ini.enter(bbBitSCLLow)
	case cmd.Read:
		ini.data = 0
		ini.bit = 9
		ini.reading = true
		ini.enter(bbBitSCLLow)
	}
}

// sclReleased reports whether the current phase has let go of SCL, the
// window where a stretching device can pause the engine.
func (ini *BitBangInitiator) sclReleased() bool {
	switch ini.state {
	case bbStartSCLHigh, bbBitSCLHigh, bbStopSCLHigh:
		return true
	}
	return false
}

// enter switches phases, driving the pads for the new one and arming
// the half period countdown.
func (ini *BitBangInitiator) enter(st bbState) {
	ini.state = st
	ini.wait = ini.half
	switch st {
	case bbIdle:
		ini.wait = 0
	case bbStartSDAHigh:
		ini.pads.DriveSDA(false)
	case bbStartSCLHigh:
		ini.pads.DriveSCL(false)
	case bbStartSDALow:
		ini.pads.DriveSDA(true)
	case bbStartSCLLow:
		ini.pads.DriveSCL(true)
	case bbBitSCLLow:
		ini.pads.DriveSCL(true)
		ini.driveDataBit()
	case bbBitSCLHigh:
		ini.pads.DriveSCL(false)
	case bbBitEnd:
		ini.pads.DriveSCL(true)
		ini.pads.DriveSDA(false)
	case bbStopSDALow:
		ini.pads.DriveSDA(true)
	case bbStopSCLHigh:
		ini.pads.DriveSCL(false)
	case bbStopSDAHigh:
		ini.pads.DriveSDA(false)
	}
}

func (ini *BitBangInitiator) driveDataBit() {
	if ini.bit == 1 {
		// ninth slot: release for writes so the device answers, drive
		// the acknowledge level for reads
		if ini.reading {
			ini.pads.DriveSDA(ini.ackRead)
		} else {
			ini.pads.DriveSDA(false)
		}
		return
	}
	if ini.reading {
		ini.pads.DriveSDA(false)
		return
	}
	// MSB first; a zero bit pulls the line low
	ini.pads.DriveSDA(ini.sr&0x80 == 0)
}

func (ini *BitBangInitiator) sampleBit() {
	sda := ini.pads.SDA()
	if ini.bit == 1 {
		if !ini.reading {
			ini.ack = !sda
		}
		return
	}
	if ini.reading {
		ini.data <<= 1
		if sda {
			ini.data |= 1
		}
	}
}

func (ini *BitBangInitiator) advance() {
	switch ini.state {
	case bbStartSDAHigh:
		ini.enter(bbStartSCLHigh)
	case bbStartSCLHigh:
		ini.enter(bbStartSDALow)
	case bbStartSDALow:
		ini.enter(bbStartSCLLow)
	case bbStartSCLLow:
		ini.active = true
		ini.enter(bbIdle)
	case bbBitSCLLow:
		ini.enter(bbBitSCLHigh)
	case bbBitSCLHigh:
		ini.sampleBit()
		ini.bit--
		if ini.bit == 0 {
			ini.enter(bbBitEnd)
		} else {
			if !ini.reading && ini.bit > 1 {
				ini.sr <<= 1
			}
			ini.enter(bbBitSCLLow)
		}
	case bbBitEnd:
		ini.enter(bbIdle)
	case bbStopSDALow:
		ini.enter(bbStopSCLHigh)
	case bbStopSCLHigh:
		ini.enter(bbStopSDAHigh)
	case bbStopSDAHigh:
		ini.active = false
		ini.enter(bbIdle)
	}
}
