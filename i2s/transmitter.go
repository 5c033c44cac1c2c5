// Package i2s implements a stream fed I2S transmitter driven by
// external serial and word select clocks. The transmitter is a cycle
// accurate state machine: each Tick is one cycle of the core clock,
// the serial clock and word select inputs pass through two stage
// synchronizers, and sample data shifts out of a queue one bit per
// serial clock period, most significant bit first.
package i2s

import (
	"github.com/amaranth-community-unofficial/amlib/cdc"
	"github.com/amaranth-community-unofficial/amlib/stream"
)

// Inputs are the levels a Transmitter samples during one clock cycle.
// SerialClock and WordSelect may come from another clock domain; the
// state machine only ever sees their synchronized form.
type Inputs struct {
	Enable      bool
	SerialClock bool
	WordSelect  bool
}

// Outputs are the line level and event pulses produced by one clock
// cycle. Underflow and Mismatch are single cycle pulses; SerialData
// holds its level between emissions.
type Outputs struct {
	SerialData bool
	Underflow  bool
	Mismatch   bool
	FIFOLevel  int
}

type txState uint8

const (
	stIdle txState = iota
	stWaitSync
	stLeftFall
	stLeft
	stLeftWait
	stRightFall
	stRight
	stRightWait
)

const (
	badPutSample   = "i2s: PutSample needs a sample width above 16, use PutStereo"
	badWriteStereo = "i2s: WriteStereo needs a sample width of 16 or less"
)

// Transmitter serializes stereo samples onto an externally clocked
// I2S data line.
//
// Samples enter through PutSample, PutStereo, WriteStereo or the
// stream adapter. In concatenated configurations every queue entry is
// one whole frame and channel tags are ignored; otherwise entries
// alternate left and right, left carrying the First tag. When a half
// frame boundary finds the queue empty the previous contents have
// already drained to zero, the half plays silent and Underflow pulses;
// a head entry tagged for the wrong channel is consumed and played
// anyway with a Mismatch pulse, so one bad tag cannot jam the stream.
type Transmitter struct {
	cfg resolved
	q   *stream.Queue
	in  *stream.Adapter

	sck     *cdc.Synchronizer
	ws      *cdc.Synchronizer
	sckEdge cdc.EdgeDetector

	state txState
	buf   uint64
	cnt   int
	out   bool
}

// NewTransmitter returns a transmitter for the given configuration.
func NewTransmitter(cfg Config) (*Transmitter, error) {
	r, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	q := stream.NewQueue(r.depth)
	return &Transmitter{
		cfg: r,
		q:   q,
		in:  stream.NewAdapter(q, r.queueWidth),
		sck: cdc.NewSynchronizer(cdc.SyncStages),
		ws:  cdc.NewSynchronizer(cdc.SyncStages),
	}, nil
}

// Tick advances the transmitter by one core clock cycle.
//
// While enabled the machine waits for a rising serial clock edge
// inside the left half of a frame, then emits one bit per serial
// clock period: the data line changes shortly after each falling edge
// and is stable around the next rising edge. Dropping Enable freezes
// the line at its current level and returns the machine to idle; the
// queue and its contents survive.
func (tx *Transmitter) Tick(in Inputs) Outputs {
	sck := tx.sck.Tick(in.SerialClock)
	ws := tx.ws.Tick(in.WordSelect)
	rose, fell := tx.sckEdge.Tick(sck)
	left := tx.leftLevel(ws)

	var out Outputs
	switch tx.state {
	case stIdle:
		if in.Enable && rose && left {
			tx.state = stWaitSync
		}

	case stWaitSync:
		// one full left aligned period so the first frame starts on a
		// clean boundary
		if rose && left {
			tx.loadFirst()
			tx.state = stLeftFall
		}

	case stLeftFall:
		if fell {
			tx.state = stLeft
		}

	case stLeft:
		if !in.Enable {
			tx.state = stIdle
			break
		}
		tx.shiftOut()
		tx.state = stLeftWait

	case stLeftWait:
		if !in.Enable {
			tx.state = stIdle
			break
		}
		if !rose {
			break
		}
		switch {
		case tx.cnt == 0 && !left:
			tx.cnt = tx.cfg.chanBits
			if tx.cfg.concat {
				// the right half is already in the buffer
				tx.state = stRight
			} else {
				tx.reload(false, &out)
				tx.state = stRightFall
			}
		case tx.cnt > 0:
			tx.state = stLeftFall
		}

	case stRightFall:
		if fell {
			tx.state = stRight
		}

	case stRight:
		if !in.Enable {
			tx.state = stIdle
			break
		}
		tx.shiftOut()
		tx.state = stRightWait

	case stRightWait:
		if !in.Enable {
			tx.state = stIdle
			break
		}
		if !rose {
			break
		}
		switch {
		case tx.cnt == 0 && left:
			tx.cnt = tx.cfg.chanBits
			if tx.cfg.concat {
				tx.loadNext()
			} else {
				tx.reload(true, &out)
			}
			tx.state = stLeftFall
		case tx.cnt > 0:
			tx.state = stRightFall
		}
	}

	out.SerialData = tx.out
	out.FIFOLevel = tx.q.Level()
	return out
}

// leftLevel maps the synchronized word select level to the channel
// phase of the configured format.
func (tx *Transmitter) leftLevel(ws bool) bool {
	if tx.cfg.format == FormatStandard {
		return !ws
	}
	return ws
}

// loadFirst primes the shift buffer when the stream starts. An empty
// queue loads silence without an underflow pulse so the line timing is
// unaffected.
func (tx *Transmitter) loadFirst() {
	tx.cnt = tx.cfg.chanBits
	tx.buf = 0
	if u, ok := tx.q.Pop(); ok {
		tx.buf = uint64(u.Data)
	}
}

// reload pulls the next channel entry at a half frame boundary. left
// names the channel now beginning, which the entry's First tag must
// match: left entries carry the tag, right entries do not. On
// underflow the drained buffer is kept, playing the half silent; a
// mismatched entry is consumed and played regardless.
func (tx *Transmitter) reload(left bool, out *Outputs) {
	u, ok := tx.q.Pop()
	if !ok {
		out.Underflow = true
		return
	}
	if u.First != left {
		out.Mismatch = true
	}
	tx.buf = uint64(u.Data)
}

// loadNext pulls the next frame's packed pair. Concatenated entries
// have no channel tags to check and an empty queue silently replays
// the drained buffer.
func (tx *Transmitter) loadNext() {
	if u, ok := tx.q.Pop(); ok {
		tx.buf = uint64(u.Data)
	}
}

// shiftOut emits the buffer's top bit and shifts up one, filling with
// zeroes from the bottom.
func (tx *Transmitter) shiftOut() {
	tx.out = tx.buf>>tx.cfg.tap&1 == 1
	tx.buf = tx.buf << 1 & tx.cfg.bufMask
	tx.cnt--
}

// StreamIn returns the adapter feeding the sample queue. Entries are
// queueWidth bits wide: one tagged channel sample, or a packed frame
// with the left sample in the upper half when the configuration
// concatenates channels.
func (tx *Transmitter) StreamIn() *stream.Adapter { return tx.in }

// FIFOLevel returns the number of queued entries.
func (tx *Transmitter) FIFOLevel() int { return tx.q.Level() }

// IsFIFOFull reports whether the sample queue is full.
func (tx *Transmitter) IsFIFOFull() bool { return tx.q.Full() }

// PutSample queues one channel sample, left naming the channel, and
// reports whether the queue had room. Only configurations too wide for
// channel concatenation store samples individually.
func (tx *Transmitter) PutSample(left bool, sample uint32) bool {
	if tx.cfg.concat {
		panic(badPutSample)
	}
	return tx.q.Push(stream.Unit{Data: sample & tx.cfg.sampleMask, First: left})
}

// PutStereo queues one frame. Concatenated configurations pack both
// samples into a single entry; otherwise the samples enter as two
// tagged entries, atomically. It reports whether the queue had room
// for the whole frame.
func (tx *Transmitter) PutStereo(left, right uint32) bool {
	l := left & tx.cfg.sampleMask
	r := right & tx.cfg.sampleMask
	if tx.cfg.concat {
		return tx.q.Push(stream.Unit{
			Data:  l<<uint(tx.cfg.sampleWidth) | r,
			First: true,
		})
	}
	if tx.q.Level()+2 > tx.q.Depth() {
		return false
	}
	tx.q.Push(stream.Unit{Data: l, First: true})
	tx.q.Push(stream.Unit{Data: r})
	return true
}

// WriteStereo queues packed stereo words, the left sample in the upper
// half word, and returns how many frames were accepted. It requires a
// concatenated configuration.
func (tx *Transmitter) WriteStereo(frames []uint32) int {
	if !tx.cfg.concat {
		panic(badWriteStereo)
	}
	for i, f := range frames {
		if !tx.PutStereo(f>>16, f&0xffff) {
			return i
		}
	}
	return len(frames)
}
