package i2c

import "github.com/amaranth-community-unofficial/amlib/stream"

type txState uint8

const (
	txIdle txState = iota
	txStreaming
	txStop
)

const badInitiator = "i2c: nil initiator"

// StreamTransmitter drains framed bytes from its queue onto an
// initiator. A frame tagged First through Last becomes a start
// condition, one write per byte and a stop condition, paced by the
// initiator's Busy signal.
type StreamTransmitter struct {
	ini   Initiator
	q     *stream.Queue
	in    *stream.Adapter
	state txState
}

// NewStreamTransmitter returns a transmitter feeding ini. Config's
// FIFODepth sizes the transmit queue.
func NewStreamTransmitter(ini Initiator, cfg Config) (*StreamTransmitter, error) {
	if ini == nil {
		panic(badInitiator)
	}
	depth, err := cfg.fifoDepth()
	if err != nil {
		return nil, err
	}
	q := stream.NewQueue(depth)
	return &StreamTransmitter{
		ini: ini,
		q:   q,
		in:  stream.NewAdapter(q, 8),
	}, nil
}

// Tick advances the transmitter and its initiator by one clock cycle
// and returns the command issued during that cycle.
//
// A frame only begins while the queue head carries the First tag and
// the initiator is free. While streaming, one byte is written per free
// cycle; if the queue runs dry mid frame the transmitter holds until
// more data arrives, and a byte is never issued twice. The byte
// carrying the Last tag is followed by a stop.
func (t *StreamTransmitter) Tick() Command {
	var cmd Command
	busy := t.ini.Busy()
	switch t.state {
	case txIdle:
		if !busy {
			if u, ok := t.q.Peek(); ok && u.First {
				cmd.Start = true
				t.state = txStreaming
			}
		}
	case txStreaming:
		if !busy {
			if u, ok := t.q.Pop(); ok {
				cmd.Write = true
				cmd.Data = uint8(u.Data)
				if u.Last {
					t.state = txStop
				}
			}
		}
	case txStop:
		if !busy {
			cmd.Stop = true
			t.state = txIdle
		}
	}
	t.ini.Tick(cmd)
	return cmd
}

// StreamIn returns the adapter feeding the transmit queue.
func (t *StreamTransmitter) StreamIn() *stream.Adapter { return t.in }

// FIFOLevel returns the number of queued bytes.
func (t *StreamTransmitter) FIFOLevel() int { return t.q.Level() }

// IsFIFOFull reports whether the transmit queue is full.
func (t *StreamTransmitter) IsFIFOFull() bool { return t.q.Full() }

// Idle reports whether no frame is in progress. The initiator may
// still be finishing the final stop.
func (t *StreamTransmitter) Idle() bool { return t.state == txIdle }

// PutFrame queues a whole frame of bytes, tagged First through Last,
// and reports whether the queue had room. A frame never enters
// partially and empty frames are refused.
func (t *StreamTransmitter) PutFrame(p []byte) bool {
	if len(p) == 0 || t.q.Level()+len(p) > t.q.Depth() {
		return false
	}
	for i, b := range p {
		t.q.Push(stream.Unit{
			Data:  uint32(b),
			First: i == 0,
			Last:  i == len(p)-1,
		})
	}
	return true
}
