package stream

const badPayloadWidth = "stream: payload width must be 1 to 32"

// Adapter moves units from a valid/ready handshake into a queue, one
// unit per clock cycle. The payload is masked to the configured width
// on entry; the frame tags are stored alongside.
type Adapter struct {
	q    *Queue
	mask uint32
}

// NewAdapter returns an adapter writing into q. width is the payload
// width in bits, 1 to 32.
func NewAdapter(q *Queue, width int) *Adapter {
	if width < 1 || width > 32 {
		panic(badPayloadWidth)
	}
	return &Adapter{q: q, mask: ^uint32(0) >> (32 - width)}
}

// Tick advances the adapter by one clock cycle. The returned ready
// reflects queue space at the start of the cycle; u is accepted exactly
// when valid and ready are both true. A producer whose unit was not
// accepted must present it again on the next cycle.
func (a *Adapter) Tick(valid bool, u Unit) (ready bool) {
	ready = !a.q.Full()
	if valid && ready {
		u.Data &= a.mask
		a.q.Push(u)
	}
	return ready
}

// Source presents a pre-recorded sequence of units to an adapter,
// holding each unit steady until the cycle it is accepted.
type Source struct {
	units []Unit
	next  int
}

// NewSource returns a source that will present the given units in
// order.
func NewSource(units ...Unit) *Source {
	return &Source{units: units}
}

// Append adds more units behind any still pending.
func (s *Source) Append(units ...Unit) {
	s.units = append(s.units, units...)
}

// Feed runs one handshake cycle against a: the head unit is presented
// if one is pending, and consumed when accepted. It reports whether a
// unit was accepted this cycle.
func (s *Source) Feed(a *Adapter) bool {
	valid := s.next < len(s.units)
	var u Unit
	if valid {
		u = s.units[s.next]
	}
	ready := a.Tick(valid, u)
	if valid && ready {
		s.next++
		return true
	}
	return false
}

// Done reports whether every unit has been accepted.
func (s *Source) Done() bool { return s.next >= len(s.units) }
