// Package cdc models the clock domain crossing helpers the transmitter
// cores place in front of asynchronous control inputs: a multi-stage
// flip-flop synchronizer and an edge detector producing one-cycle
// pulses.
package cdc

const badStageCount = "cdc: synchronizer needs at least 1 stage"

// SyncStages is the conventional synchronizer depth for asynchronous
// inputs.
const SyncStages = 2

// Synchronizer is a chain of flip-flops clocked by Tick. It delays a
// raw input level by its stage count so that downstream logic only
// ever observes a registered value.
type Synchronizer struct {
	stages []bool
}

// NewSynchronizer returns a synchronizer with the given number of
// stages. Use SyncStages unless a deeper chain is required.
func NewSynchronizer(stages int) *Synchronizer {
	if stages < 1 {
		panic(badStageCount)
	}
	return &Synchronizer{stages: make([]bool, stages)}
}

// Tick clocks the chain once: raw enters the first stage and the last
// stage's value is returned. All stages reset to false.
func (s *Synchronizer) Tick(raw bool) bool {
	for i := len(s.stages) - 1; i > 0; i-- {
		s.stages[i] = s.stages[i-1]
	}
	s.stages[0] = raw
	return s.stages[len(s.stages)-1]
}

// EdgeDetector reports level transitions as one-cycle pulses. The zero
// value is ready to use and assumes the line was low before the first
// Tick.
type EdgeDetector struct {
	prev bool
}

// Tick compares level against the previous cycle's value. rose pulses
// on a low-to-high transition, fell on high-to-low; both are false
// while the level is steady.
func (d *EdgeDetector) Tick(level bool) (rose, fell bool) {
	rose = level && !d.prev
	fell = !level && d.prev
	d.prev = level
	return rose, fell
}
