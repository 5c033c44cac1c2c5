// Package stream provides the payload stream primitives shared by the
// transmitter cores: a tagged stream unit, a bounded FIFO queue, and a
// valid/ready adapter that feeds a queue one unit per clock cycle.
package stream

// Unit is one element of a payload stream. Data carries up to 32
// payload bits; First and Last tag the unit's position in a frame.
// Cores that have no frame structure may leave the tags unused or
// repurpose First as a channel marker.
type Unit struct {
	Data  uint32
	First bool
	Last  bool
}

// Frame tags a sequence of payload words as one frame: First on the
// leading unit, Last on the trailing one. A single word carries both
// tags.
func Frame(data ...uint32) []Unit {
	units := make([]Unit, len(data))
	for i, d := range data {
		units[i] = Unit{Data: d, First: i == 0, Last: i == len(data)-1}
	}
	return units
}
