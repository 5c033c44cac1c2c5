package i2s

import (
	"errors"

	"periph.io/x/conn/v3/physic"
)

// Format selects how frames are laid out on the serial line.
type Format uint8

const (
	// FormatStandard is the Philips convention: a single zero bit
	// leads each channel's sample and word select low marks the left
	// channel.
	FormatStandard Format = iota

	// FormatLeftJustified starts the sample on the first clock of the
	// half frame and word select high marks the left channel.
	FormatLeftJustified
)

func (f Format) String() string {
	switch f {
	case FormatStandard:
		return "standard"
	case FormatLeftJustified:
		return "left-justified"
	}
	return "unknown"
}

var (
	ErrSampleWidth = errors.New("i2s: sample width must be 1 to 32")
	ErrBadFormat   = errors.New("i2s: unknown frame format")
	ErrFIFODepth   = errors.New("i2s: negative fifo depth")
	ErrSampleRate  = errors.New("i2s: sample rate out of range")
)

// DefaultFIFODepth is the sample queue depth used when Config leaves
// FIFODepth zero.
const DefaultFIFODepth = 16

// ConcatWidthLimit is the widest sample that still lets both channels
// of a frame share one queue entry.
const ConcatWidthLimit = 16

// Config carries the construction parameters of a Transmitter.
type Config struct {
	// SampleWidth is the width of one channel's sample in bits, 1 to
	// 32. Widths up to ConcatWidthLimit store a whole stereo frame per
	// queue entry, left sample in the upper half.
	SampleWidth int

	// Format selects the frame layout. The zero value is
	// FormatStandard.
	Format Format

	// FIFODepth is the sample queue depth. Zero selects
	// DefaultFIFODepth.
	FIFODepth int
}

// resolved holds the widths and masks derived from a Config once at
// construction. The state machine consults these only.
type resolved struct {
	sampleWidth int
	format      Format
	concat      bool
	depth       int

	// queueWidth is the payload width of one queue entry; bufWidth
	// adds the leading zero of the standard format. chanBits is the
	// number of shifts per half frame.
	queueWidth int
	bufWidth   int
	chanBits   int

	sampleMask uint32
	bufMask    uint64
	tap        uint
}

func (cfg Config) resolve() (resolved, error) {
	if cfg.SampleWidth < 1 || cfg.SampleWidth > 32 {
		return resolved{}, ErrSampleWidth
	}
	if cfg.Format != FormatStandard && cfg.Format != FormatLeftJustified {
		return resolved{}, ErrBadFormat
	}
	if cfg.FIFODepth < 0 {
		return resolved{}, ErrFIFODepth
	}
	r := resolved{
		sampleWidth: cfg.SampleWidth,
		format:      cfg.Format,
		concat:      cfg.SampleWidth <= ConcatWidthLimit,
		depth:       cfg.FIFODepth,
	}
	if r.depth == 0 {
		r.depth = DefaultFIFODepth
	}
	r.queueWidth = cfg.SampleWidth
	if r.concat {
		r.queueWidth = 2 * cfg.SampleWidth
	}
	r.bufWidth = r.queueWidth
	r.chanBits = cfg.SampleWidth
	if cfg.Format == FormatStandard {
		r.bufWidth++
		r.chanBits++
	}
	r.sampleMask = ^uint32(0) >> (32 - uint(cfg.SampleWidth))
	r.bufMask = ^uint64(0) >> (64 - uint(r.bufWidth))
	r.tap = uint(r.bufWidth - 1)
	return r, nil
}

// BitClockFrequency returns the minimum serial clock for streaming
// stereo frames at rate: two half frames per sample pair, each one
// extended channel width long.
func (cfg Config) BitClockFrequency(rate physic.Frequency) (physic.Frequency, error) {
	r, err := cfg.resolve()
	if err != nil {
		return 0, err
	}
	if rate <= 0 {
		return 0, ErrSampleRate
	}
	return rate * physic.Frequency(2*r.chanBits), nil
}
