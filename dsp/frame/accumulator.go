package frame

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectral/dsp/stream"
)

var (
	errFrameTooBig = errors.New("frame: frame size exceeds capacity")
	errBadHop      = errors.New("frame: hop size must be >= 1")
	errNoChannels  = errors.New("frame: at least one input channel required")
	errShortInput  = errors.New("frame: input block shorter than requested count")
)

// ProcessFunc receives each completed frame. fractionalOffset is in
// [0, 1) and carries the sub-sample hop timing for non-integer hops.
// The frame slice is reused between calls and must not be retained.
type ProcessFunc func(frame []float64, fractionalOffset float64)

// Accumulator feeds fixed-size frames to a processor from input blocks
// of arbitrary length, on a hop grid that may be fractional.
type Accumulator struct {
	in    *stream.Stream
	frame []float64
	mono  []float64

	maxFrameSize int
	frameSize    int
	hopSize      float64

	hopCounter float64
	hopShift   float64

	resetStream  bool
	resetCounter bool
}

// NewAccumulator returns an Accumulator for frames up to maxFrameSize.
// Frame and hop size default to maxFrameSize.
func NewAccumulator(maxFrameSize int) (*Accumulator, error) {
	if maxFrameSize < 1 {
		return nil, fmt.Errorf("frame: max frame size must be positive: %d", maxFrameSize)
	}
	in, err := stream.New(stream.Input, 1, maxFrameSize)
	if err != nil {
		return nil, err
	}

	return &Accumulator{
		in:           in,
		frame:        make([]float64, maxFrameSize),
		mono:         make([]float64, maxFrameSize),
		maxFrameSize: maxFrameSize,
		frameSize:    maxFrameSize,
		hopSize:      float64(maxFrameSize),
	}, nil
}

// MaxFrameSize returns the construction-time capacity.
func (a *Accumulator) MaxFrameSize() int { return a.maxFrameSize }

// FrameSize returns the current frame size.
func (a *Accumulator) FrameSize() int { return a.frameSize }

// HopSize returns the current hop size.
func (a *Accumulator) HopSize() float64 { return a.hopSize }

// SetParams changes the frame and hop size. With immediate set the hop
// counter is replaced by hopOffset and the input history is cleared at
// the next call; otherwise hopOffset joins a pending shift picked up at
// the next call.
func (a *Accumulator) SetParams(frameSize int, hopSize float64, immediate bool, hopOffset float64) error {
	if frameSize < 1 || frameSize > a.maxFrameSize {
		return fmt.Errorf("%w: %d > %d", errFrameTooBig, frameSize, a.maxFrameSize)
	}
	if hopSize < 1 {
		return fmt.Errorf("%w: %v", errBadHop, hopSize)
	}

	a.frameSize = frameSize
	a.hopSize = hopSize
	if immediate {
		a.hopCounter = hopOffset
		a.resetStream = true
	} else {
		a.hopShift += hopOffset
	}
	return nil
}

// OffsetHop shifts the next hop by delta samples.
func (a *Accumulator) OffsetHop(delta float64) {
	a.hopShift += delta
}

// Reset clears the input history and zeroes the hop counter at the next
// call.
func (a *Accumulator) Reset() {
	a.resetStream = true
	a.resetCounter = true
}

// StreamToFrame pushes n samples per channel, summing channels to mono,
// and invokes fn once per completed hop. It reports whether any frame
// was emitted.
func (a *Accumulator) StreamToFrame(ins [][]float64, n int, fn ProcessFunc) (bool, error) {
	if len(ins) == 0 {
		return false, errNoChannels
	}
	for c, in := range ins {
		if len(in) < n {
			return false, fmt.Errorf("%w: channel %d has %d < %d", errShortInput, c, len(in), n)
		}
	}

	if a.resetStream {
		a.in.Reset()
		a.resetStream = false
	}
	if a.resetCounter {
		a.hopCounter = 0
		a.resetCounter = false
	}

	c := a.hopCounter - a.hopShift
	a.hopShift = 0

	emitted := false
	for offset := 0; offset < n; {
		if c >= a.hopSize {
			c -= a.hopSize
			if c < 0 || c >= 1 {
				c = 0
			}
			if err := a.in.Read([][]float64{a.frame[:a.frameSize]}, a.frameSize); err != nil {
				return emitted, err
			}
			frac := 0.0
			if c > 0 {
				frac = 1 - c
			}
			fn(a.frame[:a.frameSize], frac)
			emitted = true
		}

		loopSize := int(math.Ceil(a.hopSize - c))
		loopSize = min(loopSize, n-offset, a.maxFrameSize)

		mono := a.mono[:loopSize]
		copy(mono, ins[0][offset:offset+loopSize])
		for _, in := range ins[1:] {
			vecmath.AddBlockInPlace(mono, in[offset:offset+loopSize])
		}
		if err := a.in.Write([][]float64{mono}, loopSize); err != nil {
			return emitted, err
		}

		c += float64(loopSize)
		offset += loopSize
	}

	a.hopCounter = c
	return emitted, nil
}
