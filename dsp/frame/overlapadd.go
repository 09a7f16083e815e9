package frame

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

var (
	errHopExceedsFrame = errors.New("frame: hop size exceeds frame size")
	errChannelCount    = errors.New("frame: channel count mismatch")
)

// BlockFunc receives the working frames, one per channel, each frameSize
// samples long. The slices are reused between calls and must not be
// retained.
type BlockFunc func(frames [][]float64)

// OverlapAdd gathers input into overlapping frames, hands each to a
// processor and reconstructs a continuous output by adding the processed
// frames back together on the hop grid. Output lags input by one frame.
type OverlapAdd struct {
	maxFrameSize int
	channels     int

	// Input writes are duplicated at p and p+frameSize so a full frame
	// is always contiguous at the read position.
	inputRing  [][]float64 // 2*maxFrameSize per channel
	outputRing [][]float64 // maxFrameSize per channel
	frames     [][]float64
	views      [][]float64

	frameSize int
	hopSize   int

	ioPointer  int
	hopPointer int

	pending          bool
	pendingFrameSize int
	pendingHopSize   int
	pendingHopOffset int
	resetFlag        bool
}

// NewOverlapAdd returns an engine for the given channel count and frames
// up to maxFrameSize. Frame and hop size default to maxFrameSize.
func NewOverlapAdd(channels, maxFrameSize int) (*OverlapAdd, error) {
	if channels < 1 {
		return nil, errNoChannels
	}
	if maxFrameSize < 1 {
		return nil, fmt.Errorf("frame: max frame size must be positive: %d", maxFrameSize)
	}

	o := &OverlapAdd{
		maxFrameSize: maxFrameSize,
		channels:     channels,
		inputRing:    make([][]float64, channels),
		outputRing:   make([][]float64, channels),
		frames:       make([][]float64, channels),
		views:        make([][]float64, channels),
		frameSize:    maxFrameSize,
		hopSize:      maxFrameSize,
		// Start on a hop boundary so a pre-roll parameter change takes
		// effect before the first sample.
		hopPointer: maxFrameSize,
	}
	for c := range channels {
		o.inputRing[c] = make([]float64, 2*maxFrameSize)
		o.outputRing[c] = make([]float64, maxFrameSize)
		o.frames[c] = make([]float64, maxFrameSize)
	}
	return o, nil
}

// MaxFrameSize returns the construction-time capacity.
func (o *OverlapAdd) MaxFrameSize() int { return o.maxFrameSize }

// Channels returns the channel count.
func (o *OverlapAdd) Channels() int { return o.channels }

// FrameSize returns the current frame size.
func (o *OverlapAdd) FrameSize() int { return o.frameSize }

// HopSize returns the current hop size.
func (o *OverlapAdd) HopSize() int { return o.hopSize }

// SetParams schedules a frame and hop size change. The change takes
// effect at the next hop boundary; hopOffset preloads the hop counter so
// the first hop after the change comes early.
func (o *OverlapAdd) SetParams(frameSize, hopSize, hopOffset int) error {
	if frameSize < 1 || frameSize > o.maxFrameSize {
		return fmt.Errorf("%w: %d > %d", errFrameTooBig, frameSize, o.maxFrameSize)
	}
	if hopSize < 1 || hopSize > frameSize {
		return fmt.Errorf("%w: %d > %d", errHopExceedsFrame, hopSize, frameSize)
	}
	if hopOffset < 0 || hopOffset >= hopSize {
		return fmt.Errorf("frame: hop offset out of range: %d", hopOffset)
	}

	o.pendingFrameSize = frameSize
	o.pendingHopSize = hopSize
	o.pendingHopOffset = hopOffset
	o.pending = true
	return nil
}

// Reset clears all rings at the next hop boundary.
func (o *OverlapAdd) Reset() {
	o.resetFlag = true
}

// BlockProcess pushes n input samples per channel and pulls n output
// samples, invoking fn once per completed hop. It reports whether any
// frame was processed.
func (o *OverlapAdd) BlockProcess(ins, outs [][]float64, n int, fn BlockFunc) (bool, error) {
	if len(ins) != o.channels || len(outs) != o.channels {
		return false, fmt.Errorf("%w: %d in, %d out, want %d", errChannelCount, len(ins), len(outs), o.channels)
	}
	for c := range o.channels {
		if len(ins[c]) < n || len(outs[c]) < n {
			return false, fmt.Errorf("%w: channel %d", errShortInput, c)
		}
	}

	processed := false
	for offset := 0; offset < n; {
		if o.hopPointer >= o.hopSize {
			o.hopPointer -= o.hopSize
			if o.pending || o.resetFlag {
				o.applyPending()
			} else {
				o.processFrame(fn)
				processed = true
			}
		}

		loopSize := min(o.hopSize-o.hopPointer, o.frameSize-o.ioPointer, n-offset)
		p := o.ioPointer
		for c := range o.channels {
			in := ins[c][offset : offset+loopSize]
			copy(o.inputRing[c][p:], in)
			copy(o.inputRing[c][p+o.frameSize:], in)
			copy(outs[c][offset:offset+loopSize], o.outputRing[c][p:p+loopSize])
		}

		o.ioPointer = (p + loopSize) % o.frameSize
		o.hopPointer += loopSize
		offset += loopSize
	}
	return processed, nil
}

// applyPending installs a scheduled parameter change or reset. Both
// restart the rings, so the engine refills before the next frame.
func (o *OverlapAdd) applyPending() {
	if o.pending {
		o.frameSize = o.pendingFrameSize
		o.hopSize = o.pendingHopSize
		o.hopPointer = o.pendingHopOffset
		o.pending = false
	}
	if o.resetFlag {
		o.hopPointer = 0
		o.resetFlag = false
	}
	o.ioPointer = 0
	for c := range o.channels {
		for i := range o.inputRing[c] {
			o.inputRing[c][i] = 0
		}
		for i := range o.outputRing[c] {
			o.outputRing[c][i] = 0
		}
	}
}

// processFrame runs fn on the frame ending at the current position and
// overlap-adds the result into the output ring.
func (o *OverlapAdd) processFrame(fn BlockFunc) {
	f, h, p := o.frameSize, o.hopSize, o.ioPointer

	for c := range o.channels {
		copy(o.frames[c][:f], o.inputRing[c][p:p+f])
		o.views[c] = o.frames[c][:f]
	}
	fn(o.views)

	for c := range o.channels {
		ring := o.outputRing[c][:f]
		// Overlapping region accumulates, the freshly consumed tail is
		// overwritten.
		o.ringAdd(ring, o.frames[c][:f-h], p)
		o.ringCopy(ring, o.frames[c][f-h:f], (p+f-h)%f)
	}
}

// ringAdd accumulates src into ring starting at pos, wrapping once.
func (o *OverlapAdd) ringAdd(ring, src []float64, pos int) {
	head := min(len(src), len(ring)-pos)
	vecmath.AddBlockInPlace(ring[pos:pos+head], src[:head])
	vecmath.AddBlockInPlace(ring[:len(src)-head], src[head:])
}

// ringCopy overwrites ring starting at pos, wrapping once.
func (o *OverlapAdd) ringCopy(ring, src []float64, pos int) {
	head := min(len(src), len(ring)-pos)
	copy(ring[pos:pos+head], src[:head])
	copy(ring[:len(src)-head], src[head:])
}
