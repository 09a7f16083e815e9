package delay

import (
	"errors"
	"fmt"
)

var (
	errFrameTooBig  = errors.New("delay: frame size exceeds capacity")
	errTooManyChans = errors.New("delay: channel count exceeds capacity")
	errDelayTooLong = errors.New("delay: delay exceeds maximum frames")
	errShortBlock   = errors.New("delay: buffer shorter than frame size")
)

// FrameDelay delays whole frames by a configurable number of frames.
type FrameDelay struct {
	// One flat array per channel; slot s occupies
	// [s*maxFrameSize, s*maxFrameSize+frameSize).
	data [][]float64

	maxFrameSize int
	maxFrames    int
	slots        int

	frameSize   int
	writeCursor int
	validFrames int
	clear       bool
}

// New returns a FrameDelay holding up to maxFrames frames of maxFrameSize
// samples across maxChannels channels.
func New(maxChannels, maxFrameSize, maxFrames int) (*FrameDelay, error) {
	if maxChannels < 1 {
		return nil, fmt.Errorf("delay: channel capacity must be positive: %d", maxChannels)
	}
	if maxFrameSize < 1 {
		return nil, fmt.Errorf("delay: frame capacity must be positive: %d", maxFrameSize)
	}
	if maxFrames < 0 {
		return nil, fmt.Errorf("delay: max frames must be non-negative: %d", maxFrames)
	}

	slots := maxFrames + 1
	data := make([][]float64, maxChannels)
	for c := range data {
		data[c] = make([]float64, slots*maxFrameSize)
	}
	return &FrameDelay{
		data:         data,
		maxFrameSize: maxFrameSize,
		maxFrames:    maxFrames,
		slots:        slots,
	}, nil
}

// MaxFrames returns the largest usable delay in frames.
func (d *FrameDelay) MaxFrames() int { return d.maxFrames }

// MaxFrameSize returns the per-frame capacity in samples.
func (d *FrameDelay) MaxFrameSize() int { return d.maxFrameSize }

// Channels returns the channel capacity.
func (d *FrameDelay) Channels() int { return len(d.data) }

// Clear discards the stored history at the next call.
func (d *FrameDelay) Clear() {
	d.clear = true
}

// DelayIO stores one frame per channel and produces the frame written
// framesDelay calls earlier, or silence while the history is still
// filling. With framesDelay zero, ins and outs may share storage.
func (d *FrameDelay) DelayIO(outs, ins [][]float64, frameSize, channels, framesDelay int) error {
	if frameSize < 1 || frameSize > d.maxFrameSize {
		return fmt.Errorf("%w: %d > %d", errFrameTooBig, frameSize, d.maxFrameSize)
	}
	if channels < 1 || channels > len(d.data) {
		return fmt.Errorf("%w: %d > %d", errTooManyChans, channels, len(d.data))
	}
	if framesDelay < 0 || framesDelay > d.maxFrames {
		return fmt.Errorf("%w: %d > %d", errDelayTooLong, framesDelay, d.maxFrames)
	}
	for c := 0; c < channels; c++ {
		if len(ins[c]) < frameSize || len(outs[c]) < frameSize {
			return fmt.Errorf("%w: channel %d", errShortBlock, c)
		}
	}

	if d.clear || frameSize != d.frameSize {
		d.frameSize = frameSize
		d.writeCursor = 0
		d.validFrames = 0
		d.clear = false
	}

	ready := framesDelay <= d.validFrames
	read := (d.writeCursor - framesDelay + d.slots) % d.slots

	for c := 0; c < channels; c++ {
		wr := d.data[c][d.writeCursor*d.maxFrameSize:]
		copy(wr[:frameSize], ins[c][:frameSize])

		if ready {
			rd := d.data[c][read*d.maxFrameSize:]
			copy(outs[c][:frameSize], rd[:frameSize])
		} else {
			for i := 0; i < frameSize; i++ {
				outs[c][i] = 0
			}
		}
	}

	d.writeCursor = (d.writeCursor + 1) % d.slots
	if d.validFrames < d.slots {
		d.validFrames++
	}
	return nil
}
