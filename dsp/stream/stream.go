package stream

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// maxChannels bounds the channel count of a single stream.
const maxChannels = 256

// Mode selects the ring discipline.
type Mode int

const (
	// Input keeps a rolling history of written samples.
	Input Mode = iota
	// Output accumulates overlapping writes for ordered draining.
	Output
)

var (
	errTooLong     = errors.New("stream: block exceeds ring capacity")
	errShortBlock  = errors.New("stream: block shorter than requested count")
	errNoHistory   = errors.New("stream: read exceeds written history")
	errChannel     = errors.New("stream: channel count mismatch")
	errBadChannels = errors.New("stream: channel count out of range")
)

// Stream is a fixed-capacity multichannel ring buffer.
type Stream struct {
	mode     Mode
	bufs     [][]float64
	capacity int

	counter     int
	writeOffset int
}

// New returns a Stream with the given mode, channel count and per-channel
// capacity in samples.
func New(mode Mode, channels, capacity int) (*Stream, error) {
	if channels < 1 || channels > maxChannels {
		return nil, fmt.Errorf("%w: %d", errBadChannels, channels)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("stream: capacity must be positive: %d", capacity)
	}

	bufs := make([][]float64, channels)
	for c := range bufs {
		bufs[c] = make([]float64, capacity)
	}
	return &Stream{mode: mode, bufs: bufs, capacity: capacity}, nil
}

// Mode returns the ring discipline.
func (s *Stream) Mode() Mode { return s.mode }

// Channels returns the channel count.
func (s *Stream) Channels() int { return len(s.bufs) }

// Capacity returns the per-channel capacity in samples.
func (s *Stream) Capacity() int { return s.capacity }

// Reset zeroes the ring and rewinds all positions.
func (s *Stream) Reset() {
	for _, b := range s.bufs {
		for i := range b {
			b[i] = 0
		}
	}
	s.counter = 0
	s.writeOffset = 0
}

func (s *Stream) check(blocks [][]float64, n int) error {
	if n > s.capacity {
		return fmt.Errorf("%w: %d > %d", errTooLong, n, s.capacity)
	}
	if len(blocks) != len(s.bufs) {
		return fmt.Errorf("%w: %d != %d", errChannel, len(blocks), len(s.bufs))
	}
	for c, b := range blocks {
		if len(b) < n {
			return fmt.Errorf("%w: channel %d has %d < %d", errShortBlock, c, len(b), n)
		}
	}
	return nil
}

// Write stores n samples per channel.
//
// In Input mode the samples extend the history, overwriting the oldest.
// In Output mode they accumulate onto whatever overlaps samples already
// pending and extend the pending region past it.
func (s *Stream) Write(ins [][]float64, n int) error {
	if err := s.check(ins, n); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	switch s.mode {
	case Input:
		for c, in := range ins {
			s.copyIn(s.bufs[c], in[:n], s.counter)
		}
		s.counter = (s.counter + n) % s.capacity
		s.writeOffset = min(s.writeOffset+n, s.capacity)
	case Output:
		overlap := min(s.writeOffset, n)
		for c, in := range ins {
			s.addIn(s.bufs[c], in[:overlap], s.counter)
			s.copyIn(s.bufs[c], in[overlap:n], (s.counter+overlap)%s.capacity)
		}
		s.writeOffset = max(s.writeOffset, n)
	}
	return nil
}

// Read retrieves n samples per channel.
//
// In Input mode it copies the n most recent samples without consuming
// them; unwritten history reads as silence. In Output mode it drains n
// pending samples, advancing the ring; draining past the pending region
// fails.
func (s *Stream) Read(outs [][]float64, n int) error {
	if err := s.check(outs, n); err != nil {
		return err
	}
	if s.mode == Output && n > s.writeOffset {
		return fmt.Errorf("%w: %d > %d", errNoHistory, n, s.writeOffset)
	}
	if n == 0 {
		return nil
	}

	switch s.mode {
	case Input:
		start := (s.counter - n + s.capacity) % s.capacity
		for c, out := range outs {
			s.copyOut(out[:n], s.bufs[c], start)
		}
	case Output:
		for c, out := range outs {
			s.copyOut(out[:n], s.bufs[c], s.counter)
		}
		s.counter = (s.counter + n) % s.capacity
		s.writeOffset -= n
	}
	return nil
}

// copyIn writes src into the ring starting at pos, wrapping once at most.
func (s *Stream) copyIn(ring, src []float64, pos int) {
	head := min(len(src), s.capacity-pos)
	copy(ring[pos:], src[:head])
	copy(ring, src[head:])
}

// addIn accumulates src onto the ring starting at pos.
func (s *Stream) addIn(ring, src []float64, pos int) {
	head := min(len(src), s.capacity-pos)
	vecmath.AddBlockInPlace(ring[pos:pos+head], src[:head])
	vecmath.AddBlockInPlace(ring[:len(src)-head], src[head:])
}

// copyOut reads from the ring starting at pos into dst.
func (s *Stream) copyOut(dst, ring []float64, pos int) {
	head := min(len(dst), s.capacity-pos)
	copy(dst[:head], ring[pos:])
	copy(dst[head:], ring)
}
