package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-spectral/dsp/core"
)

// RealFFT adapts the external complex FFT kernel to real, zero-padded
// inputs with split re/im output.
//
// Plans are cached per size; the first transform at a given size creates
// the plan, later calls reuse it. Sizes must be powers of two.
type RealFFT struct {
	maxSize int
	work    []complex128
	plans   map[int]*algofft.Plan[complex128]
}

// NewRealFFT returns an adaptor for FFT sizes up to maxSize.
func NewRealFFT(maxSize int) (*RealFFT, error) {
	if !core.IsPowerOfTwo(maxSize) {
		return nil, fmt.Errorf("spectrum: real fft max size must be a power of two: %d", maxSize)
	}
	return &RealFFT{
		maxSize: maxSize,
		work:    make([]complex128, maxSize),
		plans:   make(map[int]*algofft.Plan[complex128]),
	}, nil
}

// MaxSize returns the construction-time capacity.
func (f *RealFFT) MaxSize() int { return f.maxSize }

// Transform runs an fftSize-point FFT of the real input, zero-padded as
// needed, and writes the split complex spectrum into re and im.
//
// len(in) must not exceed fftSize; re and im must hold at least fftSize
// values each.
func (f *RealFFT) Transform(re, im []float64, in []float64, fftSize int) error {
	if !core.IsPowerOfTwo(fftSize) || fftSize > f.maxSize {
		return fmt.Errorf("spectrum: invalid real fft size %d (max %d)", fftSize, f.maxSize)
	}
	if len(in) > fftSize {
		return fmt.Errorf("spectrum: input length %d exceeds fft size %d", len(in), fftSize)
	}
	if len(re) < fftSize || len(im) < fftSize {
		return fmt.Errorf("spectrum: split output too short for fft size %d", fftSize)
	}

	plan, err := f.plan(fftSize)
	if err != nil {
		return err
	}

	work := f.work[:fftSize]
	for i, v := range in {
		work[i] = complex(v, 0)
	}
	for i := len(in); i < fftSize; i++ {
		work[i] = 0
	}

	if err := plan.Forward(work, work); err != nil {
		return fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	for i, c := range work {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return nil
}

func (f *RealFFT) plan(size int) (*algofft.Plan[complex128], error) {
	if p, ok := f.plans[size]; ok {
		return p, nil
	}
	p, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan for size %d: %w", size, err)
	}
	f.plans[size] = p
	return p, nil
}
