package multitaper

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-spectral/dsp/core"
	"github.com/cwbudde/algo-spectral/dsp/spectrum"
)

// maxAdaptiveTapers caps the per-bin taper count of the adaptive pass.
const maxAdaptiveTapers = 20

var (
	errSizeExceedsMax = errors.New("multitaper: fft size exceeds estimator capacity")
	errBadLayout      = errors.New("multitaper: output layout must be nyquist or full")
)

// Params configures one estimate.
type Params struct {
	// FFTSize is the target output FFT size, rounded down to a power of
	// two. Zero uses the input length.
	FFTSize int
	// Tapers is the sinusoidal taper count K, clamped to [1, N/2-1].
	Tapers int
	// Scale multiplies the output power. Zero is treated as unity.
	Scale float64
	// SampleRate is recorded on the output spectrum.
	SampleRate float64
	// Layout selects Nyquist or Full output storage.
	Layout spectrum.Layout
	// AdaptIterations enables the data-driven refinement loop.
	AdaptIterations int
}

// Estimator computes multi-taper power spectra up to a fixed FFT size.
// All working storage is preallocated at construction.
type Estimator struct {
	maxFFTSize int
	fft        *spectrum.RealFFT

	re []float64 // 2*maxFFTSize
	im []float64

	// Adaptive-pass scratch, sized against the configured maximum.
	prev  []float64 // maxFFTSize/2+1
	kStar []float64
}

// New returns an Estimator for output FFT sizes up to maxFFTSize
// (a power of two; the padded transform runs at twice that).
func New(maxFFTSize int) (*Estimator, error) {
	if !core.IsPowerOfTwo(maxFFTSize) || maxFFTSize < 4 {
		return nil, fmt.Errorf("multitaper: max fft size must be a power of two >= 4: %d", maxFFTSize)
	}

	fft, err := spectrum.NewRealFFT(2 * maxFFTSize)
	if err != nil {
		return nil, err
	}

	return &Estimator{
		maxFFTSize: maxFFTSize,
		fft:        fft,
		re:         make([]float64, 2*maxFFTSize),
		im:         make([]float64, 2*maxFFTSize),
		prev:       make([]float64, maxFFTSize/2+1),
		kStar:      make([]float64, maxFFTSize/2+1),
	}, nil
}

// MaxFFTSize returns the construction-time capacity.
func (e *Estimator) MaxFFTSize() int { return e.maxFFTSize }

// Estimate computes the power spectrum of in into out.
//
// Fails when the resolved FFT size exceeds the estimator or carrier
// capacity, or when the input does not fit the padded transform; out is
// left unchanged on failure.
func (e *Estimator) Estimate(out *spectrum.Power, in []float64, p Params) error {
	n := p.FFTSize
	if n <= 0 {
		n = len(in)
	}
	n = core.PrevPowerOfTwo(n)
	if n < 4 {
		return fmt.Errorf("multitaper: fft size too small: %d", n)
	}
	if n > e.maxFFTSize {
		return fmt.Errorf("%w: %d > %d", errSizeExceedsMax, n, e.maxFFTSize)
	}
	if p.Layout != spectrum.Nyquist && p.Layout != spectrum.Full {
		return fmt.Errorf("%w: %v", errBadLayout, p.Layout)
	}

	tapers := core.Clamp(float64(p.Tapers), 1, float64(n/2-1))
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}

	twoN := 2 * n
	if err := e.fft.Transform(e.re, e.im, in, twoN); err != nil {
		return err
	}

	if err := out.SetFormat(n, p.Layout); err != nil {
		return err
	}
	out.SetSampleRate(p.SampleRate)

	bins := out.Bins()
	half := n / 2
	k := int(tapers)

	norm := scale / (float64(twoN) * weightSum(tapers))
	for b := 0; b <= half; b++ {
		bins[b] = e.binPower(b, k, tapers)
	}
	floats.Scale(norm, bins[:half+1])

	for range p.AdaptIterations {
		e.refine(bins[:half+1], n, scale)
	}

	if p.Layout == spectrum.Full {
		out.MirrorFull()
	}
	return nil
}

// binPower reconstructs the weighted taper periodogram sum at bin b from
// the padded split spectrum, using mCount tapers with weight divisor kDiv.
func (e *Estimator) binPower(b, mCount int, kDiv float64) float64 {
	sum := 0.0
	for m := 1; m <= mCount; m++ {
		above := 2*b + m
		below := 2*b - m

		var reBelow, imBelow float64
		if below < 0 {
			// Conjugate mirror of the real-input spectrum.
			reBelow = e.re[-below]
			imBelow = -e.im[-below]
		} else {
			reBelow = e.re[below]
			imBelow = e.im[below]
		}

		// The Re/Im swap is intentional: the m-th sinusoidal taper
		// component is the difference of the padded bins rotated by the
		// imaginary unit, so the real part comes from Im and vice versa.
		re := e.im[above] - imBelow
		im := e.re[above] - reBelow

		x := float64(m-1) / kDiv
		sum += (re*re + im*im) * (1 - x*x)
	}
	return sum
}

// weightSum is the closed form of sum_{m=1..K} (1 - ((m-1)/K)^2),
// evaluated smoothly so the adaptive pass can use fractional K.
func weightSum(k float64) float64 {
	return k - ((1/k)-3+2*k)/6
}

// refine runs one adaptive iteration: estimate the spectral curvature
// from the current bins, derive a per-bin optimal taper count and
// recompute every bin with it.
func (e *Estimator) refine(bins []float64, n int, scale float64) {
	half := n / 2
	prev := e.prev[:half+1]
	copy(prev, bins)

	nf := float64(n)
	maxK := math.Min(nf/4, maxAdaptiveTapers)

	// Bin width is 1/N; the five-point stencil divides by 12 h^2.
	invHSq := nf * nf

	for b := 0; b <= half; b++ {
		d2 := (-at(prev, b-2, half) + 16*at(prev, b-1, half) - 30*prev[b] +
			16*at(prev, b+1, half) - at(prev, b+2, half)) * invHSq / 12

		kOpt := maxK
		if d2 != 0 {
			kOpt = math.Pow(12*prev[b]*nf*nf/math.Abs(d2), 0.2)
		}
		e.kStar[b] = core.Clamp(kOpt, 1, maxK)
	}

	for b := 0; b <= half; b++ {
		kDiv := e.kStar[b]
		mCount := int(kDiv)
		if mCount < 1 {
			mCount = 1
		}
		bins[b] = e.binPower(b, mCount, kDiv) * scale / (2 * nf * weightSum(kDiv))
	}
}

// at reads bins with reflection at both spectrum edges.
func at(bins []float64, b, half int) float64 {
	if b < 0 {
		b = -b
	}
	if b > half {
		b = 2*half - b
	}
	return bins[b]
}
