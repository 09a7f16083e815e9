package denoise

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectral/dsp/core"
	"github.com/cwbudde/algo-spectral/dsp/multitaper"
	"github.com/cwbudde/algo-spectral/dsp/spectrum"
	"github.com/cwbudde/algo-spectral/dsp/wavelet"
)

// Rule selects the shrinkage rule applied to detail coefficients.
type Rule int

const (
	// UniversalSoft shrinks magnitudes towards zero by the threshold.
	UniversalSoft Rule = iota
	// UniversalMid zeroes below the threshold, soft-shrinks up to twice
	// the threshold and passes larger coefficients unchanged.
	UniversalMid
	// UniversalHard zeroes magnitudes below the threshold.
	UniversalHard
)

var errBadLayout = errors.New("denoise: output layout must be nyquist or full")

// Params configures one denoised estimate.
type Params struct {
	// FFTSize, Tapers, Scale, SampleRate and AdaptIterations are passed
	// through to the multi-taper stage.
	FFTSize         int
	Tapers          int
	Scale           float64
	SampleRate      float64
	AdaptIterations int
	// ShrinkLevels is the DWT depth. Zero bypasses shrinkage entirely.
	ShrinkLevels int
	// Rule selects the shrinkage rule.
	Rule Rule
	// Layout selects Nyquist or Full output storage.
	Layout spectrum.Layout
}

// Processor denoises power spectra up to a fixed FFT size.
type Processor struct {
	est  *multitaper.Estimator
	wt   *wavelet.Transform
	full *spectrum.Power

	logBuf     []float64
	maxFFTSize int
}

// New returns a Processor using the given wavelet bank for spectra up to
// maxFFTSize (a power of two).
func New(bank *wavelet.FilterBank, maxFFTSize int) (*Processor, error) {
	est, err := multitaper.New(maxFFTSize)
	if err != nil {
		return nil, err
	}
	wt, err := wavelet.NewTransform(bank, maxFFTSize)
	if err != nil {
		return nil, err
	}
	full, err := spectrum.NewPower(maxFFTSize)
	if err != nil {
		return nil, err
	}

	return &Processor{
		est:        est,
		wt:         wt,
		full:       full,
		logBuf:     make([]float64, maxFFTSize),
		maxFFTSize: maxFFTSize,
	}, nil
}

// MaxFFTSize returns the construction-time capacity.
func (p *Processor) MaxFFTSize() int { return p.maxFFTSize }

// Process estimates the multi-taper spectrum of in and denoises it in the
// wavelet domain. With ShrinkLevels zero the plain multi-taper spectrum
// is produced unchanged. The pipeline aborts on the first failing stage
// and leaves out untouched.
func (p *Processor) Process(out *spectrum.Power, in []float64, prm Params) error {
	if prm.Layout != spectrum.Nyquist && prm.Layout != spectrum.Full {
		return fmt.Errorf("%w: %v", errBadLayout, prm.Layout)
	}

	mtp := multitaper.Params{
		FFTSize:         prm.FFTSize,
		Tapers:          prm.Tapers,
		Scale:           prm.Scale,
		SampleRate:      prm.SampleRate,
		AdaptIterations: prm.AdaptIterations,
		Layout:          prm.Layout,
	}

	if prm.ShrinkLevels <= 0 {
		return p.est.Estimate(out, in, mtp)
	}

	mtp.Layout = spectrum.Full
	if err := p.est.Estimate(p.full, in, mtp); err != nil {
		return err
	}

	n := p.full.FFTSize()
	k := int(core.Clamp(float64(prm.Tapers), 1, float64(n/2-1)))
	bins := p.full.Bins()

	// Log power, debiased by the digamma of the taper count. Zero-power
	// bins go to -Inf here and come back as zero after exp.
	logBias := DigammaInt(k)
	work := p.logBuf[:n]
	for b := range work {
		work[b] = math.Log(bins[b]) - logBias
	}

	if err := p.wt.ForwardInPlace(work, prm.ShrinkLevels); err != nil {
		return err
	}

	threshold := TrigammaInt(k) * math.Sqrt(2*math.Log(float64(n-1)))
	shrink(work[n>>prm.ShrinkLevels:], prm.Rule, threshold)

	if err := p.wt.InverseInPlace(work, prm.ShrinkLevels); err != nil {
		return err
	}

	if err := out.SetFormat(n, prm.Layout); err != nil {
		return err
	}
	out.SetSampleRate(prm.SampleRate)

	// Exponentiate and fold the two symmetric halves together.
	dst := out.Bins()
	dst[0] = math.Exp(work[0])
	dst[n/2] = math.Exp(work[n/2])
	for b := 1; b < n/2; b++ {
		dst[b] = 0.5 * (math.Exp(work[b]) + math.Exp(work[n-b]))
	}
	if prm.Layout == spectrum.Full {
		out.MirrorFull()
	}
	return nil
}

// shrink applies the rule with threshold t to the detail coefficients.
func shrink(detail []float64, rule Rule, t float64) {
	for i, x := range detail {
		a := math.Abs(x)
		switch rule {
		case UniversalSoft:
			detail[i] = math.Copysign(math.Max(a-t, 0), x)
		case UniversalMid:
			switch {
			case a <= t:
				detail[i] = 0
			case a <= 2*t:
				detail[i] = math.Copysign(a-t, x)
			}
		case UniversalHard:
			if a < t {
				detail[i] = 0
			}
		}
	}
}

// eulerGamma is the Euler-Mascheroni constant.
const eulerGamma = 0.57721566490153286

// DigammaInt evaluates the digamma function at a positive integer:
// psi(n) = sum_{k=1..n-1} 1/k - gamma.
func DigammaInt(n int) float64 {
	sum := -eulerGamma
	for k := 1; k < n; k++ {
		sum += 1 / float64(k)
	}
	return sum
}

// TrigammaInt evaluates the trigamma function at a positive integer:
// psi1(n) = pi^2/6 - sum_{k=1..n-1} 1/k^2.
func TrigammaInt(n int) float64 {
	sum := math.Pi * math.Pi / 6
	for k := 1; k < n; k++ {
		kf := float64(k)
		sum -= 1 / (kf * kf)
	}
	return sum
}
