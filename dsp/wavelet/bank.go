package wavelet

import (
	"errors"
	"fmt"
	"math"
)

var errEmptyFilter = errors.New("wavelet: filter coefficients must not be empty")

// FilterBank holds FIR coefficient pairs for analysis and synthesis.
//
// The integer offsets align the down/upsampling grid and are unchanged by
// the high-pass derivation. Synthesis filters may alias the analysis
// filters (see SetSynthesisFromAnalysis).
type FilterBank struct {
	analysisLow  []float64
	analysisHigh []float64

	synthesisLow  []float64
	synthesisHigh []float64

	analysisOffset  int
	synthesisOffset int

	sharedSynthesis bool
}

// SetAnalysis sets the analysis pair from a low-pass already stored in
// reversed (correlation) order and derives the matched high-pass.
func (b *FilterBank) SetAnalysis(low []float64, offset int) error {
	if len(low) == 0 {
		return errEmptyFilter
	}

	b.analysisLow = append(b.analysisLow[:0], low...)
	b.analysisHigh = deriveHighpass(b.analysisHigh[:0], b.analysisLow)
	b.analysisOffset = offset

	if b.sharedSynthesis {
		b.shareSynthesis()
	}
	return nil
}

// SetAnalysisKernel sets the analysis pair from convolution-convention
// low-pass coefficients, reversing them into the stored order first.
func (b *FilterBank) SetAnalysisKernel(low []float64, offset int) error {
	if len(low) == 0 {
		return errEmptyFilter
	}

	reversed := make([]float64, len(low))
	for i, v := range low {
		reversed[len(low)-1-i] = v
	}
	return b.SetAnalysis(reversed, offset)
}

// SetSynthesis sets an independent synthesis pair from its low-pass.
func (b *FilterBank) SetSynthesis(low []float64, offset int) error {
	if len(low) == 0 {
		return errEmptyFilter
	}

	b.sharedSynthesis = false
	b.synthesisLow = append([]float64(nil), low...)
	b.synthesisHigh = deriveHighpass(nil, b.synthesisLow)
	b.synthesisOffset = offset
	return nil
}

// SetSynthesisFromAnalysis makes the synthesis pair alias the analysis
// pair without reallocating. Subsequent SetAnalysis calls keep the alias.
func (b *FilterBank) SetSynthesisFromAnalysis() error {
	if len(b.analysisLow) == 0 {
		return fmt.Errorf("wavelet: no analysis filter to share")
	}

	b.sharedSynthesis = true
	b.shareSynthesis()
	return nil
}

func (b *FilterBank) shareSynthesis() {
	b.synthesisLow = b.analysisLow
	b.synthesisHigh = b.analysisHigh
	b.synthesisOffset = b.analysisOffset
}

// AnalysisLength returns the analysis filter length.
func (b *FilterBank) AnalysisLength() int { return len(b.analysisLow) }

// SynthesisLength returns the synthesis filter length.
func (b *FilterBank) SynthesisLength() int { return len(b.synthesisLow) }

// AnalysisHigh returns the derived analysis high-pass coefficients.
func (b *FilterBank) AnalysisHigh() []float64 { return b.analysisHigh }

// deriveHighpass writes high[i] = low[L-1-i] * (-1)^i into dst.
func deriveHighpass(dst, low []float64) []float64 {
	l := len(low)
	for i := range l {
		v := low[l-1-i]
		if i&1 == 1 {
			v = -v
		}
		dst = append(dst, v)
	}
	return dst
}

// Haar returns an orthonormal Haar bank with shared synthesis filters.
func Haar() *FilterBank {
	b := &FilterBank{}
	s := 1 / math.Sqrt2
	_ = b.SetAnalysis([]float64{s, s}, 0)
	_ = b.SetSynthesisFromAnalysis()
	return b
}

// Daubechies4 returns an orthonormal 4-tap Daubechies bank with shared
// synthesis filters.
func Daubechies4() *FilterBank {
	b := &FilterBank{}
	r3 := math.Sqrt(3)
	d := 4 * math.Sqrt2
	_ = b.SetAnalysis([]float64{
		(1 + r3) / d,
		(3 + r3) / d,
		(3 - r3) / d,
		(1 - r3) / d,
	}, 0)
	_ = b.SetSynthesisFromAnalysis()
	return b
}
