package wavelet

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectral/dsp/core"
)

var (
	errSizeExceedsMax  = errors.New("wavelet: input exceeds transform capacity")
	errOddLength       = errors.New("wavelet: working length must be even")
	errFilterTooLong   = errors.New("wavelet: filter longer than working length")
	errMissingAnalysis = errors.New("wavelet: analysis filters not set")
	errMissingSynth    = errors.New("wavelet: synthesis filters not set")
)

// Transform is a capacity-bound periodic DWT engine.
//
// The scratch buffer allocated at construction allows input and output to
// alias; nothing is allocated in the transform calls.
type Transform struct {
	bank    *FilterBank
	scratch []float64
	maxSize int
}

// NewTransform returns a Transform over bank for inputs up to maxSize.
func NewTransform(bank *FilterBank, maxSize int) (*Transform, error) {
	if bank == nil {
		return nil, fmt.Errorf("wavelet: nil filter bank")
	}
	if maxSize < 2 {
		return nil, fmt.Errorf("wavelet: max size must be >= 2: %d", maxSize)
	}
	return &Transform{
		bank:    bank,
		scratch: make([]float64, maxSize),
		maxSize: maxSize,
	}, nil
}

// MaxSize returns the construction-time capacity.
func (t *Transform) MaxSize() int { return t.maxSize }

// Forward runs a levels-deep forward DWT of src into dst. dst and src may
// be the identical slice; partially overlapping slices are not supported.
//
// After each level the detail half stays in place and only the
// approximation half is decomposed further. If a level's working length is
// odd or shorter than the analysis filter, the call fails at that level
// with the previously written levels intact.
func (t *Transform) Forward(dst, src []float64, levels int) error {
	n := len(src)
	if err := t.checkShape(dst, n, levels); err != nil {
		return err
	}
	if t.bank.AnalysisLength() == 0 {
		return errMissingAnalysis
	}

	if !core.SameSlice(dst, src) {
		copy(dst[:n], src)
	}

	for level := range levels {
		m := n >> level
		if m < 2 || m&1 == 1 {
			return fmt.Errorf("%w: level %d length %d", errOddLength, level, m)
		}
		if t.bank.AnalysisLength() > m {
			return fmt.Errorf("%w: level %d length %d < %d", errFilterTooLong,
				level, m, t.bank.AnalysisLength())
		}

		forwardLevel(t.scratch[:m], dst[:m], t.bank)
		copy(dst[:m], t.scratch[:m])
	}
	return nil
}

// ForwardInPlace runs a levels-deep forward DWT on buf.
func (t *Transform) ForwardInPlace(buf []float64, levels int) error {
	return t.Forward(buf, buf, levels)
}

// Inverse runs a levels-deep inverse DWT of src into dst, starting at the
// smallest scale and doubling the working length each level. dst and src
// may be the identical slice.
func (t *Transform) Inverse(dst, src []float64, levels int) error {
	n := len(src)
	if err := t.checkShape(dst, n, levels); err != nil {
		return err
	}
	if t.bank.SynthesisLength() == 0 {
		return errMissingSynth
	}

	// The inverse walks from the coarsest scale up, so a failing level
	// would corrupt everything beneath it. Validate the whole ladder
	// before touching dst.
	for level := range levels {
		m := n >> level
		if m < 2 || m&1 == 1 {
			return fmt.Errorf("%w: level %d length %d", errOddLength, level, m)
		}
		if t.bank.SynthesisLength() > m {
			return fmt.Errorf("%w: level %d length %d < %d", errFilterTooLong,
				level, m, t.bank.SynthesisLength())
		}
	}

	if !core.SameSlice(dst, src) {
		copy(dst[:n], src)
	}

	for level := levels - 1; level >= 0; level-- {
		m := n >> level
		inverseLevel(t.scratch[:m], dst[:m], t.bank)
		copy(dst[:m], t.scratch[:m])
	}
	return nil
}

// InverseInPlace runs a levels-deep inverse DWT on buf.
func (t *Transform) InverseInPlace(buf []float64, levels int) error {
	return t.Inverse(buf, buf, levels)
}

func (t *Transform) checkShape(dst []float64, n, levels int) error {
	if n > t.maxSize {
		return fmt.Errorf("%w: %d > %d", errSizeExceedsMax, n, t.maxSize)
	}
	if len(dst) < n {
		return fmt.Errorf("wavelet: destination too short: %d < %d", len(dst), n)
	}
	if levels < 1 {
		return fmt.Errorf("wavelet: levels must be >= 1: %d", levels)
	}
	return nil
}

// forwardLevel computes one decomposition of src (length m, even) into
// dst: approximation in dst[0:m/2], detail in dst[m/2:m].
func forwardLevel(dst, src []float64, bank *FilterBank) {
	m := len(src)
	half := m / 2
	low := bank.analysisLow
	high := bank.analysisHigh

	for i := range half {
		k := (2*i + bank.analysisOffset) % m
		if k < 0 {
			k += m
		}

		var lo, hi float64
		idx := k
		for j := range low {
			v := src[idx]
			lo += low[j] * v
			hi += high[j] * v

			idx++
			if idx == m {
				idx = 0
			}
		}

		dst[i] = lo
		dst[half+i] = hi
	}
}

// inverseLevel reconstructs one level from src (approximation in the first
// half, detail in the second) into dst.
func inverseLevel(dst, src []float64, bank *FilterBank) {
	m := len(src)
	half := m / 2
	low := bank.synthesisLow
	high := bank.synthesisHigh

	core.Zero(dst[:m])

	for i := range half {
		k := (2*i + bank.synthesisOffset) % m
		if k < 0 {
			k += m
		}

		lo := src[i]
		hi := src[half+i]

		idx := k
		for j := range low {
			dst[idx] += low[j]*lo + high[j]*hi

			idx++
			if idx == m {
				idx = 0
			}
		}
	}
}
