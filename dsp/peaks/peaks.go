package peaks

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectral/dsp/core"
	"github.com/cwbudde/algo-spectral/dsp/spectrum"
)

var errComplexInput = errors.New("peaks: spectrum must use nyquist or full layout")

// Peak is one detected spectral maximum.
type Peak struct {
	// StartBin is the bin of the running minimum since the previous peak.
	StartBin int
	// Bin is the integer bin of the maximum.
	Bin int
	// Freq is the interpolated peak position as a fraction of the sample
	// rate, in [0, 0.5].
	Freq float64
	// Amp is the parabolically interpolated peak amplitude.
	Amp float64
}

// Detector scans spectra up to a fixed FFT size. Detected peaks are
// stored internally; Detect returns a view valid until the next call.
type Detector struct {
	maxFFTSize int
	peaks      []Peak
}

// NewDetector returns a Detector for spectra up to maxFFTSize.
func NewDetector(maxFFTSize int) (*Detector, error) {
	if !core.IsPowerOfTwo(maxFFTSize) || maxFFTSize < 4 {
		return nil, fmt.Errorf("peaks: max fft size must be a power of two >= 4: %d", maxFFTSize)
	}

	// Peaks are at least three bins apart, so the count is bounded.
	return &Detector{
		maxFFTSize: maxFFTSize,
		peaks:      make([]Peak, 0, maxFFTSize/2/3+1),
	}, nil
}

// MaxFFTSize returns the construction-time capacity.
func (d *Detector) MaxFFTSize() int { return d.maxFFTSize }

// Detect scans spec for local maxima. Bins outside [0, N/2] count as
// zero, so edge bins can form peaks against silence.
func (d *Detector) Detect(spec *spectrum.Power) ([]Peak, error) {
	if spec.Layout() == spectrum.Complex {
		return nil, errComplexInput
	}
	n := spec.FFTSize()
	if n > d.maxFFTSize {
		return nil, fmt.Errorf("peaks: fft size %d exceeds detector capacity %d", n, d.maxFFTSize)
	}

	d.peaks = d.peaks[:0]
	half := n / 2

	at := func(b int) float64 {
		if b < 0 || b > half {
			return 0
		}
		return spec.BinValue(b)
	}

	minBin := 0
	minVal := at(0)
	for i := 0; i <= half; i++ {
		v := at(i)
		if v < minVal {
			minVal = v
			minBin = i
		}
		if !(v > at(i-2) && v > at(i-1) && v > at(i+1) && v > at(i+2)) {
			continue
		}

		a, b, c := at(i-1), v, at(i+1)
		p := 0.0
		if den := 2 * (a + c - 2*b); den != 0 {
			p = (a - c) / den
		}

		d.peaks = append(d.peaks, Peak{
			StartBin: minBin,
			Bin:      i,
			Freq:     (float64(i) + p) / float64(n),
			Amp:      b - (a-c)*p/4,
		})

		// The two bins after a peak cannot be peaks themselves, but they
		// still take part in the running minimum.
		minBin, minVal = i+1, at(i+1)
		if at(i+2) < minVal {
			minBin, minVal = i+2, at(i+2)
		}
		i += 2
	}
	return d.peaks, nil
}
