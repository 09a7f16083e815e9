package spectrum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectral/dsp/buffer"
)

// Layout identifies the storage convention of a real-input spectrum.
type Layout int

const (
	// Nyquist stores N/2+1 one-sided bins, DC through Nyquist.
	Nyquist Layout = iota
	// Full stores N bins, mirror-symmetric for real inputs.
	Full
	// Complex identifies split re/im data. A Power value never holds
	// this layout; it exists for callers describing FFT-domain buffers.
	Complex
)

func (l Layout) String() string {
	switch l {
	case Nyquist:
		return "nyquist"
	case Full:
		return "full"
	case Complex:
		return "complex"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// BinCount returns the number of bins the layout stores for an FFT size.
func (l Layout) BinCount(fftSize int) int {
	switch l {
	case Nyquist:
		return fftSize/2 + 1
	case Full:
		return fftSize
	case Complex:
		return 2 * fftSize
	default:
		return 0
	}
}

var (
	errPowerCapacity = errors.New("spectrum: fft size exceeds power spectrum capacity")
	errPowerLayout   = errors.New("spectrum: power spectrum layout must be nyquist or full")
)

// Power is a real power spectrum with its describing metadata.
//
// Storage is preallocated for the construction-time maximum FFT size;
// SetFormat never allocates.
type Power struct {
	buf        *buffer.Buffer
	maxFFTSize int
	fftSize    int
	layout     Layout
	sampleRate float64
}

// NewPower returns a Power able to hold spectra up to maxFFTSize bins in
// Full layout.
func NewPower(maxFFTSize int) (*Power, error) {
	if maxFFTSize < 2 {
		return nil, fmt.Errorf("spectrum: max fft size must be >= 2: %d", maxFFTSize)
	}
	return &Power{
		buf:        buffer.WithCapacity(maxFFTSize),
		maxFFTSize: maxFFTSize,
	}, nil
}

// SetFormat resizes the spectrum view for fftSize and layout.
// It fails, leaving the carrier unchanged, when fftSize exceeds the
// construction-time maximum or the layout is not a power layout.
func (p *Power) SetFormat(fftSize int, layout Layout) error {
	if layout != Nyquist && layout != Full {
		return fmt.Errorf("%w: %v", errPowerLayout, layout)
	}
	if fftSize < 2 || fftSize > p.maxFFTSize {
		return fmt.Errorf("%w: %d > %d", errPowerCapacity, fftSize, p.maxFFTSize)
	}

	p.buf.Resize(layout.BinCount(fftSize))
	p.fftSize = fftSize
	p.layout = layout
	return nil
}

// Bins returns the raw bin storage for the current format.
func (p *Power) Bins() []float64 { return p.buf.Samples() }

// BinCount returns the number of valid bins.
func (p *Power) BinCount() int { return p.buf.Len() }

// FFTSize returns the FFT size that produced the spectrum.
func (p *Power) FFTSize() int { return p.fftSize }

// Layout returns the storage layout.
func (p *Power) Layout() Layout { return p.layout }

// MaxFFTSize returns the construction-time capacity.
func (p *Power) MaxFFTSize() int { return p.maxFFTSize }

// SampleRate returns the sampling rate the spectrum was produced at.
func (p *Power) SampleRate() float64 { return p.sampleRate }

// SetSampleRate records the sampling rate the spectrum was produced at.
func (p *Power) SetSampleRate(sr float64) { p.sampleRate = sr }

// BinValue returns bin b, resolving Full-layout mirroring for b beyond
// the Nyquist bin of a Nyquist-layout spectrum.
func (p *Power) BinValue(b int) float64 {
	bins := p.buf.Samples()
	if b < len(bins) {
		return bins[b]
	}
	if p.layout == Nyquist && b < p.fftSize {
		return bins[p.fftSize-b]
	}
	return 0
}

// MirrorFull mirrors the lower half of a Full-layout spectrum into the
// upper half: bins[N-b] = bins[b] for b in [1, N/2).
func (p *Power) MirrorFull() {
	if p.layout != Full {
		return
	}
	bins := p.buf.Samples()
	n := p.fftSize
	for b := 1; b < n/2; b++ {
		bins[n-b] = bins[b]
	}
}

// PowerFromParts computes |X[k]|^2 = re[k]^2 + im[k]^2 into dst.
// All three slices must have the same length.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}
