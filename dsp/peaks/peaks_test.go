package peaks

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral/dsp/spectrum"
)

func powerWithBins(t *testing.T, fftSize int, layout spectrum.Layout, bins map[int]float64) *spectrum.Power {
	t.Helper()

	p, err := spectrum.NewPower(fftSize)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetFormat(fftSize, layout); err != nil {
		t.Fatal(err)
	}
	dst := p.Bins()
	for i := range dst {
		dst[i] = 0
	}
	for b, v := range bins {
		dst[b] = v
	}
	return p
}

func detect(t *testing.T, spec *spectrum.Power) []Peak {
	t.Helper()

	d, err := NewDetector(spec.MaxFFTSize())
	if err != nil {
		t.Fatal(err)
	}
	got, err := d.Detect(spec)
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func TestSymmetricPeak(t *testing.T) {
	spec := powerWithBins(t, 16, spectrum.Nyquist, map[int]float64{
		3: 1, 4: 4, 5: 8, 6: 4, 7: 1,
	})

	got := detect(t, spec)
	if len(got) != 1 {
		t.Fatalf("peaks = %d, want 1", len(got))
	}
	pk := got[0]
	if pk.Bin != 5 {
		t.Fatalf("bin = %d, want 5", pk.Bin)
	}
	if pk.Freq != 5.0/16 {
		t.Fatalf("freq = %v, want %v", pk.Freq, 5.0/16)
	}
	if pk.Amp != 8 {
		t.Fatalf("amp = %v, want 8 for a symmetric peak", pk.Amp)
	}
	if pk.StartBin != 0 {
		t.Fatalf("start bin = %d, want 0", pk.StartBin)
	}
}

func TestAsymmetricPeakInterpolation(t *testing.T) {
	spec := powerWithBins(t, 32, spectrum.Nyquist, map[int]float64{
		9: 2, 10: 8, 11: 4,
	})

	got := detect(t, spec)
	if len(got) != 1 {
		t.Fatalf("peaks = %d, want 1", len(got))
	}
	pk := got[0]

	// p = (a-c) / (2(a+c-2b)) = (2-4) / (2*(2+4-16)) = 0.1
	wantFreq := (10 + 0.1) / 32.0
	wantAmp := 8 - (2.0-4.0)*0.1/4
	if math.Abs(pk.Freq-wantFreq) > 1e-15 {
		t.Fatalf("freq = %v, want %v", pk.Freq, wantFreq)
	}
	if math.Abs(pk.Amp-wantAmp) > 1e-15 {
		t.Fatalf("amp = %v, want %v", pk.Amp, wantAmp)
	}
}

func TestScalingInvariance(t *testing.T) {
	base := map[int]float64{6: 1, 7: 3, 8: 9, 9: 2}
	scaled := make(map[int]float64, len(base))
	for b, v := range base {
		scaled[b] = 10 * v
	}

	a := detect(t, powerWithBins(t, 64, spectrum.Nyquist, base))
	b := detect(t, powerWithBins(t, 64, spectrum.Nyquist, scaled))

	if len(a) != len(b) {
		t.Fatalf("peak counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Bin != b[i].Bin || a[i].Freq != b[i].Freq {
			t.Fatalf("peak %d position changed under scaling", i)
		}
		if math.Abs(b[i].Amp-10*a[i].Amp) > 1e-12 {
			t.Fatalf("peak %d amp = %v, want %v", i, b[i].Amp, 10*a[i].Amp)
		}
	}
}

func TestAdjacentPeaksAtMinimumSpacing(t *testing.T) {
	// Two maxima three bins apart: the scan skip after the first must
	// not swallow the second.
	spec := powerWithBins(t, 64, spectrum.Nyquist, map[int]float64{
		5: 8, 6: 1, 7: 2, 8: 9,
	})

	got := detect(t, spec)
	if len(got) != 2 {
		t.Fatalf("peaks = %d, want 2", len(got))
	}
	if got[0].Bin != 5 || got[1].Bin != 8 {
		t.Fatalf("peak bins = %d, %d, want 5 and 8", got[0].Bin, got[1].Bin)
	}
}

func TestStartBinTracksRunningMinimum(t *testing.T) {
	bins := map[int]float64{}
	for b := 0; b <= 32; b++ {
		bins[b] = 1
	}
	bins[4], bins[5], bins[6] = 3, 9, 3
	bins[10] = 0.5
	bins[14], bins[15], bins[16] = 4, 10, 4
	spec := powerWithBins(t, 64, spectrum.Nyquist, bins)

	got := detect(t, spec)
	if len(got) != 2 {
		t.Fatalf("peaks = %d, want 2", len(got))
	}
	if got[1].StartBin != 10 {
		t.Fatalf("second start bin = %d, want 10", got[1].StartBin)
	}
}

func TestFullLayoutReadsFirstHalf(t *testing.T) {
	spec := powerWithBins(t, 32, spectrum.Full, map[int]float64{
		7: 2, 8: 6, 9: 2,
	})
	spec.MirrorFull()

	got := detect(t, spec)
	if len(got) != 1 || got[0].Bin != 8 {
		t.Fatalf("full layout: got %+v, want one peak at bin 8", got)
	}
}

func TestDetectFailures(t *testing.T) {
	d, err := NewDetector(16)
	if err != nil {
		t.Fatal(err)
	}

	big := powerWithBins(t, 64, spectrum.Nyquist, nil)
	if _, err := d.Detect(big); err == nil {
		t.Fatal("expected capacity error")
	}

	if _, err := NewDetector(20); err == nil {
		t.Fatal("expected constructor size error")
	}
}
