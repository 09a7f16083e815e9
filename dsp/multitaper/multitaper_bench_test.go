package multitaper

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-spectral/dsp/spectrum"
	"github.com/cwbudde/algo-spectral/internal/testutil"
)

func BenchmarkEstimator_Estimate(b *testing.B) {
	sizes := []int{256, 1024, 4096}
	tapers := []int{3, 8}

	for _, size := range sizes {
		for _, k := range tapers {
			b.Run(fmt.Sprintf("%dx%d", size, k), func(b *testing.B) {
				e, err := New(size)
				if err != nil {
					b.Fatal(err)
				}
				out, err := spectrum.NewPower(size)
				if err != nil {
					b.Fatal(err)
				}
				in := testutil.DeterministicNoise(1, 1.0, size)
				p := Params{Tapers: k, Layout: spectrum.Nyquist}
				b.SetBytes(int64(size * 8))
				b.ResetTimer()

				for range b.N {
					if err := e.Estimate(out, in, p); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkEstimator_Adaptive(b *testing.B) {
	e, err := New(1024)
	if err != nil {
		b.Fatal(err)
	}
	out, err := spectrum.NewPower(1024)
	if err != nil {
		b.Fatal(err)
	}
	in := testutil.DeterministicNoise(2, 1.0, 1024)
	p := Params{Tapers: 5, Layout: spectrum.Nyquist, AdaptIterations: 2}
	b.ResetTimer()

	for range b.N {
		if err := e.Estimate(out, in, p); err != nil {
			b.Fatal(err)
		}
	}
}
