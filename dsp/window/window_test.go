package window

import (
	"math"
	"testing"
)

var allTypes = []Type{
	TypeHann,
	TypeHamming,
	TypeKaiser,
	TypeTriangle,
	TypeCosine,
	TypeBlackman,
	TypeBlackman62,
	TypeBlackman70,
	TypeBlackman74,
	TypeBlackman92,
	TypeBlackmanHarris,
	TypeFlatTop,
	TypeRectangular,
}

func TestGenerateAllTypes(t *testing.T) {
	for _, typ := range allTypes {
		w := Generate(typ, 64)
		if len(w) != 64 {
			t.Fatalf("type %v: len = %d, want 64", typ, len(w))
		}
		for i, v := range w {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("type %v: coefficient[%d] invalid: %v", typ, i, v)
			}
		}
	}
}

func TestPeriodicNormalisation(t *testing.T) {
	// i/N framing: a Hann window starts at exactly 0 and never reaches
	// a trailing zero (w[N-1] != 0 for N > 2).
	w := Generate(TypeHann, 16)
	if w[0] != 0 {
		t.Fatalf("w[0] = %v, want 0", w[0])
	}
	if w[15] == 0 {
		t.Fatal("periodic Hann must not end at zero")
	}
	// Midpoint of the periodic grid is the window maximum.
	if math.Abs(w[8]-1) > 1e-14 {
		t.Fatalf("w[N/2] = %v, want 1", w[8])
	}
}

func TestApplyRectIdentity(t *testing.T) {
	p, err := NewProcessor(16)
	if err != nil {
		t.Fatal(err)
	}

	src := []float64{1, 2, 3, 4}
	dst := make([]float64, 4)
	if err := p.Apply(dst, src, Params{Type: TypeRectangular}); err != nil {
		t.Fatal(err)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], src[i])
		}
	}
}

func TestApplyCapacity(t *testing.T) {
	p, err := NewProcessor(8)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]float64, 9)
	if err := p.ApplyInPlace(buf, Params{Type: TypeHann}); err == nil {
		t.Fatal("expected capacity error for size 9 > 8")
	}
}

func TestCacheIdempotent(t *testing.T) {
	p, err := NewProcessor(64)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]float64, 32)
	prm := Params{Type: TypeBlackman}

	if err := p.ApplyInPlace(buf, prm); err != nil {
		t.Fatal(err)
	}
	builds := p.rebuilds

	if err := p.ApplyInPlace(buf, prm); err != nil {
		t.Fatal(err)
	}
	if p.rebuilds != builds {
		t.Fatalf("identical apply recomputed the table: %d -> %d", builds, p.rebuilds)
	}

	// Any key change rebuilds.
	prm.Sqrt = true
	if err := p.ApplyInPlace(buf, prm); err != nil {
		t.Fatal(err)
	}
	if p.rebuilds != builds+1 {
		t.Fatalf("sqrt change did not rebuild: %d -> %d", builds, p.rebuilds)
	}
}

func TestSqrtRoundTrip(t *testing.T) {
	// Applying the sqrt window twice equals applying the full window once
	// (no compensation, unity gain).
	p, err := NewProcessor(64)
	if err != nil {
		t.Fatal(err)
	}
	q, err := NewProcessor(64)
	if err != nil {
		t.Fatal(err)
	}

	src := make([]float64, 64)
	for i := range src {
		src[i] = math.Sin(0.3*float64(i)) + 0.5
	}

	twice := make([]float64, 64)
	copy(twice, src)
	if err := p.ApplyInPlace(twice, Params{Type: TypeHann, Sqrt: true}); err != nil {
		t.Fatal(err)
	}
	if err := p.ApplyInPlace(twice, Params{Type: TypeHann, Sqrt: true}); err != nil {
		t.Fatal(err)
	}

	once := make([]float64, 64)
	if err := q.Apply(once, src, Params{Type: TypeHann}); err != nil {
		t.Fatal(err)
	}

	for i := range once {
		if math.Abs(once[i]-twice[i]) > 1e-12 {
			t.Fatalf("bin %d: sqrt^2 %v != full %v", i, twice[i], once[i])
		}
	}
}

func TestGainCompensation(t *testing.T) {
	p, err := NewProcessor(256)
	if err != nil {
		t.Fatal(err)
	}

	// DC input: linear compensation restores the mean exactly.
	src := make([]float64, 256)
	for i := range src {
		src[i] = 1
	}
	dst := make([]float64, 256)
	if err := p.Apply(dst, src, Params{Type: TypeHann, Compensation: CompLinear}); err != nil {
		t.Fatal(err)
	}

	sum := 0.0
	for _, v := range dst {
		sum += v
	}
	if math.Abs(sum/256-1) > 1e-12 {
		t.Fatalf("linear-compensated mean = %v, want 1", sum/256)
	}

	// Square compensation normalises the window power.
	if err := p.Apply(dst, src, Params{Type: TypeHann, Compensation: CompSquare}); err != nil {
		t.Fatal(err)
	}
	meanLin, meanSq := p.MeanGains()
	if !(meanSq < meanLin && meanLin < 1) {
		t.Fatalf("unexpected Hann means: lin %v sq %v", meanLin, meanSq)
	}
	for i := range dst {
		want := srcWindowed(src[i], p.coeffs[i], 1/meanSq)
		if math.Abs(dst[i]-want) > 1e-12 {
			t.Fatalf("square compensation bin %d: got %v want %v", i, dst[i], want)
		}
	}
}

func srcWindowed(x, w, g float64) float64 {
	return x * w * g
}

func TestFixedGain(t *testing.T) {
	p, err := NewProcessor(8)
	if err != nil {
		t.Fatal(err)
	}

	src := []float64{1, 1, 1, 1}
	dst := make([]float64, 4)
	if err := p.Apply(dst, src, Params{Type: TypeRectangular, Gain: 0.25}); err != nil {
		t.Fatal(err)
	}
	for i := range dst {
		if dst[i] != 0.25 {
			t.Fatalf("dst[%d] = %v, want 0.25", i, dst[i])
		}
	}
}

func TestKaiserShape(t *testing.T) {
	w := Generate(TypeKaiser, 128)
	// Peak at the periodic midpoint, monotone towards both edges.
	if math.Abs(w[64]-1) > 1e-12 {
		t.Fatalf("Kaiser midpoint = %v, want 1", w[64])
	}
	for i := 1; i <= 64; i++ {
		if w[i] < w[i-1] {
			t.Fatalf("Kaiser not monotone rising at %d", i)
		}
	}
	if w[0] <= 0 {
		t.Fatalf("Kaiser edge = %v, want > 0", w[0])
	}
}

func TestBesselI0(t *testing.T) {
	// I0(0) = 1; reference values from Abramowitz & Stegun tables.
	if besselI0(0) != 1 {
		t.Fatalf("I0(0) = %v", besselI0(0))
	}
	cases := []struct{ x, want, tol float64 }{
		{0.5, 1.0634833707413236, 1e-12},
		{1, 1.2660658777520084, 1e-12},
		{2, 2.2795853023360673, 1e-12},
		{6.8, 140.16, 1e-3},
	}
	for _, c := range cases {
		got := besselI0(c.x)
		if math.Abs(got-c.want)/c.want > c.tol {
			t.Fatalf("I0(%v) = %v, want %v", c.x, got, c.want)
		}
	}
}
