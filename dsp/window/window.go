package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Type identifies a window function.
type Type int

const (
	TypeHann Type = iota
	TypeHamming
	TypeKaiser
	TypeTriangle
	TypeCosine
	TypeBlackman
	TypeBlackman62
	TypeBlackman70
	TypeBlackman74
	TypeBlackman92
	TypeBlackmanHarris
	TypeFlatTop
	TypeRectangular
)

// Compensation selects how window gain is compensated on Apply.
type Compensation int

const (
	// CompNone applies no gain compensation.
	CompNone Compensation = iota
	// CompLinear divides by the coefficient mean (amplitude-correct).
	CompLinear
	// CompSquare divides by the squared-coefficient mean (power-correct).
	CompSquare
	// CompSquareOverLinear divides by mean(w^2)/mean(w).
	CompSquareOverLinear
)

// kaiserAlpha is the fixed Kaiser shape parameter.
const kaiserAlpha = 6.8

// Cosine-sum coefficient tables, signs included.
var (
	hannCoeffs    = []float64{0.5, -0.5}
	hammingCoeffs = []float64{0.54, -0.46}

	// Exact Blackman: a0, a1, a2 = 7938/18608, 9240/18608, 1430/18608.
	blackmanCoeffs = []float64{7938.0 / 18608.0, -9240.0 / 18608.0, 1430.0 / 18608.0}

	blackman62Coeffs = []float64{0.44859, -0.49364, 0.05677}
	blackman70Coeffs = []float64{0.42323, -0.49755, 0.07922}
	blackman74Coeffs = []float64{0.402217, -0.49703, 0.09892, -0.00188}
	blackman92Coeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}

	blackmanHarrisCoeffs = []float64{
		0.358750287312166,
		-0.488290107472689,
		0.141279514963986,
		-0.011680090251262,
	}

	flatTopCoeffs = []float64{0.2810639, -0.5208972, 0.1980399}
)

var errSizeExceedsMax = errors.New("window size exceeds processor capacity")

// Params configures a single Apply call.
type Params struct {
	// Type selects the window function.
	Type Type
	// Sqrt replaces each coefficient with its square root (analysis /
	// synthesis window splitting for overlap-add chains).
	Sqrt bool
	// Gain is an extra fixed gain. Zero is treated as unity.
	Gain float64
	// Compensation selects gain compensation against the cached means.
	Compensation Compensation
}

// Processor applies windows up to a fixed maximum size, caching the
// coefficient table between calls.
type Processor struct {
	coeffs  []float64
	maxSize int

	// Cache key.
	size int
	typ  Type
	sqrt bool
	hot  bool

	meanLin float64
	meanSq  float64

	// rebuilds counts table recomputations (cache idempotency checks).
	rebuilds int
}

// NewProcessor returns a Processor able to window up to maxSize samples.
func NewProcessor(maxSize int) (*Processor, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("window max size must be > 0: %d", maxSize)
	}
	return &Processor{
		coeffs:  make([]float64, 0, maxSize),
		maxSize: maxSize,
	}, nil
}

// MaxSize returns the construction-time capacity.
func (p *Processor) MaxSize() int {
	return p.maxSize
}

// Apply windows src into dst. dst and src may alias; both must hold
// len(src) samples and len(src) must not exceed the processor capacity.
func (p *Processor) Apply(dst, src []float64, prm Params) error {
	n := len(src)
	if n > p.maxSize {
		return fmt.Errorf("%w: %d > %d", errSizeExceedsMax, n, p.maxSize)
	}
	if len(dst) < n {
		return fmt.Errorf("window destination too short: %d < %d", len(dst), n)
	}
	if n == 0 {
		return nil
	}

	p.ensureTable(n, prm.Type, prm.Sqrt)

	gain := prm.Gain
	if gain == 0 {
		gain = 1
	}
	switch prm.Compensation {
	case CompLinear:
		gain /= p.meanLin
	case CompSquare:
		gain /= p.meanSq
	case CompSquareOverLinear:
		gain /= p.meanSq / p.meanLin
	}

	vecmath.MulBlock(dst[:n], src, p.coeffs)
	if gain != 1 {
		vecmath.ScaleBlock(dst[:n], dst[:n], gain)
	}
	return nil
}

// ApplyInPlace windows buf in place.
func (p *Processor) ApplyInPlace(buf []float64, prm Params) error {
	return p.Apply(buf, buf, prm)
}

// MeanGains returns the cached linear and squared coefficient means for
// the current table. Valid after a successful Apply.
func (p *Processor) MeanGains() (linear, square float64) {
	return p.meanLin, p.meanSq
}

func (p *Processor) ensureTable(size int, typ Type, sqrt bool) {
	if p.hot && p.size == size && p.typ == typ && p.sqrt == sqrt {
		return
	}

	p.coeffs = p.coeffs[:size]
	fill(p.coeffs, typ)
	if sqrt {
		for i, v := range p.coeffs {
			p.coeffs[i] = math.Sqrt(math.Max(0, v))
		}
	}

	n := float64(size)
	p.meanLin = floats.Sum(p.coeffs) / n
	p.meanSq = floats.Dot(p.coeffs, p.coeffs) / n

	p.size = size
	p.typ = typ
	p.sqrt = sqrt
	p.hot = true
	p.rebuilds++
}

// Generate returns freshly allocated window coefficients of the given size.
func Generate(typ Type, size int) []float64 {
	if size <= 0 {
		return nil
	}
	out := make([]float64, size)
	fill(out, typ)
	return out
}

func fill(coeffs []float64, typ Type) {
	n := len(coeffs)
	invN := 1.0 / float64(n)

	switch typ {
	case TypeRectangular:
		for i := range coeffs {
			coeffs[i] = 1
		}
	case TypeKaiser:
		den := besselI0(kaiserAlpha)
		for i := range coeffs {
			r := 2*float64(i)*invN - 1
			coeffs[i] = besselI0(kaiserAlpha*math.Sqrt(math.Max(0, 1-r*r))) / den
		}
	case TypeTriangle:
		for i := range coeffs {
			coeffs[i] = 1 - math.Abs(2*float64(i)*invN-1)
		}
	case TypeCosine:
		for i := range coeffs {
			coeffs[i] = math.Sin(math.Pi * float64(i) * invN)
		}
	default:
		c := cosineCoeffs(typ)
		for i := range coeffs {
			coeffs[i] = cosineSum(float64(i)*invN, c)
		}
	}
}

func cosineCoeffs(typ Type) []float64 {
	switch typ {
	case TypeHann:
		return hannCoeffs
	case TypeHamming:
		return hammingCoeffs
	case TypeBlackman:
		return blackmanCoeffs
	case TypeBlackman62:
		return blackman62Coeffs
	case TypeBlackman70:
		return blackman70Coeffs
	case TypeBlackman74:
		return blackman74Coeffs
	case TypeBlackman92:
		return blackman92Coeffs
	case TypeBlackmanHarris:
		return blackmanHarrisCoeffs
	case TypeFlatTop:
		return flatTopCoeffs
	default:
		return []float64{1}
	}
}

func cosineSum(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}
	return sum
}

// besselI0 evaluates the modified Bessel function I0 by series expansion,
// iterating until the update term underflows against the running sum.
func besselI0(x float64) float64 {
	xSq := 0.25 * x * x
	sum := 1.0
	term := 1.0
	for k := 1.0; ; k++ {
		term *= xSq / (k * k)
		next := sum + term
		if next == sum {
			return sum
		}
		sum = next
	}
}
