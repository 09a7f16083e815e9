package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Fatalf("Clamp(5,0,1) = %v, want 1", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Fatalf("Clamp(-5,0,1) = %v, want 0", got)
	}
	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Fatalf("Clamp(0.5,0,1) = %v, want 0.5", got)
	}
	// Swapped bounds are normalised.
	if got := Clamp(0.5, 1, 0); got != 0.5 {
		t.Fatalf("Clamp(0.5,1,0) = %v, want 0.5", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-12) {
		t.Fatal("expected not nearly equal")
	}
	if !NearlyEqual(0, 0, 0) {
		t.Fatal("zero self-compare failed")
	}
}

func TestPowerOfTwoHelpers(t *testing.T) {
	cases := []struct {
		n, next, prev int
	}{
		{1, 1, 1},
		{2, 2, 2},
		{3, 4, 2},
		{1023, 1024, 512},
		{1024, 1024, 1024},
		{1025, 2048, 1024},
	}

	for _, c := range cases {
		if got := NextPowerOfTwo(c.n); got != c.next {
			t.Fatalf("NextPowerOfTwo(%d) = %d, want %d", c.n, got, c.next)
		}
		if got := PrevPowerOfTwo(c.n); got != c.prev {
			t.Fatalf("PrevPowerOfTwo(%d) = %d, want %d", c.n, got, c.prev)
		}
	}

	if IsPowerOfTwo(0) || IsPowerOfTwo(12) {
		t.Fatal("IsPowerOfTwo false positives")
	}
	if !IsPowerOfTwo(1) || !IsPowerOfTwo(4096) {
		t.Fatal("IsPowerOfTwo false negatives")
	}
}

func TestDBConversions(t *testing.T) {
	if got := LinearPowerToDB(1); got != 0 {
		t.Fatalf("LinearPowerToDB(1) = %v, want 0", got)
	}
	if got := LinearPowerToDB(0); !math.IsInf(got, -1) {
		t.Fatalf("LinearPowerToDB(0) = %v, want -Inf", got)
	}
	if got := LinearPowerToDB(-1); !math.IsNaN(got) {
		t.Fatalf("LinearPowerToDB(-1) = %v, want NaN", got)
	}
	if got := DBPowerToLinear(10); !NearlyEqual(got, 10, 1e-12) {
		t.Fatalf("DBPowerToLinear(10) = %v, want 10", got)
	}
}
