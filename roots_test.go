package caviarpd

import (
	"math"
	"testing"
)

func TestFindRootQuadratic(t *testing.T) {
	f := func(x float64) float64 { return x*x - 4 }
	root, err := findRoot(f, 0, 10, 1e-8, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(root-2) > 1e-6 {
		t.Errorf("root = %g, want 2", root)
	}
}

func TestFindRootTranscendental(t *testing.T) {
	f := func(x float64) float64 { return math.Cos(x) - x }
	root, err := findRoot(f, 0, 2, 1e-10, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(root-0.7390851332151607) > 1e-6 {
		t.Errorf("root = %g, want 0.7390851332151607", root)
	}
}

func TestFindRootEndpointHit(t *testing.T) {
	f := func(x float64) float64 { return x }
	root, err := findRoot(f, 0, 1, 1e-8, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != 0 {
		t.Errorf("root = %g, want 0", root)
	}
}

func TestFindRootNoSignChange(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	if _, err := findRoot(f, 0, 10, 1e-8, 100); err == nil {
		t.Error("expected error for bracket without sign change, got nil")
	}
}

func TestFindRootInvalidBracket(t *testing.T) {
	f := func(x float64) float64 { return x }
	if _, err := findRoot(f, 1, 1, 1e-8, 100); err == nil {
		t.Error("expected error for empty bracket, got nil")
	}
	if _, err := findRoot(f, 2, 1, 1e-8, 100); err == nil {
		t.Error("expected error for reversed bracket, got nil")
	}
}
