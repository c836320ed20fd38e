package utils

import (
	"math"
	"testing"
)

func TestDampIsFrameRateIndependent(t *testing.T) {
	coarse := 0.0
	for i := 0; i < 30; i++ {
		coarse = Damp(coarse, 1, 4, 1.0/30)
	}

	fine := 0.0
	for i := 0; i < 120; i++ {
		fine = Damp(fine, 1, 4, 1.0/120)
	}

	if math.Abs(coarse-fine) > 1e-9 {
		t.Errorf("expected identical results, got %v (30fps) vs %v (120fps)", coarse, fine)
	}
	want := 1 - math.Exp(-4)
	if math.Abs(coarse-want) > 1e-9 {
		t.Errorf("expected %v after one second, got %v", want, coarse)
	}
}

func TestDampIgnoresNonPositiveDelta(t *testing.T) {
	if got := Damp(0.3, 1, 10, 0); got != 0.3 {
		t.Errorf("expected unchanged value, got %v", got)
	}
	if got := Damp(0.3, 1, 10, -1); got != 0.3 {
		t.Errorf("expected unchanged value, got %v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ v, want float64 }{
		{-2, -1}, {0.5, 0.5}, {3, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, -1, 1); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestSpringSettlesOnTarget(t *testing.T) {
	s := Spring{Value: 0.8}
	for i := 0; i < 180; i++ { // three seconds at 60fps
		s = s.Step(1.5, 1.0/60, DefaultSpring)
	}
	if s.Value != 1.5 || s.Velocity != 0 {
		t.Errorf("expected spring at rest on 1.5, got value %v velocity %v", s.Value, s.Velocity)
	}
}

func TestSpringMovesGradually(t *testing.T) {
	s := Spring{Value: 0.8}
	s = s.Step(1.5, 1.0/60, DefaultSpring)
	if s.Value <= 0.8 || s.Value >= 1.5 {
		t.Errorf("expected a partial move after one frame, got %v", s.Value)
	}
}

func TestSpringLargeStepStaysBounded(t *testing.T) {
	s := Spring{Value: 0}
	s = s.Step(1, 2, DefaultSpring)
	if math.IsNaN(s.Value) || math.Abs(s.Value-1) > 0.01 {
		t.Errorf("expected a stable spring after a long gap, got %v", s.Value)
	}
}
