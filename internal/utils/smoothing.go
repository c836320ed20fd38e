package utils

import "math"

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Damp moves current toward target by exponential smoothing. lambda is the
// rate in 1/seconds; the result depends only on the total elapsed time, not
// on how it was split into frames.
func Damp(current, target, lambda, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	return Lerp(current, target, 1-math.Exp(-lambda*dt))
}

// SpringConfig mirrors the usual mass/tension/friction spring parameters.
type SpringConfig struct {
	Mass      float64
	Tension   float64
	Friction  float64
	Precision float64 // distance and speed below which the spring is at rest
}

var DefaultSpring = SpringConfig{Mass: 1, Tension: 170, Friction: 26, Precision: 0.0005}

// maxSpringStep bounds the integration step so large frame gaps stay stable.
const maxSpringStep = 1.0 / 240

// Spring is one animated scalar.
type Spring struct {
	Value    float64
	Velocity float64
}

// Step advances the spring toward target over dt seconds using
// semi-implicit Euler sub-steps.
func (s Spring) Step(target, dt float64, cfg SpringConfig) Spring {
	for dt > 0 {
		h := math.Min(dt, maxSpringStep)
		force := -cfg.Tension*(s.Value-target) - cfg.Friction*s.Velocity
		s.Velocity += force / cfg.Mass * h
		s.Value += s.Velocity * h
		dt -= h
	}
	if s.AtRest(target, cfg) {
		s.Value = target
		s.Velocity = 0
	}
	return s
}

func (s Spring) AtRest(target float64, cfg SpringConfig) bool {
	return math.Abs(s.Value-target) < cfg.Precision && math.Abs(s.Velocity) < cfg.Precision
}
