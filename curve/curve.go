// Package curve maps a normalized ratio in [0,1] to a normalized multiplier.
//
// Curves are pure. Callers clamp both the input ratio and the evaluated result,
// so a curve is free to overshoot or be non-monotonic.
package curve

import "errors"

var (
	ErrNoKeys       = errors.New("curve: no keyframes")
	ErrUnsortedKeys = errors.New("curve: keyframe times must be strictly increasing")
	ErrNilCurve     = errors.New("curve: nil curve")
)

// Curve evaluates a normalized ratio.
type Curve interface {
	Evaluate(t float64) float64
}

// Func adapts a plain function to Curve.
type Func func(t float64) float64

func (f Func) Evaluate(t float64) float64 {
	return f(t)
}

// Linear returns y = t.
func Linear() Curve {
	return Func(func(t float64) float64 { return t })
}

// InverseLinear returns y = 1 - t, the usual stop curve.
func InverseLinear() Curve {
	return Func(func(t float64) float64 { return 1 - t })
}

// EaseInOut returns the smoothstep curve.
func EaseInOut() Curve {
	return Func(func(t float64) float64 { return t * t * (3 - 2*t) })
}

func Constant(v float64) Curve {
	return Func(func(float64) float64 { return v })
}

// Reverse mirrors c in time, so Reverse(c).Evaluate(t) == c.Evaluate(1-t).
// A stop curve authored as the mirror of the start curve keeps the
// multiplier slope continuous across a reversal.
func Reverse(c Curve) Curve {
	return Func(func(t float64) float64 { return c.Evaluate(1 - t) })
}
