// Package character simulates a platformer character: an eased movement state
// machine, platform contact tracking, and gravity/jump integration, advanced
// one tick at a time by Step.
package character

import (
	"errors"
	"fmt"

	"github.com/aidendeom/platformer/common"
	"github.com/aidendeom/platformer/curve"
)

var ErrInvalidConfig = errors.New("character: invalid config")

// Config is fixed for the lifetime of a Character.
type Config struct {
	MaxWalkSpeed float64
	MaxRunSpeed  float64
	JumpImpulse  float64
	Gravity      float64
	// HalfHeight is the distance from the body's position to its feet.
	HalfHeight float64

	StartDuration float64
	StopDuration  float64
	StartCurve    curve.Curve
	StopCurve     curve.Curve
}

func DefaultConfig() Config {
	return Config{
		MaxWalkSpeed:  5,
		MaxRunSpeed:   30,
		JumpImpulse:   10,
		Gravity:       common.Gravity,
		HalfHeight:    0.5,
		StartDuration: 0.5,
		StopDuration:  0.5,
		StartCurve:    curve.EaseInOut(),
		StopCurve:     curve.Reverse(curve.EaseInOut()),
	}
}

// Validate reports the first configuration error. A Character must never be
// built from a config that fails here: ramp math divides by both durations.
func (c Config) Validate() error {
	switch {
	case !(c.StartDuration > 0):
		return fmt.Errorf("%w: start duration %v must be > 0", ErrInvalidConfig, c.StartDuration)
	case !(c.StopDuration > 0):
		return fmt.Errorf("%w: stop duration %v must be > 0", ErrInvalidConfig, c.StopDuration)
	case c.StartCurve == nil:
		return fmt.Errorf("%w: start curve: %w", ErrInvalidConfig, curve.ErrNilCurve)
	case c.StopCurve == nil:
		return fmt.Errorf("%w: stop curve: %w", ErrInvalidConfig, curve.ErrNilCurve)
	case c.MaxWalkSpeed < 0 || c.MaxRunSpeed < 0:
		return fmt.Errorf("%w: max speeds must be >= 0", ErrInvalidConfig)
	case c.JumpImpulse < 0:
		return fmt.Errorf("%w: jump impulse must be >= 0", ErrInvalidConfig)
	case c.Gravity < 0:
		return fmt.Errorf("%w: gravity must be >= 0", ErrInvalidConfig)
	case c.HalfHeight < 0:
		return fmt.Errorf("%w: half height must be >= 0", ErrInvalidConfig)
	}
	return nil
}
