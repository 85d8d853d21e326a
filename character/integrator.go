package character

import "github.com/aidendeom/platformer/common"

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Body is the character's kinematic state. Y points up.
type Body struct {
	Position   Vec2
	Velocity   Vec2
	HalfHeight float64
}

// Feet returns the bottom-centre of the body.
func (b Body) Feet() Vec2 {
	return Vec2{X: b.Position.X, Y: b.Position.Y - b.HalfHeight}
}

// SnapToGround rests the feet on top and stops any downward motion.
// Upward velocity from a jump issued this tick is kept.
func (b *Body) SnapToGround(top float64) {
	b.Position.Y = top + b.HalfHeight
	if b.Velocity.Y < 0 {
		b.Velocity.Y = 0
	}
}

// IntegratorInput is everything the integrator needs from the rest of a tick.
type IntegratorInput struct {
	// Direction is the signed unit of horizontal motion; 0 falls back to the
	// sign of the current horizontal velocity.
	Direction  float64
	Multiplier float64
	Running    bool
	Jump       bool
}

// Integrator applies horizontal speed, jump and gravity, then integrates
// position with semi-implicit Euler.
type Integrator struct {
	MaxWalkSpeed float64
	MaxRunSpeed  float64
	JumpImpulse  float64
	Gravity      float64
}

func newIntegrator(cfg Config) Integrator {
	return Integrator{
		MaxWalkSpeed: cfg.MaxWalkSpeed,
		MaxRunSpeed:  cfg.MaxRunSpeed,
		JumpImpulse:  cfg.JumpImpulse,
		Gravity:      cfg.Gravity,
	}
}

// Step updates body for one tick of dt seconds. A jump while airborne is
// ignored.
func (in Integrator) Step(dt float64, input IntegratorInput, body *Body, contacts *ContactTracker) {
	dir := input.Direction
	if dir == 0 {
		dir = common.Sign(body.Velocity.X)
	}
	maxSpeed := in.MaxWalkSpeed
	if input.Running {
		maxSpeed = in.MaxRunSpeed
	}
	body.Velocity.X = dir * maxSpeed * input.Multiplier

	if input.Jump && contacts.Grounded() {
		body.Velocity.Y += in.JumpImpulse
		contacts.Clear()
	} else if !contacts.Grounded() {
		body.Velocity.Y -= in.Gravity * dt
	}

	body.Position = body.Position.Add(body.Velocity.Scale(dt))
}
