package character

// Snapshot is a read-only view of a character after a tick.
type Snapshot struct {
	Tick       uint64       `json:"tick"`
	State      string       `json:"state"`
	Intent     string       `json:"intent"`
	Heading    string       `json:"heading"`
	Multiplier float64      `json:"multiplier"`
	Progress   float64      `json:"progress"`
	Position   Vec2         `json:"position"`
	Velocity   Vec2         `json:"velocity"`
	Grounded   bool         `json:"grounded"`
	Contacts   []PlatformID `json:"contacts"`
}

// Character runs the per-tick sequence: movement machine, contact
// resolution, integration, position commit.
type Character struct {
	cfg        Config
	mover      *Mover
	contacts   ContactTracker
	integrator Integrator
	body       Body
	platforms  PlatformSource

	ticks  uint64
	intent Intent
	debug  bool
}

// New validates cfg and places an idle character at spawn. platforms answers
// ground heights for contact events reported by the host.
func New(cfg Config, platforms PlatformSource, spawn Vec2) (*Character, error) {
	mover, err := NewMover(cfg)
	if err != nil {
		return nil, err
	}
	return &Character{
		cfg:        cfg,
		mover:      mover,
		integrator: newIntegrator(cfg),
		body:       Body{Position: spawn, HalfHeight: cfg.HalfHeight},
		platforms:  platforms,
	}, nil
}

// SetDebug logs movement state changes.
func (c *Character) SetDebug(enabled bool) {
	c.debug = enabled
	c.mover.SetDebug(enabled)
}

func (c *Character) Debug() bool {
	return c.debug
}

// Step advances the character by dt seconds and returns how far it moved.
// A non-positive dt does nothing.
func (c *Character) Step(dt float64, in Input) Vec2 {
	if !(dt > 0) {
		return Vec2{}
	}
	c.ticks++
	before := c.body.Position

	c.intent = in.Intent()
	c.mover.Update(dt, c.intent)

	if top, ok := c.contacts.GroundHeight(c.platforms); ok {
		c.body.SnapToGround(top)
	}

	dir := c.intent.Sign()
	if c.mover.Braking() {
		dir = c.mover.Heading().Sign()
	}
	c.integrator.Step(dt, IntegratorInput{
		Direction:  dir,
		Multiplier: c.mover.Multiplier(),
		Running:    in.Run,
		Jump:       in.Jump,
	}, &c.body, &c.contacts)

	return c.body.Position.Sub(before)
}

// OnContactEnter records that the character overlaps platform id.
func (c *Character) OnContactEnter(id PlatformID) {
	c.contacts.Add(id)
}

// OnContactExit drops platform id; unmatched exits are ignored.
func (c *Character) OnContactExit(id PlatformID) {
	c.contacts.Remove(id)
}

// Reset teleports the character to pos at rest and airborne.
func (c *Character) Reset(pos Vec2) {
	c.body.Position = pos
	c.body.Velocity = Vec2{}
	c.contacts.Clear()
	c.intent = IntentNone
	c.mover.Reset()
}

func (c *Character) Config() Config {
	return c.cfg
}

func (c *Character) Grounded() bool {
	return c.contacts.Grounded()
}

// Touching reports whether platform id is in the contact set.
func (c *Character) Touching(id PlatformID) bool {
	return c.contacts.Has(id)
}

// Contacts returns the touched platforms in ascending order.
func (c *Character) Contacts() []PlatformID {
	return c.contacts.IDs()
}

func (c *Character) Position() Vec2 {
	return c.body.Position
}

func (c *Character) Velocity() Vec2 {
	return c.body.Velocity
}

// Feet returns the bottom-centre of the character.
func (c *Character) Feet() Vec2 {
	return c.body.Feet()
}

func (c *Character) HalfHeight() float64 {
	return c.body.HalfHeight
}

func (c *Character) State() MovementState {
	return c.mover.State()
}

func (c *Character) Multiplier() float64 {
	return c.mover.Multiplier()
}

func (c *Character) Snapshot() Snapshot {
	return Snapshot{
		Tick:       c.ticks,
		State:      c.mover.State().String(),
		Intent:     c.intent.String(),
		Heading:    c.mover.Heading().String(),
		Multiplier: c.mover.Multiplier(),
		Progress:   c.mover.Progress(),
		Position:   c.body.Position,
		Velocity:   c.body.Velocity,
		Grounded:   c.contacts.Grounded(),
		Contacts:   c.contacts.IDs(),
	}
}
