package system

import (
	"log"
	"math"
	"slices"

	"github.com/jakecoffman/cp"

	"github.com/aidendeom/platformer/character"
	"github.com/aidendeom/platformer/ecs"
	"github.com/aidendeom/platformer/ecs/component"
)

const (
	collisionTypeFeet cp.CollisionType = iota + 1
	collisionTypePlatform
)

const (
	defaultSensorHeight = 0.1
	defaultSensorWidth  = 0.9
)

// ContactSystem is the host collision detector. It mirrors platforms as
// static Chipmunk boxes and each character's feet as a sensor box, steps
// the space, and turns Begin/Separate callbacks into contact events that
// CharacterSystem applies on the same tick.
//
// Chipmunk only reports the start of an overlap, so after each step the
// system also re-reports overlaps the character no longer holds while it
// is not rising (after a reset or a jump that never left the sensor), and
// reports platforms whose top the feet crossed during the last tick when
// the sensor itself skipped over them.
type ContactSystem struct {
	space         *cp.Space
	dt            float64
	handlersReady bool

	platforms      map[ecs.Entity]*cp.Shape
	platformShapes map[*cp.Shape]character.PlatformID
	feet           map[ecs.Entity]*feetInfo
	feetShapes     map[*cp.Shape]ecs.Entity

	world *ecs.World
}

type feetInfo struct {
	body  *cp.Body
	shape *cp.Shape
	width float64

	// touching is what Chipmunk currently reports overlapping; fresh is
	// what began during the current step.
	touching map[character.PlatformID]bool
	fresh    map[character.PlatformID]bool
}

func NewContactSystem(dt float64) *ContactSystem {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	return &ContactSystem{
		space:          space,
		dt:             dt,
		platforms:      make(map[ecs.Entity]*cp.Shape),
		platformShapes: make(map[*cp.Shape]character.PlatformID),
		feet:           make(map[ecs.Entity]*feetInfo),
		feetShapes:     make(map[*cp.Shape]ecs.Entity),
	}
}

func (cs *ContactSystem) Space() *cp.Space {
	if cs == nil {
		return nil
	}
	return cs.space
}

func (cs *ContactSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}

	// rebuilt characters may have a new size; their sensors are recreated
	// below and report current overlaps as fresh enters
	for _, evt := range w.Events().Drain(ecs.EventReload) {
		if r, ok := evt.Data.(ecs.ReloadEvent); ok {
			cs.Forget(r.Entity)
		}
	}

	cs.world = w
	defer func() { cs.world = nil }()

	cs.ensureHandlers()
	cs.syncPlatforms(w)
	cs.syncFeet(w)
	for _, info := range cs.feet {
		clear(info.fresh)
	}
	cs.space.Step(cs.dt)
	cs.reconcile(w)
}

func (cs *ContactSystem) ensureHandlers() {
	if cs.handlersReady {
		return
	}
	handler := cs.space.NewCollisionHandler(collisionTypeFeet, collisionTypePlatform)
	handler.UserData = cs
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if sys, ok := userData.(*ContactSystem); ok && sys != nil {
			sys.emit(arb, ecs.ContactEnter)
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		if sys, ok := userData.(*ContactSystem); ok && sys != nil {
			sys.emit(arb, ecs.ContactExit)
		}
	}
	cs.handlersReady = true
}

func (cs *ContactSystem) emit(arb *cp.Arbiter, kind ecs.ContactEventKind) {
	a, b := arb.Shapes()
	ent, okA := cs.feetShapes[a]
	platform, okB := cs.platformShapes[b]
	if !okA || !okB {
		ent, okA = cs.feetShapes[b]
		platform, okB = cs.platformShapes[a]
	}
	if !okA || !okB {
		return
	}
	if info := cs.feet[ent]; info != nil {
		if kind == ecs.ContactEnter {
			info.touching[platform] = true
			info.fresh[platform] = true
		} else {
			delete(info.touching, platform)
		}
	}
	cs.push(ent, platform, kind)
}

func (cs *ContactSystem) push(ent ecs.Entity, platform character.PlatformID, kind ecs.ContactEventKind) {
	if cs.world == nil {
		return
	}
	cs.world.Events().Push(ecs.Event{
		Type: ecs.EventContact,
		Data: ecs.ContactEvent{Entity: ent, Platform: platform, Kind: kind},
	})
}

// reconcile sends enters the Chipmunk callbacks cannot produce: overlaps
// that persist after the character dropped them, and platforms tunnelled
// through in a single tick.
func (cs *ContactSystem) reconcile(w *ecs.World) {
	for _, e := range w.Query(component.CharacterComponent.ID()) {
		info := cs.feet[e]
		c, ok := ecs.Get(w, e, component.CharacterComponent)
		if info == nil || !ok || c == nil || c.Sim == nil {
			continue
		}
		vy := c.Sim.Velocity().Y
		if vy > 0 {
			continue
		}

		var missing []character.PlatformID
		for id := range info.touching {
			if !info.fresh[id] && !c.Sim.Touching(id) {
				missing = append(missing, id)
			}
		}
		if vy < 0 {
			missing = append(missing, cs.crossed(info, c.Sim, vy)...)
		}
		slices.Sort(missing)
		for _, id := range slices.Compact(missing) {
			cs.push(e, id, ecs.ContactEnter)
		}
	}
}

// crossed returns platforms whose top lies on the segment the feet fell
// along during the last tick and that the sensor never overlapped.
func (cs *ContactSystem) crossed(info *feetInfo, sim *character.Character, vy float64) []character.PlatformID {
	feet := sim.Feet()
	sweep := cp.BB{
		L: feet.X - info.width/2,
		B: feet.Y,
		R: feet.X + info.width/2,
		T: feet.Y - vy*cs.dt,
	}
	var out []character.PlatformID
	cs.space.BBQuery(sweep, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		id, ok := cs.platformShapes[shape]
		if !ok || info.touching[id] || sim.Touching(id) {
			return
		}
		if top := shape.BB().T; top >= sweep.B && top <= sweep.T {
			out = append(out, id)
		}
	}, nil)
	return out
}

func (cs *ContactSystem) syncPlatforms(w *ecs.World) {
	seen := make(map[ecs.Entity]bool)
	for _, e := range w.Query(component.PlatformComponent.ID()) {
		p, ok := ecs.Get(w, e, component.PlatformComponent)
		if !ok {
			continue
		}
		seen[e] = true
		if _, exists := cs.platforms[e]; exists {
			continue
		}
		if p.Width <= 0 || p.Height <= 0 {
			log.Printf("contact: skipping platform %d with size %vx%v", p.ID, p.Width, p.Height)
			continue
		}
		bb := cp.BB{
			L: p.X - p.Width/2,
			B: p.Y - p.Height/2,
			R: p.X + p.Width/2,
			T: p.Y + p.Height/2,
		}
		shape := cp.NewBox2(cs.space.StaticBody, bb, 0)
		shape.SetCollisionType(collisionTypePlatform)
		cs.space.AddShape(shape)
		cs.platforms[e] = shape
		cs.platformShapes[shape] = p.ID
	}
	for e, shape := range cs.platforms {
		if seen[e] {
			continue
		}
		cs.space.RemoveShape(shape)
		delete(cs.platformShapes, shape)
		delete(cs.platforms, e)
	}
}

func (cs *ContactSystem) syncFeet(w *ecs.World) {
	seen := make(map[ecs.Entity]bool)
	for _, e := range w.Query(component.CharacterComponent.ID()) {
		c, ok := ecs.Get(w, e, component.CharacterComponent)
		if !ok || c == nil || c.Sim == nil {
			continue
		}
		seen[e] = true
		info := cs.feet[e]
		if info == nil {
			sensor, _ := ecs.Get(w, e, component.ContactSensorComponent)
			info = cs.createFeet(c.Sim.HalfHeight(), sensor)
			cs.feet[e] = info
			cs.feetShapes[info.shape] = e
		}
		pos := c.Sim.Position()
		info.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
		info.body.SetVelocity(0, 0)
	}
	for e, info := range cs.feet {
		if seen[e] {
			continue
		}
		cs.space.RemoveShape(info.shape)
		cs.space.RemoveBody(info.body)
		delete(cs.feetShapes, info.shape)
		delete(cs.feet, e)
	}
}

// sensorSize resolves the feet box from the component, falling back to a
// thin strip slightly narrower than the body.
func sensorSize(sensor component.ContactSensor) (width, height float64) {
	width = sensor.Width
	if width <= 0 {
		bodyWidth := sensor.BodyWidth
		if bodyWidth <= 0 {
			bodyWidth = 1
		}
		width = bodyWidth * defaultSensorWidth
	}
	height = sensor.Height
	if height <= 0 {
		height = defaultSensorHeight
	}
	return width, height
}

func (cs *ContactSystem) createFeet(halfHeight float64, sensor component.ContactSensor) *feetInfo {
	width, height := sensorSize(sensor)

	body := cp.NewBody(1, math.Inf(1))
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, 1, dt)
	})
	// straddle the feet so a body resting exactly on a top keeps overlapping it
	bb := cp.BB{
		L: -width / 2,
		B: -halfHeight - height/2,
		R: width / 2,
		T: -halfHeight + height/2,
	}
	shape := cp.NewBox2(body, bb, 0)
	shape.SetSensor(true)
	shape.SetCollisionType(collisionTypeFeet)

	cs.space.AddBody(body)
	cs.space.AddShape(shape)
	return &feetInfo{
		body:     body,
		shape:    shape,
		width:    width,
		touching: make(map[character.PlatformID]bool),
		fresh:    make(map[character.PlatformID]bool),
	}
}

// Forget drops the feet sensor of e so the next Update rebuilds it, e.g.
// after the character's size changed. Called outside Update it emits no
// exit events.
func (cs *ContactSystem) Forget(e ecs.Entity) {
	info := cs.feet[e]
	if info == nil {
		return
	}
	cs.space.RemoveShape(info.shape)
	cs.space.RemoveBody(info.body)
	delete(cs.feetShapes, info.shape)
	delete(cs.feet, e)
}
