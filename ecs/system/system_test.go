package system

import (
	"errors"
	"testing"

	"github.com/aidendeom/platformer/character"
	"github.com/aidendeom/platformer/ecs"
	"github.com/aidendeom/platformer/ecs/component"
	"github.com/aidendeom/platformer/prefabs"
	"github.com/aidendeom/platformer/telemetry"
)

const testDt = 1.0 / 60.0

// floor is a 20 wide slab whose top sits at y = 0.
var floor = component.Platform{ID: 1, X: 0, Y: -0.5, Width: 20, Height: 1}

func addPlatform(t *testing.T, w *ecs.World, p component.Platform) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.PlatformComponent, p); err != nil {
		t.Fatalf("add platform: %v", err)
	}
	return e
}

func addPlayer(t *testing.T, w *ecs.World, spawn character.Vec2) (ecs.Entity, *component.Character) {
	t.Helper()
	return addPlayerWith(t, w, character.DefaultConfig(), spawn)
}

func addPlayerWith(t *testing.T, w *ecs.World, cfg character.Config, spawn character.Vec2) (ecs.Entity, *component.Character) {
	t.Helper()
	sim, err := character.New(cfg, WorldPlatforms{World: w}, spawn)
	if err != nil {
		t.Fatalf("character.New: %v", err)
	}
	e := w.CreateEntity()
	c := &component.Character{Sim: sim, Spawn: spawn}
	for _, err := range []error{
		ecs.Add(w, e, component.CharacterComponent, c),
		ecs.Add(w, e, component.InputComponent, component.Input{}),
		ecs.Add(w, e, component.PlayerTagComponent, component.PlayerTag{}),
		ecs.Add(w, e, component.ContactSensorComponent, component.ContactSensor{BodyWidth: 1}),
	} {
		if err != nil {
			t.Fatalf("add player: %v", err)
		}
	}
	return e, c
}

func contactEvents(w *ecs.World) []ecs.ContactEvent {
	var out []ecs.ContactEvent
	for _, evt := range w.Events().Drain(ecs.EventContact) {
		if c, ok := evt.Data.(ecs.ContactEvent); ok {
			out = append(out, c)
		}
	}
	return out
}

func TestWorldPlatforms(t *testing.T) {
	w := ecs.NewWorld()
	addPlatform(t, w, floor)
	addPlatform(t, w, component.Platform{ID: 7, X: 3, Y: 2, Width: 2, Height: 1})

	cases := []struct {
		name string
		id   character.PlatformID
		top  float64
		ok   bool
	}{
		{"floor", 1, 0, true},
		{"ledge", 7, 2.5, true},
		{"unknown", 99, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			top, ok := WorldPlatforms{World: w}.TopHeight(c.id)
			if ok != c.ok || top != c.top {
				t.Fatalf("TopHeight(%d) = %v, %v; want %v, %v", c.id, top, ok, c.top, c.ok)
			}
		})
	}

	if _, ok := (WorldPlatforms{}).TopHeight(1); ok {
		t.Fatalf("nil world resolved a platform")
	}
}

func TestContactSystemEmitsEnterAndExit(t *testing.T) {
	w := ecs.NewWorld()
	addPlatform(t, w, floor)
	e, c := addPlayer(t, w, character.Vec2{X: 0, Y: 0.5})
	cs := NewContactSystem(testDt)

	cs.Update(w)
	got := contactEvents(w)
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1 enter", len(got))
	}
	if got[0].Kind != ecs.ContactEnter || got[0].Platform != floor.ID || got[0].Entity != e {
		t.Fatalf("unexpected event %+v", got[0])
	}

	c.Sim.OnContactEnter(floor.ID)
	cs.Update(w)
	if got := contactEvents(w); len(got) != 0 {
		t.Fatalf("persistent overlap produced events: %+v", got)
	}

	c.Sim.Reset(character.Vec2{X: 0, Y: 5})
	cs.Update(w)
	got = contactEvents(w)
	if len(got) != 1 || got[0].Kind != ecs.ContactExit || got[0].Platform != floor.ID {
		t.Fatalf("want one exit event, got %+v", got)
	}
}

func TestContactSystemRemovedPlatformExits(t *testing.T) {
	w := ecs.NewWorld()
	plat := addPlatform(t, w, floor)
	addPlayer(t, w, character.Vec2{X: 0, Y: 0.5})
	cs := NewContactSystem(testDt)

	cs.Update(w)
	contactEvents(w)

	w.DestroyEntity(plat)
	cs.Update(w)
	got := contactEvents(w)
	if len(got) != 1 || got[0].Kind != ecs.ContactExit {
		t.Fatalf("want exit for removed platform, got %+v", got)
	}
}

func TestContactSystemReportsHeldOverlap(t *testing.T) {
	w := ecs.NewWorld()
	addPlatform(t, w, floor)
	e, c := addPlayer(t, w, character.Vec2{X: 0, Y: 0.5})
	cs := NewContactSystem(testDt)

	cs.Update(w)
	if got := contactEvents(w); len(got) != 1 {
		t.Fatalf("first update: got %+v, want one enter", got)
	}

	// the character never took the enter, as after a reset on the platform
	cs.Update(w)
	got := contactEvents(w)
	if len(got) != 1 || got[0].Kind != ecs.ContactEnter || got[0].Entity != e || got[0].Platform != floor.ID {
		t.Fatalf("held overlap not reported again: %+v", got)
	}

	c.Sim.OnContactEnter(floor.ID)
	cs.Update(w)
	if got := contactEvents(w); len(got) != 0 {
		t.Fatalf("overlap already held produced events: %+v", got)
	}
}

func TestContactSystemReloadEventRebuildsSensor(t *testing.T) {
	w := ecs.NewWorld()
	addPlatform(t, w, floor)
	e, c := addPlayer(t, w, character.Vec2{X: 0, Y: 0.5})
	cs := NewContactSystem(testDt)

	cs.Update(w)
	c.Sim.OnContactEnter(floor.ID)
	contactEvents(w)

	_ = ecs.Add(w, e, component.ContactSensorComponent, component.ContactSensor{Width: 2, Height: 0.2, BodyWidth: 1})
	w.Events().Push(ecs.Event{Type: ecs.EventReload, Data: ecs.ReloadEvent{Entity: e, Source: "character.yaml"}})
	cs.Update(w)

	got := contactEvents(w)
	if len(got) != 1 || got[0].Kind != ecs.ContactEnter {
		t.Fatalf("want one fresh enter from the rebuilt sensor, got %+v", got)
	}
	if w.Events().Len() != 0 {
		t.Fatalf("reload event left in the queue")
	}
	if info := cs.feet[e]; info == nil || info.width != 2 {
		t.Fatalf("sensor not rebuilt from the component: %+v", info)
	}
}

func TestSensorSize(t *testing.T) {
	cases := []struct {
		name          string
		sensor        component.ContactSensor
		width, height float64
	}{
		{"explicit", component.ContactSensor{Width: 0.5, Height: 0.2, BodyWidth: 1}, 0.5, 0.2},
		{"from_body", component.ContactSensor{BodyWidth: 2}, 1.8, defaultSensorHeight},
		{"empty", component.ContactSensor{}, defaultSensorWidth, defaultSensorHeight},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, h := sensorSize(c.sensor)
			if w != c.width || h != c.height {
				t.Fatalf("sensorSize = %v x %v, want %v x %v", w, h, c.width, c.height)
			}
		})
	}
}

func TestContactSystemForgetRedetects(t *testing.T) {
	w := ecs.NewWorld()
	addPlatform(t, w, floor)
	e, _ := addPlayer(t, w, character.Vec2{X: 0, Y: 0.5})
	cs := NewContactSystem(testDt)

	cs.Update(w)
	contactEvents(w)

	cs.Forget(e)
	if got := contactEvents(w); len(got) != 0 {
		t.Fatalf("Forget outside Update emitted %+v", got)
	}
	cs.Update(w)
	got := contactEvents(w)
	if len(got) != 1 || got[0].Kind != ecs.ContactEnter {
		t.Fatalf("want a fresh enter after Forget, got %+v", got)
	}
}

func TestCharacterSystemAppliesContactEvents(t *testing.T) {
	w := ecs.NewWorld()
	addPlatform(t, w, floor)
	e, c := addPlayer(t, w, character.Vec2{X: 0, Y: 3})
	sys := NewCharacterSystem(testDt)

	w.Events().Push(ecs.Event{Type: ecs.EventContact, Data: ecs.ContactEvent{Entity: e, Platform: floor.ID, Kind: ecs.ContactEnter}})
	sys.Update(w)
	if !c.Sim.Grounded() {
		t.Fatalf("enter event did not ground the character")
	}
	if got := c.Sim.Position().Y; got != 0.5 {
		t.Fatalf("y = %v, want snapped to 0.5", got)
	}

	w.Events().Push(ecs.Event{Type: ecs.EventContact, Data: ecs.ContactEvent{Entity: e, Platform: floor.ID, Kind: ecs.ContactExit}})
	w.Events().Push(ecs.Event{Type: ecs.EventContact, Data: "garbage"})
	sys.Update(w)
	if c.Sim.Grounded() {
		t.Fatalf("exit event left the character grounded")
	}
	if c.Sim.Velocity().Y >= 0 {
		t.Fatalf("airborne character is not falling: vy = %v", c.Sim.Velocity().Y)
	}
}

func TestCharacterSystemReset(t *testing.T) {
	w := ecs.NewWorld()
	spawn := character.Vec2{X: 1, Y: 4}
	e, c := addPlayer(t, w, spawn)
	sys := NewCharacterSystem(testDt)

	_ = ecs.Add(w, e, component.InputComponent, component.Input{Input: character.Input{MoveRight: true}})
	for i := 0; i < 30; i++ {
		sys.Update(w)
	}
	if c.Sim.Position() == spawn {
		t.Fatalf("character did not move")
	}

	_ = ecs.Add(w, e, component.InputComponent, component.Input{Reset: true})
	sys.Update(w)
	if c.Sim.Position() != spawn || c.Sim.Velocity() != (character.Vec2{}) {
		t.Fatalf("reset left pos=%v vel=%v", c.Sim.Position(), c.Sim.Velocity())
	}
	if c.Sim.State() != character.StateIdle {
		t.Fatalf("state = %v, want Idle", c.Sim.State())
	}
}

func TestSystemsLandAndJump(t *testing.T) {
	w := ecs.NewWorld()
	addPlatform(t, w, floor)
	e, c := addPlayer(t, w, character.Vec2{X: 0, Y: 3})
	w.AddSystem(ecs.PhaseContact, NewContactSystem(testDt))
	w.AddSystem(ecs.PhaseSimulate, NewCharacterSystem(testDt))

	for i := 0; i < 120; i++ {
		w.Update()
	}
	if !c.Sim.Grounded() {
		t.Fatalf("character never landed, pos=%v", c.Sim.Position())
	}
	if got := c.Sim.Position().Y; got != 0.5 {
		t.Fatalf("resting y = %v, want 0.5", got)
	}

	_ = ecs.Add(w, e, component.InputComponent, component.Input{Input: character.Input{Jump: true}})
	w.Update()
	_ = ecs.Add(w, e, component.InputComponent, component.Input{})
	if c.Sim.Grounded() || c.Sim.Velocity().Y <= 0 {
		t.Fatalf("jump tick: grounded=%v vy=%v", c.Sim.Grounded(), c.Sim.Velocity().Y)
	}

	for i := 0; i < 120; i++ {
		w.Update()
	}
	if !c.Sim.Grounded() || c.Sim.Position().Y != 0.5 {
		t.Fatalf("after jump: grounded=%v y=%v", c.Sim.Grounded(), c.Sim.Position().Y)
	}
}

func TestSystemsKeepFooting(t *testing.T) {
	weak := character.DefaultConfig()
	weak.JumpImpulse = 2

	// a slab thinner than one tick of fast falling
	thin := component.Platform{ID: 2, X: 0, Y: -0.05, Width: 4, Height: 0.1}

	cases := []struct {
		name     string
		platform component.Platform
		cfg      character.Config
		spawn    character.Vec2
		settle   int
		input    component.Input
	}{
		{"reset_on_platform", floor, character.DefaultConfig(), character.Vec2{X: 0, Y: 0.5}, 30, component.Input{Reset: true}},
		{"jump_within_sensor", floor, weak, character.Vec2{X: 0, Y: 0.5}, 30, component.Input{Input: character.Input{Jump: true}}},
		{"fast_fall_onto_thin_platform", thin, character.DefaultConfig(), character.Vec2{X: 0, Y: 6}, 0, component.Input{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			addPlatform(t, w, c.platform)
			e, comp := addPlayerWith(t, w, c.cfg, c.spawn)
			w.AddSystem(ecs.PhaseContact, NewContactSystem(testDt))
			w.AddSystem(ecs.PhaseSimulate, NewCharacterSystem(testDt))

			for i := 0; i < c.settle; i++ {
				w.Update()
			}
			if c.settle > 0 && (!comp.Sim.Grounded() || comp.Sim.Position().Y != 0.5) {
				t.Fatalf("not standing before input: grounded=%v y=%v", comp.Sim.Grounded(), comp.Sim.Position().Y)
			}

			_ = ecs.Add(w, e, component.InputComponent, c.input)
			w.Update()
			_ = ecs.Add(w, e, component.InputComponent, component.Input{})

			for i := 0; i < 120; i++ {
				w.Update()
			}
			if !comp.Sim.Grounded() || comp.Sim.Position().Y != 0.5 {
				t.Fatalf("lost the platform: grounded=%v y=%v", comp.Sim.Grounded(), comp.Sim.Position().Y)
			}
		})
	}
}

func TestInputSystemWritesPlayersOnly(t *testing.T) {
	w := ecs.NewWorld()
	player, _ := addPlayer(t, w, character.Vec2{})
	npc := w.CreateEntity()
	_ = ecs.Add(w, npc, component.InputComponent, component.Input{})

	polls := 0
	sys := NewInputSystem(func() component.Input {
		polls++
		return component.Input{Input: character.Input{MoveLeft: true, Run: true}}
	})
	sys.Update(w)

	if polls != 1 {
		t.Fatalf("polled %d times, want 1", polls)
	}
	if in, _ := ecs.Get(w, player, component.InputComponent); !in.MoveLeft || !in.Run {
		t.Fatalf("player input = %+v", in)
	}
	if in, _ := ecs.Get(w, npc, component.InputComponent); in.MoveLeft {
		t.Fatalf("untagged entity received input")
	}

	NewInputSystem(nil).Update(w)
}

type recordingPublisher struct {
	frames []telemetry.Frame
}

func (p *recordingPublisher) Publish(frame telemetry.Frame) {
	p.frames = append(p.frames, frame)
}

func TestTelemetrySystemInterval(t *testing.T) {
	w := ecs.NewWorld()
	e, _ := addPlayer(t, w, character.Vec2{X: 2, Y: 3})
	pub := &recordingPublisher{}
	sys := NewTelemetrySystem(pub, 3)

	for i := 0; i < 7; i++ {
		sys.Update(w)
	}
	if len(pub.frames) != 2 {
		t.Fatalf("published %d frames, want 2", len(pub.frames))
	}
	f := pub.frames[1]
	if f.Tick != 6 {
		t.Fatalf("tick = %d, want 6", f.Tick)
	}
	if len(f.Characters) != 1 || f.Characters[0].Entity != e.String() {
		t.Fatalf("characters = %+v", f.Characters)
	}
	if f.Characters[0].Position != (character.Vec2{X: 2, Y: 3}) {
		t.Fatalf("position = %v", f.Characters[0].Position)
	}
}

func reloadEvents(w *ecs.World) []ecs.ReloadEvent {
	var out []ecs.ReloadEvent
	for _, evt := range w.Events().Drain(ecs.EventReload) {
		if r, ok := evt.Data.(ecs.ReloadEvent); ok {
			out = append(out, r)
		}
	}
	return out
}

func TestReloadSystem(t *testing.T) {
	faster := CharacterPrefab{
		Config: character.DefaultConfig(),
		Sensor: component.ContactSensor{Width: 0.6, Height: 0.2, BodyWidth: 0.8},
	}
	faster.Config.MaxWalkSpeed = 9
	loadFaster := func() (CharacterPrefab, error) { return faster, nil }

	cases := []struct {
		name        string
		sends       []prefabs.Change
		load        PrefabLoader
		wantReplace bool
	}{
		{"no_change", nil, loadFaster, false},
		{"coalesces", []prefabs.Change{
			{Path: "prefabs/character.yaml", Kind: prefabs.ChangeSpec},
			{Path: "prefabs/scripts/ease.tengo", Kind: prefabs.ChangeScript},
		}, loadFaster, true},
		{"load_error", []prefabs.Change{{Path: "prefabs/character.yaml", Kind: prefabs.ChangeSpec}},
			func() (CharacterPrefab, error) { return CharacterPrefab{}, errors.New("boom") }, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e, comp := addPlayer(t, w, character.Vec2{X: 4, Y: 1})
			comp.Sim.SetDebug(true)
			before := comp.Sim

			changes := make(chan prefabs.Change, len(c.sends)+1)
			for _, s := range c.sends {
				changes <- s
			}
			sys := NewReloadSystem(changes, c.load, WorldPlatforms{World: w})
			sys.Update(w)
			reloads := reloadEvents(w)
			sensor, _ := ecs.Get(w, e, component.ContactSensorComponent)

			if !c.wantReplace {
				if comp.Sim != before || len(reloads) != 0 {
					t.Fatalf("character replaced unexpectedly")
				}
				if sensor != (component.ContactSensor{BodyWidth: 1}) {
					t.Fatalf("sensor changed without a reload: %+v", sensor)
				}
				return
			}
			if comp.Sim == before {
				t.Fatalf("character not rebuilt")
			}
			if len(reloads) != 1 || reloads[0].Entity != e || reloads[0].Source != "character.yaml" {
				t.Fatalf("reload events = %+v", reloads)
			}
			if comp.Sim.Config().MaxWalkSpeed != 9 {
				t.Fatalf("new config not applied")
			}
			if sensor != faster.Sensor {
				t.Fatalf("sensor = %+v, want %+v", sensor, faster.Sensor)
			}
			if comp.Sim.Position() != before.Position() || !comp.Sim.Debug() {
				t.Fatalf("rebuild lost position or debug flag")
			}
			if len(changes) != 0 {
				t.Fatalf("changes not drained")
			}
		})
	}

	t.Run("closed_channel", func(t *testing.T) {
		w := ecs.NewWorld()
		changes := make(chan prefabs.Change)
		close(changes)
		sys := NewReloadSystem(changes, loadFaster, nil)
		sys.Update(w)
		sys.Update(w)
	})
}

func TestReloadKeepsCharacterStanding(t *testing.T) {
	w := ecs.NewWorld()
	addPlatform(t, w, floor)
	e, comp := addPlayer(t, w, character.Vec2{X: 0, Y: 0.5})

	wide := CharacterPrefab{
		Config: character.DefaultConfig(),
		Sensor: component.ContactSensor{Width: 2, BodyWidth: 1},
	}
	changes := make(chan prefabs.Change, 1)
	contacts := NewContactSystem(testDt)
	w.AddSystem(ecs.PhaseConfig, NewReloadSystem(changes, func() (CharacterPrefab, error) { return wide, nil }, WorldPlatforms{World: w}))
	w.AddSystem(ecs.PhaseContact, contacts)
	w.AddSystem(ecs.PhaseSimulate, NewCharacterSystem(testDt))

	for i := 0; i < 30; i++ {
		w.Update()
	}
	before := comp.Sim

	changes <- prefabs.Change{Path: "character.yaml", Kind: prefabs.ChangeSpec}
	w.Update()
	if comp.Sim == before {
		t.Fatalf("character not rebuilt")
	}
	if !comp.Sim.Grounded() || comp.Sim.Position().Y != 0.5 {
		t.Fatalf("rebuilt character lost the floor: grounded=%v y=%v", comp.Sim.Grounded(), comp.Sim.Position().Y)
	}
	if info := contacts.feet[e]; info == nil || info.width != 2 {
		t.Fatalf("feet sensor kept its old size: %+v", info)
	}
}
