package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/aidendeom/platformer/character"
	"github.com/aidendeom/platformer/ecs"
	"github.com/aidendeom/platformer/ecs/component"
	"github.com/aidendeom/platformer/ecs/system"
	"github.com/aidendeom/platformer/levels"
	"github.com/aidendeom/platformer/prefabs"
	"github.com/aidendeom/platformer/telemetry"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	tickRate = 60
	tickDt   = 1.0 / tickRate

	defaultCharacterSpec = "character.yaml"
	// publish every few ticks; clients only plot it
	telemetryInterval = 2
)

type Options struct {
	LevelPath     string
	CharacterSpec string
	TelemetryAddr string
	Debug         bool
	Watch         bool
}

type Game struct {
	frames int
	debug  bool

	world    *ecs.World
	level    *levels.Level
	player   ecs.Entity
	contacts *system.ContactSystem

	watcher *prefabs.Watcher
	hub     *telemetry.Hub
	cancel  context.CancelFunc
}

func NewGame(opts Options) (*Game, error) {
	lvl, err := levels.Load(opts.LevelPath)
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", opts.LevelPath, err)
	}

	specName := opts.CharacterSpec
	if specName == "" {
		specName = lvl.Character
	}
	if specName == "" {
		specName = defaultCharacterSpec
	}
	prefab, err := loadPrefab(specName)
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:    opts.Debug,
		world:    ecs.NewWorld(),
		level:    lvl,
		contacts: system.NewContactSystem(tickDt),
	}

	for _, p := range lvl.Platforms {
		e := g.world.CreateEntity()
		if err := ecs.Add(g.world, e, component.PlatformComponent, component.Platform{
			ID:     p.ID,
			X:      p.X,
			Y:      p.Y,
			Width:  p.Width,
			Height: p.Height,
		}); err != nil {
			return nil, fmt.Errorf("add platform %d: %w", p.ID, err)
		}
	}

	platforms := system.WorldPlatforms{World: g.world}
	sim, err := character.New(prefab.Config, platforms, lvl.Spawn)
	if err != nil {
		return nil, err
	}
	sim.SetDebug(opts.Debug)

	g.player = g.world.CreateEntity()
	for _, err := range []error{
		ecs.Add(g.world, g.player, component.CharacterComponent, &component.Character{Sim: sim, Spawn: lvl.Spawn}),
		ecs.Add(g.world, g.player, component.InputComponent, component.Input{}),
		ecs.Add(g.world, g.player, component.PlayerTagComponent, component.PlayerTag{}),
		ecs.Add(g.world, g.player, component.ContactSensorComponent, prefab.Sensor),
	} {
		if err != nil {
			return nil, fmt.Errorf("add player: %w", err)
		}
	}

	g.world.AddSystem(ecs.PhaseInput, system.NewInputSystem(pollInput))
	if opts.Watch {
		if w := g.startWatcher(); w != nil {
			load := func() (system.CharacterPrefab, error) { return loadPrefab(specName) }
			g.world.AddSystem(ecs.PhaseConfig, system.NewReloadSystem(w.Changes, load, platforms))
		}
	}
	g.world.AddSystem(ecs.PhaseContact, g.contacts)
	g.world.AddSystem(ecs.PhaseSimulate, system.NewCharacterSystem(tickDt))
	if opts.TelemetryAddr != "" {
		g.world.AddSystem(ecs.PhaseOutput, system.NewTelemetrySystem(g.startTelemetry(opts.TelemetryAddr), telemetryInterval))
	}

	log.Printf("game: level %q, character %q, spawn (%.2f, %.2f)", lvl.Name, specName, lvl.Spawn.X, lvl.Spawn.Y)
	return g, nil
}

// loadPrefab reads a character spec and derives its feet sensor.
func loadPrefab(specName string) (system.CharacterPrefab, error) {
	spec, err := prefabs.LoadCharacterSpec(specName)
	if err != nil {
		return system.CharacterPrefab{}, err
	}
	cfg, err := spec.Config()
	if err != nil {
		return system.CharacterPrefab{}, err
	}
	return system.CharacterPrefab{
		Config: cfg,
		Sensor: component.ContactSensor{
			Width:     spec.Sensor.Width,
			Height:    spec.Sensor.Height,
			BodyWidth: spec.Width,
		},
	}, nil
}

func (g *Game) startWatcher() *prefabs.Watcher {
	if _, err := os.Stat(prefabs.Dir); err != nil {
		log.Printf("prefabs: no %s directory, hot reload disabled", prefabs.Dir)
		return nil
	}
	w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
	if err != nil {
		log.Printf("prefabs: watcher disabled: %v", err)
		return nil
	}
	go func() {
		for err := range w.Errors {
			log.Printf("prefabs: watch: %v", err)
		}
	}()
	g.watcher = w
	return w
}

func (g *Game) startTelemetry(addr string) *telemetry.Hub {
	ctx, cancel := context.WithCancel(context.Background())
	hub := telemetry.NewHub(nil)
	go func() {
		if err := telemetry.ListenAndServe(ctx, addr, hub); err != nil {
			log.Printf("telemetry: %v", err)
		}
	}()
	log.Printf("telemetry: streaming on ws://%s/telemetry", addr)
	g.hub = hub
	g.cancel = cancel
	return hub
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.cancel != nil {
		g.cancel()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.world.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(screen, g.world, g.debug)
	g.drawOverlay(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
