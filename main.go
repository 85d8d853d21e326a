package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/aidendeom/platformer/levels"
)

func main() {
	debug := flag.Bool("debug", false, "log movement state changes and draw the contact sensor")
	levelName := flag.String("level", levels.Default, "level file on disk or in levels/")
	characterSpec := flag.String("character", "", "character prefab in prefabs/ (default: the level's)")
	telemetryAddr := flag.String("telemetry", "", "serve per-tick snapshots over websocket at this address, e.g. :8090")
	watch := flag.Bool("watch", true, "hot reload prefabs/ on change")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platformer")
	ebiten.SetTPS(tickRate)

	game, err := NewGame(Options{
		LevelPath:     *levelName,
		CharacterSpec: *characterSpec,
		TelemetryAddr: *telemetryAddr,
		Debug:         *debug,
		Watch:         *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
