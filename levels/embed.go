package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aidendeom/platformer/character"
)

//go:embed *.json
var LevelsFS embed.FS

// Default is the level loaded when no -level flag is given.
const Default = "default.json"

var (
	ErrDuplicatePlatform = errors.New("levels: duplicate platform id")
	ErrPlatformSize      = errors.New("levels: platform size must be > 0")
	ErrNoPlatforms       = errors.New("levels: level has no platforms")
)

// Level places static platforms and the character spawn point.
// Coordinates are world units, y up.
type Level struct {
	Name      string          `json:"name"`
	Character string          `json:"character,omitempty"`
	Spawn     character.Vec2  `json:"spawn"`
	Platforms []PlatformEntry `json:"platforms"`
}

// PlatformEntry is an axis-aligned box centred on X, Y.
type PlatformEntry struct {
	ID     character.PlatformID `json:"id"`
	X      float64              `json:"x"`
	Y      float64              `json:"y"`
	Width  float64              `json:"width"`
	Height float64              `json:"height"`
}

func (p PlatformEntry) Top() float64 {
	return p.Y + p.Height/2
}

// Validate checks that platform ids are unique and boxes are non-degenerate.
func (l *Level) Validate() error {
	if len(l.Platforms) == 0 {
		return ErrNoPlatforms
	}
	seen := make(map[character.PlatformID]struct{}, len(l.Platforms))
	for _, p := range l.Platforms {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicatePlatform, p.ID)
		}
		seen[p.ID] = struct{}{}
		if !(p.Width > 0) || !(p.Height > 0) {
			return fmt.Errorf("%w: platform %d is %vx%v", ErrPlatformSize, p.ID, p.Width, p.Height)
		}
	}
	return nil
}

// Tops indexes platform top heights by id.
func (l *Level) Tops() character.PlatformTops {
	tops := make(character.PlatformTops, len(l.Platforms))
	for _, p := range l.Platforms {
		tops[p.ID] = p.Top()
	}
	return tops
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parse(data)
}

// Load reads a level from disk if path exists, otherwise from the embedded set.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadLevelFromFS(path)
	}
	return parse(data)
}

func parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}
