package prefabs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aidendeom/platformer/character"
	"github.com/aidendeom/platformer/curve"
)

var (
	ErrCurveSource   = errors.New("prefabs: curve needs exactly one of preset, keys or script")
	ErrUnknownPreset = errors.New("prefabs: unknown curve preset")
	ErrBodySize      = errors.New("prefabs: body size must be > 0")
)

// LoadSpec decodes a prefab into T. Files ending in .toml are decoded as TOML,
// everything else as YAML.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := decode(filename, data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func decode(filename string, data []byte, v any) error {
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		return toml.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// CurveSpec selects a curve from a named preset, authored keyframes or a
// tengo script under prefabs/scripts.
type CurveSpec struct {
	Preset  string           `yaml:"preset" toml:"preset"`
	Keys    []curve.Keyframe `yaml:"keys" toml:"keys"`
	Script  string           `yaml:"script" toml:"script"`
	Samples int              `yaml:"samples" toml:"samples"`
}

var presets = map[string]func() curve.Curve{
	"linear":         curve.Linear,
	"inverse_linear": curve.InverseLinear,
	"ease_in_out":    curve.EaseInOut,
	"ease_out_in":    func() curve.Curve { return curve.Reverse(curve.EaseInOut()) },
	"one":            func() curve.Curve { return curve.Constant(1) },
}

func (s CurveSpec) Build() (curve.Curve, error) {
	sources := 0
	for _, set := range []bool{s.Preset != "", len(s.Keys) > 0, s.Script != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, ErrCurveSource
	}

	switch {
	case s.Preset != "":
		mk, ok := presets[strings.ToLower(s.Preset)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, s.Preset)
		}
		return mk(), nil
	case len(s.Keys) > 0:
		h, err := curve.NewHermite(s.Keys...)
		if err != nil {
			return nil, fmt.Errorf("prefabs: keys: %w", err)
		}
		return h, nil
	default:
		src, err := LoadScript(s.Script)
		if err != nil {
			return nil, fmt.Errorf("prefabs: load script %s: %w", s.Script, err)
		}
		samples := s.Samples
		if samples <= 0 {
			samples = curve.DefaultLUTSize
		}
		lut, err := curve.FromScript(src, samples)
		if err != nil {
			return nil, fmt.Errorf("prefabs: script %s: %w", s.Script, err)
		}
		return lut, nil
	}
}

type RampSpec struct {
	Duration float64   `yaml:"duration" toml:"duration"`
	Curve    CurveSpec `yaml:"curve" toml:"curve"`
}

type SensorSpec struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// CharacterSpec is the authored description of a playable character.
// Speeds, jump and gravity that are omitted take the defaults of
// character.DefaultConfig; an explicit 0 is kept, so a character without
// gravity or jump can be authored. Ramp durations must always be given.
type CharacterSpec struct {
	Name         string     `yaml:"name" toml:"name"`
	MaxWalkSpeed *float64   `yaml:"max_walk_speed" toml:"max_walk_speed"`
	MaxRunSpeed  *float64   `yaml:"max_run_speed" toml:"max_run_speed"`
	JumpImpulse  *float64   `yaml:"jump_impulse" toml:"jump_impulse"`
	Gravity      *float64   `yaml:"gravity" toml:"gravity"`
	Width        float64    `yaml:"width" toml:"width"`
	Height       float64    `yaml:"height" toml:"height"`
	StartMove    RampSpec   `yaml:"start_move" toml:"start_move"`
	StopMove     RampSpec   `yaml:"stop_move" toml:"stop_move"`
	Sensor       SensorSpec `yaml:"sensor" toml:"sensor"`
}

// Config builds and validates the simulation config described by the spec.
func (s *CharacterSpec) Config() (character.Config, error) {
	if !(s.Width > 0) || !(s.Height > 0) {
		return character.Config{}, fmt.Errorf("%w: %s is %vx%v", ErrBodySize, s.Name, s.Width, s.Height)
	}

	cfg := character.DefaultConfig()
	cfg.MaxWalkSpeed = orDefault(s.MaxWalkSpeed, cfg.MaxWalkSpeed)
	cfg.MaxRunSpeed = orDefault(s.MaxRunSpeed, cfg.MaxRunSpeed)
	cfg.JumpImpulse = orDefault(s.JumpImpulse, cfg.JumpImpulse)
	cfg.Gravity = orDefault(s.Gravity, cfg.Gravity)
	cfg.HalfHeight = s.Height / 2
	cfg.StartDuration = s.StartMove.Duration
	cfg.StopDuration = s.StopMove.Duration

	start, err := s.StartMove.Curve.Build()
	if err != nil {
		return character.Config{}, fmt.Errorf("prefabs: %s start_move: %w", s.Name, err)
	}
	stop, err := s.StopMove.Curve.Build()
	if err != nil {
		return character.Config{}, fmt.Errorf("prefabs: %s stop_move: %w", s.Name, err)
	}
	cfg.StartCurve = start
	cfg.StopCurve = stop

	if err := cfg.Validate(); err != nil {
		return character.Config{}, fmt.Errorf("prefabs: %s: %w", s.Name, err)
	}
	return cfg, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func LoadCharacterSpec(filename string) (*CharacterSpec, error) {
	spec, err := LoadSpec[CharacterSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// LoadCharacterConfig loads a character prefab and builds its config.
func LoadCharacterConfig(filename string) (character.Config, error) {
	spec, err := LoadCharacterSpec(filename)
	if err != nil {
		return character.Config{}, err
	}
	return spec.Config()
}
