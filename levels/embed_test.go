package levels

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultLevel(t *testing.T) {
	lvl, err := LoadLevelFromFS(Default)
	if err != nil {
		t.Fatalf("LoadLevelFromFS: %v", err)
	}
	if lvl.Character != "character.yaml" {
		t.Fatalf("character = %q", lvl.Character)
	}
	tops := lvl.Tops()
	if len(tops) != len(lvl.Platforms) {
		t.Fatalf("tops = %d entries, want %d", len(tops), len(lvl.Platforms))
	}
	if tops[1] != 0 {
		t.Fatalf("floor top = %v, want 0", tops[1])
	}
	// overlapping platforms 2 and 3 share the same top
	if tops[2] != tops[3] {
		t.Fatalf("tops[2]=%v tops[3]=%v", tops[2], tops[3])
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	data := []byte(`{"name":"custom","spawn":{"x":1,"y":2},"platforms":[{"id":9,"x":0,"y":0,"width":2,"height":2}]}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	lvl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lvl.Name != "custom" || lvl.Spawn.X != 1 || lvl.Spawn.Y != 2 {
		t.Fatalf("unexpected level %+v", lvl)
	}

	if _, err := Load(Default); err != nil {
		t.Fatalf("Load embedded fallback: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		lvl     Level
		wantErr error
	}{
		{"empty", Level{}, ErrNoPlatforms},
		{"duplicate", Level{Platforms: []PlatformEntry{{ID: 1, Width: 1, Height: 1}, {ID: 1, Width: 1, Height: 1}}}, ErrDuplicatePlatform},
		{"flat", Level{Platforms: []PlatformEntry{{ID: 1, Width: 1}}}, ErrPlatformSize},
		{"ok", Level{Platforms: []PlatformEntry{{ID: 1, Width: 1, Height: 1}, {ID: 2, Width: 3, Height: 1}}}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.lvl.Validate()
			if c.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("err = %v, want %v", err, c.wantErr)
			}
		})
	}
}
