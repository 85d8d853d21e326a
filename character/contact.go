package character

import (
	"math"
	"sort"
)

// PlatformID is a stable handle for a platform the character can stand on.
type PlatformID int

// PlatformSource answers top-surface heights for platform handles.
type PlatformSource interface {
	TopHeight(id PlatformID) (float64, bool)
}

// PlatformTops is a PlatformSource backed by a map.
type PlatformTops map[PlatformID]float64

func (p PlatformTops) TopHeight(id PlatformID) (float64, bool) {
	top, ok := p[id]
	return top, ok
}

// ContactTracker is the set of platforms currently supporting the character.
// The character is grounded iff the set is non-empty.
type ContactTracker struct {
	touching map[PlatformID]struct{}
}

// Add records a contact. Adding a present platform is a no-op.
func (c *ContactTracker) Add(id PlatformID) {
	if c.touching == nil {
		c.touching = make(map[PlatformID]struct{})
	}
	c.touching[id] = struct{}{}
}

// Remove drops a contact. Removing an absent platform is a no-op.
func (c *ContactTracker) Remove(id PlatformID) {
	delete(c.touching, id)
}

func (c *ContactTracker) Clear() {
	clear(c.touching)
}

func (c *ContactTracker) Grounded() bool {
	return len(c.touching) > 0
}

func (c *ContactTracker) Len() int {
	return len(c.touching)
}

// Has reports whether id is in the set.
func (c *ContactTracker) Has(id PlatformID) bool {
	_, ok := c.touching[id]
	return ok
}

// IDs returns the touched platforms in ascending order.
func (c *ContactTracker) IDs() []PlatformID {
	ids := make([]PlatformID, 0, len(c.touching))
	for id := range c.touching {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GroundHeight returns the highest top surface among touched platforms.
// Platforms src does not know are skipped; ok is false when none resolve.
func (c *ContactTracker) GroundHeight(src PlatformSource) (float64, bool) {
	if src == nil {
		return 0, false
	}
	highest := math.Inf(-1)
	found := false
	for id := range c.touching {
		top, ok := src.TopHeight(id)
		if !ok {
			continue
		}
		if top > highest {
			highest = top
		}
		found = true
	}
	return highest, found
}
