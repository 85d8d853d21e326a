package curve

import "sort"

// Keyframe is one authored control point. Tangents are slopes in value per unit time.
type Keyframe struct {
	Time       float64 `yaml:"time" toml:"time"`
	Value      float64 `yaml:"value" toml:"value"`
	InTangent  float64 `yaml:"in_tangent" toml:"in_tangent"`
	OutTangent float64 `yaml:"out_tangent" toml:"out_tangent"`
}

// Hermite is a piecewise cubic Hermite spline through keyframes.
// Outside the key range it holds the first or last value.
type Hermite struct {
	keys []Keyframe
}

func NewHermite(keys ...Keyframe) (*Hermite, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	for i := 1; i < len(keys); i++ {
		if keys[i].Time <= keys[i-1].Time {
			return nil, ErrUnsortedKeys
		}
	}
	copied := append([]Keyframe(nil), keys...)
	return &Hermite{keys: copied}, nil
}

// Keys returns a copy of the keyframes.
func (h *Hermite) Keys() []Keyframe {
	return append([]Keyframe(nil), h.keys...)
}

func (h *Hermite) Evaluate(t float64) float64 {
	first, last := h.keys[0], h.keys[len(h.keys)-1]
	if t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	// first key with Time > t; t is strictly inside the range so 1 <= i < len
	i := sort.Search(len(h.keys), func(i int) bool { return h.keys[i].Time > t })
	k0, k1 := h.keys[i-1], h.keys[i]

	dt := k1.Time - k0.Time
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}

// EaseInOutKeys mirrors the default authored start curve: flat tangents at both ends.
func EaseInOutKeys() []Keyframe {
	return []Keyframe{
		{Time: 0, Value: 0},
		{Time: 1, Value: 1},
	}
}
