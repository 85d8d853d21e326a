package curve

import "github.com/aidendeom/platformer/common"

// DefaultLUTSize is the resolution used when sampling scripted curves.
const DefaultLUTSize = 256

// LUT is a curve pre-sampled at evenly spaced ratios over [0,1].
// Evaluate interpolates linearly between neighbouring samples and
// saturates outside [0,1].
type LUT struct {
	samples []float64
}

// Sample evaluates c at n evenly spaced points including both ends.
func Sample(c Curve, n int) *LUT {
	if n < 2 {
		n = 2
	}
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = c.Evaluate(float64(i) / float64(n-1))
	}
	return &LUT{samples: samples}
}

// Len returns the number of samples.
func (l *LUT) Len() int {
	return len(l.samples)
}

func (l *LUT) Evaluate(t float64) float64 {
	t = common.Clamp01(t)
	last := len(l.samples) - 1
	pos := t * float64(last)
	idx := int(pos)
	if idx >= last {
		return l.samples[last]
	}
	frac := pos - float64(idx)
	return common.Lerp(l.samples[idx], l.samples[idx+1], frac)
}
