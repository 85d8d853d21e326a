package character

import (
	"github.com/aidendeom/platformer/common"
	"github.com/aidendeom/platformer/curve"
)

// rampEpsilon absorbs float drift from summing tick durations so a ramp held
// for exactly its duration completes.
const rampEpsilon = 1e-9

// RampDirection selects which way a ramp moves progress.
type RampDirection int

const (
	// RampForward accelerates: progress runs 0 -> 1.
	RampForward RampDirection = 1
	// RampBackward decelerates: progress runs 1 -> 0.
	RampBackward RampDirection = -1
)

// Ramp tracks a single progress value in [0,1] shared by the accelerate and
// decelerate phases; the decelerate phase sees it as 1-progress. Begin seeds
// an elapsed-time offset that would have produced the current progress under
// the new phase's duration, so switching phases mid-ramp continues from where
// the previous phase left off.
type Ramp struct {
	progress float64

	dir      RampDirection
	start    float64
	offset   float64
	duration float64
	curve    curve.Curve
}

// Progress returns the accelerate-phase view of the ramp.
func (r *Ramp) Progress() float64 {
	return r.progress
}

// Reset sets progress directly, e.g. to 0 when at rest or 1 at full speed.
func (r *Ramp) Reset(progress float64) {
	r.progress = common.Clamp01(progress)
}

// Begin starts a phase at time now.
func (r *Ramp) Begin(now float64, dir RampDirection, duration float64, c curve.Curve) {
	r.dir = dir
	r.start = now
	r.duration = duration
	r.curve = c
	if dir == RampForward {
		r.offset = r.progress * duration
	} else {
		r.offset = (1 - r.progress) * duration
	}
}

// Sample advances progress to time now and returns the clamped curve value
// and whether the phase has finished.
func (r *Ramp) Sample(now float64) (float64, bool) {
	elapsed := now - r.start + r.offset
	ratio := common.Clamp01(elapsed / r.duration)
	if ratio > 1-rampEpsilon {
		ratio = 1
	}
	if r.dir == RampForward {
		r.progress = ratio
	} else {
		r.progress = 1 - ratio
	}
	return common.Clamp01(r.curve.Evaluate(ratio)), ratio == 1
}
