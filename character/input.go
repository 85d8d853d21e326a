package character

// Intent is the directional input for one tick.
type Intent int

const (
	IntentLeft  Intent = -1
	IntentNone  Intent = 0
	IntentRight Intent = 1
)

// Sign maps the intent to -1, 0 or +1.
func (i Intent) Sign() float64 {
	return float64(i)
}

func (i Intent) String() string {
	switch i {
	case IntentLeft:
		return "left"
	case IntentRight:
		return "right"
	}
	return "none"
}

// Input is the polled controller state for one tick. Jump is edge triggered:
// true only on the tick the button went down. Run is level triggered.
type Input struct {
	MoveLeft  bool
	MoveRight bool
	Jump      bool
	Run       bool
}

// Intent derives the direction. Left wins when both directions are held.
func (in Input) Intent() Intent {
	if in.MoveLeft {
		return IntentLeft
	}
	if in.MoveRight {
		return IntentRight
	}
	return IntentNone
}
