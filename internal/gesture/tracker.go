package gesture

import (
	"fmt"

	"github.com/ayusman/airsketch/internal/canvas"
)

// PenState is the stroke tracker state.
type PenState int

const (
	PenUp PenState = iota
	PenDown
)

func (s PenState) String() string {
	if s == PenDown {
		return "pen_down"
	}
	return "pen_up"
}

// MarshalText implements encoding.TextMarshaler.
func (s PenState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *PenState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pen_up":
		*s = PenUp
	case "pen_down":
		*s = PenDown
	default:
		return fmt.Errorf("unknown pen state %q", text)
	}
	return nil
}

// Indicator describes the fingertip marker after a frame.
type Indicator struct {
	Visible  bool         `json:"visible"`
	At       canvas.Point `json:"at"`
	Pinching bool         `json:"pinching"`
}

// Effects is everything one frame asks the canvas to do. At most one
// segment is emitted per frame.
type Effects struct {
	Intent    Intent          `json:"intent"`
	Segment   *canvas.Segment `json:"segment,omitempty"`
	Indicator Indicator       `json:"indicator"`
	State     PenState        `json:"pen"`
}

// Tracker turns a sequence of classifications into connected ink segments.
// The zero value starts in PenUp.
type Tracker struct {
	state PenState
	last  canvas.Point
}

// NewTracker creates a tracker in PenUp.
func NewTracker() *Tracker {
	return &Tracker{}
}

// State returns the current pen state.
func (t *Tracker) State() PenState {
	return t.state
}

// Last returns the last pen-down point and whether the pen is down.
func (t *Tracker) Last() (canvas.Point, bool) {
	return t.last, t.state == PenDown
}

// Reset lifts the pen.
func (t *Tracker) Reset() {
	t.state = PenUp
	t.last = canvas.Point{}
}

// Step advances the tracker by one frame. The first pinching frame after
// PenUp only records the start point; each following pinching frame emits a
// segment from the previous point. Any other intent lifts the pen.
func (t *Tracker) Step(c Classification) Effects {
	fx := Effects{Intent: c.Intent}
	if c.HasTip {
		fx.Indicator = Indicator{
			Visible:  true,
			At:       c.Tip,
			Pinching: c.Intent == Pinching,
		}
	}

	if c.Intent != Pinching || !c.HasTip {
		t.Reset()
		fx.State = t.state
		return fx
	}

	if t.state == PenDown {
		fx.Segment = &canvas.Segment{From: t.last, To: c.Tip}
	}
	t.state = PenDown
	t.last = c.Tip
	fx.State = t.state
	return fx
}
