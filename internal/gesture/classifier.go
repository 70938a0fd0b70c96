// Package gesture turns hand samples into drawing intent and pen strokes.
package gesture

import (
	"fmt"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/detector"
)

// PinchSensitivity scales the shorter finger segment into the pinch
// threshold. Larger values make the pinch easier to trigger.
const PinchSensitivity = 0.8

// Intent is the per-frame drawing signal derived from one hand sample.
type Intent int

const (
	// NoIntent means no usable hand was seen this frame.
	NoIntent Intent = iota
	// NotPinching means a hand is visible with thumb and index apart.
	NotPinching
	// Pinching means thumb and index tips are together.
	Pinching
)

func (i Intent) String() string {
	switch i {
	case NotPinching:
		return "not_pinching"
	case Pinching:
		return "pinching"
	default:
		return "no_intent"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Intent) UnmarshalText(text []byte) error {
	switch string(text) {
	case "no_intent":
		*i = NoIntent
	case "not_pinching":
		*i = NotPinching
	case "pinching":
		*i = Pinching
	default:
		return fmt.Errorf("unknown intent %q", text)
	}
	return nil
}

// Classification is the classifier output for one frame.
type Classification struct {
	Intent Intent
	Tip    canvas.Point // index fingertip in canvas pixels, valid when HasTip
	HasTip bool
}

// Classify decides whether the sample is pinching. The threshold is relative
// to the hand's own finger segments, so it holds as the hand moves toward or
// away from the camera. Equality with the threshold is not a pinch.
func Classify(sample detector.HandSample, size canvas.Size) Classification {
	if !sample.Present() {
		return Classification{Intent: NoIntent}
	}

	tip := sample.Point(detector.IndexTip)
	c := Classification{
		Intent: NotPinching,
		Tip:    size.ToPixel(tip.X, tip.Y),
		HasTip: true,
	}

	pinch, reference, _ := detector.PinchLengths(sample)
	if pinch < reference*PinchSensitivity {
		c.Intent = Pinching
	}
	return c
}
