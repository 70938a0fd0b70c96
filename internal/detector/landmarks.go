// Package detector provides hand landmark types, landmark geometry and the
// detector implementations that feed the drawing pipeline.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Landmark is one tracked hand point in detector-normalized coordinates.
// X and Y are in [0,1] relative to the input frame; Z is a relative depth.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Missing is the landmark value used for a point the detector did not supply.
var Missing = Landmark{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}

// Valid reports whether every coordinate of l is a finite number.
func (l Landmark) Valid() bool {
	return isFinite(l.X) && isFinite(l.Y) && isFinite(l.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// HandLandmarks is one hand as reported by a detector. Points may be partial
// or contain Missing entries; it becomes usable only through Sample.
type HandLandmarks struct {
	Points     []Landmark `json:"points"`
	Handedness string     `json:"handedness"` // "Left" or "Right"
	Score      float64    `json:"score"`
}

// Sample validates the raw detector output into a HandSample.
// A nil receiver yields NoHand.
func (h *HandLandmarks) Sample() HandSample {
	if h == nil {
		return NoHand()
	}
	s, _ := NewHandSample(h.Points)
	return s
}

// Distance returns the Euclidean distance between two landmarks in
// normalized 3-D space. If either point is invalid it returns 0, which
// callers must read as "no information" rather than coincident points.
func Distance(a, b Landmark) float64 {
	if !a.Valid() || !b.Valid() {
		return 0
	}
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PinchLengths returns the pinch distance and the reference finger length
// (the shorter of thumb tip to thumb IP and index tip to index PIP). ok is
// false for an absent sample. The two are compared rather than divided, so a
// zero reference never pinches.
func PinchLengths(s HandSample) (pinch, reference float64, ok bool) {
	if !s.Present() {
		return 0, 0, false
	}
	thumbTip := s.Point(ThumbTip)
	indexTip := s.Point(IndexTip)

	pinch = Distance(thumbTip, indexTip)
	thumbLen := Distance(thumbTip, s.Point(ThumbIP))
	indexLen := Distance(indexTip, s.Point(IndexPIP))

	return pinch, min(thumbLen, indexLen), true
}
