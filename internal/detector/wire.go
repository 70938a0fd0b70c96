package detector

import (
	"encoding/json"
	"fmt"
)

// Landmark producers (the MediaPipe service and WebSocket clients) send one
// JSON object per tracking cycle:
//
//	{"hands":[{"points":[{"x":0.5,"y":0.5,"z":0.0}, ...],"handedness":"Right","score":0.9}]}

type jsonFrame struct {
	Hands []jsonHand `json:"hands"`
}

type jsonHand struct {
	Points     []*jsonPoint `json:"points"`
	Handedness string       `json:"handedness"`
	Score      float64      `json:"score"`
}

// jsonPoint keeps coordinates optional so that a point with a missing field
// can be told apart from a point at the origin.
type jsonPoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

func (p *jsonPoint) toLandmark() Landmark {
	if p == nil || p.X == nil || p.Y == nil || p.Z == nil {
		return Missing
	}
	return Landmark{X: *p.X, Y: *p.Y, Z: *p.Z}
}

func (h jsonHand) toHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
		Points:     make([]Landmark, len(h.Points)),
	}
	for i, p := range h.Points {
		lm.Points[i] = p.toLandmark()
	}
	return lm
}

// DecodeFrame parses one wire frame. Points that are null or lack a
// coordinate become Missing; validation happens later in Sample.
func DecodeFrame(data []byte) ([]HandLandmarks, error) {
	var frame jsonFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("parse frame: %w", err)
	}

	result := make([]HandLandmarks, len(frame.Hands))
	for i, h := range frame.Hands {
		result[i] = h.toHandLandmarks()
	}
	return result, nil
}

// EncodeFrame is the inverse of DecodeFrame for well-formed hands.
func EncodeFrame(hands []HandLandmarks) ([]byte, error) {
	if hands == nil {
		hands = []HandLandmarks{}
	}
	return json.Marshal(map[string]any{"hands": hands})
}
