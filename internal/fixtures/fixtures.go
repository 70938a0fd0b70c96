// Package fixtures serves recorded landmark frames for tests.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ayusman/airsketch/internal/detector"
)

//go:embed testdata/landmarks/*.json testdata/scenarios/*.json
var fixturesFS embed.FS

// Frame returns the raw wire frame stored under testdata/landmarks.
func Frame(name string) ([]byte, error) {
	data, err := fixturesFS.ReadFile("testdata/landmarks/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load frame %s: %w", name, err)
	}
	return data, nil
}

// LoadHands decodes a stored frame.
func LoadHands(name string) ([]detector.HandLandmarks, error) {
	data, err := Frame(name)
	if err != nil {
		return nil, err
	}
	hands, err := detector.DecodeFrame(data)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", name, err)
	}
	return hands, nil
}

// Scenario returns the raw wire frames of a recorded sequence, in order.
func Scenario(name string) ([][]byte, error) {
	data, err := fixturesFS.ReadFile("testdata/scenarios/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", name, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", name, err)
	}

	frames := make([][]byte, len(raw))
	for i, r := range raw {
		frames[i] = []byte(r)
	}
	return frames, nil
}

// LoadScenario decodes every frame of a recorded sequence.
func LoadScenario(name string) ([][]detector.HandLandmarks, error) {
	frames, err := Scenario(name)
	if err != nil {
		return nil, err
	}

	out := make([][]detector.HandLandmarks, len(frames))
	for i, f := range frames {
		hands, err := detector.DecodeFrame(f)
		if err != nil {
			return nil, fmt.Errorf("decode scenario %s frame %d: %w", name, i, err)
		}
		out[i] = hands
	}
	return out, nil
}
