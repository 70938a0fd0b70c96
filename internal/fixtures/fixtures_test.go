package fixtures

import (
	"testing"

	"github.com/ayusman/airsketch/internal/detector"
)

func TestLoadHands(t *testing.T) {
	tests := []struct {
		name      string
		wantHands int
		present   bool
	}{
		{name: "pinch", wantHands: 1, present: true},
		{name: "open", wantHands: 1, present: true},
		{name: "empty", wantHands: 0, present: false},
		{name: "two_hands", wantHands: 2, present: true},
		{name: "missing_tips", wantHands: 1, present: false},
		{name: "truncated", wantHands: 1, present: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := LoadHands(tt.name)
			if err != nil {
				t.Fatalf("LoadHands() error = %v", err)
			}
			if len(hands) != tt.wantHands {
				t.Fatalf("len(hands) = %d, want %d", len(hands), tt.wantHands)
			}
			if got := detector.First(hands).Present(); got != tt.present {
				t.Errorf("First().Present() = %v, want %v", got, tt.present)
			}
		})
	}
}

func TestLoadHands_PinchGeometry(t *testing.T) {
	pinch, err := LoadHands("pinch")
	if err != nil {
		t.Fatal(err)
	}
	open, err := LoadHands("open")
	if err != nil {
		t.Fatal(err)
	}

	if d, ref, _ := detector.PinchLengths(detector.First(pinch)); d >= 0.8*ref {
		t.Errorf("pinch distance %f, want < %f", d, 0.8*ref)
	}
	if d, ref, _ := detector.PinchLengths(detector.First(open)); d < 0.8*ref {
		t.Errorf("open distance %f, want >= %f", d, 0.8*ref)
	}
}

func TestLoadHands_Unknown(t *testing.T) {
	if _, err := LoadHands("fist"); err == nil {
		t.Error("expected error for unknown fixture")
	}
}

func TestLoadScenario(t *testing.T) {
	frames, err := LoadScenario("stroke")
	if err != nil {
		t.Fatalf("LoadScenario() error = %v", err)
	}
	if len(frames) != 7 {
		t.Fatalf("len(frames) = %d, want 7", len(frames))
	}
	if len(frames[6]) != 0 {
		t.Errorf("last frame should have no hands, got %d", len(frames[6]))
	}

	raw, err := Scenario("dropout")
	if err != nil {
		t.Fatalf("Scenario() error = %v", err)
	}
	if len(raw) != 5 {
		t.Errorf("len(raw) = %d, want 5", len(raw))
	}
}
