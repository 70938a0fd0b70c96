package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
	}{
		{name: "default threshold", threshold: 1.0},
		{name: "high threshold", threshold: 5.0},
		{name: "low threshold", threshold: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.threshold)
			defer md.Close()

			if got := md.Threshold(); got != tt.threshold {
				t.Errorf("Threshold() = %f, want %f", got, tt.threshold)
			}
			if md.initialized {
				t.Error("motion detector should not be initialized initially")
			}
		})
	}
}

func TestMotionDetector_Detect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	black := gocv.NewMatWithSize(750, 1000, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(750, 1000, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	tests := []struct {
		name      string
		threshold float64
		frames    []*gocv.Mat
		want      bool
	}{
		{name: "identical frames", threshold: 1.0, frames: []*gocv.Mat{&black, &black}, want: false},
		{name: "black to white", threshold: 1.0, frames: []*gocv.Mat{&black, &white}, want: true},
		{name: "single frame is the baseline", threshold: 1.0, frames: []*gocv.Mat{&white}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.threshold)
			defer md.Close()

			var got Motion
			for _, f := range tt.frames {
				got = md.Detect(f)
			}
			if got.Detected != tt.want {
				t.Errorf("Detect().Detected = %v, want %v (percent %f)", got.Detected, tt.want, got.Percent)
			}
		})
	}
}

func TestMotionDetector_BlackToWhitePercent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&black)
	m := md.Detect(&white)
	if m.Percent < 50.0 {
		t.Errorf("Percent = %f, expected > 50%% for black to white transition", m.Percent)
	}
}

func TestMotionDetector_SizeChangeRestartsBaseline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	large := gocv.NewMatWithSize(750, 1000, gocv.MatTypeCV8UC3)
	defer large.Close()
	small := gocv.NewMatWithSize(600, 800, gocv.MatTypeCV8UC3)
	defer small.Close()
	small.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&large)
	if m := md.Detect(&small); m.Detected {
		t.Errorf("frame after a size change should only set the baseline, got %+v", m)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	if !md.initialized {
		t.Error("detector should be initialized after first Detect")
	}

	md.Reset()

	if md.initialized {
		t.Error("detector should not be initialized after Reset")
	}
	if !md.prevGray.Empty() {
		t.Error("prevGray should be empty after Reset")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	tests := []struct {
		name string
		set  float64
		want float64
	}{
		{name: "raise", set: 5.0, want: 5.0},
		{name: "lower", set: 0.5, want: 0.5},
		{name: "zero ignored", set: 0, want: 1.0},
		{name: "negative ignored", set: -1.0, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(1.0)
			defer md.Close()

			md.SetThreshold(tt.set)
			if got := md.Threshold(); got != tt.want {
				t.Errorf("Threshold() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMotionDetector_NilAndEmpty(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if m := md.Detect(nil); m.Detected || m.Percent != 0 {
		t.Errorf("Detect(nil) = %+v, want zero Motion", m)
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if m := md.Detect(&empty); m.Detected {
		t.Errorf("Detect(empty) = %+v, want zero Motion", m)
	}
}

func TestMotionDetector_Close_Multiple(t *testing.T) {
	md := NewMotionDetector(1.0)

	// Close multiple times should not panic
	md.Close()
	md.Close()
}
