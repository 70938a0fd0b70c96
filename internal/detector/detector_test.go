package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

// fullHand returns 21 valid points spread along a diagonal.
func fullHand() []Landmark {
	points := make([]Landmark, NumLandmarks)
	for i := range points {
		points[i] = Landmark{X: float64(i) * 0.01, Y: float64(i) * 0.02, Z: 0}
	}
	return points
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Landmark
		want float64
	}{
		{"same point", Landmark{0.5, 0.5, 0}, Landmark{0.5, 0.5, 0}, 0},
		{"3-4-5 triangle", Landmark{0, 0, 0}, Landmark{0.3, 0.4, 0}, 0.5},
		{"uses depth", Landmark{0, 0, 0}, Landmark{0, 0, 2}, 2},
		{"missing first", Missing, Landmark{1, 1, 1}, 0},
		{"missing second", Landmark{1, 1, 1}, Missing, 0},
		{"infinite coordinate", Landmark{math.Inf(1), 0, 0}, Landmark{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
			if back := Distance(tt.b, tt.a); math.Abs(back-got) > epsilon {
				t.Errorf("Distance not symmetric: %f vs %f", got, back)
			}
		})
	}
}

func TestNewHandSample(t *testing.T) {
	t.Run("accepts 21 valid points", func(t *testing.T) {
		s, ok := NewHandSample(fullHand())
		if !ok || !s.Present() {
			t.Fatal("expected present sample")
		}
		if got := s.Point(IndexTip); got != fullHand()[IndexTip] {
			t.Errorf("Point(IndexTip) = %+v", got)
		}
	})

	t.Run("ignores extra trailing points", func(t *testing.T) {
		points := append(fullHand(), Missing, Landmark{9, 9, 9})
		s, ok := NewHandSample(points)
		if !ok || !s.Present() {
			t.Fatal("expected present sample")
		}
		if len(s.Points()) != NumLandmarks {
			t.Errorf("expected %d points, got %d", NumLandmarks, len(s.Points()))
		}
	})

	t.Run("rejects too few points", func(t *testing.T) {
		s, ok := NewHandSample(fullHand()[:20])
		if ok || s.Present() {
			t.Error("expected absent sample for 20 points")
		}
	})

	t.Run("rejects a missing coordinate", func(t *testing.T) {
		points := fullHand()
		points[ThumbTip] = Landmark{X: 0.1, Y: math.NaN(), Z: 0}
		if _, ok := NewHandSample(points); ok {
			t.Error("expected rejection for NaN coordinate")
		}
	})

	t.Run("absent sample returns Missing points", func(t *testing.T) {
		s := NoHand()
		if s.Point(IndexTip).Valid() {
			t.Error("expected Missing from absent sample")
		}
		if s.Points() != nil {
			t.Error("expected nil points from absent sample")
		}
	})

	t.Run("out of range index", func(t *testing.T) {
		s, _ := NewHandSample(fullHand())
		if s.Point(-1).Valid() || s.Point(NumLandmarks).Valid() {
			t.Error("expected Missing for out of range index")
		}
	})

	t.Run("nil hand samples as absent", func(t *testing.T) {
		var h *HandLandmarks
		if h.Sample().Present() {
			t.Error("expected absent sample")
		}
	})
}

func TestPinchLengths(t *testing.T) {
	t.Run("absent sample", func(t *testing.T) {
		if _, _, ok := PinchLengths(NoHand()); ok {
			t.Error("expected no lengths for an absent sample")
		}
	})

	t.Run("zero reference length", func(t *testing.T) {
		points := fullHand()
		points[ThumbIP] = points[ThumbTip]
		s, _ := NewHandSample(points)
		pinch, reference, ok := PinchLengths(s)
		if !ok || reference != 0 {
			t.Errorf("PinchLengths() = %f, %f, %v; want zero reference", pinch, reference, ok)
		}
	})

	t.Run("uses shorter finger", func(t *testing.T) {
		points := fullHand()
		points[ThumbTip] = Landmark{0, 0, 0}
		points[IndexTip] = Landmark{0.1, 0, 0}
		points[ThumbIP] = Landmark{0, 0.5, 0}
		points[IndexPIP] = Landmark{0.1, 0.2, 0}
		s, _ := NewHandSample(points)

		pinch, reference, ok := PinchLengths(s)
		if !ok {
			t.Fatal("expected lengths")
		}
		if math.Abs(pinch-0.1) > epsilon || math.Abs(reference-0.2) > epsilon {
			t.Errorf("PinchLengths() = %f, %f", pinch, reference)
		}
	})
}

func TestDecodeFrame(t *testing.T) {
	t.Run("complete hand", func(t *testing.T) {
		data, err := EncodeFrame([]HandLandmarks{PinchLandmarks()})
		if err != nil {
			t.Fatalf("EncodeFrame failed: %v", err)
		}
		hands, err := DecodeFrame(data)
		if err != nil {
			t.Fatalf("DecodeFrame failed: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Handedness != "Right" {
			t.Errorf("expected Right, got %s", hands[0].Handedness)
		}
		if !hands[0].Sample().Present() {
			t.Error("expected present sample")
		}
	})

	t.Run("missing coordinate makes sample absent", func(t *testing.T) {
		data := []byte(`{"hands":[{"points":[` +
			`{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},` +
			`{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1},{"x":0.1,"y":0.1,"z":0},` +
			`{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},` +
			`{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},` +
			`{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},` +
			`{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},` +
			`{"x":0.1,"y":0.1,"z":0},{"x":0.1,"y":0.1,"z":0},null]}]}`)
		hands, err := DecodeFrame(data)
		if err != nil {
			t.Fatalf("DecodeFrame failed: %v", err)
		}
		if len(hands) != 1 || len(hands[0].Points) != NumLandmarks {
			t.Fatalf("unexpected decode result: %+v", hands)
		}
		if hands[0].Points[ThumbTip].Valid() {
			t.Error("expected thumb tip to be Missing")
		}
		if hands[0].Points[PinkyTip].Valid() {
			t.Error("expected null point to be Missing")
		}
		if First(hands).Present() {
			t.Error("expected absent sample")
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := DecodeFrame([]byte(`{"hands":[]}`))
		if err != nil {
			t.Fatalf("DecodeFrame failed: %v", err)
		}
		if First(hands).Present() {
			t.Error("expected absent sample")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := DecodeFrame([]byte(`{"hands":`)); err == nil {
			t.Error("expected error")
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{PinchLandmarks()})

		hands, err := mock.Detect(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		_, err := mock.Detect(nil)
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected %v, got %v", expectedErr, err)
		}
	})

	t.Run("plays a sequence then reports no hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetSequence([][]HandLandmarks{
			{OpenHandLandmarks()},
			{PinchLandmarks()},
		})

		for i := 0; i < 2; i++ {
			hands, _ := mock.Detect(nil)
			if len(hands) != 1 {
				t.Fatalf("call %d: expected 1 hand, got %d", i, len(hands))
			}
		}
		hands, _ := mock.Detect(nil)
		if len(hands) != 0 {
			t.Errorf("expected no hands after sequence, got %d", len(hands))
		}
		if mock.Calls() != 3 {
			t.Errorf("expected 3 calls, got %d", mock.Calls())
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestHandPose(t *testing.T) {
	tests := []struct {
		name     string
		hand     HandLandmarks
		pinching bool
	}{
		{"pinch preset", PinchLandmarks(), true},
		{"open preset", OpenHandLandmarks(), false},
		{"pinch at corner", HandPose(0.1, 0.1, true), true},
		{"open at corner", HandPose(0.9, 0.2, false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.hand.Sample()
			if !s.Present() {
				t.Fatal("expected present sample")
			}
			pinch, reference, _ := PinchLengths(s)
			if got := pinch < 0.8*reference; got != tt.pinching {
				t.Errorf("pinch %f reference %f: pinching = %v, want %v", pinch, reference, got, tt.pinching)
			}
		})
	}
}
