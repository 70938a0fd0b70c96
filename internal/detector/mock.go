package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	err      error
	calls    int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
	m.sequence = nil
}

// SetSequence makes Detect return one entry per call, in order. Once the
// sequence is exhausted Detect reports no hands.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = frames
	m.hands = nil
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.sequence != nil {
		if len(m.sequence) == 0 {
			return nil, nil
		}
		next := m.sequence[0]
		m.sequence = m.sequence[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HandPose returns a right hand whose index fingertip sits at (tipX, tipY)
// in normalized coordinates. With pinching set the thumb tip rests against
// the index tip; otherwise the thumb is spread well away from it.
func HandPose(tipX, tipY float64, pinching bool) HandLandmarks {
	hand := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
		Points:     make([]Landmark, NumLandmarks),
	}
	at := func(dx, dy, dz float64) Landmark {
		return Landmark{X: tipX + dx, Y: tipY + dy, Z: dz}
	}

	p := hand.Points
	p[Wrist] = at(-0.05, 0.45, 0.0)

	// Index finger points up to the tip.
	p[IndexMCP] = at(-0.01, 0.25, 0.0)
	p[IndexPIP] = at(0.0, 0.12, 0.0)
	p[IndexDIP] = at(0.0, 0.06, 0.0)
	p[IndexTip] = at(0.0, 0.0, 0.0)

	if pinching {
		p[ThumbCMC] = at(0.08, 0.38, 0.02)
		p[ThumbMCP] = at(0.10, 0.25, 0.03)
		p[ThumbIP] = at(0.05, 0.06, 0.02)
		p[ThumbTip] = at(0.01, 0.01, 0.0)
	} else {
		p[ThumbCMC] = at(0.08, 0.40, 0.02)
		p[ThumbMCP] = at(0.13, 0.35, 0.03)
		p[ThumbIP] = at(0.10, 0.30, 0.03)
		p[ThumbTip] = at(0.15, 0.25, 0.03)
	}

	// Remaining fingers curled toward the palm.
	p[MiddleMCP] = at(-0.05, 0.24, -0.02)
	p[MiddlePIP] = at(-0.05, 0.20, -0.05)
	p[MiddleDIP] = at(-0.06, 0.23, -0.04)
	p[MiddleTip] = at(-0.06, 0.26, -0.02)
	p[RingMCP] = at(-0.09, 0.26, -0.02)
	p[RingPIP] = at(-0.09, 0.22, -0.05)
	p[RingDIP] = at(-0.10, 0.25, -0.04)
	p[RingTip] = at(-0.10, 0.28, -0.02)
	p[PinkyMCP] = at(-0.13, 0.28, -0.02)
	p[PinkyPIP] = at(-0.13, 0.25, -0.05)
	p[PinkyDIP] = at(-0.14, 0.27, -0.04)
	p[PinkyTip] = at(-0.14, 0.30, -0.02)

	return hand
}

// PinchLandmarks returns a preset hand pinching near the frame centre.
func PinchLandmarks() HandLandmarks {
	return HandPose(0.5, 0.4, true)
}

// OpenHandLandmarks returns a preset hand with thumb and index apart.
func OpenHandLandmarks() HandLandmarks {
	return HandPose(0.5, 0.4, false)
}
