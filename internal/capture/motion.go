package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion detection constants.
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21).
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold applied to the frame difference.
	DiffThreshold = 25
	// motionWidth is the width frames are scaled to before comparison.
	motionWidth = 320
)

// Motion is the result of comparing one frame with the previous one.
type Motion struct {
	Detected bool
	// Percent is the share of pixels, 0-100, that changed.
	Percent float64
}

// MotionDetector tells the pipeline whether anything is moving in front of
// the camera so it can drop to a low frame rate when the scene is still.
// Frames are shrunk, grayscaled and blurred, then differenced against the
// previous frame.
type MotionDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a MotionDetector. threshold is the percentage of
// pixels that must change to count as motion; 1.0 means 1%.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares frame with the previous one. The first frame after
// creation or Reset only becomes the baseline and never reports motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) Motion {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return Motion{}
	}

	small := gocv.NewMat()
	defer small.Close()
	shrink(*frame, &small)

	gray := gocv.NewMat()
	defer gray.Close()
	if small.Channels() > 1 {
		gocv.CvtColor(small, &gray, gocv.ColorBGRToGray)
	} else {
		small.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	// A size change (camera reconfigured) starts a new baseline.
	if !m.initialized || m.prevGray.Rows() != blurred.Rows() || m.prevGray.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return Motion{}
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	total := thresh.Rows() * thresh.Cols()
	percent := float64(gocv.CountNonZero(thresh)) / float64(total) * 100.0

	blurred.CopyTo(&m.prevGray)

	return Motion{Detected: percent > m.threshold, Percent: percent}
}

// shrink scales src down to motionWidth keeping its aspect ratio. Frames
// already narrower are copied as they are.
func shrink(src gocv.Mat, dst *gocv.Mat) {
	if src.Cols() <= motionWidth {
		src.CopyTo(dst)
		return
	}
	h := src.Rows() * motionWidth / src.Cols()
	if h < 1 {
		h = 1
	}
	gocv.Resize(src, dst, image.Point{X: motionWidth, Y: h}, 0, 0, gocv.InterpolationArea)
}

// Reset drops the baseline so the next frame starts a new comparison.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the stored baseline frame.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// SetThreshold sets the motion threshold. Values <= 0 are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.threshold = threshold
}

// Threshold returns the current motion threshold.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}
