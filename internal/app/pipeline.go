package app

import (
	"log/slog"
	"time"

	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/detector"
)

// runPipeline reads frames until stopCh is closed. Each tick is one frame:
// read, pace, publish the preview, detect, then apply to the session. A
// frame is fully applied before the next read, so there is never more than
// one frame in flight.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	pacer := capture.NewPacer()
	ticker := time.NewTicker(pacer.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if a.step(pacer) {
				a.camera.SetFPS(pacer.FPS())
				ticker.Reset(pacer.Interval())
				slog.Debug("capture rate changed", "fps", pacer.FPS())
			}
		}
	}
}

// step processes one frame and reports whether the pacer changed rate.
// Read and detection failures count as frames without a hand.
func (a *App) step(pacer *capture.Pacer) bool {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		slog.Debug("error reading frame", "error", err)
		a.process(detector.NoHand())
		return false
	}
	defer frame.Close()

	_, changed := pacer.Observe(a.motion.Detect(frame), time.Now())

	if data, err := capture.EncodePreview(frame); err == nil {
		a.preview.set(data)
	} else {
		slog.Debug("error encoding preview", "error", err)
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		slog.Debug("error detecting hands", "error", err)
		hands = nil
	}

	a.process(detector.First(hands))
	return changed
}
