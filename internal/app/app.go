// Package app wires the camera, the hand detector and the drawing session
// together and owns the camera lifecycle.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/capture"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/export"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/store"
)

// ErrCaptureUnavailable is returned when the camera cannot be started.
var ErrCaptureUnavailable = errors.New("capture unavailable")

// Config holds configuration options for the application.
type Config struct {
	// Session receives every frame. Required.
	Session *session.Session
	// Store persists preferences and the export log. Optional.
	Store *store.Store
	// Camera overrides the device camera, mainly for tests.
	Camera   capture.Camera
	CameraID int
	// Detector overrides hand detection. When nil MediaPipe is tried first
	// and the mock detector is used if it is not installed.
	Detector detector.Detector
	// MediaPipe configures the default detector. Zero tuning values take
	// detector.DefaultConfig.
	MediaPipe    detector.Config
	MotionThresh float64
}

// App runs the capture pipeline for one session.
type App struct {
	config   Config
	session  *session.Session
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector

	// mu serializes lifecycle changes: start, stop, resize and close.
	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
	status Status

	hookMu    sync.RWMutex
	onEffects func(gesture.Effects)
	onStatus  func(Status)

	preview previewBuffer
}

// New creates an App. The camera stays closed until StartCamera.
func New(config Config) *App {
	if config.Session == nil {
		config.Session = session.New(canvas.DefaultSize)
	}

	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	cam := config.Camera
	if cam == nil {
		cam = capture.NewCamera(config.CameraID)
	}

	a := &App{
		config:   config,
		session:  config.Session,
		camera:   cam,
		motion:   capture.NewMotionDetector(motionThreshold),
		detector: config.Detector,
		status:   Status{Camera: CameraStopped},
	}

	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(mediaPipeConfig(config.MediaPipe)); err == nil {
			a.detector = mp
			slog.Info("using MediaPipe hand detection")
		} else {
			slog.Warn("MediaPipe not available, using mock detector", "error", err)
			a.detector = detector.NewMockDetector()
		}
	}

	return a
}

func mediaPipeConfig(c detector.Config) detector.Config {
	d := detector.DefaultConfig()
	d.ScriptPath = c.ScriptPath
	d.PythonPath = c.PythonPath
	if c.MaxHands > 0 {
		d.MaxHands = c.MaxHands
	}
	if c.MinConfidence > 0 {
		d.MinConfidence = c.MinConfidence
	}
	if c.MinTrackingConf > 0 {
		d.MinTrackingConf = c.MinTrackingConf
	}
	return d
}

// Session returns the drawing session.
func (a *App) Session() *session.Session {
	return a.session
}

// OnEffects registers fn to receive the effects of every processed frame,
// whether it came from the camera or from Submit. fn runs on the frame
// path and must not block.
func (a *App) OnEffects(fn func(gesture.Effects)) {
	a.hookMu.Lock()
	defer a.hookMu.Unlock()
	a.onEffects = fn
}

// OnStatus registers fn to receive every camera state change, whichever
// surface caused it. fn runs with the lifecycle lock held and must not call
// back into the App.
func (a *App) OnStatus(fn func(Status)) {
	a.hookMu.Lock()
	defer a.hookMu.Unlock()
	a.onStatus = fn
}

func (a *App) setStatusLocked(st Status) {
	a.status = st

	a.hookMu.RLock()
	fn := a.onStatus
	a.hookMu.RUnlock()
	if fn != nil {
		fn(st)
	}
}

// Submit processes hands tracked outside the process, for example by a
// browser, as one frame.
func (a *App) Submit(hands []detector.HandLandmarks) gesture.Effects {
	return a.process(detector.First(hands))
}

func (a *App) process(sample detector.HandSample) gesture.Effects {
	fx := a.session.Process(sample)

	a.hookMu.RLock()
	fn := a.onEffects
	a.hookMu.RUnlock()
	if fn != nil {
		fn(fx)
	}
	return fx
}

// StartCamera opens a fresh capture at the current canvas size and starts
// the pipeline. Starting a running camera does nothing.
func (a *App) StartCamera() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startLocked()
}

func (a *App) startLocked() error {
	if a.stopCh != nil {
		return nil
	}

	size := a.session.Size()
	a.camera.SetSize(size.Width, size.Height)
	a.camera.SetFPS(capture.IdleFPS)

	if err := a.camera.Open(); err != nil {
		a.setStatusLocked(Status{Camera: CameraUnavailable, Error: err.Error()})
		slog.Error("camera unavailable", "error", err)
		return fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	a.motion.Reset()
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.setStatusLocked(Status{Camera: CameraActive})
	slog.Info("camera started", "size", size.String())
	return nil
}

// StopCamera stops the pipeline and releases the device. The pen is lifted
// and the fingertip indicator cleared, as for a frame without a hand.
func (a *App) StopCamera() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *App) stopLocked() {
	if a.stopCh == nil {
		return
	}

	close(a.stopCh)
	<-a.doneCh
	a.stopCh = nil
	a.doneCh = nil

	if err := a.camera.Close(); err != nil {
		slog.Warn("error closing camera", "error", err)
	}
	a.preview.clear()
	a.process(detector.NoHand())

	a.setStatusLocked(Status{Camera: CameraStopped})
	slog.Info("camera stopped")
}

// ToggleCamera stops a running camera or starts a stopped one. It reports
// whether the camera is running afterwards.
func (a *App) ToggleCamera() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		a.stopLocked()
		return false, nil
	}
	if err := a.startLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// Resize gives the canvas a new size. A running camera is stopped first,
// reconfigured for the new size and started again, so frames for the old
// size never reach the resized canvas.
func (a *App) Resize(size canvas.Size) error {
	if !size.Valid() {
		return fmt.Errorf("%w: %s", canvas.ErrInvalidSize, size)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	running := a.stopCh != nil
	a.stopLocked()
	a.session.Resize(size)

	if !running {
		return nil
	}
	return a.startLocked()
}

// Status reports the camera state.
func (a *App) Status() Status {
	a.mu.Lock()
	st := a.status
	a.mu.Unlock()

	if st.Camera == CameraActive {
		st.FPS = a.camera.FPS()
	}
	return st
}

// Preview returns the latest mirrored camera frame as JPEG and its sequence
// number. ok is false when no frame newer than after is available.
func (a *App) Preview(after uint64) (data []byte, seq uint64, ok bool) {
	return a.preview.next(after)
}

// Export renders the drawing to PNG and records it in the export log.
func (a *App) Export() (*export.Result, error) {
	res, err := a.session.Export()
	if err != nil {
		return nil, err
	}

	if a.config.Store != nil {
		rec := &store.ExportRecord{
			ID:               uuid.NewString(),
			Filename:         res.Filename,
			Width:            res.Size.Width,
			Height:           res.Size.Height,
			Template:         string(res.Template),
			IncludedTemplate: res.IncludeTemplate,
			Bytes:            len(res.Data),
		}
		if err := a.config.Store.Exports().Create(rec); err != nil {
			slog.Warn("failed to record export", "filename", res.Filename, "error", err)
		}
	}

	slog.Info("drawing exported", "filename", res.Filename, "bytes", len(res.Data))
	return res, nil
}

// LoadPreferences applies saved tool settings to the session.
func (a *App) LoadPreferences() error {
	if a.config.Store == nil {
		return nil
	}

	values, err := a.config.Store.Settings().GetAll()
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	prefs, err := session.PreferencesFromValues(values, a.session.Preferences())
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	return a.session.ApplyPreferences(prefs)
}

// SavePreferences stores the session's current tool settings.
func (a *App) SavePreferences() error {
	if a.config.Store == nil {
		return nil
	}
	if err := a.config.Store.Settings().SetMany(a.session.Preferences().Values()); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Close stops the camera and releases the detectors.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			slog.Warn("error closing detector", "error", err)
		}
	}
}
