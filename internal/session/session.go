// Package session holds all mutable drawing state for one user and applies
// frames and UI commands to it one at a time.
package session

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/export"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/sketch"
)

// UI holds visibility flags for host-rendered panels.
type UI struct {
	HelpVisible   bool `json:"help_visible"`
	TemplatesOpen bool `json:"templates_open"`
}

// State is a read-only snapshot of a session.
type State struct {
	ID              string           `json:"id"`
	Size            canvas.Size      `json:"size"`
	Tool            canvas.Tool      `json:"tool"`
	Color           string           `json:"color"`
	Width           float64          `json:"width"`
	Template        sketch.Name      `json:"template,omitempty"`
	IncludeTemplate bool             `json:"include_template"`
	Pen             gesture.PenState `json:"pen"`
	UI              UI               `json:"ui"`
	Frames          uint64           `json:"frames"`
}

// Session owns the canvas, the stroke tracker and the tool state. Every
// method holds the session lock for its whole duration, so a frame is
// always applied completely before the next frame or command runs.
type Session struct {
	mu sync.Mutex

	id       string
	canvas   *canvas.Canvas
	tracker  *gesture.Tracker
	pen      canvas.Pen
	template sketch.Name
	include  bool
	ui       UI
	frames   uint64
	now      func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for export filenames.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithPreferences applies saved tool preferences at creation.
func WithPreferences(p Preferences) Option {
	return func(s *Session) {
		if err := s.applyPreferences(p); err != nil {
			slog.Warn("ignoring saved preferences", "error", err)
		}
	}
}

// New creates a session with a blank canvas of the given size.
func New(size canvas.Size, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		canvas:  canvas.New(size),
		tracker: gesture.NewTracker(),
		pen:     canvas.DefaultPen(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Process runs one frame through the classifier and tracker and applies the
// result to the canvas: a segment goes into the ink layer, and the indicator
// layer is redrawn at the fingertip or cleared when no hand was seen.
// Malformed input arrives here as an absent sample and only lifts the pen.
func (s *Session) Process(sample detector.HandSample) gesture.Effects {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := gesture.Classify(sample, s.canvas.Size())
	fx := s.tracker.Step(c)

	if fx.Segment != nil {
		s.canvas.PaintSegment(*fx.Segment, s.pen)
	}
	if fx.Indicator.Visible {
		s.canvas.DrawIndicator(fx.Indicator.At, fx.Indicator.Pinching)
	} else {
		s.canvas.ClearLayer(canvas.FingertipIndicator)
	}
	s.frames++
	return fx
}

// Clear empties every layer, forgets the current template and returns the
// tool to the brush.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.canvas.ClearAll()
	s.template = ""
	s.pen.Tool = canvas.Brush
}

// SelectTool switches between brush and eraser.
func (s *Session) SelectTool(t canvas.Tool) error {
	if t != canvas.Brush && t != canvas.Eraser {
		return fmt.Errorf("%w: %v", canvas.ErrUnknownTool, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pen.Tool = t
	return nil
}

// SetColor sets the pen colour from a CSS colour string.
func (s *Session) SetColor(value string) error {
	c, err := canvas.ParseColor(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pen.Color = c
	return nil
}

// SetWidth sets the pen width in pixels.
func (s *Session) SetWidth(w float64) error {
	if !canvas.ValidWidth(w) {
		return fmt.Errorf("%w: %v", canvas.ErrInvalidWidth, w)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pen.Width = w
	return nil
}

// LoadTemplate starts a fresh trace of the named template: the canvas is
// cleared, the template is drawn onto the overlay and becomes current. An
// unknown name changes nothing and reports false.
func (s *Session) LoadTemplate(name string) bool {
	n, err := sketch.Lookup(name)
	if err != nil {
		slog.Warn("ignoring template selection", "template", name, "error", err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	sketch.Render(s.canvas.Layer(canvas.TemplateOverlay), n, s.canvas.Size())
	s.template = n
	s.ui.TemplatesOpen = false
	slog.Info("template loaded", "template", n, "size", s.canvas.Size().String())
	return true
}

// SetIncludeTemplate toggles drawing the current template into exports.
func (s *Session) SetIncludeTemplate(include bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.include = include
}

// SetHelpVisible shows or hides the help panel.
func (s *Session) SetHelpVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.HelpVisible = visible
}

// SetTemplatesOpen shows or hides the template picker.
func (s *Session) SetTemplatesOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.TemplatesOpen = open
}

// Resize gives every layer the new size. Layers come back blank, so ink is
// lost; the current template is drawn again at the new scale. The pen is
// lifted because the previous point belongs to the old coordinate space.
func (s *Session) Resize(size canvas.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.canvas.Resize(size)
	s.tracker.Reset()
	if s.template != "" {
		sketch.Render(s.canvas.Layer(canvas.TemplateOverlay), s.template, s.canvas.Size())
	}
	slog.Info("canvas resized", "size", s.canvas.Size().String(), "template", s.template)
}

// Size returns the current canvas size.
func (s *Session) Size() canvas.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Size()
}

// Export flattens the drawing into a PNG. Live layers are not modified.
func (s *Session) Export() (*export.Result, error) {
	s.mu.Lock()
	ink := s.canvas.CompositeOf(canvas.Ink)
	size := s.canvas.Size()
	opts := export.Options{Template: s.template, IncludeTemplate: s.include}
	now := s.now()
	s.mu.Unlock()

	return export.Export(ink, size, opts, now)
}

// Composite returns the visible stack of ink, overlay and indicator.
func (s *Session) Composite() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Composite()
}

// LayerSnapshot returns a copy of one layer.
func (s *Session) LayerSnapshot(l canvas.Layer) *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.CompositeOf(l)
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:              s.id,
		Size:            s.canvas.Size(),
		Tool:            s.pen.Tool,
		Color:           canvas.FormatColor(s.pen.Color),
		Width:           s.pen.Width,
		Template:        s.template,
		IncludeTemplate: s.include,
		Pen:             s.tracker.State(),
		UI:              s.ui,
		Frames:          s.frames,
	}
}
