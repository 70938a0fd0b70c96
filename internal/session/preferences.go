package session

import (
	"fmt"
	"strconv"

	"github.com/ayusman/airsketch/internal/canvas"
)

// Setting keys used when preferences are persisted as key/value pairs.
const (
	KeyTool            = "tool"
	KeyColor           = "color"
	KeyWidth           = "width"
	KeyIncludeTemplate = "include_template"
)

// Preferences are the tool settings that survive a restart.
type Preferences struct {
	Tool            canvas.Tool `json:"tool"`
	Color           string      `json:"color"`
	Width           float64     `json:"width"`
	IncludeTemplate bool        `json:"include_template"`
}

// DefaultPreferences matches a new session.
func DefaultPreferences() Preferences {
	pen := canvas.DefaultPen()
	return Preferences{
		Tool:  pen.Tool,
		Color: canvas.FormatColor(pen.Color),
		Width: pen.Width,
	}
}

// Values encodes p as setting key/value pairs.
func (p Preferences) Values() map[string]string {
	return map[string]string{
		KeyTool:            p.Tool.String(),
		KeyColor:           p.Color,
		KeyWidth:           strconv.FormatFloat(p.Width, 'f', -1, 64),
		KeyIncludeTemplate: strconv.FormatBool(p.IncludeTemplate),
	}
}

// PreferencesFromValues decodes settings over base. Keys that are absent
// keep the base value; keys that fail to parse return an error.
func PreferencesFromValues(values map[string]string, base Preferences) (Preferences, error) {
	p := base
	if v, ok := values[KeyTool]; ok {
		t, err := canvas.ParseTool(v)
		if err != nil {
			return base, err
		}
		p.Tool = t
	}
	if v, ok := values[KeyColor]; ok {
		if _, err := canvas.ParseColor(v); err != nil {
			return base, err
		}
		p.Color = v
	}
	if v, ok := values[KeyWidth]; ok {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil || !canvas.ValidWidth(w) {
			return base, fmt.Errorf("%w: %q", canvas.ErrInvalidWidth, v)
		}
		p.Width = w
	}
	if v, ok := values[KeyIncludeTemplate]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return base, fmt.Errorf("parse %s: %w", KeyIncludeTemplate, err)
		}
		p.IncludeTemplate = b
	}
	return p, nil
}

// Preferences returns the current tool settings.
func (s *Session) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Preferences{
		Tool:            s.pen.Tool,
		Color:           canvas.FormatColor(s.pen.Color),
		Width:           s.pen.Width,
		IncludeTemplate: s.include,
	}
}

// ApplyPreferences replaces the tool settings. Nothing changes on error.
func (s *Session) ApplyPreferences(p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyPreferences(p)
}

func (s *Session) applyPreferences(p Preferences) error {
	c, err := canvas.ParseColor(p.Color)
	if err != nil {
		return err
	}
	if !canvas.ValidWidth(p.Width) {
		return fmt.Errorf("%w: %v", canvas.ErrInvalidWidth, p.Width)
	}
	if p.Tool != canvas.Brush && p.Tool != canvas.Eraser {
		return fmt.Errorf("%w: %v", canvas.ErrUnknownTool, p.Tool)
	}
	s.pen = canvas.Pen{Tool: p.Tool, Color: c, Width: p.Width}
	s.include = p.IncludeTemplate
	return nil
}
