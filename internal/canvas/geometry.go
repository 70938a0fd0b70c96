// Package canvas holds the layered raster model the drawing pipeline paints
// into: three same-sized layers, the pen that marks the ink layer and the
// path rasterizer shared with the template renderer.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrInvalidSize is returned for a canvas size that is empty or too large.
var ErrInvalidSize = errors.New("invalid canvas size")

// MaxDimension bounds each side of a canvas. Every layer is allocated at full
// size, so this also bounds memory.
const MaxDimension = 4096

// DefaultSize is the canvas size used before the host reports its viewport.
var DefaultSize = Size{Width: 1000, Height: 750}

// viewportMargin is kept free around the canvas when fitting a viewport.
const viewportMargin = 40

// Size is the pixel size shared by every layer and the capture stream.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether s has no drawable area.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Valid reports whether s is non-empty and within MaxDimension.
func (s Size) Valid() bool {
	return !s.Empty() && s.Width <= MaxDimension && s.Height <= MaxDimension
}

// Bounds returns the rectangle covering s with its origin at (0, 0).
func (s Size) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// ToPixel converts detector-normalized coordinates to pixels on s.
func (s Size) ToPixel(x, y float64) Point {
	return Point{X: x * float64(s.Width), Y: y * float64(s.Height)}
}

// Center returns the midpoint of s.
func (s Size) Center() Point {
	return Point{X: float64(s.Width) / 2, Y: float64(s.Height) / 2}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// FitViewport returns the largest 4:3 canvas that fits inside a viewport of
// the given size after leaving a margin, with dimensions floored to whole
// pixels. It never returns a size smaller than 1x1.
func FitViewport(width, height int) Size {
	maxWidth := float64(width - viewportMargin)
	maxHeight := float64(height - viewportMargin)

	w := maxWidth
	h := w * 3 / 4
	if h > maxHeight {
		h = maxHeight
		w = h * 4 / 3
	}

	return Size{
		Width:  max(1, int(math.Floor(w))),
		Height: max(1, int(math.Floor(h))),
	}
}

// Point is a position in canvas pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is one line of ink between two consecutive fingertip positions.
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Degenerate reports whether the segment starts and ends at the same point.
func (s Segment) Degenerate() bool {
	return s.From == s.To
}

// bounds returns the integer rectangle covering the segment widened by pad.
func (s Segment) bounds(pad float64) image.Rectangle {
	minX := math.Min(s.From.X, s.To.X) - pad
	minY := math.Min(s.From.Y, s.To.Y) - pad
	maxX := math.Max(s.From.X, s.To.X) + pad
	maxY := math.Max(s.From.Y, s.To.Y) + pad
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}
