package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Layer identifies one of the canvas rasters.
type Layer int

const (
	// Ink holds every drawn stroke. It is the only record of the drawing.
	Ink Layer = iota
	// TemplateOverlay holds the guide sketch.
	TemplateOverlay
	// FingertipIndicator holds the single marker at the tracked fingertip.
	FingertipIndicator

	numLayers
)

func (l Layer) String() string {
	switch l {
	case Ink:
		return "ink"
	case TemplateOverlay:
		return "template"
	case FingertipIndicator:
		return "indicator"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// Layers lists every layer in paint order, back to front.
var Layers = []Layer{Ink, TemplateOverlay, FingertipIndicator}

// Fingertip indicator styling.
const (
	IndicatorRadius  = 8
	indicatorOutline = 2
)

var (
	IndicatorPinching = color.RGBA{R: 0xff, A: 0xff}
	IndicatorHover    = color.RGBA{G: 0x66, B: 0xff, A: 0xff}
)

// Canvas owns three same-sized RGBA layers. It is not safe for concurrent
// use; callers serialize access.
type Canvas struct {
	size   Size
	layers [numLayers]*image.RGBA

	ink       *inkPainter
	indicator *Painter
}

// New returns a canvas of the given size with every layer transparent.
func New(size Size) *Canvas {
	c := &Canvas{}
	c.Resize(size)
	return c
}

// Size returns the current size shared by all layers.
func (c *Canvas) Size() Size {
	return c.size
}

// Resize replaces every layer with a blank raster of the new size. Existing
// content is dropped rather than stretched; ink is not recoverable.
func (c *Canvas) Resize(size Size) {
	if size.Empty() {
		size = Size{Width: 1, Height: 1}
	}
	c.size = size
	for i := range c.layers {
		c.layers[i] = image.NewRGBA(size.Bounds())
	}
	c.ink = newInkPainter(c.layers[Ink])
	c.indicator = NewPainter(c.layers[FingertipIndicator])
}

// Layer returns the live raster for l. The returned image is replaced on
// Resize, so callers must not keep it across calls.
func (c *Canvas) Layer(l Layer) *image.RGBA {
	if l < 0 || l >= numLayers {
		return nil
	}
	return c.layers[l]
}

// PaintSegment draws seg into the ink layer with the pen's tool, colour and
// width. An eraser pen clears ink to transparency inside the stroke.
func (c *Canvas) PaintSegment(seg Segment, pen Pen) {
	c.ink.segment(seg, pen)
}

// ClearLayer resets one layer to transparent.
func (c *Canvas) ClearLayer(l Layer) {
	dst := c.Layer(l)
	if dst == nil {
		return
	}
	clear(dst.Pix)
}

// ClearAll resets every layer to transparent.
func (c *Canvas) ClearAll() {
	for _, l := range Layers {
		c.ClearLayer(l)
	}
}

// DrawIndicator replaces the indicator layer content with one filled dot at
// at, red while pinching and blue otherwise, with a white outline.
func (c *Canvas) DrawIndicator(at Point, pinching bool) {
	c.ClearLayer(FingertipIndicator)

	fill := IndicatorHover
	if pinching {
		fill = IndicatorPinching
	}
	dot := &Path{}
	dot.Circle(at.X, at.Y, IndicatorRadius)
	c.indicator.Fill(dot, fill)
	c.indicator.Stroke(dot, color.White, indicatorOutline)
}

// Composite returns a new image holding every layer painted in order over
// transparency. The live layers are not modified.
func (c *Canvas) Composite() *image.RGBA {
	return c.CompositeOf(Layers...)
}

// CompositeOf paints the given layers, in order, into a new image.
func (c *Canvas) CompositeOf(layers ...Layer) *image.RGBA {
	out := image.NewRGBA(c.size.Bounds())
	for _, l := range layers {
		if src := c.Layer(l); src != nil {
			draw.Draw(out, out.Bounds(), src, image.Point{}, draw.Over)
		}
	}
	return out
}
