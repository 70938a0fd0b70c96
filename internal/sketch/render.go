package sketch

import (
	"image/color"
	"image/draw"

	"github.com/ayusman/airsketch/internal/canvas"
)

// LineWidth is the template outline width in pixels. It does not scale with
// the canvas.
const LineWidth = 2

// Ink is the template colour.
var Ink = color.Black

// Scale returns the pixel size of one template unit on a canvas of size s.
func Scale(s canvas.Size) float64 {
	return float64(min(s.Width, s.Height)) / 100
}

// Render draws template name centred on a surface of the given size. The
// surface can be the overlay layer or an export raster; dst is not cleared
// first. It reports false, drawing nothing, for a name outside the
// catalogue.
func Render(dst draw.Image, name Name, size canvas.Size) bool {
	groups, ok := sketches[name]
	if !ok || size.Empty() {
		return false
	}

	p := canvas.NewPainter(dst)
	for _, g := range groups {
		path := g.path(size.Center(), Scale(size))
		if g.mode&stroke != 0 {
			p.Stroke(path, Ink, LineWidth)
		}
		if g.mode&fill != 0 {
			p.Fill(path, Ink)
		}
	}
	return true
}

// path maps one group from template units into pixels around centre.
func (g group) path(centre canvas.Point, scale float64) *canvas.Path {
	x := func(v float64) float64 { return centre.X + v*scale }
	y := func(v float64) float64 { return centre.Y + v*scale }

	path := &canvas.Path{}
	for _, c := range g.cmds {
		a := c.a
		switch c.kind {
		case cmdCircle:
			path.Circle(x(a[0]), y(a[1]), a[2]*scale)
		case cmdEllipse:
			path.Ellipse(x(a[0]), y(a[1]), a[2]*scale, a[3]*scale, a[4])
		case cmdRect:
			path.Rect(x(a[0]), y(a[1]), a[2]*scale, a[3]*scale)
		case cmdMove:
			path.MoveTo(x(a[0]), y(a[1]))
		case cmdLine:
			path.LineTo(x(a[0]), y(a[1]))
		case cmdQuad:
			path.QuadTo(x(a[0]), y(a[1]), x(a[2]), y(a[3]))
		case cmdClose:
			path.Close()
		}
	}
	return path
}
