package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Painter rasterizes paths onto one destination image with round caps and
// round joins. Reuse a Painter for the same destination; the scan buffer is
// as large as the destination.
type Painter struct {
	dst     draw.Image
	scanner *rasterx.ScannerGV
	stroker *rasterx.Stroker
	filler  *rasterx.Filler
}

// NewPainter returns a Painter drawing onto dst.
func NewPainter(dst draw.Image) *Painter {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	return &Painter{
		dst:     dst,
		scanner: scanner,
		stroker: rasterx.NewStroker(b.Dx(), b.Dy(), scanner),
		filler:  rasterx.NewFiller(b.Dx(), b.Dy(), scanner),
	}
}

// Stroke outlines path with a line of the given width.
func (p *Painter) Stroke(path *Path, c color.Color, width float64) {
	if path.Empty() || width <= 0 {
		return
	}
	p.stroker.Clear()
	p.stroker.SetStroke(fixed.Int26_6(width*64), 4<<6,
		rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round)
	p.stroker.SetColor(c)
	path.addTo(p.stroker)
	p.stroker.Draw()
	p.stroker.Clear()
}

// Fill paints the interior of path using the non-zero winding rule.
func (p *Painter) Fill(path *Path, c color.Color) {
	if path.Empty() {
		return
	}
	p.filler.Clear()
	p.filler.SetColor(c)
	path.addTo(p.filler)
	p.filler.Draw()
	p.filler.Clear()
}

// segmentPath returns the stroke geometry for seg. A degenerate segment
// becomes a dot of the stroke diameter so that it still leaves a mark.
func segmentPath(seg Segment, width float64) (path *Path, fill bool) {
	path = &Path{}
	if seg.Degenerate() {
		path.Circle(seg.From.X, seg.From.Y, width/2)
		return path, true
	}
	path.MoveTo(seg.From.X, seg.From.Y)
	path.LineTo(seg.To.X, seg.To.Y)
	return path, false
}

// inkPainter paints pen segments into the ink layer. Eraser strokes are
// rendered into a coverage mask first; each ink pixel under the mask is then
// scaled by (1-coverage), so pixels the stroke misses keep their ink.
type inkPainter struct {
	ink   *image.RGBA
	paint *Painter
	mask  *image.Alpha
	erase *Painter
}

func newInkPainter(ink *image.RGBA) *inkPainter {
	mask := image.NewAlpha(ink.Bounds())
	return &inkPainter{
		ink:   ink,
		paint: NewPainter(ink),
		mask:  mask,
		erase: NewPainter(mask),
	}
}

func (ip *inkPainter) segment(seg Segment, pen Pen) {
	if pen.Width <= 0 {
		return
	}
	path, fill := segmentPath(seg, pen.Width)

	if pen.Tool != Eraser {
		if fill {
			ip.paint.Fill(path, pen.Color)
		} else {
			ip.paint.Stroke(path, pen.Color, pen.Width)
		}
		return
	}

	r := seg.bounds(pen.Width/2 + 2).Intersect(ip.ink.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(ip.mask, r, image.Transparent, image.Point{}, draw.Src)
	if fill {
		ip.erase.Fill(path, color.Opaque)
	} else {
		ip.erase.Stroke(path, color.Opaque, pen.Width)
	}
	destinationOut(ip.ink, ip.mask, r)
}

// destinationOut scales every premultiplied pixel of dst inside r by the
// inverse of the mask coverage.
func destinationOut(dst *image.RGBA, mask *image.Alpha, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := mask.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, mi, di = x+1, mi+1, di+4 {
			m := uint32(mask.Pix[mi])
			if m == 0 {
				continue
			}
			keep := 0xff - m
			px := dst.Pix[di : di+4 : di+4]
			for k := range px {
				px[k] = uint8((uint32(px[k])*keep + 0x7f) / 0xff)
			}
		}
	}
}
