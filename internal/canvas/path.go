package canvas

import "github.com/srwiley/rasterx"

type opKind uint8

const (
	opMove opKind = iota
	opLine
	opQuad
	opClose
	opEllipse
	opRect
)

type pathOp struct {
	kind opKind
	// args holds points for move/line/quad, (cx, cy, rx, ry, rot) for an
	// ellipse and (minX, minY, maxX, maxY) for a rectangle.
	args [5]float64
}

// Path records subpaths in pixel coordinates for a Painter to stroke or
// fill. The zero value is an empty path.
type Path struct {
	ops []pathOp
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.ops = append(p.ops, pathOp{kind: opMove, args: [5]float64{x, y}})
}

// LineTo adds a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.ops = append(p.ops, pathOp{kind: opLine, args: [5]float64{x, y}})
}

// QuadTo adds a quadratic curve with control point (cx, cy) ending at (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.ops = append(p.ops, pathOp{kind: opQuad, args: [5]float64{cx, cy, x, y}})
}

// Close joins the current subpath back to its start.
func (p *Path) Close() {
	p.ops = append(p.ops, pathOp{kind: opClose})
}

// Circle adds a closed circle as its own subpath.
func (p *Path) Circle(cx, cy, r float64) {
	p.Ellipse(cx, cy, r, r, 0)
}

// Ellipse adds a closed ellipse rotated by rot degrees as its own subpath.
func (p *Path) Ellipse(cx, cy, rx, ry, rot float64) {
	p.ops = append(p.ops, pathOp{kind: opEllipse, args: [5]float64{cx, cy, rx, ry, rot}})
}

// Rect adds a closed axis-aligned rectangle as its own subpath.
func (p *Path) Rect(x, y, w, h float64) {
	p.ops = append(p.ops, pathOp{kind: opRect, args: [5]float64{x, y, x + w, y + h}})
}

// Empty reports whether nothing has been recorded.
func (p *Path) Empty() bool {
	return p == nil || len(p.ops) == 0
}

// addTo replays the path into a rasterx adder.
func (p *Path) addTo(a rasterx.Adder) {
	open := false
	var cur, start [2]float64

	begin := func(x, y float64) {
		if open {
			a.Stop(false)
		}
		a.Start(rasterx.ToFixedP(x, y))
		open = true
		cur = [2]float64{x, y}
		start = cur
	}
	end := func() {
		if open {
			a.Stop(false)
			open = false
		}
	}

	for _, op := range p.ops {
		switch op.kind {
		case opMove:
			begin(op.args[0], op.args[1])
		case opLine:
			if !open {
				begin(cur[0], cur[1])
			}
			a.Line(rasterx.ToFixedP(op.args[0], op.args[1]))
			cur = [2]float64{op.args[0], op.args[1]}
		case opQuad:
			if !open {
				begin(cur[0], cur[1])
			}
			a.QuadBezier(
				rasterx.ToFixedP(op.args[0], op.args[1]),
				rasterx.ToFixedP(op.args[2], op.args[3]),
			)
			cur = [2]float64{op.args[2], op.args[3]}
		case opClose:
			if open {
				a.Stop(true)
				open = false
				cur = start
			}
		case opEllipse:
			end()
			rasterx.AddEllipse(op.args[0], op.args[1], op.args[2], op.args[3], op.args[4], a)
		case opRect:
			end()
			rasterx.AddRect(op.args[0], op.args[1], op.args[2], op.args[3], 0, a)
		}
	}
	end()
}
