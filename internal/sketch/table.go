package sketch

import "math"

// Sketch geometry is stored in template units relative to the canvas
// centre. One unit is min(width, height)/100 pixels.

type cmdKind uint8

const (
	cmdCircle cmdKind = iota
	cmdEllipse
	cmdRect
	cmdMove
	cmdLine
	cmdQuad
	cmdClose
)

type cmd struct {
	kind cmdKind
	a    [5]float64
}

func circle(x, y, r float64) cmd    { return cmd{kind: cmdCircle, a: [5]float64{x, y, r}} }
func rect(x, y, w, h float64) cmd   { return cmd{kind: cmdRect, a: [5]float64{x, y, w, h}} }
func move(x, y float64) cmd         { return cmd{kind: cmdMove, a: [5]float64{x, y}} }
func line(x, y float64) cmd         { return cmd{kind: cmdLine, a: [5]float64{x, y}} }
func quad(cx, cy, x, y float64) cmd { return cmd{kind: cmdQuad, a: [5]float64{cx, cy, x, y}} }
func closePath() cmd                { return cmd{kind: cmdClose} }
func ellipse(x, y, rx, ry, rot float64) cmd {
	return cmd{kind: cmdEllipse, a: [5]float64{x, y, rx, ry, rot}}
}

type paintMode uint8

const (
	stroke paintMode = 1 << iota
	fill
)

type group struct {
	mode paintMode
	cmds []cmd
}

var sketches = map[Name][]group{
	Cat: {
		{mode: stroke, cmds: []cmd{
			circle(0, -10, 25),
			move(-15, -25), line(-25, -40), line(-10, -30),
			move(15, -25), line(25, -40), line(10, -30),
			move(-20, 15), quad(0, 40, 20, 15),
			move(20, 15), quad(40, 5, 35, 25),
		}},
		{mode: fill, cmds: []cmd{
			circle(-8, -15, 3), circle(8, -15, 3), circle(0, -5, 2),
		}},
	},
	Dog: {
		{mode: stroke, cmds: []cmd{
			circle(0, -10, 30),
			move(-20, -30), quad(-30, -50, -15, -40),
			move(20, -30), quad(30, -50, 15, -40),
			move(-25, 20), quad(0, 50, 25, 20),
			move(25, 20), quad(45, 10, 40, 30),
		}},
		{mode: fill, cmds: []cmd{
			circle(-10, -15, 4), circle(10, -15, 4), circle(0, -5, 3),
		}},
	},
	Bird: {
		{mode: stroke, cmds: []cmd{
			ellipse(0, 0, 20, 15, 0),
			move(-15, -10), quad(-25, -20, -20, -5),
			move(15, 0), line(25, -10), line(25, 10), closePath(),
		}},
		{mode: stroke | fill, cmds: []cmd{
			circle(-5, -5, 2),
			move(5, 0), line(10, -2),
		}},
	},
	Fish: {
		{mode: stroke, cmds: []cmd{
			ellipse(0, 0, 25, 15, 0),
			move(20, 0), line(35, -15), line(35, 15), closePath(),
		}},
		{mode: fill, cmds: []cmd{
			circle(-10, -5, 3),
		}},
	},
	Flower: {
		{mode: stroke, cmds: append(petals(6, 20, 8), circle(0, 0, 5))},
		{mode: stroke, cmds: []cmd{move(0, 15), line(0, 40)}},
		{mode: stroke, cmds: []cmd{ellipse(-5, 30, 8, 3, 45)}},
	},
	Tree: {
		{mode: stroke, cmds: []cmd{move(0, 20), line(0, -20)}},
		{mode: stroke, cmds: []cmd{circle(0, -30, 25)}},
		{mode: stroke, cmds: []cmd{
			move(-10, -10), line(-20, -15),
			move(10, -10), line(20, -15),
		}},
	},
	Butterfly: {
		{mode: stroke, cmds: []cmd{
			move(-5, 0), quad(-25, -20, -20, 0), quad(-25, 20, -5, 0),
			move(5, 0), quad(25, -20, 20, 0), quad(25, 20, 5, 0),
		}},
		{mode: stroke, cmds: []cmd{move(0, -10), line(0, 10)}},
		{mode: stroke, cmds: []cmd{
			move(-3, -10), quad(-8, -15, -5, -20),
			move(3, -10), quad(8, -15, 5, -20),
		}},
	},
	House: {
		{mode: stroke, cmds: []cmd{
			rect(-25, -15, 50, 30),
			move(-30, -15), line(0, -35), line(30, -15),
		}},
		{mode: stroke, cmds: []cmd{rect(-8, 0, 16, 15)}},
		{mode: stroke, cmds: []cmd{rect(-15, -10, 8, 8), rect(7, -10, 8, 8)}},
	},
}

// petals returns n circles of radius r evenly spaced on a ring of radius ring.
func petals(n int, ring, r float64) []cmd {
	out := make([]cmd, 0, n+1)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		out = append(out, circle(math.Cos(angle)*ring, math.Sin(angle)*ring, r))
	}
	return out
}
