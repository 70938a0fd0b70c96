package canvas

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var (
	// ErrUnknownTool is returned when a tool name is not brush or eraser.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidColor is returned when a colour string cannot be parsed.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidWidth is returned for a non-positive stroke width.
	ErrInvalidWidth = errors.New("invalid stroke width")
)

// Tool selects how a segment is composited into the ink layer.
type Tool int

const (
	// Brush paints the pen colour over existing ink.
	Brush Tool = iota
	// Eraser clears existing ink to transparency inside the stroke.
	Eraser
)

func (t Tool) String() string {
	switch t {
	case Brush:
		return "brush"
	case Eraser:
		return "eraser"
	default:
		return fmt.Sprintf("tool(%d)", int(t))
	}
}

// ParseTool parses "brush" or "eraser".
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brush":
		return Brush, nil
	case "eraser":
		return Eraser, nil
	default:
		return Brush, fmt.Errorf("%w: %q", ErrUnknownTool, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tool) UnmarshalText(text []byte) error {
	parsed, err := ParseTool(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DefaultPenWidth is the stroke width selected at startup.
const DefaultPenWidth = 8

// WidthPresets are the stroke widths offered by the size picker.
var WidthPresets = []float64{2, 4, 8, 12, 20}

// Pen is the active tool state. It persists until changed by the user.
type Pen struct {
	Tool  Tool
	Color color.RGBA
	Width float64
}

// DefaultPen returns a black brush of DefaultPenWidth.
func DefaultPen() Pen {
	return Pen{
		Tool:  Brush,
		Color: color.RGBA{A: 0xff},
		Width: DefaultPenWidth,
	}
}

// ValidWidth reports whether w can be used as a stroke width.
func ValidWidth(w float64) bool {
	return w > 0 && w <= 200
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa or a CSS colour name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHex(h string) (color.RGBA, error) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("%w: #%s", ErrInvalidColor, h)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: #%s", ErrInvalidColor, h)
	}
	// Hex notation is straight alpha; ink layers hold premultiplied colour.
	straight := color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
	return color.RGBAModel.Convert(straight).(color.RGBA), nil
}

// FormatColor renders the premultiplied colour c as #rrggbb, or #rrggbbaa
// when it is not opaque.
func FormatColor(c color.RGBA) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
