// Package export flattens the drawing into a downloadable PNG.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/sketch"
)

// ContentType is the MIME type of encoded exports.
const ContentType = "image/png"

// Options controls what goes into an export besides the ink.
type Options struct {
	// Template is the current template, empty when none is loaded.
	Template sketch.Name
	// IncludeTemplate draws Template under the ink when set.
	IncludeTemplate bool
}

// withTemplate reports whether the template is drawn.
func (o Options) withTemplate() bool {
	return o.IncludeTemplate && o.Template != ""
}

// Result is one encoded export.
type Result struct {
	Data            []byte
	Filename        string
	Size            canvas.Size
	Template        sketch.Name
	IncludeTemplate bool
}

// Flatten composites an export raster: opaque white, then the template if
// requested, then the ink, with the whole image mirrored horizontally to
// match the mirrored live preview. ink is copied first and never modified.
func Flatten(ink image.Image, size canvas.Size, opts Options) *image.RGBA {
	out := image.NewRGBA(size.Bounds())
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	if opts.withTemplate() {
		sketch.Render(out, opts.Template, size)
	}
	if ink != nil {
		src := clone.AsRGBA(ink)
		draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Over)
	}

	return transform.FlipH(out)
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	if err := imgio.PNGEncoder()(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Filename returns hand-drawing-<UTC ISO 8601 to the second>.png with the
// colons replaced by hyphens.
func Filename(t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05")
	return "hand-drawing-" + strings.ReplaceAll(stamp, ":", "-") + ".png"
}

// Export flattens and encodes in one step.
func Export(ink image.Image, size canvas.Size, opts Options, now time.Time) (*Result, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, Flatten(ink, size, opts)); err != nil {
		return nil, err
	}

	res := &Result{
		Data:            buf.Bytes(),
		Filename:        Filename(now),
		Size:            size,
		IncludeTemplate: opts.IncludeTemplate,
	}
	if opts.withTemplate() {
		res.Template = opts.Template
	}
	return res, nil
}
