package sketch

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/airsketch/internal/canvas"
)

// inkBounds returns the bounding box of every non-transparent pixel.
func inkBounds(img *image.RGBA) image.Rectangle {
	b := img.Bounds()
	var r image.Rectangle
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).A == 0 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if r.Empty() {
				r = px
			} else {
				r = r.Union(px)
			}
		}
	}
	return r
}

func TestLookup(t *testing.T) {
	for _, n := range Catalogue {
		got, err := Lookup(string(n))
		require.NoError(t, err, n)
		assert.Equal(t, n, got)
	}

	got, err := Lookup("  Butterfly ")
	require.NoError(t, err)
	assert.Equal(t, Butterfly, got)

	_, err = Lookup("dragon")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
	assert.Len(t, Catalogue, 8)
}

func TestRender_EveryTemplateDraws(t *testing.T) {
	size := canvas.Size{Width: 200, Height: 150}
	for _, n := range Catalogue {
		t.Run(string(n), func(t *testing.T) {
			img := image.NewRGBA(size.Bounds())
			require.True(t, Render(img, n, size))
			assert.False(t, inkBounds(img).Empty(), "nothing drawn")
		})
	}
}

func TestRender_UnknownIsNoop(t *testing.T) {
	size := canvas.Size{Width: 200, Height: 150}
	img := image.NewRGBA(size.Bounds())

	assert.False(t, Render(img, Name("dragon"), size))
	assert.True(t, inkBounds(img).Empty())
}

func TestRender_CentredAndScaled(t *testing.T) {
	tests := []struct {
		size canvas.Size
	}{
		{canvas.Size{Width: 400, Height: 300}},
		{canvas.Size{Width: 800, Height: 600}},
		{canvas.Size{Width: 300, Height: 500}},
	}

	// The house spans x in [-30, 30] and y in [-35, 15] template units.
	for _, tt := range tests {
		t.Run(tt.size.String(), func(t *testing.T) {
			img := image.NewRGBA(tt.size.Bounds())
			require.True(t, Render(img, House, tt.size))

			scale := Scale(tt.size)
			c := tt.size.Center()
			got := inkBounds(img)
			const tol = LineWidth + 1.5

			assert.InDelta(t, c.X-30*scale, float64(got.Min.X), tol)
			assert.InDelta(t, c.X+30*scale, float64(got.Max.X), tol)
			assert.InDelta(t, c.Y-35*scale, float64(got.Min.Y), tol)
			assert.InDelta(t, c.Y+15*scale, float64(got.Max.Y), tol)
		})
	}
}

func TestRender_SymmetricTemplatesCentred(t *testing.T) {
	size := canvas.Size{Width: 640, Height: 480}
	for _, n := range []Name{Tree, Butterfly, House} {
		t.Run(string(n), func(t *testing.T) {
			img := image.NewRGBA(size.Bounds())
			Render(img, n, size)

			b := inkBounds(img)
			mid := float64(b.Min.X+b.Max.X) / 2
			assert.LessOrEqual(t, math.Abs(mid-size.Center().X), 1.5)
		})
	}
}

func TestScale(t *testing.T) {
	assert.Equal(t, 7.5, Scale(canvas.Size{Width: 1000, Height: 750}))
	assert.Equal(t, 3.0, Scale(canvas.Size{Width: 300, Height: 500}))
}
