package coords

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jackzampolin/provlink/internal/provenance"
)

func TestToPixelRect(t *testing.T) {
	t.Run("scales each component", func(t *testing.T) {
		box := provenance.BoundingBox{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.05}
		r := ToPixelRect(box, 1000, 2000)
		assert.InDelta(t, 100, r.Left, 1e-9)
		assert.InDelta(t, 400, r.Top, 1e-9)
		assert.InDelta(t, 300, r.Width, 1e-9)
		assert.InDelta(t, 100, r.Height, 1e-9)
	})

	t.Run("same box on different raster sizes stays proportional", func(t *testing.T) {
		box := provenance.BoundingBox{X: 0.25, Y: 0.5, Width: 0.5, Height: 0.25}
		small := ToPixelRect(box, 400, 600)
		large := ToPixelRect(box, 800, 1200)
		assert.InDelta(t, small.Left*2, large.Left, 1e-9)
		assert.InDelta(t, small.Height*2, large.Height, 1e-9)
	})

	t.Run("valid boxes stay on the page", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		const w, h = 612.0, 792.0
		for i := 0; i < 2000; i++ {
			x, y := rng.Float64(), rng.Float64()
			box := provenance.BoundingBox{X: x, Y: y, Width: rng.Float64() * (1 - x), Height: rng.Float64() * (1 - y)}
			r := ToPixelRect(box, w, h)
			assert.GreaterOrEqual(t, r.Left, 0.0)
			assert.GreaterOrEqual(t, r.Top, 0.0)
			assert.GreaterOrEqual(t, r.Width, 0.0)
			assert.GreaterOrEqual(t, r.Height, 0.0)
			assert.LessOrEqual(t, r.Right(), w+1e-9)
			assert.LessOrEqual(t, r.Bottom(), h+1e-9)
		}
	})
}

func TestClipRect(t *testing.T) {
	r := ClipRect(Rect{Left: 90, Top: -5, Width: 20, Height: 10}, 100, 100)
	assert.Equal(t, Rect{Left: 90, Top: 0, Width: 10, Height: 5}, r)

	inside := Rect{Left: 10, Top: 10, Width: 5, Height: 5}
	assert.Equal(t, inside, ClipRect(inside, 100, 100))
}

func TestTooltipAnchor(t *testing.T) {
	opts := TooltipOptions{Width: 200, Height: 80, Offset: 8, MinMargin: 4}

	t.Run("bottom-left corner box", func(t *testing.T) {
		box := provenance.BoundingBox{X: 0, Y: 0.98, Width: 0.1, Height: 0.02}
		p := TooltipAnchor(box, 600, 800, opts)
		assert.LessOrEqual(t, p.Left, 600.0-opts.Width)
		assert.GreaterOrEqual(t, p.Top, opts.MinMargin)
		assert.InDelta(t, 8, p.Left, 1e-9)
		assert.InDelta(t, 0.98*800-80-8, p.Top, 1e-9)
	})

	t.Run("top edge clamps to min margin", func(t *testing.T) {
		p := TooltipAnchor(provenance.BoundingBox{X: 0.5, Y: 0.01, Width: 0.1, Height: 0.02}, 600, 800, opts)
		assert.Equal(t, opts.MinMargin, p.Top)
	})

	t.Run("right edge clamps to page width minus tooltip", func(t *testing.T) {
		p := TooltipAnchor(provenance.BoundingBox{X: 0.95, Y: 0.5, Width: 0.05, Height: 0.02}, 600, 800, opts)
		assert.Equal(t, 400.0, p.Left)
	})

	t.Run("clamping holds for any box", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		for i := 0; i < 2000; i++ {
			box := provenance.BoundingBox{X: rng.Float64(), Y: rng.Float64(), Width: 0.05, Height: 0.02}
			p := TooltipAnchor(box, 612, 792, opts)
			assert.LessOrEqual(t, p.Left, 612-opts.Width)
			assert.GreaterOrEqual(t, p.Left, 0.0)
			assert.GreaterOrEqual(t, p.Top, opts.MinMargin)
		}
	})

	t.Run("page narrower than tooltip floors at zero", func(t *testing.T) {
		p := TooltipAnchor(provenance.BoundingBox{X: 0.5, Y: 0.5}, 150, 300, opts)
		assert.Equal(t, 0.0, p.Left)
	})
}

func TestZoomTransform(t *testing.T) {
	assert.Equal(t, "scale(1.25)", ZoomTransform(1.25))
	assert.Equal(t, "scale(1)", ZoomTransform(1))
}
