// Package coords maps normalized page fractions onto rendered page pixels.
//
// Everything here works in unzoomed page pixels. Zoom is applied once by the
// renderer as a single transform over the page and its overlay, so these
// functions never see the zoom factor.
package coords

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jackzampolin/provlink/internal/provenance"
)

// Rect is an absolute rectangle in rendered page pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Point is an anchor position in rendered page pixels.
type Point struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// ToPixelRect scales a normalized box by the page's rendered pixel size.
func ToPixelRect(box provenance.BoundingBox, pageWidthPx, pageHeightPx float64) Rect {
	return Rect{
		Left:   box.X * pageWidthPx,
		Top:    box.Y * pageHeightPx,
		Width:  box.Width * pageWidthPx,
		Height: box.Height * pageHeightPx,
	}
}

// ClipRect bounds r to the page. Extraction noise can push a box slightly past
// the page edge; the clipped rectangle is what gets drawn.
func ClipRect(r Rect, pageWidthPx, pageHeightPx float64) Rect {
	left := clamp(r.Left, 0, pageWidthPx)
	top := clamp(r.Top, 0, pageHeightPx)
	right := clamp(r.Right(), left, pageWidthPx)
	bottom := clamp(r.Bottom(), top, pageHeightPx)
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// TooltipOptions sizes and spaces the detail tooltip.
type TooltipOptions struct {
	Width     float64
	Height    float64
	Offset    float64
	MinMargin float64
}

// DefaultTooltip matches the viewer's stock tooltip card.
var DefaultTooltip = TooltipOptions{Width: 240, Height: 96, Offset: 8, MinMargin: 4}

// TooltipAnchor places the tooltip above the box, clamped so it stays on the page:
//
//	left = min(x*W + offset, W - tooltipWidth)
//	top  = max(y*H - tooltipHeight - offset, minMargin)
//
// left is additionally floored at zero for pages narrower than the tooltip.
func TooltipAnchor(box provenance.BoundingBox, pageWidthPx, pageHeightPx float64, opts TooltipOptions) Point {
	left := math.Min(box.X*pageWidthPx+opts.Offset, pageWidthPx-opts.Width)
	if left < 0 {
		left = 0
	}
	top := math.Max(box.Y*pageHeightPx-opts.Height-opts.Offset, opts.MinMargin)
	return Point{Left: left, Top: top}
}

// ZoomTransform is the single transform applied to the page and overlay composite.
func ZoomTransform(zoom float64) string {
	return fmt.Sprintf("scale(%s)", strconv.FormatFloat(zoom, 'f', -1, 64))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
