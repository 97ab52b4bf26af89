// Package overlay computes what is drawn over the displayed page: the active
// highlight, passive per-field markers and the detail tooltip.
package overlay

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/provlink/internal/confidence"
	"github.com/jackzampolin/provlink/internal/coords"
	"github.com/jackzampolin/provlink/internal/provenance"
)

// NoRegionNotice is shown when the selected field is on this page but has no region.
const NoRegionNotice = "Source region not available for this field"

// DefaultMarkerSize is the edge length of a passive marker in page pixels.
const DefaultMarkerSize = 10.0

// Input is everything the renderer needs for one page. It carries no hidden state.
type Input struct {
	PageNumber   int
	PageWidthPx  float64
	PageHeightPx float64
	Zoom         float64

	Highlight *provenance.HighlightTarget
	Fields    []provenance.PageField

	Tooltip       coords.TooltipOptions
	MarkerSize    float64
	ReducedMotion bool
}

// Scene is the overlay for one page, in unzoomed page pixels. Transform scales the
// page and the overlay together.
type Scene struct {
	PageNumber int     `json:"pageNumber"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Transform  string  `json:"transform"`

	// Markers are drawn first; Active is drawn above them.
	Markers []Marker         `json:"markers"`
	Active  *ActiveHighlight `json:"active,omitempty"`
	Tooltip *Tooltip         `json:"tooltip,omitempty"`
	Notice  string           `json:"notice,omitempty"`
}

// Empty reports whether nothing would be drawn.
func (s Scene) Empty() bool {
	return len(s.Markers) == 0 && s.Active == nil && s.Notice == ""
}

// ActiveHighlight is the full rectangle for the selected field.
type ActiveHighlight struct {
	FieldName   string                    `json:"fieldName"`
	FormType    string                    `json:"formType"`
	Granularity provenance.Granularity    `json:"granularity"`
	Rect        coords.Rect               `json:"rect"`
	Class       confidence.Classification `json:"class"`
	Label       string                    `json:"label"`
	Animate     bool                      `json:"animate"`
}

// Marker is a small hover indicator for a field that is not selected.
type Marker struct {
	FieldName string                    `json:"fieldName"`
	FormType  string                    `json:"formType"`
	Rect      coords.Rect               `json:"rect"`
	Class     confidence.Classification `json:"class"`
	Title     string                    `json:"title"`
}

// Tooltip is the detail card anchored near the active highlight.
type Tooltip struct {
	Position coords.Point `json:"position"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Lines    []string     `json:"lines"`
	Advisory string       `json:"advisory,omitempty"`
}

// Render builds the scene for in.PageNumber. When the page has not been rendered
// yet its pixel size is unknown and the scene is empty rather than guessed.
func Render(in Input) Scene {
	scene := Scene{
		PageNumber: in.PageNumber,
		Width:      in.PageWidthPx,
		Height:     in.PageHeightPx,
		Transform:  coords.ZoomTransform(zoomOrDefault(in.Zoom)),
		Markers:    []Marker{},
	}
	if !(in.PageWidthPx > 0 && in.PageHeightPx > 0) {
		return scene
	}
	if in.MarkerSize <= 0 {
		in.MarkerSize = DefaultMarkerSize
	}
	if in.Tooltip == (coords.TooltipOptions{}) {
		in.Tooltip = coords.DefaultTooltip
	}

	active := in.Highlight
	if active != nil && active.PageNumber != in.PageNumber {
		// Selected field lives on another page: keep it, draw nothing for it.
		active = nil
	}

	for _, pf := range in.Fields {
		if pf.Field.PageNumber != in.PageNumber || pf.Field.BoundingBox == nil {
			continue
		}
		if active != nil && pf.Field.FieldName == active.FieldName && pf.FormType == active.FormType {
			continue
		}
		scene.Markers = append(scene.Markers, marker(pf, in))
	}

	if active == nil {
		return scene
	}
	if active.BoundingBox == nil {
		scene.Notice = NoRegionNotice
		return scene
	}

	class := confidence.Classify(active.Confidence)
	rect := coords.ClipRect(
		coords.ToPixelRect(*active.BoundingBox, in.PageWidthPx, in.PageHeightPx),
		in.PageWidthPx, in.PageHeightPx,
	)
	scene.Active = &ActiveHighlight{
		FieldName:   active.FieldName,
		FormType:    active.FormType,
		Granularity: active.Granularity,
		Rect:        rect,
		Class:       class,
		Label:       Label(active.FieldName, active.Confidence),
		Animate:     !in.ReducedMotion,
	}
	scene.Tooltip = &Tooltip{
		Position: coords.TooltipAnchor(*active.BoundingBox, in.PageWidthPx, in.PageHeightPx, in.Tooltip),
		Width:    in.Tooltip.Width,
		Height:   in.Tooltip.Height,
		Lines:    tooltipLines(active, class),
		Advisory: class.Advisory,
	}
	return scene
}

// Label is the text drawn on a highlight: the field name plus its confidence
// percentage when known.
func Label(fieldName string, c *float64) string {
	if pct := confidence.FormatPercent(c); pct != "" {
		return fieldName + " · " + pct
	}
	return fieldName
}

func marker(pf provenance.PageField, in Input) Marker {
	full := coords.ToPixelRect(*pf.Field.BoundingBox, in.PageWidthPx, in.PageHeightPx)
	size := in.MarkerSize
	rect := coords.ClipRect(coords.Rect{
		Left:   full.Left - size/2,
		Top:    full.Top - size/2,
		Width:  size,
		Height: size,
	}, in.PageWidthPx, in.PageHeightPx)

	class := confidence.Classify(pf.Field.Confidence)
	title := pf.Field.FieldName
	if class.Tier != confidence.TierUnknown {
		title = fmt.Sprintf("%s (%s, %s)", pf.Field.FieldName, class.Label, confidence.FormatPercent(pf.Field.Confidence))
	}
	return Marker{
		FieldName: pf.Field.FieldName,
		FormType:  pf.FormType,
		Rect:      rect,
		Class:     class,
		Title:     title,
	}
}

func tooltipLines(t *provenance.HighlightTarget, class confidence.Classification) []string {
	lines := []string{t.FieldName}
	if t.FormType != "" {
		lines = append(lines, "Form: "+t.FormType)
	}
	conf := class.Label
	if pct := confidence.FormatPercent(t.Confidence); pct != "" {
		conf += " (" + pct + ")"
	}
	lines = append(lines, conf)
	if t.Granularity == provenance.GranularityForm {
		lines = append(lines, "Region: whole form (field not localized)")
	}
	if v := strings.TrimSpace(t.ProcessedValue); v != "" {
		lines = append(lines, "Value: "+v)
	}
	if v := strings.TrimSpace(t.RawValue); v != "" && v != strings.TrimSpace(t.ProcessedValue) {
		lines = append(lines, "Extracted: "+v)
	}
	if t.ExtractionReason != "" {
		lines = append(lines, "Reason: "+t.ExtractionReason)
	}
	lines = append(lines, fmt.Sprintf("Page %d", t.PageNumber))
	return lines
}

func zoomOrDefault(z float64) float64 {
	if z <= 0 {
		return 1
	}
	return z
}
