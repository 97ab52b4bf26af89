// Package provenance holds the per-document extraction provenance: which form and field
// a value came from, the page it sits on, its normalized region and its confidence.
package provenance

import "math"

// Epsilon is the tolerance applied to the right/bottom edges of a bounding box.
// Extraction output routinely overshoots the page edge by a rounding error.
const Epsilon = 0.02

// BoundingBox is a rectangle expressed as fractions of the page width and height.
// The origin is the top-left corner of the page.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge as a page fraction.
func (b BoundingBox) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the bottom edge as a page fraction.
func (b BoundingBox) Bottom() float64 {
	return b.Y + b.Height
}

// InBounds reports whether the box lies on the page, allowing Epsilon overshoot.
func (b BoundingBox) InBounds() bool {
	return b.X >= 0 && b.Y >= 0 && b.Width >= 0 && b.Height >= 0 &&
		b.Right() <= 1+Epsilon && b.Bottom() <= 1+Epsilon
}

// Normalize returns a copy with negative components and NaNs pulled to zero.
// Overshoot past the far edges is kept; the renderer clips it.
func (b BoundingBox) Normalize() BoundingBox {
	fix := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0
		}
		return v
	}
	return BoundingBox{X: fix(b.X), Y: fix(b.Y), Width: fix(b.Width), Height: fix(b.Height)}
}

// FieldProvenance records where a single extracted field value came from.
// A nil BoundingBox means the page is known but the region is not.
type FieldProvenance struct {
	FieldName      string       `json:"fieldName"`
	PageNumber     int          `json:"pageNumber"`
	BoundingBox    *BoundingBox `json:"boundingBox,omitempty"`
	Confidence     *float64     `json:"confidence,omitempty"`
	RawValue       string       `json:"rawValue,omitempty"`
	ProcessedValue string       `json:"processedValue,omitempty"`
}

// HasRegion reports whether the field was localized to a region.
func (f FieldProvenance) HasRegion() bool {
	return f.BoundingBox != nil
}

// FormProvenance groups the fields extracted for one form instance.
// Fields may sit on a different page than the form's primary page.
type FormProvenance struct {
	FormType         string            `json:"formType"`
	PageNumber       int               `json:"pageNumber"`
	BoundingBox      *BoundingBox      `json:"boundingBox,omitempty"`
	FormConfidence   *float64          `json:"formConfidence,omitempty"`
	ExtractionReason string            `json:"extractionReason,omitempty"`
	Fields           []FieldProvenance `json:"fields"`
}

// Granularity describes how precisely a highlight target was localized.
type Granularity string

const (
	GranularityField Granularity = "field"
	GranularityForm  Granularity = "form"
)

// HighlightTarget is the single field currently selected for emphasis.
// It is derived from provenance and never persisted.
type HighlightTarget struct {
	FieldName        string       `json:"fieldName"`
	FormType         string       `json:"formType"`
	PageNumber       int          `json:"pageNumber"`
	BoundingBox      *BoundingBox `json:"boundingBox,omitempty"`
	Confidence       *float64     `json:"confidence,omitempty"`
	Granularity      Granularity  `json:"granularity"`
	RawValue         string       `json:"rawValue,omitempty"`
	ProcessedValue   string       `json:"processedValue,omitempty"`
	ExtractionReason string       `json:"extractionReason,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate the owner's state.
func (t *HighlightTarget) Clone() *HighlightTarget {
	if t == nil {
		return nil
	}
	c := *t
	if t.BoundingBox != nil {
		b := *t.BoundingBox
		c.BoundingBox = &b
	}
	if t.Confidence != nil {
		v := *t.Confidence
		c.Confidence = &v
	}
	return &c
}

// Float returns a pointer to v. Handy for fixtures and optional confidences.
func Float(v float64) *float64 {
	return &v
}
