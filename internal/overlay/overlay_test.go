package overlay

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/provlink/internal/confidence"
	"github.com/jackzampolin/provlink/internal/provenance"
)

func box(x, y, w, h float64) *provenance.BoundingBox {
	return &provenance.BoundingBox{X: x, Y: y, Width: w, Height: h}
}

func pageFields() []provenance.PageField {
	return []provenance.PageField{
		{FormType: "W-2", Field: provenance.FieldProvenance{FieldName: "federalWages", PageNumber: 1, BoundingBox: box(0.1, 0.2, 0.3, 0.05), Confidence: provenance.Float(0.95)}},
		{FormType: "W-2", Field: provenance.FieldProvenance{FieldName: "employerName", PageNumber: 1, Confidence: provenance.Float(0.6)}},
		{FormType: "W-2", Field: provenance.FieldProvenance{FieldName: "ein", PageNumber: 1, BoundingBox: box(0.6, 0.1, 0.2, 0.03), Confidence: provenance.Float(0.72)}},
	}
}

func wagesTarget() *provenance.HighlightTarget {
	return &provenance.HighlightTarget{
		FieldName:      "federalWages",
		FormType:       "W-2",
		PageNumber:     1,
		BoundingBox:    box(0.1, 0.2, 0.3, 0.05),
		Confidence:     provenance.Float(0.95),
		Granularity:    provenance.GranularityField,
		RawValue:       "$52,000.00",
		ProcessedValue: "52000",
	}
}

func TestRender_ActiveHighlight(t *testing.T) {
	scene := Render(Input{
		PageNumber:   1,
		PageWidthPx:  1000,
		PageHeightPx: 1000,
		Zoom:         1.5,
		Highlight:    wagesTarget(),
		Fields:       pageFields(),
	})

	require.NotNil(t, scene.Active)
	assert.InDelta(t, 100, scene.Active.Rect.Left, 1e-9)
	assert.InDelta(t, 200, scene.Active.Rect.Top, 1e-9)
	assert.InDelta(t, 300, scene.Active.Rect.Width, 1e-9)
	assert.InDelta(t, 50, scene.Active.Rect.Height, 1e-9)
	assert.Equal(t, confidence.TierHigh, scene.Active.Class.Tier)
	assert.Equal(t, "federalWages · 95%", scene.Active.Label)
	assert.True(t, scene.Active.Animate)
	assert.Equal(t, "scale(1.5)", scene.Transform)

	require.Len(t, scene.Markers, 1, "active field and fields without region get no marker")
	assert.Equal(t, "ein", scene.Markers[0].FieldName)
	assert.Equal(t, confidence.TierMedium, scene.Markers[0].Class.Tier)

	require.NotNil(t, scene.Tooltip)
	assert.InDelta(t, 108, scene.Tooltip.Position.Left, 1e-9)
	assert.InDelta(t, 96, scene.Tooltip.Position.Top, 1e-9)
	assert.Contains(t, scene.Tooltip.Lines, "Value: 52000")
	assert.Contains(t, scene.Tooltip.Lines, "Extracted: $52,000.00")
	assert.Empty(t, scene.Tooltip.Advisory)
}

func TestRender_UnknownDimsDrawsNothing(t *testing.T) {
	scene := Render(Input{PageNumber: 1, Highlight: wagesTarget(), Fields: pageFields()})
	assert.True(t, scene.Empty())
	assert.Nil(t, scene.Tooltip)
}

func TestRender_HighlightOnOtherPage(t *testing.T) {
	target := wagesTarget()
	target.PageNumber = 2
	scene := Render(Input{PageNumber: 1, PageWidthPx: 600, PageHeightPx: 800, Highlight: target, Fields: pageFields()})
	assert.Nil(t, scene.Active)
	assert.Empty(t, scene.Notice)
	assert.Len(t, scene.Markers, 2)
}

func TestRender_NoRegion(t *testing.T) {
	target := wagesTarget()
	target.BoundingBox = nil
	scene := Render(Input{PageNumber: 1, PageWidthPx: 600, PageHeightPx: 800, Highlight: target})
	assert.Nil(t, scene.Active)
	assert.Nil(t, scene.Tooltip)
	assert.Equal(t, NoRegionNotice, scene.Notice)
}

func TestRender_ReducedMotion(t *testing.T) {
	scene := Render(Input{PageNumber: 1, PageWidthPx: 600, PageHeightPx: 800, Highlight: wagesTarget(), ReducedMotion: true})
	require.NotNil(t, scene.Active)
	assert.False(t, scene.Active.Animate)
}

func TestRender_LowConfidenceAdvisory(t *testing.T) {
	target := wagesTarget()
	target.Confidence = provenance.Float(0.4)
	scene := Render(Input{PageNumber: 1, PageWidthPx: 600, PageHeightPx: 800, Highlight: target})
	require.NotNil(t, scene.Tooltip)
	assert.Equal(t, confidence.ManualVerificationAdvisory, scene.Tooltip.Advisory)
	assert.Equal(t, confidence.TierLow, scene.Active.Class.Tier)
}

func TestRender_FormLevelTooltip(t *testing.T) {
	target := wagesTarget()
	target.Granularity = provenance.GranularityForm
	target.Confidence = nil
	scene := Render(Input{PageNumber: 1, PageWidthPx: 600, PageHeightPx: 800, Highlight: target})
	require.NotNil(t, scene.Active)
	assert.Equal(t, "federalWages", scene.Active.Label)
	assert.Contains(t, scene.Tooltip.Lines, "Confidence Unknown")
	assert.Contains(t, scene.Tooltip.Lines, "Region: whole form (field not localized)")
}

func TestRender_ClipsOverflowingBox(t *testing.T) {
	target := wagesTarget()
	target.BoundingBox = box(0.9, 0.9, 0.2, 0.2)
	scene := Render(Input{PageNumber: 1, PageWidthPx: 100, PageHeightPx: 100, Highlight: target})
	require.NotNil(t, scene.Active)
	assert.LessOrEqual(t, scene.Active.Rect.Right(), 100.0)
	assert.LessOrEqual(t, scene.Active.Rect.Bottom(), 100.0)
}

func TestScene_WriteSVG(t *testing.T) {
	target := wagesTarget()
	target.FieldName = `wages<script>`
	scene := Render(Input{PageNumber: 1, PageWidthPx: 1000, PageHeightPx: 1000, Highlight: target, Fields: pageFields()})

	var buf bytes.Buffer
	require.NoError(t, scene.WriteSVG(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "wages&lt;script&gt;")

	marker := strings.Index(out, `class="marker`)
	highlight := strings.Index(out, `class="highlight`)
	require.NotEqual(t, -1, marker)
	require.NotEqual(t, -1, highlight)
	assert.Less(t, marker, highlight, "active highlight is painted last")
}
