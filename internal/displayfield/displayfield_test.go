package displayfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/provlink/internal/confidence"
	"github.com/jackzampolin/provlink/internal/provenance"
)

func forms() []provenance.FormProvenance {
	return []provenance.FormProvenance{
		{
			FormType:   "W-2",
			PageNumber: 1,
			Fields: []provenance.FieldProvenance{
				{FieldName: "employerName", PageNumber: 1, Confidence: provenance.Float(0.6), RawValue: "ACME"},
				{FieldName: "federalWages", PageNumber: 1, Confidence: provenance.Float(0.95),
					BoundingBox: &provenance.BoundingBox{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.05},
					RawValue:    "$52,000.00", ProcessedValue: "52000"},
			},
		},
		{
			FormType:   "1099-INT",
			PageNumber: 3,
			Fields: []provenance.FieldProvenance{
				{FieldName: "interest_income", PageNumber: 3, Confidence: provenance.Float(0.8)},
			},
		},
	}
}

func TestBuild_SchemaOrderAndMissingFields(t *testing.T) {
	schema := Schema{"W-2": {
		{Name: "federalWages", Label: "Box 1 Wages"},
		{Name: "socialSecurityWages"},
		{Name: "employerName"},
	}}

	fields := Build(schema, forms())
	require.Len(t, fields, 4)

	assert.Equal(t, KindSchema, fields[0].Kind())
	assert.Equal(t, "Box 1 Wages", fields[0].Label())
	assert.Equal(t, confidence.TierHigh, fields[0].Class().Tier)

	assert.Equal(t, "socialSecurityWages", fields[1].Name())
	assert.Equal(t, "Social Security Wages", fields[1].Label())
	_, ok := fields[1].Provenance()
	assert.False(t, ok, "schema field the extractor missed")
	assert.Equal(t, confidence.TierUnknown, fields[1].Class().Tier)

	assert.Equal(t, "employerName", fields[2].Name())
	assert.Equal(t, confidence.TierLow, fields[2].Class().Tier)

	assert.Equal(t, KindInferred, fields[3].Kind(), "form without schema is inferred")
	assert.Equal(t, "1099-INT", fields[3].FormType())
	assert.Equal(t, "Interest Income", fields[3].Label())
}

func TestBuild_NoSchema(t *testing.T) {
	fields := Build(nil, forms())
	require.Len(t, fields, 3)
	for _, f := range fields {
		assert.Equal(t, KindInferred, f.Kind())
	}
	assert.Empty(t, Build(nil, nil))
}

func TestBuild_Variants(t *testing.T) {
	fields := Build(Schema{"W-2": {{Name: "federalWages"}}}, forms())
	switch f := fields[0].(type) {
	case SchemaField:
		assert.Equal(t, "federalWages", f.Def.Name)
	default:
		t.Fatalf("expected SchemaField, got %T", f)
	}
	_, ok := fields[1].(InferredField)
	assert.True(t, ok)
}

func TestToView(t *testing.T) {
	views := Views(Build(nil, forms()))
	require.Len(t, views, 3)

	assert.Equal(t, "ACME", views[0].Value, "raw value when nothing processed")
	assert.False(t, views[0].HasRegion)
	assert.True(t, views[0].HasProvenance)

	assert.Equal(t, "52000", views[1].Value)
	assert.True(t, views[1].HasRegion)
	assert.Equal(t, "95%", views[1].ConfidenceText)
	assert.Equal(t, 1, views[1].PageNumber)
}

func TestHumanize(t *testing.T) {
	for in, want := range map[string]string{
		"federalWages":    "Federal Wages",
		"state_wages":     "State Wages",
		"EIN":             "EIN",
		"box12a":          "Box12a",
		"":                "",
		"employer-name":   "Employer Name",
		"medicareWagesX2": "Medicare Wages X2",
	} {
		assert.Equal(t, want, Humanize(in), in)
	}
}
