package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const w2Payload = `[
	{
		"formType": "W-2",
		"pageNumber": 1,
		"boundingBox": {"x": 0.05, "y": 0.05, "width": 0.9, "height": 0.5},
		"formConfidence": 0.88,
		"extractionReason": "matched W-2 layout",
		"fields": [
			{"fieldName": "federalWages", "pageNumber": 1,
			 "boundingBox": {"x": 0.1, "y": 0.2, "width": 0.3, "height": 0.05},
			 "confidence": 0.95, "rawValue": "$52,000.00", "processedValue": "52000"},
			{"fieldName": "employerName", "confidence": 0.72},
			{"fieldName": "stateWages", "pageNumber": 2,
			 "boundingBox": {"x": 0.1, "y": 0.6, "width": 0.2, "height": 0.04}}
		]
	},
	{
		"formType": "1099-INT",
		"pageNumber": 3,
		"fields": [
			{"fieldName": "interestIncome", "pageNumber": 3, "confidence": 0.4,
			 "boundingBox": {"x": 0.5, "y": 0.5, "width": 0.2, "height": 0.03}}
		]
	}
]`

func TestParse(t *testing.T) {
	t.Run("well formed payload keeps order and values", func(t *testing.T) {
		forms := Parse(w2Payload, nil)
		require.Len(t, forms, 2)

		assert.Equal(t, "W-2", forms[0].FormType)
		assert.Equal(t, "1099-INT", forms[1].FormType)
		require.NotNil(t, forms[0].FormConfidence)
		assert.Equal(t, 0.88, *forms[0].FormConfidence)
		assert.Equal(t, "matched W-2 layout", forms[0].ExtractionReason)

		wages := forms[0].Fields[0]
		assert.Equal(t, "federalWages", wages.FieldName)
		require.NotNil(t, wages.BoundingBox)
		assert.Equal(t, BoundingBox{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.05}, *wages.BoundingBox)
		assert.Equal(t, "$52,000.00", wages.RawValue)
		assert.Equal(t, "52000", wages.ProcessedValue)
	})

	t.Run("field without page inherits form page", func(t *testing.T) {
		forms := Parse(w2Payload, nil)
		employer := forms[0].Fields[1]
		assert.Equal(t, 1, employer.PageNumber)
		assert.False(t, employer.HasRegion())
	})

	t.Run("field keeps its own page when it differs from the form", func(t *testing.T) {
		forms := Parse(w2Payload, nil)
		assert.Equal(t, 2, forms[0].Fields[2].PageNumber)
	})

	for name, raw := range map[string]string{
		"empty":      "",
		"whitespace": "   ",
		"null":       "null",
		"truncated":  `[{"formType": "W-2"`,
		"object":     `{"formType": "W-2"}`,
		"string":     `"hello"`,
	} {
		t.Run("unusable payload yields empty: "+name, func(t *testing.T) {
			forms := Parse(raw, nil)
			require.NotNil(t, forms)
			assert.Empty(t, forms)
		})
	}

	t.Run("report marks malformed payload as rejected", func(t *testing.T) {
		_, report := ParseWithReport(`not json`, nil)
		assert.True(t, report.Rejected)
		assert.NotEmpty(t, report.Error)

		_, report = ParseWithReport("", nil)
		assert.False(t, report.Rejected)
	})

	t.Run("invalid entries are dropped individually", func(t *testing.T) {
		raw := `[
			{"pageNumber": 1, "fields": []},
			{"formType": "W-2", "pageNumber": 1, "fields": [
				{"pageNumber": 1},
				{"fieldName": "ok", "pageNumber": 1},
				{"fieldName": "badPage", "pageNumber": "one"}
			]}
		]`
		forms, report := ParseWithReport(raw, nil)
		require.Len(t, forms, 1)
		require.Len(t, forms[0].Fields, 1)
		assert.Equal(t, "ok", forms[0].Fields[0].FieldName)
		assert.Equal(t, 1, report.DroppedForms)
		assert.Equal(t, 2, report.DroppedFields)
	})

	t.Run("null optionals are accepted", func(t *testing.T) {
		raw := `[{"formType": "W-2", "pageNumber": 1, "boundingBox": null, "fields": [
			{"fieldName": "a", "pageNumber": 1, "boundingBox": null, "confidence": null}
		]}]`
		forms := Parse(raw, nil)
		require.Len(t, forms, 1)
		require.Len(t, forms[0].Fields, 1)
		assert.Nil(t, forms[0].Fields[0].BoundingBox)
		assert.Nil(t, forms[0].Fields[0].Confidence)
	})

	t.Run("confidence clamped and negative origin normalized", func(t *testing.T) {
		raw := `[{"formType": "W-2", "pageNumber": 1, "fields": [
			{"fieldName": "a", "pageNumber": 1, "confidence": 1.4,
			 "boundingBox": {"x": -0.01, "y": 0.5, "width": 0.2, "height": 0.1}},
			{"fieldName": "b", "pageNumber": 1, "confidence": -0.2}
		]}]`
		forms := Parse(raw, nil)
		require.Len(t, forms[0].Fields, 2)
		assert.Equal(t, 1.0, *forms[0].Fields[0].Confidence)
		assert.Equal(t, 0.0, forms[0].Fields[0].BoundingBox.X)
		assert.Equal(t, 0.0, *forms[0].Fields[1].Confidence)
	})
}

func TestBoundingBox_InBounds(t *testing.T) {
	assert.True(t, BoundingBox{X: 0, Y: 0.98, Width: 0.1, Height: 0.02}.InBounds())
	assert.True(t, BoundingBox{X: 0.9, Y: 0.9, Width: 0.11, Height: 0.11}.InBounds(), "small overshoot tolerated")
	assert.False(t, BoundingBox{X: 0.9, Y: 0.1, Width: 0.5, Height: 0.1}.InBounds())
	assert.False(t, BoundingBox{X: -0.1, Y: 0.1, Width: 0.5, Height: 0.1}.InBounds())
}

func TestLookupField(t *testing.T) {
	forms := Parse(w2Payload, nil)

	t.Run("finds field by exact name", func(t *testing.T) {
		field, ok := LookupField(forms, "interestIncome")
		require.True(t, ok)
		assert.Equal(t, 3, field.PageNumber)
	})

	t.Run("missing field", func(t *testing.T) {
		_, ok := LookupField(forms, "federalwages")
		assert.False(t, ok)
		_, ok = LookupField(nil, "federalWages")
		assert.False(t, ok)
	})

	t.Run("duplicate names resolve to first form in provenance order", func(t *testing.T) {
		dup := []FormProvenance{
			{FormType: "W-2", PageNumber: 1, Fields: []FieldProvenance{{FieldName: "wages", PageNumber: 1}}},
			{FormType: "W-2", PageNumber: 4, Fields: []FieldProvenance{{FieldName: "wages", PageNumber: 4}}},
		}
		field, ok := LookupField(dup, "wages")
		require.True(t, ok)
		assert.Equal(t, 1, field.PageNumber)
	})
}

func TestStore(t *testing.T) {
	store := NewStore(Parse(w2Payload, nil))

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 4, store.FieldCount())
	assert.Equal(t, []int{1, 2, 3}, store.Pages())

	page1 := store.FieldsOnPage(1)
	require.Len(t, page1, 2)
	assert.Equal(t, "federalWages", page1[0].Field.FieldName)
	assert.Equal(t, "W-2", page1[0].FormType)

	page2 := store.FieldsOnPage(2)
	require.Len(t, page2, 1)
	assert.Equal(t, "stateWages", page2[0].Field.FieldName)

	assert.Empty(t, store.FieldsOnPage(9))

	var nilStore *Store
	assert.Zero(t, nilStore.Len())
	assert.Empty(t, nilStore.FieldsOnPage(1))
	assert.Zero(t, Empty().FieldCount())
}

func TestHighlightTarget_Clone(t *testing.T) {
	orig := &HighlightTarget{
		FieldName:   "a",
		BoundingBox: &BoundingBox{X: 0.1},
		Confidence:  Float(0.5),
	}
	c := orig.Clone()
	c.BoundingBox.X = 0.9
	*c.Confidence = 0.1
	assert.Equal(t, 0.1, orig.BoundingBox.X)
	assert.Equal(t, 0.5, *orig.Confidence)

	var none *HighlightTarget
	assert.Nil(t, none.Clone())
}
