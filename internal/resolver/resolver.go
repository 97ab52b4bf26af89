// Package resolver maps a logical field to the best available provenance region.
package resolver

import "github.com/jackzampolin/provlink/internal/provenance"

// FormRef identifies the form a field was clicked in.
type FormRef struct {
	FormType string `json:"formType"`
}

// Outcome records which rung of the fallback hierarchy produced a target.
type Outcome string

const (
	OutcomeField Outcome = "field"
	OutcomeForm  Outcome = "form"
	OutcomeNone  Outcome = "none"
)

// Resolve returns the highlight target for fieldName within form, or nil when the
// form has no provenance at all. The hierarchy is:
//
//  1. the first form of the requested type, and within it the first field of that
//     name, when that field carries a bounding box;
//  2. otherwise that form's own region, page and confidence, still labelled with
//     the requested field name. A later duplicate of the field with a box does
//     not stand in for the first one;
//  3. otherwise nil.
//
// Two forms of the same type (two W-2s, say) resolve against the first one in
// provenance order. A FormRef without a type joins on field name alone.
func Resolve(forms []provenance.FormProvenance, fieldName string, form FormRef) *provenance.HighlightTarget {
	target, _ := ResolveWithOutcome(forms, fieldName, form)
	return target
}

// ResolveWithOutcome is Resolve plus the rung that matched.
func ResolveWithOutcome(forms []provenance.FormProvenance, fieldName string, form FormRef) (*provenance.HighlightTarget, Outcome) {
	if form.FormType == "" {
		return resolveByName(forms, fieldName)
	}

	fp, ok := findForm(forms, form.FormType)
	if !ok {
		return nil, OutcomeNone
	}

	field, found := firstField(fp, fieldName)
	if found && field.BoundingBox != nil {
		return fieldTarget(fp.FormType, field), OutcomeField
	}

	target := &provenance.HighlightTarget{
		FieldName:        fieldName,
		FormType:         fp.FormType,
		PageNumber:       fp.PageNumber,
		BoundingBox:      copyBox(fp.BoundingBox),
		Confidence:       copyFloat(fp.FormConfidence),
		Granularity:      provenance.GranularityForm,
		ExtractionReason: fp.ExtractionReason,
	}
	// The form-level region stands in for the field, but the extracted values
	// still belong to the field when it is present without a region.
	if found {
		target.RawValue = field.RawValue
		target.ProcessedValue = field.ProcessedValue
	}
	return target, OutcomeForm
}

// resolveByName joins on the first field of that name across all forms, as
// provenance.LookupField does. Without a form there is no fallback region.
func resolveByName(forms []provenance.FormProvenance, fieldName string) (*provenance.HighlightTarget, Outcome) {
	for _, fp := range forms {
		if field, ok := firstField(fp, fieldName); ok {
			if field.BoundingBox == nil {
				return nil, OutcomeNone
			}
			return fieldTarget(fp.FormType, field), OutcomeField
		}
	}
	return nil, OutcomeNone
}

func firstField(fp provenance.FormProvenance, fieldName string) (provenance.FieldProvenance, bool) {
	for _, field := range fp.Fields {
		if field.FieldName == fieldName {
			return field, true
		}
	}
	return provenance.FieldProvenance{}, false
}

func findForm(forms []provenance.FormProvenance, formType string) (provenance.FormProvenance, bool) {
	for _, fp := range forms {
		if fp.FormType == formType {
			return fp, true
		}
	}
	return provenance.FormProvenance{}, false
}

func fieldTarget(formType string, field provenance.FieldProvenance) *provenance.HighlightTarget {
	return &provenance.HighlightTarget{
		FieldName:      field.FieldName,
		FormType:       formType,
		PageNumber:     field.PageNumber,
		BoundingBox:    copyBox(field.BoundingBox),
		Confidence:     copyFloat(field.Confidence),
		Granularity:    provenance.GranularityField,
		RawValue:       field.RawValue,
		ProcessedValue: field.ProcessedValue,
	}
}

func copyBox(b *provenance.BoundingBox) *provenance.BoundingBox {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
