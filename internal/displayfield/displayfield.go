// Package displayfield builds the field list shown beside the document. A form
// type with a configured schema lists the schema's fields in schema order, even
// those the extractor never found; any other form lists whatever provenance it has.
package displayfield

import (
	"strings"
	"unicode"

	"github.com/jackzampolin/provlink/internal/confidence"
	"github.com/jackzampolin/provlink/internal/provenance"
)

// Kind distinguishes the DisplayField variants.
type Kind string

const (
	KindSchema   Kind = "schema"
	KindInferred Kind = "inferred"
)

// FieldDef is one entry of a form schema.
type FieldDef struct {
	Name  string `mapstructure:"name" yaml:"name" json:"name"`
	Label string `mapstructure:"label" yaml:"label" json:"label"`
}

// Schema maps a form type to its ordered field definitions.
type Schema map[string][]FieldDef

// DisplayField is either a SchemaField or an InferredField.
type DisplayField interface {
	Kind() Kind
	Name() string
	FormType() string
	Label() string
	// Provenance returns the field's provenance, or false when none was extracted.
	Provenance() (provenance.FieldProvenance, bool)
	Class() confidence.Classification

	isDisplayField()
}

type entry struct {
	name     string
	formType string
	label    string
	prov     *provenance.FieldProvenance
	class    confidence.Classification
}

func (e entry) Name() string { return e.name }

func (e entry) FormType() string { return e.formType }

func (e entry) Label() string { return e.label }

func (e entry) Class() confidence.Classification { return e.class }

func (e entry) Provenance() (provenance.FieldProvenance, bool) {
	if e.prov == nil {
		return provenance.FieldProvenance{}, false
	}
	return *e.prov, true
}

func (entry) isDisplayField() {}

// SchemaField comes from a configured form schema.
type SchemaField struct {
	entry
	Def FieldDef
}

// Kind implements DisplayField.
func (SchemaField) Kind() Kind { return KindSchema }

// InferredField was discovered in provenance for a form with no schema.
type InferredField struct {
	entry
}

// Kind implements DisplayField.
func (InferredField) Kind() Kind { return KindInferred }

// Build lists display fields for forms in provenance order.
func Build(schema Schema, forms []provenance.FormProvenance) []DisplayField {
	out := []DisplayField{}
	for _, form := range forms {
		if defs, ok := schema[form.FormType]; ok && len(defs) > 0 {
			for _, def := range defs {
				label := def.Label
				if label == "" {
					label = Humanize(def.Name)
				}
				out = append(out, SchemaField{
					entry: newEntry(def.Name, form.FormType, label, findField(form, def.Name)),
					Def:   def,
				})
			}
			continue
		}
		for i := range form.Fields {
			f := form.Fields[i]
			out = append(out, InferredField{
				entry: newEntry(f.FieldName, form.FormType, Humanize(f.FieldName), &f),
			})
		}
	}
	return out
}

func newEntry(name, formType, label string, prov *provenance.FieldProvenance) entry {
	e := entry{name: name, formType: formType, label: label, prov: prov}
	if prov != nil {
		e.class = confidence.Classify(prov.Confidence)
	} else {
		e.class = confidence.For(confidence.TierUnknown)
	}
	return e
}

func findField(form provenance.FormProvenance, name string) *provenance.FieldProvenance {
	for i := range form.Fields {
		if form.Fields[i].FieldName == name {
			f := form.Fields[i]
			return &f
		}
	}
	return nil
}

// Humanize turns a camelCase or snake_case field name into a title:
// "federalWages" becomes "Federal Wages".
func Humanize(name string) string {
	var b strings.Builder
	prevLower := false
	upperNext := true
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ':
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			upperNext = true
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			b.WriteByte(' ')
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		b.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return b.String()
}

// View is the JSON shape of a display field for the field list panel.
type View struct {
	Kind           Kind                      `json:"kind"`
	FieldName      string                    `json:"fieldName"`
	FormType       string                    `json:"formType"`
	Label          string                    `json:"label"`
	Value          string                    `json:"value,omitempty"`
	PageNumber     int                       `json:"pageNumber,omitempty"`
	HasProvenance  bool                      `json:"hasProvenance"`
	HasRegion      bool                      `json:"hasRegion"`
	Confidence     *float64                  `json:"confidence,omitempty"`
	ConfidenceText string                    `json:"confidenceText,omitempty"`
	Class          confidence.Classification `json:"class"`
}

// ToView flattens f for output.
func ToView(f DisplayField) View {
	v := View{
		Kind:      f.Kind(),
		FieldName: f.Name(),
		FormType:  f.FormType(),
		Label:     f.Label(),
		Class:     f.Class(),
	}
	if p, ok := f.Provenance(); ok {
		v.HasProvenance = true
		v.HasRegion = p.HasRegion()
		v.PageNumber = p.PageNumber
		v.Confidence = p.Confidence
		v.ConfidenceText = confidence.FormatPercent(p.Confidence)
		v.Value = p.ProcessedValue
		if v.Value == "" {
			v.Value = p.RawValue
		}
	}
	return v
}

// Views flattens a field list.
func Views(fields []DisplayField) []View {
	out := make([]View, 0, len(fields))
	for _, f := range fields {
		out = append(out, ToView(f))
	}
	return out
}
