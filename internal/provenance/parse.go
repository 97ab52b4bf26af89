package provenance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// formSchema describes the structural minimum of one form entry.
// Field entries are checked separately so one bad field does not drop its form.
const formSchema = `{
	"type": "object",
	"required": ["formType"],
	"properties": {
		"formType": {"type": "string", "minLength": 1},
		"pageNumber": {"type": ["integer", "null"], "minimum": 1},
		"boundingBox": {"$ref": "#/$defs/box"},
		"formConfidence": {"type": ["number", "null"]},
		"extractionReason": {"type": ["string", "null"]},
		"fields": {"type": ["array", "null"]}
	},
	"$defs": {
		"box": {
			"type": ["object", "null"],
			"required": ["x", "y", "width", "height"],
			"properties": {
				"x": {"type": "number"},
				"y": {"type": "number"},
				"width": {"type": "number"},
				"height": {"type": "number"}
			}
		}
	}
}`

const fieldSchema = `{
	"type": "object",
	"required": ["fieldName"],
	"properties": {
		"fieldName": {"type": "string", "minLength": 1},
		"pageNumber": {"type": ["integer", "null"], "minimum": 1},
		"boundingBox": {
			"type": ["object", "null"],
			"required": ["x", "y", "width", "height"],
			"properties": {
				"x": {"type": "number"},
				"y": {"type": "number"},
				"width": {"type": "number"},
				"height": {"type": "number"}
			}
		},
		"confidence": {"type": ["number", "null"]},
		"rawValue": {"type": ["string", "null"]},
		"processedValue": {"type": ["string", "null"]}
	}
}`

var (
	compiledForm  = jsonschema.MustCompileString("form.json", formSchema)
	compiledField = jsonschema.MustCompileString("field.json", fieldSchema)
)

// Report summarizes what a lenient parse had to discard.
type Report struct {
	// Rejected is set when the payload as a whole was unusable.
	Rejected      bool   `json:"rejected"`
	Error         string `json:"error,omitempty"`
	DroppedForms  int    `json:"droppedForms"`
	DroppedFields int    `json:"droppedFields"`
}

// Parse decodes an untrusted provenance payload. It never fails: an absent payload,
// malformed JSON or a non-array document all yield an empty slice. Entries that do not
// match the expected shape are dropped individually and logged.
func Parse(raw string, logger *slog.Logger) []FormProvenance {
	forms, _ := ParseWithReport(raw, logger)
	return forms
}

// ParseWithReport is Parse plus a summary of discarded input, for callers that
// record parse quality.
func ParseWithReport(raw string, logger *slog.Logger) ([]FormProvenance, Report) {
	var report Report
	if logger == nil {
		logger = slog.Default()
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return []FormProvenance{}, report
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Warn("malformed provenance payload", "error", err, "bytes", len(raw))
		report.Rejected = true
		report.Error = err.Error()
		return []FormProvenance{}, report
	}

	forms := make([]FormProvenance, 0, len(entries))
	for i, entry := range entries {
		form, dropped, err := parseForm(entry, logger)
		if err != nil {
			logger.Warn("dropping provenance form entry", "index", i, "error", err)
			report.DroppedForms++
			continue
		}
		report.DroppedFields += dropped
		forms = append(forms, form)
	}
	return forms, report
}

func parseForm(entry json.RawMessage, logger *slog.Logger) (FormProvenance, int, error) {
	if err := validate(compiledForm, entry); err != nil {
		return FormProvenance{}, 0, err
	}

	var shell struct {
		FormProvenance
		Fields []json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(entry, &shell); err != nil {
		return FormProvenance{}, 0, fmt.Errorf("decode form: %w", err)
	}

	form := shell.FormProvenance
	form.FormConfidence = clampConfidence(form.FormConfidence)
	if form.BoundingBox != nil {
		box := form.BoundingBox.Normalize()
		form.BoundingBox = &box
	}

	dropped := 0
	form.Fields = make([]FieldProvenance, 0, len(shell.Fields))
	for j, rawField := range shell.Fields {
		field, err := parseField(rawField, form.PageNumber)
		if err != nil {
			logger.Warn("dropping provenance field entry",
				"form_type", form.FormType, "index", j, "error", err)
			dropped++
			continue
		}
		if field.BoundingBox != nil && !field.BoundingBox.InBounds() {
			logger.Debug("field bounding box exceeds page",
				"form_type", form.FormType, "field", field.FieldName)
		}
		form.Fields = append(form.Fields, field)
	}
	return form, dropped, nil
}

func parseField(raw json.RawMessage, formPage int) (FieldProvenance, error) {
	if err := validate(compiledField, raw); err != nil {
		return FieldProvenance{}, err
	}
	var field FieldProvenance
	if err := json.Unmarshal(raw, &field); err != nil {
		return FieldProvenance{}, fmt.Errorf("decode field: %w", err)
	}
	if field.PageNumber < 1 {
		field.PageNumber = formPage
	}
	if field.BoundingBox != nil {
		box := field.BoundingBox.Normalize()
		field.BoundingBox = &box
	}
	field.Confidence = clampConfidence(field.Confidence)
	return field, nil
}

func validate(schema *jsonschema.Schema, raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("entry does not match schema: %w", err)
	}
	return nil
}

func clampConfidence(c *float64) *float64 {
	if c == nil {
		return nil
	}
	v := *c
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	return &v
}
