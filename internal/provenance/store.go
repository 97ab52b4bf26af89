package provenance

import "sort"

// LookupField returns the first field named fieldName across all forms, in
// provenance order. When two forms define the same field name the earlier form
// wins; callers that know the form type should use the resolver instead.
func LookupField(forms []FormProvenance, fieldName string) (FieldProvenance, bool) {
	for _, form := range forms {
		for _, field := range form.Fields {
			if field.FieldName == fieldName {
				return field, true
			}
		}
	}
	return FieldProvenance{}, false
}

// PageField is a field together with the form that produced it.
type PageField struct {
	FormType string          `json:"formType"`
	Field    FieldProvenance `json:"field"`
}

// Store is the read-only provenance for one loaded document. It is built once per
// document load and replaced, never mutated, when the document changes.
type Store struct {
	forms  []FormProvenance
	byPage map[int][]PageField
}

// NewStore indexes forms by the page each field claims. The field's own page is
// used even when it differs from the form's primary page.
func NewStore(forms []FormProvenance) *Store {
	s := &Store{
		forms:  forms,
		byPage: make(map[int][]PageField),
	}
	for _, form := range forms {
		for _, field := range form.Fields {
			s.byPage[field.PageNumber] = append(s.byPage[field.PageNumber], PageField{
				FormType: form.FormType,
				Field:    field,
			})
		}
	}
	return s
}

// Empty returns a store with no provenance.
func Empty() *Store {
	return NewStore(nil)
}

// Forms returns the forms in extraction order.
func (s *Store) Forms() []FormProvenance {
	if s == nil {
		return nil
	}
	return s.forms
}

// Field looks up a field by name, first match in provenance order.
func (s *Store) Field(name string) (FieldProvenance, bool) {
	if s == nil {
		return FieldProvenance{}, false
	}
	return LookupField(s.forms, name)
}

// FieldsOnPage returns every field localized to the given page.
func (s *Store) FieldsOnPage(page int) []PageField {
	if s == nil {
		return nil
	}
	return s.byPage[page]
}

// Pages returns the sorted list of pages that carry at least one field.
func (s *Store) Pages() []int {
	if s == nil {
		return nil
	}
	pages := make([]int, 0, len(s.byPage))
	for p := range s.byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// Len returns the number of forms.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.forms)
}

// FieldCount returns the number of fields across all forms.
func (s *Store) FieldCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, fields := range s.byPage {
		n += len(fields)
	}
	return n
}
