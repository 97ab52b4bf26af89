// Package document fetches a submitted document and its provenance from the
// storage collaborator and prepares it for review.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackzampolin/provlink/internal/provenance"
)

var (
	// ErrNotFound is returned when storage has no such document.
	ErrNotFound = errors.New("document not found")

	// ErrUnsupportedContent is returned for content that cannot be paged.
	ErrUnsupportedContent = errors.New("unsupported document content")

	// ErrTooLarge is returned when a storage response exceeds the body limit.
	ErrTooLarge = errors.New("document too large")
)

// Ref identifies a document within a submission.
type Ref struct {
	SubmissionID string `json:"submission_id"`
	DocumentID   string `json:"document_id"`
}

// Validate checks that both ids are present.
func (r Ref) Validate() error {
	if strings.TrimSpace(r.SubmissionID) == "" {
		return errors.New("submission_id is required")
	}
	if strings.TrimSpace(r.DocumentID) == "" {
		return errors.New("document_id is required")
	}
	return nil
}

func (r Ref) String() string {
	return r.SubmissionID + "/" + r.DocumentID
}

// Payload is the storage collaborator's description of a document. Content is
// inline (base64 or a data URL) or referenced by URL; provenance likewise.
type Payload struct {
	FileName      string          `json:"fileName"`
	ContentType   string          `json:"contentType,omitempty"`
	Content       string          `json:"content,omitempty"`
	URL           string          `json:"url,omitempty"`
	Provenance    json.RawMessage `json:"provenance,omitempty"`
	ProvenanceURL string          `json:"provenanceUrl,omitempty"`
}

// InlineProvenance returns the inline provenance as raw JSON text. Storage may
// send it as an array or as a string holding the serialized array.
func (p Payload) InlineProvenance() string {
	raw := strings.TrimSpace(string(p.Provenance))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(p.Provenance, &s); err == nil {
			return s
		}
	}
	return raw
}

// Source is a fetched document with its content resolved to bytes.
type Source struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Bytes       []byte `json:"bytes"`
	Provenance  string `json:"provenance"`
}

// Fetcher retrieves documents from storage.
type Fetcher interface {
	Fetch(ctx context.Context, ref Ref) (*Source, error)
}

// ExtractedDocument is a loaded document ready for review. It is built once per
// load and replaced wholesale when the reviewer switches documents.
type ExtractedDocument struct {
	Ref         Ref                         `json:"ref"`
	FileName    string                      `json:"fileName"`
	ContentType string                      `json:"contentType"`
	Bytes       []byte                      `json:"-"`
	PageCount   int                         `json:"pageCount"`
	Provenance  []provenance.FormProvenance `json:"provenance"`
	Report      provenance.Report           `json:"provenanceReport"`
}

// Load fetches ref, counts its pages and parses its provenance. Malformed
// provenance does not fail the load; the document is still reviewable.
func Load(ctx context.Context, f Fetcher, ref Ref, logger *slog.Logger) (*ExtractedDocument, error) {
	if logger == nil {
		logger = slog.Default()
	}
	src, err := f.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", ref, err)
	}

	contentType := src.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = DetectContentType(src.FileName, src.Bytes)
	}
	pages, err := CountPages(contentType, src.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", ref, err)
	}

	forms, report := provenance.ParseWithReport(src.Provenance, logger.With("document", ref.String()))

	logger.Info("document loaded",
		"document", ref.String(),
		"content_type", contentType,
		"pages", pages,
		"forms", len(forms))

	return &ExtractedDocument{
		Ref:         ref,
		FileName:    src.FileName,
		ContentType: contentType,
		Bytes:       src.Bytes,
		PageCount:   pages,
		Provenance:  forms,
		Report:      report,
	}, nil
}
