package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/tiff"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
	ContentTypeTIFF = "image/tiff"
)

// DetectContentType sniffs b, falling back to the file extension.
func DetectContentType(fileName string, b []byte) string {
	if bytes.HasPrefix(b, []byte("II*\x00")) || bytes.HasPrefix(b, []byte("MM\x00*")) {
		return ContentTypeTIFF
	}
	if len(b) > 0 {
		if ct := http.DetectContentType(b); ct != "application/octet-stream" {
			return stripParams(ct)
		}
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); ct != "" {
		return stripParams(ct)
	}
	return "application/octet-stream"
}

// CountPages returns the number of pages in a document. Scanned images are a
// single page.
func CountPages(contentType string, b []byte) (int, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("%w: empty content", ErrUnsupportedContent)
	}
	switch stripParams(contentType) {
	case ContentTypePDF:
		n, err := api.PageCount(bytes.NewReader(b), nil)
		if err != nil {
			return 0, fmt.Errorf("failed to read PDF: %w", err)
		}
		return n, nil
	case ContentTypeTIFF:
		if _, err := tiff.DecodeConfig(bytes.NewReader(b)); err != nil {
			return 0, fmt.Errorf("failed to read TIFF: %w", err)
		}
		return 1, nil
	case ContentTypePNG, ContentTypeJPEG:
		if _, _, err := image.DecodeConfig(bytes.NewReader(b)); err != nil {
			return 0, fmt.Errorf("failed to read image: %w", err)
		}
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}
}

// DecodeContent decodes inline content: a data URL or bare base64. It returns
// the content type declared by a data URL, if any.
func DecodeContent(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	contentType := ""
	if strings.HasPrefix(s, "data:") {
		meta, data, ok := strings.Cut(s[len("data:"):], ",")
		if !ok {
			return nil, "", fmt.Errorf("%w: malformed data URL", ErrUnsupportedContent)
		}
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("%w: data URL is not base64", ErrUnsupportedContent)
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		s = data
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid base64: %v", ErrUnsupportedContent, err)
	}
	return b, contentType, nil
}

func stripParams(ct string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}
