package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jackzampolin/provlink/internal/home"
)

// DirFetcher serves documents stored under the home data directory. It stands in
// for the storage service during local development.
type DirFetcher struct {
	home *home.Dir
}

// NewDirFetcher creates a fetcher rooted at h.
func NewDirFetcher(h *home.Dir) *DirFetcher {
	return &DirFetcher{home: h}
}

// Fetch reads document.json from the document directory. Content not inlined in
// the manifest is read from the file it names; provenance not inlined is read
// from provenance.json when present.
func (f *DirFetcher) Fetch(_ context.Context, ref Ref) (*Source, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	dir, err := f.home.DocumentDir(ref.SubmissionID, ref.DocumentID)
	if err != nil {
		return nil, err
	}

	manifest, err := os.ReadFile(filepath.Join(dir, home.ManifestFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(manifest, &p); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	src := &Source{FileName: p.FileName, ContentType: p.ContentType}
	if p.Content != "" {
		b, ct, err := DecodeContent(p.Content)
		if err != nil {
			return nil, err
		}
		src.Bytes = b
		if src.ContentType == "" {
			src.ContentType = ct
		}
	} else {
		if p.FileName == "" {
			return nil, fmt.Errorf("%w: manifest names no file", ErrUnsupportedContent)
		}
		b, err := os.ReadFile(filepath.Join(dir, filepath.Base(p.FileName)))
		if err != nil {
			return nil, fmt.Errorf("failed to read document content: %w", err)
		}
		src.Bytes = b
	}

	if len(p.Provenance) > 0 {
		src.Provenance = p.InlineProvenance()
	} else if b, err := os.ReadFile(filepath.Join(dir, home.ProvenanceFileName)); err == nil {
		src.Provenance = string(b)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read provenance: %w", err)
	}
	return src, nil
}

// Put writes a document into the data directory in the layout Fetch reads.
func (f *DirFetcher) Put(ref Ref, fileName string, content []byte, provenanceJSON string) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	dir, err := f.home.EnsureDocumentDir(ref.SubmissionID, ref.DocumentID)
	if err != nil {
		return err
	}
	fileName = filepath.Base(fileName)
	if err := os.WriteFile(filepath.Join(dir, fileName), content, 0o644); err != nil {
		return fmt.Errorf("failed to write document content: %w", err)
	}
	if provenanceJSON != "" {
		if err := os.WriteFile(filepath.Join(dir, home.ProvenanceFileName), []byte(provenanceJSON), 0o644); err != nil {
			return fmt.Errorf("failed to write provenance: %w", err)
		}
	}
	manifest, err := json.MarshalIndent(Payload{
		FileName:    fileName,
		ContentType: DetectContentType(fileName, content),
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, home.ManifestFileName), manifest, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
