package home

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the default name for the provlink home directory.
	DefaultDirName = ".provlink"

	// DataDirName is the subdirectory for locally stored submissions.
	DataDirName = "data"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// ManifestFileName describes one stored document.
	ManifestFileName = "document.json"

	// ProvenanceFileName holds a stored document's provenance when the manifest
	// does not carry it inline.
	ProvenanceFileName = "provenance.json"
)

// ErrInvalidID is returned for submission or document ids that would escape the data directory.
var ErrInvalidID = errors.New("invalid id")

// Dir represents the provlink home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.provlink).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// DataPath returns the path to the data directory.
func (d *Dir) DataPath() string {
	return filepath.Join(d.path, DataDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Create data directory (this also creates the parent)
	if err := os.MkdirAll(d.DataPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// SubmissionDir returns the directory holding a submission's documents.
func (d *Dir) SubmissionDir(submissionID string) (string, error) {
	if err := checkID(submissionID); err != nil {
		return "", err
	}
	return filepath.Join(d.DataPath(), "submissions", submissionID), nil
}

// DocumentDir returns the directory of one stored document:
//
//	data/submissions/<submission>/<document>/document.json
//	data/submissions/<submission>/<document>/provenance.json
//	data/submissions/<submission>/<document>/<file name>
func (d *Dir) DocumentDir(submissionID, documentID string) (string, error) {
	sub, err := d.SubmissionDir(submissionID)
	if err != nil {
		return "", err
	}
	if err := checkID(documentID); err != nil {
		return "", err
	}
	return filepath.Join(sub, documentID), nil
}

// EnsureDocumentDir creates the directory for a stored document.
func (d *Dir) EnsureDocumentDir(submissionID, documentID string) (string, error) {
	dir, err := d.DocumentDir(submissionID, documentID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}
	return dir, nil
}

func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
