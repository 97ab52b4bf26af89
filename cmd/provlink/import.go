package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/provlink/internal/config"
	"github.com/jackzampolin/provlink/internal/document"
	"github.com/jackzampolin/provlink/internal/home"
	"github.com/jackzampolin/provlink/internal/provenance"
)

var importProvenance string

var importCmd = &cobra.Command{
	Use:   "import <submission-id> <document-id> <file>",
	Short: "Add a document to the local document store",
	Long: `Copy a document (PDF, PNG, JPEG or TIFF) and its provenance into the home
directory so that "storage.type: dir" can serve it.

Examples:
  provlink import sub-1 w2 ./w2.pdf --provenance ./w2.provenance.json
  provlink import sub-1 scan ./scan.png`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := document.Ref{SubmissionID: args[0], DocumentID: args[1]}
		if err := ref.Validate(); err != nil {
			return err
		}

		content, err := os.ReadFile(args[2])
		if err != nil {
			return err
		}
		ct := document.DetectContentType(args[2], content)
		pages, err := document.CountPages(ct, content)
		if err != nil {
			return err
		}
		fmt.Printf("Document: %s, %d page(s)\n", ct, pages)

		var raw string
		if importProvenance != "" {
			b, err := os.ReadFile(importProvenance)
			if err != nil {
				return err
			}
			raw = string(b)
			forms, report := provenance.ParseWithReport(raw, nil)
			if report.Rejected {
				return fmt.Errorf("provenance file is not usable: %s", report.Error)
			}
			if report.DroppedForms > 0 || report.DroppedFields > 0 {
				fmt.Printf("Warning: %d form(s) and %d field(s) will be ignored\n", report.DroppedForms, report.DroppedFields)
			}
			fmt.Printf("Provenance: %d form(s)\n", len(forms))
		}

		h, err := storageHome()
		if err != nil {
			return err
		}
		if err := document.NewDirFetcher(h).Put(ref, args[2], content, raw); err != nil {
			return err
		}
		fmt.Printf("Imported %s into %s\n", ref, h.DataPath())
		return nil
	},
}

// storageHome returns the home directory dir storage reads from: storage.dir when
// configured, otherwise --home.
func storageHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	cm, err := openConfig(h)
	if err != nil {
		return nil, err
	}
	if dir := cm.Get().Storage.Dir; dir != "" && cm.Get().Storage.Type == config.StorageDir {
		return home.New(dir)
	}
	return h, nil
}

func init() {
	importCmd.Flags().StringVarP(&importProvenance, "provenance", "p", "", "Provenance JSON file")
	rootCmd.AddCommand(importCmd)
}
