package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/provlink/internal/api"
	"github.com/jackzampolin/provlink/internal/confidence"
	"github.com/jackzampolin/provlink/internal/provenance"
)

var inspectField string

var inspectCmd = &cobra.Command{
	Use:   "inspect <provenance.json>",
	Short: "Summarize a provenance file offline",
	Long: `Parse a provenance file the way the server does and print each form and
field with its page, region and confidence tier. Entries the server would
ignore are counted.

Pass -o yaml or -o json for structured output.

Examples:
  provlink inspect w2.provenance.json
  provlink inspect w2.provenance.json --field federalWages
  provlink inspect w2.provenance.json -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		forms, report := provenance.ParseWithReport(string(b), nil)

		if inspectField != "" {
			field, ok := provenance.LookupField(forms, inspectField)
			if !ok {
				return fmt.Errorf("field %q not found", inspectField)
			}
			if cmd.Flags().Changed("output") {
				return api.Output(field)
			}
			printField(field)
			return nil
		}

		if cmd.Flags().Changed("output") {
			return api.Output(inspectResult{Forms: forms, Report: report})
		}
		printForms(forms, report)
		return nil
	},
}

type inspectResult struct {
	Forms  []provenance.FormProvenance `json:"forms"`
	Report provenance.Report           `json:"report"`
}

var (
	tierColors = map[string]*color.Color{
		"success": color.New(color.FgGreen),
		"warning": color.New(color.FgYellow),
		"danger":  color.New(color.FgRed),
	}
	faint = color.New(color.Faint)
	bold  = color.New(color.Bold)
)

func printForms(forms []provenance.FormProvenance, report provenance.Report) {
	if report.Rejected {
		color.Red("Provenance rejected: %s", report.Error)
		return
	}
	if len(forms) == 0 {
		faint.Println("No provenance.")
	}
	for _, form := range forms {
		bold.Printf("%s", form.FormType)
		fmt.Printf("  page %d", form.PageNumber)
		if form.FormConfidence != nil {
			fmt.Print("  ")
			printTier(form.FormConfidence)
		}
		fmt.Println()
		for _, field := range form.Fields {
			fmt.Print("  ")
			printField(field)
		}
	}
	if report.DroppedForms > 0 || report.DroppedFields > 0 {
		color.Yellow("Ignored %d form(s) and %d field(s) that did not match the expected shape",
			report.DroppedForms, report.DroppedFields)
	}
}

func printField(field provenance.FieldProvenance) {
	fmt.Printf("%-24s p%-3d ", field.FieldName, field.PageNumber)
	if b := field.BoundingBox; b != nil {
		fmt.Printf("[%.3f %.3f %.3f %.3f] ", b.X, b.Y, b.Width, b.Height)
	} else {
		faint.Print("[no region]                 ")
	}
	printTier(field.Confidence)
	fmt.Println()
}

func printTier(c *float64) {
	class := confidence.Classify(c)
	text := class.Label
	if pct := confidence.FormatPercent(c); pct != "" {
		text = fmt.Sprintf("%s %s", pct, class.Label)
	}
	if col, ok := tierColors[class.ColorRole]; ok {
		col.Print(text)
		return
	}
	faint.Print(text)
}

func init() {
	inspectCmd.Flags().StringVar(&inspectField, "field", "", "Show a single field")
	rootCmd.AddCommand(inspectCmd)
}
