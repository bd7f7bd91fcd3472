package cmd

import (
	"os"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rezonia/eu-einvoice/internal/importer"
)

var importOutput string

var importCmd = &cobra.Command{
	Use:   "import <invoice.xml|invoice.pdf>",
	Short: "Parse a received e-invoice into an import record",
	Long: `Parse a received e-invoice into an editable import record.

XML files are read directly, hybrid PDFs via their embedded payload. The
record, including the validation outcome, is printed as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Output file (default: stdout)")
}

func runImport(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}

	parser := importer.NewParser(buildRunner(), store, nil)
	rec, err := parser.ParseFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out, err := gojson.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if importOutput == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(importOutput, out, 0o644)
}
