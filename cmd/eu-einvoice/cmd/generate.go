package cmd

import (
	"fmt"
	"os"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rezonia/eu-einvoice/internal/generate"
	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/profile"
)

var (
	generateProfile string
	generateOutput  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <invoice.json>",
	Short: "Generate e-invoice XML from an invoice JSON file",
	Long: `Generate Cross-Industry-Invoice XML from a commercial invoice.

The invoice is read as JSON from the given file. The XML is written to
stdout unless --output is given. Lint warnings go to stderr.

Examples:
  eu-einvoice generate invoice.json --profile XRECHNUNG
  eu-einvoice generate invoice.json --profile "EN 16931" -o invoice.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateProfile, "profile", "p", string(profile.EN16931), "Target profile (BASIC, EN 16931, EXTENDED, XRECHNUNG)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default: stdout)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prof, err := profile.Parse(generateProfile)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var invoice model.Invoice
	if err := gojson.Unmarshal(data, &invoice); err != nil {
		return fmt.Errorf("failed to parse invoice file: %w", err)
	}

	for _, warning := range generate.Lint(&invoice, prof) {
		logger.Warn().Msg(warning)
	}

	store, err := loadStore()
	if err != nil {
		return err
	}

	xmlBytes, err := generate.Generate(&invoice, prof, store)
	if err != nil {
		return err
	}

	if generateOutput == "" {
		_, err = os.Stdout.Write(xmlBytes)
		return err
	}
	return os.WriteFile(generateOutput, xmlBytes, 0o644)
}
