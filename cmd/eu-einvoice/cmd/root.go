package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rezonia/eu-einvoice/internal/codelist"
	"github.com/rezonia/eu-einvoice/internal/schematron"
)

var (
	version = "1.0.0"

	// Global flags
	verbose       bool
	codeListDir   string
	stylesheetDir string
	xsltCommand   string

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "eu-einvoice",
	Short: "Generate, validate and import EU e-invoices (Factur-X / XRechnung)",
	Long: `eu-einvoice converts commercial invoices to Cross-Industry-Invoice XML
and back, for the profiles BASIC, EN 16931, EXTENDED and XRECHNUNG.

Examples:
  # Generate an e-invoice from an invoice JSON file
  eu-einvoice generate invoice.json --profile XRECHNUNG

  # Validate an e-invoice against its profile's rule set
  eu-einvoice validate invoice.xml

  # Import a received e-invoice (XML or hybrid PDF)
  eu-einvoice import supplier-invoice.pdf

  # Embed generated XML into a PDF (ZUGFeRD)
  eu-einvoice embed invoice.pdf invoice.xml --profile "EN 16931"`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&codeListDir, "code-list-dir", "", "Directory with code-list files (env: EINVOICE_CODELIST_DIR)")
	rootCmd.PersistentFlags().StringVar(&stylesheetDir, "stylesheet-dir", "", "Directory with rule-set stylesheets (env: EINVOICE_STYLESHEET_DIR)")
	rootCmd.PersistentFlags().StringVar(&xsltCommand, "xslt-command", "", "External XSLT processor binary (env: EINVOICE_XSLT_COMMAND)")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if codeListDir == "" {
		codeListDir = os.Getenv("EINVOICE_CODELIST_DIR")
	}
	if stylesheetDir == "" {
		stylesheetDir = os.Getenv("EINVOICE_STYLESHEET_DIR")
	}
	if xsltCommand == "" {
		xsltCommand = os.Getenv("EINVOICE_XSLT_COMMAND")
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// loadStore reads the configured code lists into a fresh store.
func loadStore() (*codelist.MemoryStore, error) {
	store := codelist.NewMemoryStore()
	if codeListDir != "" {
		if err := store.LoadDir(codeListDir); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// buildRunner wires the rule-set runner, or returns nil when no engine or
// stylesheet directory is configured.
func buildRunner() *schematron.Runner {
	var engine schematron.Engine
	if xsltCommand != "" {
		engine = schematron.NewCommandEngine(xsltCommand, "-s:{src}", "-xsl:{xsl}")
	} else if detected := schematron.DetectEngine(); detected != nil {
		engine = detected
	}
	if engine == nil || stylesheetDir == "" {
		return nil
	}
	return schematron.NewRunner(engine, stylesheetDir)
}
