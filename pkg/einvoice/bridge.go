package einvoice

import (
	"context"

	"github.com/rezonia/eu-einvoice/internal/codelist"
	"github.com/rezonia/eu-einvoice/internal/generate"
	"github.com/rezonia/eu-einvoice/internal/importer"
	"github.com/rezonia/eu-einvoice/internal/pdf"
	"github.com/rezonia/eu-einvoice/internal/schematron"
)

// Options configures a Bridge.
type Options struct {
	// CodeListDir holds the code-list files consulted during mapping.
	CodeListDir string

	// StylesheetDir holds the rule-set stylesheets per profile.
	StylesheetDir string

	// Engine runs the rule-set stylesheets. When nil, an external XSLT
	// processor is auto-detected; without one, validation is unavailable.
	Engine schematron.Engine

	// Directory is the optional host system consulted by the import
	// heuristics.
	Directory Directory
}

// Bridge bundles the generation, validation and import services.
type Bridge struct {
	store  *codelist.MemoryStore
	runner *schematron.Runner
	parser *importer.Parser
}

// New creates a Bridge from options.
func New(opts Options) (*Bridge, error) {
	store := codelist.NewMemoryStore()
	if opts.CodeListDir != "" {
		if err := store.LoadDir(opts.CodeListDir); err != nil {
			return nil, err
		}
	}

	engine := opts.Engine
	if engine == nil {
		if detected := schematron.DetectEngine(); detected != nil {
			engine = detected
		}
	}

	var runner *schematron.Runner
	if engine != nil && opts.StylesheetDir != "" {
		runner = schematron.NewRunner(engine, opts.StylesheetDir)
	}

	return &Bridge{
		store:  store,
		runner: runner,
		parser: importer.NewParser(runner, store, opts.Directory),
	}, nil
}

// Generate builds the e-invoice XML for an invoice and returns it together
// with the lint warnings.
func (b *Bridge) Generate(invoice *Invoice, p Profile) ([]byte, []string, error) {
	warnings := generate.Lint(invoice, p)
	xml, err := generate.Generate(invoice, p, b.store)
	if err != nil {
		return nil, warnings, err
	}
	return xml, warnings, nil
}

// Lint checks an invoice for constructs that degrade during mapping.
func (b *Bridge) Lint(invoice *Invoice, p Profile) []string {
	return generate.Lint(invoice, p)
}

// Validate runs the profile's rule set against e-invoice XML.
func (b *Bridge) Validate(ctx context.Context, xml []byte, p Profile) (*Report, error) {
	if b.runner == nil {
		return nil, &ConfigError{Component: "schematron", Message: "no rule-set engine available"}
	}
	return b.runner.Validate(ctx, xml, p)
}

// ParseImport parses a received e-invoice document into an import record.
func (b *Bridge) ParseImport(ctx context.Context, xml []byte) (*ImportRecord, error) {
	return b.parser.Parse(ctx, xml)
}

// ParseImportFile parses a received .xml or hybrid .pdf file.
func (b *Bridge) ParseImportFile(ctx context.Context, path string) (*ImportRecord, error) {
	return b.parser.ParseFile(ctx, path)
}

// ReapplyHeuristics reruns the host-directory heuristics on a record.
func (b *Bridge) ReapplyHeuristics(rec *ImportRecord) error {
	return b.parser.Reapply(rec)
}

// ExtractPDF returns the embedded invoice XML of a hybrid PDF.
func ExtractPDF(pdfData []byte) (string, []byte, error) {
	return pdf.ExtractXML(pdfData)
}

// EmbedPDF embeds invoice XML into a PDF under the Factur-X conventions.
func EmbedPDF(pdfData, xmlData []byte, p Profile) ([]byte, error) {
	return pdf.EmbedXML(pdfData, xmlData, p)
}
