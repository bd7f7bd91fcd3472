package schematron

import (
	"context"
	"path/filepath"

	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/profile"
)

// stylesheets maps each profile to its rule-set stylesheet.
var stylesheets = map[profile.Profile]string{
	profile.Basic:     "Factur-X_1.07.2_BASIC.xsl",
	profile.EN16931:   "EN16931-CII-validation-preprocessed.xsl",
	profile.Extended:  "Factur-X_1.07.2_EXTENDED.xsl",
	profile.XRechnung: "XRechnung-CII-validation.xsl",
}

// Report is the outcome of a rule-set validation.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether the document passed without rule violations.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

// Runner validates documents against the profile rule sets.
type Runner struct {
	engine Engine
	dir    string
}

// NewRunner creates a runner over the stylesheet directory. The engine may
// come from DetectEngine or be supplied by the caller.
func NewRunner(engine Engine, stylesheetDir string) *Runner {
	return &Runner{engine: engine, dir: stylesheetDir}
}

// Validate applies the profile's rule set to a document. For XRECHNUNG the
// underlying EN 16931 rule set is applied as well and its findings are
// appended, since the national rules only extend the European norm.
func (r *Runner) Validate(ctx context.Context, doc []byte, p profile.Profile) (*Report, error) {
	report, err := r.run(ctx, doc, p)
	if err != nil {
		return nil, err
	}

	if p == profile.XRechnung {
		base, err := r.run(ctx, doc, profile.EN16931)
		if err != nil {
			return nil, err
		}
		report.Errors = append(report.Errors, base.Errors...)
		report.Warnings = append(report.Warnings, base.Warnings...)
	}
	return report, nil
}

func (r *Runner) run(ctx context.Context, doc []byte, p profile.Profile) (*Report, error) {
	if r.engine == nil {
		return nil, model.NewConfigError("schematron", "no XSLT engine available")
	}
	name, ok := stylesheets[p]
	if !ok {
		return nil, model.NewConfigError("schematron", "no rule set for profile "+string(p))
	}

	svrl, err := r.engine.Transform(ctx, doc, filepath.Join(r.dir, name))
	if err != nil {
		return nil, model.NewParseError("schematron", "transformation failed", err)
	}
	return parseSVRL(svrl)
}
