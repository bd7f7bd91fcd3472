package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/eu-einvoice/internal/cii"
	"github.com/rezonia/eu-einvoice/internal/profile"
)

var validateProfile string

var validateCmd = &cobra.Command{
	Use:   "validate <invoice.xml>",
	Short: "Validate an e-invoice against its profile's rule set",
	Long: `Validate e-invoice XML against the Schematron-derived rule set of
its profile. Without --profile, the profile is taken from the document's
guideline identifier. XRECHNUNG documents are additionally checked
against the EN 16931 baseline rules.

Exits non-zero when the document violates the rule set.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateProfile, "profile", "p", "", "Profile to validate against (default: from the document)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var prof profile.Profile
	if validateProfile != "" {
		prof, err = profile.Parse(validateProfile)
	} else {
		var doc *cii.Document
		doc, err = cii.Parse(data)
		if err == nil {
			prof, err = profile.FromGuideline(doc.Context.GuidelineID)
		}
	}
	if err != nil {
		return err
	}

	runner := buildRunner()
	if runner == nil {
		return errors.New("no rule-set engine configured, set --stylesheet-dir and install an XSLT processor")
	}

	report, err := runner.Validate(cmd.Context(), data, prof)
	if err != nil {
		return err
	}

	for _, warning := range report.Warnings {
		logger.Warn().Msg(warning)
	}
	for _, e := range report.Errors {
		logger.Error().Msg(e)
	}

	if !report.Valid() {
		return fmt.Errorf("%d rule violation(s)", len(report.Errors))
	}

	fmt.Printf("%s is a valid %s e-invoice\n", args[0], prof)
	return nil
}
