package schematron_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/profile"
	"github.com/rezonia/eu-einvoice/internal/schematron"
)

// stubEngine returns a canned SVRL report per stylesheet path.
type stubEngine struct {
	results map[string][]byte
	err     error
	calls   []string
}

func (s *stubEngine) Transform(_ context.Context, _ []byte, stylesheet string) ([]byte, error) {
	s.calls = append(s.calls, filepath.Base(stylesheet))
	if s.err != nil {
		return nil, s.err
	}
	return s.results[filepath.Base(stylesheet)], nil
}

const failingSVRL = `<?xml version="1.0" encoding="UTF-8"?>
<svrl:schematron-output xmlns:svrl="http://purl.oclc.org/dsdl/svrl">
  <svrl:active-pattern/>
  <svrl:fired-rule context="//rsm:CrossIndustryInvoice"/>
  <svrl:failed-assert test="..." location="...">
    <svrl:text>
      [BR-02] An Invoice shall have an Invoice number.
    </svrl:text>
  </svrl:failed-assert>
  <svrl:successful-report test="..." location="...">
    <svrl:text>[BR-CL-25] Endpoint identifier scheme should be coded.</svrl:text>
  </svrl:successful-report>
</svrl:schematron-output>`

const cleanSVRL = `<?xml version="1.0" encoding="UTF-8"?>
<svrl:schematron-output xmlns:svrl="http://purl.oclc.org/dsdl/svrl">
  <svrl:fired-rule context="//rsm:CrossIndustryInvoice"/>
</svrl:schematron-output>`

func TestValidateCollectsFindings(t *testing.T) {
	engine := &stubEngine{results: map[string][]byte{
		"EN16931-CII-validation-preprocessed.xsl": []byte(failingSVRL),
	}}
	runner := schematron.NewRunner(engine, "/opt/stylesheets")

	report, err := runner.Validate(context.Background(), []byte("<doc/>"), profile.EN16931)
	require.NoError(t, err)

	assert.False(t, report.Valid())
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "[BR-02] An Invoice shall have an Invoice number.", report.Errors[0])
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "[BR-CL-25] Endpoint identifier scheme should be coded.", report.Warnings[0])
}

func TestValidateCleanDocument(t *testing.T) {
	engine := &stubEngine{results: map[string][]byte{
		"Factur-X_1.07.2_BASIC.xsl": []byte(cleanSVRL),
	}}
	runner := schematron.NewRunner(engine, "/opt/stylesheets")

	report, err := runner.Validate(context.Background(), []byte("<doc/>"), profile.Basic)
	require.NoError(t, err)
	assert.True(t, report.Valid())
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
}

func TestValidateXRechnungRunsBothRuleSets(t *testing.T) {
	engine := &stubEngine{results: map[string][]byte{
		"XRechnung-CII-validation.xsl":            []byte(cleanSVRL),
		"EN16931-CII-validation-preprocessed.xsl": []byte(failingSVRL),
	}}
	runner := schematron.NewRunner(engine, "/opt/stylesheets")

	report, err := runner.Validate(context.Background(), []byte("<doc/>"), profile.XRechnung)
	require.NoError(t, err)

	// the national rule set runs first, then the European norm
	assert.Equal(t, []string{
		"XRechnung-CII-validation.xsl",
		"EN16931-CII-validation-preprocessed.xsl",
	}, engine.calls)
	assert.False(t, report.Valid())
	assert.Len(t, report.Errors, 1)
}

func TestValidateWithoutEngineFails(t *testing.T) {
	runner := schematron.NewRunner(nil, "/opt/stylesheets")

	_, err := runner.Validate(context.Background(), []byte("<doc/>"), profile.EN16931)
	require.Error(t, err)

	var configErr *model.ConfigError
	assert.ErrorAs(t, err, &configErr)
}

func TestValidateTransformFailure(t *testing.T) {
	engine := &stubEngine{err: errors.New("saxon exploded")}
	runner := schematron.NewRunner(engine, "/opt/stylesheets")

	_, err := runner.Validate(context.Background(), []byte("<doc/>"), profile.EN16931)
	require.Error(t, err)

	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "saxon exploded")
}

func TestValidateMalformedSVRL(t *testing.T) {
	engine := &stubEngine{results: map[string][]byte{
		"EN16931-CII-validation-preprocessed.xsl": []byte("garbage"),
	}}
	runner := schematron.NewRunner(engine, "/opt/stylesheets")

	_, err := runner.Validate(context.Background(), []byte("<doc/>"), profile.EN16931)
	require.Error(t, err)

	var parseErr *model.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
