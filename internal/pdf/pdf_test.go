package pdf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/pdf"
	"github.com/rezonia/eu-einvoice/internal/profile"
)

func TestExtractXMLRejectsBrokenPDF(t *testing.T) {
	_, _, err := pdf.ExtractXML([]byte("%PDF-1.7 truncated"))
	require.Error(t, err)

	var parseErr *model.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestEmbedXMLSkipsXRechnung(t *testing.T) {
	// XRECHNUNG invoices are transmitted as plain XML, the PDF must pass
	// through untouched
	pdfData := []byte("%PDF-1.7 original bytes")
	out, err := pdf.EmbedXML(pdfData, []byte("<xml/>"), profile.XRechnung)
	require.NoError(t, err)
	assert.Equal(t, pdfData, out)
}
