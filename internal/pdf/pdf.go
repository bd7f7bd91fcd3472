// Package pdf extracts machine-readable invoice data from hybrid PDFs and
// embeds generated XML into outgoing PDFs (ZUGFeRD / Factur-X).
package pdf

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/profile"
)

// embeddedFilename is the attachment name mandated by the Factur-X standard.
const embeddedFilename = "factur-x.xml"

// knownFilenames are the attachment names used by the various hybrid
// invoice standards, in the order we look for them.
var knownFilenames = []string{
	"factur-x.xml",
	"zugferd-invoice.xml",
	"ZUGFeRD-invoice.xml",
	"xrechnung.xml",
	"order-x.xml",
}

// ExtractXML returns the name and content of the embedded invoice XML of a
// hybrid PDF. A PDF without a machine-readable payload is a parse error.
func ExtractXML(pdfData []byte) (string, []byte, error) {
	rs := bytes.NewReader(pdfData)
	attachments, err := api.ExtractAttachmentsRaw(rs, "", nil, nil)
	if err != nil {
		return "", nil, model.NewParseError("pdf", "failed to read attachments", err)
	}

	for _, name := range knownFilenames {
		for _, att := range attachments {
			if att.FileName != name {
				continue
			}
			data, err := io.ReadAll(att.Reader)
			if err != nil {
				return "", nil, model.NewParseError("pdf", "failed to read attachment "+name, err)
			}
			return att.FileName, data, nil
		}
	}

	// fall back to the first XML attachment, whatever its name
	for _, att := range attachments {
		if !strings.HasSuffix(strings.ToLower(att.FileName), ".xml") {
			continue
		}
		data, err := io.ReadAll(att.Reader)
		if err != nil {
			return "", nil, model.NewParseError("pdf", "failed to read attachment "+att.FileName, err)
		}
		return att.FileName, data, nil
	}

	return "", nil, model.NewParseError("pdf", "no machine-readable data was found in the PDF file", nil)
}

// EmbedXML returns the PDF with the invoice XML attached under the
// standard Factur-X name. XRECHNUNG does not support embedding into PDF,
// so the PDF is returned unchanged for that profile. When Ghostscript is
// installed the PDF is converted to PDF/A-3 first.
func EmbedXML(pdfData, xmlData []byte, p profile.Profile) ([]byte, error) {
	if p == profile.XRechnung {
		return pdfData, nil
	}

	if converted, err := convertToPDFA(pdfData); err == nil {
		pdfData = converted
	}

	// pdfcpu attaches files by path, so stage the XML in a temp dir under
	// its standard name
	dir, err := os.MkdirTemp("", "einvoice-embed-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	xmlPath := filepath.Join(dir, embeddedFilename)
	if err := os.WriteFile(xmlPath, xmlData, 0o600); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	rs := bytes.NewReader(pdfData)
	if err := api.AddAttachments(rs, &out, []string{xmlPath}, false, nil); err != nil {
		return nil, model.NewParseError("pdf", "failed to attach invoice XML", err)
	}
	return out.Bytes(), nil
}
