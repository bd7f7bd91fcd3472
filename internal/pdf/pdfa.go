package pdf

import (
	"bytes"
	"errors"
	"os/exec"
)

// convertToPDFA converts PDF data to PDF/A-3 using Ghostscript. The hybrid
// invoice standards require the carrier PDF to be PDF/A-3; when Ghostscript
// is not installed the caller keeps the original data.
func convertToPDFA(pdfData []byte) ([]byte, error) {
	gs, err := exec.LookPath("gs")
	if err != nil {
		return nil, errors.New("ghostscript not installed")
	}

	cmd := exec.Command(gs,
		"-q",
		"-sstdout=%stderr",
		"-dPDFA=3",
		"-dBATCH",
		"-dNOPAUSE",
		"-dPDFACompatibilityPolicy=2",
		"-sColorConversionStrategy=RGB",
		"-sDEVICE=pdfwrite",
		"-sOutputFile=-",
		"-",
	)
	cmd.Stdin = bytes.NewReader(pdfData)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.New("ghostscript error: " + stderr.String())
	}
	return stdout.Bytes(), nil
}
