// Package schematron validates CII documents against the profile rule
// sets by applying the official Schematron-derived XSLT stylesheets and
// reading back the SVRL report.
package schematron

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Engine applies an XSLT stylesheet to a document and returns the
// transformation result. The stylesheets ship as XSLT 2.0, so the engine
// is typically backed by an external Saxon-compatible processor.
type Engine interface {
	Transform(ctx context.Context, doc []byte, stylesheet string) ([]byte, error)
}

// CommandEngine runs an external XSLT processor. The argument template is
// expanded per invocation: {xsl} becomes the stylesheet path and {src} the
// path of a temp file holding the input document.
type CommandEngine struct {
	path    string
	args    []string
	timeout time.Duration
}

// NewCommandEngine creates an engine around an external processor binary.
func NewCommandEngine(path string, args ...string) *CommandEngine {
	return &CommandEngine{
		path:    path,
		args:    args,
		timeout: 60 * time.Second,
	}
}

// DetectEngine looks for a usable XSLT processor in common locations and
// returns a ready engine, or nil when none is installed.
func DetectEngine() *CommandEngine {
	candidates := []struct {
		name string
		args []string
	}{
		{"saxon", []string{"-s:{src}", "-xsl:{xsl}"}},
		{"saxonb-xslt", []string{"-s:{src}", "-xsl:{xsl}"}},
		{"xslt3", []string{"-s:{src}", "-xsl:{xsl}"}},
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c.name); err == nil {
			return NewCommandEngine(path, c.args...)
		}
	}
	return nil
}

// SetTimeout sets the execution timeout per transformation.
func (e *CommandEngine) SetTimeout(d time.Duration) {
	e.timeout = d
}

// Transform implements Engine.
func (e *CommandEngine) Transform(ctx context.Context, doc []byte, stylesheet string) ([]byte, error) {
	// The processor requires a file path for the source document
	tmpFile, err := os.CreateTemp("", "einvoice-*.xml")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := tmpFile.Write(doc); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpFile.Close()

	args := make([]string, 0, len(e.args))
	for _, a := range e.args {
		a = strings.ReplaceAll(a, "{xsl}", stylesheet)
		a = strings.ReplaceAll(a, "{src}", tmpFile.Name())
		args = append(args, a)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w, stderr: %s", e.path, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
