package schematron

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/eu-einvoice/internal/model"
)

// svrlNamespace is the Schematron Validation Report Language namespace.
const svrlNamespace = "http://purl.oclc.org/dsdl/svrl"

// parseSVRL extracts rule violations and advisory findings from an SVRL
// report. Failed asserts become errors, successful reports become warnings.
func parseSVRL(svrl []byte) (*Report, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(svrl); err != nil {
		return nil, model.NewParseError("svrl", "malformed validation report", err)
	}
	root := tree.Root()
	if root == nil {
		return nil, model.NewParseError("svrl", "empty validation report", nil)
	}

	report := &Report{}
	collect(root, &report.Errors, &report.Warnings)
	return report, nil
}

func collect(el *etree.Element, errors, warnings *[]string) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "failed-assert":
			if text := findingText(child); text != "" {
				*errors = append(*errors, text)
			}
		case "successful-report":
			if text := findingText(child); text != "" {
				*warnings = append(*warnings, text)
			}
		default:
			collect(child, errors, warnings)
		}
	}
}

func findingText(finding *etree.Element) string {
	for _, child := range finding.ChildElements() {
		if child.Tag == "text" {
			return strings.TrimSpace(child.Text())
		}
	}
	return ""
}
