package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/eu-einvoice/internal/pdf"
	"github.com/rezonia/eu-einvoice/internal/profile"
)

var (
	embedProfile string
	embedOutput  string
)

var embedCmd = &cobra.Command{
	Use:   "embed <invoice.pdf> <invoice.xml>",
	Short: "Embed e-invoice XML into a PDF (ZUGFeRD)",
	Long: `Embed generated e-invoice XML into a PDF as the factur-x.xml
attachment. When Ghostscript is installed, the PDF is converted to
PDF/A-3 first. For the XRECHNUNG profile the PDF is left unchanged,
since that profile does not support embedding.`,
	Args: cobra.ExactArgs(2),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().StringVarP(&embedProfile, "profile", "p", string(profile.EN16931), "Profile of the embedded XML")
	embedCmd.Flags().StringVarP(&embedOutput, "output", "o", "", "Output file (default: overwrite the input PDF)")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	prof, err := profile.Parse(embedProfile)
	if err != nil {
		return err
	}

	pdfData, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	xmlData, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	result, err := pdf.EmbedXML(pdfData, xmlData, prof)
	if err != nil {
		return err
	}

	target := embedOutput
	if target == "" {
		target = args[0]
	}
	return os.WriteFile(target, result, 0o644)
}
