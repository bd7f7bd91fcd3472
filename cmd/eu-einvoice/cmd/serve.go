package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/eu-einvoice/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for the e-invoice bridge.

The API provides endpoints for:
  - POST /api/v1/generate - Generate e-invoice XML from an invoice
  - POST /api/v1/validate - Validate an e-invoice rule set
  - POST /api/v1/import   - Parse a received e-invoice (XML or PDF)
  - GET  /health          - Health check

Examples:
  # Start server on default port
  eu-einvoice serve

  # Start on a custom port with rule-set validation
  eu-einvoice serve --address :8080 --stylesheet-dir ./schematron`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:       serverAddr,
		CodeListDir:   codeListDir,
		StylesheetDir: stylesheetDir,
		XSLTCommand:   xsltCommand,
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
		Debug:         serverDebug,
		Logger:        logger,
	}

	srv, err := server.NewServer(config, nil)
	if err != nil {
		return err
	}

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	return srv.Run()
}
