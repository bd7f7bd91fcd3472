// Package server exposes the e-invoice bridge over HTTP: generation of
// outgoing documents, rule-set validation and parsing of received ones.
package server

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/eu-einvoice/internal/cii"
	"github.com/rezonia/eu-einvoice/internal/codelist"
	"github.com/rezonia/eu-einvoice/internal/generate"
	"github.com/rezonia/eu-einvoice/internal/importer"
	"github.com/rezonia/eu-einvoice/internal/pdf"
	"github.com/rezonia/eu-einvoice/internal/profile"
	"github.com/rezonia/eu-einvoice/internal/schematron"
)

// Config holds server configuration
type Config struct {
	Address       string
	CodeListDir   string
	StylesheetDir string
	XSLTCommand   string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	Debug         bool
	Logger        zerolog.Logger
}

// Server represents the HTTP API server
type Server struct {
	config *Config
	router *gin.Engine
	store  *codelist.MemoryStore
	runner *schematron.Runner
	parser *importer.Parser
	log    zerolog.Logger
}

// NewServer creates a new API server. The directory may be nil when no
// host system is attached; the import heuristics then stay inactive.
func NewServer(config *Config, dir importer.Directory) (*Server, error) {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	store := codelist.NewMemoryStore()
	if config.CodeListDir != "" {
		if err := store.LoadDir(config.CodeListDir); err != nil {
			return nil, err
		}
	}

	var engine schematron.Engine
	if config.XSLTCommand != "" {
		engine = schematron.NewCommandEngine(config.XSLTCommand, "-s:{src}", "-xsl:{xsl}")
	} else if detected := schematron.DetectEngine(); detected != nil {
		engine = detected
	}

	var runner *schematron.Runner
	if engine != nil && config.StylesheetDir != "" {
		runner = schematron.NewRunner(engine, config.StylesheetDir)
	}

	s := &Server{
		config: config,
		router: router,
		store:  store,
		runner: runner,
		parser: importer.NewParser(runner, store, dir),
		log:    config.Logger,
	}

	router.Use(s.requestLogger())
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/generate", s.handleGenerate)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/import", s.handleImport)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.log.Info().Str("address", s.config.Address).Msg("starting server")
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	prof, err := profile.Parse(req.Profile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warnings := generate.Lint(&req.Invoice, prof)

	xmlBytes, err := generate.Generate(&req.Invoice, prof, s.store)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    err.Error(),
			"warnings": warnings,
		})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		XML:      string(xmlBytes),
		Warnings: warnings,
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return
	}

	prof, err := s.validationProfile(c.Query("profile"), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if s.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no rule-set engine deployed"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	report, err := s.runner.Validate(ctx, body, prof)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{
		Profile:  string(prof),
		Valid:    report.Valid(),
		Errors:   report.Errors,
		Warnings: report.Warnings,
	})
}

// validationProfile picks the rule set to validate against, either from
// the explicit query parameter or from the document's own guideline.
func (s *Server) validationProfile(query string, body []byte) (profile.Profile, error) {
	if query != "" {
		return profile.Parse(query)
	}
	doc, err := cii.Parse(body)
	if err != nil {
		return "", err
	}
	return profile.FromGuideline(doc.Context.GuidelineID)
}

func (s *Server) handleImport(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return
	}

	if bytes.HasPrefix(body, []byte("%PDF")) {
		_, body, err = pdf.ExtractXML(body)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	rec, err := s.parser.Parse(ctx, body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}
