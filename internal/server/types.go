package server

import (
	"github.com/rezonia/eu-einvoice/internal/model"
)

// GenerateRequest is the request for the generate endpoint
type GenerateRequest struct {
	Profile string        `json:"profile"`
	Invoice model.Invoice `json:"invoice"`
}

// GenerateResponse is the response for the generate endpoint
type GenerateResponse struct {
	XML      string   `json:"xml"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Profile  string   `json:"profile"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
