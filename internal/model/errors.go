package model

import "fmt"

// MappingError represents a failed generation of a single invoice, e.g. a
// required reference that could not be resolved
type MappingError struct {
	Invoice string
	Field   string
	Message string
	Cause   error
}

func (e *MappingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Invoice, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Invoice, e.Field, e.Message)
}

func (e *MappingError) Unwrap() error {
	return e.Cause
}

// NewMappingError creates a new mapping error
func NewMappingError(invoice, field, message string, cause error) *MappingError {
	return &MappingError{
		Invoice: invoice,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ParseError represents a failed import of a document, e.g. malformed XML
// or a PDF without a machine-readable payload
type ParseError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error
func NewParseError(source, message string, cause error) *ParseError {
	return &ParseError{
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a broken deployment, e.g. a code list without a
// default code or a profile without a rule-set resource. Config errors are
// fatal and must not be retried per invoice.
type ConfigError struct {
	Component string
	Message   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Component, e.Message)
}

// NewConfigError creates a new configuration error
func NewConfigError(component, message string) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
	}
}
