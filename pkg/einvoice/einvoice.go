// Package einvoice provides a public API for the EU e-invoice bridge.
//
// It converts commercial invoices to Cross-Industry-Invoice XML and back,
// for the Factur-X / XRechnung profiles, and validates documents against
// the profile rule sets.
//
// Example usage:
//
//	bridge, err := einvoice.New(einvoice.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	xml, warnings, err := bridge.Generate(&invoice, einvoice.ProfileXRechnung)
package einvoice

import (
	"github.com/rezonia/eu-einvoice/internal/importer"
	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/profile"
	"github.com/rezonia/eu-einvoice/internal/schematron"
)

// Re-export core types for public API
type (
	Invoice            = model.Invoice
	LineItem           = model.LineItem
	TaxRow             = model.TaxRow
	TaxTemplate        = model.TaxTemplate
	TaxTemplateRate    = model.TaxTemplateRate
	PaymentScheduleRow = model.PaymentScheduleRow
	Address            = model.Address
	Contact            = model.Contact
	ElectronicAddress  = model.ElectronicAddress
	BankDetails        = model.BankDetails
	Attachment         = model.Attachment
	Profile            = profile.Profile
	Report             = schematron.Report
	ImportRecord       = importer.ImportRecord
	ImportItem         = importer.ImportItem
	ImportTax          = importer.ImportTax
	ImportPaymentTerm  = importer.ImportPaymentTerm
	ImportAddress      = importer.ImportAddress
	Directory          = importer.Directory
	PurchaseOrder      = importer.PurchaseOrder
	PurchaseOrderItem  = importer.PurchaseOrderItem
)

// Re-export profile constants
const (
	ProfileBasic     = profile.Basic
	ProfileEN16931   = profile.EN16931
	ProfileExtended  = profile.Extended
	ProfileXRechnung = profile.XRechnung
)

// Re-export charge type constants
const (
	ChargeActual           = model.ChargeActual
	ChargeOnNetTotal       = model.ChargeOnNetTotal
	ChargeOnPreviousAmount = model.ChargeOnPreviousAmount
	ChargeOnPreviousTotal  = model.ChargeOnPreviousTotal
	ChargeOnItemQuantity   = model.ChargeOnItemQuantity
)

// Re-export error types
type (
	MappingError = model.MappingError
	ParseError   = model.ParseError
	ConfigError  = model.ConfigError
)

// ParseProfile converts a profile name into a Profile.
func ParseProfile(s string) (Profile, error) {
	return profile.Parse(s)
}

// CompareProfiles returns -1, 0 or 1 according to the profile order
// BASIC < EN 16931 < XRECHNUNG < EXTENDED.
func CompareProfiles(a, b Profile) int {
	return profile.Compare(a, b)
}
