// Package cii models the UN/CEFACT Cross-Industry-Invoice trade document
// tree (context / header / agreement / delivery / settlement) used by the
// Factur-X and XRechnung profiles.
//
// The tree is value-oriented: mappers build it bottom-up and hand the
// finished document to Serialize; Parse produces the same structure from
// incoming bytes. Profile gating is the mapper's job, the tree serializes
// whatever is set.
package cii

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is a complete cross-industry invoice.
type Document struct {
	Context ExchangedContext
	Header  ExchangedDocument
	Trade   Trade
}

// ExchangedContext holds the business process and guideline identifiers.
type ExchangedContext struct {
	BusinessProcessID string
	GuidelineID       string
}

// ExchangedDocument is the document header.
type ExchangedDocument struct {
	ID        string
	TypeCode  string
	IssueDate time.Time
	Notes     []Note
}

// Note is a free-text note with an UNTDID 4451 subject code.
type Note struct {
	Content     string
	SubjectCode string
}

// Trade is the supply chain trade transaction.
type Trade struct {
	Items      []LineItem
	Agreement  TradeAgreement
	Delivery   TradeDelivery
	Settlement TradeSettlement
}

// TradeAgreement is the header trade agreement.
type TradeAgreement struct {
	BuyerReference       string
	Seller               TradeParty
	Buyer                TradeParty
	SellerOrder          ReferencedDocument
	BuyerOrder           ReferencedDocument
	AdditionalReferences []AdditionalReferencedDocument
}

// TradeParty is a seller, buyer or ship-to party.
type TradeParty struct {
	ID                string
	Name              string
	Contact           *TradeContact
	Address           *PostalAddress
	ElectronicAddress SchemeID
	TaxRegistrations  []SchemeID
}

// SchemeID is a scheme-tagged identifier.
type SchemeID struct {
	SchemeID string
	Value    string
}

// TradeContact is a contact person of a trade party.
type TradeContact struct {
	PersonName     string
	DepartmentName string
	Email          string
	Phone          string
	Fax            string
}

// PostalAddress is a postal trade address.
type PostalAddress struct {
	LineOne   string
	LineTwo   string
	Postcode  string
	CityName  string
	CountryID string
}

// ReferencedDocument points to another trade document.
type ReferencedDocument struct {
	IssuerAssignedID string
	IssueDate        time.Time
}

// AdditionalReferencedDocument is a supporting document, either linked by
// URI or embedded as a binary object.
type AdditionalReferencedDocument struct {
	IssuerAssignedID string
	URIID            string
	TypeCode         string
	Attachment       *BinaryObject
}

// BinaryObject is a base64-embedded attachment.
type BinaryObject struct {
	MimeCode string
	Filename string
	Base64   string
}

// LineItem is one included supply chain trade line item.
type LineItem struct {
	LineID     string
	Product    Product
	Agreement  LineAgreement
	Delivery   LineDelivery
	Settlement LineSettlement
}

// Product describes the traded product of a line.
type Product struct {
	SellerAssignedID string
	BuyerAssignedID  string
	Name             string
	Description      string
}

// LineAgreement carries the net price of a line.
type LineAgreement struct {
	NetAmount     decimal.Decimal
	BasisQuantity *Quantity
}

// Quantity is an amount with a UN/ECE unit code.
type Quantity struct {
	Amount   decimal.Decimal
	UnitCode string
}

// LineDelivery carries the billed quantity and delivery note reference.
type LineDelivery struct {
	BilledQuantity Quantity
	DeliveryNote   ReferencedDocument
}

// LineSettlement carries the line tax and monetary summation.
type LineSettlement struct {
	TradeTax  LineTradeTax
	LineTotal decimal.Decimal
}

// LineTradeTax is the tax applicable to a single line.
type LineTradeTax struct {
	TypeCode            string
	CategoryCode        string
	ExemptionReasonCode string
	RatePercent         *decimal.Decimal
}

// TradeDelivery is the header trade delivery.
type TradeDelivery struct {
	ShipTo         *TradeParty
	OccurrenceDate time.Time
}

// TradeSettlement is the header trade settlement.
type TradeSettlement struct {
	CurrencyCode     string
	PaymentMeans     PaymentMeans
	TradeTaxes       []TradeTax
	BillingPeriod    Period
	ServiceCharges   []LogisticsServiceCharge
	Terms            []PaymentTerms
	Summation        MonetarySummation
	InvoiceReference ReferencedDocument
}

// PaymentMeans carries the payment type code and payee bank details.
type PaymentMeans struct {
	TypeCode    string
	IBAN        string
	AccountName string
	BIC         string
}

// TradeTax is an applicable trade tax at document level.
type TradeTax struct {
	CalculatedAmount    *decimal.Decimal
	TypeCode            string
	ExemptionReasonCode string
	BasisAmount         *decimal.Decimal
	CategoryCode        string
	RatePercent         *decimal.Decimal
}

// Period is a billing period.
type Period struct {
	Start time.Time
	End   time.Time
}

// LogisticsServiceCharge is a document-level service charge with nested VAT.
type LogisticsServiceCharge struct {
	Description   string
	AppliedAmount decimal.Decimal
	Taxes         []TradeTax
}

// PaymentTerms is one payment-terms entry.
type PaymentTerms struct {
	Description    string
	Due            time.Time
	PartialAmounts []CurrencyAmount
	Discount       *DiscountTerms
}

// CurrencyAmount is an amount optionally tagged with a currency.
type CurrencyAmount struct {
	Amount   decimal.Decimal
	Currency string
}

// DiscountTerms is a structured early-payment discount.
type DiscountTerms struct {
	BasisDate          time.Time
	BasisAmount        *decimal.Decimal
	CalculationPercent *decimal.Decimal
	ActualAmount       *decimal.Decimal
}

// MonetarySummation is the header monetary summation.
type MonetarySummation struct {
	LineTotal      *decimal.Decimal
	ChargeTotal    *decimal.Decimal
	AllowanceTotal *decimal.Decimal
	TaxBasisTotal  *decimal.Decimal
	TaxTotals      []CurrencyAmount
	GrandTotal     *decimal.Decimal
	PrepaidTotal   *decimal.Decimal
	DueAmount      *decimal.Decimal
}

// Ptr returns a pointer to d, for optional amount fields.
func Ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
