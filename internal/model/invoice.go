// Package model defines the commercial invoice aggregate that feeds the
// e-invoice generator. The aggregate is owned by the caller and is only
// read during mapping; all host lookups (addresses, bank accounts, tax
// templates) are resolved into it up front.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeType classifies a tax/charge row.
type ChargeType string

const (
	ChargeActual            ChargeType = "Actual"
	ChargeOnNetTotal        ChargeType = "On Net Total"
	ChargeOnPreviousAmount  ChargeType = "On Previous Row Amount"
	ChargeOnPreviousTotal   ChargeType = "On Previous Row Total"
	ChargeOnItemQuantity    ChargeType = "On Item Quantity"
)

// DiscountType classifies an early-payment discount.
type DiscountType string

const (
	DiscountPercentage DiscountType = "Percentage"
	DiscountAmount     DiscountType = "Amount"
)

// Invoice is the commercial invoice aggregate.
type Invoice struct {
	ID          string    `json:"id"`
	PostingDate time.Time `json:"posting_date"`

	// Credit note / correction references. The referenced document's issue
	// date must be supplied alongside its id.
	IsReturn          bool      `json:"is_return,omitempty"`
	ReturnAgainst     string    `json:"return_against,omitempty"`
	ReturnAgainstDate time.Time `json:"return_against_date,omitempty"`
	AmendedFrom       string    `json:"amended_from,omitempty"`
	AmendedFromDate   time.Time `json:"amended_from_date,omitempty"`

	Company      string `json:"company"`
	CompanyTaxID string `json:"company_tax_id,omitempty"`
	CompanyEmail string `json:"company_email,omitempty"`
	CompanyPhone string `json:"company_phone,omitempty"`
	CompanyFax   string `json:"company_fax,omitempty"`
	// SellerID is the supplier number the buyer assigned to the seller.
	SellerID string `json:"seller_id,omitempty"`

	CustomerID    string `json:"customer_id,omitempty"`
	CustomerName  string `json:"customer_name"`
	CustomerTaxID string `json:"customer_tax_id,omitempty"`
	ContactEmail  string `json:"contact_email,omitempty"`

	BuyerReference string    `json:"buyer_reference,omitempty"`
	PONumber       string    `json:"po_no,omitempty"`
	PODate         time.Time `json:"po_date,omitempty"`

	SellerAddress   *Address `json:"seller_address,omitempty"`
	BuyerAddress    *Address `json:"buyer_address,omitempty"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`

	SellerContact *Contact `json:"seller_contact,omitempty"`
	BuyerContact  *Contact `json:"buyer_contact,omitempty"`

	SellerElectronicAddress ElectronicAddress `json:"seller_electronic_address,omitempty"`
	BuyerElectronicAddress  ElectronicAddress `json:"buyer_electronic_address,omitempty"`

	Terms      string `json:"terms,omitempty"`
	Incoterm   string `json:"incoterm,omitempty"`
	NamedPlace string `json:"named_place,omitempty"`

	Items           []LineItem           `json:"items"`
	Taxes           []TaxRow             `json:"taxes,omitempty"`
	PaymentSchedule []PaymentScheduleRow `json:"payment_schedule,omitempty"`

	// Classifier references consulted by the code resolver.
	PaymentTermsTemplate string `json:"payment_terms_template,omitempty"`
	TaxCategory          string `json:"tax_category,omitempty"`
	TaxesAndCharges      string `json:"taxes_and_charges,omitempty"`

	// BankDetails holds the pre-resolved company bank account per mode of
	// payment. Modes without resolvable details are simply absent.
	BankDetails map[string]BankDetails `json:"bank_details,omitempty"`

	Currency string    `json:"currency"`
	FromDate time.Time `json:"from_date,omitempty"`
	ToDate   time.Time `json:"to_date,omitempty"`

	NetTotal          decimal.Decimal `json:"net_total"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	DiscountAmount    decimal.Decimal `json:"discount_amount,omitempty"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	TotalAdvance      decimal.Decimal `json:"total_advance,omitempty"`

	EmbeddedDocument *Attachment `json:"embedded_document,omitempty"`
}

// Address is a postal address with a pre-resolved ISO 3166-1 country code.
type Address struct {
	Title       string `json:"title,omitempty"`
	Line1       string `json:"line1,omitempty"`
	Line2       string `json:"line2,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Contact is a person attached to a trade party.
type Contact struct {
	FullName   string `json:"full_name,omitempty"`
	Department string `json:"department,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
}

// ElectronicAddress is a scheme-tagged endpoint id (e.g. EM + email).
type ElectronicAddress struct {
	Scheme string `json:"scheme,omitempty"`
	Value  string `json:"value,omitempty"`
}

// LineItem is one invoice line.
type LineItem struct {
	Idx              int    `json:"idx"`
	ItemCode         string `json:"item_code,omitempty"`
	ItemName         string `json:"item_name"`
	CustomerItemCode string `json:"customer_item_code,omitempty"`
	Description      string `json:"description,omitempty"`

	NetRate   decimal.Decimal `json:"net_rate"`
	Qty       decimal.Decimal `json:"qty"`
	UOM       string          `json:"uom,omitempty"`
	NetAmount decimal.Decimal `json:"net_amount"`

	DeliveryNote     string    `json:"delivery_note,omitempty"`
	DeliveryNoteDate time.Time `json:"delivery_note_date,omitempty"`
	SalesOrder       string    `json:"sales_order,omitempty"`
	SalesOrderDate   time.Time `json:"sales_order_date,omitempty"`

	IncomeAccount string       `json:"income_account,omitempty"`
	TaxTemplate   *TaxTemplate `json:"tax_template,omitempty"`
}

// TaxTemplate carries the item tax template's account→rate pairs.
type TaxTemplate struct {
	Name  string            `json:"name"`
	Taxes []TaxTemplateRate `json:"taxes,omitempty"`
}

// TaxTemplateRate is one account/rate pair of an item tax template.
type TaxTemplateRate struct {
	AccountHead string          `json:"account_head"`
	Rate        decimal.Decimal `json:"rate"`
}

// TaxRow is one document-level tax or charge row.
type TaxRow struct {
	Idx         int        `json:"idx"`
	ChargeType  ChargeType `json:"charge_type"`
	AccountHead string     `json:"account_head,omitempty"`
	Description string     `json:"description,omitempty"`

	Rate decimal.Decimal `json:"rate"`
	// AccountRate is the tax rate configured on the account, used when the
	// row itself carries no rate.
	AccountRate decimal.Decimal `json:"account_rate,omitempty"`

	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
	// NetAmount is the per-row basis amount, when the host tracks it.
	NetAmount *decimal.Decimal `json:"net_amount,omitempty"`
}

// PaymentScheduleRow is one payment-terms row.
type PaymentScheduleRow struct {
	Idx           int             `json:"idx"`
	DueDate       time.Time       `json:"due_date,omitempty"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	Description   string          `json:"description,omitempty"`
	ModeOfPayment string          `json:"mode_of_payment,omitempty"`

	DiscountType DiscountType    `json:"discount_type,omitempty"`
	Discount     decimal.Decimal `json:"discount,omitempty"`
	DiscountDate time.Time       `json:"discount_date,omitempty"`
}

// BankDetails identifies a payee bank account.
type BankDetails struct {
	IBAN string `json:"iban"`
	BIC  string `json:"bic,omitempty"`
}

// Attachment is a supporting document to embed into the e-invoice.
type Attachment struct {
	Name     string `json:"name"`
	Filename string `json:"filename,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Content  []byte `json:"content,omitempty"`
	URI      string `json:"uri,omitempty"`
	Remote   bool   `json:"remote,omitempty"`
}
