// Package importer turns incoming e-invoice documents (XML or hybrid PDF)
// into editable import records and runs the heuristic passes that link the
// record to known suppliers, companies, items and purchase orders.
package importer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/eu-einvoice/internal/profile"
	"github.com/rezonia/eu-einvoice/internal/schematron"
)

// ImportRecord is the editable staging record of one received e-invoice.
type ImportRecord struct {
	ID        string          `json:"id"`
	Profile   profile.Profile `json:"profile"`
	IssueDate time.Time       `json:"issue_date"`
	Currency  string          `json:"currency"`

	SellerName                    string        `json:"seller_name,omitempty"`
	SellerTaxID                   string        `json:"seller_tax_id,omitempty"`
	SellerElectronicAddress       string        `json:"seller_electronic_address,omitempty"`
	SellerElectronicAddressScheme string        `json:"seller_electronic_address_scheme,omitempty"`
	SellerAddress                 ImportAddress `json:"seller_address,omitempty"`

	BuyerName                    string        `json:"buyer_name,omitempty"`
	BuyerElectronicAddress       string        `json:"buyer_electronic_address,omitempty"`
	BuyerElectronicAddressScheme string        `json:"buyer_electronic_address_scheme,omitempty"`
	BuyerAddress                 ImportAddress `json:"buyer_address,omitempty"`

	// Host links filled by the heuristic passes or by the user.
	Supplier      string `json:"supplier,omitempty"`
	Company       string `json:"company,omitempty"`
	PurchaseOrder string `json:"purchase_order,omitempty"`

	Items        []ImportItem        `json:"items"`
	Taxes        []ImportTax         `json:"taxes,omitempty"`
	PaymentTerms []ImportPaymentTerm `json:"payment_terms,omitempty"`
	DueDate      time.Time           `json:"due_date,omitempty"`

	PayeeIBAN        string `json:"payee_iban,omitempty"`
	PayeeAccountName string `json:"payee_account_name,omitempty"`
	PayeeBIC         string `json:"payee_bic,omitempty"`

	BillingPeriodStart time.Time `json:"billing_period_start,omitempty"`
	BillingPeriodEnd   time.Time `json:"billing_period_end,omitempty"`

	LineTotal      *decimal.Decimal `json:"line_total,omitempty"`
	AllowanceTotal *decimal.Decimal `json:"allowance_total,omitempty"`
	ChargeTotal    *decimal.Decimal `json:"charge_total,omitempty"`
	TaxBasisTotal  *decimal.Decimal `json:"tax_basis_total,omitempty"`
	TaxTotal       *decimal.Decimal `json:"tax_total,omitempty"`
	GrandTotal     *decimal.Decimal `json:"grand_total,omitempty"`
	TotalPrepaid   *decimal.Decimal `json:"total_prepaid,omitempty"`
	DuePayable     *decimal.Decimal `json:"due_payable,omitempty"`

	Valid              bool     `json:"valid"`
	ValidationErrors   []string `json:"validation_errors,omitempty"`
	ValidationWarnings []string `json:"validation_warnings,omitempty"`

	// Submitted marks the record as frozen; heuristics must not touch it.
	Submitted bool `json:"submitted,omitempty"`
}

// ImportAddress is a parsed postal address.
type ImportAddress struct {
	Line1    string `json:"line1,omitempty"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city,omitempty"`
	Postcode string `json:"postcode,omitempty"`
	Country  string `json:"country,omitempty"`
}

// ImportItem is one parsed invoice line.
type ImportItem struct {
	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description,omitempty"`
	SellerProductID    string `json:"seller_product_id,omitempty"`

	// Item is the host item id, from the buyer-assigned id or a heuristic.
	Item string `json:"item,omitempty"`
	UOM  string `json:"uom,omitempty"`

	BilledQuantity *decimal.Decimal `json:"billed_quantity,omitempty"`
	UnitCode       string           `json:"unit_code,omitempty"`
	NetRate        decimal.Decimal  `json:"net_rate"`
	TaxRate        *decimal.Decimal `json:"tax_rate,omitempty"`
	TotalAmount    *decimal.Decimal `json:"total_amount,omitempty"`

	// PODetail links the line to a purchase order line.
	PODetail string `json:"po_detail,omitempty"`
}

// ImportTax is one parsed document-level tax.
type ImportTax struct {
	BasisAmount      *decimal.Decimal `json:"basis_amount,omitempty"`
	RatePercent      *decimal.Decimal `json:"rate_percent,omitempty"`
	CalculatedAmount *decimal.Decimal `json:"calculated_amount,omitempty"`
}

// ImportPaymentTerm is one parsed payment term with a partial amount.
type ImportPaymentTerm struct {
	Due                        time.Time        `json:"due,omitempty"`
	PartialAmount              *decimal.Decimal `json:"partial_amount,omitempty"`
	Description                string           `json:"description,omitempty"`
	DiscountBasisDate          time.Time        `json:"discount_basis_date,omitempty"`
	DiscountCalculationPercent *decimal.Decimal `json:"discount_calculation_percent,omitempty"`
	DiscountActualAmount       *decimal.Decimal `json:"discount_actual_amount,omitempty"`
}

// PurchaseOrder is the purchase order view the allocator needs.
type PurchaseOrder struct {
	ID    string              `json:"id"`
	Items []PurchaseOrderItem `json:"items"`
}

// PurchaseOrderItem is one purchase order line with its unbilled amount.
type PurchaseOrderItem struct {
	ID             string          `json:"id"`
	ItemCode       string          `json:"item_code"`
	UnbilledAmount decimal.Decimal `json:"unbilled_amount"`
}

// Directory is the host system view the importer consults. Lookups that
// find nothing return the zero value; they never fail the import.
type Directory interface {
	// SupplierExists reports whether a supplier with this name exists.
	SupplierExists(name string) bool

	// SupplierByTaxID returns the supplier id for a tax id, or "".
	SupplierByTaxID(taxID string) string

	// CompanyExists reports whether a company with this name exists.
	CompanyExists(name string) bool

	// DefaultCompany returns the configured default company, or "".
	DefaultCompany() string

	// ItemExists reports whether an item with this id exists.
	ItemExists(id string) bool

	// ItemBySupplierPart returns the item id carrying this supplier part
	// number for the supplier, or "".
	ItemBySupplierPart(supplier, partNo string) string

	// ItemUOM returns the purchase unit of an item, falling back to its
	// stock unit, or "".
	ItemUOM(id string) string

	// PurchaseOrder returns a purchase order by id, or nil.
	PurchaseOrder(id string) *PurchaseOrder
}

// Report returns the record's validation outcome in runner form.
func (r *ImportRecord) Report() *schematron.Report {
	return &schematron.Report{Errors: r.ValidationErrors, Warnings: r.ValidationWarnings}
}
