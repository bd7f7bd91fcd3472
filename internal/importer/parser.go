package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/eu-einvoice/internal/cii"
	"github.com/rezonia/eu-einvoice/internal/codelist"
	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/pdf"
	"github.com/rezonia/eu-einvoice/internal/profile"
	"github.com/rezonia/eu-einvoice/internal/schematron"
)

// maxProductNameLen is the longest product name the record can hold.
const maxProductNameLen = 140

// Parser reads incoming e-invoice documents into import records.
type Parser struct {
	runner *schematron.Runner
	store  codelist.Store
	dir    Directory
}

// NewParser creates a parser. The runner may be nil when no rule-set
// engine is deployed; validation is then reported as unavailable. The
// directory may be nil when no host system is attached.
func NewParser(runner *schematron.Runner, store codelist.Store, dir Directory) *Parser {
	return &Parser{runner: runner, store: store, dir: dir}
}

// ParseFile reads an e-invoice from an .xml or hybrid .pdf file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ImportRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		_, xmlData, err := pdf.ExtractXML(data)
		if err != nil {
			return nil, err
		}
		data = xmlData
	case ".xml":
	default:
		return nil, model.NewParseError(path, "the format of the uploaded file is not supported for e-invoices", nil)
	}

	return p.Parse(ctx, data)
}

// Parse reads an e-invoice document, validates it against its profile's
// rule set and runs the heuristic passes that link the record to the host
// directory.
func (p *Parser) Parse(ctx context.Context, data []byte) (*ImportRecord, error) {
	doc, err := cii.Parse(data)
	if err != nil {
		return nil, err
	}

	prof, err := profile.FromGuideline(doc.Context.GuidelineID)
	if err != nil {
		return nil, err
	}

	rec := &ImportRecord{
		ID:        doc.Header.ID,
		Profile:   prof,
		IssueDate: doc.Header.IssueDate,
		Currency:  doc.Trade.Settlement.CurrencyCode,
	}

	p.validate(ctx, rec, data)

	readSeller(rec, &doc.Trade.Agreement.Seller)
	readBuyer(rec, &doc.Trade.Agreement.Buyer)

	if ref := doc.Trade.Agreement.BuyerOrder.IssuerAssignedID; ref != "" && p.dir != nil {
		if p.dir.PurchaseOrder(ref) != nil {
			rec.PurchaseOrder = ref
		}
	}

	for i := range doc.Trade.Items {
		rec.Items = append(rec.Items, p.readLineItem(&doc.Trade.Items[i]))
	}
	for i := range doc.Trade.Settlement.TradeTaxes {
		tax := &doc.Trade.Settlement.TradeTaxes[i]
		rec.Taxes = append(rec.Taxes, ImportTax{
			BasisAmount:      tax.BasisAmount,
			RatePercent:      tax.RatePercent,
			CalculatedAmount: tax.CalculatedAmount,
		})
	}
	for i := range doc.Trade.Settlement.Terms {
		readPaymentTerm(rec, &doc.Trade.Settlement.Terms[i])
	}

	readSummation(rec, &doc.Trade.Settlement.Summation)
	readBankDetails(rec, &doc.Trade.Settlement.PaymentMeans, prof)
	rec.BillingPeriodStart = doc.Trade.Settlement.BillingPeriod.Start
	rec.BillingPeriodEnd = doc.Trade.Settlement.BillingPeriod.End

	if err := p.Reapply(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// validate runs the rule-set validation. An engine failure never fails the
// import, it is surfaced as a single validation entry instead.
func (p *Parser) validate(ctx context.Context, rec *ImportRecord, data []byte) {
	if p.runner == nil {
		rec.ValidationErrors = []string{"could not validate the e-invoice: no rule-set engine deployed"}
		return
	}
	report, err := p.runner.Validate(ctx, data, rec.Profile)
	if err != nil {
		rec.ValidationErrors = []string{"could not validate the e-invoice: " + err.Error()}
		return
	}
	rec.Valid = report.Valid()
	rec.ValidationErrors = report.Errors
	rec.ValidationWarnings = report.Warnings
}

func readSeller(rec *ImportRecord, seller *cii.TradeParty) {
	rec.SellerName = seller.Name
	if len(seller.TaxRegistrations) > 0 {
		rec.SellerTaxID = seller.TaxRegistrations[0].Value
	}
	rec.SellerElectronicAddress = seller.ElectronicAddress.Value
	rec.SellerElectronicAddressScheme = seller.ElectronicAddress.SchemeID
	rec.SellerAddress = readAddress(seller.Address)
}

func readBuyer(rec *ImportRecord, buyer *cii.TradeParty) {
	rec.BuyerName = buyer.Name
	rec.BuyerElectronicAddress = buyer.ElectronicAddress.Value
	rec.BuyerElectronicAddressScheme = buyer.ElectronicAddress.SchemeID
	rec.BuyerAddress = readAddress(buyer.Address)
}

func readAddress(addr *cii.PostalAddress) ImportAddress {
	if addr == nil {
		return ImportAddress{}
	}
	return ImportAddress{
		Line1:    addr.LineOne,
		Line2:    addr.LineTwo,
		City:     addr.CityName,
		Postcode: addr.Postcode,
		Country:  addr.CountryID,
	}
}

func (p *Parser) readLineItem(li *cii.LineItem) ImportItem {
	item := ImportItem{
		SellerProductID: li.Product.SellerAssignedID,
		UnitCode:        li.Delivery.BilledQuantity.UnitCode,
	}

	// The price may refer to a basis quantity other than one, the record
	// always stores the rate per single unit.
	basisQty := decimal.NewFromInt(1)
	if bq := li.Agreement.BasisQuantity; bq != nil && !bq.Amount.IsZero() {
		basisQty = bq.Amount
	}
	item.NetRate = li.Agreement.NetAmount.Div(basisQty)

	name, description := li.Product.Name, li.Product.Description
	if nameRunes := []rune(name); len(nameRunes) > maxProductNameLen {
		item.ProductName = string(nameRunes[:maxProductNameLen])
		item.ProductDescription = name + " | " + description
	} else {
		item.ProductName = name
		item.ProductDescription = description
	}

	if code := li.Product.BuyerAssignedID; code != "" && p.dir != nil && p.dir.ItemExists(code) {
		item.Item = code
	}

	qty := li.Delivery.BilledQuantity.Amount
	item.BilledQuantity = &qty
	item.TaxRate = li.Settlement.TradeTax.RatePercent
	total := li.Settlement.LineTotal
	item.TotalAmount = &total
	return item
}

func readPaymentTerm(rec *ImportRecord, term *cii.PaymentTerms) {
	if len(term.PartialAmounts) == 0 {
		// a single term without partial amounts only carries the due date
		rec.DueDate = term.Due
		return
	}

	t := ImportPaymentTerm{
		Due:         term.Due,
		Description: term.Description,
	}

	for _, row := range term.PartialAmounts {
		if row.Currency == "" || row.Currency == rec.Currency {
			amount := row.Amount
			t.PartialAmount = &amount
			break
		}
	}

	if d := term.Discount; d != nil {
		t.DiscountBasisDate = d.BasisDate
		t.DiscountCalculationPercent = d.CalculationPercent
		t.DiscountActualAmount = d.ActualAmount
	}

	rec.PaymentTerms = append(rec.PaymentTerms, t)
}

func readSummation(rec *ImportRecord, s *cii.MonetarySummation) {
	rec.LineTotal = s.LineTotal
	rec.AllowanceTotal = s.AllowanceTotal
	rec.ChargeTotal = s.ChargeTotal
	rec.TaxBasisTotal = s.TaxBasisTotal
	for _, tt := range s.TaxTotals {
		if tt.Currency == "" || tt.Currency == rec.Currency {
			amount := tt.Amount
			rec.TaxTotal = &amount
			break
		}
	}
	rec.GrandTotal = s.GrandTotal
	rec.TotalPrepaid = s.PrepaidTotal
	rec.DuePayable = s.DueAmount
}

func readBankDetails(rec *ImportRecord, pm *cii.PaymentMeans, prof profile.Profile) {
	rec.PayeeIBAN = pm.IBAN
	if prof.AtLeast(profile.EN16931) {
		rec.PayeeAccountName = pm.AccountName
		rec.PayeeBIC = pm.BIC
	}
}
