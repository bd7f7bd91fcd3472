package importer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/eu-einvoice/internal/cii"
	"github.com/rezonia/eu-einvoice/internal/codelist"
	"github.com/rezonia/eu-einvoice/internal/generate"
	"github.com/rezonia/eu-einvoice/internal/importer"
	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/profile"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fakeDirectory struct {
	suppliers map[string]bool
	taxIDs    map[string]string
	companies map[string]bool
	defaultCo string
	items     map[string]bool
	parts     map[string]string
	uoms      map[string]string
	orders    map[string]*importer.PurchaseOrder
}

func (f *fakeDirectory) SupplierExists(name string) bool { return f.suppliers[name] }
func (f *fakeDirectory) SupplierByTaxID(taxID string) string {
	return f.taxIDs[taxID]
}
func (f *fakeDirectory) CompanyExists(name string) bool { return f.companies[name] }
func (f *fakeDirectory) DefaultCompany() string         { return f.defaultCo }
func (f *fakeDirectory) ItemExists(id string) bool      { return f.items[id] }
func (f *fakeDirectory) ItemBySupplierPart(supplier, partNo string) string {
	return f.parts[supplier+"|"+partNo]
}
func (f *fakeDirectory) ItemUOM(id string) string { return f.uoms[id] }
func (f *fakeDirectory) PurchaseOrder(id string) *importer.PurchaseOrder {
	return f.orders[id]
}

func generatedInvoiceXML(t *testing.T) []byte {
	t.Helper()
	inv := &model.Invoice{
		ID:           "SINV-0001",
		PostingDate:  time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC),
		Company:      "Muster GmbH",
		CompanyTaxID: "DE123456789",
		CustomerName: "Kunde AG",
		SellerAddress: &model.Address{
			Line1: "Musterstraße 1", Postcode: "10115", City: "Berlin", CountryCode: "DE",
		},
		BuyerAddress: &model.Address{
			Line1: "Kundenweg 2", Postcode: "20095", City: "Hamburg", CountryCode: "DE",
		},
		Currency: "EUR",
		Items: []model.LineItem{
			{Idx: 1, ItemName: "Widget", NetRate: d("10"), Qty: d("5"), NetAmount: d("50")},
		},
		Taxes: []model.TaxRow{
			{
				Idx: 1, ChargeType: model.ChargeOnNetTotal, AccountHead: "VAT 19% - M",
				Rate: d("19"), TaxAmount: d("9.50"), Total: d("59.50"),
			},
		},
		PaymentSchedule: []model.PaymentScheduleRow{
			{Idx: 1, DueDate: time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC), PaymentAmount: d("59.50"), ModeOfPayment: "Bank Transfer"},
		},
		BankDetails: map[string]model.BankDetails{
			"Bank Transfer": {IBAN: "DE02120300000000202051", BIC: "BYLADEM1001"},
		},
		NetTotal:          d("50"),
		GrandTotal:        d("59.50"),
		OutstandingAmount: d("59.50"),
	}
	xml, err := generate.Generate(inv, profile.EN16931, codelist.NewMemoryStore())
	require.NoError(t, err)
	return xml
}

func TestParseRoundTrip(t *testing.T) {
	p := importer.NewParser(nil, codelist.NewMemoryStore(), nil)
	rec, err := p.Parse(context.Background(), generatedInvoiceXML(t))
	require.NoError(t, err)

	assert.Equal(t, "SINV-0001", rec.ID)
	assert.Equal(t, profile.EN16931, rec.Profile)
	assert.Equal(t, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC), rec.IssueDate)
	assert.Equal(t, "EUR", rec.Currency)

	assert.Equal(t, "Muster GmbH", rec.SellerName)
	assert.Equal(t, "DE123456789", rec.SellerTaxID)
	assert.Equal(t, "Berlin", rec.SellerAddress.City)
	assert.Equal(t, "Kunde AG", rec.BuyerName)

	require.Len(t, rec.Items, 1)
	item := rec.Items[0]
	assert.Equal(t, "Widget", item.ProductName)
	assert.True(t, item.NetRate.Equal(d("10")))
	require.NotNil(t, item.BilledQuantity)
	assert.True(t, item.BilledQuantity.Equal(d("5")))
	require.NotNil(t, item.TaxRate)
	assert.True(t, item.TaxRate.Equal(d("19")))
	require.NotNil(t, item.TotalAmount)
	assert.True(t, item.TotalAmount.Equal(d("50")))

	require.Len(t, rec.Taxes, 1)
	require.NotNil(t, rec.Taxes[0].CalculatedAmount)
	assert.True(t, rec.Taxes[0].CalculatedAmount.Equal(d("9.50")))

	// a single payment term carries only the due date
	assert.Empty(t, rec.PaymentTerms)
	assert.Equal(t, time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC), rec.DueDate)

	assert.Equal(t, "DE02120300000000202051", rec.PayeeIBAN)
	assert.Equal(t, "BYLADEM1001", rec.PayeeBIC)

	require.NotNil(t, rec.GrandTotal)
	assert.True(t, rec.GrandTotal.Equal(d("59.50")))
	require.NotNil(t, rec.TaxTotal)
	assert.True(t, rec.TaxTotal.Equal(d("9.50")))

	// no rule-set engine deployed: validation is reported as unavailable
	assert.False(t, rec.Valid)
	require.Len(t, rec.ValidationErrors, 1)
	assert.Contains(t, rec.ValidationErrors[0], "no rule-set engine deployed")
}

func serializeDoc(t *testing.T, doc *cii.Document) []byte {
	t.Helper()
	data, err := doc.Serialize()
	require.NoError(t, err)
	return data
}

func minimalDoc() *cii.Document {
	return &cii.Document{
		Context: cii.ExchangedContext{GuidelineID: profile.Basic.Guideline()},
		Header: cii.ExchangedDocument{
			ID:        "INV-7",
			TypeCode:  "380",
			IssueDate: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
		},
		Trade: cii.Trade{
			Settlement: cii.TradeSettlement{CurrencyCode: "EUR"},
		},
	}
}

func TestParseUnknownGuidelineFails(t *testing.T) {
	doc := minimalDoc()
	doc.Context.GuidelineID = "urn:example:unknown"

	p := importer.NewParser(nil, codelist.NewMemoryStore(), nil)
	_, err := p.Parse(context.Background(), serializeDoc(t, doc))
	assert.Error(t, err)
}

func TestParseNetRatePerSingleUnit(t *testing.T) {
	doc := minimalDoc()
	doc.Trade.Items = []cii.LineItem{
		{
			LineID:  "1",
			Product: cii.Product{Name: "Bulk screws"},
			Agreement: cii.LineAgreement{
				NetAmount:     d("25"),
				BasisQuantity: &cii.Quantity{Amount: d("100"), UnitCode: "C62"},
			},
			Delivery: cii.LineDelivery{
				BilledQuantity: cii.Quantity{Amount: d("300"), UnitCode: "C62"},
			},
			Settlement: cii.LineSettlement{LineTotal: d("75")},
		},
	}

	p := importer.NewParser(nil, codelist.NewMemoryStore(), nil)
	rec, err := p.Parse(context.Background(), serializeDoc(t, doc))
	require.NoError(t, err)

	require.Len(t, rec.Items, 1)
	assert.True(t, rec.Items[0].NetRate.Equal(d("0.25")), "price is stored per single unit")
}

func TestParseTruncatesLongProductNames(t *testing.T) {
	longName := strings.Repeat("ä", 150)
	doc := minimalDoc()
	doc.Trade.Items = []cii.LineItem{
		{
			LineID: "1",
			Product: cii.Product{
				Name:        longName,
				Description: "details",
			},
			Agreement: cii.LineAgreement{NetAmount: d("1")},
			Delivery:  cii.LineDelivery{BilledQuantity: cii.Quantity{Amount: d("1")}},
		},
	}

	p := importer.NewParser(nil, codelist.NewMemoryStore(), nil)
	rec, err := p.Parse(context.Background(), serializeDoc(t, doc))
	require.NoError(t, err)

	require.Len(t, rec.Items, 1)
	assert.Equal(t, 140, len([]rune(rec.Items[0].ProductName)))
	assert.Equal(t, longName+" | details", rec.Items[0].ProductDescription)
}

func TestParsePartialPaymentTerms(t *testing.T) {
	doc := minimalDoc()
	doc.Trade.Settlement.Terms = []cii.PaymentTerms{
		{
			Due: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			PartialAmounts: []cii.CurrencyAmount{
				{Amount: d("100"), Currency: "USD"},
				{Amount: d("30"), Currency: "EUR"},
			},
			Discount: &cii.DiscountTerms{
				BasisDate:          time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC),
				CalculationPercent: cii.Ptr(d("2")),
			},
		},
	}

	p := importer.NewParser(nil, codelist.NewMemoryStore(), nil)
	rec, err := p.Parse(context.Background(), serializeDoc(t, doc))
	require.NoError(t, err)

	require.Len(t, rec.PaymentTerms, 1)
	term := rec.PaymentTerms[0]
	require.NotNil(t, term.PartialAmount)
	assert.True(t, term.PartialAmount.Equal(d("30")), "only amounts in the invoice currency count")
	require.NotNil(t, term.DiscountCalculationPercent)
	assert.True(t, term.DiscountCalculationPercent.Equal(d("2")))
}

func TestParseBankDetailsBelowEN16931(t *testing.T) {
	doc := minimalDoc()
	doc.Trade.Settlement.PaymentMeans = cii.PaymentMeans{
		TypeCode:    "58",
		IBAN:        "DE02120300000000202051",
		AccountName: "Muster GmbH",
		BIC:         "BYLADEM1001",
	}

	p := importer.NewParser(nil, codelist.NewMemoryStore(), nil)
	rec, err := p.Parse(context.Background(), serializeDoc(t, doc))
	require.NoError(t, err)

	assert.Equal(t, "DE02120300000000202051", rec.PayeeIBAN)
	assert.Empty(t, rec.PayeeAccountName, "account name requires EN 16931")
	assert.Empty(t, rec.PayeeBIC)
}

func TestParseFileRejectsUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invoice.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an invoice"), 0o644))

	p := importer.NewParser(nil, codelist.NewMemoryStore(), nil)
	_, err := p.ParseFile(context.Background(), path)
	require.Error(t, err)

	var parseErr *model.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGuessSupplierTaxIDWins(t *testing.T) {
	dir := &fakeDirectory{
		suppliers: map[string]bool{"Muster GmbH": true},
		taxIDs:    map[string]string{"DE123456789": "SUP-0002"},
	}
	p := importer.NewParser(nil, codelist.NewMemoryStore(), dir)

	rec := &importer.ImportRecord{SellerName: "Muster GmbH", SellerTaxID: "DE123456789"}
	require.NoError(t, p.Reapply(rec))
	assert.Equal(t, "SUP-0002", rec.Supplier)
}

func TestGuessCompanyFallsBackToDefault(t *testing.T) {
	dir := &fakeDirectory{defaultCo: "Kunde AG"}
	p := importer.NewParser(nil, codelist.NewMemoryStore(), dir)

	rec := &importer.ImportRecord{BuyerName: "Unknown Corp"}
	require.NoError(t, p.Reapply(rec))
	assert.Equal(t, "Kunde AG", rec.Company)
}

func TestGuessUOM(t *testing.T) {
	store := codelist.NewMemoryStore()
	store.Add(codelist.ListUOMRec20, "uom", "Stück", "C62")

	dir := &fakeDirectory{uoms: map[string]string{"ITEM-1": "Karton"}}
	p := importer.NewParser(nil, store, dir)

	rec := &importer.ImportRecord{
		Items: []importer.ImportItem{
			{UnitCode: "C62"},
			{UnitCode: "XYZ", Item: "ITEM-1"},
		},
	}
	require.NoError(t, p.Reapply(rec))
	assert.Equal(t, "Stück", rec.Items[0].UOM)
	assert.Equal(t, "Karton", rec.Items[1].UOM, "unknown codes fall back to the item's purchase unit")
}

func TestGuessItemCodeBySupplierPart(t *testing.T) {
	dir := &fakeDirectory{
		suppliers: map[string]bool{"Muster GmbH": true},
		parts:     map[string]string{"Muster GmbH|WID-01": "ITEM-WIDGET"},
	}
	p := importer.NewParser(nil, codelist.NewMemoryStore(), dir)

	rec := &importer.ImportRecord{
		SellerName: "Muster GmbH",
		Items:      []importer.ImportItem{{SellerProductID: "WID-01"}},
	}
	require.NoError(t, p.Reapply(rec))
	assert.Equal(t, "ITEM-WIDGET", rec.Items[0].Item)
}

func TestAllocatePurchaseOrder(t *testing.T) {
	dir := &fakeDirectory{
		orders: map[string]*importer.PurchaseOrder{
			"PO-0815": {
				ID: "PO-0815",
				Items: []importer.PurchaseOrderItem{
					{ID: "PO-0815-1", ItemCode: "ITEM-WIDGET", UnbilledAmount: d("100")},
				},
			},
		},
	}
	p := importer.NewParser(nil, codelist.NewMemoryStore(), dir)

	rec := &importer.ImportRecord{
		PurchaseOrder: "PO-0815",
		Items: []importer.ImportItem{
			{Item: "ITEM-WIDGET", TotalAmount: ptr(d("60"))},
			{Item: "ITEM-WIDGET", TotalAmount: ptr(d("60"))},
			{Item: "ITEM-WIDGET", TotalAmount: ptr(d("40"))},
		},
	}
	require.NoError(t, p.Reapply(rec))

	assert.Equal(t, "PO-0815-1", rec.Items[0].PODetail, "first line consumes 60 of 100")
	assert.Empty(t, rec.Items[1].PODetail, "second line no longer fits")
	assert.Equal(t, "PO-0815-1", rec.Items[2].PODetail, "remaining 40 fit the third line")
}

func TestAllocatePurchaseOrderKeepsValidLinks(t *testing.T) {
	dir := &fakeDirectory{
		orders: map[string]*importer.PurchaseOrder{
			"PO-0815": {
				ID: "PO-0815",
				Items: []importer.PurchaseOrderItem{
					{ID: "PO-0815-1", ItemCode: "ITEM-WIDGET", UnbilledAmount: d("10")},
				},
			},
		},
	}
	p := importer.NewParser(nil, codelist.NewMemoryStore(), dir)

	rec := &importer.ImportRecord{
		PurchaseOrder: "PO-0815",
		Items: []importer.ImportItem{
			{Item: "ITEM-WIDGET", TotalAmount: ptr(d("60")), PODetail: "PO-0815-1"},
			{Item: "ITEM-WIDGET", TotalAmount: ptr(d("60")), PODetail: "PO-9999-1"},
		},
	}
	require.NoError(t, p.Reapply(rec))

	assert.Equal(t, "PO-0815-1", rec.Items[0].PODetail, "links into the selected order survive")
	assert.Empty(t, rec.Items[1].PODetail, "stale links are cleared")
}

func TestAllocationsClearedWithoutOrder(t *testing.T) {
	p := importer.NewParser(nil, codelist.NewMemoryStore(), &fakeDirectory{})

	rec := &importer.ImportRecord{
		Items: []importer.ImportItem{{PODetail: "PO-0815-1"}},
	}
	require.NoError(t, p.Reapply(rec))
	assert.Empty(t, rec.Items[0].PODetail)
}

func TestReapplySubmittedRecordFails(t *testing.T) {
	p := importer.NewParser(nil, codelist.NewMemoryStore(), nil)
	err := p.Reapply(&importer.ImportRecord{ID: "REC-1", Submitted: true})
	require.Error(t, err)

	var parseErr *model.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func ptr(v decimal.Decimal) *decimal.Decimal {
	return &v
}
