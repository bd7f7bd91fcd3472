package cii_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/eu-einvoice/internal/cii"
	"github.com/rezonia/eu-einvoice/internal/model"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func sampleDocument() *cii.Document {
	return &cii.Document{
		Context: cii.ExchangedContext{
			BusinessProcessID: "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0",
			GuidelineID:       "urn:cen.eu:en16931:2017",
		},
		Header: cii.ExchangedDocument{
			ID:        "SINV-0042",
			TypeCode:  "380",
			IssueDate: time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC),
			Notes: []cii.Note{
				{Content: "Payment within 30 days.", SubjectCode: "ABC"},
			},
		},
		Trade: cii.Trade{
			Items: []cii.LineItem{
				{
					LineID: "1",
					Product: cii.Product{
						SellerAssignedID: "WID-01",
						Name:             "Widget",
						Description:      "A fine widget",
					},
					Agreement: cii.LineAgreement{
						NetAmount:     d("10"),
						BasisQuantity: &cii.Quantity{Amount: d("1"), UnitCode: "C62"},
					},
					Delivery: cii.LineDelivery{
						BilledQuantity: cii.Quantity{Amount: d("5"), UnitCode: "C62"},
					},
					Settlement: cii.LineSettlement{
						TradeTax: cii.LineTradeTax{
							TypeCode:     "VAT",
							CategoryCode: "S",
							RatePercent:  cii.Ptr(d("19")),
						},
						LineTotal: d("50"),
					},
				},
			},
			Agreement: cii.TradeAgreement{
				BuyerReference: "04011000-12345-67",
				Seller: cii.TradeParty{
					Name: "Muster GmbH",
					Contact: &cii.TradeContact{
						PersonName: "Erika Muster",
						Email:      "erika@muster.example",
						Phone:      "+49 30 1234",
					},
					Address: &cii.PostalAddress{
						LineOne:   "Musterstraße 1",
						Postcode:  "10115",
						CityName:  "Berlin",
						CountryID: "DE",
					},
					ElectronicAddress: cii.SchemeID{SchemeID: "EM", Value: "billing@muster.example"},
					TaxRegistrations: []cii.SchemeID{
						{SchemeID: "VA", Value: "DE123456789"},
					},
				},
				Buyer: cii.TradeParty{
					Name: "Kunde AG",
					Address: &cii.PostalAddress{
						LineOne:   "Kundenweg 2",
						Postcode:  "20095",
						CityName:  "Hamburg",
						CountryID: "DE",
					},
				},
				BuyerOrder: cii.ReferencedDocument{
					IssuerAssignedID: "PO-0815",
					IssueDate:        time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC),
				},
			},
			Delivery: cii.TradeDelivery{
				OccurrenceDate: time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC),
			},
			Settlement: cii.TradeSettlement{
				CurrencyCode: "EUR",
				PaymentMeans: cii.PaymentMeans{
					TypeCode:    "58",
					IBAN:        "DE02120300000000202051",
					AccountName: "Muster GmbH",
					BIC:         "BYLADEM1001",
				},
				TradeTaxes: []cii.TradeTax{
					{
						CalculatedAmount: cii.Ptr(d("9.50")),
						TypeCode:         "VAT",
						BasisAmount:      cii.Ptr(d("50")),
						CategoryCode:     "S",
						RatePercent:      cii.Ptr(d("19")),
					},
				},
				BillingPeriod: cii.Period{
					Start: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
					End:   time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
				},
				Terms: []cii.PaymentTerms{
					{
						Description:    "Zahlbar bis 14.06.2024",
						Due:            time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC),
						PartialAmounts: []cii.CurrencyAmount{{Amount: d("59.50")}},
						Discount: &cii.DiscountTerms{
							BasisDate:          time.Date(2024, time.May, 25, 0, 0, 0, 0, time.UTC),
							BasisAmount:        cii.Ptr(d("59.50")),
							CalculationPercent: cii.Ptr(d("2")),
						},
					},
				},
				Summation: cii.MonetarySummation{
					LineTotal:     cii.Ptr(d("50")),
					TaxBasisTotal: cii.Ptr(d("50")),
					TaxTotals:     []cii.CurrencyAmount{{Amount: d("9.50"), Currency: "EUR"}},
					GrandTotal:    cii.Ptr(d("59.50")),
					PrepaidTotal:  cii.Ptr(d("0")),
					DueAmount:     cii.Ptr(d("59.50")),
				},
				InvoiceReference: cii.ReferencedDocument{
					IssuerAssignedID: "SINV-0041",
					IssueDate:        time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		},
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	doc := sampleDocument()
	data, err := doc.Serialize()
	require.NoError(t, err)

	got, err := cii.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, doc.Context, got.Context)
	assert.Equal(t, doc.Header, got.Header)

	require.Len(t, got.Trade.Items, 1)
	li := got.Trade.Items[0]
	assert.Equal(t, "1", li.LineID)
	assert.Equal(t, doc.Trade.Items[0].Product, li.Product)
	// amounts are emitted with two decimals
	assert.True(t, li.Agreement.NetAmount.Equal(d("10")))
	require.NotNil(t, li.Agreement.BasisQuantity)
	assert.True(t, li.Agreement.BasisQuantity.Amount.Equal(d("1")))
	assert.Equal(t, "C62", li.Delivery.BilledQuantity.UnitCode)
	assert.True(t, li.Delivery.BilledQuantity.Amount.Equal(d("5")))
	assert.Equal(t, "S", li.Settlement.TradeTax.CategoryCode)
	require.NotNil(t, li.Settlement.TradeTax.RatePercent)
	assert.True(t, li.Settlement.TradeTax.RatePercent.Equal(d("19")))
	assert.True(t, li.Settlement.LineTotal.Equal(d("50")))

	assert.Equal(t, doc.Trade.Agreement.BuyerReference, got.Trade.Agreement.BuyerReference)
	assert.Equal(t, doc.Trade.Agreement.Seller, got.Trade.Agreement.Seller)
	assert.Equal(t, doc.Trade.Agreement.Buyer.Address, got.Trade.Agreement.Buyer.Address)
	assert.Equal(t, doc.Trade.Agreement.BuyerOrder, got.Trade.Agreement.BuyerOrder)
	assert.Equal(t, doc.Trade.Delivery.OccurrenceDate, got.Trade.Delivery.OccurrenceDate)

	s := got.Trade.Settlement
	assert.Equal(t, "EUR", s.CurrencyCode)
	assert.Equal(t, doc.Trade.Settlement.PaymentMeans, s.PaymentMeans)
	require.Len(t, s.TradeTaxes, 1)
	require.NotNil(t, s.TradeTaxes[0].BasisAmount)
	assert.True(t, s.TradeTaxes[0].BasisAmount.Equal(d("50")))
	assert.Equal(t, doc.Trade.Settlement.BillingPeriod, s.BillingPeriod)

	require.Len(t, s.Terms, 1)
	term := s.Terms[0]
	assert.Equal(t, "Zahlbar bis 14.06.2024", term.Description)
	assert.Equal(t, doc.Trade.Settlement.Terms[0].Due, term.Due)
	require.Len(t, term.PartialAmounts, 1)
	assert.True(t, term.PartialAmounts[0].Amount.Equal(d("59.50")))
	require.NotNil(t, term.Discount)
	assert.Equal(t, doc.Trade.Settlement.Terms[0].Discount.BasisDate, term.Discount.BasisDate)
	require.NotNil(t, term.Discount.CalculationPercent)
	assert.True(t, term.Discount.CalculationPercent.Equal(d("2")))
	assert.Nil(t, term.Discount.ActualAmount)

	require.NotNil(t, s.Summation.GrandTotal)
	assert.True(t, s.Summation.GrandTotal.Equal(d("59.50")))
	require.Len(t, s.Summation.TaxTotals, 1)
	assert.Equal(t, "EUR", s.Summation.TaxTotals[0].Currency)
	assert.Equal(t, doc.Trade.Settlement.InvoiceReference, s.InvoiceReference)
}

func TestSerializeOutput(t *testing.T) {
	data, err := sampleDocument().Serialize()
	require.NoError(t, err)
	xml := string(data)

	assert.True(t, strings.HasPrefix(xml, "<?xml"))
	assert.Contains(t, xml, "<rsm:CrossIndustryInvoice")
	assert.Contains(t, xml, `xmlns:rsm="urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"`)
	// dates carry the CCYYMMDD calendar format
	assert.Contains(t, xml, `<udt:DateTimeString format="102">20240515</udt:DateTimeString>`)
	// referenced documents use the qualified date type
	assert.Contains(t, xml, `<qdt:DateTimeString format="102">20240402</qdt:DateTimeString>`)
	// amounts are emitted with exactly two decimals
	assert.Contains(t, xml, "<ram:ChargeAmount>10.00</ram:ChargeAmount>")
	assert.Contains(t, xml, `<ram:TaxTotalAmount currencyID="EUR">9.50</ram:TaxTotalAmount>`)
	// quantities keep their scale
	assert.Contains(t, xml, `<ram:BilledQuantity unitCode="C62">5</ram:BilledQuantity>`)
}

func TestParseAcceptsForeignPrefixes(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<x:CrossIndustryInvoice xmlns:x="urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
    xmlns:y="urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100">
  <x:ExchangedDocument>
    <y:ID>INV-1</y:ID>
    <y:TypeCode>380</y:TypeCode>
    <y:IssueDateTime>2024-05-15</y:IssueDateTime>
  </x:ExchangedDocument>
</x:CrossIndustryInvoice>`

	doc, err := cii.Parse([]byte(xml))
	require.NoError(t, err)
	assert.Equal(t, "INV-1", doc.Header.ID)
	assert.Equal(t, "380", doc.Header.TypeCode)
	assert.Equal(t, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC), doc.Header.IssueDate)
}

func TestParseRejectsForeignDocuments(t *testing.T) {
	_, err := cii.Parse([]byte(`<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"/>`))
	require.Error(t, err)

	var parseErr *model.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseRejectsMalformedXML(t *testing.T) {
	_, err := cii.Parse([]byte("this is not XML"))
	require.Error(t, err)

	var parseErr *model.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
