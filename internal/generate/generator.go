// Package generate builds the outbound CII trade document from a
// commercial invoice aggregate, for a target conformance profile.
package generate

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/eu-einvoice/internal/cii"
	"github.com/rezonia/eu-einvoice/internal/codelist"
	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/money"
	"github.com/rezonia/eu-einvoice/internal/profile"
)

// businessProcessID is the default context according to XRechnung 3.0.2.
const businessProcessID = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"

// zeroRatedCategories are the duty/tax/fee categories that force a 0% rate
// on the line (BR-AE-05, BR-E-05, BR-G-05, BR-IC-05, BR-Z-05).
var zeroRatedCategories = map[string]bool{
	"AE": true, "E": true, "G": true, "K": true, "Z": true,
}

// Classifier kinds consulted by the code resolver.
const (
	KindUOM                  = "uom"
	KindItemTaxTemplate      = "item-tax-template"
	KindAccount              = "account"
	KindTaxCategory          = "tax-category"
	KindTaxesAndCharges      = "taxes-and-charges-template"
	KindPaymentTermsTemplate = "payment-terms-template"
	KindModeOfPayment        = "mode-of-payment"
)

// Generator maps one invoice aggregate to a CII document.
type Generator struct {
	profile profile.Profile
	inv     *model.Invoice
	codes   codelist.Resolvers

	doc            *cii.Document
	itemTaxRates   map[string]decimal.Decimal
	sawUnratedItem bool
	deliveryDates  []time.Time
}

// New creates a generator for one invoice and target profile.
func New(p profile.Profile, inv *model.Invoice, store codelist.Store) *Generator {
	return &Generator{
		profile:      p,
		inv:          inv,
		codes:        codelist.NewResolvers(store),
		itemTaxRates: make(map[string]decimal.Decimal),
	}
}

// Generate builds and serializes the e-invoice for an invoice aggregate.
func Generate(inv *model.Invoice, p profile.Profile, store codelist.Store) ([]byte, error) {
	doc, err := New(p, inv, store).Build()
	if err != nil {
		return nil, err
	}
	return doc.Serialize()
}

// Build constructs the document tree. The tree is built once per request
// and discarded after serialization.
func (g *Generator) Build() (*cii.Document, error) {
	g.doc = &cii.Document{}

	g.setContext()
	if err := g.setHeader(); err != nil {
		return nil, err
	}
	if err := g.setSeller(); err != nil {
		return nil, err
	}
	if err := g.setBuyer(); err != nil {
		return nil, err
	}

	if g.inv.BuyerReference != "" {
		g.doc.Trade.Agreement.BuyerReference = g.inv.BuyerReference
	}
	if g.inv.PONumber != "" {
		g.doc.Trade.Agreement.BuyerOrder.IssuerAssignedID = g.inv.PONumber
		if !g.inv.PODate.IsZero() && g.profile.AtLeast(profile.Extended) {
			g.doc.Trade.Agreement.BuyerOrder.IssueDate = g.inv.PODate
		}
	}

	if g.profile.AtLeast(profile.EN16931) {
		g.embedAttachment()
	}

	salesOrders := make(map[string]time.Time)
	for i := range g.inv.Items {
		item := &g.inv.Items[i]
		if item.SalesOrder != "" {
			salesOrders[item.SalesOrder] = item.SalesOrderDate
		}
		if err := g.addLineItem(item); err != nil {
			return nil, err
		}
	}

	if len(salesOrders) == 1 && g.profile.AtLeast(profile.Extended) {
		for name, date := range salesOrders {
			g.doc.Trade.Agreement.SellerOrder.IssuerAssignedID = name
			g.doc.Trade.Agreement.SellerOrder.IssueDate = date
		}
	}

	taxAdded, err := g.addTaxesAndCharges()
	if err != nil {
		return nil, err
	}
	if !taxAdded {
		g.addEmptyTax()
	}

	g.doc.Trade.Settlement.CurrencyCode = g.inv.Currency
	if err := g.addPaymentMeans(); err != nil {
		return nil, err
	}

	g.doc.Trade.Settlement.BillingPeriod = cii.Period{
		Start: g.inv.FromDate,
		End:   g.inv.ToDate,
	}

	g.addDeliveryDate()
	g.addPaymentTerms()
	g.setTotals()

	return g.doc, nil
}

func (g *Generator) setContext() {
	g.doc.Context.BusinessProcessID = businessProcessID
	g.doc.Context.GuidelineID = g.profile.Guideline()
}

func (g *Generator) setHeader() error {
	g.doc.Header.ID = g.inv.ID
	g.doc.Header.IssueDate = g.inv.PostingDate

	// Type codes according to UNTDID 1001.
	switch {
	case g.inv.IsReturn:
		// Credit note: document for providing credit information to the
		// relevant party.
		g.doc.Header.TypeCode = "381"
		if g.inv.ReturnAgainst == "" {
			return model.NewMappingError(g.inv.ID, "return_against", "a credit note must reference the returned invoice", nil)
		}
		g.doc.Trade.Settlement.InvoiceReference = cii.ReferencedDocument{
			IssuerAssignedID: g.inv.ReturnAgainst,
			IssueDate:        g.inv.ReturnAgainstDate,
		}
	case g.inv.AmendedFrom != "":
		// Corrected invoice: revised information differing from an earlier
		// submission of the same invoice.
		g.doc.Header.TypeCode = "384"
		g.doc.Trade.Settlement.InvoiceReference = cii.ReferencedDocument{
			IssuerAssignedID: g.inv.AmendedFrom,
			IssueDate:        g.inv.AmendedFromDate,
		}
	default:
		// Commercial invoice.
		g.doc.Header.TypeCode = "380"
	}

	if g.inv.Terms != "" {
		g.doc.Header.Notes = append(g.doc.Header.Notes, cii.Note{
			Content:     strings.TrimSpace(g.inv.Terms),
			SubjectCode: "ABC", // conditions of sale or purchase
		})
	}
	if g.inv.Incoterm != "" {
		g.doc.Header.Notes = append(g.doc.Header.Notes, cii.Note{
			Content:     strings.TrimSpace(g.inv.Incoterm + " " + g.inv.NamedPlace),
			SubjectCode: "AAR", // terms of delivery
		})
	}
	return nil
}

func (g *Generator) setSeller() error {
	seller := &g.doc.Trade.Agreement.Seller
	seller.Name = g.inv.Company
	seller.ID = g.inv.SellerID

	if tr := taxRegistration(g.inv.CompanyTaxID); tr != nil {
		seller.TaxRegistrations = append(seller.TaxRegistrations, *tr)
	}

	if g.profile != profile.Basic {
		seller.Contact = g.sellerContact()
	}

	seller.ElectronicAddress = g.sellerElectronicAddress()

	addr, err := g.mapAddress(g.inv.SellerAddress, "seller_address")
	if err != nil {
		return err
	}
	seller.Address = addr
	return nil
}

func (g *Generator) sellerContact() *cii.TradeContact {
	contact := &cii.TradeContact{}
	phone := g.inv.CompanyPhone
	if c := g.inv.SellerContact; c != nil {
		contact.PersonName = c.FullName
		contact.DepartmentName = c.Department
		contact.Email = c.Email
		if c.Phone != "" {
			phone = c.Phone
		}
	}
	if phone != "" && g.profile.AtLeast(profile.EN16931) {
		contact.Phone = phone
	}
	if g.inv.CompanyFax != "" && g.profile.AtLeast(profile.Extended) {
		contact.Fax = g.inv.CompanyFax
	}
	return contact
}

func (g *Generator) sellerElectronicAddress() cii.SchemeID {
	if ea := g.inv.SellerElectronicAddress; ea.Scheme != "" && ea.Value != "" {
		return cii.SchemeID{SchemeID: ea.Scheme, Value: ea.Value}
	}
	email := g.inv.CompanyEmail
	if c := g.inv.SellerContact; c != nil && c.Email != "" {
		email = c.Email
	}
	if email != "" {
		return cii.SchemeID{SchemeID: "EM", Value: email}
	}
	return cii.SchemeID{}
}

func (g *Generator) setBuyer() error {
	buyer := &g.doc.Trade.Agreement.Buyer
	buyer.ID = g.inv.CustomerID
	buyer.Name = g.inv.CustomerName

	addr, err := g.mapAddress(g.inv.BuyerAddress, "buyer_address")
	if err != nil {
		return err
	}
	buyer.Address = addr

	if err := g.setShipTo(); err != nil {
		return err
	}

	if g.profile != profile.Basic && g.inv.BuyerContact != nil {
		buyer.Contact = g.buyerContact()
	}

	buyer.ElectronicAddress = g.buyerElectronicAddress()

	if tr := taxRegistration(g.inv.CustomerTaxID); tr != nil {
		buyer.TaxRegistrations = append(buyer.TaxRegistrations, *tr)
	}
	return nil
}

func (g *Generator) buyerContact() *cii.TradeContact {
	c := g.inv.BuyerContact
	contact := &cii.TradeContact{
		PersonName:     c.FullName,
		DepartmentName: c.Department,
		Email:          c.Email,
	}
	if g.profile.AtLeast(profile.EN16931) {
		switch {
		case c.Phone != "":
			contact.Phone = c.Phone
		case c.Mobile != "":
			contact.Phone = c.Mobile
		}
	}
	return contact
}

func (g *Generator) buyerElectronicAddress() cii.SchemeID {
	if ea := g.inv.BuyerElectronicAddress; ea.Scheme != "" && ea.Value != "" {
		return cii.SchemeID{SchemeID: ea.Scheme, Value: ea.Value}
	}
	if g.inv.ContactEmail != "" {
		return cii.SchemeID{SchemeID: "EM", Value: g.inv.ContactEmail}
	}
	if g.inv.BuyerAddress != nil && g.inv.BuyerAddress.Email != "" {
		return cii.SchemeID{SchemeID: "EM", Value: g.inv.BuyerAddress.Email}
	}
	return cii.SchemeID{}
}

func (g *Generator) setShipTo() error {
	if g.inv.ShippingAddress == nil {
		return nil
	}
	addr, err := g.mapAddress(g.inv.ShippingAddress, "shipping_address")
	if err != nil {
		return err
	}
	name := g.inv.ShippingAddress.Title
	if name == "" {
		name = g.inv.CustomerName
	}
	g.doc.Trade.Delivery.ShipTo = &cii.TradeParty{
		Name:    name,
		Address: addr,
	}
	return nil
}

func (g *Generator) mapAddress(a *model.Address, field string) (*cii.PostalAddress, error) {
	if a == nil {
		return nil, nil
	}
	if a.CountryCode == "" {
		return nil, model.NewMappingError(g.inv.ID, field, "country code could not be resolved", nil)
	}
	return &cii.PostalAddress{
		LineOne:   a.Line1,
		LineTwo:   a.Line2,
		Postcode:  a.Postcode,
		CityName:  a.City,
		CountryID: strings.ToUpper(a.CountryCode),
	}, nil
}

func (g *Generator) embedAttachment() {
	att := g.inv.EmbeddedDocument
	if att == nil {
		return
	}
	ref := cii.AdditionalReferencedDocument{
		IssuerAssignedID: att.Name,
		TypeCode:         "916", // "Related document" according to UNTDID 1001
	}
	if att.Remote {
		ref.URIID = att.URI
	} else {
		ref.Attachment = &cii.BinaryObject{
			MimeCode: att.MimeType,
			Filename: att.Filename,
			Base64:   base64.StdEncoding.EncodeToString(att.Content),
		}
	}
	g.doc.Trade.Agreement.AdditionalReferences = append(g.doc.Trade.Agreement.AdditionalReferences, ref)
}

func (g *Generator) addLineItem(item *model.LineItem) error {
	li := cii.LineItem{}
	li.LineID = strconv.Itoa(item.Idx)
	li.Product.Name = item.ItemName

	if g.profile != profile.Basic {
		li.Product.SellerAssignedID = item.ItemCode
		li.Product.BuyerAssignedID = item.CustomerItemCode
		li.Product.Description = item.Description
	}

	// The host system won't accept negative quantities, and the e-invoice
	// rules (BR-27) won't accept negative prices. To work around this, we
	// flip the signs: a line that would have had a negative price and
	// positive quantity is instead sent with a positive price and a
	// negative quantity.
	rate, qty := item.NetRate, item.Qty
	if rate.IsNegative() && qty.IsPositive() {
		rate = rate.Neg()
		qty = qty.Neg()
	}

	li.Agreement.NetAmount = rate

	unitCode, err := g.codes.UOM.Resolve(codelist.Candidate{Kind: KindUOM, Value: item.UOM})
	if err != nil {
		return err
	}
	li.Delivery.BilledQuantity = cii.Quantity{Amount: qty, UnitCode: unitCode}

	if item.DeliveryNote != "" {
		g.deliveryDates = append(g.deliveryDates, item.DeliveryNoteDate)
		if g.profile.AtLeast(profile.Extended) {
			li.Delivery.DeliveryNote = cii.ReferencedDocument{
				IssuerAssignedID: item.DeliveryNote,
				IssueDate:        item.DeliveryNoteDate,
			}
		}
	}

	li.Settlement.TradeTax.TypeCode = "VAT"
	category, err := g.codes.TaxCategory.Resolve(g.itemTaxCandidates(item)...)
	if err != nil {
		return err
	}
	li.Settlement.TradeTax.CategoryCode = category

	if zeroRatedCategories[category] {
		li.Settlement.TradeTax.RatePercent = cii.Ptr(decimal.Zero)
	} else {
		itemRate := g.itemRate(item)
		if itemRate != nil {
			g.itemTaxRates[itemRate.String()] = *itemRate
		} else {
			g.sawUnratedItem = true
		}
		li.Settlement.TradeTax.RatePercent = itemRate
	}

	if r := li.Settlement.TradeTax.RatePercent; r != nil && r.IsZero() {
		reason, err := g.codes.VATExemption.Resolve(g.itemTaxCandidates(item)...)
		if err != nil {
			return err
		}
		li.Settlement.TradeTax.ExemptionReasonCode = strings.ToUpper(reason)
	}

	li.Settlement.LineTotal = item.NetAmount
	g.doc.Trade.Items = append(g.doc.Trade.Items, li)
	return nil
}

func (g *Generator) itemTaxCandidates(item *model.LineItem) []codelist.Candidate {
	template := ""
	if item.TaxTemplate != nil {
		template = item.TaxTemplate.Name
	}
	return []codelist.Candidate{
		{Kind: KindItemTaxTemplate, Value: template},
		{Kind: KindAccount, Value: item.IncomeAccount},
		{Kind: KindTaxCategory, Value: g.inv.TaxCategory},
		{Kind: KindTaxesAndCharges, Value: g.inv.TaxesAndCharges},
	}
}

// itemRate determines the tax rate for an item from its tax template and
// the invoice tax rows. Returns nil when no rate can be determined.
func (g *Generator) itemRate(item *model.LineItem) *decimal.Decimal {
	if item.TaxTemplate != nil {
		// match the accounts from the taxes table with the rate from the
		// item tax template
		applicable := make(map[string]bool)
		for _, tax := range g.inv.Taxes {
			if tax.AccountHead != "" {
				applicable[tax.AccountHead] = true
			}
		}
		for _, t := range item.TaxTemplate.Taxes {
			if applicable[t.AccountHead] {
				rate := t.Rate
				return &rate
			}
		}
	}

	// if only one tax is on net total, return its rate
	var rates []decimal.Decimal
	for _, tax := range g.inv.Taxes {
		if tax.ChargeType == model.ChargeOnNetTotal {
			rates = append(rates, tax.Rate)
		}
	}
	if len(rates) == 1 {
		return &rates[0]
	}
	return nil
}

func (g *Generator) docTaxCandidates(accountHead string) []codelist.Candidate {
	return []codelist.Candidate{
		{Kind: KindAccount, Value: accountHead},
		{Kind: KindTaxCategory, Value: g.inv.TaxCategory},
		{Kind: KindTaxesAndCharges, Value: g.inv.TaxesAndCharges},
	}
}

func (g *Generator) addTaxesAndCharges() (bool, error) {
	taxAdded := false
	taxes := g.inv.Taxes
	for i := range taxes {
		tax := &taxes[i]
		switch {
		case tax.ChargeType == model.ChargeActual && g.profile.AtLeast(profile.Extended):
			charge := cii.LogisticsServiceCharge{
				Description:   tax.Description,
				AppliedAmount: tax.TaxAmount,
			}
			if i+1 < len(taxes) {
				next := &taxes[i+1]
				if next.ChargeType == model.ChargeOnPreviousAmount || next.ChargeType == model.ChargeOnPreviousTotal {
					// Add applied VAT for the service charge (BR-FXEXT-S-08)
					category, err := g.codes.TaxCategory.Resolve(g.docTaxCandidates(next.AccountHead)...)
					if err != nil {
						return false, err
					}
					charge.Taxes = append(charge.Taxes, cii.TradeTax{
						TypeCode:     "VAT",
						RatePercent:  cii.Ptr(next.Rate),
						CategoryCode: category,
					})
				}
			}
			g.doc.Trade.Settlement.ServiceCharges = append(g.doc.Trade.Settlement.ServiceCharges, charge)

		case tax.ChargeType == model.ChargeOnNetTotal:
			trade, err := g.onNetTotalTax(tax)
			if err != nil {
				return false, err
			}
			g.doc.Trade.Settlement.TradeTaxes = append(g.doc.Trade.Settlement.TradeTaxes, *trade)
			taxAdded = true

		case tax.ChargeType == model.ChargeOnPreviousAmount || tax.ChargeType == model.ChargeOnPreviousTotal:
			if i == 0 {
				return false, model.NewMappingError(g.inv.ID, "taxes", "row 1 cannot refer to a previous row", nil)
			}
			prev := &taxes[i-1]
			trade := cii.TradeTax{
				RatePercent:      cii.Ptr(tax.Rate),
				CalculatedAmount: cii.Ptr(tax.TaxAmount),
			}
			if tax.ChargeType == model.ChargeOnPreviousAmount {
				trade.BasisAmount = cii.Ptr(prev.TaxAmount)
			} else {
				trade.BasisAmount = cii.Ptr(prev.Total)
			}
			if prev.ChargeType == model.ChargeActual {
				// VAT for a logistics service charge
				trade.TypeCode = "VAT"
			} else {
				// a tax or duty applied on and in addition to existing
				// duties and taxes
				trade.TypeCode = "SUR"
			}
			category, err := g.codes.TaxCategory.Resolve(g.docTaxCandidates(tax.AccountHead)...)
			if err != nil {
				return false, err
			}
			trade.CategoryCode = category
			g.doc.Trade.Settlement.TradeTaxes = append(g.doc.Trade.Settlement.TradeTaxes, trade)
			taxAdded = true
		}
	}
	return taxAdded, nil
}

func (g *Generator) onNetTotalTax(tax *model.TaxRow) (*cii.TradeTax, error) {
	trade := &cii.TradeTax{
		CalculatedAmount: cii.Ptr(tax.TaxAmount),
		TypeCode:         "VAT",
	}
	category, err := g.codes.TaxCategory.Resolve(g.docTaxCandidates(tax.AccountHead)...)
	if err != nil {
		return nil, err
	}
	trade.CategoryCode = category

	taxRate := tax.Rate
	if taxRate.IsZero() {
		taxRate = tax.AccountRate
	}
	trade.RatePercent = cii.Ptr(taxRate)

	switch {
	case len(g.inv.Taxes) == 1:
		// We only have one tax, so we can use the net total as basis amount
		trade.BasisAmount = cii.Ptr(g.inv.NetTotal)
		if len(g.itemTaxRates) == 1 && !g.sawUnratedItem && taxRate.IsZero() {
			// We only have one tax rate on the line items, but it was not
			// specified on the tax row, so we use the tax rate from the
			// line items.
			for _, r := range g.itemTaxRates {
				trade.RatePercent = cii.Ptr(r)
			}
		}
	case tax.NetAmount != nil:
		trade.BasisAmount = tax.NetAmount
	case !tax.TaxAmount.IsZero() && !taxRate.IsZero():
		// We don't know the basis amount for this tax, so we try to
		// calculate it
		trade.BasisAmount = cii.Ptr(money.Basis(tax.TaxAmount, taxRate))
	default:
		trade.BasisAmount = cii.Ptr(decimal.Zero)
	}
	return trade, nil
}

// addEmptyTax adds a 0% tax to the document, since it is mandatory.
func (g *Generator) addEmptyTax() {
	candidates := []codelist.Candidate{
		{Kind: KindTaxCategory, Value: g.inv.TaxCategory},
		{Kind: KindTaxesAndCharges, Value: g.inv.TaxesAndCharges},
	}
	category, _ := g.codes.TaxCategory.Resolve(candidates...)
	reason, _ := g.codes.VATExemption.Resolve(candidates...)
	g.doc.Trade.Settlement.TradeTaxes = append(g.doc.Trade.Settlement.TradeTaxes, cii.TradeTax{
		TypeCode:            "VAT", // [CII-DT-037] - TypeCode shall be 'VAT'
		CategoryCode:        category,
		BasisAmount:         cii.Ptr(g.inv.NetTotal),
		RatePercent:         cii.Ptr(decimal.Zero),
		CalculatedAmount:    cii.Ptr(decimal.Zero),
		ExemptionReasonCode: strings.ToUpper(reason),
	})
}

func (g *Generator) addDeliveryDate() {
	var date time.Time
	switch {
	case len(g.deliveryDates) > 0:
		date = g.deliveryDates[0]
		for _, d := range g.deliveryDates[1:] {
			if d.After(date) {
				date = d
			}
		}
	case !g.inv.ToDate.IsZero():
		date = g.inv.ToDate
	default:
		date = g.inv.PostingDate
	}
	g.doc.Trade.Delivery.OccurrenceDate = date
}

func (g *Generator) addPaymentTerms() {
	schedule := g.inv.PaymentSchedule
	for i := range schedule {
		ps := &schedule[i]
		terms := cii.PaymentTerms{Due: ps.DueDate}
		description := ps.Description

		if len(schedule) > 1 {
			// [CII-DT-031] - currencyID should not be present
			terms.PartialAmounts = append(terms.PartialAmounts, cii.CurrencyAmount{Amount: ps.PaymentAmount})
		}

		if !ps.Discount.IsZero() && !ps.DiscountDate.IsZero() {
			switch g.profile {
			case profile.Extended:
				discount := &cii.DiscountTerms{
					BasisDate:   ps.DiscountDate,
					BasisAmount: cii.Ptr(ps.PaymentAmount),
				}
				switch ps.DiscountType {
				case model.DiscountPercentage:
					discount.CalculationPercent = cii.Ptr(ps.Discount)
				case model.DiscountAmount:
					discount.ActualAmount = cii.Ptr(ps.Discount)
				}
				terms.Discount = discount
			case profile.XRechnung:
				// the character "#" is not allowed in the free text
				description = strings.ReplaceAll(description, "#", "//")
				if ps.DiscountType == model.DiscountPercentage {
					discountDays := daysBetween(g.inv.PostingDate, ps.DiscountDate)
					if discountDays < 0 {
						var basis *decimal.Decimal
						if !money.Equal2(ps.PaymentAmount, g.inv.OutstandingAmount) {
							basis = &ps.PaymentAmount
						}
						if description != "" {
							description += "\n"
						}
						description += skontoLine(discountDays, ps.Discount, basis)
						description += "\n"
					}
				}
			}
		}

		terms.Description = description
		g.doc.Trade.Settlement.Terms = append(g.doc.Trade.Settlement.Terms, terms)
	}
}

func (g *Generator) addPaymentMeans() error {
	candidates := []codelist.Candidate{
		{Kind: KindPaymentTermsTemplate, Value: g.inv.PaymentTermsTemplate},
	}
	for _, ps := range g.inv.PaymentSchedule {
		candidates = append(candidates, codelist.Candidate{Kind: KindModeOfPayment, Value: ps.ModeOfPayment})
	}
	typeCode, err := g.codes.PaymentMeans.Resolve(candidates...)
	if err != nil {
		return err
	}
	g.doc.Trade.Settlement.PaymentMeans.TypeCode = typeCode

	seen := make(map[string]bool)
	for _, ps := range g.inv.PaymentSchedule {
		mode := ps.ModeOfPayment
		if mode == "" || seen[mode] {
			continue
		}
		seen[mode] = true

		bank, ok := g.inv.BankDetails[mode]
		if !ok || bank.IBAN == "" {
			continue
		}

		g.doc.Trade.Settlement.PaymentMeans.IBAN = bank.IBAN
		if g.profile.AtLeast(profile.EN16931) {
			g.doc.Trade.Settlement.PaymentMeans.AccountName = g.inv.Company
			g.doc.Trade.Settlement.PaymentMeans.BIC = bank.BIC
		}
		break
	}
	return nil
}

func (g *Generator) setTotals() {
	s := &g.doc.Trade.Settlement.Summation

	// [BR-DEC-09] - max. 2 decimals for the sum of invoice line net amounts
	s.LineTotal = cii.Ptr(money.Round2(g.inv.NetTotal))

	actualChargeTotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, tax := range g.inv.Taxes {
		if tax.ChargeType == model.ChargeActual {
			actualChargeTotal = actualChargeTotal.Add(tax.TaxAmount)
		} else {
			taxTotal = taxTotal.Add(tax.TaxAmount)
		}
	}

	if !actualChargeTotal.IsZero() {
		// [BR-DEC-11] - max. 2 decimals for the sum of charges on document level
		s.ChargeTotal = cii.Ptr(money.Round2(actualChargeTotal))
	}

	// [BR-DEC-12] - max. 2 decimals for the invoice total without VAT
	s.TaxBasisTotal = cii.Ptr(money.Round2(g.inv.NetTotal.Add(actualChargeTotal)))

	// [BR-DEC-13] - max. 2 decimals for the invoice total VAT amount
	s.TaxTotals = append(s.TaxTotals, cii.CurrencyAmount{
		Amount:   money.Round2(taxTotal),
		Currency: g.inv.Currency,
	})

	// [BR-DEC-14] - max. 2 decimals for the invoice total with VAT
	s.GrandTotal = cii.Ptr(money.Round2(g.inv.GrandTotal))

	// [BR-DEC-16] - max. 2 decimals for the paid amount
	if g.inv.OutstandingAmount.IsZero() {
		s.PrepaidTotal = cii.Ptr(money.Round2(g.inv.GrandTotal))
	} else {
		s.PrepaidTotal = cii.Ptr(money.Round2(g.inv.TotalAdvance))
	}

	// [BR-DEC-18] - max. 2 decimals for the amount due for payment
	s.DueAmount = cii.Ptr(money.Round2(g.inv.OutstandingAmount))
}

// daysBetween returns the number of whole days from a to b, negative when
// b is before a.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
