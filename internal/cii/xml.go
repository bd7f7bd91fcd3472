package cii

import (
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/money"
)

const (
	nsRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	nsRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	nsUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
	nsQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
)

// dateFormat102 is the UDT/QDT calendar date format (CCYYMMDD).
const dateFormat102 = "20060102"

// Serialize renders the document as namespaced CII XML.
func (d *Document) Serialize() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", nsRSM)
	root.CreateAttr("xmlns:ram", nsRAM)
	root.CreateAttr("xmlns:udt", nsUDT)
	root.CreateAttr("xmlns:qdt", nsQDT)

	d.writeContext(root)
	d.writeHeader(root)
	d.writeTrade(root)

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (d *Document) writeContext(root *etree.Element) {
	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	if d.Context.BusinessProcessID != "" {
		bp := ctx.CreateElement("ram:BusinessProcessSpecifiedDocumentContextParameter")
		text(bp, "ram:ID", d.Context.BusinessProcessID)
	}
	gp := ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	text(gp, "ram:ID", d.Context.GuidelineID)
}

func (d *Document) writeHeader(root *etree.Element) {
	hdr := root.CreateElement("rsm:ExchangedDocument")
	text(hdr, "ram:ID", d.Header.ID)
	text(hdr, "ram:TypeCode", d.Header.TypeCode)
	writeDate(hdr, "ram:IssueDateTime", "udt:DateTimeString", d.Header.IssueDate)
	for _, n := range d.Header.Notes {
		note := hdr.CreateElement("ram:IncludedNote")
		text(note, "ram:Content", n.Content)
		text(note, "ram:SubjectCode", n.SubjectCode)
	}
}

func (d *Document) writeTrade(root *etree.Element) {
	trade := root.CreateElement("rsm:SupplyChainTradeTransaction")

	for i := range d.Trade.Items {
		writeLineItem(trade, &d.Trade.Items[i])
	}

	agr := trade.CreateElement("ram:ApplicableHeaderTradeAgreement")
	text(agr, "ram:BuyerReference", d.Trade.Agreement.BuyerReference)
	writeParty(agr, "ram:SellerTradeParty", &d.Trade.Agreement.Seller)
	writeParty(agr, "ram:BuyerTradeParty", &d.Trade.Agreement.Buyer)
	writeRefDoc(agr, "ram:SellerOrderReferencedDocument", d.Trade.Agreement.SellerOrder)
	writeRefDoc(agr, "ram:BuyerOrderReferencedDocument", d.Trade.Agreement.BuyerOrder)
	for _, ref := range d.Trade.Agreement.AdditionalReferences {
		el := agr.CreateElement("ram:AdditionalReferencedDocument")
		text(el, "ram:IssuerAssignedID", ref.IssuerAssignedID)
		text(el, "ram:URIID", ref.URIID)
		text(el, "ram:TypeCode", ref.TypeCode)
		if ref.Attachment != nil {
			obj := el.CreateElement("ram:AttachmentBinaryObject")
			obj.CreateAttr("mimeCode", ref.Attachment.MimeCode)
			obj.CreateAttr("filename", ref.Attachment.Filename)
			obj.SetText(ref.Attachment.Base64)
		}
	}

	del := trade.CreateElement("ram:ApplicableHeaderTradeDelivery")
	if d.Trade.Delivery.ShipTo != nil {
		writeParty(del, "ram:ShipToTradeParty", d.Trade.Delivery.ShipTo)
	}
	if !d.Trade.Delivery.OccurrenceDate.IsZero() {
		ev := del.CreateElement("ram:ActualDeliverySupplyChainEvent")
		writeDate(ev, "ram:OccurrenceDateTime", "udt:DateTimeString", d.Trade.Delivery.OccurrenceDate)
	}

	d.writeSettlement(trade)
}

func (d *Document) writeSettlement(trade *etree.Element) {
	s := &d.Trade.Settlement
	set := trade.CreateElement("ram:ApplicableHeaderTradeSettlement")
	text(set, "ram:InvoiceCurrencyCode", s.CurrencyCode)

	if s.PaymentMeans.TypeCode != "" || s.PaymentMeans.IBAN != "" {
		pm := set.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		text(pm, "ram:TypeCode", s.PaymentMeans.TypeCode)
		if s.PaymentMeans.IBAN != "" {
			acc := pm.CreateElement("ram:PayeePartyCreditorFinancialAccount")
			text(acc, "ram:IBANID", s.PaymentMeans.IBAN)
			text(acc, "ram:AccountName", s.PaymentMeans.AccountName)
		}
		if s.PaymentMeans.BIC != "" {
			inst := pm.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution")
			text(inst, "ram:BICID", s.PaymentMeans.BIC)
		}
	}

	for i := range s.TradeTaxes {
		writeTradeTax(set, "ram:ApplicableTradeTax", &s.TradeTaxes[i], true)
	}

	if !s.BillingPeriod.Start.IsZero() || !s.BillingPeriod.End.IsZero() {
		period := set.CreateElement("ram:BillingSpecifiedPeriod")
		if !s.BillingPeriod.Start.IsZero() {
			writeDate(period, "ram:StartDateTime", "udt:DateTimeString", s.BillingPeriod.Start)
		}
		if !s.BillingPeriod.End.IsZero() {
			writeDate(period, "ram:EndDateTime", "udt:DateTimeString", s.BillingPeriod.End)
		}
	}

	for i := range s.ServiceCharges {
		sc := &s.ServiceCharges[i]
		el := set.CreateElement("ram:SpecifiedLogisticsServiceCharge")
		text(el, "ram:Description", sc.Description)
		amount(el, "ram:AppliedAmount", sc.AppliedAmount)
		for j := range sc.Taxes {
			writeTradeTax(el, "ram:AppliedTradeTax", &sc.Taxes[j], false)
		}
	}

	for i := range s.Terms {
		writeTerms(set, &s.Terms[i])
	}

	writeSummation(set, &s.Summation)
	writeRefDoc(set, "ram:InvoiceReferencedDocument", s.InvoiceReference)
}

func writeLineItem(trade *etree.Element, li *LineItem) {
	el := trade.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	doc := el.CreateElement("ram:AssociatedDocumentLineDocument")
	text(doc, "ram:LineID", li.LineID)

	prod := el.CreateElement("ram:SpecifiedTradeProduct")
	text(prod, "ram:SellerAssignedID", li.Product.SellerAssignedID)
	text(prod, "ram:BuyerAssignedID", li.Product.BuyerAssignedID)
	text(prod, "ram:Name", li.Product.Name)
	text(prod, "ram:Description", li.Product.Description)

	agr := el.CreateElement("ram:SpecifiedLineTradeAgreement")
	price := agr.CreateElement("ram:NetPriceProductTradePrice")
	amount(price, "ram:ChargeAmount", li.Agreement.NetAmount)
	if li.Agreement.BasisQuantity != nil {
		q := price.CreateElement("ram:BasisQuantity")
		q.CreateAttr("unitCode", li.Agreement.BasisQuantity.UnitCode)
		q.SetText(li.Agreement.BasisQuantity.Amount.String())
	}

	del := el.CreateElement("ram:SpecifiedLineTradeDelivery")
	q := del.CreateElement("ram:BilledQuantity")
	q.CreateAttr("unitCode", li.Delivery.BilledQuantity.UnitCode)
	q.SetText(li.Delivery.BilledQuantity.Amount.String())
	if li.Delivery.DeliveryNote.IssuerAssignedID != "" {
		writeRefDoc(del, "ram:DeliveryNoteReferencedDocument", li.Delivery.DeliveryNote)
	}

	set := el.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := set.CreateElement("ram:ApplicableTradeTax")
	text(tax, "ram:TypeCode", li.Settlement.TradeTax.TypeCode)
	text(tax, "ram:ExemptionReasonCode", li.Settlement.TradeTax.ExemptionReasonCode)
	text(tax, "ram:CategoryCode", li.Settlement.TradeTax.CategoryCode)
	ratePercent(tax, li.Settlement.TradeTax.RatePercent)
	sum := set.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	amount(sum, "ram:LineTotalAmount", li.Settlement.LineTotal)
}

func writeParty(parent *etree.Element, tag string, p *TradeParty) {
	el := parent.CreateElement(tag)
	text(el, "ram:ID", p.ID)
	text(el, "ram:Name", p.Name)

	if p.Contact != nil {
		c := el.CreateElement("ram:DefinedTradeContact")
		text(c, "ram:PersonName", p.Contact.PersonName)
		text(c, "ram:DepartmentName", p.Contact.DepartmentName)
		if p.Contact.Phone != "" {
			tel := c.CreateElement("ram:TelephoneUniversalCommunication")
			text(tel, "ram:CompleteNumber", p.Contact.Phone)
		}
		if p.Contact.Fax != "" {
			fax := c.CreateElement("ram:FaxUniversalCommunication")
			text(fax, "ram:CompleteNumber", p.Contact.Fax)
		}
		if p.Contact.Email != "" {
			em := c.CreateElement("ram:EmailURIUniversalCommunication")
			text(em, "ram:URIID", p.Contact.Email)
		}
	}

	if p.Address != nil {
		a := el.CreateElement("ram:PostalTradeAddress")
		text(a, "ram:PostcodeCode", p.Address.Postcode)
		text(a, "ram:LineOne", p.Address.LineOne)
		text(a, "ram:LineTwo", p.Address.LineTwo)
		text(a, "ram:CityName", p.Address.CityName)
		text(a, "ram:CountryID", p.Address.CountryID)
	}

	if p.ElectronicAddress.Value != "" {
		uri := el.CreateElement("ram:URIUniversalCommunication")
		id := uri.CreateElement("ram:URIID")
		if p.ElectronicAddress.SchemeID != "" {
			id.CreateAttr("schemeID", p.ElectronicAddress.SchemeID)
		}
		id.SetText(p.ElectronicAddress.Value)
	}

	for _, reg := range p.TaxRegistrations {
		r := el.CreateElement("ram:SpecifiedTaxRegistration")
		id := r.CreateElement("ram:ID")
		if reg.SchemeID != "" {
			id.CreateAttr("schemeID", reg.SchemeID)
		}
		id.SetText(reg.Value)
	}
}

func writeRefDoc(parent *etree.Element, tag string, ref ReferencedDocument) {
	if ref.IssuerAssignedID == "" {
		return
	}
	el := parent.CreateElement(tag)
	text(el, "ram:IssuerAssignedID", ref.IssuerAssignedID)
	if !ref.IssueDate.IsZero() {
		writeDate(el, "ram:FormattedIssueDateTime", "qdt:DateTimeString", ref.IssueDate)
	}
}

func writeTradeTax(parent *etree.Element, tag string, t *TradeTax, withBasis bool) {
	el := parent.CreateElement(tag)
	if t.CalculatedAmount != nil {
		amount(el, "ram:CalculatedAmount", *t.CalculatedAmount)
	}
	text(el, "ram:TypeCode", t.TypeCode)
	text(el, "ram:ExemptionReasonCode", t.ExemptionReasonCode)
	if withBasis && t.BasisAmount != nil {
		amount(el, "ram:BasisAmount", *t.BasisAmount)
	}
	text(el, "ram:CategoryCode", t.CategoryCode)
	ratePercent(el, t.RatePercent)
}

func writeTerms(parent *etree.Element, t *PaymentTerms) {
	el := parent.CreateElement("ram:SpecifiedTradePaymentTerms")
	text(el, "ram:Description", t.Description)
	if !t.Due.IsZero() {
		writeDate(el, "ram:DueDateDateTime", "udt:DateTimeString", t.Due)
	}
	for _, pa := range t.PartialAmounts {
		// [CII-DT-031] - currencyID should not be present
		p := el.CreateElement("ram:PartialPaymentAmount")
		if pa.Currency != "" {
			p.CreateAttr("currencyID", pa.Currency)
		}
		p.SetText(money.Emit(pa.Amount))
	}
	if t.Discount != nil {
		dt := el.CreateElement("ram:ApplicableTradePaymentDiscountTerms")
		if !t.Discount.BasisDate.IsZero() {
			writeDate(dt, "ram:BasisDateTime", "udt:DateTimeString", t.Discount.BasisDate)
		}
		if t.Discount.BasisAmount != nil {
			amount(dt, "ram:BasisAmount", *t.Discount.BasisAmount)
		}
		if t.Discount.CalculationPercent != nil {
			text(dt, "ram:CalculationPercent", t.Discount.CalculationPercent.String())
		}
		if t.Discount.ActualAmount != nil {
			amount(dt, "ram:ActualDiscountAmount", *t.Discount.ActualAmount)
		}
	}
}

func writeSummation(parent *etree.Element, s *MonetarySummation) {
	el := parent.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	amountPtr(el, "ram:LineTotalAmount", s.LineTotal)
	amountPtr(el, "ram:ChargeTotalAmount", s.ChargeTotal)
	amountPtr(el, "ram:AllowanceTotalAmount", s.AllowanceTotal)
	amountPtr(el, "ram:TaxBasisTotalAmount", s.TaxBasisTotal)
	for _, tt := range s.TaxTotals {
		t := el.CreateElement("ram:TaxTotalAmount")
		if tt.Currency != "" {
			t.CreateAttr("currencyID", tt.Currency)
		}
		t.SetText(money.Emit(tt.Amount))
	}
	amountPtr(el, "ram:GrandTotalAmount", s.GrandTotal)
	amountPtr(el, "ram:TotalPrepaidAmount", s.PrepaidTotal)
	amountPtr(el, "ram:DuePayableAmount", s.DueAmount)
}

func text(parent *etree.Element, tag, value string) {
	if value == "" {
		return
	}
	parent.CreateElement(tag).SetText(value)
}

func amount(parent *etree.Element, tag string, d decimal.Decimal) {
	parent.CreateElement(tag).SetText(money.Emit(d))
}

func amountPtr(parent *etree.Element, tag string, d *decimal.Decimal) {
	if d == nil {
		return
	}
	amount(parent, tag, *d)
}

func ratePercent(parent *etree.Element, d *decimal.Decimal) {
	if d == nil {
		return
	}
	parent.CreateElement("ram:RateApplicablePercent").SetText(d.String())
}

func writeDate(parent *etree.Element, wrapperTag, innerTag string, t time.Time) {
	if t.IsZero() {
		return
	}
	w := parent.CreateElement(wrapperTag)
	inner := w.CreateElement(innerTag)
	inner.CreateAttr("format", "102")
	inner.SetText(t.Format(dateFormat102))
}

// Parse reads a CII document tree from XML bytes. Namespace prefixes of the
// incoming document are ignored, elements are matched by local name.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.NewParseError("einvoice", "the file does not contain valid XML data", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "CrossIndustryInvoice" {
		return nil, model.NewParseError("einvoice", "not a cross-industry invoice document", nil)
	}

	d := &Document{}

	if ctx := child(root, "ExchangedDocumentContext"); ctx != nil {
		d.Context.BusinessProcessID = childText(ctx, "BusinessProcessSpecifiedDocumentContextParameter", "ID")
		d.Context.GuidelineID = childText(ctx, "GuidelineSpecifiedDocumentContextParameter", "ID")
	}

	if hdr := child(root, "ExchangedDocument"); hdr != nil {
		d.Header.ID = childText(hdr, "ID")
		d.Header.TypeCode = childText(hdr, "TypeCode")
		d.Header.IssueDate = readDate(child(hdr, "IssueDateTime"))
		for _, n := range children(hdr, "IncludedNote") {
			d.Header.Notes = append(d.Header.Notes, Note{
				Content:     childText(n, "Content"),
				SubjectCode: childText(n, "SubjectCode"),
			})
		}
	}

	trade := child(root, "SupplyChainTradeTransaction")
	if trade == nil {
		return d, nil
	}

	for _, li := range children(trade, "IncludedSupplyChainTradeLineItem") {
		d.Trade.Items = append(d.Trade.Items, readLineItem(li))
	}

	if agr := child(trade, "ApplicableHeaderTradeAgreement"); agr != nil {
		d.Trade.Agreement.BuyerReference = childText(agr, "BuyerReference")
		if seller := child(agr, "SellerTradeParty"); seller != nil {
			d.Trade.Agreement.Seller = readParty(seller)
		}
		if buyer := child(agr, "BuyerTradeParty"); buyer != nil {
			d.Trade.Agreement.Buyer = readParty(buyer)
		}
		d.Trade.Agreement.SellerOrder = readRefDoc(child(agr, "SellerOrderReferencedDocument"))
		d.Trade.Agreement.BuyerOrder = readRefDoc(child(agr, "BuyerOrderReferencedDocument"))
	}

	if del := child(trade, "ApplicableHeaderTradeDelivery"); del != nil {
		if shipTo := child(del, "ShipToTradeParty"); shipTo != nil {
			p := readParty(shipTo)
			d.Trade.Delivery.ShipTo = &p
		}
		if ev := child(del, "ActualDeliverySupplyChainEvent"); ev != nil {
			d.Trade.Delivery.OccurrenceDate = readDate(child(ev, "OccurrenceDateTime"))
		}
	}

	if set := child(trade, "ApplicableHeaderTradeSettlement"); set != nil {
		readSettlement(set, &d.Trade.Settlement)
	}

	return d, nil
}

func readSettlement(set *etree.Element, s *TradeSettlement) {
	s.CurrencyCode = childText(set, "InvoiceCurrencyCode")

	if pm := child(set, "SpecifiedTradeSettlementPaymentMeans"); pm != nil {
		s.PaymentMeans.TypeCode = childText(pm, "TypeCode")
		if acc := child(pm, "PayeePartyCreditorFinancialAccount"); acc != nil {
			s.PaymentMeans.IBAN = childText(acc, "IBANID")
			s.PaymentMeans.AccountName = childText(acc, "AccountName")
		}
		s.PaymentMeans.BIC = childText(pm, "PayeeSpecifiedCreditorFinancialInstitution", "BICID")
	}

	for _, t := range children(set, "ApplicableTradeTax") {
		s.TradeTaxes = append(s.TradeTaxes, readTradeTax(t))
	}

	if period := child(set, "BillingSpecifiedPeriod"); period != nil {
		s.BillingPeriod.Start = readDate(child(period, "StartDateTime"))
		s.BillingPeriod.End = readDate(child(period, "EndDateTime"))
	}

	for _, sc := range children(set, "SpecifiedLogisticsServiceCharge") {
		charge := LogisticsServiceCharge{
			Description: childText(sc, "Description"),
		}
		if d := readAmount(child(sc, "AppliedAmount")); d != nil {
			charge.AppliedAmount = *d
		}
		for _, t := range children(sc, "AppliedTradeTax") {
			charge.Taxes = append(charge.Taxes, readTradeTax(t))
		}
		s.ServiceCharges = append(s.ServiceCharges, charge)
	}

	for _, t := range children(set, "SpecifiedTradePaymentTerms") {
		s.Terms = append(s.Terms, readTerms(t))
	}

	if sum := child(set, "SpecifiedTradeSettlementHeaderMonetarySummation"); sum != nil {
		s.Summation.LineTotal = readAmount(child(sum, "LineTotalAmount"))
		s.Summation.ChargeTotal = readAmount(child(sum, "ChargeTotalAmount"))
		s.Summation.AllowanceTotal = readAmount(child(sum, "AllowanceTotalAmount"))
		s.Summation.TaxBasisTotal = readAmount(child(sum, "TaxBasisTotalAmount"))
		for _, t := range children(sum, "TaxTotalAmount") {
			if d := readAmount(t); d != nil {
				s.Summation.TaxTotals = append(s.Summation.TaxTotals, CurrencyAmount{
					Amount:   *d,
					Currency: t.SelectAttrValue("currencyID", ""),
				})
			}
		}
		s.Summation.GrandTotal = readAmount(child(sum, "GrandTotalAmount"))
		s.Summation.PrepaidTotal = readAmount(child(sum, "TotalPrepaidAmount"))
		s.Summation.DueAmount = readAmount(child(sum, "DuePayableAmount"))
	}

	s.InvoiceReference = readRefDoc(child(set, "InvoiceReferencedDocument"))
}

func readLineItem(el *etree.Element) LineItem {
	li := LineItem{}
	li.LineID = childText(el, "AssociatedDocumentLineDocument", "LineID")

	if prod := child(el, "SpecifiedTradeProduct"); prod != nil {
		li.Product.SellerAssignedID = childText(prod, "SellerAssignedID")
		li.Product.BuyerAssignedID = childText(prod, "BuyerAssignedID")
		li.Product.Name = childText(prod, "Name")
		li.Product.Description = childText(prod, "Description")
	}

	if agr := child(el, "SpecifiedLineTradeAgreement"); agr != nil {
		if price := child(agr, "NetPriceProductTradePrice"); price != nil {
			if d := readAmount(child(price, "ChargeAmount")); d != nil {
				li.Agreement.NetAmount = *d
			}
			if q := child(price, "BasisQuantity"); q != nil {
				if d := readAmount(q); d != nil {
					li.Agreement.BasisQuantity = &Quantity{
						Amount:   *d,
						UnitCode: q.SelectAttrValue("unitCode", ""),
					}
				}
			}
		}
	}

	if del := child(el, "SpecifiedLineTradeDelivery"); del != nil {
		if q := child(del, "BilledQuantity"); q != nil {
			if d := readAmount(q); d != nil {
				li.Delivery.BilledQuantity.Amount = *d
			}
			li.Delivery.BilledQuantity.UnitCode = q.SelectAttrValue("unitCode", "")
		}
		li.Delivery.DeliveryNote = readRefDoc(child(del, "DeliveryNoteReferencedDocument"))
	}

	if set := child(el, "SpecifiedLineTradeSettlement"); set != nil {
		if tax := child(set, "ApplicableTradeTax"); tax != nil {
			li.Settlement.TradeTax.TypeCode = childText(tax, "TypeCode")
			li.Settlement.TradeTax.CategoryCode = childText(tax, "CategoryCode")
			li.Settlement.TradeTax.ExemptionReasonCode = childText(tax, "ExemptionReasonCode")
			li.Settlement.TradeTax.RatePercent = readAmount(child(tax, "RateApplicablePercent"))
		}
		if d := readAmount(child(child(set, "SpecifiedTradeSettlementLineMonetarySummation"), "LineTotalAmount")); d != nil {
			li.Settlement.LineTotal = *d
		}
	}

	return li
}

func readParty(el *etree.Element) TradeParty {
	p := TradeParty{
		ID:   childText(el, "ID"),
		Name: childText(el, "Name"),
	}

	if c := child(el, "DefinedTradeContact"); c != nil {
		p.Contact = &TradeContact{
			PersonName:     childText(c, "PersonName"),
			DepartmentName: childText(c, "DepartmentName"),
			Email:          childText(c, "EmailURIUniversalCommunication", "URIID"),
			Phone:          childText(c, "TelephoneUniversalCommunication", "CompleteNumber"),
			Fax:            childText(c, "FaxUniversalCommunication", "CompleteNumber"),
		}
	}

	if a := child(el, "PostalTradeAddress"); a != nil {
		p.Address = &PostalAddress{
			LineOne:   childText(a, "LineOne"),
			LineTwo:   childText(a, "LineTwo"),
			Postcode:  childText(a, "PostcodeCode"),
			CityName:  childText(a, "CityName"),
			CountryID: childText(a, "CountryID"),
		}
	}

	if uri := child(el, "URIUniversalCommunication"); uri != nil {
		if id := child(uri, "URIID"); id != nil {
			p.ElectronicAddress = SchemeID{
				SchemeID: id.SelectAttrValue("schemeID", ""),
				Value:    id.Text(),
			}
		}
	}

	for _, reg := range children(el, "SpecifiedTaxRegistration") {
		if id := child(reg, "ID"); id != nil {
			p.TaxRegistrations = append(p.TaxRegistrations, SchemeID{
				SchemeID: id.SelectAttrValue("schemeID", ""),
				Value:    id.Text(),
			})
		}
	}

	return p
}

func readTradeTax(el *etree.Element) TradeTax {
	return TradeTax{
		CalculatedAmount:    readAmount(child(el, "CalculatedAmount")),
		TypeCode:            childText(el, "TypeCode"),
		ExemptionReasonCode: childText(el, "ExemptionReasonCode"),
		BasisAmount:         readAmount(child(el, "BasisAmount")),
		CategoryCode:        childText(el, "CategoryCode"),
		RatePercent:         readAmount(child(el, "RateApplicablePercent")),
	}
}

func readTerms(el *etree.Element) PaymentTerms {
	t := PaymentTerms{
		Description: childText(el, "Description"),
		Due:         readDate(child(el, "DueDateDateTime")),
	}
	for _, pa := range children(el, "PartialPaymentAmount") {
		if d := readAmount(pa); d != nil {
			t.PartialAmounts = append(t.PartialAmounts, CurrencyAmount{
				Amount:   *d,
				Currency: pa.SelectAttrValue("currencyID", ""),
			})
		}
	}
	if dt := child(el, "ApplicableTradePaymentDiscountTerms"); dt != nil {
		t.Discount = &DiscountTerms{
			BasisDate:          readDate(child(dt, "BasisDateTime")),
			BasisAmount:        readAmount(child(dt, "BasisAmount")),
			CalculationPercent: readAmount(child(dt, "CalculationPercent")),
			ActualAmount:       readAmount(child(dt, "ActualDiscountAmount")),
		}
	}
	return t
}

func readRefDoc(el *etree.Element) ReferencedDocument {
	if el == nil {
		return ReferencedDocument{}
	}
	return ReferencedDocument{
		IssuerAssignedID: childText(el, "IssuerAssignedID"),
		IssueDate:        readDate(child(el, "FormattedIssueDateTime")),
	}
}

// child returns the first child element with the given local name,
// regardless of namespace prefix.
func child(el *etree.Element, name string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag == name {
			return c
		}
	}
	return nil
}

func children(el *etree.Element, name string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == name {
			out = append(out, c)
		}
	}
	return out
}

// childText walks a path of local names and returns the trimmed text of the
// final element, or "".
func childText(el *etree.Element, path ...string) string {
	cur := el
	for _, name := range path {
		cur = child(cur, name)
		if cur == nil {
			return ""
		}
	}
	return strings.TrimSpace(cur.Text())
}

func readAmount(el *etree.Element) *decimal.Decimal {
	if el == nil {
		return nil
	}
	s := strings.TrimSpace(el.Text())
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func readDate(el *etree.Element) time.Time {
	if el == nil {
		return time.Time{}
	}
	s := strings.TrimSpace(el.Text())
	if s == "" {
		// date may be wrapped in a DateTimeString child
		for _, c := range el.ChildElements() {
			if t := strings.TrimSpace(c.Text()); t != "" {
				s = t
				break
			}
		}
	}
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateFormat102, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
