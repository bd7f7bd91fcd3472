package importer

import (
	"github.com/rezonia/eu-einvoice/internal/codelist"
	"github.com/rezonia/eu-einvoice/internal/model"
)

// Reapply runs the heuristic passes on a record, filling host links that
// are still empty. A miss is never an error. Submitted records are frozen
// and must not be changed.
func (p *Parser) Reapply(rec *ImportRecord) error {
	if rec.Submitted {
		return model.NewParseError(rec.ID, "a submitted import record cannot be changed", nil)
	}

	p.guessSupplier(rec)
	p.guessCompany(rec)
	p.guessUOM(rec)
	p.guessItemCode(rec)
	p.allocatePurchaseOrder(rec)
	return nil
}

// guessSupplier matches the seller by name first, then by tax id. The tax
// id wins when both match different suppliers.
func (p *Parser) guessSupplier(rec *ImportRecord) {
	if rec.Supplier != "" || p.dir == nil {
		return
	}
	if rec.SellerName != "" && p.dir.SupplierExists(rec.SellerName) {
		rec.Supplier = rec.SellerName
	}
	if rec.SellerTaxID != "" {
		if supplier := p.dir.SupplierByTaxID(rec.SellerTaxID); supplier != "" {
			rec.Supplier = supplier
		}
	}
}

func (p *Parser) guessCompany(rec *ImportRecord) {
	if rec.Company != "" || p.dir == nil {
		return
	}
	if rec.BuyerName != "" && p.dir.CompanyExists(rec.BuyerName) {
		rec.Company = rec.BuyerName
	} else {
		rec.Company = p.dir.DefaultCompany()
	}
}

// guessUOM resolves the unit code back to a host unit via the two UN/ECE
// recommendation lists, falling back to the linked item's purchase unit.
func (p *Parser) guessUOM(rec *ImportRecord) {
	for i := range rec.Items {
		row := &rec.Items[i]
		if row.UOM != "" {
			continue
		}

		if row.UnitCode != "" && p.store != nil {
			names := p.store.NamesFor(codelist.ListUOMRec20, "uom", row.UnitCode)
			if len(names) == 0 {
				names = p.store.NamesFor(codelist.ListUOMRec21, "uom", row.UnitCode)
			}
			if len(names) > 0 {
				row.UOM = names[0]
				continue
			}
		}
		if row.Item != "" && p.dir != nil {
			row.UOM = p.dir.ItemUOM(row.Item)
		}
	}
}

func (p *Parser) guessItemCode(rec *ImportRecord) {
	if p.dir == nil {
		return
	}
	for i := range rec.Items {
		row := &rec.Items[i]
		if row.Item != "" {
			continue
		}
		if row.SellerProductID != "" && rec.Supplier != "" {
			row.Item = p.dir.ItemBySupplierPart(rec.Supplier, row.SellerProductID)
		}
	}
}

// allocatePurchaseOrder links invoice lines to purchase order lines,
// greedily consuming each order line's unbilled amount. Existing links
// that still point into the selected order are kept.
func (p *Parser) allocatePurchaseOrder(rec *ImportRecord) {
	if rec.PurchaseOrder == "" || p.dir == nil {
		clearAllocations(rec)
		return
	}
	po := p.dir.PurchaseOrder(rec.PurchaseOrder)
	if po == nil {
		clearAllocations(rec)
		return
	}

	valid := make(map[string]bool, len(po.Items))
	unbilled := make([]PurchaseOrderItem, len(po.Items))
	copy(unbilled, po.Items)
	for _, poRow := range po.Items {
		valid[poRow.ID] = true
	}

	for i := range rec.Items {
		row := &rec.Items[i]
		if row.PODetail != "" && valid[row.PODetail] {
			continue
		}

		row.PODetail = ""
		if row.Item == "" || row.TotalAmount == nil {
			continue
		}
		for j := range unbilled {
			poRow := &unbilled[j]
			if poRow.ItemCode == row.Item && poRow.UnbilledAmount.GreaterThanOrEqual(*row.TotalAmount) {
				row.PODetail = poRow.ID
				poRow.UnbilledAmount = poRow.UnbilledAmount.Sub(*row.TotalAmount)
				break
			}
		}
	}
}

func clearAllocations(rec *ImportRecord) {
	for i := range rec.Items {
		rec.Items[i].PODetail = ""
	}
}
