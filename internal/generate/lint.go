package generate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/profile"
)

// Lint checks an invoice for constructs that will be dropped or degraded
// during mapping and returns one warning per finding. An empty result does
// not imply the generated document will pass validation.
func Lint(inv *model.Invoice, p profile.Profile) []string {
	var warnings []string

	for _, tax := range inv.Taxes {
		if tax.ChargeType == model.ChargeOnItemQuantity {
			warnings = append(warnings, fmt.Sprintf(
				"taxes row #%d: type %q is not supported in the e-invoice", tax.Idx, tax.ChargeType))
		}
		if tax.ChargeType == model.ChargeActual && !p.AtLeast(profile.Extended) {
			warnings = append(warnings, fmt.Sprintf(
				"taxes row #%d: the charge type 'Actual' is only supported in the profiles 'EXTENDED' and 'XRECHNUNG'", tax.Idx))
		}
	}

	modes := make(map[string]bool)
	for _, ps := range inv.PaymentSchedule {
		if !ps.DiscountDate.IsZero() && daysBetween(inv.PostingDate, ps.DiscountDate) < 0 {
			warnings = append(warnings, fmt.Sprintf(
				"payment schedule row #%d: discount date should be after posting date", ps.Idx))
		}
		if ps.ModeOfPayment != "" {
			modes[ps.ModeOfPayment] = true
		}
	}
	if len(modes) > 1 {
		warnings = append(warnings, "payment schedule: only one mode of payment will be considered in the e-invoice")
	}

	if !inv.DiscountAmount.IsZero() {
		warnings = append(warnings, "a document level discount is currently not supported in the e-invoice")
	}

	return warnings
}

// skontoLine returns codified early payment discount terms as required by
// the German federal invoice submission portals.
func skontoLine(days int, percent decimal.Decimal, basisAmount *decimal.Decimal) string {
	line := fmt.Sprintf("#SKONTO#TAGE=%d#PROZENT=%s#", days, percent.StringFixed(2))
	if basisAmount != nil && !basisAmount.IsZero() {
		line += fmt.Sprintf("BASISBETRAG=%s#", basisAmount.StringFixed(2))
	}
	return line
}
