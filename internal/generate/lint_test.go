package generate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/eu-einvoice/internal/generate"
	"github.com/rezonia/eu-einvoice/internal/model"
	"github.com/rezonia/eu-einvoice/internal/profile"
)

func TestLintCleanInvoice(t *testing.T) {
	assert.Empty(t, generate.Lint(testInvoice(), profile.EN16931))
}

func TestLintUnsupportedChargeTypes(t *testing.T) {
	inv := testInvoice()
	inv.Taxes = append(inv.Taxes,
		model.TaxRow{Idx: 2, ChargeType: model.ChargeOnItemQuantity, TaxAmount: d("1")},
		model.TaxRow{Idx: 3, ChargeType: model.ChargeActual, Description: "Freight", TaxAmount: d("5")},
	)

	warnings := generate.Lint(inv, profile.EN16931)
	assert.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "row #2")
	assert.Contains(t, warnings[1], "row #3")

	// the EXTENDED profile carries service charges
	warnings = generate.Lint(inv, profile.Extended)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "row #2")
}

func TestLintDiscountDateBeforePosting(t *testing.T) {
	inv := testInvoice()
	inv.PaymentSchedule = []model.PaymentScheduleRow{
		{
			Idx:           1,
			DueDate:       date(2024, time.June, 14),
			PaymentAmount: d("59.50"),
			DiscountType:  model.DiscountPercentage,
			Discount:      d("2"),
			DiscountDate:  date(2024, time.May, 10),
		},
	}

	warnings := generate.Lint(inv, profile.EN16931)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "discount date should be after posting date")
}

func TestLintMultipleModesOfPayment(t *testing.T) {
	inv := testInvoice()
	inv.PaymentSchedule = []model.PaymentScheduleRow{
		{Idx: 1, PaymentAmount: d("30"), ModeOfPayment: "Cash"},
		{Idx: 2, PaymentAmount: d("29.50"), ModeOfPayment: "Bank Transfer"},
	}

	warnings := generate.Lint(inv, profile.EN16931)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "only one mode of payment")
}

func TestLintDocumentLevelDiscount(t *testing.T) {
	inv := testInvoice()
	inv.DiscountAmount = d("5")

	warnings := generate.Lint(inv, profile.EN16931)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "document level discount")
}
