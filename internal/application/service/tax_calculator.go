package service

import (
	"github.com/shopspring/decimal"
	"github.com/tecnano/factura-api/pkg/apperror"
)

// TaxLine is one line of cart input to the calculator.
type TaxLine struct {
	UnitPrice     decimal.Decimal
	Quantity      int
	TaxApplicable bool
}

// Totals is the monetary summary of a sale. Total always equals
// round2(Subtotal + TaxAmount); TaxBase is the sum of taxed line
// subtotals only.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxBase   decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// TaxCalculator computes sale totals from line items. All arithmetic is
// exact decimal; every figure is rounded half-up to two decimals exactly
// once, so no cent drifts between the line, subtotal and total paths.
type TaxCalculator struct {
	rate decimal.Decimal
}

// NewTaxCalculator creates a calculator with the configured tax rate
// (e.g. 0.12). The rate is fixed for the calculator's lifetime; rate
// changes apply to subsequently constructed calculators only.
func NewTaxCalculator(rate decimal.Decimal) *TaxCalculator {
	return &TaxCalculator{rate: rate}
}

// LineSubtotal computes unitPrice * quantity rounded to two decimals.
// Non-positive quantities are clamped to 1, mirroring the permissive
// POS behavior: a scanned item is always at least one item.
func (c *TaxCalculator) LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	if quantity < 1 {
		quantity = 1
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Calculate computes the totals for a full line set. An empty line set
// is a caller error: a sale cannot exist without items.
func (c *TaxCalculator) Calculate(lines []TaxLine) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, apperror.ErrEmptyCart
	}

	subtotal := decimal.Zero
	taxBase := decimal.Zero
	for _, line := range lines {
		lineSubtotal := c.LineSubtotal(line.UnitPrice, line.Quantity)
		subtotal = subtotal.Add(lineSubtotal)
		if line.TaxApplicable {
			taxBase = taxBase.Add(lineSubtotal)
		}
	}

	subtotal = subtotal.Round(2)
	taxBase = taxBase.Round(2)
	taxAmount := taxBase.Mul(c.rate).Round(2)
	total := subtotal.Add(taxAmount).Round(2)

	return Totals{
		Subtotal:  subtotal,
		TaxBase:   taxBase,
		TaxAmount: taxAmount,
		Total:     total,
	}, nil
}
