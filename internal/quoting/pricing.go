// Package quoting holds the pure rules behind a quote: line pricing, totals,
// status transitions and partial updates. Persistence lives in repository.
package quoting

import (
	"sink_quoter/internal/apperr"
	"sink_quoter/internal/models"

	"github.com/shopspring/decimal"
)

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Totals are the derived money fields of a quote.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
}

// LineTotal is quantity × unit price less the line discount, rounded to cents.
func LineTotal(quantity int, unitPrice, discountPercent decimal.Decimal) decimal.Decimal {
	factor := one.Sub(discountPercent.Div(hundred))
	return decimal.NewFromInt(int64(quantity)).Mul(unitPrice).Mul(factor).Round(2)
}

// ComputeTotals applies the order-level discount and tax to a set of line totals.
func ComputeTotals(lineTotals []decimal.Decimal, taxRate, discountAmount decimal.Decimal) Totals {
	subtotal := zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	subtotal = subtotal.Round(2)

	taxable := decimal.Max(zero, subtotal.Sub(discountAmount))
	tax := decimal.Max(zero, taxable.Mul(taxRate).Round(2))
	total := decimal.Max(zero, taxable.Add(tax).Round(2))

	return Totals{
		Subtotal:      subtotal,
		TaxableAmount: taxable.Round(2),
		TaxAmount:     tax,
		Total:         total,
	}
}

// TotalsForItems sums the stored line totals of items.
func TotalsForItems(items []models.LineItem, taxRate, discountAmount decimal.Decimal) Totals {
	lineTotals := make([]decimal.Decimal, len(items))
	for i, it := range items {
		lineTotals[i] = it.LineTotal
	}
	return ComputeTotals(lineTotals, taxRate, discountAmount)
}

// PriceLineItem normalizes the item's money fields and derives LineTotal.
func PriceLineItem(item *models.LineItem) {
	item.UnitPrice = item.UnitPrice.Round(2)
	item.DiscountPercent = item.DiscountPercent.Round(2)
	item.LineTotal = LineTotal(item.Quantity, item.UnitPrice, item.DiscountPercent)
}

// ValidateLineItem checks the fields that the database cannot.
func ValidateLineItem(item *models.LineItem) error {
	fields := map[string]string{}
	if item.Quantity <= 0 {
		fields["quantity"] = "gt=0"
	}
	if item.UnitPrice.IsNegative() {
		fields["unit_price"] = "gte=0"
	}
	if item.DiscountPercent.IsNegative() || item.DiscountPercent.GreaterThan(hundred) {
		fields["discount_percent"] = "between 0 and 100"
	}
	if item.Name == "" {
		fields["name"] = "required"
	}
	switch item.Type {
	case models.ItemProduct, models.ItemLabor, models.ItemMaterial, models.ItemOther:
	default:
		fields["type"] = "oneof=product labor material other"
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}

// ValidateFinancials checks a quote's tax rate (a fraction, 0–1) and its
// order-level discount.
func ValidateFinancials(taxRate, discountAmount decimal.Decimal) error {
	fields := map[string]string{}
	if taxRate.IsNegative() || taxRate.GreaterThan(one) {
		fields["tax_rate"] = "between 0 and 1"
	}
	if discountAmount.IsNegative() {
		fields["discount_amount"] = "gte=0"
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}
