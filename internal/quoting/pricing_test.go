package quoting

import (
	"errors"
	"testing"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineTotal(t *testing.T) {
	cases := []struct {
		qty      int
		price    string
		discount string
		want     string
	}{
		{2, "450", "10", "810.00"},
		{2, "150", "0", "300.00"},
		{3, "19.99", "15", "50.97"},
		{1, "10.005", "0", "10.01"},
		{4, "25", "100", "0.00"},
	}
	for _, tc := range cases {
		got := LineTotal(tc.qty, dec(tc.price), dec(tc.discount))
		if got.StringFixed(2) != tc.want {
			t.Fatalf("LineTotal(%d, %s, %s) = %s, want %s", tc.qty, tc.price, tc.discount, got.StringFixed(2), tc.want)
		}
	}
}

func TestComputeTotalsWorkedExample(t *testing.T) {
	items := []models.LineItem{
		{Type: models.ItemProduct, Name: "Sink", Quantity: 2, UnitPrice: dec("450"), DiscountPercent: dec("10")},
		{Type: models.ItemLabor, Name: "Install", Quantity: 2, UnitPrice: dec("150")},
	}
	for i := range items {
		PriceLineItem(&items[i])
	}

	totals := TotalsForItems(items, dec("0.0825"), dec("50"))
	if totals.Subtotal.StringFixed(2) != "1110.00" {
		t.Fatalf("subtotal %s", totals.Subtotal.StringFixed(2))
	}
	if totals.TaxableAmount.StringFixed(2) != "1060.00" {
		t.Fatalf("taxable %s", totals.TaxableAmount.StringFixed(2))
	}
	if totals.TaxAmount.StringFixed(2) != "87.45" {
		t.Fatalf("tax %s", totals.TaxAmount.StringFixed(2))
	}
	if totals.Total.StringFixed(2) != "1147.45" {
		t.Fatalf("total %s", totals.Total.StringFixed(2))
	}
}

func TestComputeTotalsClampsOversizedDiscount(t *testing.T) {
	totals := ComputeTotals([]decimal.Decimal{dec("100")}, dec("0.08"), dec("250"))
	if !totals.TaxableAmount.IsZero() || !totals.TaxAmount.IsZero() || !totals.Total.IsZero() {
		t.Fatalf("expected zero taxable/tax/total, got %+v", totals)
	}
	if totals.Subtotal.StringFixed(2) != "100.00" {
		t.Fatalf("subtotal should be unaffected, got %s", totals.Subtotal)
	}
}

func TestComputeTotalsIsIdempotent(t *testing.T) {
	lines := []decimal.Decimal{dec("12.34"), dec("56.78"), dec("0.01")}
	a := ComputeTotals(lines, dec("0.0725"), dec("5"))
	b := ComputeTotals(lines, dec("0.0725"), dec("5"))
	if !a.Subtotal.Equal(b.Subtotal) || !a.TaxAmount.Equal(b.TaxAmount) || !a.Total.Equal(b.Total) {
		t.Fatalf("expected identical totals: %+v vs %+v", a, b)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil, dec("0.1"), dec("0"))
	if !totals.Total.IsZero() {
		t.Fatalf("expected zero total, got %s", totals.Total)
	}
}

func TestPriceLineItemRoundTrip(t *testing.T) {
	item := models.LineItem{Type: models.ItemMaterial, Name: "Caulk", Quantity: 7, UnitPrice: dec("3.333"), DiscountPercent: dec("12.5")}
	PriceLineItem(&item)
	if !item.LineTotal.Equal(LineTotal(item.Quantity, item.UnitPrice, item.DiscountPercent)) {
		t.Fatalf("stored line total does not match recomputation")
	}
	if item.UnitPrice.StringFixed(2) != "3.33" {
		t.Fatalf("unit price should be rounded to cents, got %s", item.UnitPrice)
	}
}

func TestValidateLineItem(t *testing.T) {
	bad := models.LineItem{Type: "gift", Quantity: 0, UnitPrice: dec("-1"), DiscountPercent: dec("101")}
	err := ValidateLineItem(&bad)
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"quantity", "unit_price", "discount_percent", "name", "type"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected %s to be flagged, got %v", field, verr.Fields)
		}
	}

	good := models.LineItem{Type: models.ItemLabor, Name: "Install", Quantity: 1, UnitPrice: dec("0"), DiscountPercent: dec("100")}
	if err := ValidateLineItem(&good); err != nil {
		t.Fatalf("expected valid item, got %v", err)
	}
}

func TestValidateFinancials(t *testing.T) {
	if err := ValidateFinancials(dec("0.0825"), dec("0")); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := ValidateFinancials(dec("8.25"), dec("0")); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("tax rate above 1 should fail, got %v", err)
	}
	if err := ValidateFinancials(dec("0.1"), dec("-5")); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("negative discount should fail, got %v", err)
	}
}
