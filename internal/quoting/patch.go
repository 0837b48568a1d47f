package quoting

import (
	"encoding/json"
	"time"

	"sink_quoter/internal/models"

	"github.com/shopspring/decimal"
)

// Optional is a patch slot. Set distinguishes "absent" from a zero or null value.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// QuotePatch lists every quote field a caller may change through updateQuote.
// Status and signature have their own guarded operations.
type QuotePatch struct {
	TaxRate        Optional[decimal.Decimal] `json:"tax_rate"`
	DiscountAmount Optional[decimal.Decimal] `json:"discount_amount"`
	ValidUntil     Optional[*time.Time]      `json:"valid_until"`
	Notes          Optional[string]          `json:"notes"`
	MeasurementID  Optional[*uint]           `json:"measurement_id"`
}

func (p QuotePatch) IsEmpty() bool {
	return !p.TaxRate.Set && !p.DiscountAmount.Set && !p.ValidUntil.Set && !p.Notes.Set && !p.MeasurementID.Set
}

// TouchesFinancials reports whether applying p requires a totals recalculation.
func (p QuotePatch) TouchesFinancials() bool {
	return p.TaxRate.Set || p.DiscountAmount.Set
}

// ApplyPatch returns q with every set slot of p merged in. q is not modified.
func ApplyPatch(q models.Quote, p QuotePatch) models.Quote {
	if p.TaxRate.Set {
		q.TaxRate = p.TaxRate.Value.Round(4)
	}
	if p.DiscountAmount.Set {
		q.DiscountAmount = p.DiscountAmount.Value.Round(2)
	}
	if p.ValidUntil.Set {
		q.ValidUntil = p.ValidUntil.Value
	}
	if p.Notes.Set {
		q.Notes = p.Notes.Value
	}
	if p.MeasurementID.Set {
		q.MeasurementID = p.MeasurementID.Value
	}
	return q
}
