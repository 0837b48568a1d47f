package quoting

import (
	"encoding/json"
	"testing"
	"time"

	"sink_quoter/internal/models"
)

func TestPatchUnmarshalTracksPresence(t *testing.T) {
	var p QuotePatch
	if err := json.Unmarshal([]byte(`{"discount_amount":"25.50","valid_until":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.DiscountAmount.Set || p.DiscountAmount.Value.StringFixed(2) != "25.50" {
		t.Fatalf("discount not captured: %+v", p.DiscountAmount)
	}
	if !p.ValidUntil.Set || p.ValidUntil.Value != nil {
		t.Fatalf("explicit null should clear valid_until: %+v", p.ValidUntil)
	}
	if p.TaxRate.Set || p.Notes.Set || p.MeasurementID.Set {
		t.Fatalf("absent fields must stay unset")
	}
	if !p.TouchesFinancials() {
		t.Fatalf("discount change must trigger recalculation")
	}
}

func TestApplyPatchOnlyChangesSetFields(t *testing.T) {
	valid := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	q := models.Quote{
		TaxRate:        dec("0.0825"),
		DiscountAmount: dec("10"),
		ValidUntil:     &valid,
		Notes:          "original",
	}

	out := ApplyPatch(q, QuotePatch{Notes: Some("call before arrival"), TaxRate: Some(dec("0.07255"))})
	if out.Notes != "call before arrival" {
		t.Fatalf("notes not applied")
	}
	if out.TaxRate.String() != "0.0726" {
		t.Fatalf("tax rate should be rounded to 4 places, got %s", out.TaxRate)
	}
	if !out.DiscountAmount.Equal(dec("10")) || out.ValidUntil != &valid {
		t.Fatalf("unset fields changed: %+v", out)
	}
	if q.Notes != "original" {
		t.Fatalf("input quote was mutated")
	}
}

func TestEmptyPatch(t *testing.T) {
	if !(QuotePatch{}).IsEmpty() {
		t.Fatalf("zero patch should be empty")
	}
	if (QuotePatch{Notes: Some("")}).IsEmpty() {
		t.Fatalf("explicitly set empty notes is still a change")
	}
}
