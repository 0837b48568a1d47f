package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"sink_quoter/internal/matching"
	"sink_quoter/internal/models"
)

// Money leaves the API as fixed two-place strings and the tax rate as a
// four-place string.
func money(d decimal.Decimal) string { return d.StringFixed(2) }

type lineItemResponse struct {
	ID              uint                `json:"id"`
	Type            models.LineItemType `json:"type"`
	Name            string              `json:"name"`
	SKU             *string             `json:"sku"`
	Description     *string             `json:"description"`
	ProductID       *uint               `json:"product_id"`
	Quantity        int                 `json:"quantity"`
	UnitPrice       string              `json:"unit_price"`
	DiscountPercent string              `json:"discount_percent"`
	LineTotal       string              `json:"line_total"`
	SortOrder       int                 `json:"sort_order"`
}

type quoteResponse struct {
	ID             uint               `json:"id"`
	QuoteNumber    string             `json:"quote_number"`
	CustomerID     uint               `json:"customer_id"`
	MeasurementID  *uint              `json:"measurement_id"`
	CreatedBy      uint               `json:"created_by"`
	Status         models.QuoteStatus `json:"status"`
	Subtotal       string             `json:"subtotal"`
	TaxRate        string             `json:"tax_rate"`
	TaxAmount      string             `json:"tax_amount"`
	DiscountAmount string             `json:"discount_amount"`
	Total          string             `json:"total"`
	ValidUntil     *time.Time         `json:"valid_until"`
	SignatureData  *string            `json:"signature_data,omitempty"`
	SignedAt       *time.Time         `json:"signed_at"`
	SentAt         *time.Time         `json:"sent_at"`
	ViewedAt       *time.Time         `json:"viewed_at"`
	AcceptedAt     *time.Time         `json:"accepted_at"`
	RejectedAt     *time.Time         `json:"rejected_at"`
	ExpiredAt      *time.Time         `json:"expired_at"`
	Notes          string             `json:"notes"`
	Version        int                `json:"version"`
	LineItems      []lineItemResponse `json:"line_items"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func newQuoteResponse(q *models.Quote) quoteResponse {
	resp := quoteResponse{
		ID:             q.ID,
		QuoteNumber:    q.QuoteNumber,
		CustomerID:     q.CustomerID,
		MeasurementID:  q.MeasurementID,
		CreatedBy:      q.CreatedBy,
		Status:         q.Status,
		Subtotal:       money(q.Subtotal),
		TaxRate:        q.TaxRate.StringFixed(4),
		TaxAmount:      money(q.TaxAmount),
		DiscountAmount: money(q.DiscountAmount),
		Total:          money(q.Total),
		ValidUntil:     q.ValidUntil,
		SignatureData:  q.SignatureData,
		SignedAt:       q.SignedAt,
		SentAt:         q.SentAt,
		ViewedAt:       q.ViewedAt,
		AcceptedAt:     q.AcceptedAt,
		RejectedAt:     q.RejectedAt,
		ExpiredAt:      q.ExpiredAt,
		Notes:          q.Notes,
		Version:        q.Version,
		LineItems:      make([]lineItemResponse, 0, len(q.LineItems)),
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
	for _, it := range q.LineItems {
		resp.LineItems = append(resp.LineItems, lineItemResponse{
			ID:              it.ID,
			Type:            it.Type,
			Name:            it.Name,
			SKU:             it.SKU,
			Description:     it.Description,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			UnitPrice:       money(it.UnitPrice),
			DiscountPercent: money(it.DiscountPercent),
			LineTotal:       money(it.LineTotal),
			SortOrder:       it.SortOrder,
		})
	}
	return resp
}

func newQuoteListResponse(quotes []models.Quote) []quoteResponse {
	out := make([]quoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, newQuoteResponse(&quotes[i]))
	}
	return out
}

type productResponse struct {
	ID                   uint                     `json:"id"`
	SKU                  string                   `json:"sku"`
	Name                 string                   `json:"name"`
	Brand                string                   `json:"brand"`
	Material             string                   `json:"material"`
	Color                string                   `json:"color"`
	Width                float64                  `json:"width"`
	Depth                float64                  `json:"depth"`
	Height               float64                  `json:"height"`
	MountingStyle        models.MountingStyle     `json:"mounting_style"`
	TopMountCapable      bool                     `json:"top_mount_capable"`
	BowlCount            int                      `json:"bowl_count"`
	BowlConfiguration    models.BowlConfiguration `json:"bowl_configuration"`
	InstallationType     models.InstallationType  `json:"installation_type"`
	IsWorkstation        bool                     `json:"is_workstation"`
	MinCabinetWidth      *float64                 `json:"min_cabinet_width"`
	FieldMinCabinetWidth *float64                 `json:"field_min_cabinet_width"`
	ApronDepth           *float64                 `json:"apron_depth"`
	Price                string                   `json:"price"`
	LaborCost            string                   `json:"labor_cost"`
	IsActive             bool                     `json:"is_active"`
}

func newProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:                   p.ID,
		SKU:                  p.SKU,
		Name:                 p.Name,
		Brand:                p.Brand,
		Material:             p.Material,
		Color:                p.Color,
		Width:                p.Width,
		Depth:                p.Depth,
		Height:               p.Height,
		MountingStyle:        p.MountingStyle,
		TopMountCapable:      p.TopMountCapable,
		BowlCount:            p.BowlCount,
		BowlConfiguration:    p.BowlConfiguration,
		InstallationType:     p.InstallationType,
		IsWorkstation:        p.IsWorkstation,
		MinCabinetWidth:      p.MinCabinetWidth,
		FieldMinCabinetWidth: p.FieldMinCabinetWidth,
		ApronDepth:           p.ApronDepth,
		Price:                money(p.Price),
		LaborCost:            money(p.LaborCost),
		IsActive:             p.IsActive,
	}
}

type addOnResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Reason string `json:"reason"`
}

type matchResponse struct {
	Product           productResponse                `json:"product"`
	OverallScore      int                            `json:"overall_score"`
	FitRating         matching.FitRating             `json:"fit_rating"`
	FeasibleMethods   []matching.InstallMethodResult `json:"feasible_methods"`
	EliminatedMethods []matching.InstallMethodResult `json:"eliminated_methods"`
	HardGateFailures  []string                       `json:"hard_gate_failures"`
	Warnings          []string                       `json:"warnings"`
	AddOns            []addOnResponse                `json:"add_ons"`
	Clearances        matching.Clearances            `json:"clearances"`
}

func newMatchResponse(r *matching.MatchResult) matchResponse {
	resp := matchResponse{
		Product:           newProductResponse(r.Product),
		OverallScore:      r.OverallScore,
		FitRating:         r.FitRating,
		FeasibleMethods:   r.FeasibleMethods,
		EliminatedMethods: r.EliminatedMethods,
		HardGateFailures:  r.HardGateFailures,
		Warnings:          r.Warnings,
		AddOns:            make([]addOnResponse, 0, len(r.AddOns)),
		Clearances:        r.Clearances,
	}
	for _, a := range r.AddOns {
		resp.AddOns = append(resp.AddOns, addOnResponse{Code: a.Code, Name: a.Name, Price: money(a.Price), Reason: a.Reason})
	}
	return resp
}
