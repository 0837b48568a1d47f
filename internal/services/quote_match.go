package services

import (
	"context"
	"fmt"
	"strings"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/matching"
	"sink_quoter/internal/models"
)

type AddMatchInput struct {
	Preferences   matching.Preferences `json:"preferences"`
	IncludeAddOns *bool                `json:"include_add_ons"`
}

// AddMatchToQuote evaluates a catalog product against the quote's measurement
// and appends the sink, its labor and the suggested add-on services as line
// items. Products rated no_go are refused.
func (s *quoteService) AddMatchToQuote(ctx context.Context, scope Scope, quoteID, productID uint, input AddMatchInput) (*models.Quote, *matching.MatchResult, error) {
	quote, err := s.quotes.GetByID(ctx, scope.CompanyID, quoteID)
	if err != nil {
		return nil, nil, err
	}
	if quote.MeasurementID == nil {
		return nil, nil, apperr.NewValidation("measurement_id", "required")
	}

	res, err := s.matches.MatchProduct(ctx, scope, *quote.MeasurementID, productID, input.Preferences)
	if err != nil {
		return nil, nil, err
	}
	if res.FitRating == matching.FitNoGo {
		reasons := append(append([]string{}, res.HardGateFailures...), res.Warnings...)
		return nil, res, apperr.NewValidation("product_id", "no_go: "+strings.Join(reasons, "; "))
	}

	includeAddOns := input.IncludeAddOns == nil || *input.IncludeAddOns
	items := matchLineItems(res, includeAddOns)
	if _, err := s.lineItems.Add(ctx, scope.CompanyID, quoteID, items...); err != nil {
		return nil, nil, err
	}

	updated, err := s.quotes.GetByID(ctx, scope.CompanyID, quoteID)
	if err != nil {
		return nil, nil, err
	}
	return updated, res, nil
}

func matchLineItems(res *matching.MatchResult, includeAddOns bool) []*models.LineItem {
	p := res.Product
	sku := p.SKU
	productID := p.ID

	items := []*models.LineItem{{
		Type:      models.ItemProduct,
		Name:      p.Name,
		SKU:       &sku,
		ProductID: &productID,
		Quantity:  1,
		UnitPrice: p.Price,
	}}

	if p.LaborCost.IsPositive() {
		items = append(items, &models.LineItem{
			Type:      models.ItemLabor,
			Name:      fmt.Sprintf("Installation labor (%s)", p.SKU),
			ProductID: &productID,
			Quantity:  1,
			UnitPrice: p.LaborCost,
		})
	}

	if includeAddOns {
		for _, addOn := range res.AddOns {
			reason := addOn.Reason
			code := addOn.Code
			items = append(items, &models.LineItem{
				Type:        models.ItemOther,
				Name:        addOn.Name,
				SKU:         &code,
				Description: &reason,
				Quantity:    1,
				UnitPrice:   addOn.Price,
			})
		}
	}
	return items
}
