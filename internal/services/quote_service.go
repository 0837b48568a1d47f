package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/config"
	"sink_quoter/internal/matching"
	"sink_quoter/internal/models"
	"sink_quoter/internal/quoting"
	"sink_quoter/internal/repository"
)

// QuoteSettings are the company-wide defaults applied to new quotes.
type QuoteSettings struct {
	DefaultTaxRate decimal.Decimal
	ValidityDays   int
}

type CreateQuoteInput struct {
	CustomerID     uint             `json:"customer_id" validate:"required"`
	MeasurementID  *uint            `json:"measurement_id"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	ValidUntil     *time.Time       `json:"valid_until"`
	Notes          string           `json:"notes"`
	LineItems      []LineItemInput  `json:"line_items" validate:"required,min=1,dive"`
}

type LineItemInput struct {
	Type            models.LineItemType `json:"type" validate:"required,oneof=product labor material other"`
	Name            string              `json:"name" validate:"required,max=255"`
	SKU             *string             `json:"sku" validate:"omitempty,max=64"`
	Description     *string             `json:"description"`
	ProductID       *uint               `json:"product_id"`
	Quantity        int                 `json:"quantity" validate:"required,gt=0"`
	UnitPrice       decimal.Decimal     `json:"unit_price"`
	DiscountPercent decimal.Decimal     `json:"discount_percent"`
	SortOrder       int                 `json:"sort_order" validate:"gte=0"`
}

func (in LineItemInput) toModel() models.LineItem {
	return models.LineItem{
		Type:            in.Type,
		Name:            in.Name,
		SKU:             in.SKU,
		Description:     in.Description,
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		DiscountPercent: in.DiscountPercent,
		SortOrder:       in.SortOrder,
	}
}

// LineItemPatch changes only the fields that are set.
type LineItemPatch struct {
	Type            *models.LineItemType `json:"type" validate:"omitempty,oneof=product labor material other"`
	Name            *string              `json:"name" validate:"omitempty,min=1,max=255"`
	SKU             *string              `json:"sku" validate:"omitempty,max=64"`
	Description     *string              `json:"description"`
	Quantity        *int                 `json:"quantity" validate:"omitempty,gt=0"`
	UnitPrice       *decimal.Decimal     `json:"unit_price"`
	DiscountPercent *decimal.Decimal     `json:"discount_percent"`
	SortOrder       *int                 `json:"sort_order" validate:"omitempty,gte=0"`
}

func (p LineItemPatch) apply(item *models.LineItem) {
	if p.Type != nil {
		item.Type = *p.Type
	}
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.SKU != nil {
		item.SKU = p.SKU
	}
	if p.Description != nil {
		item.Description = p.Description
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		item.UnitPrice = *p.UnitPrice
	}
	if p.DiscountPercent != nil {
		item.DiscountPercent = *p.DiscountPercent
	}
	if p.SortOrder != nil {
		item.SortOrder = *p.SortOrder
	}
}

type QuoteService interface {
	CreateQuote(ctx context.Context, scope Scope, input CreateQuoteInput) (*models.Quote, error)
	GetQuote(ctx context.Context, scope Scope, id uint) (*models.Quote, error)
	ListQuotes(ctx context.Context, scope Scope, filter repository.QuoteFilter) ([]models.Quote, error)
	UpdateQuote(ctx context.Context, scope Scope, id uint, version *int, patch quoting.QuotePatch) (*models.Quote, error)
	DeleteQuote(ctx context.Context, scope Scope, id uint) error
	UpdateQuoteStatus(ctx context.Context, scope Scope, id uint, status models.QuoteStatus, version *int) (*models.Quote, error)
	SaveSignature(ctx context.Context, scope Scope, id uint, signature string, version *int) (*models.Quote, error)
	ExpireStale(ctx context.Context) (int, error)

	AddLineItem(ctx context.Context, scope Scope, quoteID uint, input LineItemInput) (*models.Quote, error)
	UpdateLineItem(ctx context.Context, scope Scope, quoteID, itemID uint, patch LineItemPatch) (*models.Quote, error)
	DeleteLineItem(ctx context.Context, scope Scope, quoteID, itemID uint) (*models.Quote, error)
	AddMatchToQuote(ctx context.Context, scope Scope, quoteID, productID uint, input AddMatchInput) (*models.Quote, *matching.MatchResult, error)
}

// QuoteServiceDeps groups the collaborators of the quote service.
type QuoteServiceDeps struct {
	Quotes        repository.QuoteRepository
	LineItems     repository.LineItemRepository
	Customers     repository.CustomerRepository
	Measurements  repository.MeasurementRepository
	Matches       MatchService
	Notifications NotificationService
	Settings      QuoteSettings
	Logger        *logrus.Logger
}

type quoteService struct {
	quotes        repository.QuoteRepository
	lineItems     repository.LineItemRepository
	customers     repository.CustomerRepository
	measurements  repository.MeasurementRepository
	matches       MatchService
	notifications NotificationService
	settings      QuoteSettings
	logger        *logrus.Logger
	now           func() time.Time
}

// NewQuoteService builds the quote service. Notifications may be nil.
func NewQuoteService(deps QuoteServiceDeps) QuoteService {
	return &quoteService{
		quotes:        deps.Quotes,
		lineItems:     deps.LineItems,
		customers:     deps.Customers,
		measurements:  deps.Measurements,
		matches:       deps.Matches,
		notifications: deps.Notifications,
		settings:      deps.Settings,
		logger:        deps.Logger,
		now:           time.Now,
	}
}

// newQuoteNumber formats Q-YYYYMMDD-XXXXXXXX with a random suffix.
func newQuoteNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("Q-%s-%s", now.Format("20060102"), suffix)
}

func (s *quoteService) CreateQuote(ctx context.Context, scope Scope, input CreateQuoteInput) (*models.Quote, error) {
	taxRate := s.settings.DefaultTaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}

	checks := []error{validateStruct(input), quoting.ValidateFinancials(taxRate, input.DiscountAmount)}
	items := make([]models.LineItem, len(input.LineItems))
	for i, in := range input.LineItems {
		items[i] = in.toModel()
		checks = append(checks, prefixed(fmt.Sprintf("line_items[%d].", i), quoting.ValidateLineItem(&items[i])))
	}
	if err := mergeValidation(checks...); err != nil {
		return nil, err
	}

	if _, err := s.customers.GetByID(ctx, scope.CompanyID, input.CustomerID); err != nil {
		return nil, err
	}
	if input.MeasurementID != nil {
		if _, err := s.measurements.GetByID(ctx, scope.CompanyID, *input.MeasurementID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	var validUntil *time.Time
	switch {
	case input.ValidUntil != nil:
		t := input.ValidUntil.UTC()
		validUntil = &t
	case s.settings.ValidityDays > 0:
		t := now.AddDate(0, 0, s.settings.ValidityDays).UTC()
		validUntil = &t
	}

	quote := &models.Quote{
		QuoteNumber:    newQuoteNumber(now),
		CompanyID:      scope.CompanyID,
		CustomerID:     input.CustomerID,
		MeasurementID:  input.MeasurementID,
		CreatedBy:      scope.UserID,
		Status:         models.QuoteDraft,
		TaxRate:        taxRate.Round(4),
		DiscountAmount: input.DiscountAmount.Round(2),
		ValidUntil:     validUntil,
		Notes:          input.Notes,
		Version:        1,
		LineItems:      items,
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		config.LogError(s.logger, "QuoteService", "CreateQuote", "create quote", quote.QuoteNumber, err)
		return nil, err
	}
	return quote, nil
}

func (s *quoteService) GetQuote(ctx context.Context, scope Scope, id uint) (*models.Quote, error) {
	return s.quotes.GetByID(ctx, scope.CompanyID, id)
}

func (s *quoteService) ListQuotes(ctx context.Context, scope Scope, filter repository.QuoteFilter) ([]models.Quote, error) {
	if filter.Status != "" && !quoting.ValidStatus(filter.Status) {
		return nil, apperr.NewValidation("status", "oneof=draft sent viewed accepted rejected expired")
	}
	return s.quotes.List(ctx, scope.CompanyID, filter)
}

func (s *quoteService) UpdateQuote(ctx context.Context, scope Scope, id uint, version *int, patch quoting.QuotePatch) (*models.Quote, error) {
	if patch.IsEmpty() {
		return nil, apperr.NewValidation("fields", "required")
	}
	if patch.ValidUntil.Set && patch.ValidUntil.Value != nil {
		t := patch.ValidUntil.Value.UTC()
		patch.ValidUntil.Value = &t
	}
	if patch.MeasurementID.Set && patch.MeasurementID.Value != nil {
		if _, err := s.measurements.GetByID(ctx, scope.CompanyID, *patch.MeasurementID.Value); err != nil {
			return nil, err
		}
	}

	return s.quotes.UpdateGuarded(ctx, scope.CompanyID, id, version, func(q *models.Quote) error {
		*q = quoting.ApplyPatch(*q, patch)
		if patch.TouchesFinancials() {
			return quoting.ValidateFinancials(q.TaxRate, q.DiscountAmount)
		}
		return nil
	})
}

func (s *quoteService) DeleteQuote(ctx context.Context, scope Scope, id uint) error {
	return s.quotes.Delete(ctx, scope.CompanyID, id)
}

func (s *quoteService) UpdateQuoteStatus(ctx context.Context, scope Scope, id uint, status models.QuoteStatus, version *int) (*models.Quote, error) {
	if !quoting.ValidStatus(status) {
		return nil, apperr.NewValidation("status", "oneof=draft sent viewed accepted rejected expired")
	}
	now := s.now()
	quote, err := s.quotes.UpdateGuarded(ctx, scope.CompanyID, id, version, func(q *models.Quote) error {
		return quoting.ApplyTransition(q, status, now)
	})
	if err != nil {
		return nil, err
	}
	if status == models.QuoteSent {
		s.notifySent(ctx, scope, quote)
	}
	return quote, nil
}

func (s *quoteService) SaveSignature(ctx context.Context, scope Scope, id uint, signature string, version *int) (*models.Quote, error) {
	now := s.now()
	return s.quotes.UpdateGuarded(ctx, scope.CompanyID, id, version, func(q *models.Quote) error {
		return quoting.ApplySignature(q, signature, now)
	})
}

// ExpireStale moves every sent or viewed quote past its validity date to
// expired. Quotes changed concurrently are skipped; other failures are
// returned together after the sweep.
func (s *quoteService) ExpireStale(ctx context.Context) (int, error) {
	now := s.now()
	stale, err := s.quotes.ListExpirable(ctx, now)
	if err != nil {
		return 0, err
	}

	var (
		expired int
		errs    []error
	)
	for _, q := range stale {
		version := q.Version
		_, err := s.quotes.UpdateGuarded(ctx, q.CompanyID, q.ID, &version, func(q *models.Quote) error {
			return quoting.ApplyTransition(q, models.QuoteExpired, now)
		})
		switch {
		case err == nil:
			expired++
		case errors.Is(err, apperr.ErrVersionConflict), errors.Is(err, apperr.ErrInvalidTransition):
			s.logger.WithFields(logrus.Fields{"quote": q.QuoteNumber}).Info("quote changed during expiry sweep, skipped")
		default:
			config.LogError(s.logger, "QuoteService", "ExpireStale", "expire quote", q.QuoteNumber, err)
			errs = append(errs, fmt.Errorf("quote %s: %w", q.QuoteNumber, err))
		}
	}
	return expired, errors.Join(errs...)
}

func (s *quoteService) AddLineItem(ctx context.Context, scope Scope, quoteID uint, input LineItemInput) (*models.Quote, error) {
	item := input.toModel()
	if err := mergeValidation(validateStruct(input), quoting.ValidateLineItem(&item)); err != nil {
		return nil, err
	}
	if _, err := s.lineItems.Add(ctx, scope.CompanyID, quoteID, &item); err != nil {
		return nil, err
	}
	return s.quotes.GetByID(ctx, scope.CompanyID, quoteID)
}

func (s *quoteService) UpdateLineItem(ctx context.Context, scope Scope, quoteID, itemID uint, patch LineItemPatch) (*models.Quote, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	_, _, err := s.lineItems.Update(ctx, scope.CompanyID, quoteID, itemID, func(item *models.LineItem) error {
		patch.apply(item)
		return quoting.ValidateLineItem(item)
	})
	if err != nil {
		return nil, err
	}
	return s.quotes.GetByID(ctx, scope.CompanyID, quoteID)
}

func (s *quoteService) DeleteLineItem(ctx context.Context, scope Scope, quoteID, itemID uint) (*models.Quote, error) {
	if _, err := s.lineItems.Delete(ctx, scope.CompanyID, quoteID, itemID); err != nil {
		return nil, err
	}
	return s.quotes.GetByID(ctx, scope.CompanyID, quoteID)
}

func (s *quoteService) notifySent(ctx context.Context, scope Scope, quote *models.Quote) {
	if s.notifications == nil {
		return
	}
	customer, err := s.customers.GetByID(ctx, scope.CompanyID, quote.CustomerID)
	if err != nil {
		config.LogError(s.logger, "QuoteService", "notifySent", "load customer", quote.QuoteNumber, err)
		return
	}
	if err := s.notifications.NotifyQuoteSent(ctx, quote, customer); err != nil {
		config.LogError(s.logger, "QuoteService", "notifySent", "send quote notification", quote.QuoteNumber, err)
	}
}

// prefixed namespaces the field names of a validation error.
func prefixed(prefix string, err error) error {
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve.Fields))
	for k, v := range ve.Fields {
		fields[prefix+k] = v
	}
	return &apperr.ValidationError{Fields: fields}
}
