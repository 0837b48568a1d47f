package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/models"
	"sink_quoter/internal/quoting"
)

// QuoteFilter narrows a quote listing. Zero values match everything.
type QuoteFilter struct {
	Status     models.QuoteStatus
	CustomerID uint
}

// QuoteMutation edits a loaded quote in place. Returning an error aborts the
// surrounding transaction without writing anything.
type QuoteMutation func(q *models.Quote) error

type QuoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) error
	GetByID(ctx context.Context, companyID, id uint) (*models.Quote, error)
	List(ctx context.Context, companyID uint, filter QuoteFilter) ([]models.Quote, error)
	ListExpirable(ctx context.Context, now time.Time) ([]models.Quote, error)
	Delete(ctx context.Context, companyID, id uint) error
	Recalculate(ctx context.Context, tx *gorm.DB, quoteID uint, taxRate, discountAmount decimal.Decimal) (quoting.Totals, error)
	UpdateGuarded(ctx context.Context, companyID, id uint, clientVersion *int, mutate QuoteMutation) (*models.Quote, error)
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

// Create writes the header and its line items and derives the totals, all in
// one transaction. The quote is updated in place with the stored values.
// Items without a sort order are numbered after the largest explicit one.
func (r *quoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := quote.LineItems
		quote.LineItems = nil
		if quote.Version == 0 {
			quote.Version = 1
		}
		if err := tx.Omit(clause.Associations).Create(quote).Error; err != nil {
			return err
		}

		next := 0
		for i := range items {
			if items[i].SortOrder > next {
				next = items[i].SortOrder
			}
		}
		for i := range items {
			items[i].ID = 0
			items[i].QuoteID = quote.ID
			if items[i].SortOrder == 0 {
				next++
				items[i].SortOrder = next
			}
			quoting.PriceLineItem(&items[i])
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		totals, err := r.Recalculate(ctx, tx, quote.ID, quote.TaxRate, quote.DiscountAmount)
		if err != nil {
			return err
		}
		applyTotals(quote, totals)
		quote.LineItems = items
		return nil
	})
	return apperr.Transaction(err)
}

func (r *quoteRepository) GetByID(ctx context.Context, companyID, id uint) (*models.Quote, error) {
	return loadQuote(r.db.WithContext(ctx), companyID, id)
}

func (r *quoteRepository) List(ctx context.Context, companyID uint, filter QuoteFilter) ([]models.Quote, error) {
	var quotes []models.Quote
	q := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != 0 {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	err := q.Order("created_at DESC, id DESC").Find(&quotes).Error
	return quotes, err
}

// ListExpirable returns sent or viewed quotes, across all companies, whose
// validity window has closed.
func (r *quoteRepository) ListExpirable(ctx context.Context, now time.Time) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.WithContext(ctx).
		Where("status IN ?", []models.QuoteStatus{models.QuoteSent, models.QuoteViewed}).
		Where("valid_until IS NOT NULL AND valid_until < ?", now.UTC()).
		Order("id").
		Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepository) Delete(ctx context.Context, companyID, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quote models.Quote
		if err := tx.Where("id = ? AND company_id = ?", id, companyID).First(&quote).Error; err != nil {
			return notFound(err, "quote", id)
		}
		if err := tx.Where("quote_id = ?", id).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quote).Error
	})
	return apperr.Transaction(err)
}

// Recalculate re-derives the quote's totals from its stored line items. With a
// nil tx it runs in a transaction of its own.
func (r *quoteRepository) Recalculate(ctx context.Context, tx *gorm.DB, quoteID uint, taxRate, discountAmount decimal.Decimal) (quoting.Totals, error) {
	if tx != nil {
		return recalculate(tx.WithContext(ctx), quoteID, taxRate, discountAmount)
	}
	var totals quoting.Totals
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		totals, err = recalculate(tx, quoteID, taxRate, discountAmount)
		return err
	})
	return totals, apperr.Transaction(err)
}

// UpdateGuarded loads the quote, checks the caller's version when one is
// given, applies mutate and writes the result with a compare-and-swap on the
// stored version. Totals are re-derived from the line items before writing.
func (r *quoteRepository) UpdateGuarded(ctx context.Context, companyID, id uint, clientVersion *int, mutate QuoteMutation) (*models.Quote, error) {
	var updated *models.Quote
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadQuote(tx, companyID, id)
		if err != nil {
			return err
		}
		if clientVersion != nil && *clientVersion != current.Version {
			return &apperr.VersionConflictError{
				ClientVersion:  *clientVersion,
				CurrentVersion: current.Version,
				Current:        current,
			}
		}

		next := *current
		if err := mutate(&next); err != nil {
			return err
		}
		applyTotals(&next, quoting.TotalsForItems(current.LineItems, next.TaxRate, next.DiscountAmount))

		now := time.Now()
		res := tx.Model(&models.Quote{}).
			Where("id = ? AND company_id = ? AND version = ?", id, companyID, current.Version).
			Updates(quoteColumns(&next, now))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			latest, err := loadQuote(tx, companyID, id)
			if err != nil {
				return err
			}
			return &apperr.VersionConflictError{
				ClientVersion:  current.Version,
				CurrentVersion: latest.Version,
				Current:        latest,
			}
		}

		next.Version = current.Version + 1
		next.UpdatedAt = now
		updated = &next
		return nil
	})
	if err != nil {
		return nil, apperr.Transaction(err)
	}
	return updated, nil
}

func loadQuote(db *gorm.DB, companyID, id uint) (*models.Quote, error) {
	var quote models.Quote
	err := db.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&quote).Error
	if err != nil {
		return nil, notFound(err, "quote", id)
	}
	return &quote, nil
}

func recalculate(tx *gorm.DB, quoteID uint, taxRate, discountAmount decimal.Decimal) (quoting.Totals, error) {
	var items []models.LineItem
	if err := tx.Where("quote_id = ?", quoteID).Find(&items).Error; err != nil {
		return quoting.Totals{}, err
	}
	totals := quoting.TotalsForItems(items, taxRate, discountAmount)
	err := tx.Model(&models.Quote{}).Where("id = ?", quoteID).Updates(map[string]interface{}{
		"subtotal":   totals.Subtotal,
		"tax_amount": totals.TaxAmount,
		"total":      totals.Total,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return quoting.Totals{}, err
	}
	return totals, nil
}

func applyTotals(q *models.Quote, t quoting.Totals) {
	q.Subtotal = t.Subtotal
	q.TaxAmount = t.TaxAmount
	q.Total = t.Total
}

// quoteColumns lists every column a guarded update may change, with the
// version bumped in the same statement.
func quoteColumns(q *models.Quote, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"status":          q.Status,
		"subtotal":        q.Subtotal,
		"tax_rate":        q.TaxRate,
		"tax_amount":      q.TaxAmount,
		"discount_amount": q.DiscountAmount,
		"total":           q.Total,
		"valid_until":     q.ValidUntil,
		"signature_data":  q.SignatureData,
		"signed_at":       q.SignedAt,
		"sent_at":         q.SentAt,
		"viewed_at":       q.ViewedAt,
		"accepted_at":     q.AcceptedAt,
		"rejected_at":     q.RejectedAt,
		"expired_at":      q.ExpiredAt,
		"notes":           q.Notes,
		"measurement_id":  q.MeasurementID,
		"version":         gorm.Expr("version + 1"),
		"updated_at":      now,
	}
}
