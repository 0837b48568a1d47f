package repository

import (
	"context"

	"gorm.io/gorm"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/models"
	"sink_quoter/internal/quoting"
)

// LineItemMutation edits a stored line item in place before it is repriced.
type LineItemMutation func(item *models.LineItem) error

// LineItemRepository changes a quote's rows. Every write re-derives the
// parent's totals inside the same transaction.
type LineItemRepository interface {
	Add(ctx context.Context, companyID, quoteID uint, items ...*models.LineItem) (quoting.Totals, error)
	Update(ctx context.Context, companyID, quoteID, itemID uint, mutate LineItemMutation) (*models.LineItem, quoting.Totals, error)
	Delete(ctx context.Context, companyID, quoteID, itemID uint) (quoting.Totals, error)
	GetByQuoteID(ctx context.Context, quoteID uint) ([]models.LineItem, error)
}

type lineItemRepository struct {
	db *gorm.DB
}

func NewLineItemRepository(db *gorm.DB) LineItemRepository {
	return &lineItemRepository{db: db}
}

func (r *lineItemRepository) Add(ctx context.Context, companyID, quoteID uint, items ...*models.LineItem) (quoting.Totals, error) {
	var totals quoting.Totals
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := quoteHeader(tx, companyID, quoteID)
		if err != nil {
			return err
		}

		var next int
		err = tx.Model(&models.LineItem{}).
			Where("quote_id = ?", quoteID).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&next).Error
		if err != nil {
			return err
		}

		for _, item := range items {
			if item.SortOrder > next {
				next = item.SortOrder
			}
		}
		for _, item := range items {
			item.ID = 0
			item.QuoteID = quoteID
			if item.SortOrder == 0 {
				next++
				item.SortOrder = next
			}
			quoting.PriceLineItem(item)
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}

		totals, err = recalculate(tx, quoteID, quote.TaxRate, quote.DiscountAmount)
		return err
	})
	return totals, apperr.Transaction(err)
}

func (r *lineItemRepository) Update(ctx context.Context, companyID, quoteID, itemID uint, mutate LineItemMutation) (*models.LineItem, quoting.Totals, error) {
	var (
		item   models.LineItem
		totals quoting.Totals
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := quoteHeader(tx, companyID, quoteID)
		if err != nil {
			return err
		}
		if err := tx.Where("id = ? AND quote_id = ?", itemID, quoteID).First(&item).Error; err != nil {
			return notFound(err, "line item", itemID)
		}
		if err := mutate(&item); err != nil {
			return err
		}
		item.ID = itemID
		item.QuoteID = quoteID
		quoting.PriceLineItem(&item)
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		totals, err = recalculate(tx, quoteID, quote.TaxRate, quote.DiscountAmount)
		return err
	})
	if err != nil {
		return nil, quoting.Totals{}, apperr.Transaction(err)
	}
	return &item, totals, nil
}

func (r *lineItemRepository) Delete(ctx context.Context, companyID, quoteID, itemID uint) (quoting.Totals, error) {
	var totals quoting.Totals
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := quoteHeader(tx, companyID, quoteID)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND quote_id = ?", itemID, quoteID).Delete(&models.LineItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("line item", itemID)
		}

		totals, err = recalculate(tx, quoteID, quote.TaxRate, quote.DiscountAmount)
		return err
	})
	return totals, apperr.Transaction(err)
}

func (r *lineItemRepository) GetByQuoteID(ctx context.Context, quoteID uint) ([]models.LineItem, error) {
	var items []models.LineItem
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	return items, err
}

// quoteHeader loads the quote without its items, scoped to the company.
func quoteHeader(tx *gorm.DB, companyID, quoteID uint) (*models.Quote, error) {
	var quote models.Quote
	if err := tx.Where("id = ? AND company_id = ?", quoteID, companyID).First(&quote).Error; err != nil {
		return nil, notFound(err, "quote", quoteID)
	}
	return &quote, nil
}
