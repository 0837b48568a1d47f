package repository

import (
	"context"

	"gorm.io/gorm"

	"sink_quoter/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, companyID, id uint) (*models.Product, error)
	GetBySKU(ctx context.Context, companyID uint, sku string) (*models.Product, error)
	List(ctx context.Context, companyID uint, activeOnly bool) ([]models.Product, error)
	FindCandidates(ctx context.Context, companyID uint, maxWidth, maxDepth float64) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, companyID, id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts the product. is_active carries a column default, so an
// inactive product is written in a second statement.
func (r *productRepository) Create(ctx context.Context, p *models.Product) error {
	active := p.IsActive
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if !active {
			p.IsActive = false
			return tx.Model(p).Update("is_active", false).Error
		}
		return nil
	})
}

func (r *productRepository) GetByID(ctx context.Context, companyID, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("id = ? AND company_id = ?", id, companyID).First(&p).Error
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return &p, nil
}

func (r *productRepository) GetBySKU(ctx context.Context, companyID uint, sku string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("company_id = ? AND sku = ?", companyID, sku).First(&p).Error
	if err != nil {
		return nil, notFound(err, "product", 0)
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, companyID uint, activeOnly bool) ([]models.Product, error) {
	var products []models.Product
	q := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("sku").Find(&products).Error
	return products, err
}

// FindCandidates returns active products of the company that are no larger
// than the given bounds. Callers pass generous bounds so that products failing
// a hard gate are still returned and reported.
func (r *productRepository) FindCandidates(ctx context.Context, companyID uint, maxWidth, maxDepth float64) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Where("width <= ? AND depth <= ?", maxWidth, maxDepth).
		Order("sku").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepository) Delete(ctx context.Context, companyID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND company_id = ?", id, companyID).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "product", id)
	}
	return nil
}
