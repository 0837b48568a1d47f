package repository

import (
	"context"

	"gorm.io/gorm"

	"sink_quoter/internal/models"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, companyID, id uint) (*models.Customer, error)
	GetByCompany(ctx context.Context, companyID uint) ([]models.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, companyID, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("id = ? AND company_id = ?", id, companyID).First(&customer).Error
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return &customer, nil
}

func (r *customerRepository) GetByCompany(ctx context.Context, companyID uint) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("name").Find(&customers).Error
	return customers, err
}
