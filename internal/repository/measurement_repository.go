package repository

import (
	"context"

	"gorm.io/gorm"

	"sink_quoter/internal/models"
)

type MeasurementRepository interface {
	Create(ctx context.Context, m *models.Measurement) error
	GetByID(ctx context.Context, companyID, id uint) (*models.Measurement, error)
	GetByCustomer(ctx context.Context, companyID, customerID uint) ([]models.Measurement, error)
	Update(ctx context.Context, m *models.Measurement) error
	Delete(ctx context.Context, companyID, id uint) error
}

type measurementRepository struct {
	db *gorm.DB
}

func NewMeasurementRepository(db *gorm.DB) MeasurementRepository {
	return &measurementRepository{db: db}
}

func (r *measurementRepository) Create(ctx context.Context, m *models.Measurement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *measurementRepository) GetByID(ctx context.Context, companyID, id uint) (*models.Measurement, error) {
	var m models.Measurement
	err := r.db.WithContext(ctx).Where("id = ? AND company_id = ?", id, companyID).First(&m).Error
	if err != nil {
		return nil, notFound(err, "measurement", id)
	}
	return &m, nil
}

func (r *measurementRepository) GetByCustomer(ctx context.Context, companyID, customerID uint) ([]models.Measurement, error) {
	var list []models.Measurement
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND customer_id = ?", companyID, customerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *measurementRepository) Update(ctx context.Context, m *models.Measurement) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *measurementRepository) Delete(ctx context.Context, companyID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND company_id = ?", id, companyID).Delete(&models.Measurement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "measurement", id)
	}
	return nil
}
