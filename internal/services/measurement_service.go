package services

import (
	"context"

	"sink_quoter/internal/models"
	"sink_quoter/internal/repository"
)

// MeasurementInput is a site survey as submitted by a salesperson. Lengths are
// inches.
type MeasurementInput struct {
	CustomerID uint `json:"customer_id" validate:"required"`

	CabinetWidth  float64 `json:"cabinet_width" validate:"required,gt=0,lte=120"`
	CabinetDepth  float64 `json:"cabinet_depth" validate:"required,gt=0,lte=60"`
	CabinetHeight float64 `json:"cabinet_height" validate:"required,gt=0,lte=60"`

	CountertopMaterial  *string  `json:"countertop_material" validate:"omitempty,max=64"`
	CountertopThickness *float64 `json:"countertop_thickness" validate:"omitempty,gt=0,lte=6"`
	OverhangFront       *float64 `json:"overhang_front" validate:"omitempty,gte=0,lte=12"`
	OverhangSides       *float64 `json:"overhang_sides" validate:"omitempty,gte=0,lte=12"`

	MountingStylePreference *models.MountingStyle `json:"mounting_style_preference" validate:"omitempty,oneof=undermount drop_in flush_mount farmhouse"`

	ExistingSinkWidth     *float64 `json:"existing_sink_width" validate:"omitempty,gt=0"`
	ExistingSinkDepth     *float64 `json:"existing_sink_depth" validate:"omitempty,gt=0"`
	ExistingSinkBowlCount *int     `json:"existing_sink_bowl_count" validate:"omitempty,gte=1,lte=3"`
	ExistingSinkMaterial  *string  `json:"existing_sink_material" validate:"omitempty,max=64"`

	CabinetIntegrity *models.CabinetIntegrity `json:"cabinet_integrity" validate:"omitempty,oneof=good questionable compromised"`
	HasROSystem      bool                     `json:"has_ro_system"`

	ExistingCutoutWidth *float64 `json:"existing_cutout_width" validate:"omitempty,gt=0"`
	ExistingCutoutDepth *float64 `json:"existing_cutout_depth" validate:"omitempty,gt=0"`

	Notes string `json:"notes"`
}

func (in MeasurementInput) apply(m *models.Measurement) {
	m.CustomerID = in.CustomerID
	m.CabinetWidth = in.CabinetWidth
	m.CabinetDepth = in.CabinetDepth
	m.CabinetHeight = in.CabinetHeight
	m.CountertopMaterial = in.CountertopMaterial
	m.CountertopThickness = in.CountertopThickness
	m.OverhangFront = in.OverhangFront
	m.OverhangSides = in.OverhangSides
	m.MountingStylePreference = in.MountingStylePreference
	m.ExistingSinkWidth = in.ExistingSinkWidth
	m.ExistingSinkDepth = in.ExistingSinkDepth
	m.ExistingSinkBowlCount = in.ExistingSinkBowlCount
	m.ExistingSinkMaterial = in.ExistingSinkMaterial
	m.CabinetIntegrity = in.CabinetIntegrity
	m.HasROSystem = in.HasROSystem
	m.ExistingCutoutWidth = in.ExistingCutoutWidth
	m.ExistingCutoutDepth = in.ExistingCutoutDepth
	m.Notes = in.Notes
}

type MeasurementService interface {
	CreateMeasurement(ctx context.Context, scope Scope, input MeasurementInput) (*models.Measurement, error)
	GetMeasurement(ctx context.Context, scope Scope, id uint) (*models.Measurement, error)
	GetMeasurementsByCustomer(ctx context.Context, scope Scope, customerID uint) ([]models.Measurement, error)
	UpdateMeasurement(ctx context.Context, scope Scope, id uint, input MeasurementInput) (*models.Measurement, error)
	DeleteMeasurement(ctx context.Context, scope Scope, id uint) error
}

type measurementService struct {
	measurementRepo repository.MeasurementRepository
	customerRepo    repository.CustomerRepository
}

func NewMeasurementService(measurementRepo repository.MeasurementRepository, customerRepo repository.CustomerRepository) MeasurementService {
	return &measurementService{measurementRepo: measurementRepo, customerRepo: customerRepo}
}

func (s *measurementService) CreateMeasurement(ctx context.Context, scope Scope, input MeasurementInput) (*models.Measurement, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.GetByID(ctx, scope.CompanyID, input.CustomerID); err != nil {
		return nil, err
	}
	m := &models.Measurement{CompanyID: scope.CompanyID, CreatedBy: scope.UserID}
	input.apply(m)
	if err := s.measurementRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *measurementService) GetMeasurement(ctx context.Context, scope Scope, id uint) (*models.Measurement, error) {
	return s.measurementRepo.GetByID(ctx, scope.CompanyID, id)
}

func (s *measurementService) GetMeasurementsByCustomer(ctx context.Context, scope Scope, customerID uint) ([]models.Measurement, error) {
	return s.measurementRepo.GetByCustomer(ctx, scope.CompanyID, customerID)
}

func (s *measurementService) UpdateMeasurement(ctx context.Context, scope Scope, id uint, input MeasurementInput) (*models.Measurement, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	m, err := s.measurementRepo.GetByID(ctx, scope.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if input.CustomerID != m.CustomerID {
		if _, err := s.customerRepo.GetByID(ctx, scope.CompanyID, input.CustomerID); err != nil {
			return nil, err
		}
	}
	input.apply(m)
	if err := s.measurementRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *measurementService) DeleteMeasurement(ctx context.Context, scope Scope, id uint) error {
	return s.measurementRepo.Delete(ctx, scope.CompanyID, id)
}
