package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/config"
	"sink_quoter/internal/models"
	"sink_quoter/internal/repository"
)

type ProductInput struct {
	SKU      string `json:"sku" validate:"required,max=64"`
	Name     string `json:"name" validate:"required,max=255"`
	Brand    string `json:"brand" validate:"max=128"`
	Material string `json:"material" validate:"max=64"`
	Color    string `json:"color" validate:"max=64"`

	Width  float64 `json:"width" validate:"required,gt=0,lte=120"`
	Depth  float64 `json:"depth" validate:"required,gt=0,lte=60"`
	Height float64 `json:"height" validate:"required,gt=0,lte=60"`

	MountingStyle     models.MountingStyle     `json:"mounting_style" validate:"required,oneof=undermount drop_in flush_mount farmhouse"`
	TopMountCapable   bool                     `json:"top_mount_capable"`
	BowlCount         int                      `json:"bowl_count" validate:"omitempty,gte=1,lte=3"`
	BowlConfiguration models.BowlConfiguration `json:"bowl_configuration" validate:"omitempty,oneof=single double_50_50 double_60_40 double_70_30 triple"`
	InstallationType  models.InstallationType  `json:"installation_type" validate:"omitempty,oneof=retrofit new_construction universal"`
	IsWorkstation     bool                     `json:"is_workstation"`

	MinCabinetWidth      *float64 `json:"min_cabinet_width" validate:"omitempty,gt=0"`
	FieldMinCabinetWidth *float64 `json:"field_min_cabinet_width" validate:"omitempty,gt=0"`
	ApronDepth           *float64 `json:"apron_depth" validate:"omitempty,gt=0"`

	Price     decimal.Decimal `json:"price"`
	LaborCost decimal.Decimal `json:"labor_cost"`
	IsActive  *bool           `json:"is_active"`
}

func (in ProductInput) check() error {
	fields := map[string]string{}
	if in.Price.IsNegative() {
		fields["price"] = "gte=0"
	}
	if in.LaborCost.IsNegative() {
		fields["labor_cost"] = "gte=0"
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}

func (in ProductInput) apply(p *models.Product) {
	p.SKU = in.SKU
	p.Name = in.Name
	p.Brand = in.Brand
	p.Material = in.Material
	p.Color = in.Color
	p.Width = in.Width
	p.Depth = in.Depth
	p.Height = in.Height
	p.MountingStyle = in.MountingStyle
	p.TopMountCapable = in.TopMountCapable
	p.BowlCount = in.BowlCount
	if p.BowlCount == 0 {
		p.BowlCount = 1
	}
	p.BowlConfiguration = in.BowlConfiguration
	p.InstallationType = in.InstallationType
	if p.InstallationType == "" {
		p.InstallationType = models.InstallUniversal
	}
	p.IsWorkstation = in.IsWorkstation
	p.MinCabinetWidth = in.MinCabinetWidth
	p.FieldMinCabinetWidth = in.FieldMinCabinetWidth
	p.ApronDepth = in.ApronDepth
	p.Price = in.Price.Round(2)
	p.LaborCost = in.LaborCost.Round(2)
	p.IsActive = in.IsActive == nil || *in.IsActive
}

type ProductService interface {
	CreateProduct(ctx context.Context, scope Scope, input ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, scope Scope, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, scope Scope, activeOnly bool) ([]models.Product, error)
	UpdateProduct(ctx context.Context, scope Scope, id uint, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, scope Scope, id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	cache       CatalogCache
	logger      *logrus.Logger
}

// NewProductService builds the catalog service. cache may be nil.
func NewProductService(productRepo repository.ProductRepository, cache CatalogCache, logger *logrus.Logger) ProductService {
	return &productService{productRepo: productRepo, cache: cache, logger: logger}
}

func (s *productService) CreateProduct(ctx context.Context, scope Scope, input ProductInput) (*models.Product, error) {
	if err := mergeValidation(validateStruct(input), input.check()); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSKU(ctx, scope.CompanyID, input.SKU, 0); err != nil {
		return nil, err
	}
	p := &models.Product{CompanyID: scope.CompanyID}
	input.apply(p)
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, scope.CompanyID)
	return p, nil
}

func (s *productService) GetProduct(ctx context.Context, scope Scope, id uint) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, scope.CompanyID, id)
}

func (s *productService) ListProducts(ctx context.Context, scope Scope, activeOnly bool) ([]models.Product, error) {
	return s.productRepo.List(ctx, scope.CompanyID, activeOnly)
}

func (s *productService) UpdateProduct(ctx context.Context, scope Scope, id uint, input ProductInput) (*models.Product, error) {
	if err := mergeValidation(validateStruct(input), input.check()); err != nil {
		return nil, err
	}
	p, err := s.productRepo.GetByID(ctx, scope.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSKU(ctx, scope.CompanyID, input.SKU, id); err != nil {
		return nil, err
	}
	input.apply(p)
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, scope.CompanyID)
	return p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, scope Scope, id uint) error {
	if err := s.productRepo.Delete(ctx, scope.CompanyID, id); err != nil {
		return err
	}
	s.invalidate(ctx, scope.CompanyID)
	return nil
}

func (s *productService) ensureUniqueSKU(ctx context.Context, companyID uint, sku string, selfID uint) error {
	existing, err := s.productRepo.GetBySKU(ctx, companyID, sku)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return apperr.NewValidation("sku", "unique")
	}
	return nil
}

func (s *productService) invalidate(ctx context.Context, companyID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(ctx, companyID); err != nil {
		config.LogError(s.logger, "ProductService", "invalidate", "invalidate catalog cache", companyID, err)
	}
}
