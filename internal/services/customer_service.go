package services

import (
	"context"

	"sink_quoter/internal/models"
	"sink_quoter/internal/repository"
)

type CustomerInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, scope Scope, input CustomerInput) (*models.Customer, error)
	GetCustomer(ctx context.Context, scope Scope, id uint) (*models.Customer, error)
	ListCustomers(ctx context.Context, scope Scope) ([]models.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) CreateCustomer(ctx context.Context, scope Scope, input CustomerInput) (*models.Customer, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	customer := &models.Customer{
		CompanyID: scope.CompanyID,
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Address:   input.Address,
		CreatedBy: scope.UserID,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, scope Scope, id uint) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, scope.CompanyID, id)
}

func (s *customerService) ListCustomers(ctx context.Context, scope Scope) ([]models.Customer, error) {
	return s.customerRepo.GetByCompany(ctx, scope.CompanyID)
}
