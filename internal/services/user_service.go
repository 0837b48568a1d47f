package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/models"
	"sink_quoter/internal/repository"
)

var ErrInsufficientPermissions = errors.New("insufficient permissions")

type UserService interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByCompany(ctx context.Context, companyID uint) ([]models.User, error)
	CheckPassword(user *models.User, password string) bool
	ResolveScope(ctx context.Context, userID uint) (Scope, error)
	ValidateUserRole(ctx context.Context, userID uint, requiredRole models.UserRole) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, user *models.User, password string) error {
	if len(password) < 8 {
		return apperr.NewValidation("password", "min=8")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)
	if user.Role == "" {
		user.Role = string(models.Salesperson)
	}
	return s.userRepo.Create(ctx, user)
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

func (s *userService) GetUsersByCompany(ctx context.Context, companyID uint) ([]models.User, error) {
	return s.userRepo.GetByCompany(ctx, companyID)
}

func (s *userService) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// ResolveScope maps an acting user to the company they work for. Inactive
// users resolve as not found.
func (s *userService) ResolveScope(ctx context.Context, userID uint) (Scope, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return Scope{}, err
	}
	if !user.IsActive {
		return Scope{}, apperr.NotFound("user", userID)
	}
	return Scope{CompanyID: user.CompanyID, UserID: user.ID}, nil
}

func (s *userService) ValidateUserRole(ctx context.Context, userID uint, requiredRole models.UserRole) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != string(requiredRole) {
		return ErrInsufficientPermissions
	}
	return nil
}
