package migrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/models"
	"sink_quoter/internal/repository"
	"sink_quoter/internal/services"
)

// RunMigrations brings the schema up to date with the models.
func RunMigrations(db *gorm.DB, logger *logrus.Logger) error {
	logger.Info("running database migrations")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("database migrations completed")
	return nil
}

// SeedOptions control the default data written by Seed.
type SeedOptions struct {
	CompanyName   string
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		CompanyName:   "Default Company",
		AdminUsername: "admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin12345",
	}
}

// Seed creates a company, its admin user and a starter sink catalog. It does
// nothing when the admin user already exists.
func Seed(ctx context.Context, db *gorm.DB, logger *logrus.Logger, opts SeedOptions) error {
	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo)

	existing, err := userService.GetUserByUsername(ctx, opts.AdminUsername)
	if err == nil && existing != nil {
		logger.WithField("username", opts.AdminUsername).Info("admin user already exists, skipping seed")
		return nil
	}
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	company := &models.Company{Name: opts.CompanyName}
	if err := userRepo.CreateCompany(ctx, company); err != nil {
		return fmt.Errorf("create company: %w", err)
	}

	admin := &models.User{
		CompanyID: company.ID,
		Username:  opts.AdminUsername,
		Email:     opts.AdminEmail,
		Role:      string(models.Admin),
		IsActive:  true,
	}
	if err := userService.CreateUser(ctx, admin, opts.AdminPassword); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	products := services.NewProductService(repository.NewProductRepository(db), nil, logger)
	scope := services.Scope{CompanyID: company.ID, UserID: admin.ID}
	for _, in := range starterCatalog() {
		if _, err := products.CreateProduct(ctx, scope, in); err != nil {
			return fmt.Errorf("create product %s: %w", in.SKU, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"company_id": company.ID,
		"admin_id":   admin.ID,
		"username":   admin.Username,
	}).Info("default data created")
	return nil
}

func starterCatalog() []services.ProductInput {
	f := func(v float64) *float64 { return &v }
	return []services.ProductInput{
		{
			SKU: "UM-3018-SS", Name: "30in Single Bowl Undermount", Brand: "Kessler", Material: "stainless_steel", Color: "stainless",
			Width: 30, Depth: 18, Height: 10, MountingStyle: models.MountUndermount,
			BowlCount: 1, BowlConfiguration: models.BowlSingle, InstallationType: models.InstallUniversal,
			MinCabinetWidth: f(33), Price: decimal.NewFromInt(389), LaborCost: decimal.NewFromInt(225),
		},
		{
			SKU: "DI-3322-SS", Name: "33in Double Bowl Drop-In", Brand: "Kessler", Material: "stainless_steel", Color: "stainless",
			Width: 33, Depth: 22, Height: 9, MountingStyle: models.MountDropIn, TopMountCapable: true,
			BowlCount: 2, BowlConfiguration: models.BowlDouble5050, InstallationType: models.InstallRetrofit,
			MinCabinetWidth: f(36), Price: decimal.NewFromInt(329), LaborCost: decimal.NewFromInt(175),
		},
		{
			SKU: "FH-3320-FC", Name: "33in Fireclay Farmhouse", Brand: "Aldbury", Material: "fireclay", Color: "white",
			Width: 33, Depth: 20, Height: 10, MountingStyle: models.MountFarmhouse,
			BowlCount: 1, BowlConfiguration: models.BowlSingle, InstallationType: models.InstallNewConstruction,
			MinCabinetWidth: f(36), FieldMinCabinetWidth: f(35), ApronDepth: f(10),
			Price: decimal.NewFromInt(899), LaborCost: decimal.NewFromInt(450),
		},
		{
			SKU: "WS-3219-SS", Name: "32in Workstation Undermount", Brand: "Kessler", Material: "stainless_steel", Color: "stainless",
			Width: 32, Depth: 19, Height: 10, MountingStyle: models.MountUndermount, IsWorkstation: true,
			BowlCount: 1, BowlConfiguration: models.BowlSingle, InstallationType: models.InstallUniversal,
			MinCabinetWidth: f(36), Price: decimal.NewFromInt(749), LaborCost: decimal.NewFromInt(275),
		},
	}
}
