package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"sink_quoter/internal/config"
	"sink_quoter/internal/matching"
	"sink_quoter/internal/models"
	"sink_quoter/internal/repository"
)

// CatalogCache keeps candidate product lists per company and bounding box.
// Implemented by the redis client.
type CatalogCache interface {
	GetCandidates(ctx context.Context, companyID uint, bounds string) ([]models.Product, bool, error)
	SetCandidates(ctx context.Context, companyID uint, bounds string, products []models.Product) error
	InvalidateCatalog(ctx context.Context, companyID uint) error
}

type MatchService interface {
	MatchProductsToMeasurement(ctx context.Context, scope Scope, measurementID uint, prefs matching.Preferences, limit int) ([]matching.MatchResult, error)
	MatchProduct(ctx context.Context, scope Scope, measurementID, productID uint, prefs matching.Preferences) (*matching.MatchResult, error)
}

type matchService struct {
	measurementRepo repository.MeasurementRepository
	productRepo     repository.ProductRepository
	cache           CatalogCache
	matcher         *matching.Matcher
	logger          *logrus.Logger
}

// NewMatchService wires the matcher to storage. cache may be nil.
func NewMatchService(measurementRepo repository.MeasurementRepository, productRepo repository.ProductRepository, cache CatalogCache, matcher *matching.Matcher, logger *logrus.Logger) MatchService {
	return &matchService{
		measurementRepo: measurementRepo,
		productRepo:     productRepo,
		cache:           cache,
		matcher:         matcher,
		logger:          logger,
	}
}

func (s *matchService) MatchProductsToMeasurement(ctx context.Context, scope Scope, measurementID uint, prefs matching.Preferences, limit int) ([]matching.MatchResult, error) {
	ms, err := s.measurementRepo.GetByID(ctx, scope.CompanyID, measurementID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates(ctx, scope.CompanyID, ms)
	if err != nil {
		return nil, err
	}
	return s.matcher.Match(candidates, ms, prefs, limit), nil
}

// MatchProduct evaluates one catalog product against a measurement, whether
// or not it would fall inside the candidate bounds.
func (s *matchService) MatchProduct(ctx context.Context, scope Scope, measurementID, productID uint, prefs matching.Preferences) (*matching.MatchResult, error) {
	ms, err := s.measurementRepo.GetByID(ctx, scope.CompanyID, measurementID)
	if err != nil {
		return nil, err
	}
	p, err := s.productRepo.GetByID(ctx, scope.CompanyID, productID)
	if err != nil {
		return nil, err
	}
	res := s.matcher.Evaluate(p, ms, prefs)
	return &res, nil
}

// candidates serves the bounded product list from cache when possible. Cache
// failures fall through to the database.
func (s *matchService) candidates(ctx context.Context, companyID uint, ms *models.Measurement) ([]models.Product, error) {
	maxWidth := ms.CabinetWidth + matching.CandidateMargin
	maxDepth := ms.CabinetDepth + matching.CandidateMargin
	bounds := fmt.Sprintf("%.2fx%.2f", maxWidth, maxDepth)

	if s.cache != nil {
		products, ok, err := s.cache.GetCandidates(ctx, companyID, bounds)
		if err != nil {
			config.LogError(s.logger, "MatchService", "candidates", "read candidate cache", bounds, err)
		} else if ok {
			return products, nil
		}
	}

	products, err := s.productRepo.FindCandidates(ctx, companyID, maxWidth, maxDepth)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCandidates(ctx, companyID, bounds, products); err != nil {
			config.LogError(s.logger, "MatchService", "candidates", "write candidate cache", bounds, err)
		}
	}
	return products, nil
}
