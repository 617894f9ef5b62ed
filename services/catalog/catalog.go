package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	carRepo "avtorent/database/repository/car"
	categoryRepo "avtorent/database/repository/category"
	"avtorent/models"
)

const (
	categoryCacheKey = "catalog:categories:active"
	categoryCacheTTL = 5 * time.Minute

	maxPageSize     = 100
	defaultPageSize = 100
)

// DefaultCatalogService implements CatalogService over the Mongo repositories
// with a short-lived Redis cache in front of the category list. Cache trouble
// is logged and bypassed, never surfaced.
type DefaultCatalogService struct {
	Categories categoryRepo.CategoryRepository
	Cars       carRepo.CarRepository
	Cache      *redis.Client // optional
	Logger     *zap.Logger
}

// NewDefaultCatalogService wires the catalog read side.
func NewDefaultCatalogService(categories categoryRepo.CategoryRepository, cars carRepo.CarRepository, cache *redis.Client, logger *zap.Logger) *DefaultCatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCatalogService{Categories: categories, Cars: cars, Cache: cache, Logger: logger}
}

// ListCategories returns active categories, cache-first.
func (s *DefaultCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if s.Cache != nil {
		raw, err := s.Cache.Get(ctx, categoryCacheKey).Result()
		if err == nil {
			var cached []models.Category
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			s.Logger.Warn("category cache read failed", zap.Error(err))
		}
	}

	categories, err := s.Categories.GetAll(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(categories); err == nil {
			if err := s.Cache.Set(ctx, categoryCacheKey, raw, categoryCacheTTL).Err(); err != nil {
				s.Logger.Warn("category cache write failed", zap.Error(err))
			}
		}
	}
	return categories, nil
}

// ListCars runs the composed filter with a clamped pagination window.
func (s *DefaultCatalogService) ListCars(ctx context.Context, q CarQuery) (*CarPage, error) {
	filter := models.CarFilter{
		CategoryID: q.CategoryID,
		Brand:      q.Brand,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
	}
	if q.Status != "" {
		status, err := models.ParseCarStatus(q.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, q.Status)
		}
		filter.Status = &status
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	cars, total, err := s.Cars.List(filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return &CarPage{Cars: cars, Total: total}, nil
}

// GetCar returns (nil, nil) when no active car carries the id.
func (s *DefaultCatalogService) GetCar(ctx context.Context, id string) (*models.Car, error) {
	car, err := s.Cars.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch car %s: %w", id, err)
	}
	return car, nil
}
