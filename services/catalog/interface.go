package catalog

import (
	"context"
	"errors"

	"avtorent/models"
)

// ErrUnknownStatus rejects status filter values outside the enum. The HTTP
// layer maps it to 422.
var ErrUnknownStatus = errors.New("unknown status filter")

// CarQuery is the parsed catalog query: filter plus pagination window.
type CarQuery struct {
	CategoryID string
	Brand      string
	MinPrice   *float64
	MaxPrice   *float64
	Status     string // raw; validated against the enum
	Limit      int
	Offset     int
}

// CarPage is one catalog page with its out-of-band total.
type CarPage struct {
	Cars  []models.Car
	Total int64
}

// CatalogService is the read side consumed by the public API and the bot.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListCars(ctx context.Context, q CarQuery) (*CarPage, error)
	GetCar(ctx context.Context, id string) (*models.Car, error)
}
