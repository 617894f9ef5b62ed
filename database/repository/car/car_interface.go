package carRepo

import (
	"errors"

	"avtorent/models"
)

// ErrDuplicatePlate reports a uniqueness violation on the license plate.
var ErrDuplicatePlate = errors.New("license plate already registered")

// EditableFields is the allow-list for partial updates issued by the admin bot.
var EditableFields = []string{"daily_price", "deposit", "mileage", "status", "description"}

// CarRepository is the persistence gateway for the Car aggregate.
type CarRepository interface {
	Create(car *models.Car) error
	GetByID(id string) (*models.Car, error)
	// List applies the composed filter with offset/limit pagination and
	// reports the total match count out-of-band.
	List(filter models.CarFilter, limit, offset int) ([]models.Car, int64, error)
	// ListAll returns active cars without pagination, id order (bot listing).
	ListAll() ([]models.Car, error)
	UpdateField(id, field string, value interface{}) error
	Delete(id string) error
	Count() (int64, error)
}
