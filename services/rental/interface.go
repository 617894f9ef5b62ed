package rental

import (
	"context"
	"errors"

	"avtorent/models"
)

// Typed failures the HTTP layer maps to statuses: 404, 409, 422.
var (
	ErrCarNotFound    = errors.New("car not found")
	ErrCarUnavailable = errors.New("car is not available for rental")
	ErrInvalidRequest = errors.New("invalid booking request")
)

// RentalService creates reservations; payment is out of scope.
type RentalService interface {
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)
}
