package bookingRepo

import "avtorent/models"

// BookingRepository persists rental reservations.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByCarID(carID string) ([]models.Booking, error)
}
