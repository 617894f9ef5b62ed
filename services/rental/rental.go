package rental

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "avtorent/database/repository/booking"
	carRepo "avtorent/database/repository/car"
	"avtorent/models"
)

// DefaultRentalService implements RentalService over the Mongo repositories.
type DefaultRentalService struct {
	Cars     carRepo.CarRepository
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger

	now func() time.Time
}

// NewDefaultRentalService wires the booking write side.
func NewDefaultRentalService(cars carRepo.CarRepository, bookings bookingRepo.BookingRepository, logger *zap.Logger) *DefaultRentalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultRentalService{Cars: cars, Bookings: bookings, Logger: logger, now: time.Now}
}

// rentalDays rounds any started day up; a partial day bills as a full one.
func rentalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// CreateBooking validates the request, prices the stay and persists a pending
// reservation.
func (s *DefaultRentalService) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	car, err := s.Cars.GetByID(req.CarID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch car %s: %w", req.CarID, err)
	}
	if car == nil {
		return nil, ErrCarNotFound
	}
	if car.Status != models.CarStatusAvailable {
		return nil, ErrCarUnavailable
	}

	days := rentalDays(req.StartDate, req.EndDate)
	now := s.now().UTC()
	booking := &models.Booking{
		ID:            uuid.NewString(),
		CarID:         car.ID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		TotalDays:     days,
		TotalPrice:    float64(days) * car.DailyPrice,
		Status:        models.BookingStatusPending,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		CustomerNotes: req.CustomerNotes,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Bookings.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.Logger.Info("booking created",
		zap.String("bookingID", booking.ID),
		zap.String("carID", car.ID),
		zap.Int("days", days),
		zap.Float64("total", booking.TotalPrice))
	return booking, nil
}
