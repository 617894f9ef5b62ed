package rental

import (
	"context"
	"errors"
	"testing"
	"time"

	"avtorent/models"
)

type stubCars struct {
	car *models.Car
}

func (s *stubCars) Create(car *models.Car) error { return nil }
func (s *stubCars) GetByID(id string) (*models.Car, error) {
	if s.car != nil && s.car.ID == id {
		return s.car, nil
	}
	return nil, nil
}
func (s *stubCars) List(filter models.CarFilter, limit, offset int) ([]models.Car, int64, error) {
	return nil, 0, nil
}
func (s *stubCars) ListAll() ([]models.Car, error)                        { return nil, nil }
func (s *stubCars) UpdateField(id, field string, value interface{}) error { return nil }
func (s *stubCars) Delete(id string) error                                { return nil }
func (s *stubCars) Count() (int64, error)                                 { return 0, nil }

type stubBookings struct {
	created []*models.Booking
	err     error
}

func (s *stubBookings) Create(b *models.Booking) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, b)
	return nil
}
func (s *stubBookings) GetByCarID(carID string) ([]models.Booking, error) { return nil, nil }

func validRequest() *models.BookingRequest {
	return &models.BookingRequest{
		CarID:         "car-1",
		StartDate:     time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC),
		CustomerName:  "Ivan Petrov",
		CustomerEmail: "ivan@example.com",
		CustomerPhone: "+79001234567",
	}
}

func newTestRental(car *models.Car) (*DefaultRentalService, *stubBookings) {
	bookings := &stubBookings{}
	return NewDefaultRentalService(&stubCars{car: car}, bookings, nil), bookings
}

func TestCreateBookingPricesWholeDays(t *testing.T) {
	car := &models.Car{ID: "car-1", Status: models.CarStatusAvailable, DailyPrice: 2500}
	svc, bookings := newTestRental(car)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.TotalDays != 3 || booking.TotalPrice != 7500 {
		t.Errorf("got %d days / %.2f, want 3 / 7500", booking.TotalDays, booking.TotalPrice)
	}
	if booking.Status != models.BookingStatusPending {
		t.Errorf("new booking should be pending, got %s", booking.Status)
	}
	if len(bookings.created) != 1 {
		t.Errorf("expected one persisted booking, got %d", len(bookings.created))
	}
}

func TestCreateBookingRoundsPartialDayUp(t *testing.T) {
	car := &models.Car{ID: "car-1", Status: models.CarStatusAvailable, DailyPrice: 1000}
	svc, _ := newTestRental(car)

	req := validRequest()
	req.EndDate = req.StartDate.Add(26 * time.Hour)
	booking, err := svc.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.TotalDays != 2 {
		t.Errorf("26h rental should bill 2 days, got %d", booking.TotalDays)
	}
}

func TestCreateBookingUnknownCar(t *testing.T) {
	svc, _ := newTestRental(nil)
	_, err := svc.CreateBooking(context.Background(), validRequest())
	if !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("expected ErrCarNotFound, got %v", err)
	}
}

func TestCreateBookingUnavailableCar(t *testing.T) {
	car := &models.Car{ID: "car-1", Status: models.CarStatusUnavailable, DailyPrice: 2500}
	svc, _ := newTestRental(car)
	_, err := svc.CreateBooking(context.Background(), validRequest())
	if !errors.Is(err, ErrCarUnavailable) {
		t.Fatalf("expected ErrCarUnavailable, got %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	car := &models.Car{ID: "car-1", Status: models.CarStatusAvailable, DailyPrice: 2500}
	svc, bookings := newTestRental(car)

	mutations := map[string]func(*models.BookingRequest){
		"end before start": func(r *models.BookingRequest) { r.EndDate = r.StartDate.Add(-time.Hour) },
		"short name":       func(r *models.BookingRequest) { r.CustomerName = "I" },
		"bad email":        func(r *models.BookingRequest) { r.CustomerEmail = "not-an-email" },
		"short phone":      func(r *models.BookingRequest) { r.CustomerPhone = "123" },
		"missing car":      func(r *models.BookingRequest) { r.CarID = "" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(req)
			_, err := svc.CreateBooking(context.Background(), req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
	if len(bookings.created) != 0 {
		t.Errorf("invalid requests must not persist, got %d", len(bookings.created))
	}
}
