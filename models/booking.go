package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Booking lifecycle statuses. Payment is recorded but never processed here.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"

	PaymentStatusPending = "pending"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Booking is a rental reservation against a single car.
type Booking struct {
	ID    string `bson:"id" json:"id"`
	CarID string `bson:"car_id" json:"car_id"`

	StartDate  time.Time `bson:"start_date" json:"start_date"`
	EndDate    time.Time `bson:"end_date" json:"end_date"`
	TotalDays  int       `bson:"total_days" json:"total_days"`
	TotalPrice float64   `bson:"total_price" json:"total_price"`
	Status     string    `bson:"status" json:"status"`

	CustomerName  string `bson:"customer_name" json:"customer_name"`
	CustomerEmail string `bson:"customer_email" json:"customer_email"`
	CustomerPhone string `bson:"customer_phone" json:"customer_phone"`
	CustomerNotes string `bson:"customer_notes,omitempty" json:"customer_notes,omitempty"`

	PaymentStatus string `bson:"payment_status" json:"payment_status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// BookingRequest is the API input shape for creating a booking.
type BookingRequest struct {
	CarID         string    `json:"car_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	CustomerNotes string    `json:"customer_notes"`
}

// Validate checks the request field constraints before any lookup.
func (r *BookingRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.CarID) == "":
		return fmt.Errorf("car_id is required")
	case r.StartDate.IsZero() || r.EndDate.IsZero():
		return fmt.Errorf("start_date and end_date are required")
	case !r.EndDate.After(r.StartDate):
		return fmt.Errorf("end_date must be after start_date")
	case len(strings.TrimSpace(r.CustomerName)) < 2:
		return fmt.Errorf("customer_name must be at least 2 characters")
	case !emailRe.MatchString(r.CustomerEmail):
		return fmt.Errorf("customer_email is not a valid email address")
	case len(strings.TrimSpace(r.CustomerPhone)) < 5:
		return fmt.Errorf("customer_phone must be at least 5 characters")
	}
	return nil
}
