package models

import (
	"fmt"
	"strings"
	"time"
)

// CarStatus values are stored verbatim; the public API rejects anything else.
type CarStatus string

const (
	CarStatusAvailable   CarStatus = "AVAILABLE"
	CarStatusUnavailable CarStatus = "UNAVAILABLE"
)

// ParseCarStatus normalizes a user-supplied status string.
func ParseCarStatus(s string) (CarStatus, error) {
	switch CarStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case CarStatusAvailable:
		return CarStatusAvailable, nil
	case CarStatusUnavailable:
		return CarStatusUnavailable, nil
	}
	return "", fmt.Errorf("unknown car status %q (allowed: AVAILABLE, UNAVAILABLE)", s)
}

// TransmissionType enumerates gearbox kinds.
type TransmissionType string

const (
	TransmissionManual        TransmissionType = "MANUAL"
	TransmissionAutomatic     TransmissionType = "AUTOMATIC"
	TransmissionCVT           TransmissionType = "CVT"
	TransmissionSemiAutomatic TransmissionType = "SEMI_AUTOMATIC"
)

// ParseTransmission accepts any casing plus "semi automatic" style spellings.
func ParseTransmission(s string) (TransmissionType, error) {
	norm := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_")
	switch TransmissionType(norm) {
	case TransmissionManual, TransmissionAutomatic, TransmissionCVT, TransmissionSemiAutomatic:
		return TransmissionType(norm), nil
	}
	return "", fmt.Errorf("unknown transmission %q", s)
}

// Car is the durable rental-fleet record.
type Car struct {
	ID         string `bson:"id" json:"id"`
	CategoryID string `bson:"category_id" json:"category_id"`

	Brand        string `bson:"brand" json:"brand"`
	Model        string `bson:"model" json:"model"`
	Year         int    `bson:"year" json:"year"`
	LicensePlate string `bson:"license_plate" json:"license_plate"`
	VIN          string `bson:"vin,omitempty" json:"vin,omitempty"`

	EngineCapacity  float64          `bson:"engine_capacity" json:"engine_capacity"` // litres
	Horsepower      int              `bson:"horsepower" json:"horsepower"`
	FuelType        string           `bson:"fuel_type" json:"fuel_type"`
	Transmission    TransmissionType `bson:"transmission" json:"transmission"`
	FuelConsumption float64          `bson:"fuel_consumption" json:"fuel_consumption"` // l/100km
	Doors           int              `bson:"doors" json:"doors"`
	Seats           int              `bson:"seats" json:"seats"`
	Color           string           `bson:"color" json:"color"`

	DailyPrice float64 `bson:"daily_price" json:"daily_price"`
	Deposit    float64 `bson:"deposit" json:"deposit"`

	Status  CarStatus `bson:"status" json:"status"`
	Mileage int       `bson:"mileage" json:"mileage"`

	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Features    []string `bson:"features" json:"features"`
	Images      []string `bson:"images" json:"images"`
	Thumbnail   string   `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`

	IsActive  bool      `bson:"is_active" json:"is_active"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName renders "Brand Model (Year)".
func (c *Car) FullName() string {
	return fmt.Sprintf("%s %s (%d)", c.Brand, c.Model, c.Year)
}

// Validate enforces the persistence-gateway constraints before a write.
// The year upper bound mirrors the guided-entry rule (next model year allowed).
func (c *Car) Validate(now time.Time) error {
	switch {
	case strings.TrimSpace(c.Brand) == "":
		return fmt.Errorf("brand is required")
	case strings.TrimSpace(c.Model) == "":
		return fmt.Errorf("model is required")
	case c.Year < 1900 || c.Year > now.Year()+1:
		return fmt.Errorf("year %d out of range [1900, %d]", c.Year, now.Year()+1)
	case strings.TrimSpace(c.LicensePlate) == "":
		return fmt.Errorf("license plate is required")
	case strings.TrimSpace(c.CategoryID) == "":
		return fmt.Errorf("category is required")
	case c.EngineCapacity <= 0:
		return fmt.Errorf("engine capacity must be positive")
	case c.Horsepower <= 0:
		return fmt.Errorf("horsepower must be positive")
	case strings.TrimSpace(c.FuelType) == "":
		return fmt.Errorf("fuel type is required")
	case c.FuelConsumption <= 0:
		return fmt.Errorf("fuel consumption must be positive")
	case c.Doors <= 0:
		return fmt.Errorf("doors must be positive")
	case c.Seats <= 0:
		return fmt.Errorf("seats must be positive")
	case strings.TrimSpace(c.Color) == "":
		return fmt.Errorf("color is required")
	case c.DailyPrice <= 0:
		return fmt.Errorf("daily price must be positive")
	case c.Deposit < 0:
		return fmt.Errorf("deposit must not be negative")
	case c.Mileage < 0:
		return fmt.Errorf("mileage must not be negative")
	}
	if _, err := ParseTransmission(string(c.Transmission)); err != nil {
		return err
	}
	if _, err := ParseCarStatus(string(c.Status)); err != nil {
		return err
	}
	return nil
}

// CarFilter describes the catalog's composed query predicate.
type CarFilter struct {
	CategoryID string
	Brand      string // case-insensitive substring
	MinPrice   *float64
	MaxPrice   *float64
	Status     *CarStatus
}
