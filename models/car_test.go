package models

import (
	"testing"
	"time"
)

func validCar() *Car {
	return &Car{
		ID:              "id-1",
		CategoryID:      "cat-1",
		Brand:           "Toyota",
		Model:           "Camry",
		Year:            2023,
		LicensePlate:    "A123BC",
		EngineCapacity:  2.5,
		Horsepower:      200,
		FuelType:        "petrol",
		Transmission:    TransmissionAutomatic,
		FuelConsumption: 8.5,
		Doors:           4,
		Seats:           5,
		Color:           "black",
		DailyPrice:      2500,
		Deposit:         10000,
		Mileage:         15000,
		Status:          CarStatusAvailable,
	}
}

func TestCarValidate(t *testing.T) {
	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	if err := validCar().Validate(now); err != nil {
		t.Fatalf("valid car rejected: %v", err)
	}

	mutations := map[string]func(*Car){
		"empty brand":      func(c *Car) { c.Brand = " " },
		"year too old":     func(c *Car) { c.Year = 1899 },
		"year too new":     func(c *Car) { c.Year = 2028 },
		"no plate":         func(c *Car) { c.LicensePlate = "" },
		"no category":      func(c *Car) { c.CategoryID = "" },
		"zero capacity":    func(c *Car) { c.EngineCapacity = 0 },
		"negative hp":      func(c *Car) { c.Horsepower = -1 },
		"zero consumption": func(c *Car) { c.FuelConsumption = 0 },
		"zero doors":       func(c *Car) { c.Doors = 0 },
		"zero seats":       func(c *Car) { c.Seats = 0 },
		"zero price":       func(c *Car) { c.DailyPrice = 0 },
		"negative deposit": func(c *Car) { c.Deposit = -1 },
		"negative mileage": func(c *Car) { c.Mileage = -1 },
		"bad transmission": func(c *Car) { c.Transmission = "TIPTRONIC" },
		"bad status":       func(c *Car) { c.Status = "MAYBE" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			car := validCar()
			mutate(car)
			if err := car.Validate(now); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}

	// The next model year is allowed; zero deposit and mileage are too.
	edge := validCar()
	edge.Year = 2027
	edge.Deposit = 0
	edge.Mileage = 0
	if err := edge.Validate(now); err != nil {
		t.Errorf("boundary values rejected: %v", err)
	}
}

func TestParseCarStatus(t *testing.T) {
	for _, raw := range []string{"AVAILABLE", "available", " Available "} {
		status, err := ParseCarStatus(raw)
		if err != nil || status != CarStatusAvailable {
			t.Errorf("ParseCarStatus(%q) = %q, %v", raw, status, err)
		}
	}
	if _, err := ParseCarStatus("sold"); err == nil {
		t.Error("unknown status should be rejected")
	}
}

func TestParseTransmission(t *testing.T) {
	cases := map[string]TransmissionType{
		"manual":         TransmissionManual,
		"AUTOMATIC":      TransmissionAutomatic,
		"cvt":            TransmissionCVT,
		"semi automatic": TransmissionSemiAutomatic,
		"SEMI_AUTOMATIC": TransmissionSemiAutomatic,
	}
	for raw, want := range cases {
		got, err := ParseTransmission(raw)
		if err != nil || got != want {
			t.Errorf("ParseTransmission(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := ParseTransmission("dsg7"); err == nil {
		t.Error("unknown transmission should be rejected")
	}
}
