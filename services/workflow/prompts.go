package workflow

import (
	"fmt"
	"strings"
)

const (
	promptBrand           = "Enter the car brand (e.g. Toyota):"
	promptModel           = "Enter the model (e.g. Camry):"
	promptYear            = "Enter the production year (e.g. 2023):"
	promptLicensePlate    = "Enter the license plate (e.g. A123BC):"
	promptCategory        = "Pick the car category:"
	promptEngineCapacity  = "Enter the engine capacity in litres (e.g. 2.0):"
	promptHorsepower      = "Enter the horsepower (e.g. 150):"
	promptFuelType        = "Enter the fuel type (petrol, diesel, electric, hybrid):"
	promptTransmission    = "Pick the transmission type:"
	promptFuelConsumption = "Enter the fuel consumption, l/100km (e.g. 8.5):"
	promptDoors           = "Enter the number of doors (e.g. 4):"
	promptSeats           = "Enter the number of seats (e.g. 5):"
	promptColor           = "Enter the car color (e.g. black):"
	promptDailyPrice      = "Enter the daily price (e.g. 2500):"
	promptDeposit         = "Enter the deposit amount (e.g. 10000):"
	promptMileage         = "Enter the current mileage in km (e.g. 15000):"
	promptFeatures        = "Enter features separated by commas (e.g. ac, heated seats).\nSend 'no' if there are none:"
	promptDescription     = "Enter a description (or send 'no' to skip):"
	promptPhotos          = "Send the car photos (one or more).\nWhen finished, send /done.\nAt least one photo is required."

	msgStart         = "Adding a new car.\n\n" + promptBrand
	msgNoSession     = "No entry in progress. Send /add_car to start."
	msgCancelled     = "Operation cancelled."
	msgPickButton    = "Please pick one of the options above."
	msgPhotoExpected = "Send a photo, or /done when finished."
	msgNeedOnePhoto  = "No photos uploaded yet. Please send at least one photo:"
	msgAborted       = "Adding the car was cancelled."
	msgSystemFault   = "Something went wrong. The entry was discarded — send /add_car to start over."
)

var transmissionChoices = []Choice{
	{ID: "AUTOMATIC", Label: "Automatic"},
	{ID: "MANUAL", Label: "Manual"},
	{ID: "CVT", Label: "CVT"},
	{ID: "SEMI_AUTOMATIC", Label: "Semi-automatic"},
}

var confirmChoices = []Choice{
	{ID: choiceCommit, Label: "Save"},
	{ID: choiceAbort, Label: "Cancel"},
}

// summary renders the draft for the CONFIRM state.
func summary(d *Draft) string {
	var b strings.Builder
	b.WriteString("Please review the car details:\n\n")
	fmt.Fprintf(&b, "%s %s (%d)\n", d.Brand, d.Model, d.Year)
	fmt.Fprintf(&b, "Plate: %s\n", d.LicensePlate)
	fmt.Fprintf(&b, "Category: %s\n", d.CategoryName)
	fmt.Fprintf(&b, "Engine: %.1fl, %d hp\n", d.EngineCapacity, d.Horsepower)
	fmt.Fprintf(&b, "Fuel: %s, consumption %.1f l/100km\n", d.FuelType, d.FuelConsumption)
	fmt.Fprintf(&b, "Transmission: %s\n", d.Transmission)
	fmt.Fprintf(&b, "Doors: %d, seats: %d\n", d.Doors, d.Seats)
	fmt.Fprintf(&b, "Color: %s\n", d.Color)
	fmt.Fprintf(&b, "Price/day: %.2f\n", d.DailyPrice)
	fmt.Fprintf(&b, "Deposit: %.2f\n", d.Deposit)
	fmt.Fprintf(&b, "Mileage: %d km\n", d.Mileage)
	fmt.Fprintf(&b, "Photos: %d\n", len(d.Photos))
	if degraded := countDegraded(d.Photos); degraded > 0 {
		fmt.Fprintf(&b, "Warning: %d photo(s) landed in the fallback store and will be dropped on save.\n", degraded)
	}
	if len(d.Features) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(d.Features, ", "))
	}
	if d.Description != "" {
		desc := d.Description
		// Truncate by runes; slicing bytes could split a multibyte character.
		if r := []rune(desc); len(r) > 100 {
			desc = string(r[:100]) + "..."
		}
		fmt.Fprintf(&b, "Description: %s\n", desc)
	}
	return b.String()
}
