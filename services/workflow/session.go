package workflow

import (
	"time"

	"avtorent/models"
	"avtorent/services/storage"
)

// Draft is the accumulating, not-yet-persisted car attribute set. Fields are
// written one per step; photos accumulate in upload order with provenance.
type Draft struct {
	Brand           string                  `json:"brand"`
	Model           string                  `json:"model"`
	Year            int                     `json:"year"`
	LicensePlate    string                  `json:"license_plate"`
	CategoryID      string                  `json:"category_id"`
	CategoryName    string                  `json:"category_name"`
	EngineCapacity  float64                 `json:"engine_capacity"`
	Horsepower      int                     `json:"horsepower"`
	FuelType        string                  `json:"fuel_type"`
	Transmission    models.TransmissionType `json:"transmission"`
	FuelConsumption float64                 `json:"fuel_consumption"`
	Doors           int                     `json:"doors"`
	Seats           int                     `json:"seats"`
	Color           string                  `json:"color"`
	DailyPrice      float64                 `json:"daily_price"`
	Deposit         float64                 `json:"deposit"`
	Mileage         int                     `json:"mileage"`
	Features        []string                `json:"features"`
	Description     string                  `json:"description"`
	Photos          []storage.SaveResult    `json:"photos"`
}

// PhotoURLs returns the accumulated URLs in upload order.
func (d *Draft) PhotoURLs() []string {
	urls := make([]string, 0, len(d.Photos))
	for _, p := range d.Photos {
		urls = append(urls, p.URL)
	}
	return urls
}

// Session is the per-administrator workflow state. Exactly one exists per
// administrator; starting a new entry replaces any unfinished one.
type Session struct {
	AdminID   int64     `json:"adminId"`
	DraftKey  string    `json:"draftKey"` // provisional owner key for photo storage
	State     State     `json:"state"`
	Draft     Draft     `json:"draft"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
