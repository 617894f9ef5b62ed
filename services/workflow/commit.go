package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	carRepo "avtorent/database/repository/car"
	"avtorent/models"
	"avtorent/services/storage"
)

func countDegraded(photos []storage.SaveResult) int {
	n := 0
	for _, p := range photos {
		if p.Degraded {
			n++
		}
	}
	return n
}

// splitPhotos separates durable photos (primary backend, not degraded) from
// the ones the commit drops. Dropped photos are queued for cleanup so the
// fallback store does not accumulate orphans.
func (w *Workflow) splitPhotos(photos []storage.SaveResult) (kept, dropped []string) {
	primary := w.Photos.Primary()
	for _, p := range photos {
		if p.Backend == primary && !p.Degraded {
			kept = append(kept, p.URL)
		} else {
			dropped = append(dropped, p.URL)
		}
	}
	return kept, dropped
}

// commit persists the draft. All-or-nothing: the car record is inserted in a
// single write, so a failure leaves no partial data behind. Photos that did
// not reach the primary backend are excluded; if that leaves none, the commit
// fails and nothing is persisted.
func (w *Workflow) commit(ctx context.Context, sess *Session) ([]Reply, bool, error) {
	kept, dropped := w.splitPhotos(sess.Draft.Photos)
	if len(kept) == 0 {
		// The caller discards the session and queues cleanup for all photos.
		return nil, false, &ConflictError{
			Message: "None of the photos reached the primary store, so the car was not saved.\nSend /add_car to try again.",
		}
	}

	now := w.now().UTC()
	car := &models.Car{
		ID:              uuid.NewString(),
		CategoryID:      sess.Draft.CategoryID,
		Brand:           sess.Draft.Brand,
		Model:           sess.Draft.Model,
		Year:            sess.Draft.Year,
		LicensePlate:    sess.Draft.LicensePlate,
		EngineCapacity:  sess.Draft.EngineCapacity,
		Horsepower:      sess.Draft.Horsepower,
		FuelType:        sess.Draft.FuelType,
		Transmission:    sess.Draft.Transmission,
		FuelConsumption: sess.Draft.FuelConsumption,
		Doors:           sess.Draft.Doors,
		Seats:           sess.Draft.Seats,
		Color:           sess.Draft.Color,
		DailyPrice:      sess.Draft.DailyPrice,
		Deposit:         sess.Draft.Deposit,
		Mileage:         sess.Draft.Mileage,
		Features:        sess.Draft.Features,
		Description:     sess.Draft.Description,
		Images:          kept,
		Thumbnail:       kept[0],
		Status:          models.CarStatusAvailable,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := car.Validate(now); err != nil {
		return nil, false, &UpstreamError{Op: "validate draft", Err: err}
	}

	if err := w.Cars.Create(car); err != nil {
		if errors.Is(err, carRepo.ErrDuplicatePlate) {
			return nil, false, &ConflictError{
				Message: fmt.Sprintf("A car with plate %s already exists. The entry was discarded.", car.LicensePlate),
			}
		}
		return nil, false, &UpstreamError{Op: "insert car", Err: err}
	}

	// Read-back check: the record must be immediately retrievable, and its
	// photo list must be exactly what was committed.
	stored, err := w.Cars.GetByID(car.ID)
	if err != nil || stored == nil {
		if err == nil {
			err = errors.New("car not found after insert")
		}
		return nil, false, &UpstreamError{Op: "verify insert", Err: err}
	}

	w.enqueueCleanup(sess.DraftKey, dropped)

	text := fmt.Sprintf("Saved: %s\nID: %s\nPhotos: %d", stored.FullName(), stored.ID, len(stored.Images))
	if !photosMatch(stored.Images, kept) {
		w.Logger.Warn("stored photo list diverges from committed set",
			zap.String("carID", stored.ID),
			zap.Strings("stored", stored.Images),
			zap.Strings("committed", kept))
		text += "\nWarning: the stored photo URLs do not match the uploaded set. Check the car with /check_photos."
	}
	if len(dropped) > 0 {
		text += fmt.Sprintf("\nDropped %d photo(s) that missed the primary store.", len(dropped))
	}
	return []Reply{{Text: text, Edit: true}}, true, nil
}

func photosMatch(stored, committed []string) bool {
	if len(stored) != len(committed) {
		return false
	}
	for i := range committed {
		if stored[i] != committed[i] {
			return false
		}
	}
	return true
}
