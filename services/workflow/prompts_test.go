package workflow

import (
	"strings"
	"testing"
	"unicode/utf8"

	"avtorent/models"
	"avtorent/services/storage"
)

func TestSummaryTruncatesDescriptionOnRuneBoundary(t *testing.T) {
	d := &Draft{
		Brand:        "Lada",
		Model:        "Vesta",
		Year:         2024,
		Transmission: models.TransmissionManual,
		Description:  strings.Repeat("я", 150),
	}

	got := summary(d)
	if !utf8.ValidString(got) {
		t.Fatal("summary produced invalid UTF-8")
	}
	if !strings.Contains(got, strings.Repeat("я", 100)+"...") {
		t.Error("description should be cut to 100 characters with an ellipsis")
	}
	if strings.Contains(got, strings.Repeat("я", 101)) {
		t.Error("description longer than 100 characters leaked into the summary")
	}
}

func TestSummaryWarnsAboutDegradedPhotos(t *testing.T) {
	d := &Draft{
		Brand:        "Lada",
		Model:        "Vesta",
		Year:         2024,
		Transmission: models.TransmissionManual,
	}
	d.Photos = append(d.Photos,
		storage.SaveResult{URL: "/static/uploads/cars/a.jpg", Backend: storage.BackendLocal, Degraded: true},
		storage.SaveResult{URL: "https://res.cloudinary.com/demo/image/upload/v1/a/b.jpg", Backend: storage.BackendCloudinary})

	got := summary(d)
	if !strings.Contains(got, "Warning: 1 photo(s)") {
		t.Errorf("summary should warn about the one degraded photo, got %q", got)
	}
}
