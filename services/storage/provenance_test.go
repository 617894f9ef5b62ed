package storage

import "testing"

func TestBackendOf(t *testing.T) {
	cases := []struct {
		url  string
		want Backend
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1766578214/cars/draft_1/photo_1.jpg", BackendCloudinary},
		{"https://example.com/static/uploads/cars/draft_1_photo.jpg", BackendLocal},
		{"/static/uploads/cars/draft_1_photo.jpg", BackendLocal},
		{"https://example.com/somewhere/else.jpg", Backend("")},
		{"", Backend("")},
	}
	for _, c := range cases {
		if got := BackendOf(c.url); got != c.want {
			t.Errorf("BackendOf(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{
			"https://res.cloudinary.com/demo/image/upload/v1766578214/cars/draft_1/photo_20260826_120000_1.jpg",
			"cars/draft_1/photo_20260826_120000_1",
		},
		{
			// No version segment.
			"https://res.cloudinary.com/demo/image/upload/cars/draft_2/photo_3.png",
			"cars/draft_2/photo_3",
		},
		{
			// A folder starting with v but not a version number stays.
			"https://res.cloudinary.com/demo/image/upload/vehicles/photo_1.jpg",
			"vehicles/photo_1",
		},
		{"https://example.com/no/upload-marker.jpg", ""},
	}
	for _, c := range cases {
		if got := publicIDFromURL(c.url); got != c.want {
			t.Errorf("publicIDFromURL(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}
