package storage

import "context"

// Backend identifies which store produced a photo URL.
type Backend string

const (
	BackendCloudinary Backend = "cloudinary"
	BackendLocal      Backend = "local"
)

// SaveResult reports where a photo landed. Degraded is set when the preferred
// backend failed and the fallback was used, so callers can warn instead of
// guessing provenance from the URL shape.
type SaveResult struct {
	URL      string  `json:"url"`
	Backend  Backend `json:"backend"`
	Degraded bool    `json:"degraded"`
}

// PhotoStore is the contract for car photo storage.
//
// Save stages the file at localPath under a key derived from ownerKey and the
// photo index. It is best-effort: when the preferred backend fails it falls
// back to the secondary one and still returns a usable URL; it only errors
// when every backend failed.
//
// Delete is provenance-aware and returns whether anything was removed.
type PhotoStore interface {
	Save(ctx context.Context, localPath, ownerKey string, index int) (SaveResult, error)
	Delete(ctx context.Context, url string) bool
	Primary() Backend
}
