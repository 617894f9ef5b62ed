package models

import "time"

// Category is a stable reference entity. The catalog serves it and the
// guided-entry workflow looks it up; nothing in this service creates one.
type Category struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Icon        string    `bson:"icon,omitempty" json:"icon,omitempty"` // frontend icon hint
	SortOrder   int       `bson:"sort_order" json:"sort_order"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
