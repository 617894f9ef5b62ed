package categoryRepo

import "avtorent/models"

// CategoryRepository exposes read access to the category reference table.
// Categories are seeded by admin scripts; this service never creates them.
type CategoryRepository interface {
	GetAll(activeOnly bool) ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	Count() (int64, error)
}
