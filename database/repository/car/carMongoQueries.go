package carRepo

import (
	"fmt"
	"regexp"
	"time"

	"avtorent/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// buildFilter translates a CarFilter into a Mongo query document.
// Only active cars are ever visible to the catalog.
func buildFilter(f models.CarFilter) bson.M {
	query := bson.M{"is_active": true}

	if f.CategoryID != "" {
		query["category_id"] = f.CategoryID
	}
	if f.Brand != "" {
		query["brand"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Brand), Options: "i"}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		query["daily_price"] = price
	}
	if f.Status != nil {
		query["status"] = *f.Status
	}
	return query
}

// List applies the filter with offset/limit pagination and returns the total
// match count alongside the page.
func (r *MongoCarRepo) List(filter models.CarFilter, limit, offset int) ([]models.Car, int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	query := buildFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch cars: %w", err)
	}
	defer cursor.Close(ctx)

	var cars []models.Car
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, 0, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, total, nil
}

// ListAll returns every active car in insertion order, for the bot listing.
func (r *MongoCarRepo) ListAll() ([]models.Car, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cars: %w", err)
	}
	defer cursor.Close(ctx)

	var cars []models.Car
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, nil
}
