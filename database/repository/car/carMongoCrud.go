package carRepo

import (
	"errors"
	"fmt"
	"time"

	"avtorent/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new car document. A single InsertOne keeps the commit
// atomic: a concurrent reader either sees the full car or nothing.
func (r *MongoCarRepo) Create(car *models.Car) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	car.CreatedAt = now
	car.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, car); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("car with plate %s: %w", car.LicensePlate, ErrDuplicatePlate)
		}
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// GetByID retrieves a car by its unique ID. Returns (nil, nil) when absent.
func (r *MongoCarRepo) GetByID(id string) (*models.Car, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var car models.Car
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&car); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch car with id %s: %w", id, err)
	}
	return &car, nil
}

// UpdateField sets a single allow-listed field.
func (r *MongoCarRepo) UpdateField(id, field string, value interface{}) error {
	allowed := false
	for _, f := range EditableFields {
		if f == field {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("field %q is not editable", field)
	}

	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{field: value, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update car with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("car with id %s not found", id)
	}
	return nil
}

// Delete removes a car document by its ID.
func (r *MongoCarRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete car with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("car with id %s not found", id)
	}
	return nil
}
