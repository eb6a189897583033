package customerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agendo/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a customer does not exist.
var ErrNotFound = errors.New("customer not found")

// MongoCustomerRepo implements Repository on MongoDB.
type MongoCustomerRepo struct {
	coll *mongo.Collection
}

func NewMongoCustomerRepo(db *mongo.Database) *MongoCustomerRepo {
	return &MongoCustomerRepo{coll: db.Collection("customers")}
}

// GetOrCreate returns the customer with the given phone, inserting a new
// row when none exists. The upsert keys on tenant+phone so concurrent
// bookings from the same number resolve to a single customer.
func (r *MongoCustomerRepo) GetOrCreate(ctx context.Context, tenantID, name, phone string) (*models.Customer, error) {
	filter := bson.M{"tenant_id": tenantID, "phone": phone}
	update := bson.M{
		"$set": bson.M{"name": name},
		"$setOnInsert": bson.M{
			"id":         uuid.New().String(),
			"tenant_id":  tenantID,
			"phone":      phone,
			"created_at": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var customer models.Customer
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&customer); err != nil {
		return nil, fmt.Errorf("failed to get or create customer %s: %w", phone, err)
	}
	return &customer, nil
}

func (r *MongoCustomerRepo) GetByID(ctx context.Context, tenantID, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.coll.FindOne(ctx, bson.M{"tenant_id": tenantID, "id": id}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer %s: %w", id, err)
	}
	return &customer, nil
}
