package tenantRepo

import (
	"context"
	"fmt"

	"agendo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTenantRepo implements Repository on MongoDB.
type MongoTenantRepo struct {
	tenants  *mongo.Collection
	services *mongo.Collection
}

func NewMongoTenantRepo(db *mongo.Database) *MongoTenantRepo {
	return &MongoTenantRepo{
		tenants:  db.Collection("tenants"),
		services: db.Collection("services"),
	}
}

func (r *MongoTenantRepo) GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.tenants.FindOne(ctx, bson.M{"id": tenantID}).Decode(&tenant)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tenant %s: %w", tenantID, err)
	}
	return &tenant, nil
}

func (r *MongoTenantRepo) GetServiceByID(ctx context.Context, tenantID, serviceID string) (*models.Service, error) {
	var svc models.Service
	err := r.services.FindOne(ctx, bson.M{"tenant_id": tenantID, "id": serviceID}).Decode(&svc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service %s: %w", serviceID, err)
	}
	return &svc, nil
}

func (r *MongoTenantRepo) ListServices(ctx context.Context, tenantID string) ([]models.Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.services.Find(ctx, bson.M{"tenant_id": tenantID, "active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list services for tenant %s: %w", tenantID, err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}
