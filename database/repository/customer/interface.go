package customerRepo

import (
	"context"

	"agendo/models"
)

// Repository manages customers per tenant. Customers are looked up (or
// created) by phone number when a booking is made; the engine never
// deletes them.
type Repository interface {
	GetOrCreate(ctx context.Context, tenantID, name, phone string) (*models.Customer, error)
	GetByID(ctx context.Context, tenantID, id string) (*models.Customer, error)
}
