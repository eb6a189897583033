package tenantRepo

import (
	"context"
	"errors"

	"agendo/models"
)

// ErrNotFound is returned when a tenant or service does not exist.
var ErrNotFound = errors.New("tenant or service not found")

// Repository provides read access to tenants and their services. The
// engine never mutates these; administration happens elsewhere.
type Repository interface {
	GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, error)
	GetServiceByID(ctx context.Context, tenantID, serviceID string) (*models.Service, error)
	ListServices(ctx context.Context, tenantID string) ([]models.Service, error)
}
