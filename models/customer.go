package models

import "time"

// Customer is a person booking with a tenant, identified by phone number.
// Customers are created on demand by the booking flow and never deleted here.
type Customer struct {
	ID        string    `bson:"id" json:"id"`
	TenantID  string    `bson:"tenant_id" json:"tenant_id"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone" json:"phone"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
