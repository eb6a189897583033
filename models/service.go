package models

// Service is a bookable offering owned by a tenant.
type Service struct {
	ID                 string `bson:"id" json:"id"`
	TenantID           string `bson:"tenant_id" json:"tenant_id"`
	Name               string `bson:"name" json:"name"`
	DurationMin        int    `bson:"durationMin" json:"durationMin"`
	BufferMin          int    `bson:"bufferMin" json:"bufferMin"` // padding before/after against external events
	SlotGranularityMin int    `bson:"slotGranularityMin,omitempty" json:"slotGranularityMin,omitempty"`
	Active             bool   `bson:"active" json:"active"`
}

// Granularity returns the slot step for this service, falling back to the
// tenant default when no override is set.
func (s Service) Granularity(tenant Tenant) int {
	if s.SlotGranularityMin > 0 {
		return s.SlotGranularityMin
	}
	return tenant.SlotGranularityMin
}
