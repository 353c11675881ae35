package domain

import "context"

// Organisator is the person or organisation responsible for an event.
// swagger:model Organisator
type Organisator struct {
	ID          int64  `json:"id"`
	StoragePage int64  `json:"pid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// OrganisatorRepository defines read access to organisators.
type OrganisatorRepository interface {
	GetByID(ctx context.Context, id int64) (*Organisator, error)
	FindAll(ctx context.Context) ([]*Organisator, error)
	FindDemanded(ctx context.Context, demand ForeignRecordDemand) ([]*Organisator, error)
}
