package domain

import "context"

// CatalogService lists the records events can be filtered by.
type CatalogService interface {
	ListLocations(ctx context.Context, demand ForeignRecordDemand) ([]*Location, error)
	ListSpeakers(ctx context.Context, demand ForeignRecordDemand) ([]*Speaker, error)
	ListOrganisators(ctx context.Context, demand ForeignRecordDemand) ([]*Organisator, error)
	ListCategories(ctx context.Context, demand ForeignRecordDemand) ([]*Category, error)
}
