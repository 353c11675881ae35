package services

import (
	"context"

	"eventmgt/internal/domain"
)

type catalogService struct {
	locations    domain.LocationRepository
	speakers     domain.SpeakerRepository
	organisators domain.OrganisatorRepository
	categories   domain.CategoryRepository
}

// NewCatalogService lists the filterable records of the event listing.
func NewCatalogService(locations domain.LocationRepository, speakers domain.SpeakerRepository, organisators domain.OrganisatorRepository, categories domain.CategoryRepository) domain.CatalogService {
	return &catalogService{
		locations:    locations,
		speakers:     speakers,
		organisators: organisators,
		categories:   categories,
	}
}

func (s *catalogService) ListLocations(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Location, error) {
	return s.locations.FindDemanded(ctx, d)
}

func (s *catalogService) ListSpeakers(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Speaker, error) {
	return s.speakers.FindDemanded(ctx, d)
}

// ListOrganisators ignores the storage page restriction; organisators are shared across pages.
func (s *catalogService) ListOrganisators(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Organisator, error) {
	return s.organisators.FindAll(ctx)
}

func (s *catalogService) ListCategories(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Category, error) {
	return s.categories.FindDemanded(ctx, d)
}
