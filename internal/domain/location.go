package domain

import (
	"context"
	"strings"
)

// Location is the venue of an event.
// swagger:model Location
type Location struct {
	ID          int64   `json:"id"`
	StoragePage int64   `json:"pid"`
	Title       string  `json:"title"`
	Address     string  `json:"address"`
	Zip         string  `json:"zip"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Description string  `json:"description"`
	Link        string  `json:"link"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// FullAddress joins address, "zip city" and country with sep, skipping empty parts.
func (l *Location) FullAddress(sep string) string {
	var parts []string
	if l.Address != "" {
		parts = append(parts, l.Address)
	}
	if zipCity := strings.TrimSpace(l.Zip + " " + l.City); zipCity != "" {
		parts = append(parts, zipCity)
	}
	if l.Country != "" {
		parts = append(parts, l.Country)
	}
	return strings.Join(parts, sep)
}

// LocationRepository defines read access to locations.
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*Location, error)
	FindAll(ctx context.Context) ([]*Location, error)
	FindDemanded(ctx context.Context, demand ForeignRecordDemand) ([]*Location, error)
}
