package domain

import "context"

// Speaker represents a person presenting at one or more events.
// swagger:model Speaker
type Speaker struct {
	ID          int64  `json:"id"`
	StoragePage int64  `json:"pid"`
	Name        string `json:"name"`
	JobTitle    string `json:"job_title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// SpeakerRepository defines read access to speakers.
type SpeakerRepository interface {
	GetByID(ctx context.Context, id int64) (*Speaker, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*Speaker, error)
	FindAll(ctx context.Context) ([]*Speaker, error)
	FindDemanded(ctx context.Context, demand ForeignRecordDemand) ([]*Speaker, error)
}
