package domain

import (
	"context"
	"time"
)

// Event represents a listed event that visitors can find and register for.
// swagger:model Event
type Event struct {
	ID          int64  `json:"id"`
	StoragePage int64  `json:"pid"`
	Title       string `json:"title"`
	Teaser      string `json:"teaser"`
	Description string `json:"description"`
	Program     string `json:"program"`
	Link        string `json:"link"`
	TopEvent    bool   `json:"top_event"`

	StartDate time.Time  `json:"startdate"`
	EndDate   *time.Time `json:"enddate,omitempty"`

	// Hidden, StartTime and EndTime control record visibility independently of the event dates.
	Hidden    bool       `json:"hidden"`
	StartTime *time.Time `json:"starttime,omitempty"`
	EndTime   *time.Time `json:"endtime,omitempty"`

	EnableRegistration      bool       `json:"enable_registration"`
	RegistrationDeadline    *time.Time `json:"registration_deadline,omitempty"`
	MaxParticipants         int        `json:"max_participants"`
	MaxRegistrationsPerUser int        `json:"max_registrations_per_user"`
	EnableWaitlist          bool       `json:"enable_waitlist"`
	EnableWaitlistMoveUp    bool       `json:"enable_waitlist_moveup"`
	EnableCancel            bool       `json:"enable_cancel"`
	CancelDeadline          *time.Time `json:"cancel_deadline,omitempty"`
	EnableAutoconfirm       bool       `json:"enable_autoconfirm"`
	UniqueEmailCheck        bool       `json:"unique_email_check"`
	NotifyAdmin             bool       `json:"notify_admin"`
	NotifyOrganisator       bool       `json:"notify_organisator"`

	Price    float64 `json:"price"`
	Currency string  `json:"currency"`

	LocationID    *int64  `json:"location_id,omitempty"`
	OrganisatorID *int64  `json:"organisator_id,omitempty"`
	CategoryIDs   []int64 `json:"category_ids"`
	SpeakerIDs    []int64 `json:"speaker_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(storagePage int64, title string, startDate time.Time, createdAt, updatedAt time.Time) *Event {
	return &Event{
		StoragePage:             storagePage,
		Title:                   title,
		StartDate:               startDate,
		MaxRegistrationsPerUser: 1,
		CategoryIDs:             []int64{},
		SpeakerIDs:              []int64{},
		CreatedAt:               createdAt,
		UpdatedAt:               updatedAt,
	}
}

// FreePlaces returns the remaining places given the current number of registrations.
// Events without a participant limit report -1.
func (e *Event) FreePlaces(registered int) int {
	if e.MaxParticipants <= 0 {
		return -1
	}
	free := e.MaxParticipants - registered
	if free < 0 {
		return 0
	}
	return free
}

// RegistrationPossible reports whether registration is open at now. The
// deadline and the start date themselves still accept registrations.
func (e *Event) RegistrationPossible(now time.Time) bool {
	if !e.EnableRegistration {
		return false
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return false
	}
	return !e.StartDate.Before(now)
}

// Visible reports whether the hidden flag and the StartTime/EndTime window allow showing the event at now.
func (e *Event) Visible(now time.Time) bool {
	if e.Hidden {
		return false
	}
	if e.StartTime != nil && e.StartTime.After(now) {
		return false
	}
	return e.EndTime == nil || e.EndTime.After(now)
}

// CancellationPossible reports whether registrations for the event may be cancelled at now.
func (e *Event) CancellationPossible(now time.Time) bool {
	if !e.EnableCancel {
		return false
	}
	if e.CancelDeadline != nil && !now.Before(*e.CancelDeadline) {
		return false
	}
	return e.StartDate.After(now)
}

// EventDetail bundles an event with its resolved relations.
type EventDetail struct {
	Event       *Event       `json:"event"`
	Location    *Location    `json:"location"`
	Organisator *Organisator `json:"organisator"`
	Speakers    []*Speaker   `json:"speakers"`
	Categories  []*Category  `json:"categories"`
	Fields      []*Field     `json:"registration_fields"`
	// FreePlaces is -1 when the event has no participant limit.
	FreePlaces           int  `json:"free_places"`
	RegistrationPossible bool `json:"registration_possible"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	// FindDemanded returns the events matching the demand, ordered and limited as requested.
	FindDemanded(ctx context.Context, demand *EventDemand) ([]*Event, error)
	// CountDemanded returns the number of events matching the demand, ignoring ordering, limit and offset.
	CountDemanded(ctx context.Context, demand *EventDemand) (int, error)
}

// EventPage is a page of demanded events.
type EventPage struct {
	Events []*Event
	Total  int
}

// EventService defines event listing and administration.
type EventService interface {
	ListEvents(ctx context.Context, demand *EventDemand, page PaginationParams) (*EventPage, error)
	GetEventDetail(ctx context.Context, id int64) (*EventDetail, error)
	// GetEvent returns the stored event regardless of its visibility.
	GetEvent(ctx context.Context, id int64) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id int64) error
}
