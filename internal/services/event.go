package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventmgt/internal/clock"
	"eventmgt/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	locationRepo     domain.LocationRepository
	organisatorRepo  domain.OrganisatorRepository
	speakerRepo      domain.SpeakerRepository
	categoryRepo     domain.CategoryRepository
	fieldRepo        domain.FieldRepository
	registrationRepo domain.RegistrationRepository
	clock            clock.Clock
	contextTimeout   time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	locationRepo domain.LocationRepository,
	organisatorRepo domain.OrganisatorRepository,
	speakerRepo domain.SpeakerRepository,
	categoryRepo domain.CategoryRepository,
	fieldRepo domain.FieldRepository,
	registrationRepo domain.RegistrationRepository,
	clk clock.Clock,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		locationRepo:     locationRepo,
		organisatorRepo:  organisatorRepo,
		speakerRepo:      speakerRepo,
		categoryRepo:     categoryRepo,
		fieldRepo:        fieldRepo,
		registrationRepo: registrationRepo,
		clock:            clk,
		contextTimeout:   timeout,
	}
}

// ListEvents returns one page of the demanded events. The demand's QueryLimit
// caps the whole result set: pages past the limit are empty and Total never
// exceeds it. A PageSize of 0 returns the demanded events unpaginated.
func (s *eventService) ListEvents(ctx context.Context, demand *domain.EventDemand, page domain.PaginationParams) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	d := *demand
	if d.CurrentDateTime.IsZero() {
		d.CurrentDateTime = s.clock.Now().In(d.Location())
	}

	total, err := s.eventRepo.CountDemanded(ctx, &d)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	if d.QueryLimit > 0 && total > d.QueryLimit {
		total = d.QueryLimit
	}

	if page.PageSize > 0 {
		offset, count, ok := page.Window(d.QueryLimit)
		if !ok {
			return &domain.EventPage{Events: []*domain.Event{}, Total: total}, nil
		}
		d.QueryLimit = count
		d.Offset = offset
	}

	events, err := s.eventRepo.FindDemanded(ctx, &d)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	return &domain.EventPage{Events: events, Total: total}, nil
}

// GetEventDetail returns a visible event with its relations resolved.
func (s *eventService) GetEventDetail(ctx context.Context, id int64) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	now := s.clock.Now()
	if !event.Visible(now) {
		return nil, domain.ErrNotFound
	}

	detail := &domain.EventDetail{Event: event}
	if event.LocationID != nil {
		detail.Location, err = s.locationRepo.GetByID(ctx, *event.LocationID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get location: %w", err)
		}
	}
	if event.OrganisatorID != nil {
		detail.Organisator, err = s.organisatorRepo.GetByID(ctx, *event.OrganisatorID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get organisator: %w", err)
		}
	}
	if detail.Speakers, err = s.speakerRepo.ListByIDs(ctx, event.SpeakerIDs); err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	if detail.Categories, err = s.categoryRepo.ListByIDs(ctx, event.CategoryIDs); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if detail.Fields, err = s.fieldRepo.ListByEventID(ctx, event.ID); err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	registered, err := s.registrationRepo.CountActive(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	detail.FreePlaces = event.FreePlaces(registered)
	detail.RegistrationPossible = event.RegistrationPossible(now) && (detail.FreePlaces != 0 || event.EnableWaitlist)
	return detail, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return err
	}
	now := s.clock.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(event); err != nil {
		return err
	}
	existing, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return err
	}
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = s.clock.Now()
	return s.eventRepo.Update(ctx, event)
}

func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventRepo.Delete(ctx, id)
}

func validateEvent(e *domain.Event) error {
	var msgs []string
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		msgs = append(msgs, "title is required")
	}
	if e.StartDate.IsZero() {
		msgs = append(msgs, "startdate is required")
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		msgs = append(msgs, "enddate must not be before startdate")
	}
	if e.MaxParticipants < 0 {
		msgs = append(msgs, "max_participants must not be negative")
	}
	if e.MaxRegistrationsPerUser < 1 {
		msgs = append(msgs, "max_registrations_per_user must be at least 1")
	}
	if e.Price < 0 {
		msgs = append(msgs, "price must not be negative")
	}
	if len(msgs) > 0 {
		return &domain.ValidationError{Messages: msgs}
	}
	if e.CategoryIDs == nil {
		e.CategoryIDs = []int64{}
	}
	if e.SpeakerIDs == nil {
		e.SpeakerIDs = []int64{}
	}
	return nil
}
