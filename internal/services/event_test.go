package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventmgt/internal/clock"
	"eventmgt/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventFixture struct {
	events       *fakeEventRepo
	locations    *fakeLocationRepo
	organisators *fakeOrganisatorRepo
	speakers     *fakeSpeakerRepo
	categories   *fakeCategoryRepo
	fields       *fakeFieldRepo
	regs         *fakeRegistrationRepo
	svc          domain.EventService
}

func newEventFixture(events ...*domain.Event) *eventFixture {
	f := &eventFixture{
		events:       newFakeEventRepo(events...),
		locations:    &fakeLocationRepo{byID: map[int64]*domain.Location{}},
		organisators: &fakeOrganisatorRepo{byID: map[int64]*domain.Organisator{}},
		speakers:     &fakeSpeakerRepo{byID: map[int64]*domain.Speaker{}},
		categories:   newFakeCategoryRepo(nil),
		fields:       &fakeFieldRepo{byEvent: map[int64][]*domain.Field{}},
		regs:         newFakeRegistrationRepo(),
	}
	f.svc = NewEventService(f.events, f.locations, f.organisators, f.speakers, f.categories,
		f.fields, f.regs, clock.NewFixed(regNow), 5*time.Second)
	return f
}

func TestListEvents_Pagination(t *testing.T) {
	tests := []struct {
		name       string
		queryLimit int
		count      int
		page       domain.PaginationParams
		wantTotal  int
		wantLimit  int
		wantOffset int
		wantFind   bool
	}{
		{
			name:       "unpaginated keeps demand limit",
			queryLimit: 5,
			count:      8,
			wantTotal:  5,
			wantLimit:  5,
			wantFind:   true,
		},
		{
			name:       "first page",
			count:      30,
			page:       domain.PaginationParams{Page: 1, PageSize: 10},
			wantTotal:  30,
			wantLimit:  10,
			wantOffset: 0,
			wantFind:   true,
		},
		{
			name:       "last page shrinks to query limit",
			queryLimit: 25,
			count:      30,
			page:       domain.PaginationParams{Page: 3, PageSize: 10},
			wantTotal:  25,
			wantLimit:  5,
			wantOffset: 20,
			wantFind:   true,
		},
		{
			name:       "page past query limit is empty",
			queryLimit: 20,
			count:      30,
			page:       domain.PaginationParams{Page: 3, PageSize: 10},
			wantTotal:  20,
			wantFind:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEventFixture()
			f.events.count = tt.count
			f.events.found = []*domain.Event{openEvent()}
			demand := domain.NewEventDemand()
			demand.QueryLimit = tt.queryLimit

			page, err := f.svc.ListEvents(context.Background(), demand, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)
			if !tt.wantFind {
				assert.Empty(t, f.events.demands)
				assert.Empty(t, page.Events)
				return
			}
			require.Len(t, f.events.demands, 1)
			got := f.events.demands[0]
			assert.Equal(t, tt.wantLimit, got.QueryLimit)
			assert.Equal(t, tt.wantOffset, got.Offset)
			assert.Equal(t, regNow, got.CurrentDateTime)
			assert.Equal(t, tt.queryLimit, demand.QueryLimit, "caller demand must not change")
		})
	}
}

func TestListEvents_KeepsExplicitReferenceTime(t *testing.T) {
	f := newEventFixture()
	demand := domain.NewEventDemand()
	ref := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	demand.CurrentDateTime = ref

	_, err := f.svc.ListEvents(context.Background(), demand, domain.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, ref, f.events.demands[0].CurrentDateTime)
}

func TestListEvents_CountError(t *testing.T) {
	f := newEventFixture()
	f.events.countErr = errors.New("db down")

	_, err := f.svc.ListEvents(context.Background(), domain.NewEventDemand(), domain.PaginationParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count events")
}

func TestGetEventDetail(t *testing.T) {
	event := openEvent()
	locID, orgID := int64(3), int64(4)
	event.LocationID = &locID
	event.OrganisatorID = &orgID
	event.SpeakerIDs = []int64{6, 5}
	event.CategoryIDs = []int64{2}
	event.MaxParticipants = 2
	f := newEventFixture(event)
	f.locations.byID[3] = &domain.Location{ID: 3, Title: "Hall"}
	f.organisators.byID[4] = &domain.Organisator{ID: 4, Name: "Org"}
	f.speakers.byID[5] = &domain.Speaker{ID: 5, Name: "Bob"}
	f.speakers.byID[6] = &domain.Speaker{ID: 6, Name: "Eve"}
	f.categories = newFakeCategoryRepo(map[int64]int64{2: 1})
	f.svc = NewEventService(f.events, f.locations, f.organisators, f.speakers, f.categories,
		f.fields, f.regs, clock.NewFixed(regNow), 5*time.Second)
	f.fields.byEvent[event.ID] = []*domain.Field{{ID: 1, EventID: event.ID, Title: "Company"}}
	for _, r := range activeRegs(1) {
		require.NoError(t, f.regs.Create(context.Background(), r))
	}

	detail, err := f.svc.GetEventDetail(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hall", detail.Location.Title)
	assert.Equal(t, "Org", detail.Organisator.Name)
	require.Len(t, detail.Speakers, 2)
	assert.Equal(t, "Eve", detail.Speakers[0].Name)
	require.Len(t, detail.Categories, 1)
	assert.Len(t, detail.Fields, 1)
	assert.Equal(t, 1, detail.FreePlaces)
	assert.True(t, detail.RegistrationPossible)
}

func TestGetEventDetail_FullEventWithoutWaitlist(t *testing.T) {
	event := openEvent()
	event.MaxParticipants = 1
	f := newEventFixture(event)
	for _, r := range activeRegs(1) {
		require.NoError(t, f.regs.Create(context.Background(), r))
	}

	detail, err := f.svc.GetEventDetail(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, detail.FreePlaces)
	assert.False(t, detail.RegistrationPossible)
}

func TestGetEventDetail_NotVisible(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *domain.Event)
	}{
		{name: "hidden", setup: func(e *domain.Event) { e.Hidden = true }},
		{name: "not yet published", setup: func(e *domain.Event) {
			st := regNow.Add(time.Hour)
			e.StartTime = &st
		}},
		{name: "publication ended", setup: func(e *domain.Event) {
			et := regNow
			e.EndTime = &et
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := openEvent()
			tt.setup(event)
			f := newEventFixture(event)

			_, err := f.svc.GetEventDetail(context.Background(), event.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestCreateEvent(t *testing.T) {
	f := newEventFixture()
	event := domain.NewEvent(1, "  Go Meetup ", regNow.Add(time.Hour), time.Time{}, time.Time{})
	event.CategoryIDs = nil

	require.NoError(t, f.svc.CreateEvent(context.Background(), event))
	assert.Equal(t, int64(1), event.ID)
	assert.Equal(t, "Go Meetup", event.Title)
	assert.Equal(t, regNow, event.CreatedAt)
	assert.NotNil(t, event.CategoryIDs)
}

func TestCreateEvent_Validation(t *testing.T) {
	f := newEventFixture()
	end := regNow.Add(-time.Hour)
	event := &domain.Event{StartDate: regNow, EndDate: &end, MaxParticipants: -1, Price: -1}

	err := f.svc.CreateEvent(context.Background(), event)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"title is required",
		"enddate must not be before startdate",
		"max_participants must not be negative",
		"max_registrations_per_user must be at least 1",
		"price must not be negative",
	}, verr.Messages)
	assert.Empty(t, f.events.byID)
}

func TestUpdateEvent(t *testing.T) {
	existing := openEvent()
	f := newEventFixture(existing)

	update := openEvent()
	update.Title = "Renamed"
	update.CreatedAt = time.Time{}
	require.NoError(t, f.svc.UpdateEvent(context.Background(), update))
	assert.Equal(t, "Renamed", f.events.byID[existing.ID].Title)
	assert.Equal(t, existing.CreatedAt, update.CreatedAt)

	missing := openEvent()
	missing.ID = 99
	assert.ErrorIs(t, f.svc.UpdateEvent(context.Background(), missing), domain.ErrNotFound)
}

func TestDeleteEvent(t *testing.T) {
	f := newEventFixture(openEvent())

	require.NoError(t, f.svc.DeleteEvent(context.Background(), 10))
	assert.ErrorIs(t, f.svc.DeleteEvent(context.Background(), 10), domain.ErrNotFound)
}

func TestGetEvent_IgnoresVisibility(t *testing.T) {
	event := openEvent()
	event.Hidden = true
	f := newEventFixture(event)

	got, err := f.svc.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.True(t, got.Hidden)

	_, err = f.svc.GetEvent(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
