package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmgt/internal/delivery/http/helpers"
	"eventmgt/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// decodeEnvelope decodes the response envelope and unmarshals data into dest when dest is non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type fakeEventService struct {
	page       *domain.EventPage
	detail     *domain.EventDetail
	event      *domain.Event
	listErr    error
	detailErr  error
	getErr     error
	createErr  error
	updateErr  error
	deleteErr  error
	lastDemand *domain.EventDemand
	lastPage   domain.PaginationParams
	lastID     int64
	lastCreate *domain.Event
	lastUpdate *domain.Event
}

func (f *fakeEventService) ListEvents(ctx context.Context, demand *domain.EventDemand, page domain.PaginationParams) (*domain.EventPage, error) {
	f.lastDemand = demand
	f.lastPage = page
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.page, nil
}

func (f *fakeEventService) GetEventDetail(ctx context.Context, id int64) (*domain.EventDetail, error) {
	f.lastID = id
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	f.lastID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	e := *f.event
	return &e, nil
}

func (f *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	f.lastCreate = event
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = 42
	return nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, event *domain.Event) error {
	f.lastUpdate = event
	return f.updateErr
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id int64) error {
	f.lastID = id
	return f.deleteErr
}

type fakeFormService struct {
	err           error
	lastEventID   int64
	lastSubmitted map[int64]any
}

func (f *fakeFormService) BuildForm(ctx context.Context, eventID int64, submitted map[int64]any) (*domain.RegistrationForm, error) {
	f.lastEventID = eventID
	f.lastSubmitted = submitted
	if f.err != nil {
		return nil, f.err
	}
	form := &domain.RegistrationForm{EventID: eventID}
	for id, v := range submitted {
		s, _ := v.(string)
		form.Fields = append(form.Fields, &domain.PrefilledField{Field: &domain.Field{ID: id}, Value: s})
	}
	return form, nil
}

type fakeRegistrationService struct {
	outcome     *domain.RegistrationOutcome
	confirmed   *domain.Registration
	list        []*domain.Registration
	registerErr error
	confirmErr  error
	cancelErr   error
	listErr     error
	lastEventID int64
	lastInput   *domain.RegistrationInput
	lastToken   string
}

func (f *fakeRegistrationService) CheckRegistration(ctx context.Context, event *domain.Event, reg *domain.Registration) (domain.RegistrationResult, error) {
	return domain.RegistrationResultOK, nil
}

func (f *fakeRegistrationService) Register(ctx context.Context, eventID int64, input *domain.RegistrationInput) (*domain.RegistrationOutcome, error) {
	f.lastEventID = eventID
	f.lastInput = input
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.outcome, nil
}

func (f *fakeRegistrationService) Confirm(ctx context.Context, token string) (*domain.Registration, error) {
	f.lastToken = token
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return f.confirmed, nil
}

func (f *fakeRegistrationService) Cancel(ctx context.Context, token string) error {
	f.lastToken = token
	return f.cancelErr
}

func (f *fakeRegistrationService) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	f.lastEventID = eventID
	return f.list, f.listErr
}

func (f *fakeRegistrationService) CleanupExpired(ctx context.Context, remove bool) (*domain.CleanupResult, error) {
	return &domain.CleanupResult{Deleted: remove}, nil
}

type fakeNotificationService struct {
	sent        int
	err         error
	lastEventID int64
	lastMsg     *domain.CustomNotification
}

func (f *fakeNotificationService) Deliver(ctx context.Context, n *domain.Notification) error {
	return nil
}

func (f *fakeNotificationService) SendCustom(ctx context.Context, eventID int64, msg *domain.CustomNotification) (int, error) {
	f.lastEventID = eventID
	f.lastMsg = msg
	return f.sent, f.err
}

type fakeCatalogService struct {
	locations    []*domain.Location
	speakers     []*domain.Speaker
	organisators []*domain.Organisator
	categories   []*domain.Category
	err          error
	lastDemand   domain.ForeignRecordDemand
}

func (f *fakeCatalogService) ListLocations(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Location, error) {
	f.lastDemand = d
	return f.locations, f.err
}

func (f *fakeCatalogService) ListSpeakers(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Speaker, error) {
	f.lastDemand = d
	return f.speakers, f.err
}

func (f *fakeCatalogService) ListOrganisators(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Organisator, error) {
	f.lastDemand = d
	return f.organisators, f.err
}

func (f *fakeCatalogService) ListCategories(ctx context.Context, d domain.ForeignRecordDemand) ([]*domain.Category, error) {
	f.lastDemand = d
	return f.categories, f.err
}

type fakeAuthService struct {
	token     string
	err       error
	lastEmail string
}

func (f *fakeAuthService) CreateUser(ctx context.Context, email, password, name string) (*domain.User, error) {
	return &domain.User{ID: 1, Email: email, Name: name}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	f.lastEmail = email
	return f.token, f.err
}
