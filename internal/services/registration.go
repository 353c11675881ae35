package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventmgt/internal/clock"
	"eventmgt/internal/domain"
)

type registrationService struct {
	eventRepo          domain.EventRepository
	registrationRepo   domain.RegistrationRepository
	fieldRepo          domain.FieldRepository
	tokens             domain.RegistrationTokens
	dispatcher         domain.NotificationDispatcher
	clock              clock.Clock
	confirmationWindow time.Duration
	logger             *slog.Logger
	contextTimeout     time.Duration
}

// NewRegistrationService creates the registration workflow. Unconfirmed
// registrations must be confirmed within confirmationWindow.
func NewRegistrationService(eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	fieldRepo domain.FieldRepository,
	tokens domain.RegistrationTokens,
	dispatcher domain.NotificationDispatcher,
	clk clock.Clock,
	confirmationWindow time.Duration,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:          eventRepo,
		registrationRepo:   registrationRepo,
		fieldRepo:          fieldRepo,
		tokens:             tokens,
		dispatcher:         dispatcher,
		clock:              clk,
		confirmationWindow: confirmationWindow,
		logger:             logger,
		contextTimeout:     timeout,
	}
}

// CheckRegistration applies the registration rules of event to reg in order
// and returns the first failing result, ok_waitlist when only the waitlist
// has room, or ok.
func (s *registrationService) CheckRegistration(ctx context.Context, event *domain.Event, reg *domain.Registration) (domain.RegistrationResult, error) {
	now := s.clock.Now()
	if !event.EnableRegistration {
		return domain.RegistrationResultNotEnabled, nil
	}
	if event.RegistrationDeadline != nil && now.After(*event.RegistrationDeadline) {
		return domain.RegistrationResultDeadlinePassed, nil
	}
	if event.StartDate.Before(now) {
		return domain.RegistrationResultEventExpired, nil
	}
	amount := reg.AmountOfRegistrations
	if amount < 1 {
		return domain.RegistrationResultInvalidAmount, nil
	}

	registered, err := s.registrationRepo.CountActive(ctx, event.ID)
	if err != nil {
		return "", fmt.Errorf("count registrations: %w", err)
	}
	limited := event.MaxParticipants > 0
	free := event.FreePlaces(registered)
	if limited && free == 0 && !event.EnableWaitlist {
		return domain.RegistrationResultMaxParticipants, nil
	}
	if limited && free < amount && !event.EnableWaitlist {
		return domain.RegistrationResultNotEnoughFreePlaces, nil
	}
	if amount > event.MaxRegistrationsPerUser {
		return domain.RegistrationResultMaxAmountExceeded, nil
	}
	if event.UniqueEmailCheck {
		n, err := s.registrationRepo.CountByEmail(ctx, event.ID, reg.Email)
		if err != nil {
			return "", fmt.Errorf("count registrations by email: %w", err)
		}
		if n > 0 {
			return domain.RegistrationResultEmailNotUnique, nil
		}
	}
	if limited && free < amount {
		return domain.RegistrationResultOKWaitlist, nil
	}
	return domain.RegistrationResultOK, nil
}

func (s *registrationService) Register(ctx context.Context, eventID int64, input *domain.RegistrationInput) (*domain.RegistrationOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if input == nil || input.Registration == nil {
		return nil, &domain.ValidationError{Messages: []string{"registration is required"}}
	}
	now := s.clock.Now()
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.Visible(now) {
		return nil, domain.ErrNotFound
	}
	fields, err := s.fieldRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}

	reg := input.Registration
	if reg.AmountOfRegistrations == 0 {
		reg.AmountOfRegistrations = 1
	}
	values, err := validateRegistration(reg, fields, input.FieldValues)
	if err != nil {
		return nil, err
	}

	result, err := s.CheckRegistration(ctx, event, reg)
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, &domain.RegistrationRejectedError{Result: result}
	}

	reg.ID = 0
	reg.EventID = event.ID
	reg.MainRegistrationID = nil
	reg.Confirmed = event.EnableAutoconfirm
	reg.Hidden = false
	reg.Paid = false
	reg.ConfirmationUntil = nil
	if !reg.Confirmed {
		until := now.Add(s.confirmationWindow)
		reg.ConfirmationUntil = &until
	}
	reg.CreatedAt = now
	reg.UpdatedAt = now

	// Places are counted again under the event lock; a concurrent registration
	// may have taken them since CheckRegistration ran.
	admit := func(active int) error {
		free := event.FreePlaces(active)
		reg.Waitlist = free >= 0 && free < reg.AmountOfRegistrations
		switch {
		case !reg.Waitlist || event.EnableWaitlist:
			return nil
		case free == 0:
			return &domain.RegistrationRejectedError{Result: domain.RegistrationResultMaxParticipants}
		default:
			return &domain.RegistrationRejectedError{Result: domain.RegistrationResultNotEnoughFreePlaces}
		}
	}
	if err := s.registrationRepo.CreateWithDependents(ctx, reg, values, admit); err != nil {
		var rejected *domain.RegistrationRejectedError
		if errors.As(err, &rejected) {
			return nil, err
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	if len(values) > 0 {
		reg.FieldValues = values
	}
	result = domain.RegistrationResultOK
	if reg.Waitlist {
		result = domain.RegistrationResultOKWaitlist
	}

	outcome := &domain.RegistrationOutcome{Registration: reg, Result: result}
	if !reg.Confirmed {
		if outcome.ConfirmationToken, err = s.tokens.Issue(reg.ID, domain.TokenPurposeConfirm, *reg.ConfirmationUntil); err != nil {
			return nil, err
		}
	}
	if outcome.CancelToken, err = s.cancelToken(event, reg); err != nil {
		return nil, err
	}

	msgType := domain.MessageRegistrationNew
	switch {
	case reg.Confirmed && reg.Waitlist:
		msgType = domain.MessageRegistrationWaitlistConfirmed
	case reg.Confirmed:
		msgType = domain.MessageRegistrationConfirmed
	case reg.Waitlist:
		msgType = domain.MessageRegistrationWaitlistNew
	}
	s.notify(ctx, event, &domain.Notification{
		Type:              msgType,
		EventID:           event.ID,
		RegistrationID:    reg.ID,
		ConfirmationToken: outcome.ConfirmationToken,
		CancelToken:       outcome.CancelToken,
	})
	return outcome, nil
}

// cancelToken issues a cancel token when the event allows cancellation. The
// token expires at the cancel deadline or, without one, at the event start.
func (s *registrationService) cancelToken(event *domain.Event, reg *domain.Registration) (string, error) {
	if !event.EnableCancel {
		return "", nil
	}
	expires := event.StartDate
	if event.CancelDeadline != nil {
		expires = *event.CancelDeadline
	}
	return s.tokens.Issue(reg.ID, domain.TokenPurposeCancel, expires)
}

func (s *registrationService) Confirm(ctx context.Context, token string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id, err := s.tokens.Verify(token, domain.TokenPurposeConfirm)
	if err != nil {
		return nil, err
	}
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.Hidden {
		return nil, domain.ErrNotFound
	}
	if reg.Confirmed {
		return reg, nil
	}
	now := s.clock.Now()
	if reg.ConfirmationUntil != nil && now.After(*reg.ConfirmationUntil) {
		return nil, domain.ErrTokenExpired
	}
	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}

	if err := s.updateWithDependents(ctx, reg, now, func(r *domain.Registration) { r.Confirmed = true }); err != nil {
		return nil, err
	}

	msgType := domain.MessageRegistrationConfirmed
	if reg.Waitlist {
		msgType = domain.MessageRegistrationWaitlistConfirmed
	}
	cancelTok, err := s.cancelToken(event, reg)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, event, &domain.Notification{
		Type:           msgType,
		EventID:        event.ID,
		RegistrationID: reg.ID,
		CancelToken:    cancelTok,
	})
	return reg, nil
}

func (s *registrationService) Cancel(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id, err := s.tokens.Verify(token, domain.TokenPurposeCancel)
	if err != nil {
		return err
	}
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reg.Hidden {
		return domain.ErrNotFound
	}
	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return err
	}
	if !event.CancellationPossible(s.clock.Now()) {
		return domain.ErrCancelNotAllowed
	}
	if err := s.registrationRepo.Delete(ctx, reg.ID); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	s.notify(ctx, event, &domain.Notification{
		Type:           domain.MessageRegistrationCancelled,
		EventID:        event.ID,
		RegistrationID: reg.ID,
		Registration:   reg,
	})

	if !reg.Waitlist && event.EnableWaitlist && event.EnableWaitlistMoveUp {
		if err := s.moveUpWaitlist(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "waitlist move up failed", "event_id", event.ID, "err", err)
		}
	}
	return nil
}

// moveUpWaitlist moves waitlist registrations, oldest first, into free places.
// It stops at the first registration that does not fit so the order is kept.
func (s *registrationService) moveUpWaitlist(ctx context.Context, event *domain.Event) error {
	registered, err := s.registrationRepo.CountActive(ctx, event.ID)
	if err != nil {
		return err
	}
	free := event.FreePlaces(registered)
	waitlist, err := s.registrationRepo.ListWaitlist(ctx, event.ID)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	for _, reg := range waitlist {
		if free == 0 || (free > 0 && reg.AmountOfRegistrations > free) {
			return nil
		}
		if err := s.updateWithDependents(ctx, reg, now, func(r *domain.Registration) { r.Waitlist = false }); err != nil {
			return err
		}
		if free > 0 {
			free -= reg.AmountOfRegistrations
		}
		s.notify(ctx, event, &domain.Notification{
			Type:           domain.MessageRegistrationWaitlistMoveUp,
			EventID:        event.ID,
			RegistrationID: reg.ID,
		})
	}
	return nil
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.registrationRepo.ListByEventID(ctx, eventID)
}

// CleanupExpired hides, or with remove deletes, unconfirmed registrations
// whose confirmation window has passed, including their dependents.
func (s *registrationService) CleanupExpired(ctx context.Context, remove bool) (*domain.CleanupResult, error) {
	now := s.clock.Now()
	expired, err := s.registrationRepo.ListExpiredUnconfirmed(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list expired registrations: %w", err)
	}
	res := &domain.CleanupResult{Deleted: remove}
	for _, reg := range expired {
		if remove {
			err = s.registrationRepo.Delete(ctx, reg.ID)
			if errors.Is(err, domain.ErrNotFound) {
				err = nil
			}
		} else {
			err = s.updateWithDependents(ctx, reg, now, func(r *domain.Registration) { r.Hidden = true })
		}
		if err != nil {
			return res, fmt.Errorf("cleanup registration %d: %w", reg.ID, err)
		}
		res.Processed++
	}
	return res, nil
}

// updateWithDependents applies change to reg and its dependent registrations and stores them.
func (s *registrationService) updateWithDependents(ctx context.Context, reg *domain.Registration, now time.Time, change func(*domain.Registration)) error {
	deps, err := s.registrationRepo.ListDependent(ctx, reg.ID)
	if err != nil {
		return fmt.Errorf("list dependent registrations: %w", err)
	}
	for _, r := range append([]*domain.Registration{reg}, deps...) {
		change(r)
		r.UpdatedAt = now
		if err := s.registrationRepo.Update(ctx, r); err != nil {
			return fmt.Errorf("update registration %d: %w", r.ID, err)
		}
	}
	return nil
}

// notify dispatches n to the participant and, when enabled for the event, to
// the admin and the organisator. Failures are logged; the workflow step has
// already been stored.
func (s *registrationService) notify(ctx context.Context, event *domain.Event, n *domain.Notification) {
	recipients := []domain.Recipient{domain.RecipientUser}
	if event.NotifyAdmin {
		recipients = append(recipients, domain.RecipientAdmin)
	}
	if event.NotifyOrganisator && event.OrganisatorID != nil {
		recipients = append(recipients, domain.RecipientOrganisator)
	}
	for _, rcpt := range recipients {
		msg := *n
		msg.Recipient = rcpt
		if rcpt != domain.RecipientUser {
			msg.ConfirmationToken = ""
			msg.CancelToken = ""
		}
		if err := s.dispatcher.Dispatch(ctx, &msg); err != nil {
			s.logger.ErrorContext(ctx, "failed to dispatch notification",
				"type", msg.Type, "recipient", rcpt, "registration_id", msg.RegistrationID, "err", err)
		}
	}
}

// validateRegistration checks the participant data and the event form fields
// and converts the submitted field values for storage.
func validateRegistration(reg *domain.Registration, fields []*domain.Field, submitted map[int64]any) ([]*domain.FieldValue, error) {
	var msgs []string
	reg.Firstname = strings.TrimSpace(reg.Firstname)
	reg.Lastname = strings.TrimSpace(reg.Lastname)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Firstname == "" {
		msgs = append(msgs, "firstname is required")
	}
	if reg.Lastname == "" {
		msgs = append(msgs, "lastname is required")
	}
	if !emailRegexp.MatchString(reg.Email) {
		msgs = append(msgs, "invalid email format")
	}

	var values []*domain.FieldValue
	for _, f := range fields {
		if f.Type == domain.FieldTypeText {
			continue
		}
		raw, ok := submitted[f.ID]
		value, valueType, err := encodeFieldValue(raw)
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("field %q: %v", f.Title, err))
			continue
		}
		if !ok || value == "" {
			if f.Required {
				msgs = append(msgs, fmt.Sprintf("field %q is required", f.Title))
			}
			continue
		}
		values = append(values, &domain.FieldValue{FieldID: f.ID, Value: value, ValueType: valueType})
	}
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}
	return values, nil
}

// encodeFieldValue stores strings as is and lists as a JSON array. Empty lists encode as "".
func encodeFieldValue(raw any) (string, string, error) {
	var list []string
	switch v := raw.(type) {
	case nil:
		return "", domain.FieldValueTypeString, nil
	case string:
		return strings.TrimSpace(v), domain.FieldValueTypeString, nil
	case []string:
		list = v
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return "", "", fmt.Errorf("unsupported value %v", item)
			}
			list = append(list, s)
		}
	default:
		return "", "", fmt.Errorf("unsupported value %v", raw)
	}
	if len(list) == 0 {
		return "", domain.FieldValueTypeArray, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", "", err
	}
	return string(b), domain.FieldValueTypeArray, nil
}
