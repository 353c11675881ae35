package domain

import (
	"context"
	"time"
)

// Registration represents a participant's registration for an event.
// Registrations for more than one person create one main registration and
// dependent registrations that reference it through MainRegistrationID.
// swagger:model Registration
type Registration struct {
	ID                    int64      `json:"id"`
	EventID               int64      `json:"event_id"`
	MainRegistrationID    *int64     `json:"main_registration_id,omitempty"`
	Firstname             string     `json:"firstname"`
	Lastname              string     `json:"lastname"`
	Email                 string     `json:"email"`
	Company               string     `json:"company"`
	Address               string     `json:"address"`
	Zip                   string     `json:"zip"`
	City                  string     `json:"city"`
	Country               string     `json:"country"`
	Phone                 string     `json:"phone"`
	Gender                string     `json:"gender"`
	DateOfBirth           *time.Time `json:"date_of_birth,omitempty"`
	AcceptTC              bool       `json:"accept_tc"`
	Notes                 string     `json:"notes"`
	Confirmed             bool       `json:"confirmed"`
	Paid                  bool       `json:"paid"`
	Waitlist              bool       `json:"waitlist"`
	Hidden                bool       `json:"hidden"`
	AmountOfRegistrations int        `json:"amount_of_registrations"`
	ConfirmationUntil     *time.Time `json:"confirmation_until,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	FieldValues []*FieldValue `json:"field_values"`
}

// NewRegistration creates a new Registration. ID is typically set by the repository on create.
func NewRegistration(eventID int64, firstname, lastname, email string, createdAt, updatedAt time.Time) *Registration {
	return &Registration{
		EventID:               eventID,
		Firstname:             firstname,
		Lastname:              lastname,
		Email:                 email,
		AmountOfRegistrations: 1,
		CreatedAt:             createdAt,
		UpdatedAt:             updatedAt,
	}
}

// FullName returns "firstname lastname".
func (r *Registration) FullName() string {
	switch {
	case r.Firstname == "":
		return r.Lastname
	case r.Lastname == "":
		return r.Firstname
	default:
		return r.Firstname + " " + r.Lastname
	}
}

// RegistrationResult is the outcome of the registration checks.
type RegistrationResult string

const (
	RegistrationResultOK                  RegistrationResult = "ok"
	RegistrationResultOKWaitlist          RegistrationResult = "ok_waitlist"
	RegistrationResultNotEnabled          RegistrationResult = "registration_not_enabled"
	RegistrationResultDeadlinePassed      RegistrationResult = "deadline_passed"
	RegistrationResultEventExpired        RegistrationResult = "event_expired"
	RegistrationResultMaxParticipants     RegistrationResult = "max_participants_reached"
	RegistrationResultNotEnoughFreePlaces RegistrationResult = "not_enough_free_places"
	RegistrationResultMaxAmountExceeded   RegistrationResult = "max_amount_exceeded"
	RegistrationResultEmailNotUnique      RegistrationResult = "email_not_unique"
	RegistrationResultInvalidAmount       RegistrationResult = "invalid_amount"
)

// Success reports whether the result allows the registration to be stored.
func (r RegistrationResult) Success() bool {
	return r == RegistrationResultOK || r == RegistrationResultOKWaitlist
}

// RegistrationRejectedError is returned when the registration checks fail.
type RegistrationRejectedError struct {
	Result RegistrationResult
}

func (e *RegistrationRejectedError) Error() string {
	return "registration rejected: " + string(e.Result)
}

// RegistrationInput is the data submitted with a registration form.
type RegistrationInput struct {
	Registration *Registration
	// FieldValues maps field id to the submitted value: a string, or a list of strings for multi-value fields.
	FieldValues map[int64]any
}

// RegistrationOutcome is the result of a successful registration.
type RegistrationOutcome struct {
	Registration *Registration       `json:"registration"`
	Result       RegistrationResult `json:"result"`
	// ConfirmationToken is empty when the registration was confirmed automatically.
	ConfirmationToken string `json:"-"`
	CancelToken       string `json:"-"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// CreateWithDependents stores reg, values and AmountOfRegistrations-1
	// dependent registrations atomically. admit receives the active count of
	// the event under a lock and aborts the write by returning an error.
	CreateWithDependents(ctx context.Context, reg *Registration, values []*FieldValue, admit func(active int) error) error
	Update(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id int64) (*Registration, error)
	// Delete removes the registration and its dependent registrations.
	Delete(ctx context.Context, id int64) error
	ListByEventID(ctx context.Context, eventID int64) ([]*Registration, error)
	ListDependent(ctx context.Context, mainID int64) ([]*Registration, error)
	// CountActive counts visible, non-waitlist registrations of an event.
	CountActive(ctx context.Context, eventID int64) (int, error)
	CountByEmail(ctx context.Context, eventID int64, email string) (int, error)
	// ListWaitlist returns visible waitlist main registrations of an event, oldest first.
	ListWaitlist(ctx context.Context, eventID int64) ([]*Registration, error)
	// ListExpiredUnconfirmed returns unconfirmed, visible main registrations whose confirmation window ended before now.
	ListExpiredUnconfirmed(ctx context.Context, now time.Time) ([]*Registration, error)
	ListFieldValues(ctx context.Context, registrationID int64) ([]*FieldValue, error)
}

// RegistrationTokens issues and verifies the tokens used in confirmation and cancel links.
type RegistrationTokens interface {
	Issue(registrationID int64, purpose string, expiresAt time.Time) (string, error)
	// Verify returns the registration id for a valid token issued for purpose.
	Verify(token, purpose string) (int64, error)
}

// Token purposes.
const (
	TokenPurposeConfirm = "confirm"
	TokenPurposeCancel  = "cancel"
)

// CleanupResult summarizes a cleanup run.
type CleanupResult struct {
	Processed int  `json:"processed"`
	Deleted   bool `json:"deleted"`
}

// RegistrationService defines the registration workflow.
type RegistrationService interface {
	CheckRegistration(ctx context.Context, event *Event, reg *Registration) (RegistrationResult, error)
	Register(ctx context.Context, eventID int64, input *RegistrationInput) (*RegistrationOutcome, error)
	Confirm(ctx context.Context, token string) (*Registration, error)
	Cancel(ctx context.Context, token string) error
	ListByEvent(ctx context.Context, eventID int64) ([]*Registration, error)
	CleanupExpired(ctx context.Context, remove bool) (*CleanupResult, error)
}
