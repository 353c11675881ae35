package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"eventmgt/internal/domain"
)

// PrefillValue returns the value a single-value field shows: the submitted
// string for the field, else its default value.
func PrefillValue(field *domain.Field, submitted map[int64]any) string {
	if v, ok := submitted[field.ID].(string); ok {
		return v
	}
	return field.DefaultValue
}

// OptionSelected reports whether the option value of a multi-value field is
// selected. Without a submission the field default decides. With a submission
// the submitted string must equal the value or the submitted list must
// contain it; fields missing from the submission select nothing.
func OptionSelected(field *domain.Field, value string, submitted map[int64]any) bool {
	if submitted == nil {
		return value == field.DefaultValue
	}
	switch v := submitted[field.ID].(type) {
	case string:
		return v == value
	case []string:
		return slices.Contains(v, value)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == value {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// PrefillField combines PrefillValue and OptionSelected for one field.
func PrefillField(field *domain.Field, submitted map[int64]any) *domain.PrefilledField {
	pf := &domain.PrefilledField{Field: field, Options: []domain.PrefilledOption{}}
	if !field.Type.MultiValue() {
		if field.Type != domain.FieldTypeText {
			pf.Value = PrefillValue(field, submitted)
		}
		return pf
	}
	for _, opt := range field.Options() {
		pf.Options = append(pf.Options, domain.PrefilledOption{
			FieldOption: opt,
			Selected:    OptionSelected(field, opt.Value, submitted),
		})
	}
	return pf
}

type formService struct {
	eventRepo      domain.EventRepository
	fieldRepo      domain.FieldRepository
	contextTimeout time.Duration
}

// NewFormService returns a FormService backed by the event and field repositories.
func NewFormService(eventRepo domain.EventRepository, fieldRepo domain.FieldRepository, timeout time.Duration) domain.FormService {
	return &formService{eventRepo: eventRepo, fieldRepo: fieldRepo, contextTimeout: timeout}
}

func (s *formService) BuildForm(ctx context.Context, eventID int64, submitted map[int64]any) (*domain.RegistrationForm, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.EnableRegistration {
		return nil, domain.ErrNotFound
	}
	fields, err := s.fieldRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	form := &domain.RegistrationForm{EventID: eventID, Fields: make([]*domain.PrefilledField, 0, len(fields))}
	for _, f := range fields {
		form.Fields = append(form.Fields, PrefillField(f, submitted))
	}
	return form, nil
}
