package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"eventmgt/internal/domain"
)

const customNotificationTemplate = "custom_notification"

type notificationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	locationRepo     domain.LocationRepository
	organisatorRepo  domain.OrganisatorRepository
	renderer         domain.EmailTemplateRenderer
	mailer           domain.Mailer
	adminAddress     string
	logger           *slog.Logger
}

// NewNotificationService renders registration messages and sends them through mailer.
// Admin messages go to adminAddress and are skipped when it is empty.
func NewNotificationService(eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	locationRepo domain.LocationRepository,
	organisatorRepo domain.OrganisatorRepository,
	renderer domain.EmailTemplateRenderer,
	mailer domain.Mailer,
	adminAddress string,
	logger *slog.Logger,
) domain.NotificationService {
	return &notificationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		locationRepo:     locationRepo,
		organisatorRepo:  organisatorRepo,
		renderer:         renderer,
		mailer:           mailer,
		adminAddress:     adminAddress,
		logger:           logger,
	}
}

// templateName maps a notification to its template; organisators get the admin variant.
func templateName(n *domain.Notification) string {
	if n.Recipient == domain.RecipientUser {
		return string(n.Type) + "_user"
	}
	return string(n.Type) + "_admin"
}

func (s *notificationService) Deliver(ctx context.Context, n *domain.Notification) error {
	event, err := s.eventRepo.GetByID(ctx, n.EventID)
	if err != nil {
		return fmt.Errorf("get event %d: %w", n.EventID, err)
	}
	reg := n.Registration
	if reg == nil {
		reg, err = s.registrationRepo.GetByID(ctx, n.RegistrationID)
		if err != nil {
			return fmt.Errorf("get registration %d: %w", n.RegistrationID, err)
		}
	}

	data := &domain.NotificationEmailData{
		Event:             event,
		Registration:      reg,
		ConfirmationToken: n.ConfirmationToken,
		CancelToken:       n.CancelToken,
		Recipient:         n.Recipient,
	}
	if event.LocationID != nil {
		if data.Location, err = s.locationRepo.GetByID(ctx, *event.LocationID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get location: %w", err)
		}
	}
	if event.OrganisatorID != nil {
		if data.Organisator, err = s.organisatorRepo.GetByID(ctx, *event.OrganisatorID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get organisator: %w", err)
		}
	}

	// Participants reply to the organisator; admins and organisators reply to the participant.
	var to, replyTo string
	switch n.Recipient {
	case domain.RecipientUser:
		to = reg.Email
		if data.Organisator != nil {
			replyTo = data.Organisator.Email
		}
	case domain.RecipientAdmin:
		to, replyTo = s.adminAddress, reg.Email
	case domain.RecipientOrganisator:
		if data.Organisator != nil {
			to = data.Organisator.Email
		}
		replyTo = reg.Email
	default:
		return fmt.Errorf("unknown recipient %q", n.Recipient)
	}
	if to == "" {
		s.logger.DebugContext(ctx, "skipping notification without recipient address", "type", n.Type, "recipient", n.Recipient, "registration_id", reg.ID)
		return nil
	}

	name := templateName(n)
	subject, htmlBody, textBody, err := s.renderer.Render(name, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", name, err)
	}
	msg := &domain.EmailMessage{To: to, ReplyTo: replyTo, Subject: subject, HTML: htmlBody, Text: textBody}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s email: %w", name, err)
	}
	s.logger.InfoContext(ctx, "notification sent", "type", n.Type, "recipient", n.Recipient, "registration_id", reg.ID)
	return nil
}

// SendCustom mails msg to each main registration of the event. Waitlist and
// hidden registrations are skipped; unconfirmed ones only when requested.
// Send failures do not stop the run and are returned joined.
func (s *notificationService) SendCustom(ctx context.Context, eventID int64, msg *domain.CustomNotification) (int, error) {
	var msgs []string
	if msg == nil || strings.TrimSpace(msg.Subject) == "" {
		msgs = append(msgs, "subject is required")
	}
	if msg == nil || strings.TrimSpace(msg.Body) == "" {
		msgs = append(msgs, "body is required")
	}
	if len(msgs) > 0 {
		return 0, &domain.ValidationError{Messages: msgs}
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	regs, err := s.registrationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("list registrations: %w", err)
	}

	sent := 0
	var errs []error
	for _, reg := range regs {
		if reg.MainRegistrationID != nil || reg.Hidden || reg.Waitlist {
			continue
		}
		if !reg.Confirmed && !msg.IncludeUnconfirmed {
			continue
		}
		subject, htmlBody, textBody, err := s.renderer.Render(customNotificationTemplate, &domain.CustomNotificationEmailData{
			Event:        event,
			Registration: reg,
			Subject:      msg.Subject,
			Body:         msg.Body,
		})
		if err != nil {
			return sent, fmt.Errorf("failed to render %s template: %w", customNotificationTemplate, err)
		}
		if err := s.mailer.Send(ctx, &domain.EmailMessage{To: reg.Email, Subject: subject, HTML: htmlBody, Text: textBody}); err != nil {
			errs = append(errs, fmt.Errorf("registration %d: %w", reg.ID, err))
			continue
		}
		sent++
	}
	s.logger.InfoContext(ctx, "custom notification sent", "event_id", eventID, "sent", sent, "failed", len(errs))
	return sent, errors.Join(errs...)
}
