package domain

import "context"

// EmailMessage is one outgoing email; either body may be empty.
type EmailMessage struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// MessageType identifies a registration notification.
type MessageType string

const (
	MessageRegistrationNew               MessageType = "registration_new"
	MessageRegistrationWaitlistNew       MessageType = "registration_waitlist_new"
	MessageRegistrationConfirmed         MessageType = "registration_confirmed"
	MessageRegistrationWaitlistConfirmed MessageType = "registration_waitlist_confirmed"
	MessageRegistrationCancelled         MessageType = "registration_cancelled"
	MessageRegistrationWaitlistMoveUp    MessageType = "registration_waitlist_moveup"
)

// Recipient selects who receives a notification.
type Recipient string

const (
	RecipientUser        Recipient = "user"
	RecipientAdmin       Recipient = "admin"
	RecipientOrganisator Recipient = "organisator"
)

// Notification is a single registration message job.
type Notification struct {
	Type           MessageType `json:"type"`
	Recipient      Recipient   `json:"recipient"`
	EventID        int64       `json:"event_id"`
	RegistrationID int64       `json:"registration_id"`
	// Tokens are optional and rendered as confirmation and cancel links.
	ConfirmationToken string `json:"confirmation_token,omitempty"`
	CancelToken       string `json:"cancel_token,omitempty"`
	// Registration carries a snapshot for messages about deleted registrations.
	Registration *Registration `json:"registration,omitempty"`
}

// NotificationEmailData is the template data for registration messages.
type NotificationEmailData struct {
	Event             *Event
	Registration      *Registration
	Location          *Location
	Organisator       *Organisator
	ConfirmationToken string
	CancelToken       string
	Recipient         Recipient
}

// CustomNotification is a free text message sent to the participants of an event.
type CustomNotification struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	// IncludeUnconfirmed also addresses registrations that are not confirmed yet.
	IncludeUnconfirmed bool `json:"include_unconfirmed"`
}

// CustomNotificationEmailData is the template data for custom notifications.
type CustomNotificationEmailData struct {
	Event        *Event
	Registration *Registration
	Subject      string
	Body         string
}

// NotificationDispatcher hands notifications to a transport; implementations may deliver them later.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n *Notification) error
}

// NotificationService renders and sends registration messages.
type NotificationService interface {
	// Deliver sends a single notification synchronously.
	Deliver(ctx context.Context, n *Notification) error
	// SendCustom sends a custom message to all matching participants and returns the number of sent messages.
	SendCustom(ctx context.Context, eventID int64, msg *CustomNotification) (int, error)
}
