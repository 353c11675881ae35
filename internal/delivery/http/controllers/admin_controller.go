package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventmgt/internal/delivery/http/helpers"
	"eventmgt/internal/delivery/http/middleware"
	"eventmgt/internal/domain"
)

// EventRequest is the request body for POST /admin/events and PATCH /admin/events/{eventID}.
// On PATCH omitted fields are unchanged; on POST title and startdate are required.
type EventRequest struct {
	StoragePage *int64  `json:"pid"`
	Title       *string `json:"title"`
	Teaser      *string `json:"teaser"`
	Description *string `json:"description"`
	Program     *string `json:"program"`
	Link        *string `json:"link"`
	TopEvent    *bool   `json:"top_event"`

	StartDate *time.Time `json:"startdate"`
	EndDate   *time.Time `json:"enddate"`
	Hidden    *bool      `json:"hidden"`
	StartTime *time.Time `json:"starttime"`
	EndTime   *time.Time `json:"endtime"`

	EnableRegistration      *bool      `json:"enable_registration"`
	RegistrationDeadline    *time.Time `json:"registration_deadline"`
	MaxParticipants         *int       `json:"max_participants"`
	MaxRegistrationsPerUser *int       `json:"max_registrations_per_user"`
	EnableWaitlist          *bool      `json:"enable_waitlist"`
	EnableWaitlistMoveUp    *bool      `json:"enable_waitlist_moveup"`
	EnableCancel            *bool      `json:"enable_cancel"`
	CancelDeadline          *time.Time `json:"cancel_deadline"`
	EnableAutoconfirm       *bool      `json:"enable_autoconfirm"`
	UniqueEmailCheck        *bool      `json:"unique_email_check"`
	NotifyAdmin             *bool      `json:"notify_admin"`
	NotifyOrganisator       *bool      `json:"notify_organisator"`

	Price    *float64 `json:"price"`
	Currency *string  `json:"currency"`

	LocationID    *int64   `json:"location_id"`
	OrganisatorID *int64   `json:"organisator_id"`
	CategoryIDs   *[]int64 `json:"category_ids"`
	SpeakerIDs    *[]int64 `json:"speaker_ids"`
}

// Validate implements Validator. Domain rules (dates, limits, price) are checked by the service.
func (req EventRequest) Validate() []string {
	var errs []string
	if req.Currency != nil && *req.Currency != "" && len(strings.TrimSpace(*req.Currency)) != 3 {
		errs = append(errs, "currency must be a 3-letter code")
	}
	if req.LocationID != nil && *req.LocationID < 1 {
		errs = append(errs, "location_id must be a positive integer")
	}
	if req.OrganisatorID != nil && *req.OrganisatorID < 1 {
		errs = append(errs, "organisator_id must be a positive integer")
	}
	if req.CategoryIDs != nil && !allPositive(*req.CategoryIDs) {
		errs = append(errs, "category_ids must be positive integers")
	}
	if req.SpeakerIDs != nil && !allPositive(*req.SpeakerIDs) {
		errs = append(errs, "speaker_ids must be positive integers")
	}
	return errs
}

func allPositive(ids []int64) bool {
	for _, id := range ids {
		if id < 1 {
			return false
		}
	}
	return true
}

// applyTo copies the set fields of req onto e.
func (req EventRequest) applyTo(e *domain.Event) {
	setIf(&e.StoragePage, req.StoragePage)
	setIf(&e.Title, req.Title)
	setIf(&e.Teaser, req.Teaser)
	setIf(&e.Description, req.Description)
	setIf(&e.Program, req.Program)
	setIf(&e.Link, req.Link)
	setIf(&e.TopEvent, req.TopEvent)
	setIf(&e.StartDate, req.StartDate)
	setIf(&e.Hidden, req.Hidden)
	setIf(&e.EnableRegistration, req.EnableRegistration)
	setIf(&e.MaxParticipants, req.MaxParticipants)
	setIf(&e.MaxRegistrationsPerUser, req.MaxRegistrationsPerUser)
	setIf(&e.EnableWaitlist, req.EnableWaitlist)
	setIf(&e.EnableWaitlistMoveUp, req.EnableWaitlistMoveUp)
	setIf(&e.EnableCancel, req.EnableCancel)
	setIf(&e.EnableAutoconfirm, req.EnableAutoconfirm)
	setIf(&e.UniqueEmailCheck, req.UniqueEmailCheck)
	setIf(&e.NotifyAdmin, req.NotifyAdmin)
	setIf(&e.NotifyOrganisator, req.NotifyOrganisator)
	setIf(&e.Price, req.Price)
	setIf(&e.CategoryIDs, req.CategoryIDs)
	setIf(&e.SpeakerIDs, req.SpeakerIDs)
	if req.Currency != nil {
		e.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.EndDate != nil {
		e.EndDate = req.EndDate
	}
	if req.StartTime != nil {
		e.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		e.EndTime = req.EndTime
	}
	if req.RegistrationDeadline != nil {
		e.RegistrationDeadline = req.RegistrationDeadline
	}
	if req.CancelDeadline != nil {
		e.CancelDeadline = req.CancelDeadline
	}
	if req.LocationID != nil {
		e.LocationID = req.LocationID
	}
	if req.OrganisatorID != nil {
		e.OrganisatorID = req.OrganisatorID
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// CustomNotificationRequest is the request body for POST /admin/events/{eventID}/notifications.
type CustomNotificationRequest struct {
	Subject            string `json:"subject"`
	Body               string `json:"body"`
	IncludeUnconfirmed bool   `json:"include_unconfirmed"`
}

// Validate implements Validator.
func (req CustomNotificationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Subject) == "" {
		errs = append(errs, "subject is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		errs = append(errs, "body is required")
	}
	return errs
}

// CustomNotificationResponse is the data payload for POST /admin/events/{eventID}/notifications (200).
type CustomNotificationResponse struct {
	Sent int `json:"sent"`
}

// DeleteEventResponse is the data payload for DELETE /admin/events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// AdminController serves the authenticated event administration endpoints.
type AdminController struct {
	Logger        *slog.Logger
	Events        domain.EventService
	Registrations domain.RegistrationService
	Notifications domain.NotificationService
}

func NewAdminController(logger *slog.Logger, events domain.EventService, registrations domain.RegistrationService, notifications domain.NotificationService) *AdminController {
	return &AdminController{
		Logger:        logger,
		Events:        events,
		Registrations: registrations,
		Notifications: notifications,
	}
}

func (c *AdminController) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return userID, ok
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event. title and startdate are required; id and timestamps are server-generated.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [post]
func (c *AdminController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := c.requireUser(w, r)
	if !ok {
		return
	}
	event := domain.NewEvent(0, "", time.Time{}, time.Time{}, time.Time{})
	req.applyTo(event)
	if err := c.Events.CreateEvent(r.Context(), event); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "event created", "event_id", event.ID, "user_id", userID)
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially updates an event; omitted fields are unchanged.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param event body EventRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [patch]
func (c *AdminController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := c.requireUser(w, r)
	if !ok {
		return
	}
	event, err := c.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	req.applyTo(event)
	if err := c.Events.UpdateEvent(r.Context(), event); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "event updated", "event_id", event.ID, "user_id", userID)
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes an event together with its registrations and registration fields.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data.status is deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [delete]
func (c *AdminController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := c.requireUser(w, r)
	if !ok {
		return
	}
	if err := c.Events.DeleteEvent(r.Context(), eventID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "event deleted", "event_id", eventID, "user_id", userID)
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// ListRegistrations godoc
// @Summary List the registrations of an event
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the registrations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/registrations [get]
func (c *AdminController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	if _, ok := c.requireUser(w, r); !ok {
		return
	}
	list, err := c.Registrations.ListByEvent(r.Context(), eventID)
	writeList(w, r, c.Logger, list, err)
}

// SendNotification godoc
// @Summary Send a custom notification
// @Description Sends a free text message to the confirmed participants of an event, optionally including unconfirmed ones. Returns the number of sent messages.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body CustomNotificationRequest true "Message"
// @Success 200 {object} helpers.APIResponse "data.sent is the number of sent messages"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/notifications [post]
func (c *AdminController) SendNotification(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req CustomNotificationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := c.requireUser(w, r); !ok {
		return
	}
	sent, err := c.Notifications.SendCustom(r.Context(), eventID, &domain.CustomNotification{
		Subject:            strings.TrimSpace(req.Subject),
		Body:               req.Body,
		IncludeUnconfirmed: req.IncludeUnconfirmed,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CustomNotificationResponse{Sent: sent})
}
