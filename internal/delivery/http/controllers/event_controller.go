package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventmgt/internal/delivery/http/helpers"
	"eventmgt/internal/domain"
)

// ListEventsResponse is the data payload for GET /events (200).
type ListEventsResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// EventDetailSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type EventDetailSuccessResponse struct {
	Data  *domain.EventDetail `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// RegistrationFormSuccessResponse is the success response envelope for the registration form endpoints (200).
type RegistrationFormSuccessResponse struct {
	Data  *domain.RegistrationForm `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// PrefillFormRequest is the request body for POST /events/{eventID}/registration/form.
// Fields maps field id to the submitted value: a string or a list of strings.
type PrefillFormRequest struct {
	Fields map[int64]any `json:"fields"`
}

// Validate implements Validator.
func (p PrefillFormRequest) Validate() []string {
	return validateFieldValues(p.Fields)
}

func validateFieldValues(values map[int64]any) []string {
	var errs []string
	for id, v := range values {
		if id < 1 {
			errs = append(errs, "field ids must be positive integers")
			break
		}
		switch v := v.(type) {
		case nil, string:
		case []any:
			for _, item := range v {
				if _, ok := item.(string); !ok {
					return append(errs, "field values must be strings or lists of strings")
				}
			}
		default:
			return append(errs, "field values must be strings or lists of strings")
		}
	}
	return errs
}

// EventController serves the public event listing, detail and registration form.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Forms   domain.FormService
	Demand  helpers.DemandDefaults
}

func NewEventController(logger *slog.Logger, svc domain.EventService, forms domain.FormService, defaults helpers.DemandDefaults) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Forms:   forms,
		Demand:  defaults,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns the events matching the demand built from the query string, paginated with page and page_size. The limit parameter caps the whole result set.
// @Tags events
// @Produce json
// @Param storage_page query string false "Comma separated storage page ids"
// @Param display_mode query string false "all, past, future, current_future or time_restriction"
// @Param category query string false "Comma separated category ids"
// @Param category_conjunction query string false "and, or, notand or notor (default or when category is set)"
// @Param include_subcategories query bool false "Expand categories with their subcategories"
// @Param top_event_restriction query string false "none, only or except"
// @Param location query int false "Location id"
// @Param location_city query string false "Location city"
// @Param location_country query string false "Location country"
// @Param speaker query int false "Speaker id"
// @Param organisator query int false "Organisator id"
// @Param time_restriction_low query string false "Lower bound, e.g. today or -2 weeks"
// @Param time_restriction_high query string false "Upper bound, e.g. +1 month"
// @Param include_current query bool false "Include running events in time restriction mode"
// @Param year query int false "Start date year"
// @Param month query int false "Start date month (requires year)"
// @Param day query int false "Start date day (requires year and month)"
// @Param order_field query string false "Order field from the configured allow-list"
// @Param order_direction query string false "asc or desc"
// @Param limit query int false "Maximum number of events"
// @Param search query string false "Search term"
// @Param search_fields query string false "Comma separated fields to search (default title,teaser)"
// @Param start_date query string false "Search range start (YYYY-MM-DD or RFC 3339)"
// @Param end_date query string false "Search range end (YYYY-MM-DD or RFC 3339)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	demand, errs := helpers.ParseEventDemand(r, c.Demand)
	if len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	params := helpers.ParsePagination(r)
	page, err := c.Service.ListEvents(r.Context(), demand, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	items := page.Events
	if items == nil {
		items = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params, page.Total),
	})
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns a visible event with location, organisator, speakers, categories, registration fields and free places.
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventDetailSuccessResponse "data contains the event detail"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	detail, err := c.Service.GetEventDetail(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// GetRegistrationForm godoc
// @Summary Get the registration form of an event
// @Description Returns the registration fields with default values and option selection.
// @Tags registrations
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.RegistrationFormSuccessResponse "data contains the form"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registration/form [get]
func (c *EventController) GetRegistrationForm(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	c.writeForm(w, r, eventID, nil)
}

// PrefillRegistrationForm godoc
// @Summary Prefill the registration form of an event
// @Description Returns the registration fields prefilled with previously submitted values, e.g. after a rejected registration.
// @Tags registrations
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body PrefillFormRequest true "Submitted field values keyed by field id"
// @Success 200 {object} controllers.RegistrationFormSuccessResponse "data contains the prefilled form"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registration/form [post]
func (c *EventController) PrefillRegistrationForm(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req PrefillFormRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	c.writeForm(w, r, eventID, req.Fields)
}

func (c *EventController) writeForm(w http.ResponseWriter, r *http.Request, eventID int64, submitted map[int64]any) {
	form, err := c.Forms.BuildForm(r.Context(), eventID, submitted)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, form)
}
