package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventmgt/internal/delivery/http/helpers"
	"eventmgt/internal/domain"
)

// RegisterRequest is the request body for POST /events/{eventID}/registrations.
type RegisterRequest struct {
	Firstname   string     `json:"firstname"`
	Lastname    string     `json:"lastname"`
	Email       string     `json:"email"`
	Company     string     `json:"company"`
	Address     string     `json:"address"`
	Zip         string     `json:"zip"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
	Phone       string     `json:"phone"`
	Gender      string     `json:"gender"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	AcceptTC    bool       `json:"accept_tc"`
	Notes       string     `json:"notes"`
	// AmountOfRegistrations defaults to 1.
	AmountOfRegistrations int `json:"amount_of_registrations"`
	// Fields maps registration field id to a string or a list of strings.
	Fields map[int64]any `json:"fields"`
}

// Validate implements Validator. Required fields and the email format are checked by the service.
func (req RegisterRequest) Validate() []string {
	return validateFieldValues(req.Fields)
}

func (req RegisterRequest) toInput(eventID int64) *domain.RegistrationInput {
	return &domain.RegistrationInput{
		Registration: &domain.Registration{
			EventID:               eventID,
			Firstname:             req.Firstname,
			Lastname:              req.Lastname,
			Email:                 req.Email,
			Company:               req.Company,
			Address:               req.Address,
			Zip:                   req.Zip,
			City:                  req.City,
			Country:               req.Country,
			Phone:                 req.Phone,
			Gender:                req.Gender,
			DateOfBirth:           req.DateOfBirth,
			AcceptTC:              req.AcceptTC,
			Notes:                 req.Notes,
			AmountOfRegistrations: req.AmountOfRegistrations,
		},
		FieldValues: req.Fields,
	}
}

// RegisterSuccessResponse is the success response envelope for POST /events/{eventID}/registrations (201).
type RegisterSuccessResponse struct {
	Data  *domain.RegistrationOutcome `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// TokenRequest is the request body for the confirm and cancel endpoints.
type TokenRequest struct {
	Token string `json:"token"`
}

// Validate implements Validator.
func (t TokenRequest) Validate() []string {
	if strings.TrimSpace(t.Token) == "" {
		return []string{"token is required"}
	}
	return nil
}

// ConfirmSuccessResponse is the success response envelope for the confirm endpoint (200).
type ConfirmSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CancelResponse is the data payload for the cancel endpoint (200).
type CancelResponse struct {
	Status string `json:"status"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register for an event
// @Description Registers one or more participants. Amounts above one create dependent registrations. Rejected checks (deadline passed, no free places, email not unique, ...) return 422 with the check result as message.
// @Tags registrations
// @Accept json
// @Produce json
// @Param eventID path int true "Event ID"
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} controllers.RegisterSuccessResponse "data contains the registration and the check result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable_entity"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	outcome, err := c.Service.Register(r.Context(), eventID, req.toInput(eventID))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, outcome)
}

// Confirm godoc
// @Summary Confirm a registration
// @Description Confirms the registration the token was issued for, including dependent registrations. Confirming twice is a no-op. The token is read from the token query parameter or the JSON body.
// @Tags registrations
// @Accept json
// @Produce json
// @Param token query string false "Confirmation token (GET)"
// @Param body body TokenRequest false "Confirmation token (POST)"
// @Success 200 {object} controllers.ConfirmSuccessResponse "data contains the confirmed registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid or expired token)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/confirm [post]
func (c *RegistrationController) Confirm(w http.ResponseWriter, r *http.Request) {
	token, ok := readToken(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.Confirm(r.Context(), token)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Deletes the registration the token was issued for together with its dependent registrations and moves waitlist entries up when enabled. The token is read from the token query parameter or the JSON body.
// @Tags registrations
// @Accept json
// @Produce json
// @Param token query string false "Cancel token (GET)"
// @Param body body TokenRequest false "Cancel token (POST)"
// @Success 200 {object} helpers.APIResponse "data.status is cancelled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid or expired token)"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (cancellation not allowed)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/cancel [post]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	token, ok := readToken(w, r)
	if !ok {
		return
	}
	if err := c.Service.Cancel(r.Context(), token); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CancelResponse{Status: "cancelled"})
}

// readToken takes the token from the query string on GET (email links) and from the body otherwise.
func readToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method == http.MethodGet {
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "token is required")
			return "", false
		}
		return token, true
	}
	var req TokenRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return "", false
	}
	return strings.TrimSpace(req.Token), true
}
