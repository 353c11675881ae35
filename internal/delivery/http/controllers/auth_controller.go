package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventmgt/internal/delivery/http/helpers"
	"eventmgt/internal/domain"
)

const bearerTokenType = "Bearer"

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	switch email := strings.TrimSpace(l.Email); {
	case email == "":
		errs = append(errs, "email is required")
	case !strings.Contains(email, "@"):
		errs = append(errs, "email must be a valid address")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse carries the bearer token for the admin endpoints.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// AuthController issues admin tokens.
type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{Logger: logger, Service: svc}
}

// Login godoc
// @Summary Log in
// @Description Authenticate a backend user with email and password. Returns a JWT for the admin endpoints. Users are created with the admin create command.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	token, err := c.Service.Login(r.Context(), email, req.Password)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.Logger.InfoContext(r.Context(), "admin login rejected", "email", email)
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
	case err != nil:
		h.WriteServiceError(w, r, c.Logger, err)
	default:
		h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: bearerTokenType})
	}
}
