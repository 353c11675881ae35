package http

import (
	"log/slog"
	"net/http"

	"eventmgt/internal/delivery/http/controllers"
	"eventmgt/internal/delivery/http/middleware"
	"eventmgt/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers served by NewRouter.
type Controllers struct {
	Events        *controllers.EventController
	Registrations *controllers.RegistrationController
	Catalog       *controllers.CatalogController
	Auth          *controllers.AuthController
	Admin         *controllers.AdminController
}

// NewRouter initializes the HTTP router with all application routes and wraps
// it with request id, logging and CORS middleware.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("GET /events", c.Events.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", c.Events.GetEvent)
	mux.HandleFunc("GET /events/{eventID}/registration/form", c.Events.GetRegistrationForm)
	mux.HandleFunc("POST /events/{eventID}/registration/form", c.Events.PrefillRegistrationForm)

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", c.Registrations.Register)
	mux.HandleFunc("GET /registrations/confirm", c.Registrations.Confirm)
	mux.HandleFunc("POST /registrations/confirm", c.Registrations.Confirm)
	mux.HandleFunc("GET /registrations/cancel", c.Registrations.Cancel)
	mux.HandleFunc("POST /registrations/cancel", c.Registrations.Cancel)

	// Catalog
	mux.HandleFunc("GET /locations", c.Catalog.ListLocations)
	mux.HandleFunc("GET /speakers", c.Catalog.ListSpeakers)
	mux.HandleFunc("GET /organisators", c.Catalog.ListOrganisators)
	mux.HandleFunc("GET /categories", c.Catalog.ListCategories)

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Admin
	requireAuth := middleware.RequireAuth(verifier, logger)
	mux.HandleFunc("POST /admin/events", requireAuth(c.Admin.CreateEvent))
	mux.HandleFunc("PATCH /admin/events/{eventID}", requireAuth(c.Admin.UpdateEvent))
	mux.HandleFunc("DELETE /admin/events/{eventID}", requireAuth(c.Admin.DeleteEvent))
	mux.HandleFunc("GET /admin/events/{eventID}/registrations", requireAuth(c.Admin.ListRegistrations))
	mux.HandleFunc("POST /admin/events/{eventID}/notifications", requireAuth(c.Admin.SendNotification))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.RequestID(middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux)))
}
