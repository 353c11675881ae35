package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"eventmgt/config"
	"eventmgt/internal/adapters/auth"
	"eventmgt/internal/adapters/cache"
	"eventmgt/internal/adapters/email"
	"eventmgt/internal/adapters/queue"
	"eventmgt/internal/clock"
	httpdelivery "eventmgt/internal/delivery/http"
	"eventmgt/internal/delivery/http/controllers"
	"eventmgt/internal/delivery/http/helpers"
	"eventmgt/internal/domain"
	"eventmgt/internal/repository/postgres"
	"eventmgt/internal/services"
)

const (
	TransportInline = "inline"
	TransportAMQP   = "amqp"
)

// Application holds the wired services shared by all commands.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB

	Events        domain.EventService
	Registrations domain.RegistrationService
	Notifications domain.NotificationService
	Forms         domain.FormService
	Catalog       domain.CatalogService
	Auth          domain.AuthService
	Verifier      domain.TokenVerifier

	// Queue is nil when notifications are delivered inline.
	Queue *queue.RabbitMQ

	closers []func() error
}

// New connects to the configured backends and wires the services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, policy ConnectPolicy) (*Application, error) {
	db, err := OpenDB(ctx, cfg.DBUrl, policy, logger)
	if err != nil {
		return nil, err
	}
	closers := []func() error{db.Close}
	fail := func(err error) (*Application, error) {
		closeAll(closers, logger)
		return nil, err
	}

	categoryCache := cache.NewMemoryCategoryCache()
	if cfg.RedisURL != "" {
		client, err := OpenRedis(ctx, cfg.RedisURL, policy, logger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, client.Close)
		categoryCache = cache.NewRedisCategoryCache(client)
	}

	var mq *queue.RabbitMQ
	if cfg.NotificationTransport == TransportAMQP {
		mq, err = OpenRabbitMQ(ctx, queue.RabbitMQConfig{
			URL:       cfg.AMQPUrl,
			QueueName: cfg.AMQPQueue,
			Prefetch:  10,
		}, policy, logger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, mq.Close)
	}

	a, err := Build(cfg, logger, db, categoryCache, mq)
	if err != nil {
		return fail(err)
	}
	a.closers = closers
	return a, nil
}

// Build wires repositories, adapters and services on top of already opened backends.
// mq is required when the notification transport is amqp.
func Build(cfg *config.Config, logger *slog.Logger, db *sql.DB, categoryCache domain.CategoryCache, mq *queue.RabbitMQ) (*Application, error) {
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create mailer: %w", err)
	}

	clk := clock.NewSystem()
	timeout := cfg.ContextTimeout

	// Repositories
	categoryRepo := postgres.NewCategoryRepository(db)
	categories := services.NewCategoryService(categoryRepo, categoryCache, cfg.CategoryCacheTTL, logger)
	eventRepo := postgres.NewEventRepository(db, categories)
	locationRepo := postgres.NewLocationRepository(db)
	organisatorRepo := postgres.NewOrganisatorRepository(db)
	speakerRepo := postgres.NewSpeakerRepository(db)
	fieldRepo := postgres.NewFieldRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Services
	notifications := services.NewNotificationService(eventRepo, registrationRepo, locationRepo, organisatorRepo,
		email.NewTemplateRenderer(cfg.PublicBaseURL), mailer, cfg.Email.AdminAddress, logger)

	var dispatcher domain.NotificationDispatcher
	switch cfg.NotificationTransport {
	case TransportInline, "":
		dispatcher = queue.NewInlineDispatcher(notifications)
	case TransportAMQP:
		if mq == nil {
			return nil, errors.New("amqp notification transport requires a broker connection")
		}
		dispatcher = mq
	default:
		return nil, fmt.Errorf("unknown notification transport %q", cfg.NotificationTransport)
	}

	registrations := services.NewRegistrationService(eventRepo, registrationRepo, fieldRepo,
		auth.NewRegistrationTokens(cfg.ConfirmationSecret), dispatcher, clk, cfg.ConfirmationWindow, logger, timeout)

	return &Application{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		Events:        services.NewEventService(eventRepo, locationRepo, organisatorRepo, speakerRepo, categoryRepo, fieldRepo, registrationRepo, clk, timeout),
		Registrations: registrations,
		Notifications: notifications,
		Forms:         services.NewFormService(eventRepo, fieldRepo, timeout),
		Catalog:       services.NewCatalogService(locationRepo, speakerRepo, organisatorRepo, categoryRepo),
		Auth:          services.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.DefaultCost), auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry, clk),
		Verifier:      auth.NewJWTVerifier(cfg.JWTSecret),
		Queue:         mq,
	}, nil
}

// Handler returns the HTTP API.
func (a *Application) Handler() http.Handler {
	defaults := helpers.DemandDefaults{
		StoragePage:       a.Config.DefaultStoragePage,
		OrderFieldAllowed: a.Config.OrderFieldsAllowed,
		Timezone:          a.Config.Timezone,
	}
	return httpdelivery.NewRouter(httpdelivery.Controllers{
		Events:        controllers.NewEventController(a.Logger, a.Events, a.Forms, defaults),
		Registrations: controllers.NewRegistrationController(a.Logger, a.Registrations),
		Catalog:       controllers.NewCatalogController(a.Logger, a.Catalog, defaults),
		Auth:          controllers.NewAuthController(a.Logger, a.Auth),
		Admin:         controllers.NewAdminController(a.Logger, a.Events, a.Registrations, a.Notifications),
	}, a.Verifier, a.Logger, a.Config.CORSAllowedOrigins)
}

// Close releases backend connections in reverse order of opening.
func (a *Application) Close() {
	closeAll(a.closers, a.Logger)
	a.closers = nil
}

func closeAll(closers []func() error, logger *slog.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("close failed", "err", err)
		}
	}
}
