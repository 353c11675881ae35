package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmgt/config"
	"eventmgt/internal/adapters/cache"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig(transport string) *config.Config {
	return &config.Config{
		Environment:           "test",
		Port:                  "8080",
		Timezone:              time.UTC,
		ContextTimeout:        time.Second,
		PublicBaseURL:         "https://events.example.org",
		JWTSecret:             "jwt-secret",
		JWTExpiry:             time.Hour,
		ConfirmationSecret:    "confirm-secret",
		ConfirmationWindow:    24 * time.Hour,
		CategoryCacheTTL:      time.Minute,
		NotificationTransport: transport,
		OrderFieldsAllowed:    "title,startdate",
		Email:                 config.EmailConfig{Provider: "noop"},
	}
}

func TestBuild(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("inline transport", func(t *testing.T) {
		a, err := Build(testConfig(TransportInline), testLogger, db, cache.NewMemoryCategoryCache(), nil)
		require.NoError(t, err)
		assert.NotNil(t, a.Events)
		assert.NotNil(t, a.Registrations)
		assert.NotNil(t, a.Notifications)
		assert.NotNil(t, a.Forms)
		assert.NotNil(t, a.Catalog)
		assert.NotNil(t, a.Auth)
		assert.NotNil(t, a.Verifier)
		assert.Nil(t, a.Queue)
	})

	t.Run("amqp transport without broker", func(t *testing.T) {
		_, err := Build(testConfig(TransportAMQP), testLogger, db, cache.NewMemoryCategoryCache(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a broker connection")
	})

	t.Run("unknown transport", func(t *testing.T) {
		_, err := Build(testConfig("carrier-pigeon"), testLogger, db, cache.NewMemoryCategoryCache(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "carrier-pigeon")
	})

	t.Run("ses mailer without region", func(t *testing.T) {
		cfg := testConfig(TransportInline)
		cfg.Email.Provider = "ses"
		_, err := Build(cfg, testLogger, db, cache.NewMemoryCategoryCache(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create mailer")
	})
}

func TestApplication_Handler(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a, err := Build(testConfig(TransportInline), testLogger, db, cache.NewMemoryCategoryCache(), nil)
	require.NoError(t, err)
	handler := a.Handler()

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{"admin route requires token", http.MethodGet, "/admin/events/1/registrations", http.StatusUnauthorized},
		{"invalid event id", http.MethodGet, "/events/abc", http.StatusBadRequest},
		{"invalid demand", http.MethodGet, "/events?month=13", http.StatusBadRequest},
		{"login validation", http.MethodPost, "/auth/login", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithRetry(t *testing.T) {
	policy := ConnectPolicy{Attempts: 3, Delay: time.Millisecond}

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), policy, testLogger, "postgres", func() error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), policy, testLogger, "postgres", func() error {
			calls++
			return errors.New("connection refused")
		})
		require.Error(t, err)
		assert.Equal(t, "connection refused", err.Error())
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := withRetry(ctx, ConnectPolicy{Attempts: 10, Delay: time.Second}, testLogger, "redis", func() error {
			calls++
			cancel()
			return errors.New("connection refused")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestOpenDB_InvalidURL(t *testing.T) {
	_, err := OpenDB(context.Background(), "postgres://%zz", ConnectPolicy{Attempts: 1, Delay: time.Millisecond}, testLogger)
	require.Error(t, err)
}
