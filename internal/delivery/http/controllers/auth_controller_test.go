package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmgt/internal/delivery/http/helpers"
	"eventmgt/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantCode       string
		wantBodySubstr string
	}{
		{name: "success", body: `{"email":" Admin@Example.org ","password":"secret123"}`, wantStatus: http.StatusOK},
		{name: "missing fields", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest, wantBodySubstr: "email is required"},
		{name: "malformed email", body: `{"email":"admin","password":"x"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest, wantBodySubstr: "email must be a valid address"},
		{name: "wrong password", body: `{"email":"admin@example.org","password":"nope"}`, fakeErr: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized, wantBodySubstr: "invalid credentials"},
		{name: "store error", body: `{"email":"admin@example.org","password":"x"}`, fakeErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError, wantBodySubstr: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{token: "jwt-token", err: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.Login(rr, jsonRequest(http.MethodPost, "/auth/login", tt.body))

			require.Equal(t, tt.wantStatus, rr.Code)
			var data LoginResponse
			envelope := decodeEnvelope(t, rr, &data)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, LoginResponse{Token: "jwt-token", TokenType: "Bearer"}, data)
				assert.Equal(t, "admin@example.org", fake.lastEmail)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}
