package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventmgt/internal/domain"
)

type registrationClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

type registrationTokens struct {
	secret []byte
}

// NewRegistrationTokens returns RegistrationTokens that encode the registration id
// and purpose in an HS256 signed JWT.
func NewRegistrationTokens(secret string) domain.RegistrationTokens {
	return &registrationTokens{secret: []byte(secret)}
}

func (t *registrationTokens) Issue(registrationID int64, purpose string, expiresAt time.Time) (string, error) {
	claims := registrationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			Subject:  strconv.FormatInt(registrationID, 10),
			Audience: jwt.ClaimStrings{audienceRegistration},
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Purpose: purpose,
	}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}
	signed, err := signHS256(claims, t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign registration token: %w", err)
	}
	return signed, nil
}

func (t *registrationTokens) Verify(token, purpose string) (int64, error) {
	claims := &registrationClaims{}
	if err := parseHS256(token, claims, t.secret, audienceRegistration); err != nil {
		return 0, err
	}
	if claims.Purpose != purpose {
		return 0, domain.ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidToken
	}
	return id, nil
}
