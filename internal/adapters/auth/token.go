package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"eventmgt/internal/domain"
)

const (
	tokenIssuer = "eventmgt"

	// Separate audiences keep a registration link token from passing as an
	// admin token when both secrets are configured to the same value.
	audienceAdmin        = "eventmgt-admin"
	audienceRegistration = "eventmgt-registration"

	clockSkew = 30 * time.Second
)

type adminClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type jwtIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewJWTIssuer returns a TokenIssuer for HS256 signed admin access tokens.
func NewJWTIssuer(secret string) domain.TokenIssuer {
	return &jwtIssuer{secret: []byte(secret), now: time.Now}
}

func (i *jwtIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	now := i.now()
	claims := adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audienceAdmin},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
		Roles: roles,
	}
	signed, err := signHS256(claims, i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier returns a TokenVerifier for tokens from NewJWTIssuer. Only
// tokens carrying the admin role are accepted.
func NewJWTVerifier(secret string) domain.TokenVerifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(token string) (string, error) {
	claims := &adminClaims{}
	if err := parseHS256(token, claims, v.secret, audienceAdmin); err != nil {
		return "", err
	}
	if claims.Subject == "" || !slices.Contains(claims.Roles, domain.RoleAdmin) {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

func signHS256(claims jwt.Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// parseHS256 validates signature, issuer, audience and expiry. Expiry maps to
// domain.ErrTokenExpired and every other failure wraps domain.ErrInvalidToken.
func parseHS256(token string, claims jwt.Claims, secret []byte, audience string) error {
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(audience),
		jwt.WithLeeway(clockSkew),
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	default:
		return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
}
