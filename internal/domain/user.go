package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// RoleAdmin is the only role granted to backend users.
const RoleAdmin = "admin"

// User is a backend account for the admin API. Participants never get one;
// they are identified by their registration.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewUser(email, name string, createdAt, updatedAt time.Time) *User {
	return &User{Email: email, Name: name, CreatedAt: createdAt, UpdatedAt: updatedAt}
}

// PasswordHasher salts and hashes admin passwords.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer signs admin access tokens.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier checks an admin access token and returns the user ID it was issued for.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository stores backend users. Emails are matched case-insensitively.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	RecordLogin(ctx context.Context, id int64, at time.Time) error
}

// AuthService creates backend users and logs them in.
type AuthService interface {
	CreateUser(ctx context.Context, email, password, name string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
}
