package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess        = "access"
	TokenTypeRefresh       = "refresh"
	TokenTypeActivation    = "activation"
	TokenTypePasswordReset = "password_reset"
)

// Identity is the user snapshot embedded in session tokens.
type Identity struct {
	UserID  uuid.UUID `json:"uid"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"admin"`
}

// Registration is the pending account carried inside an activation token.
// Nothing is persisted until the token is redeemed.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// JWTService issues and validates every token the application hands out.
// Each token type is signed with its own key and has its own lifetime.
type JWTService interface {
	// GenerateToken creates a signed access token for identity.
	GenerateToken(ctx context.Context, identity Identity) (string, error)

	// ValidateToken validates an access token and returns its claims.
	// Returns ErrExpiredToken, ErrInvalidToken or ErrWrongTokenType on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for identity.
	GenerateRefreshToken(ctx context.Context, identity Identity) (string, error)

	// ValidateRefreshToken validates a refresh token and returns its claims.
	// Returns ErrExpiredRefreshToken or ErrInvalidRefreshToken on failure.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateActivationToken wraps a pending registration in a signed,
	// expiring, URL-safe token.
	GenerateActivationToken(ctx context.Context, reg Registration) (string, error)

	// ValidateActivationToken returns the registration inside token.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateActivationToken(ctx context.Context, token string) (*Registration, error)

	// GeneratePasswordResetToken creates a URL-safe reset token for email.
	GeneratePasswordResetToken(ctx context.Context, email string) (string, error)

	// ValidatePasswordResetToken returns the email inside token.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidatePasswordResetToken(ctx context.Context, token string) (string, error)
}

// Claims is the validated content of an access or refresh token.
type Claims struct {
	Identity
	TokenType string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
