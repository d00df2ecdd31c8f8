package mocks

import (
	"context"

	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn              func(ctx context.Context, identity auth.Identity) (string, error)
	ValidateTokenFn              func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn       func(ctx context.Context, identity auth.Identity) (string, error)
	ValidateRefreshTokenFn       func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateActivationTokenFn    func(ctx context.Context, reg auth.Registration) (string, error)
	ValidateActivationTokenFn    func(ctx context.Context, token string) (*auth.Registration, error)
	GeneratePasswordResetTokenFn func(ctx context.Context, email string) (string, error)
	ValidatePasswordResetTokenFn func(ctx context.Context, token string) (string, error)

	// Default values used when functions aren't explicitly defined
	Token        string
	RefreshToken string
	Err          error
	ValidateErr  error
	Claims       *auth.Claims
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, identity auth.Identity) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, identity)
	}
	return m.Token, m.Err
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// GenerateRefreshToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, identity auth.Identity) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, identity)
	}
	return m.RefreshToken, m.Err
}

// ValidateRefreshToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// GenerateActivationToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateActivationToken(ctx context.Context, reg auth.Registration) (string, error) {
	if m.GenerateActivationTokenFn != nil {
		return m.GenerateActivationTokenFn(ctx, reg)
	}
	return m.Token, m.Err
}

// ValidateActivationToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateActivationToken(ctx context.Context, token string) (*auth.Registration, error) {
	if m.ValidateActivationTokenFn != nil {
		return m.ValidateActivationTokenFn(ctx, token)
	}
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	return &auth.Registration{}, nil
}

// GeneratePasswordResetToken implements the auth.JWTService interface
func (m *MockJWTService) GeneratePasswordResetToken(ctx context.Context, email string) (string, error) {
	if m.GeneratePasswordResetTokenFn != nil {
		return m.GeneratePasswordResetTokenFn(ctx, email)
	}
	return m.Token, m.Err
}

// ValidatePasswordResetToken implements the auth.JWTService interface
func (m *MockJWTService) ValidatePasswordResetToken(ctx context.Context, token string) (string, error) {
	if m.ValidatePasswordResetTokenFn != nil {
		return m.ValidatePasswordResetTokenFn(ctx, token)
	}
	return "", m.ValidateErr
}
