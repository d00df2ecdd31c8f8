package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

// tokenKind holds the signing parameters and failure errors of one token type.
type tokenKind struct {
	typ        string
	key        []byte
	lifetime   time.Duration
	errInvalid error
	errExpired error
}

// hmacJWTService is an implementation of JWTService using HMAC-SHA256 signing.
type hmacJWTService struct {
	access     tokenKind
	refresh    tokenKind
	activation tokenKind
	reset      tokenKind
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration
}

// jwtCustomClaims defines the structure of JWT claims we use
type jwtCustomClaims struct {
	Identity
	Registration *Registration `json:"reg,omitempty"`
	TokenType    string        `json:"type"`
	jwt.RegisteredClaims
}

var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA signing.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	return newJWTService(cfg, time.Now)
}

func newJWTService(cfg config.AuthConfig, now func() time.Time) (*hmacJWTService, error) {
	secrets := map[string]string{
		TokenTypeAccess:        cfg.AccessSecret,
		TokenTypeRefresh:       cfg.RefreshSecret,
		TokenTypeActivation:    cfg.ActivationSecret,
		TokenTypePasswordReset: cfg.ResetSecret,
	}
	for typ, secret := range secrets {
		if len(secret) < 32 {
			return nil, fmt.Errorf("%s secret must be at least 32 characters", typ)
		}
	}

	minutes := func(m int) time.Duration { return time.Duration(m) * time.Minute }

	return &hmacJWTService{
		access: tokenKind{
			typ:        TokenTypeAccess,
			key:        []byte(cfg.AccessSecret),
			lifetime:   minutes(cfg.AccessLifetimeMinutes),
			errInvalid: ErrInvalidToken,
			errExpired: ErrExpiredToken,
		},
		refresh: tokenKind{
			typ:        TokenTypeRefresh,
			key:        []byte(cfg.RefreshSecret),
			lifetime:   minutes(cfg.RefreshLifetimeMinutes),
			errInvalid: ErrInvalidRefreshToken,
			errExpired: ErrExpiredRefreshToken,
		},
		activation: tokenKind{
			typ:        TokenTypeActivation,
			key:        []byte(cfg.ActivationSecret),
			lifetime:   minutes(cfg.ActivationLifetimeMinutes),
			errInvalid: ErrInvalidToken,
			errExpired: ErrExpiredToken,
		},
		reset: tokenKind{
			typ:        TokenTypePasswordReset,
			key:        []byte(cfg.ResetSecret),
			lifetime:   minutes(cfg.ResetLifetimeMinutes),
			errInvalid: ErrInvalidToken,
			errExpired: ErrExpiredToken,
		},
		timeFunc:  now,
		clockSkew: 30 * time.Second,
	}, nil
}

// GenerateToken creates a signed JWT access token with the user's identity.
func (s *hmacJWTService) GenerateToken(ctx context.Context, identity Identity) (string, error) {
	return s.sign(ctx, s.access, jwtCustomClaims{Identity: identity}, identity.UserID.String())
}

// ValidateToken validates a JWT access token and returns the claims if valid.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(ctx, s.access, tokenString)
	if err != nil {
		return nil, err
	}
	return toClaims(claims), nil
}

// GenerateRefreshToken creates a signed JWT refresh token with the user's identity.
func (s *hmacJWTService) GenerateRefreshToken(ctx context.Context, identity Identity) (string, error) {
	return s.sign(ctx, s.refresh, jwtCustomClaims{Identity: identity}, identity.UserID.String())
}

// ValidateRefreshToken validates a JWT refresh token and returns the claims if valid.
func (s *hmacJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(ctx, s.refresh, tokenString)
	if err != nil {
		return nil, err
	}
	return toClaims(claims), nil
}

// GenerateActivationToken signs the registration and wraps the JWT in
// unpadded base64url so it can travel as a single URL path segment.
func (s *hmacJWTService) GenerateActivationToken(ctx context.Context, reg Registration) (string, error) {
	signed, err := s.sign(ctx, s.activation, jwtCustomClaims{Registration: &reg}, reg.Email)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString([]byte(signed)), nil
}

// ValidateActivationToken unwraps and validates an activation token.
func (s *hmacJWTService) ValidateActivationToken(ctx context.Context, token string) (*Registration, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		logger.FromContext(ctx).Debug("activation token is not base64url", "error", err)
		return nil, ErrInvalidToken
	}

	claims, err := s.parse(ctx, s.activation, string(raw))
	if err != nil {
		return nil, err
	}
	if claims.Registration == nil || claims.Registration.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims.Registration, nil
}

// GeneratePasswordResetToken creates a URL-safe reset token for email.
func (s *hmacJWTService) GeneratePasswordResetToken(ctx context.Context, email string) (string, error) {
	claims := jwtCustomClaims{Identity: Identity{Email: email}}
	signed, err := s.sign(ctx, s.reset, claims, email)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString([]byte(signed)), nil
}

// ValidatePasswordResetToken unwraps a reset token and returns its email.
func (s *hmacJWTService) ValidatePasswordResetToken(ctx context.Context, token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		logger.FromContext(ctx).Debug("reset token is not base64url", "error", err)
		return "", ErrInvalidToken
	}

	claims, err := s.parse(ctx, s.reset, string(raw))
	if err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

func (s *hmacJWTService) sign(
	ctx context.Context,
	kind tokenKind,
	claims jwtCustomClaims,
	subject string,
) (string, error) {
	now := s.timeFunc()
	claims.TokenType = kind.typ
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(kind.lifetime)),
		ID:        uuid.New().String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(kind.key)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign JWT",
			"error", err,
			"token_type", kind.typ,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign %s token with HMAC-SHA256: %w", kind.typ, err)
	}
	return signed, nil
}

func (s *hmacJWTService) parse(ctx context.Context, kind tokenKind, tokenString string) (*jwtCustomClaims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return kind.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "token_type", kind.typ)
			return nil, kind.errExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			log.Debug("token validation failed: token not yet valid", "token_type", kind.typ)
			return nil, kind.errInvalid
		default:
			log.Debug("token validation failed",
				"error", err,
				"token_type", kind.typ,
				"error_type", fmt.Sprintf("%T", err))
			return nil, kind.errInvalid
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return nil, kind.errInvalid
	}
	if claims.TokenType != kind.typ {
		log.Debug("token validation failed: wrong token type",
			"expected", kind.typ,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func toClaims(c *jwtCustomClaims) *Claims {
	return &Claims{
		Identity:  c.Identity,
		TokenType: c.TokenType,
		Subject:   c.Subject,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
		ID:        c.ID,
	}
}
