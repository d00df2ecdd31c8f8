package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/config"
)

// CookieConfig controls the session cookies.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewCookieConfig derives cookie settings from the token lifetimes.
func NewCookieConfig(cfg config.AuthConfig) CookieConfig {
	return CookieConfig{
		Secure:     cfg.CookieSecure,
		AccessTTL:  time.Duration(cfg.AccessLifetimeMinutes) * time.Minute,
		RefreshTTL: time.Duration(cfg.RefreshLifetimeMinutes) * time.Minute,
	}
}

func (c CookieConfig) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteNoneMode,
	}
}

// setAccessCookie writes the access token cookie.
func (c CookieConfig) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(shared.AccessTokenCookie, token, c.AccessTTL))
}

// setSessionCookies writes both session cookies. An empty refresh token
// leaves the refresh cookie untouched.
func (c CookieConfig) setSessionCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	c.setAccessCookie(w, accessToken)
	if refreshToken != "" {
		http.SetCookie(w, c.cookie(shared.RefreshTokenCookie, refreshToken, c.RefreshTTL))
	}
}

// clearSessionCookies expires both session cookies.
func (c CookieConfig) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{shared.AccessTokenCookie, shared.RefreshTokenCookie} {
		ck := c.cookie(name, "", 0)
		ck.MaxAge = -1
		http.SetCookie(w, ck)
	}
}
