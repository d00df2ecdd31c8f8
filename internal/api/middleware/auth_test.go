package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/mocks"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = auth.Identity{
	UserID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
	Name:   "Jane",
	Email:  "jane@example.com",
}

// identityEcho writes 204 and records the identity it saw.
func identityEcho(seen *auth.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := shared.IdentityFromContext(r.Context()); ok {
			*seen = id
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: shared.AccessTokenCookie, Value: token})
	}
	return req
}

func TestIsLoggedIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		token      string
		jwt        *mocks.MockJWTService
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing cookie",
			jwt:        &mocks.MockJWTService{},
			wantStatus: http.StatusUnauthorized,
			wantBody:   MsgAccessTokenMissing,
		},
		{
			name:       "invalid token",
			token:      "bad",
			jwt:        &mocks.MockJWTService{ValidateErr: auth.ErrInvalidToken},
			wantStatus: http.StatusUnauthorized,
			wantBody:   MsgAccessTokenInvalid,
		},
		{
			name:       "expired token",
			token:      "old",
			jwt:        &mocks.MockJWTService{ValidateErr: auth.ErrExpiredToken},
			wantStatus: http.StatusUnauthorized,
			wantBody:   MsgAccessTokenInvalid,
		},
		{
			name:       "valid token",
			token:      "good",
			jwt:        &mocks.MockJWTService{Claims: &auth.Claims{Identity: testIdentity}},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var seen auth.Identity
			handler := NewAuthMiddleware(tc.jwt).IsLoggedIn(identityEcho(&seen))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithToken(tc.token))

			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tc.wantBody)
				return
			}
			assert.Equal(t, testIdentity, seen)
		})
	}
}

func TestIsLoggedOut(t *testing.T) {
	t.Parallel()

	t.Run("valid session is rejected", func(t *testing.T) {
		t.Parallel()
		m := NewAuthMiddleware(&mocks.MockJWTService{Claims: &auth.Claims{Identity: testIdentity}})
		var seen auth.Identity
		rec := httptest.NewRecorder()
		m.IsLoggedOut(identityEcho(&seen)).ServeHTTP(rec, requestWithToken("good"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), MsgAlreadyLoggedIn)
	})

	t.Run("stale session passes", func(t *testing.T) {
		t.Parallel()
		m := NewAuthMiddleware(&mocks.MockJWTService{ValidateErr: auth.ErrExpiredToken})
		var seen auth.Identity
		rec := httptest.NewRecorder()
		m.IsLoggedOut(identityEcho(&seen)).ServeHTTP(rec, requestWithToken("old"))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("no cookie passes", func(t *testing.T) {
		t.Parallel()
		m := NewAuthMiddleware(&mocks.MockJWTService{})
		var seen auth.Identity
		rec := httptest.NewRecorder()
		m.IsLoggedOut(identityEcho(&seen)).ServeHTTP(rec, requestWithToken(""))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	admin := testIdentity
	admin.IsAdmin = true

	tests := []struct {
		name       string
		identity   *auth.Identity
		wantStatus int
	}{
		{"no identity", nil, http.StatusUnauthorized},
		{"regular user", &testIdentity, http.StatusForbidden},
		{"admin", &admin, http.StatusNoContent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.identity != nil {
				req = req.WithContext(shared.WithIdentity(req.Context(), *tc.identity))
			}
			var seen auth.Identity
			rec := httptest.NewRecorder()
			RequireAdmin(identityEcho(&seen)).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), MsgAdminOnly)
			}
		})
	}
}
