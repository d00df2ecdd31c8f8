package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

var (
	testUserID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testAdminID = uuid.MustParse("22222222-2222-2222-2222-222222222222")

	testCookies = CookieConfig{Secure: true, AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour}
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Payload    json.RawMessage `json:"payload"`
	TraceID    string          `json:"traceId"`
}

// withIdentity stands in for the session middleware.
func withIdentity(identity auth.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.WithIdentity(r.Context(), identity)))
		})
	}
}

func userIdentity() auth.Identity {
	return auth.Identity{UserID: testUserID, Name: "Jane", Email: "jane@example.com"}
}

func adminIdentity() auth.Identity {
	return auth.Identity{UserID: testAdminID, Name: "Root", Email: "root@example.com", IsAdmin: true}
}

func actorOf(identity auth.Identity) service.Actor {
	return service.Actor{ID: identity.UserID, IsAdmin: identity.IsAdmin}
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}
