package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/talent-platform/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": 7,
		"role":    string(models.RolePlayer),
		"staff":   false,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	t.Run("valid token passes", func(t *testing.T) {
		var hit bool
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
		Authenticate(testSecret)(okHandler(&hit)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, hit)
	})

	t.Run("missing header", func(t *testing.T) {
		var hit bool
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		Authenticate(testSecret)(okHandler(&hit)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, hit)
	})

	t.Run("wrong secret", func(t *testing.T) {
		var hit bool
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, []byte("other-secret"), claims))
		Authenticate(testSecret)(okHandler(&hit)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, hit)
	})

	t.Run("expired token", func(t *testing.T) {
		var hit bool
		expired := jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, expired))
		Authenticate(testSecret)(okHandler(&hit)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, hit)
	})
}

func TestRequireStaff(t *testing.T) {
	run := func(t *testing.T, claims jwt.MapClaims) (*httptest.ResponseRecorder, bool) {
		var hit bool
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
		Authenticate(testSecret)(RequireStaff(okHandler(&hit))).ServeHTTP(rec, req)
		return rec, hit
	}

	t.Run("staff allowed", func(t *testing.T) {
		rec, hit := run(t, jwt.MapClaims{"user_id": 1, "staff": true, "exp": time.Now().Add(time.Hour).Unix()})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, hit)
	})

	t.Run("non-staff forbidden", func(t *testing.T) {
		rec, hit := run(t, jwt.MapClaims{"user_id": 1, "staff": false, "exp": time.Now().Add(time.Hour).Unix()})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, hit)
	})
}

func TestGetUserIDFromContext(t *testing.T) {
	var gotID int
	var gotErr error
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotErr = GetUserIDFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := jwt.MapClaims{"user_id": 42, "exp": time.Now().Add(time.Hour).Unix()}
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
	Authenticate(testSecret)(handler).ServeHTTP(rec, req)

	require.NoError(t, gotErr)
	assert.Equal(t, 42, gotID)

	_, err := GetUserIDFromContext(req.Context())
	assert.Error(t, err, "bare context carries no claims")
}
