package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitat/internal/models"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "astro"}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("api-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	got, err := TokenExpiry(signedToken(t, exp))
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiry_Missing(t *testing.T) {
	_, err := TokenExpiry(signedToken(t, time.Time{}))
	assert.ErrorIs(t, err, ErrNoExpiry)

	_, err = TokenExpiry("not-a-jwt")
	assert.Error(t, err)
}

func TestNormalizeLogin(t *testing.T) {
	exp := time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("keeps readable expiry", func(t *testing.T) {
		resp := &models.LoginResponse{Token: signedToken(t, exp), ExpiresAt: "2030-01-01T00:00:00Z"}
		NormalizeLogin(resp)
		assert.Equal(t, "2030-01-01T00:00:00Z", resp.ExpiresAt)
	})

	t.Run("fills from token", func(t *testing.T) {
		resp := &models.LoginResponse{Token: signedToken(t, exp)}
		NormalizeLogin(resp)
		assert.Equal(t, "2031-06-01T00:00:00Z", resp.ExpiresAt)
	})

	t.Run("opaque token left alone", func(t *testing.T) {
		resp := &models.LoginResponse{Token: "opaque"}
		NormalizeLogin(resp)
		assert.Empty(t, resp.ExpiresAt)
	})
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("token-a")
	assert.Len(t, a, 24)
	assert.Equal(t, a, Fingerprint("token-a"))
	assert.NotEqual(t, a, Fingerprint("token-b"))
}

func TestCookieKeys_Deterministic(t *testing.T) {
	h1, b1, err := CookieKeys("secret")
	require.NoError(t, err)
	h2, b2, err := CookieKeys("secret")
	require.NoError(t, err)
	h3, _, err := CookieKeys("other")
	require.NoError(t, err)

	assert.Len(t, h1, 64)
	assert.Len(t, b1, 32)
	assert.Equal(t, h1, h2)
	assert.Equal(t, b1, b2)
	assert.NotEqual(t, h1, h3)
}

func TestNewCookieStore_RoundTrip(t *testing.T) {
	store, err := NewCookieStore("secret", false, 1)
	require.NoError(t, err)
	assert.Equal(t, 86400, store.Options.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	sess, err := store.Get(req, "test")
	require.NoError(t, err)
	sess.Values["k"] = "v"
	require.NoError(t, sess.Save(req, rec))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	// a store with another secret cannot read the cookie
	other, err := NewCookieStore("different", false, 1)
	require.NoError(t, err)
	foreign, _ := other.Get(next, "test")
	assert.Empty(t, foreign.Values)

	again, err := store.New(next, "test")
	require.NoError(t, err)
	assert.Equal(t, "v", again.Values["k"])
}
