package storage

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieStore() *sessions.CookieStore {
	return sessions.NewCookieStore(
		[]byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		[]byte("0123456789abcdef0123456789abcdef"),
	)
}

// roundTrip opens storage for req, lets fn mutate it, flushes, and returns the
// cookies a browser would send next.
func roundTrip(t *testing.T, b Backend, cookies []*http.Cookie, fn func(Storage)) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	st, err := b.Open(req)
	require.NoError(t, err)
	fn(st)

	rec := httptest.NewRecorder()
	require.NoError(t, st.Flush(rec, req))

	jar := map[string]*http.Cookie{}
	for _, c := range cookies {
		jar[c.Name] = c
	}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(jar, c.Name)
			continue
		}
		jar[c.Name] = c
	}
	next := make([]*http.Cookie, 0, len(jar))
	for _, c := range jar {
		next = append(next, c)
	}
	return next
}

func TestMap(t *testing.T) {
	m := NewMap()
	m.Set(KeyToken, "abc")
	v, ok := m.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	assert.Equal(t, 1, m.Len())

	m.Remove(KeyToken)
	_, ok = m.Get(KeyToken)
	assert.False(t, ok)
	assert.NoError(t, m.Flush(nil, nil))
}

func TestCookieBackend_PersistsAcrossRequests(t *testing.T) {
	b := NewCookie(cookieStore())

	jar := roundTrip(t, b, nil, func(st Storage) {
		st.Set(KeyToken, "tok")
		st.Set(KeyUser, `{"username":"u"}`)
	})
	require.NotEmpty(t, jar)

	jar = roundTrip(t, b, jar, func(st Storage) {
		v, ok := st.Get(KeyToken)
		assert.True(t, ok)
		assert.Equal(t, "tok", v)
		st.Remove(KeyToken)
		st.Remove(KeyUser)
	})

	roundTrip(t, b, jar, func(st Storage) {
		_, ok := st.Get(KeyToken)
		assert.False(t, ok)
	})
}

func TestCookieBackend_NoWriteWhenClean(t *testing.T) {
	b := NewCookie(cookieStore())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	st, err := b.Open(req)
	require.NoError(t, err)

	st.Remove(KeyToken)
	rec := httptest.NewRecorder()
	require.NoError(t, st.Flush(rec, req))
	assert.Empty(t, rec.Result().Cookies())
}

func TestCookieBackend_TamperedCookieIsEmpty(t *testing.T) {
	b := NewCookie(cookieStore())
	jar := []*http.Cookie{{Name: storageCookie, Value: "forged"}}

	roundTrip(t, b, jar, func(st Storage) {
		_, ok := st.Get(KeyToken)
		assert.False(t, ok)
	})
}

func TestMemoryBackend_SeparatesBrowsers(t *testing.T) {
	b := NewMemory(cookieStore(), time.Hour)

	alice := roundTrip(t, b, nil, func(st Storage) { st.Set(KeyToken, "alice") })
	bob := roundTrip(t, b, nil, func(st Storage) { st.Set(KeyToken, "bob") })

	roundTrip(t, b, alice, func(st Storage) {
		v, _ := st.Get(KeyToken)
		assert.Equal(t, "alice", v)
	})
	roundTrip(t, b, bob, func(st Storage) {
		v, _ := st.Get(KeyToken)
		assert.Equal(t, "bob", v)
	})
	roundTrip(t, b, nil, func(st Storage) {
		_, ok := st.Get(KeyToken)
		assert.False(t, ok, "a new browser starts empty")
	})
}

func TestMemoryBackend_AnonymousRequestsAreNotRetained(t *testing.T) {
	b := NewMemory(cookieStore(), time.Hour)

	for i := 0; i < 5; i++ {
		jar := roundTrip(t, b, nil, func(st Storage) {
			_, ok := st.Get(KeyToken)
			assert.False(t, ok)
		})
		assert.Empty(t, jar, "no cookie for a browser that stored nothing")
	}
	assert.Equal(t, 0, b.Len())

	roundTrip(t, b, nil, func(st Storage) { st.Set(KeyToken, "tok") })
	assert.Equal(t, 1, b.Len())
}

func TestMemoryBackend_SweepForgetsIdleAndEmptyBrowsers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewMemory(cookieStore(), time.Hour)
	b.now = func() time.Time { return now }

	idle := roundTrip(t, b, nil, func(st Storage) { st.Set(KeyToken, "idle") })
	active := roundTrip(t, b, nil, func(st Storage) { st.Set(KeyToken, "active") })
	loggedOut := roundTrip(t, b, nil, func(st Storage) { st.Set(KeyToken, "gone") })
	require.Equal(t, 3, b.Len())

	roundTrip(t, b, loggedOut, func(st Storage) { st.Remove(KeyToken) })

	now = now.Add(45 * time.Minute)
	roundTrip(t, b, active, func(st Storage) {
		_, ok := st.Get(KeyToken)
		assert.True(t, ok)
	})

	now = now.Add(30 * time.Minute)
	assert.Equal(t, 2, b.Sweep())
	assert.Equal(t, 1, b.Len())

	roundTrip(t, b, active, func(st Storage) {
		v, _ := st.Get(KeyToken)
		assert.Equal(t, "active", v)
	})
	roundTrip(t, b, idle, func(st Storage) {
		_, ok := st.Get(KeyToken)
		assert.False(t, ok, "idle browser was forgotten")
	})
}
