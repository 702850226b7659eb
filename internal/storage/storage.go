// Package storage keeps small durable key/value state for one browser,
// the way a browser's local storage would.
package storage

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// Well-known keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

const (
	browserCookie = "habitat_browser"
	browserIDKey  = "id"
)

// Storage is the durable state of one browser.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
	// Flush writes pending changes. It runs before the response header is sent.
	Flush(w http.ResponseWriter, r *http.Request) error
}

// Backend opens the storage belonging to the browser that sent r.
type Backend interface {
	Open(r *http.Request) (Storage, error)
}

// Map is a Storage with nothing to flush. Used directly in tests and as the
// per-browser value of the memory backend.
type Map struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMap() *Map {
	return &Map{values: make(map[string]string)}
}

func (m *Map) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Set(key, value string) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

func (m *Map) Remove(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

func (m *Map) Flush(http.ResponseWriter, *http.Request) error { return nil }

// Len returns the number of stored keys.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// browser identifies the sender of r with a signed id cookie, minting a new id
// when the cookie is missing or no longer verifies.
type browser struct {
	session *sessions.Session
	id      string
	isNew   bool
}

func identify(cookies sessions.Store, r *http.Request) *browser {
	// A cookie that fails to decode still yields a fresh session.
	sess, _ := cookies.Get(r, browserCookie)
	id, _ := sess.Values[browserIDKey].(string)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		sess.Values[browserIDKey] = id
		return &browser{session: sess, id: id, isNew: true}
	}
	return &browser{session: sess, id: id}
}

func (b *browser) save(w http.ResponseWriter, r *http.Request) error {
	if !b.isNew {
		return nil
	}
	if err := b.session.Save(r, w); err != nil {
		return err
	}
	b.isNew = false
	return nil
}
