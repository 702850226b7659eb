package storage

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const storageCookie = "habitat_storage"

// Cookie keeps the values themselves in a signed, encrypted cookie.
type Cookie struct {
	store sessions.Store
}

func NewCookie(store sessions.Store) *Cookie {
	return &Cookie{store: store}
}

func (c *Cookie) Open(r *http.Request) (Storage, error) {
	// A tampered or stale cookie decodes to an empty session.
	sess, _ := c.store.Get(r, storageCookie)
	return &cookieStorage{session: sess}, nil
}

type cookieStorage struct {
	session *sessions.Session
	dirty   bool
}

func (s *cookieStorage) Get(key string) (string, bool) {
	v, ok := s.session.Values[key].(string)
	return v, ok
}

func (s *cookieStorage) Set(key, value string) {
	s.session.Values[key] = value
	s.dirty = true
}

func (s *cookieStorage) Remove(key string) {
	if _, ok := s.session.Values[key]; !ok {
		return
	}
	delete(s.session.Values, key)
	s.dirty = true
}

func (s *cookieStorage) Flush(w http.ResponseWriter, r *http.Request) error {
	if !s.dirty {
		return nil
	}
	if len(s.session.Values) == 0 {
		s.session.Options.MaxAge = -1
	}
	if err := s.session.Save(r, w); err != nil {
		return err
	}
	s.dirty = false
	return nil
}
