package storage

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/sessions"
)

// Memory keeps every browser's values in process memory. Values are lost on
// restart, which only logs everyone out.
//
// A browser is only remembered once it stores something, and is forgotten
// after idle without a request or once it holds nothing.
type Memory struct {
	cookies sessions.Store
	idle    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	browsers map[string]*memoryEntry
}

type memoryEntry struct {
	values *Map
	seen   time.Time
}

// NewMemory returns a memory backend. idle <= 0 keeps browsers until they
// hold nothing.
func NewMemory(cookies sessions.Store, idle time.Duration) *Memory {
	return &Memory{
		cookies:  cookies,
		idle:     idle,
		now:      time.Now,
		browsers: make(map[string]*memoryEntry),
	}
}

func (m *Memory) Open(r *http.Request) (Storage, error) {
	b := identify(m.cookies, r)

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.browsers[b.id]; ok {
		e.seen = m.now()
		return &memoryStorage{Map: e.values, browser: b, backend: m}, nil
	}
	return &memoryStorage{Map: NewMap(), browser: b, backend: m}, nil
}

// Len returns the number of remembered browsers.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.browsers)
}

// Sweep forgets browsers that are empty or idle, returning how many went.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, e := range m.browsers {
		if e.values.Len() == 0 || (m.idle > 0 && now.Sub(e.seen) > m.idle) {
			delete(m.browsers, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// remember registers values under id unless they are empty. A sweep may have
// dropped the entry while a request still held it.
func (m *Memory) remember(id string, values *Map) bool {
	if values.Len() == 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.browsers[id]
	if !ok || e.values != values {
		e = &memoryEntry{values: values}
		m.browsers[id] = e
	}
	e.seen = m.now()
	return true
}

type memoryStorage struct {
	*Map
	browser *browser
	backend *Memory
}

// Flush sets the browser cookie only for browsers that hold something.
func (s *memoryStorage) Flush(w http.ResponseWriter, r *http.Request) error {
	if !s.backend.remember(s.browser.id, s.Map) {
		return nil
	}
	return s.browser.save(w, r)
}
