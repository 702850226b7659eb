// Package session holds the authentication state of one browser session.
package session

import (
	"sync"
	"time"

	"habitat/internal/domain"
)

type Status int

const (
	Unauthenticated Status = iota
	Authenticating
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "unauthenticated"
}

// Action names the transition that produced a state.
type Action string

const (
	ActionLoginStart  Action = "loginStart"
	ActionLoginOK     Action = "loginSuccess"
	ActionLoginFailed Action = "loginFailure"
	ActionLogout      Action = "logout"
	ActionRestore     Action = "setAuthFromStorage"
)

// State is an immutable snapshot of the store.
type State struct {
	User          *domain.User
	Token         string
	Loading       bool
	Authenticated bool
}

func (s State) Status() Status {
	switch {
	case s.Loading:
		return Authenticating
	case s.Authenticated:
		return Authenticated
	}
	return Unauthenticated
}

// Listener is called after every transition, outside the store lock.
type Listener func(action Action, state State)

// Store is the session state of one browser. All writes go through the five
// transition methods.
type Store struct {
	now func() time.Time

	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore returns an unauthenticated store. A nil clock means time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now, listeners: make(map[int]Listener)}
}

func (s *Store) LoginStart() {
	s.apply(ActionLoginStart, func(st *State) {
		st.Loading = true
	})
}

func (s *Store) LoginSuccess(user *domain.User, token string) {
	s.apply(ActionLoginOK, func(st *State) {
		*st = State{User: user, Token: token, Authenticated: true}
	})
}

func (s *Store) LoginFailure() {
	s.apply(ActionLoginFailed, func(st *State) {
		*st = State{}
	})
}

func (s *Store) Logout() {
	s.apply(ActionLogout, func(st *State) {
		*st = State{}
	})
}

func (s *Store) SetAuthFromStorage(user *domain.User, token string) {
	s.apply(ActionRestore, func(st *State) {
		*st = State{User: user, Token: token, Authenticated: true}
	})
}

func (s *Store) apply(action Action, fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	state := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(action, state)
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated is true iff a token and an unexpired user are present.
func (s *Store) IsAuthenticated() bool {
	st := s.State()
	return st.Authenticated && st.Token != "" && st.User != nil && !st.User.ExpiredAt(s.now())
}

// User returns the signed-in user, or nil when not authenticated.
func (s *Store) User() *domain.User {
	if !s.IsAuthenticated() {
		return nil
	}
	return s.State().User
}

// Token returns the bearer token, or "" when not authenticated.
func (s *Store) Token() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.State().Token
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
