package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"habitat/internal/domain"
	"habitat/internal/storage"
)

var (
	ErrNoStoredSession = errors.New("no stored session")
	ErrSessionExpired  = errors.New("stored session expired")
)

// Restore rehydrates s from durable storage without any network call. A
// missing, unreadable or expired record leaves s unauthenticated, and the
// stale keys are removed.
func Restore(s *Store, st storage.Storage) error {
	token, hasToken := st.Get(storage.KeyToken)
	raw, hasUser := st.Get(storage.KeyUser)
	if !hasToken || !hasUser || token == "" {
		return ErrNoStoredSession
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		Clear(st)
		return fmt.Errorf("decode stored user: %w", err)
	}
	if user.ExpiredAt(s.now()) {
		Clear(st)
		return ErrSessionExpired
	}

	s.SetAuthFromStorage(&user, token)
	return nil
}

// Persist writes the token and user record.
func Persist(st storage.Storage, user *domain.User, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	st.Set(storage.KeyToken, token)
	st.Set(storage.KeyUser, string(data))
	return nil
}

// Clear removes both keys.
func Clear(st storage.Storage) {
	st.Remove(storage.KeyToken)
	st.Remove(storage.KeyUser)
}

// SyncTo keeps st in step with s: successful logins are persisted, failures
// and logouts clear the keys. Restores are already in storage.
func SyncTo(s *Store, st storage.Storage, onError func(error)) (unsubscribe func()) {
	return s.Subscribe(func(action Action, state State) {
		switch action {
		case ActionLoginOK:
			if err := Persist(st, state.User, state.Token); err != nil && onError != nil {
				onError(err)
			}
		case ActionLoginFailed, ActionLogout:
			Clear(st)
		}
	})
}
