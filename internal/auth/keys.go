package auth

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"
)

const keySalt = "habitat-console-cookies"

// CookieKeys derives the HMAC key (64 bytes) and the AES key (32 bytes) for
// session cookies from one passphrase. The passphrase must stay the same across
// restarts and replicas.
func CookieKeys(secret string) (hashKey, blockKey []byte, err error) {
	r := hkdf.New(sha256.New, []byte(secret), []byte(keySalt), []byte("cookie keys v1"))
	hashKey = make([]byte, 64)
	blockKey = make([]byte, 32)
	if _, err := io.ReadFull(r, hashKey); err != nil {
		return nil, nil, fmt.Errorf("derive hash key: %w", err)
	}
	if _, err := io.ReadFull(r, blockKey); err != nil {
		return nil, nil, fmt.Errorf("derive block key: %w", err)
	}
	return hashKey, blockKey, nil
}

// NewCookieStore builds the signed and encrypted cookie store shared by the
// storage backends.
//
// Security settings:
// - HttpOnly: true
// - Secure: configurable (HTTPS deployments)
// - SameSite: Lax, so the login redirect keeps the cookie
func NewCookieStore(secret string, secure bool, maxAgeDays int) (*sessions.CookieStore, error) {
	hashKey, blockKey, err := CookieKeys(secret)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeDays * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)
	return store, nil
}
