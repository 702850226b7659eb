package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"habitat/internal/models"
)

// ErrNoExpiry - the token carries no exp claim
var ErrNoExpiry = errors.New("token has no expiry")

// TokenExpiry reads the exp claim of a bearer token. The signature is not
// checked: the console never trusts the token, it only forwards it to the API.
func TokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// NormalizeLogin fills expiresAt from the token when the API left it empty or
// sent something unreadable.
func NormalizeLogin(resp *models.LoginResponse) {
	u := resp.User()
	if _, err := u.Expiry(); err == nil {
		return
	}
	if exp, err := TokenExpiry(resp.Token); err == nil {
		resp.ExpiresAt = exp.UTC().Format(time.RFC3339)
	}
}

// Fingerprint is a short stable digest of a token, safe to use in keys and logs.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:12])
}
