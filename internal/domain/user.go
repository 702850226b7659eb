package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UserType is the role of an operator as reported by the API.
type UserType string

const (
	SuperAdmin  UserType = "SuperAdmin"
	Admin       UserType = "Admin"
	RegularUser UserType = "User"
)

// numeric values used by the API enum
var userTypeByNumber = map[int]UserType{
	0: SuperAdmin,
	1: Admin,
	2: RegularUser,
}

// ParseUserType accepts either the role name or its numeric enum value.
func ParseUserType(s string) (UserType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if t, ok := userTypeByNumber[n]; ok {
			return t, nil
		}
		return "", fmt.Errorf("unknown user type %d", n)
	}
	for _, t := range userTypeByNumber {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown user type %q", s)
}

func (t UserType) String() string {
	if t == "" {
		return "Unknown"
	}
	return string(t)
}

// UnmarshalJSON decodes both "SuperAdmin" and 0 style payloads.
func (t *UserType) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var s string
	switch v := raw.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		s = v
	case float64:
		s = strconv.Itoa(int(v))
	default:
		return fmt.Errorf("unsupported user type value %s", string(data))
	}
	parsed, err := ParseUserType(s)
	if err != nil {
		// keep unknown roles as-is, they simply grant nothing
		*t = UserType(s)
		return nil
	}
	*t = parsed
	return nil
}

// User is the authenticated identity kept for one session.
type User struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	UserType  UserType `json:"userType"`
	ExpiresAt string   `json:"expiresAt"`
}

var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
}

// Expiry parses ExpiresAt. Timestamps without a zone are read as UTC.
func (u *User) Expiry() (time.Time, error) {
	for _, layout := range expiryLayouts {
		if ts, err := time.Parse(layout, u.ExpiresAt); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid expiry %q", u.ExpiresAt)
}

// ExpiredAt reports whether the session is over at the given instant.
// An unreadable expiry counts as expired.
func (u *User) ExpiredAt(now time.Time) bool {
	exp, err := u.Expiry()
	if err != nil {
		return true
	}
	return !now.Before(exp)
}

func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
