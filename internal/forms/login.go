package forms

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"habitat/internal/models"
)

type LoginForm struct {
	Username string
	password string
	Errors   FieldErrors
}

func NewLoginForm() *LoginForm {
	return &LoginForm{Errors: FieldErrors{}}
}

func (f *LoginForm) Bind(v url.Values) {
	f.Username = strings.TrimSpace(v.Get("username"))
	f.password = v.Get("password")
}

func (f *LoginForm) Validate() bool {
	f.Errors = FieldErrors{}

	switch n := utf8.RuneCountInString(f.Username); {
	case n == 0:
		f.Errors.Add("username", "Please input your username!")
	case n < 3:
		f.Errors.Add("username", "Username must be at least 3 characters!")
	}

	switch n := utf8.RuneCountInString(f.password); {
	case n == 0:
		f.Errors.Add("password", "Please input your password!")
	case n < 5:
		f.Errors.Add("password", "Password must be at least 5 characters!")
	}

	return len(f.Errors) == 0
}

// Request returns the credentials. The password is never rendered back.
func (f *LoginForm) Request() models.LoginRequest {
	return models.LoginRequest{Username: f.Username, Password: f.password}
}
