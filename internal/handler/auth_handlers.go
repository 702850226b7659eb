package handler

import (
	"net/http"

	"go.uber.org/zap"

	"habitat/internal/auth"
	"habitat/internal/forms"
	"habitat/internal/session"
)

const loginFailed = "Login failed. Please try again."

// LoginHandler - sign-in page
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())
	if store.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	form := forms.NewLoginForm()
	data := h.newPage(r, "Sign In", "login")
	data.Form = form

	if r.Method != http.MethodPost {
		h.render(w, http.StatusOK, data)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, data)
		return
	}
	form.Bind(r.PostForm)
	if !form.Validate() {
		h.render(w, http.StatusUnprocessableEntity, data)
		return
	}

	store.LoginStart()
	resp, err := h.Auth.Login(r.Context(), form.Request())
	if err != nil {
		store.LoginFailure()
		h.logger.Info("Login failed", zap.String("username", form.Username), zap.Error(err))
		data.Error = errorMessage(err, loginFailed)
		h.render(w, http.StatusUnauthorized, data)
		return
	}

	auth.NormalizeLogin(resp)
	store.LoginSuccess(resp.User(), resp.Token)
	h.logger.Info("Signed in",
		zap.String("username", resp.Username),
		zap.String("token", auth.Fingerprint(resp.Token)))

	redirect(w, r, "/", flashSuccess, "Welcome back, "+resp.FirstName+"!")
}

// LogoutHandler ends the session and clears the browser's stored keys.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	store := session.FromContext(r.Context())
	if user := store.State().User; user != nil {
		h.logger.Info("Signed out", zap.String("username", user.Username))
	}
	store.Logout()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
