package handler

import (
	"net/http"

	"go.uber.org/zap"

	"habitat/internal/domain"
	"habitat/internal/session"
)

// Login prompts shown when a protected page is opened without a session.
const (
	loginForPlanets      = "Please login to view planets"
	loginForPlanetDetail = "Please login to view planet details"
	loginForCriteria     = "Please login to view criteria"
	accessDenied         = "Access denied. SuperAdmin privileges required."
)

// requireCapability lets the request through when the session holds c. An
// unauthenticated browser goes to the login page with prompt; an
// authenticated one without the capability goes home.
func (h *Handler) requireCapability(w http.ResponseWriter, r *http.Request, c domain.Capability, prompt string) (*session.Store, bool) {
	store := session.FromContext(r.Context())
	if !store.IsAuthenticated() {
		redirect(w, r, "/login", flashError, prompt)
		return nil, false
	}

	user := store.User()
	if !domain.Can(user, c) {
		h.logger.Info("Capability denied",
			zap.String("username", user.Username),
			zap.Stringer("userType", user.UserType),
			zap.String("path", r.URL.Path))
		redirect(w, r, "/", flashError, accessDenied)
		return nil, false
	}
	return store, true
}
