package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"habitat/internal/middleware"
	"habitat/internal/storage"
)

// Routes builds the router. Every page except the health check runs inside
// a browser session backed by backend.
func (h *Handler) Routes(backend storage.Backend, now func() time.Time, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)

	app := r.NewRoute().Subrouter()
	app.Use(middleware.Session(backend, now, logger))

	app.HandleFunc("/", h.HomeHandler).Methods(http.MethodGet)
	app.HandleFunc("/login", h.LoginHandler).Methods(http.MethodGet, http.MethodPost)
	app.HandleFunc("/logout", h.LogoutHandler).Methods(http.MethodPost)

	app.HandleFunc("/planets", h.PlanetsHandler).Methods(http.MethodGet)
	app.HandleFunc("/planets/{id}", h.PlanetDetailHandler).Methods(http.MethodGet)
	app.HandleFunc("/planets/{id}/criteria/new", h.NewEvaluationHandler).Methods(http.MethodGet, http.MethodPost)
	app.HandleFunc("/planets/{id}/criteria/{criteriaId}/edit", h.EditEvaluationHandler).Methods(http.MethodGet, http.MethodPost)
	app.HandleFunc("/planets/{id}/criteria/{criteriaId}/delete", h.DeleteEvaluationHandler).Methods(http.MethodPost)
	app.HandleFunc("/planets/{id}/save", h.SavePlanetHandler).Methods(http.MethodPost)
	app.HandleFunc("/planets/{id}/discard", h.DiscardPlanetHandler).Methods(http.MethodPost)

	app.HandleFunc("/criteria", h.CriteriaHandler).Methods(http.MethodGet)
	app.HandleFunc("/criteria/new", h.NewCriteriaHandler).Methods(http.MethodGet, http.MethodPost)
	app.HandleFunc("/criteria/{id}/edit", h.EditCriteriaHandler).Methods(http.MethodGet, http.MethodPost)
	app.HandleFunc("/criteria/{id}/delete", h.DeleteCriteriaHandler).Methods(http.MethodPost)

	return middleware.RequestLogger(logger)(r)
}
