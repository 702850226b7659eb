package handler

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"habitat/internal/domain"
	"habitat/internal/draft"
	"habitat/internal/models"
	"habitat/internal/session"
)

//go:embed templates/*.html
var templateFiles embed.FS

// AuthAPI is the login endpoint.
type AuthAPI interface {
	Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error)
}

// CriteriaAPI is the criteria catalog endpoint.
type CriteriaAPI interface {
	List(ctx context.Context, token string) ([]models.Criteria, error)
	Get(ctx context.Context, id, token string) (*models.Criteria, error)
	Create(ctx context.Context, req models.CreateCriteriaRequest, token string) (*models.Criteria, error)
	Update(ctx context.Context, req models.UpdateCriteriaRequest, token string) (*models.Criteria, error)
	Delete(ctx context.Context, id, token string) error
}

// PlanetAPI is the planet endpoint.
type PlanetAPI interface {
	List(ctx context.Context, token string) ([]models.Planet, error)
	Get(ctx context.Context, id, token string) (*models.Planet, error)
	Update(ctx context.Context, req models.UpdatePlanetRequest, token string) (*models.Planet, error)
}

// Handler holds the dependencies of every page.
type Handler struct {
	Auth     AuthAPI
	Criteria CriteriaAPI
	Planets  PlanetAPI
	Drafts   draft.Store
	Tmpl     *template.Template

	logger *zap.Logger
}

// NewHandler parses the embedded templates and wires the API clients.
func NewHandler(authAPI AuthAPI, criteriaAPI CriteriaAPI, planetAPI PlanetAPI, drafts draft.Store, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	logger.Debug("Templates loaded", zap.Int("count", len(tmpl.Templates())))

	return &Handler{
		Auth:     authAPI,
		Criteria: criteriaAPI,
		Planets:  planetAPI,
		Drafts:   drafts,
		Tmpl:     tmpl,
		logger:   logger.Named("handler"),
	}, nil
}

var funcMap = template.FuncMap{
	"formatTemperature": formatTemperature,
	"formatDistance":    formatDistance,
	"formatDate":        formatDate,
	"formatNumber":      formatNumber,
	"categoryColor":     categoryColor,
	"percentOfRange":    percentOfRange,
}

// formatTemperature renders kelvin with the celsius equivalent.
func formatTemperature(k float64) string {
	return fmt.Sprintf("%sK (%.1f°C)", formatNumber(k), k-273.15)
}

// formatDistance renders a distance in AU. Below one AU it switches to
// million km; zero is the Earth itself.
func formatDistance(au float64) string {
	switch {
	case au == 0:
		return "Home Planet"
	case au < 1:
		return fmt.Sprintf("%.1f million km", au*149.6)
	}
	return fmt.Sprintf("%.2f AU", au)
}

func formatDate(s string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func categoryColor(category string) string {
	switch category {
	case models.CategoryCritical:
		return "red"
	case models.CategoryImportant:
		return "orange"
	case models.CategoryModerate:
		return "blue"
	}
	return "green"
}

// percentOfRange places value inside [min, max] as a 0-100 progress figure.
func percentOfRange(value, min, max float64) int {
	if max <= min {
		return 0
	}
	p := (value - min) / (max - min) * 100
	return int(math.Round(math.Max(0, math.Min(100, p))))
}

// newPage fills the shell part of the page: user, navigation and the flash
// messages carried on the query string.
func (h *Handler) newPage(r *http.Request, title, current string) models.PageData {
	user := session.FromContext(r.Context()).User()
	q := r.URL.Query()
	return models.PageData{
		Title:        title,
		CurrentPage:  current,
		Nav:          navigation(user, current),
		User:         user,
		IsSuperAdmin: domain.Can(user, domain.ManageCriteria),
		Success:      q.Get("success"),
		Error:        q.Get("error"),
		Info:         q.Get("info"),
	}
}

// navSection maps each page to the navigation entry it belongs under.
var navSection = map[string]string{
	"planets":              "planets",
	"planet_detail":        "planets",
	"planet_criteria_form": "planets",
	"criteria":             "criteria",
	"criteria_form":        "criteria",
}

func navigation(user *domain.User, current string) []models.NavItem {
	var items []models.NavItem
	if domain.Can(user, domain.ViewPlanets) {
		items = append(items, models.NavItem{Key: "planets", Label: "Planets", URL: "/planets"})
	}
	if domain.Can(user, domain.ManageCriteria) {
		items = append(items, models.NavItem{Key: "criteria", Label: "Criteria", URL: "/criteria"})
	}
	for i := range items {
		items[i].Active = navSection[current] == items[i].Key
	}
	return items
}

// render executes the layout into a buffer so a template failure never
// leaves a half-written page.
func (h *Handler) render(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := h.Tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		h.logger.Error("Failed to execute template", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Flash kinds.
const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

// redirect sends the browser to target with a one-shot notification.
func redirect(w http.ResponseWriter, r *http.Request, target, kind, msg string) {
	if msg != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + kind + "=" + url.QueryEscape(msg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// errorMessage prefers the server message and falls back to fallback.
func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

// HomeHandler - welcome page
func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	data := h.newPage(r, "Home", "home")

	if store := session.FromContext(r.Context()); store.IsAuthenticated() {
		if planets, err := h.Planets.List(r.Context(), store.Token()); err != nil {
			h.logger.Warn("Failed to count planets", zap.Error(err))
		} else {
			data.PlanetCount = len(planets)
		}
		if data.IsSuperAdmin {
			if criteria, err := h.Criteria.List(r.Context(), store.Token()); err != nil {
				h.logger.Warn("Failed to count criteria", zap.Error(err))
			} else {
				data.CriteriaCount = len(criteria)
			}
		}
	}

	h.render(w, http.StatusOK, data)
}

// HealthHandler reports liveness.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
