package models

import "habitat/internal/domain"

// Criteria categories accepted by the API.
const (
	CategoryCritical  = "Critical"
	CategoryImportant = "Important"
	CategoryModerate  = "Moderate"
	CategoryOptional  = "Optional"
)

// Categories lists the criteria categories in display order.
var Categories = []string{CategoryCritical, CategoryImportant, CategoryModerate, CategoryOptional}

// IsCategory reports whether c is one of the enumerated categories.
func IsCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	UserType  domain.UserType `json:"userType"`
	ExpiresAt string          `json:"expiresAt"`
}

// User returns the identity part of the login response.
func (r *LoginResponse) User() *domain.User {
	return &domain.User{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		UserType:  r.UserType,
		ExpiresAt: r.ExpiresAt,
	}
}

type Criteria struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	MinimumThreshold float64 `json:"minimumThreshold"`
	MaximumThreshold float64 `json:"maximumThreshold"`
	Unit             string  `json:"unit"`
	Weight           float64 `json:"weight"`
	IsRequired       bool    `json:"isRequired"`
	CreatedDate      string  `json:"createdDate"`
	ModifiedDate     *string `json:"modifiedDate,omitempty"`
}

type CreateCriteriaRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	MinimumThreshold float64 `json:"minimumThreshold"`
	MaximumThreshold float64 `json:"maximumThreshold"`
	Unit             string  `json:"unit"`
	Weight           float64 `json:"weight"`
	IsRequired       bool    `json:"isRequired"`
}

type UpdateCriteriaRequest struct {
	ID string `json:"id"`
	CreateCriteriaRequest
}

// PlanetCriteria is one evaluation of a planet against a criteria,
// carrying a copy of the criteria fields for display.
type PlanetCriteria struct {
	ID             string  `json:"id"`
	PlanetID       string  `json:"planetId"`
	CriteriaID     string  `json:"criteriaId"`
	Value          float64 `json:"value"`
	Score          float64 `json:"score"`
	IsMet          bool    `json:"isMet"`
	Notes          string  `json:"notes"`
	EvaluationDate string  `json:"evaluationDate"`

	CriteriaName        string  `json:"criteriaName"`
	CriteriaDescription string  `json:"criteriaDescription"`
	CriteriaCategory    string  `json:"criteriaCategory"`
	MinimumThreshold    float64 `json:"minimumThreshold"`
	MaximumThreshold    float64 `json:"maximumThreshold"`
	Unit                string  `json:"unit"`
	Weight              float64 `json:"weight"`
	IsRequired          bool    `json:"isRequired"`
}

// Input trims the evaluation to the fields the update endpoint accepts.
func (pc *PlanetCriteria) Input() PlanetCriteriaInput {
	return PlanetCriteriaInput{
		CriteriaID: pc.CriteriaID,
		Value:      pc.Value,
		Score:      pc.Score,
		IsMet:      pc.IsMet,
		Notes:      pc.Notes,
	}
}

// WithCriteria copies the descriptive criteria fields onto the evaluation.
func (pc *PlanetCriteria) WithCriteria(c *Criteria) {
	pc.CriteriaID = c.ID
	pc.CriteriaName = c.Name
	pc.CriteriaDescription = c.Description
	pc.CriteriaCategory = c.Category
	pc.MinimumThreshold = c.MinimumThreshold
	pc.MaximumThreshold = c.MaximumThreshold
	pc.Unit = c.Unit
	pc.Weight = c.Weight
	pc.IsRequired = c.IsRequired
}

type PlanetCriteriaInput struct {
	CriteriaID string  `json:"criteriaId"`
	Value      float64 `json:"value"`
	Score      float64 `json:"score"`
	IsMet      bool    `json:"isMet"`
	Notes      string  `json:"notes"`
}

type Planet struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	StellarSystem          string           `json:"stellarSystem"`
	DistanceFromEarth      float64          `json:"distanceFromEarth"`
	Radius                 float64          `json:"radius"`
	Mass                   float64          `json:"mass"`
	SurfaceTemperature     float64          `json:"surfaceTemperature"`
	SurfaceGravity         float64          `json:"surfaceGravity"`
	HasAtmosphere          bool             `json:"hasAtmosphere"`
	AtmosphericComposition string           `json:"atmosphericComposition"`
	AtmosphericPressure    float64          `json:"atmosphericPressure"`
	HasWater               bool             `json:"hasWater"`
	WaterCoverage          float64          `json:"waterCoverage"`
	PlanetType             string           `json:"planetType"`
	DiscoveryDate          string           `json:"discoveryDate"`
	UserID                 string           `json:"userId"`
	Criteria               []PlanetCriteria `json:"criteria"`
}

// Evaluation returns the evaluation for criteriaID, or nil.
func (p *Planet) Evaluation(criteriaID string) *PlanetCriteria {
	for i := range p.Criteria {
		if p.Criteria[i].CriteriaID == criteriaID {
			return &p.Criteria[i]
		}
	}
	return nil
}

// CriteriaIDs returns the set of criteria already evaluated on the planet.
func (p *Planet) CriteriaIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(p.Criteria))
	for _, pc := range p.Criteria {
		ids[pc.CriteriaID] = struct{}{}
	}
	return ids
}

// Clone deep-copies the planet so the evaluation slice is not shared.
func (p *Planet) Clone() Planet {
	cp := *p
	if p.Criteria != nil {
		cp.Criteria = make([]PlanetCriteria, len(p.Criteria))
		copy(cp.Criteria, p.Criteria)
	}
	return cp
}

// UpdatePlanetRequest is the body of PUT /Planet/{planetId}.
type UpdatePlanetRequest struct {
	PlanetID               string                `json:"planetId"`
	Name                   string                `json:"name"`
	StellarSystem          string                `json:"stellarSystem"`
	DistanceFromEarth      float64               `json:"distanceFromEarth"`
	Radius                 float64               `json:"radius"`
	Mass                   float64               `json:"mass"`
	SurfaceTemperature     float64               `json:"surfaceTemperature"`
	SurfaceGravity         float64               `json:"surfaceGravity"`
	HasAtmosphere          bool                  `json:"hasAtmosphere"`
	AtmosphericComposition string                `json:"atmosphericComposition"`
	AtmosphericPressure    float64               `json:"atmosphericPressure"`
	HasWater               bool                  `json:"hasWater"`
	WaterCoverage          float64               `json:"waterCoverage"`
	PlanetType             string                `json:"planetType"`
	DiscoveryDate          string                `json:"discoveryDate"`
	UserID                 string                `json:"userId"`
	PlanetCriteria         []PlanetCriteriaInput `json:"planetCriteria"`
}

// NavItem is one entry of the header menu.
type NavItem struct {
	Key    string
	Label  string
	URL    string
	Active bool
}

// PageData - data passed to the HTML templates
type PageData struct {
	Title        string
	CurrentPage  string
	Nav          []NavItem
	User         *domain.User
	IsSuperAdmin bool

	Success string
	Error   string
	Info    string

	PlanetCount   int
	CriteriaCount int
	Planets       []Planet
	Planet        *Planet
	Criteria      []Criteria
	HasChanges    bool

	Form interface{}
}
