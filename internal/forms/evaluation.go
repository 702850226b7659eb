package forms

import (
	"fmt"
	"net/url"
	"strings"

	"habitat/internal/models"
)

// NoCriteriaLeft explains a disabled selector.
const NoCriteriaLeft = "All available criteria have already been added to this planet."

// EvaluationForm is the add/edit dialog for one planet evaluation.
type EvaluationForm struct {
	IsEdit bool

	CriteriaID string
	Value      string
	Score      string
	IsMet      bool
	Notes      string

	// Available is the selectable catalog in create mode.
	Available []models.Criteria
	// Selected surfaces the threshold range and unit for reference.
	Selected *models.Criteria

	Errors FieldErrors

	value, score float64
}

// AvailableCriteria removes from catalog every criteria already evaluated.
func AvailableCriteria(catalog []models.Criteria, existing []models.PlanetCriteria) []models.Criteria {
	used := make(map[string]struct{}, len(existing))
	for _, pc := range existing {
		used[pc.CriteriaID] = struct{}{}
	}
	out := make([]models.Criteria, 0, len(catalog))
	for _, c := range catalog {
		if _, ok := used[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// NewEvaluationForm opens the dialog in create mode.
func NewEvaluationForm(catalog []models.Criteria, existing []models.PlanetCriteria) *EvaluationForm {
	return &EvaluationForm{
		Value:     "0",
		Score:     "0",
		Available: AvailableCriteria(catalog, existing),
		Errors:    FieldErrors{},
	}
}

// EditEvaluationForm opens the dialog in edit mode. The criteria cannot be changed.
func EditEvaluationForm(pc *models.PlanetCriteria) *EvaluationForm {
	return &EvaluationForm{
		IsEdit:     true,
		CriteriaID: pc.CriteriaID,
		Value:      formatNumber(pc.Value),
		Score:      formatNumber(pc.Score),
		IsMet:      pc.IsMet,
		Notes:      pc.Notes,
		Selected: &models.Criteria{
			ID:               pc.CriteriaID,
			Name:             pc.CriteriaName,
			Description:      pc.CriteriaDescription,
			Category:         pc.CriteriaCategory,
			MinimumThreshold: pc.MinimumThreshold,
			MaximumThreshold: pc.MaximumThreshold,
			Unit:             pc.Unit,
			Weight:           pc.Weight,
			IsRequired:       pc.IsRequired,
		},
		Errors: FieldErrors{},
	}
}

// Disabled is true when there is nothing left to add.
func (f *EvaluationForm) Disabled() bool {
	return !f.IsEdit && len(f.Available) == 0
}

func (f *EvaluationForm) EmptyMessage() string {
	if f.Disabled() {
		return NoCriteriaLeft
	}
	return ""
}

// Select picks a criteria from the available list. Unknown ids clear the selection.
func (f *EvaluationForm) Select(criteriaID string) bool {
	if f.IsEdit {
		return false
	}
	f.CriteriaID = criteriaID
	f.Selected = nil
	for i := range f.Available {
		if f.Available[i].ID == criteriaID {
			c := f.Available[i]
			f.Selected = &c
			return true
		}
	}
	return false
}

// RangeHint describes the accepted value range of the selected criteria.
func (f *EvaluationForm) RangeHint() string {
	if f.Selected == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("Range: %s - %s %s",
		formatNumber(f.Selected.MinimumThreshold),
		formatNumber(f.Selected.MaximumThreshold),
		f.Selected.Unit))
}

// Bind copies submitted values over the form. In edit mode the criteria id
// is kept.
func (f *EvaluationForm) Bind(v url.Values) {
	if !f.IsEdit {
		f.Select(v.Get("criteriaId"))
	}
	f.Value = v.Get("value")
	f.Score = v.Get("score")
	f.IsMet = checked(v.Get("isMet"))
	f.Notes = strings.TrimSpace(v.Get("notes"))
}

// Validate fills Errors and reports whether the form is valid.
func (f *EvaluationForm) Validate() bool {
	f.Errors = FieldErrors{}

	if !f.IsEdit && f.Selected == nil {
		f.Errors.Add("criteriaId", "Please select a criteria!")
	}

	value, hasValue, err := parseNumber(f.Value)
	switch {
	case !hasValue || err != nil:
		f.Errors.Add("value", "Please enter a value!")
	case f.Selected != nil && (value < f.Selected.MinimumThreshold || value > f.Selected.MaximumThreshold):
		f.Errors.Add("value", fmt.Sprintf("Value must be between %s and %s",
			formatNumber(f.Selected.MinimumThreshold), formatNumber(f.Selected.MaximumThreshold)))
	}
	f.value = value

	score, hasScore, err := parseNumber(f.Score)
	switch {
	case !hasScore || err != nil:
		f.Errors.Add("score", "Please enter a score!")
	case score < 0 || score > 10:
		f.Errors.Add("score", "Score must be between 0 and 10!")
	}
	f.score = score

	return len(f.Errors) == 0
}

// Input is the trimmed evaluation. Call after a successful Validate.
func (f *EvaluationForm) Input() models.PlanetCriteriaInput {
	return models.PlanetCriteriaInput{
		CriteriaID: f.CriteriaID,
		Value:      f.value,
		Score:      f.score,
		IsMet:      f.IsMet,
		Notes:      f.Notes,
	}
}

// Evaluation is the full record to stage, criteria fields included.
func (f *EvaluationForm) Evaluation() models.PlanetCriteria {
	in := f.Input()
	pc := models.PlanetCriteria{
		Value: in.Value,
		Score: in.Score,
		IsMet: in.IsMet,
		Notes: in.Notes,
	}
	if f.Selected != nil {
		pc.WithCriteria(f.Selected)
	}
	pc.CriteriaID = in.CriteriaID
	return pc
}

// Submit validates and passes the evaluation to fn.
func (f *EvaluationForm) Submit(fn func(models.PlanetCriteria) error) error {
	if !f.Validate() {
		return ErrInvalid
	}
	return fn(f.Evaluation())
}
