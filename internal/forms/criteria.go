package forms

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"habitat/internal/models"
)

// CriteriaForm is the create/update dialog for a criteria.
type CriteriaForm struct {
	IsEdit bool
	ID     string

	Name             string
	Description      string
	Category         string
	MinimumThreshold string
	MaximumThreshold string
	Unit             string
	Weight           string
	IsRequired       bool

	Errors FieldErrors

	minimum, maximum, weight float64
}

// NewCriteriaForm pre-fills from c in edit mode; create mode starts from the
// defaults (Critical, weight 50, required).
func NewCriteriaForm(c *models.Criteria, isEdit bool) *CriteriaForm {
	if isEdit && c != nil {
		return &CriteriaForm{
			IsEdit:           true,
			ID:               c.ID,
			Name:             c.Name,
			Description:      c.Description,
			Category:         c.Category,
			MinimumThreshold: formatNumber(c.MinimumThreshold),
			MaximumThreshold: formatNumber(c.MaximumThreshold),
			Unit:             c.Unit,
			Weight:           formatNumber(c.Weight),
			IsRequired:       c.IsRequired,
			Errors:           FieldErrors{},
		}
	}
	return &CriteriaForm{
		Category:   models.CategoryCritical,
		Weight:     "50",
		IsRequired: true,
		Errors:     FieldErrors{},
	}
}

// Categories is exposed for the select element.
func (f *CriteriaForm) Categories() []string {
	return models.Categories
}

// Bind copies submitted values over the form. The id never comes from input.
func (f *CriteriaForm) Bind(v url.Values) {
	f.Name = strings.TrimSpace(v.Get("name"))
	f.Description = strings.TrimSpace(v.Get("description"))
	f.Category = v.Get("category")
	f.MinimumThreshold = v.Get("minimumThreshold")
	f.MaximumThreshold = v.Get("maximumThreshold")
	f.Unit = strings.TrimSpace(v.Get("unit"))
	f.Weight = v.Get("weight")
	f.IsRequired = checked(v.Get("isRequired"))
}

// Validate fills Errors and reports whether the form is valid.
func (f *CriteriaForm) Validate() bool {
	f.Errors = FieldErrors{}

	switch n := utf8.RuneCountInString(f.Name); {
	case n == 0:
		f.Errors.Add("name", "Please enter criteria name!")
	case n < 2:
		f.Errors.Add("name", "Name must be at least 2 characters!")
	}

	switch n := utf8.RuneCountInString(f.Description); {
	case n == 0:
		f.Errors.Add("description", "Please enter description!")
	case n < 10:
		f.Errors.Add("description", "Description must be at least 10 characters!")
	}

	if !models.IsCategory(f.Category) {
		f.Errors.Add("category", "Please select a category!")
	}

	var hasMin, hasMax bool
	var err error
	if f.minimum, hasMin, err = parseNumber(f.MinimumThreshold); !hasMin || err != nil {
		f.Errors.Add("minimumThreshold", "Please enter minimum threshold!")
	}
	if f.maximum, hasMax, err = parseNumber(f.MaximumThreshold); !hasMax || err != nil {
		f.Errors.Add("maximumThreshold", "Please enter maximum threshold!")
	}
	if !f.Errors.Has("minimumThreshold") && !f.Errors.Has("maximumThreshold") && f.maximum < f.minimum {
		f.Errors.Add("maximumThreshold", "Maximum threshold must not be below the minimum!")
	}

	if f.Unit == "" {
		f.Errors.Add("unit", "Please enter unit!")
	}

	weight, hasWeight, err := parseNumber(f.Weight)
	switch {
	case !hasWeight:
		f.Errors.Add("weight", "Please enter weight!")
	case err != nil || weight < 0 || weight > 100:
		f.Errors.Add("weight", "Weight must be between 0 and 100!")
	}
	f.weight = weight

	return len(f.Errors) == 0
}

func (f *CriteriaForm) createRequest() models.CreateCriteriaRequest {
	return models.CreateCriteriaRequest{
		Name:             f.Name,
		Description:      f.Description,
		Category:         f.Category,
		MinimumThreshold: f.minimum,
		MaximumThreshold: f.maximum,
		Unit:             f.Unit,
		Weight:           f.weight,
		IsRequired:       f.IsRequired,
	}
}

// Submit validates and hands the payload to onCreate or, in edit mode, to
// onUpdate. It returns ErrInvalid without calling either when validation fails.
func (f *CriteriaForm) Submit(
	onCreate func(models.CreateCriteriaRequest) error,
	onUpdate func(models.UpdateCriteriaRequest) error,
) error {
	if !f.Validate() {
		return ErrInvalid
	}
	if f.IsEdit {
		return onUpdate(models.UpdateCriteriaRequest{ID: f.ID, CreateCriteriaRequest: f.createRequest()})
	}
	return onCreate(f.createRequest())
}
