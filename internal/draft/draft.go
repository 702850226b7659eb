// Package draft stages unsaved edits to a planet's evaluation list. The
// working copy diverges from the last confirmed server snapshot until it is
// committed or discarded.
package draft

import (
	"errors"

	"habitat/internal/models"
)

var (
	ErrDuplicateEvaluation = errors.New("this criteria is already evaluated for the planet")
	ErrEvaluationNotFound  = errors.New("evaluation not found")
)

type Draft struct {
	Snapshot   models.Planet `json:"snapshot"`
	Working    models.Planet `json:"working"`
	HasChanges bool          `json:"hasChanges"`
}

// New starts a clean draft from a server snapshot.
func New(planet models.Planet) *Draft {
	return &Draft{
		Snapshot: planet.Clone(),
		Working:  planet.Clone(),
	}
}

// AddEvaluation appends pc unless its criteria is already on the planet.
func (d *Draft) AddEvaluation(pc models.PlanetCriteria) error {
	if d.Working.Evaluation(pc.CriteriaID) != nil {
		return ErrDuplicateEvaluation
	}
	pc.PlanetID = d.Working.ID
	d.Working.Criteria = append(d.Working.Criteria, pc)
	d.HasChanges = true
	return nil
}

// EditEvaluation changes the operator-entered fields. The criteria itself
// cannot change once added.
func (d *Draft) EditEvaluation(criteriaID string, in models.PlanetCriteriaInput) error {
	pc := d.Working.Evaluation(criteriaID)
	if pc == nil {
		return ErrEvaluationNotFound
	}
	pc.Value = in.Value
	pc.Score = in.Score
	pc.IsMet = in.IsMet
	pc.Notes = in.Notes
	d.HasChanges = true
	return nil
}

func (d *Draft) DeleteEvaluation(criteriaID string) error {
	for i := range d.Working.Criteria {
		if d.Working.Criteria[i].CriteriaID == criteriaID {
			d.Working.Criteria = append(d.Working.Criteria[:i:i], d.Working.Criteria[i+1:]...)
			d.HasChanges = true
			return nil
		}
	}
	return ErrEvaluationNotFound
}

// Payload is the full update body: scalar planet fields plus the trimmed
// evaluation list.
func (d *Draft) Payload() models.UpdatePlanetRequest {
	p := d.Working
	inputs := make([]models.PlanetCriteriaInput, 0, len(p.Criteria))
	for i := range p.Criteria {
		inputs = append(inputs, p.Criteria[i].Input())
	}
	return models.UpdatePlanetRequest{
		PlanetID:               p.ID,
		Name:                   p.Name,
		StellarSystem:          p.StellarSystem,
		DistanceFromEarth:      p.DistanceFromEarth,
		Radius:                 p.Radius,
		Mass:                   p.Mass,
		SurfaceTemperature:     p.SurfaceTemperature,
		SurfaceGravity:         p.SurfaceGravity,
		HasAtmosphere:          p.HasAtmosphere,
		AtmosphericComposition: p.AtmosphericComposition,
		AtmosphericPressure:    p.AtmosphericPressure,
		HasWater:               p.HasWater,
		WaterCoverage:          p.WaterCoverage,
		PlanetType:             p.PlanetType,
		DiscoveryDate:          p.DiscoveryDate,
		UserID:                 p.UserID,
		PlanetCriteria:         inputs,
	}
}

// Commit makes saved the new snapshot and working copy. An empty response
// (no id) confirms the working copy as sent.
func (d *Draft) Commit(saved *models.Planet) {
	confirmed := d.Working
	if saved != nil && saved.ID != "" {
		confirmed = *saved
	}
	d.Snapshot = confirmed.Clone()
	d.Working = confirmed.Clone()
	d.HasChanges = false
}

// Discard drops the working copy.
func (d *Draft) Discard() {
	d.Working = d.Snapshot.Clone()
	d.HasChanges = false
}
