package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"habitat/internal/domain"
	"habitat/internal/draft"
	"habitat/internal/forms"
	"habitat/internal/session"
)

// PlanetsHandler - planet list
func (h *Handler) PlanetsHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.ViewPlanets, loginForPlanets)
	if !ok {
		return
	}

	data := h.newPage(r, "Planetary Database", "planets")
	planets, err := h.Planets.List(r.Context(), store.Token())
	if err != nil {
		h.logger.Error("Failed to load planets", zap.Error(err))
		data.Error = errorMessage(err, "Failed to load planets")
	}
	data.Planets = planets
	data.PlanetCount = len(planets)

	h.render(w, http.StatusOK, data)
}

// loadDraft returns the staged draft of a planet when it has unsaved changes,
// otherwise a clean draft over a fresh server snapshot.
func (h *Handler) loadDraft(ctx context.Context, store *session.Store, planetID string) (*draft.Draft, error) {
	key := draft.Key(store.Token(), planetID)
	d, err := h.Drafts.Get(ctx, key)
	switch {
	case err == nil && d.HasChanges:
		return d, nil
	case err != nil && !errors.Is(err, draft.ErrNotFound):
		h.logger.Warn("Failed to read draft", zap.String("planetId", planetID), zap.Error(err))
	}

	planet, err := h.Planets.Get(ctx, planetID, store.Token())
	if err != nil {
		return nil, err
	}
	return draft.New(*planet), nil
}

func (h *Handler) stage(ctx context.Context, store *session.Store, d *draft.Draft) error {
	return h.Drafts.Put(ctx, draft.Key(store.Token(), d.Working.ID), d)
}

func planetURL(id string) string {
	return "/planets/" + id
}

// PlanetDetailHandler - planet detail with its evaluations
func (h *Handler) PlanetDetailHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.ViewPlanets, loginForPlanetDetail)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	d, err := h.loadDraft(r.Context(), store, id)
	if err != nil {
		h.logger.Error("Failed to load planet details", zap.String("planetId", id), zap.Error(err))
		redirect(w, r, "/planets", flashError, errorMessage(err, "Failed to load planet details"))
		return
	}

	data := h.newPage(r, d.Working.Name, "planet_detail")
	data.Planet = &d.Working
	data.HasChanges = d.HasChanges
	h.render(w, http.StatusOK, data)
}

// NewEvaluationHandler adds an evaluation to the planet's draft.
func (h *Handler) NewEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.EditEvaluations, loginForPlanetDetail)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	d, err := h.loadDraft(r.Context(), store, id)
	if err != nil {
		redirect(w, r, "/planets", flashError, errorMessage(err, "Failed to load planet details"))
		return
	}

	catalog, err := h.Criteria.List(r.Context(), store.Token())
	if err != nil {
		h.logger.Error("Failed to fetch criteria", zap.Error(err))
		redirect(w, r, planetURL(id), flashError, errorMessage(err, "Failed to fetch criteria"))
		return
	}

	form := forms.NewEvaluationForm(catalog, d.Working.Criteria)
	data := h.newPage(r, "Add Criteria Evaluation", "planet_criteria_form")
	data.Planet = &d.Working
	data.HasChanges = d.HasChanges
	data.Form = form

	if r.Method != http.MethodPost {
		form.Select(r.URL.Query().Get("criteriaId"))
		h.render(w, http.StatusOK, data)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, data)
		return
	}
	if d.Working.Evaluation(r.PostForm.Get("criteriaId")) != nil {
		redirect(w, r, planetURL(id), flashError, draft.ErrDuplicateEvaluation.Error())
		return
	}

	form.Bind(r.PostForm)
	err = form.Submit(d.AddEvaluation)
	switch {
	case errors.Is(err, forms.ErrInvalid):
		h.render(w, http.StatusUnprocessableEntity, data)
		return
	case err != nil:
		redirect(w, r, planetURL(id), flashError, err.Error())
		return
	}

	if err := h.stage(r.Context(), store, d); err != nil {
		h.logger.Error("Failed to stage draft", zap.String("planetId", id), zap.Error(err))
		redirect(w, r, planetURL(id), flashError, "Failed to stage changes")
		return
	}
	redirect(w, r, planetURL(id), flashInfo, "Evaluation added. Save changes to apply it.")
}

// EditEvaluationHandler changes an evaluation in the planet's draft.
func (h *Handler) EditEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.EditEvaluations, loginForPlanetDetail)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	id, criteriaID := vars["id"], vars["criteriaId"]
	d, err := h.loadDraft(r.Context(), store, id)
	if err != nil {
		redirect(w, r, "/planets", flashError, errorMessage(err, "Failed to load planet details"))
		return
	}

	pc := d.Working.Evaluation(criteriaID)
	if pc == nil {
		redirect(w, r, planetURL(id), flashError, "Evaluation not found")
		return
	}

	form := forms.EditEvaluationForm(pc)
	data := h.newPage(r, "Edit Criteria Evaluation", "planet_criteria_form")
	data.Planet = &d.Working
	data.HasChanges = d.HasChanges
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
	if err := d.EditEvaluation(criteriaID, form.Input()); err != nil {
		redirect(w, r, planetURL(id), flashError, err.Error())
		return
	}

	if err := h.stage(r.Context(), store, d); err != nil {
		h.logger.Error("Failed to stage draft", zap.String("planetId", id), zap.Error(err))
		redirect(w, r, planetURL(id), flashError, "Failed to stage changes")
		return
	}
	redirect(w, r, planetURL(id), flashInfo, "Evaluation updated. Save changes to apply it.")
}

// DeleteEvaluationHandler removes an evaluation from the planet's draft.
func (h *Handler) DeleteEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.EditEvaluations, loginForPlanetDetail)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	d, err := h.loadDraft(r.Context(), store, id)
	if err != nil {
		redirect(w, r, "/planets", flashError, errorMessage(err, "Failed to load planet details"))
		return
	}

	if err := d.DeleteEvaluation(vars["criteriaId"]); err != nil {
		redirect(w, r, planetURL(id), flashError, "Evaluation not found")
		return
	}
	if err := h.stage(r.Context(), store, d); err != nil {
		h.logger.Error("Failed to stage draft", zap.String("planetId", id), zap.Error(err))
		redirect(w, r, planetURL(id), flashError, "Failed to stage changes")
		return
	}
	redirect(w, r, planetURL(id), flashInfo, "Evaluation removed. Save changes to apply it.")
}

// SavePlanetHandler sends the draft to the API. On success the draft is
// dropped and the browser goes back to the list; on failure the draft is kept.
func (h *Handler) SavePlanetHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.EditEvaluations, loginForPlanetDetail)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	d, err := h.loadDraft(r.Context(), store, id)
	if err != nil {
		redirect(w, r, "/planets", flashError, errorMessage(err, "Failed to load planet details"))
		return
	}
	if !d.HasChanges {
		redirect(w, r, planetURL(id), flashInfo, "No changes to save")
		return
	}

	saved, err := h.Planets.Update(r.Context(), d.Payload(), store.Token())
	if err != nil {
		h.logger.Error("Failed to update planet", zap.String("planetId", id), zap.Error(err))
		redirect(w, r, planetURL(id), flashError, errorMessage(err, "Failed to update planet"))
		return
	}
	d.Commit(saved)

	if err := h.Drafts.Delete(r.Context(), draft.Key(store.Token(), id)); err != nil {
		h.logger.Warn("Failed to drop saved draft", zap.String("planetId", id), zap.Error(err))
	}
	h.logger.Info("Planet updated",
		zap.String("planetId", id),
		zap.Int("evaluations", len(d.Working.Criteria)))

	redirect(w, r, "/planets", flashSuccess, "Planet "+d.Working.Name+" updated successfully!")
}

// DiscardPlanetHandler drops the draft.
func (h *Handler) DiscardPlanetHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.EditEvaluations, loginForPlanetDetail)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.Drafts.Delete(r.Context(), draft.Key(store.Token(), id)); err != nil {
		h.logger.Error("Failed to discard draft", zap.String("planetId", id), zap.Error(err))
		redirect(w, r, planetURL(id), flashError, "Failed to discard changes")
		return
	}
	redirect(w, r, planetURL(id), flashInfo, "Changes discarded")
}
