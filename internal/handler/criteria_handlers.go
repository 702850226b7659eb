package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"habitat/internal/domain"
	"habitat/internal/forms"
	"habitat/internal/models"
	"habitat/internal/session"
)

// CriteriaHandler - criteria catalog
func (h *Handler) CriteriaHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.ManageCriteria, loginForCriteria)
	if !ok {
		return
	}

	data := h.newPage(r, "Habitability Criteria", "criteria")
	criteria, err := h.Criteria.List(r.Context(), store.Token())
	if err != nil {
		h.logger.Error("Failed to load criteria", zap.Error(err))
		data.Error = errorMessage(err, "Failed to load criteria")
	}
	data.Criteria = criteria
	data.CriteriaCount = len(criteria)

	h.render(w, http.StatusOK, data)
}

// NewCriteriaHandler - create dialog
func (h *Handler) NewCriteriaHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.ManageCriteria, loginForCriteria)
	if !ok {
		return
	}
	h.criteriaForm(w, r, store, forms.NewCriteriaForm(nil, false), "Add New Criteria")
}

// EditCriteriaHandler - update dialog
func (h *Handler) EditCriteriaHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.ManageCriteria, loginForCriteria)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	c, err := h.Criteria.Get(r.Context(), id, store.Token())
	if err != nil {
		h.logger.Error("Failed to load criteria", zap.String("criteriaId", id), zap.Error(err))
		redirect(w, r, "/criteria", flashError, errorMessage(err, "Failed to load criteria"))
		return
	}
	h.criteriaForm(w, r, store, forms.NewCriteriaForm(c, true), "Edit Criteria")
}

func (h *Handler) criteriaForm(w http.ResponseWriter, r *http.Request, store *session.Store, form *forms.CriteriaForm, title string) {
	data := h.newPage(r, title, "criteria_form")
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

	var success, fallback string
	err := form.Submit(
		func(req models.CreateCriteriaRequest) error {
			success, fallback = "Criteria created successfully!", "Failed to create criteria"
			_, err := h.Criteria.Create(r.Context(), req, store.Token())
			return err
		},
		func(req models.UpdateCriteriaRequest) error {
			success, fallback = "Criteria updated successfully!", "Failed to update criteria"
			_, err := h.Criteria.Update(r.Context(), req, store.Token())
			return err
		},
	)
	switch {
	case errors.Is(err, forms.ErrInvalid):
		h.render(w, http.StatusUnprocessableEntity, data)
		return
	case err != nil:
		// The dialog stays open with what the operator typed.
		h.logger.Error(fallback, zap.Error(err))
		data.Error = errorMessage(err, fallback)
		h.render(w, http.StatusOK, data)
		return
	}

	redirect(w, r, "/criteria", flashSuccess, success)
}

// DeleteCriteriaHandler removes a criteria from the catalog.
func (h *Handler) DeleteCriteriaHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireCapability(w, r, domain.ManageCriteria, loginForCriteria)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.Criteria.Delete(r.Context(), id, store.Token()); err != nil {
		h.logger.Error("Failed to delete criteria", zap.String("criteriaId", id), zap.Error(err))
		redirect(w, r, "/criteria", flashError, errorMessage(err, "Failed to delete criteria"))
		return
	}
	redirect(w, r, "/criteria", flashSuccess, "Criteria deleted successfully!")
}
