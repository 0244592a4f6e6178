package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pantryhub/pantry-hub/internal/models"
	"github.com/pantryhub/pantry-hub/internal/repository"
)

type AssignmentHandler struct {
	assignmentRepo repository.MealAssignmentRepository
	recipeRepo     repository.RecipeRepository
}

func NewAssignmentHandler(assignmentRepo repository.MealAssignmentRepository, recipeRepo repository.RecipeRepository) *AssignmentHandler {
	return &AssignmentHandler{assignmentRepo: assignmentRepo, recipeRepo: recipeRepo}
}

func (handler *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if !validDate(from) || !validDate(to) {
		writeError(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD dates")
		return
	}

	assignments, err := handler.assignmentRepo.FindBetween(r.Context(), from, to)
	if err != nil {
		slog.Error("finding meal assignments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load assignments")
		return
	}
	if assignments == nil {
		assignments = []models.MealAssignment{}
	}
	writeJSON(w, http.StatusOK, assignments)
}

type upsertAssignmentRequest struct {
	Date     string          `json:"date"`
	Slot     models.MealSlot `json:"slot"`
	RecipeID string          `json:"recipeId"`
	Portions int             `json:"portions"`
}

func (handler *AssignmentHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request upsertAssignmentRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if !validDate(request.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if !validSlot(request.Slot) {
		writeError(w, http.StatusBadRequest, "slot must be lunch or dinner")
		return
	}
	if request.Portions < 1 {
		writeError(w, http.StatusBadRequest, "portions must be at least 1")
		return
	}

	recipe, err := handler.recipeRepo.FindByID(ctx, request.RecipeID)
	if errors.Is(err, repository.ErrRecipeNotFound) {
		writeError(w, http.StatusBadRequest, "recipe not found")
		return
	}
	if err != nil {
		slog.Error("finding recipe for assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save assignment")
		return
	}

	assignment := models.MealAssignment{
		Date:       request.Date,
		Slot:       request.Slot,
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		Portions:   request.Portions,
	}
	if err := handler.assignmentRepo.Upsert(ctx, assignment); err != nil {
		slog.Error("upserting meal assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save assignment")
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

func (handler *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	slot := models.MealSlot(chi.URLParam(r, "slot"))
	if !validDate(date) || !validSlot(slot) {
		writeError(w, http.StatusBadRequest, "invalid date or slot")
		return
	}

	if err := handler.assignmentRepo.Delete(r.Context(), date, slot); err != nil {
		slog.Error("deleting meal assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete assignment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func validSlot(slot models.MealSlot) bool {
	for _, known := range models.MealSlots {
		if slot == known {
			return true
		}
	}
	return false
}
