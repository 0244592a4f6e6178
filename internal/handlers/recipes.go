package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pantryhub/pantry-hub/internal/models"
	"github.com/pantryhub/pantry-hub/internal/repository"
	"github.com/pantryhub/pantry-hub/internal/services"
)

type RecipeHandler struct {
	recipeRepo     repository.RecipeRepository
	assignmentRepo repository.MealAssignmentRepository
}

func NewRecipeHandler(recipeRepo repository.RecipeRepository, assignmentRepo repository.MealAssignmentRepository) *RecipeHandler {
	return &RecipeHandler{recipeRepo: recipeRepo, assignmentRepo: assignmentRepo}
}

func (handler *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := handler.recipeRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("finding recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load recipes")
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (handler *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipe, err := handler.recipeRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrRecipeNotFound) {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	if err != nil {
		slog.Error("finding recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load recipe")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (handler *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var recipe models.Recipe
	if !decodeJSON(w, r, &recipe) {
		return
	}
	if !validRecipe(w, recipe) {
		return
	}

	services.SanitizeRecipe(&recipe)
	recipe.ID = ""

	created, err := handler.recipeRepo.Create(r.Context(), recipe)
	if err != nil {
		slog.Error("creating recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create recipe")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var recipe models.Recipe
	if !decodeJSON(w, r, &recipe) {
		return
	}
	if !validRecipe(w, recipe) {
		return
	}

	services.SanitizeRecipe(&recipe)
	recipe.ID = chi.URLParam(r, "id")

	err := handler.recipeRepo.Update(r.Context(), recipe)
	if errors.Is(err, repository.ErrRecipeNotFound) {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	if err != nil {
		slog.Error("updating recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (handler *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recipeID := chi.URLParam(r, "id")

	// Planned meals keep their date and name; only the recipe link is
	// cleared. Shopping lists drop the contribution on next
	// regeneration.
	if err := handler.assignmentRepo.ClearRecipeID(ctx, recipeID); err != nil {
		slog.Error("clearing recipe from meal assignments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}

	if err := handler.recipeRepo.Delete(ctx, recipeID); err != nil {
		slog.Error("deleting recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete recipe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import stores a previously exported recipe document, repairing
// malformed quantity data instead of rejecting it.
func (handler *RecipeHandler) Import(w http.ResponseWriter, r *http.Request) {
	var recipe models.Recipe
	if !decodeJSON(w, r, &recipe) {
		return
	}
	if !validRecipe(w, recipe) {
		return
	}

	services.SanitizeRecipe(&recipe)

	created, err := handler.recipeRepo.Create(r.Context(), recipe)
	if err != nil {
		slog.Error("importing recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to import recipe")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Export returns the stored recipe document unchanged, so that
// export, import, and export again reproduce the same structure.
func (handler *RecipeHandler) Export(w http.ResponseWriter, r *http.Request) {
	recipe, err := handler.recipeRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrRecipeNotFound) {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	if err != nil {
		slog.Error("exporting recipe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export recipe")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+recipe.ID+".json")
	writeJSON(w, http.StatusOK, recipe)
}

func validRecipe(w http.ResponseWriter, recipe models.Recipe) bool {
	if recipe.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return false
	}
	if recipe.Servings < 1 {
		writeError(w, http.StatusBadRequest, "servings must be at least 1")
		return false
	}
	for _, ingredient := range recipe.Ingredients {
		if ingredient.Name == "" {
			writeError(w, http.StatusBadRequest, "ingredient name is required")
			return false
		}
	}
	return true
}
