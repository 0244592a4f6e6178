package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pantryhub/pantry-hub/internal/models"
	"github.com/pantryhub/pantry-hub/internal/repository"
)

// ShoppingListService turns planned meals into a deduplicated,
// categorized shopping list and keeps that list in sync as plans
// change. One writer at a time per list; callers serialize user
// actions.
type ShoppingListService struct {
	recipeRepo     repository.RecipeRepository
	assignmentRepo repository.MealAssignmentRepository
	listRepo       repository.ShoppingListRepository
	normalizer     *Normalizer
	catalog        *CategoryCatalog
}

func NewShoppingListService(
	recipeRepo repository.RecipeRepository,
	assignmentRepo repository.MealAssignmentRepository,
	listRepo repository.ShoppingListRepository,
	normalizer *Normalizer,
	catalog *CategoryCatalog,
) *ShoppingListService {
	return &ShoppingListService{
		recipeRepo:     recipeRepo,
		assignmentRepo: assignmentRepo,
		listRepo:       listRepo,
		normalizer:     normalizer,
		catalog:        catalog,
	}
}

// Regenerate rebuilds the recipe-derived content of the shopping list
// for [startDate, endDate] while preserving user edits. Manual items
// pass through untouched, checked and canceled flags survive, and a
// prior list for the same date pair is updated in place rather than
// duplicated. Regenerating twice under an unchanged meal plan yields
// the same items.
func (service *ShoppingListService) Regenerate(ctx context.Context, startDate, endDate string) (models.ShoppingListEntry, error) {
	prior, err := service.listRepo.FindByDateRange(ctx, startDate, endDate)
	hasPrior := err == nil
	if err != nil && !errors.Is(err, repository.ErrShoppingListNotFound) {
		return models.ShoppingListEntry{}, fmt.Errorf("loading prior shopping list: %w", err)
	}

	builder := newItemAccumulator(service.normalizer)
	if hasPrior {
		builder.seed(prior.Items)
	}

	assignments, err := service.assignmentRepo.FindBetween(ctx, startDate, endDate)
	if err != nil {
		return models.ShoppingListEntry{}, fmt.Errorf("loading meal assignments: %w", err)
	}

	for _, assignment := range assignments {
		recipe, ok := service.resolveRecipe(ctx, assignment)
		if !ok {
			continue
		}
		SanitizeRecipe(&recipe)
		for _, ingredient := range recipe.Ingredients {
			scaled := ScaleIngredient(ingredient, recipe, assignment.Portions)
			if strings.TrimSpace(ingredient.Category) == "" {
				scaled.Category = service.catalog.Suggest(ingredient.Name)
			}
			builder.add(ingredient.Name, scaled, models.MealSource{
				Date:           assignment.Date,
				Slot:           assignment.Slot,
				RecipeName:     recipe.Name,
				QuantityNeeded: scaled.Amount,
			})
		}
	}

	items := builder.finish()

	if hasPrior {
		prior.Items = items
		if err := service.listRepo.Update(ctx, prior); err != nil {
			return models.ShoppingListEntry{}, fmt.Errorf("updating shopping list: %w", err)
		}
		return prior, nil
	}

	entry, err := service.listRepo.Create(ctx, models.ShoppingListEntry{
		StartDate: startDate,
		EndDate:   endDate,
		Items:     items,
	})
	if err != nil {
		return models.ShoppingListEntry{}, fmt.Errorf("creating shopping list: %w", err)
	}
	return entry, nil
}

// resolveRecipe looks up the assignment's recipe. A missing link or a
// recipe deleted after planning is not fatal: the assignment is
// skipped and the rest of the list still regenerates.
func (service *ShoppingListService) resolveRecipe(ctx context.Context, assignment models.MealAssignment) (models.Recipe, bool) {
	if assignment.RecipeID == "" {
		slog.Warn("skipping assignment without recipe link",
			"date", assignment.Date, "slot", assignment.Slot)
		return models.Recipe{}, false
	}
	recipe, err := service.recipeRepo.FindByID(ctx, assignment.RecipeID)
	if err != nil {
		slog.Warn("skipping assignment with unresolved recipe",
			"date", assignment.Date, "slot", assignment.Slot,
			"recipe_id", assignment.RecipeID, "error", err)
		return models.Recipe{}, false
	}
	return recipe, true
}

// MissingSlot is a (date, slot) pair in the requested range with no
// planned meal.
type MissingSlot struct {
	Date string          `json:"date"`
	Slot models.MealSlot `json:"slot"`
}

// MissingMeals enumerates the date/slot pairs in [startDate, endDate]
// that have no assignment, so the caller can warn before generating a
// list for an incomplete plan.
func (service *ShoppingListService) MissingMeals(ctx context.Context, startDate, endDate string) ([]MissingSlot, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}

	assignments, err := service.assignmentRepo.FindBetween(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("loading meal assignments: %w", err)
	}

	planned := make(map[string]bool, len(assignments))
	for _, assignment := range assignments {
		planned[assignment.Date+"|"+string(assignment.Slot)] = true
	}

	var missing []MissingSlot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		for _, slot := range models.MealSlots {
			if !planned[date+"|"+string(slot)] {
				missing = append(missing, MissingSlot{Date: date, Slot: slot})
			}
		}
	}
	return missing, nil
}

// itemAccumulator merges scaled ingredient contributions into shopping
// items keyed by merge key, preserving first-appearance order.
type itemAccumulator struct {
	normalizer *Normalizer
	order      []string
	byKey      map[string]*models.ShoppingListItem
	manualKeys map[string]bool
}

func newItemAccumulator(normalizer *Normalizer) *itemAccumulator {
	return &itemAccumulator{
		normalizer: normalizer,
		byKey:      make(map[string]*models.ShoppingListItem),
		manualKeys: make(map[string]bool),
	}
}

// seed carries a prior list's items into the rebuild. Manual items are
// copied verbatim. Recipe-derived items keep their identity and
// user-set flags but start over at quantity zero with no sources; the
// current meal plan decides what they become. When a derived item and
// a manual item share a merge key the manual one wins; the user's
// quantity must survive the rebuild.
func (accumulator *itemAccumulator) seed(priorItems []models.ShoppingListItem) {
	for _, item := range priorItems {
		key := accumulator.normalizer.MergeKey(item.Name, item.Unit, item.Category)
		if existing, exists := accumulator.byKey[key]; exists {
			if item.Manual() && !accumulator.manualKeys[key] {
				*existing = item
				accumulator.manualKeys[key] = true
			}
			continue
		}
		seeded := item
		if item.Manual() {
			accumulator.manualKeys[key] = true
		} else {
			seeded.Quantity = 0
			seeded.MealSources = nil
		}
		accumulator.order = append(accumulator.order, key)
		accumulator.byKey[key] = &seeded
	}
}

// add merges one scaled ingredient contribution. A contribution whose
// merge key collides with a manual item is dropped: the user edited
// that quantity on purpose and it must not be silently overwritten.
func (accumulator *itemAccumulator) add(ingredientName string, scaled ScaledQuantity, source models.MealSource) {
	unit := accumulator.normalizer.NormalizeUnit(scaled.Unit)
	key := accumulator.normalizer.MergeKey(ingredientName, unit, scaled.Category)

	if accumulator.manualKeys[key] {
		return
	}

	item, exists := accumulator.byKey[key]
	if !exists {
		item = &models.ShoppingListItem{
			ID:       uuid.NewString(),
			Name:     ingredientName,
			Unit:     unit,
			Category: scaled.Category,
		}
		accumulator.order = append(accumulator.order, key)
		accumulator.byKey[key] = item
	}

	item.Quantity += scaled.Amount
	item.MealSources = append(item.MealSources, source)
}

// finish produces the final item list in first-appearance order.
// Seeded recipe-derived items that received no contribution this run
// drop out; their meals are gone from the plan.
func (accumulator *itemAccumulator) finish() []models.ShoppingListItem {
	items := make([]models.ShoppingListItem, 0, len(accumulator.order))
	for _, key := range accumulator.order {
		item := accumulator.byKey[key]
		if !accumulator.manualKeys[key] && len(item.MealSources) == 0 {
			continue
		}
		items = append(items, *item)
	}
	return items
}
