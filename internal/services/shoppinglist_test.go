package services_test

import (
	"context"
	"testing"

	"github.com/pantryhub/pantry-hub/internal/models"
	"github.com/pantryhub/pantry-hub/internal/repository"
	"github.com/pantryhub/pantry-hub/internal/services"
	"github.com/pantryhub/pantry-hub/internal/testutil"
)

func setupShoppingListService(t *testing.T) (
	*services.ShoppingListService,
	*repository.SQLiteRecipeRepository,
	*repository.SQLiteMealAssignmentRepository,
	*repository.SQLiteShoppingListRepository,
) {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	recipeRepo := repository.NewRecipeRepository(db)
	assignmentRepo := repository.NewMealAssignmentRepository(db)
	listRepo := repository.NewShoppingListRepository(db)
	normalizer := services.NewNormalizer(false)
	catalog := services.NewCategoryCatalog(normalizer)
	service := services.NewShoppingListService(recipeRepo, assignmentRepo, listRepo, normalizer, catalog)
	return service, recipeRepo, assignmentRepo, listRepo
}

func createRecipe(t *testing.T, repo *repository.SQLiteRecipeRepository, name string, servings int, ingredients ...models.IngredientSpec) models.Recipe {
	t.Helper()
	recipe, err := repo.Create(context.Background(), models.Recipe{
		Name:        name,
		Servings:    servings,
		Ingredients: ingredients,
	})
	if err != nil {
		t.Fatalf("creating recipe %s: %v", name, err)
	}
	return recipe
}

func planMeal(t *testing.T, repo *repository.SQLiteMealAssignmentRepository, date string, slot models.MealSlot, recipe models.Recipe, portions int) {
	t.Helper()
	err := repo.Upsert(context.Background(), models.MealAssignment{
		Date:       date,
		Slot:       slot,
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		Portions:   portions,
	})
	if err != nil {
		t.Fatalf("planning meal: %v", err)
	}
}

func ingredient(name, category string, amount float64, unit string) models.IngredientSpec {
	return models.IngredientSpec{
		Name:     name,
		Category: category,
		Quantity: []models.QuantityAlternative{{Nb: amount, Unit: unit}},
	}
}

func TestRegenerate_MergesContributionsAcrossMeals(t *testing.T) {
	service, recipeRepo, assignmentRepo, _ := setupShoppingListService(t)
	ctx := context.Background()

	pasta := createRecipe(t, recipeRepo, "Pasta", 2, ingredient("Tomato", "Veg", 2, "pc"))
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotLunch, pasta, 2)
	planMeal(t, assignmentRepo, "2026-09-08", models.MealSlotDinner, pasta, 4)

	entry, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("regenerating: %v", err)
	}

	if len(entry.Items) != 1 {
		t.Fatalf("expected 1 merged item, got %d", len(entry.Items))
	}
	item := entry.Items[0]
	// 2*(2/2) + 2*(4/2) = 6
	if item.Quantity != 6 {
		t.Errorf("expected quantity 6, got %v", item.Quantity)
	}
	if len(item.MealSources) != 2 {
		t.Fatalf("expected 2 meal sources, got %d", len(item.MealSources))
	}
	if item.MealSources[0].QuantityNeeded != 2 || item.MealSources[1].QuantityNeeded != 4 {
		t.Errorf("unexpected source breakdown: %+v", item.MealSources)
	}
}

func TestRegenerate_MergesNameVariantsAcrossRecipes(t *testing.T) {
	service, recipeRepo, assignmentRepo, _ := setupShoppingListService(t)
	ctx := context.Background()

	salad := createRecipe(t, recipeRepo, "Salad", 2, ingredient("Tomates", "Veg", 2, "pc"))
	soup := createRecipe(t, recipeRepo, "Soup", 2, ingredient("tomates ", "Veg", 4, "pc"))
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotLunch, salad, 2)
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotDinner, soup, 2)

	entry, err := service.Regenerate(ctx, "2026-09-07", "2026-09-07")
	if err != nil {
		t.Fatalf("regenerating: %v", err)
	}

	if len(entry.Items) != 1 {
		t.Fatalf("expected name variants to collapse into 1 item, got %d", len(entry.Items))
	}
	if entry.Items[0].Quantity != 6 {
		t.Errorf("expected summed quantity 6, got %v", entry.Items[0].Quantity)
	}
}

func TestRegenerate_SuggestsCategoryForUncategorizedIngredients(t *testing.T) {
	service, recipeRepo, assignmentRepo, _ := setupShoppingListService(t)
	ctx := context.Background()

	stew := createRecipe(t, recipeRepo, "Stew", 2,
		ingredient("Tomato", "", 2, "pc"),
		ingredient("Mystery powder", "", 1, "g"),
	)
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotDinner, stew, 2)

	entry, err := service.Regenerate(ctx, "2026-09-07", "2026-09-07")
	if err != nil {
		t.Fatalf("regenerating: %v", err)
	}

	byName := make(map[string]models.ShoppingListItem)
	for _, item := range entry.Items {
		byName[item.Name] = item
	}
	if category := byName["Tomato"].Category; category != "Vegetables" {
		t.Errorf("expected suggested category Vegetables, got %q", category)
	}
	if category := byName["Mystery powder"].Category; category != "Other" {
		t.Errorf("expected unknown name to fall back to Other, got %q", category)
	}
}

func TestRegenerate_Idempotent(t *testing.T) {
	service, recipeRepo, assignmentRepo, _ := setupShoppingListService(t)
	ctx := context.Background()

	pasta := createRecipe(t, recipeRepo, "Pasta", 2,
		ingredient("Tomato", "Veg", 2, "pc"),
		ingredient("Spaghetti", "Grocery", 200, "g"),
	)
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotDinner, pasta, 4)

	first, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("first regeneration: %v", err)
	}
	second, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("second regeneration: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected the same entry to be updated, got new id %s", second.ID)
	}
	if len(second.Items) != len(first.Items) {
		t.Fatalf("expected %d items, got %d", len(first.Items), len(second.Items))
	}
	for i, item := range second.Items {
		previous := first.Items[i]
		if item.ID != previous.ID {
			t.Errorf("item %d changed id across regenerations", i)
		}
		if item.Quantity != previous.Quantity || item.Category != previous.Category {
			t.Errorf("item %d changed: %+v vs %+v", i, item, previous)
		}
		if len(item.MealSources) != len(previous.MealSources) {
			t.Errorf("item %d changed sources: %+v vs %+v", i, item.MealSources, previous.MealSources)
		}
	}
}

func TestRegenerate_PreservesUserState(t *testing.T) {
	service, recipeRepo, assignmentRepo, _ := setupShoppingListService(t)
	ctx := context.Background()

	pasta := createRecipe(t, recipeRepo, "Pasta", 2,
		ingredient("Tomato", "Veg", 2, "pc"),
		ingredient("Spaghetti", "Grocery", 200, "g"),
	)
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotDinner, pasta, 2)

	entry, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("regenerating: %v", err)
	}

	manual, err := service.AddManualItem(ctx, entry.ID, "Sponges", 2, "", "Household")
	if err != nil {
		t.Fatalf("adding manual item: %v", err)
	}
	if _, err := service.SetChecked(ctx, entry.ID, entry.Items[0].ID, true); err != nil {
		t.Fatalf("checking item: %v", err)
	}
	if _, err := service.Cancel(ctx, entry.ID, entry.Items[1].ID); err != nil {
		t.Fatalf("canceling item: %v", err)
	}

	// Plan grows; user state must survive the rebuild.
	planMeal(t, assignmentRepo, "2026-09-08", models.MealSlotLunch, pasta, 2)

	regenerated, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("regenerating after plan change: %v", err)
	}

	byName := make(map[string]models.ShoppingListItem)
	for _, item := range regenerated.Items {
		byName[item.Name] = item
	}

	tomato := byName["Tomato"]
	if !tomato.Checked {
		t.Error("expected checked flag to survive regeneration")
	}
	if tomato.Quantity != 4 {
		t.Errorf("expected tomato quantity recomputed to 4, got %v", tomato.Quantity)
	}

	spaghetti := byName["Spaghetti"]
	if !spaghetti.Canceled {
		t.Error("expected canceled flag to survive regeneration")
	}
	if spaghetti.Checked {
		t.Error("canceled item must not be checked")
	}

	sponges := byName["Sponges"]
	if sponges.ID != manual.ID || sponges.Quantity != 2 || sponges.Unit != "piece" || sponges.Category != "Household" {
		t.Errorf("manual item was altered by regeneration: %+v", sponges)
	}
	if !sponges.Manual() {
		t.Error("manual item gained meal sources")
	}
}

func TestRegenerate_ManualItemBlocksRecipeContribution(t *testing.T) {
	service, recipeRepo, assignmentRepo, _ := setupShoppingListService(t)
	ctx := context.Background()

	entry, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("generating empty list: %v", err)
	}
	if _, err := service.AddManualItem(ctx, entry.ID, "Milk", 1, "l", "Dairy"); err != nil {
		t.Fatalf("adding manual item: %v", err)
	}

	cake := createRecipe(t, recipeRepo, "Cake", 4, ingredient("Milk", "Dairy", 0.5, "l"))
	planMeal(t, assignmentRepo, "2026-09-08", models.MealSlotLunch, cake, 4)

	regenerated, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("regenerating: %v", err)
	}

	if len(regenerated.Items) != 1 {
		t.Fatalf("expected the manual item to absorb the collision, got %d items", len(regenerated.Items))
	}
	milk := regenerated.Items[0]
	if milk.Quantity != 1 {
		t.Errorf("manual quantity was overwritten: %v", milk.Quantity)
	}
	if !milk.Manual() {
		t.Error("manual item must not gain meal sources from a colliding recipe")
	}
}

func TestRegenerate_ManualItemWinsSeedCollision(t *testing.T) {
	service, recipeRepo, assignmentRepo, listRepo := setupShoppingListService(t)
	ctx := context.Background()

	cake := createRecipe(t, recipeRepo, "Cake", 4, ingredient("Milk", "Dairy", 0.5, "l"))
	planMeal(t, assignmentRepo, "2026-09-08", models.MealSlotLunch, cake, 4)

	entry, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("regenerating: %v", err)
	}

	// A derived and a manual item under one merge key, as an older list
	// could hold.
	entry.Items = append(entry.Items, models.ShoppingListItem{
		ID: "manual-milk", Name: "Milk", Quantity: 2, Unit: "l", Category: "Dairy",
	})
	if err := listRepo.Update(ctx, entry); err != nil {
		t.Fatalf("storing colliding items: %v", err)
	}

	regenerated, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("regenerating: %v", err)
	}

	if len(regenerated.Items) != 1 {
		t.Fatalf("expected the collision to collapse into 1 item, got %d", len(regenerated.Items))
	}
	milk := regenerated.Items[0]
	if !milk.Manual() || milk.Quantity != 2 {
		t.Errorf("expected the manual item to win the collision, got %+v", milk)
	}
	if milk.ID != "manual-milk" {
		t.Errorf("expected the manual item to keep its id, got %q", milk.ID)
	}
}

func TestRegenerate_SkipsDeletedRecipe(t *testing.T) {
	service, recipeRepo, assignmentRepo, _ := setupShoppingListService(t)
	ctx := context.Background()

	pasta := createRecipe(t, recipeRepo, "Pasta", 2, ingredient("Tomato", "Veg", 2, "pc"))
	stew := createRecipe(t, recipeRepo, "Stew", 2,
		ingredient("Tomato", "Veg", 1, "pc"),
		ingredient("Beef", "Meat", 400, "g"),
	)
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotLunch, pasta, 2)
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotDinner, stew, 2)

	if _, err := service.Regenerate(ctx, "2026-09-07", "2026-09-07"); err != nil {
		t.Fatalf("first regeneration: %v", err)
	}

	// The recipe vanishes but the assignment still points at it.
	if err := recipeRepo.Delete(ctx, stew.ID); err != nil {
		t.Fatalf("deleting recipe: %v", err)
	}

	entry, err := service.Regenerate(ctx, "2026-09-07", "2026-09-07")
	if err != nil {
		t.Fatalf("regeneration after recipe deletion must not fail: %v", err)
	}

	byName := make(map[string]models.ShoppingListItem)
	for _, item := range entry.Items {
		byName[item.Name] = item
	}

	if _, exists := byName["Beef"]; exists {
		t.Error("expected sole-source item of the deleted recipe to disappear")
	}
	tomato := byName["Tomato"]
	if tomato.Quantity != 2 {
		t.Errorf("expected tomato reduced to remaining source, got %v", tomato.Quantity)
	}
	if len(tomato.MealSources) != 1 {
		t.Errorf("expected 1 remaining source, got %d", len(tomato.MealSources))
	}
}

func TestRegenerate_ReusesEntryForSameDatePair(t *testing.T) {
	service, recipeRepo, assignmentRepo, listRepo := setupShoppingListService(t)
	ctx := context.Background()

	pasta := createRecipe(t, recipeRepo, "Pasta", 2, ingredient("Tomato", "Veg", 2, "pc"))
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotLunch, pasta, 2)

	first, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("first regeneration: %v", err)
	}
	second, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("second regeneration: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same entry id, got %s and %s", first.ID, second.ID)
	}

	entries, err := listRepo.FindAll(ctx)
	if err != nil {
		t.Fatalf("listing entries: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry for the date pair, got %d", len(entries))
	}
}

func TestMissingMeals(t *testing.T) {
	service, recipeRepo, assignmentRepo, _ := setupShoppingListService(t)
	ctx := context.Background()

	pasta := createRecipe(t, recipeRepo, "Pasta", 2, ingredient("Tomato", "Veg", 2, "pc"))
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotLunch, pasta, 2)

	missing, err := service.MissingMeals(ctx, "2026-09-07", "2026-09-08")
	if err != nil {
		t.Fatalf("prechecking: %v", err)
	}

	expected := []services.MissingSlot{
		{Date: "2026-09-07", Slot: models.MealSlotDinner},
		{Date: "2026-09-08", Slot: models.MealSlotLunch},
		{Date: "2026-09-08", Slot: models.MealSlotDinner},
	}
	if len(missing) != len(expected) {
		t.Fatalf("expected %d missing slots, got %d: %+v", len(expected), len(missing), missing)
	}
	for i, slot := range expected {
		if missing[i] != slot {
			t.Errorf("missing[%d] = %+v, expected %+v", i, missing[i], slot)
		}
	}
}
