package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pantryhub/pantry-hub/internal/models"
	"github.com/pantryhub/pantry-hub/internal/services"
)

func setupListWithItem(t *testing.T) (*services.ShoppingListService, string, string) {
	t.Helper()
	service, recipeRepo, assignmentRepo, _ := setupShoppingListService(t)
	ctx := context.Background()

	pasta := createRecipe(t, recipeRepo, "Pasta", 2, ingredient("Tomato", "Veg", 3, "pc"))
	planMeal(t, assignmentRepo, "2026-09-07", models.MealSlotLunch, pasta, 2)

	entry, err := service.Regenerate(ctx, "2026-09-07", "2026-09-13")
	if err != nil {
		t.Fatalf("regenerating: %v", err)
	}
	return service, entry.ID, entry.Items[0].ID
}

func TestSetChecked(t *testing.T) {
	service, listID, itemID := setupListWithItem(t)
	ctx := context.Background()

	entry, err := service.SetChecked(ctx, listID, itemID, true)
	if err != nil {
		t.Fatalf("checking item: %v", err)
	}
	if !entry.Items[0].Checked {
		t.Error("expected item to be checked")
	}

	entry, err = service.SetChecked(ctx, listID, itemID, false)
	if err != nil {
		t.Fatalf("unchecking item: %v", err)
	}
	if entry.Items[0].Checked {
		t.Error("expected item to be unchecked")
	}
}

func TestSetChecked_NoOpOnCanceledItem(t *testing.T) {
	service, listID, itemID := setupListWithItem(t)
	ctx := context.Background()

	if _, err := service.Cancel(ctx, listID, itemID); err != nil {
		t.Fatalf("canceling item: %v", err)
	}

	entry, err := service.SetChecked(ctx, listID, itemID, true)
	if err != nil {
		t.Fatalf("checking canceled item: %v", err)
	}
	if entry.Items[0].Checked {
		t.Error("canceled item must not become checked")
	}
}

func TestCancel_ClearsChecked(t *testing.T) {
	service, listID, itemID := setupListWithItem(t)
	ctx := context.Background()

	if _, err := service.SetChecked(ctx, listID, itemID, true); err != nil {
		t.Fatalf("checking item: %v", err)
	}

	entry, err := service.Cancel(ctx, listID, itemID)
	if err != nil {
		t.Fatalf("canceling item: %v", err)
	}
	item := entry.Items[0]
	if !item.Canceled {
		t.Error("expected item to be canceled")
	}
	if item.Checked {
		t.Error("canceling must clear the checked flag")
	}
}

func TestRestore(t *testing.T) {
	service, listID, itemID := setupListWithItem(t)
	ctx := context.Background()

	if _, err := service.Cancel(ctx, listID, itemID); err != nil {
		t.Fatalf("canceling item: %v", err)
	}

	entry, err := service.Restore(ctx, listID, itemID)
	if err != nil {
		t.Fatalf("restoring item: %v", err)
	}
	item := entry.Items[0]
	if item.Canceled || item.Checked {
		t.Errorf("expected restored item unchecked and active, got %+v", item)
	}
}

func TestAddManualItem_Defaults(t *testing.T) {
	service, listID, _ := setupListWithItem(t)
	ctx := context.Background()

	item, err := service.AddManualItem(ctx, listID, "Batteries", 4, "", "")
	if err != nil {
		t.Fatalf("adding manual item: %v", err)
	}
	if item.Unit != "piece" {
		t.Errorf("expected default unit piece, got %q", item.Unit)
	}
	if item.Category != "Other" {
		t.Errorf("expected default category Other, got %q", item.Category)
	}
	if !item.Manual() {
		t.Error("expected manual item to have no meal sources")
	}
}

func TestAddManualItem_SuggestsCategoryFromName(t *testing.T) {
	service, listID, _ := setupListWithItem(t)
	ctx := context.Background()

	item, err := service.AddManualItem(ctx, listID, "Milk", 1, "l", "")
	if err != nil {
		t.Fatalf("adding manual item: %v", err)
	}
	if item.Category != "Dairy" {
		t.Errorf("expected category suggested from name, got %q", item.Category)
	}
}

func TestAddManualItem_AbsorbsSameKeyItem(t *testing.T) {
	service, listID, itemID := setupListWithItem(t)
	ctx := context.Background()

	// Same merge key as the derived Tomato already on the list.
	item, err := service.AddManualItem(ctx, listID, "Tomato", 5, "pc", "Veg")
	if err != nil {
		t.Fatalf("adding manual item: %v", err)
	}
	if item.ID != itemID {
		t.Errorf("expected the absorbed item to keep id %q, got %q", itemID, item.ID)
	}

	entry, err := service.SetChecked(ctx, listID, itemID, true)
	if err != nil {
		t.Fatalf("reloading list: %v", err)
	}
	if len(entry.Items) != 1 {
		t.Fatalf("expected 1 item after same-key add, got %d", len(entry.Items))
	}
	if got := entry.Items[0]; !got.Manual() || got.Quantity != 5 {
		t.Errorf("expected the manual quantity to take over, got %+v", got)
	}
}

func TestAddManualItem_RejectsBadInput(t *testing.T) {
	service, listID, _ := setupListWithItem(t)
	ctx := context.Background()

	if _, err := service.AddManualItem(ctx, listID, "  ", 1, "", ""); err == nil {
		t.Error("expected error for blank name")
	}
	if _, err := service.AddManualItem(ctx, listID, "Soap", -1, "", ""); err == nil {
		t.Error("expected error for negative quantity")
	}
}

func TestApplyRemainingAtHome_PartialReduction(t *testing.T) {
	service, listID, itemID := setupListWithItem(t)
	ctx := context.Background()

	entry, autoCanceled, err := service.ApplyRemainingAtHome(ctx, listID, itemID, 1)
	if err != nil {
		t.Fatalf("applying remaining: %v", err)
	}
	if autoCanceled {
		t.Error("expected no auto-cancellation for a partial reduction")
	}
	item := entry.Items[0]
	if item.Quantity != 2 {
		t.Errorf("expected quantity 2, got %v", item.Quantity)
	}
	if item.Canceled {
		t.Error("expected item to stay active")
	}
}

func TestApplyRemainingAtHome_AutoCancels(t *testing.T) {
	service, listID, itemID := setupListWithItem(t)
	ctx := context.Background()

	// quantity 3, remaining 5: nothing left to buy
	entry, autoCanceled, err := service.ApplyRemainingAtHome(ctx, listID, itemID, 5)
	if err != nil {
		t.Fatalf("applying remaining: %v", err)
	}
	if !autoCanceled {
		t.Error("expected auto-cancellation to be reported")
	}
	item := entry.Items[0]
	if item.Quantity != 0 {
		t.Errorf("expected quantity clamped to 0, got %v", item.Quantity)
	}
	if !item.Canceled {
		t.Error("expected item to be canceled")
	}
	if item.Checked {
		t.Error("auto-canceled item must not be checked")
	}
}

func TestMutations_UnknownItem(t *testing.T) {
	service, listID, _ := setupListWithItem(t)
	ctx := context.Background()

	_, err := service.Cancel(ctx, listID, "no-such-item")
	if !errors.Is(err, services.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}
