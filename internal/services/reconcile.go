package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pantryhub/pantry-hub/internal/models"
)

var ErrItemNotFound = errors.New("shopping list item not found")

// SetChecked checks or unchecks an item. Canceled items cannot be
// checked; the call is a no-op for them.
func (service *ShoppingListService) SetChecked(ctx context.Context, listID, itemID string, checked bool) (models.ShoppingListEntry, error) {
	return service.mutateItem(ctx, listID, itemID, func(item *models.ShoppingListItem) {
		if item.Canceled {
			return
		}
		item.Checked = checked
	})
}

// Cancel soft-deletes an item. Canceling always clears the checked
// flag so a canceled item never shows as bought.
func (service *ShoppingListService) Cancel(ctx context.Context, listID, itemID string) (models.ShoppingListEntry, error) {
	return service.mutateItem(ctx, listID, itemID, func(item *models.ShoppingListItem) {
		item.Canceled = true
		item.Checked = false
	})
}

// Restore brings a canceled item back, unchecked.
func (service *ShoppingListService) Restore(ctx context.Context, listID, itemID string) (models.ShoppingListEntry, error) {
	return service.mutateItem(ctx, listID, itemID, func(item *models.ShoppingListItem) {
		item.Canceled = false
		item.Checked = false
	})
}

// AddManualItem appends a user-created item. Manual items have no meal
// sources, so regeneration leaves them alone.
func (service *ShoppingListService) AddManualItem(ctx context.Context, listID, name string, quantity float64, unit, category string) (models.ShoppingListItem, error) {
	if strings.TrimSpace(name) == "" {
		return models.ShoppingListItem{}, errors.New("item name is required")
	}
	if quantity < 0 {
		return models.ShoppingListItem{}, errors.New("quantity must not be negative")
	}

	entry, err := service.listRepo.FindByID(ctx, listID)
	if err != nil {
		return models.ShoppingListItem{}, fmt.Errorf("loading shopping list: %w", err)
	}

	if strings.TrimSpace(category) == "" {
		category = service.catalog.Suggest(name)
	}
	item := models.ShoppingListItem{
		ID:       uuid.NewString(),
		Name:     name,
		Quantity: quantity,
		Unit:     service.normalizer.NormalizeUnit(unit),
		Category: service.catalog.Canonical(category),
	}

	// One item per merge key: an existing item under the same key is
	// absorbed instead of duplicated, and the manual quantity takes
	// over. The item keeps its id so clients holding it stay valid.
	key := service.normalizer.MergeKey(item.Name, item.Unit, item.Category)
	absorbed := false
	for i := range entry.Items {
		existing := &entry.Items[i]
		if service.normalizer.MergeKey(existing.Name, existing.Unit, existing.Category) != key {
			continue
		}
		item.ID = existing.ID
		*existing = item
		absorbed = true
		break
	}
	if !absorbed {
		entry.Items = append(entry.Items, item)
	}

	if err := service.listRepo.Update(ctx, entry); err != nil {
		return models.ShoppingListItem{}, fmt.Errorf("saving shopping list: %w", err)
	}
	return item, nil
}

// ApplyRemainingAtHome subtracts what the user already has from the
// quantity to buy. When nothing is left to buy the item is canceled
// automatically; the second return value reports that so the caller
// can tell the user.
func (service *ShoppingListService) ApplyRemainingAtHome(ctx context.Context, listID, itemID string, remaining float64) (models.ShoppingListEntry, bool, error) {
	autoCanceled := false
	entry, err := service.mutateItem(ctx, listID, itemID, func(item *models.ShoppingListItem) {
		newQuantity := item.Quantity - remaining
		if newQuantity <= 0 {
			item.Quantity = 0
			item.Canceled = true
			item.Checked = false
			autoCanceled = true
			return
		}
		item.Quantity = newQuantity
	})
	return entry, autoCanceled, err
}

// mutateItem loads the list, applies the mutation to the item with the
// given ID, and persists the list.
func (service *ShoppingListService) mutateItem(ctx context.Context, listID, itemID string, mutate func(*models.ShoppingListItem)) (models.ShoppingListEntry, error) {
	entry, err := service.listRepo.FindByID(ctx, listID)
	if err != nil {
		return models.ShoppingListEntry{}, fmt.Errorf("loading shopping list: %w", err)
	}

	index := -1
	for i := range entry.Items {
		if entry.Items[i].ID == itemID {
			index = i
			break
		}
	}
	if index < 0 {
		return models.ShoppingListEntry{}, ErrItemNotFound
	}

	mutate(&entry.Items[index])

	if err := service.listRepo.Update(ctx, entry); err != nil {
		return models.ShoppingListEntry{}, fmt.Errorf("saving shopping list: %w", err)
	}
	return entry, nil
}
