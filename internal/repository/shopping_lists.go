package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pantryhub/pantry-hub/internal/models"
)

var ErrShoppingListNotFound = errors.New("shopping list not found")

type ShoppingListRepository interface {
	FindByID(ctx context.Context, id string) (models.ShoppingListEntry, error)
	FindByDateRange(ctx context.Context, startDate, endDate string) (models.ShoppingListEntry, error)
	FindAll(ctx context.Context) ([]models.ShoppingListEntry, error)
	Create(ctx context.Context, entry models.ShoppingListEntry) (models.ShoppingListEntry, error)
	Update(ctx context.Context, entry models.ShoppingListEntry) error
	Delete(ctx context.Context, id string) error
}

type SQLiteShoppingListRepository struct {
	database *sql.DB
}

func NewShoppingListRepository(database *sql.DB) *SQLiteShoppingListRepository {
	return &SQLiteShoppingListRepository{database: database}
}

func (repository *SQLiteShoppingListRepository) FindByID(ctx context.Context, id string) (models.ShoppingListEntry, error) {
	return repository.findOne(ctx,
		`SELECT id, start_date, end_date, items, created_at, updated_at
		FROM shopping_lists WHERE id = ?`, id)
}

func (repository *SQLiteShoppingListRepository) FindByDateRange(ctx context.Context, startDate, endDate string) (models.ShoppingListEntry, error) {
	return repository.findOne(ctx,
		`SELECT id, start_date, end_date, items, created_at, updated_at
		FROM shopping_lists WHERE start_date = ? AND end_date = ?`, startDate, endDate)
}

func (repository *SQLiteShoppingListRepository) findOne(ctx context.Context, query string, args ...interface{}) (models.ShoppingListEntry, error) {
	var entry models.ShoppingListEntry
	var itemsJSON string
	err := repository.database.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID, &entry.StartDate, &entry.EndDate, &itemsJSON,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ShoppingListEntry{}, ErrShoppingListNotFound
	}
	if err != nil {
		return models.ShoppingListEntry{}, fmt.Errorf("finding shopping list: %w", err)
	}
	if err := json.Unmarshal([]byte(itemsJSON), &entry.Items); err != nil {
		return models.ShoppingListEntry{}, fmt.Errorf("unmarshalling shopping list items: %w", err)
	}
	return entry, nil
}

func (repository *SQLiteShoppingListRepository) FindAll(ctx context.Context) ([]models.ShoppingListEntry, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT id, start_date, end_date, items, created_at, updated_at
		FROM shopping_lists ORDER BY start_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("finding shopping lists: %w", err)
	}
	defer rows.Close()

	var entries []models.ShoppingListEntry
	for rows.Next() {
		var entry models.ShoppingListEntry
		var itemsJSON string
		if err := rows.Scan(
			&entry.ID, &entry.StartDate, &entry.EndDate, &itemsJSON,
			&entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning shopping list: %w", err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &entry.Items); err != nil {
			return nil, fmt.Errorf("unmarshalling shopping list items: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (repository *SQLiteShoppingListRepository) Create(ctx context.Context, entry models.ShoppingListEntry) (models.ShoppingListEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	itemsJSON, err := json.Marshal(itemsOrEmpty(entry.Items))
	if err != nil {
		return models.ShoppingListEntry{}, fmt.Errorf("marshalling shopping list items: %w", err)
	}

	now := time.Now()
	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO shopping_lists (id, start_date, end_date, items, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.StartDate, entry.EndDate, string(itemsJSON), now, now,
	)
	if err != nil {
		return models.ShoppingListEntry{}, fmt.Errorf("creating shopping list: %w", err)
	}
	return entry, nil
}

func (repository *SQLiteShoppingListRepository) Update(ctx context.Context, entry models.ShoppingListEntry) error {
	itemsJSON, err := json.Marshal(itemsOrEmpty(entry.Items))
	if err != nil {
		return fmt.Errorf("marshalling shopping list items: %w", err)
	}

	result, err := repository.database.ExecContext(ctx,
		"UPDATE shopping_lists SET start_date = ?, end_date = ?, items = ?, updated_at = ? WHERE id = ?",
		entry.StartDate, entry.EndDate, string(itemsJSON), time.Now(), entry.ID,
	)
	if err != nil {
		return fmt.Errorf("updating shopping list: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrShoppingListNotFound
	}
	return nil
}

func (repository *SQLiteShoppingListRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM shopping_lists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting shopping list: %w", err)
	}
	return nil
}

// itemsOrEmpty keeps the stored column a JSON array even when the
// entry has no items yet.
func itemsOrEmpty(items []models.ShoppingListItem) []models.ShoppingListItem {
	if items == nil {
		return []models.ShoppingListItem{}
	}
	return items
}
