package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pantryhub/pantry-hub/internal/models"
)

var ErrAssignmentNotFound = errors.New("meal assignment not found")

type MealAssignmentRepository interface {
	FindByDateAndSlot(ctx context.Context, date string, slot models.MealSlot) (models.MealAssignment, error)
	FindBetween(ctx context.Context, dateFrom, dateTo string) ([]models.MealAssignment, error)
	Upsert(ctx context.Context, assignment models.MealAssignment) error
	Delete(ctx context.Context, date string, slot models.MealSlot) error
	ClearRecipeID(ctx context.Context, recipeID string) error
}

type SQLiteMealAssignmentRepository struct {
	database *sql.DB
}

func NewMealAssignmentRepository(database *sql.DB) *SQLiteMealAssignmentRepository {
	return &SQLiteMealAssignmentRepository{database: database}
}

func (repository *SQLiteMealAssignmentRepository) FindByDateAndSlot(ctx context.Context, date string, slot models.MealSlot) (models.MealAssignment, error) {
	var assignment models.MealAssignment
	var recipeID sql.NullString
	err := repository.database.QueryRowContext(ctx,
		`SELECT date, slot, recipe_id, recipe_name, portions, created_at, updated_at
		FROM meal_assignments WHERE date = ? AND slot = ?`, date, slot,
	).Scan(
		&assignment.Date, &assignment.Slot, &recipeID, &assignment.RecipeName,
		&assignment.Portions, &assignment.CreatedAt, &assignment.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MealAssignment{}, ErrAssignmentNotFound
	}
	if err != nil {
		return models.MealAssignment{}, fmt.Errorf("finding meal assignment: %w", err)
	}
	assignment.RecipeID = recipeID.String
	return assignment, nil
}

func (repository *SQLiteMealAssignmentRepository) FindBetween(ctx context.Context, dateFrom, dateTo string) ([]models.MealAssignment, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT date, slot, recipe_id, recipe_name, portions, created_at, updated_at
		FROM meal_assignments WHERE date >= ? AND date <= ?
		ORDER BY date ASC, CASE slot WHEN 'lunch' THEN 1 WHEN 'dinner' THEN 2 END`,
		dateFrom, dateTo,
	)
	if err != nil {
		return nil, fmt.Errorf("finding meal assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.MealAssignment
	for rows.Next() {
		var assignment models.MealAssignment
		var recipeID sql.NullString
		if err := rows.Scan(
			&assignment.Date, &assignment.Slot, &recipeID, &assignment.RecipeName,
			&assignment.Portions, &assignment.CreatedAt, &assignment.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning meal assignment: %w", err)
		}
		assignment.RecipeID = recipeID.String
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

func (repository *SQLiteMealAssignmentRepository) Upsert(ctx context.Context, assignment models.MealAssignment) error {
	var recipeID interface{}
	if assignment.RecipeID != "" {
		recipeID = assignment.RecipeID
	}

	now := time.Now()
	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO meal_assignments (date, slot, recipe_id, recipe_name, portions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date, slot) DO UPDATE SET
			recipe_id = excluded.recipe_id,
			recipe_name = excluded.recipe_name,
			portions = excluded.portions,
			updated_at = excluded.updated_at`,
		assignment.Date, assignment.Slot, recipeID, assignment.RecipeName,
		assignment.Portions, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting meal assignment: %w", err)
	}
	return nil
}

func (repository *SQLiteMealAssignmentRepository) Delete(ctx context.Context, date string, slot models.MealSlot) error {
	_, err := repository.database.ExecContext(ctx,
		"DELETE FROM meal_assignments WHERE date = ? AND slot = ?", date, slot,
	)
	if err != nil {
		return fmt.Errorf("deleting meal assignment: %w", err)
	}
	return nil
}

func (repository *SQLiteMealAssignmentRepository) ClearRecipeID(ctx context.Context, recipeID string) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE meal_assignments SET recipe_id = NULL, updated_at = ? WHERE recipe_id = ?",
		time.Now(), recipeID,
	)
	if err != nil {
		return fmt.Errorf("clearing recipe id from meal assignments: %w", err)
	}
	return nil
}
