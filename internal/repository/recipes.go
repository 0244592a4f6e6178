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

var ErrRecipeNotFound = errors.New("recipe not found")

type RecipeRepository interface {
	FindByID(ctx context.Context, id string) (models.Recipe, error)
	FindAll(ctx context.Context) ([]models.Recipe, error)
	Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	Update(ctx context.Context, recipe models.Recipe) error
	Delete(ctx context.Context, id string) error
}

type SQLiteRecipeRepository struct {
	database *sql.DB
}

func NewRecipeRepository(database *sql.DB) *SQLiteRecipeRepository {
	return &SQLiteRecipeRepository{database: database}
}

func (repository *SQLiteRecipeRepository) FindByID(ctx context.Context, id string) (models.Recipe, error) {
	var documentJSON string
	err := repository.database.QueryRowContext(ctx,
		"SELECT document FROM recipes WHERE id = ?", id,
	).Scan(&documentJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Recipe{}, ErrRecipeNotFound
	}
	if err != nil {
		return models.Recipe{}, fmt.Errorf("finding recipe by id: %w", err)
	}

	var recipe models.Recipe
	if err := json.Unmarshal([]byte(documentJSON), &recipe); err != nil {
		return models.Recipe{}, fmt.Errorf("unmarshalling recipe document: %w", err)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) FindAll(ctx context.Context) ([]models.Recipe, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT document FROM recipes ORDER BY name ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("finding recipes: %w", err)
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		var documentJSON string
		if err := rows.Scan(&documentJSON); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		var recipe models.Recipe
		if err := json.Unmarshal([]byte(documentJSON), &recipe); err != nil {
			return nil, fmt.Errorf("unmarshalling recipe document: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

func (repository *SQLiteRecipeRepository) Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}

	documentJSON, err := json.Marshal(recipe)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("marshalling recipe document: %w", err)
	}

	now := time.Now()
	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO recipes (id, name, servings, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		recipe.ID, recipe.Name, recipe.Servings, string(documentJSON), now, now,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("creating recipe: %w", err)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) Update(ctx context.Context, recipe models.Recipe) error {
	documentJSON, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("marshalling recipe document: %w", err)
	}

	result, err := repository.database.ExecContext(ctx,
		"UPDATE recipes SET name = ?, servings = ?, document = ?, updated_at = ? WHERE id = ?",
		recipe.Name, recipe.Servings, string(documentJSON), time.Now(), recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("updating recipe: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func (repository *SQLiteRecipeRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	return nil
}
