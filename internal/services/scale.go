package services

import (
	"strings"

	"github.com/pantryhub/pantry-hub/internal/models"
)

// ScaledQuantity is one ingredient's contribution for a planned meal.
type ScaledQuantity struct {
	Amount   float64
	Unit     string
	Category string
}

// ScaleIngredient converts an ingredient's base quantity into the
// amount needed for the requested portion count. Only the first
// quantity alternative counts for shopping; recipes with zero or
// negative servings are clamped to 1.
func ScaleIngredient(ingredient models.IngredientSpec, recipe models.Recipe, portions int) ScaledQuantity {
	scaled := ScaledQuantity{Unit: "", Category: ingredient.Category}
	if strings.TrimSpace(scaled.Category) == "" {
		scaled.Category = DefaultCategory
	}
	if len(ingredient.Quantity) == 0 {
		return scaled
	}

	servings := recipe.Servings
	if servings < 1 {
		servings = 1
	}
	factor := float64(portions) / float64(servings)

	alternative := ingredient.Quantity[0]
	scaled.Amount = alternative.Nb * factor
	scaled.Unit = alternative.Unit
	return scaled
}
