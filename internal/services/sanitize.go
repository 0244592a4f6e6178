package services

import (
	"strings"

	"github.com/pantryhub/pantry-hub/internal/models"
)

// SanitizeRecipe repairs malformed quantity data in place rather than
// rejecting the recipe: negative amounts are dropped, blank units
// default to DefaultUnit, and an ingredient left with no valid
// alternative gets a synthetic "1 piece" placeholder. Run on import
// and before aggregation.
func SanitizeRecipe(recipe *models.Recipe) {
	for i := range recipe.Ingredients {
		sanitizeIngredient(&recipe.Ingredients[i])
	}
}

func sanitizeIngredient(ingredient *models.IngredientSpec) {
	valid := ingredient.Quantity[:0]
	for _, alternative := range ingredient.Quantity {
		if alternative.Nb < 0 {
			continue
		}
		if strings.TrimSpace(alternative.Unit) == "" {
			alternative.Unit = DefaultUnit
		}
		valid = append(valid, alternative)
	}
	if len(valid) == 0 {
		valid = append(valid, models.QuantityAlternative{Nb: 1, Unit: DefaultUnit})
	}
	ingredient.Quantity = valid
}
