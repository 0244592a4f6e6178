package services

import (
	"testing"

	"github.com/pantryhub/pantry-hub/internal/models"
)

func TestScaleIngredient(t *testing.T) {
	tests := []struct {
		name             string
		ingredient       models.IngredientSpec
		servings         int
		portions         int
		expectedAmount   float64
		expectedUnit     string
		expectedCategory string
	}{
		{
			name: "doubles for twice the portions",
			ingredient: models.IngredientSpec{
				Name:     "Tomato",
				Category: "Veg",
				Quantity: []models.QuantityAlternative{{Nb: 2, Unit: "pc"}},
			},
			servings:         2,
			portions:         4,
			expectedAmount:   4,
			expectedUnit:     "pc",
			expectedCategory: "Veg",
		},
		{
			name: "scales down for fewer portions",
			ingredient: models.IngredientSpec{
				Name:     "Flour",
				Category: "Grocery",
				Quantity: []models.QuantityAlternative{{Nb: 300, Unit: "g"}},
			},
			servings:         4,
			portions:         1,
			expectedAmount:   75,
			expectedUnit:     "g",
			expectedCategory: "Grocery",
		},
		{
			name: "only the first alternative counts",
			ingredient: models.IngredientSpec{
				Name:     "Potato",
				Category: "Veg",
				Quantity: []models.QuantityAlternative{{Nb: 3, Unit: "pc"}, {Nb: 500, Unit: "g"}},
			},
			servings:         2,
			portions:         2,
			expectedAmount:   3,
			expectedUnit:     "pc",
			expectedCategory: "Veg",
		},
		{
			name: "zero servings clamp to one",
			ingredient: models.IngredientSpec{
				Name:     "Rice",
				Category: "Grocery",
				Quantity: []models.QuantityAlternative{{Nb: 100, Unit: "g"}},
			},
			servings:         0,
			portions:         3,
			expectedAmount:   300,
			expectedUnit:     "g",
			expectedCategory: "Grocery",
		},
		{
			name: "blank category defaults to Other",
			ingredient: models.IngredientSpec{
				Name:     "Mystery",
				Quantity: []models.QuantityAlternative{{Nb: 1, Unit: "pc"}},
			},
			servings:         1,
			portions:         1,
			expectedAmount:   1,
			expectedUnit:     "pc",
			expectedCategory: "Other",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recipe := models.Recipe{Name: "Test", Servings: test.servings}
			scaled := ScaleIngredient(test.ingredient, recipe, test.portions)
			if scaled.Amount != test.expectedAmount {
				t.Errorf("expected amount %v, got %v", test.expectedAmount, scaled.Amount)
			}
			if scaled.Unit != test.expectedUnit {
				t.Errorf("expected unit %q, got %q", test.expectedUnit, scaled.Unit)
			}
			if scaled.Category != test.expectedCategory {
				t.Errorf("expected category %q, got %q", test.expectedCategory, scaled.Category)
			}
		})
	}
}
