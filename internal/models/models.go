package models

import "time"

type MealSlot string

const (
	MealSlotLunch  MealSlot = "lunch"
	MealSlotDinner MealSlot = "dinner"
)

// MealSlots lists every slot in day order.
var MealSlots = []MealSlot{MealSlotLunch, MealSlotDinner}

// QuantityAlternative is one way of expressing an ingredient amount,
// e.g. "3 pieces" or "300 g". Only the first alternative feeds the
// shopping list; the rest exist for recipe display.
type QuantityAlternative struct {
	Nb   float64 `json:"nb"`
	Unit string  `json:"unit"`
}

type IngredientSpec struct {
	Name     string                `json:"name"`
	Category string                `json:"category"`
	Quantity []QuantityAlternative `json:"quantity"`
	Notes    *string               `json:"notes,omitempty"`
	Emoji    *string               `json:"emoji,omitempty"`
}

type StepIngredient struct {
	IngredientName string  `json:"ingredientName"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Notes          *string `json:"notes,omitempty"`
}

type SubStep struct {
	SubStepOrder int    `json:"subStepOrder"`
	Instruction  string `json:"instruction"`
	// InstructionFalc is the simplified-language variant of the instruction.
	InstructionFalc *string `json:"instructionFalc,omitempty"`
}

type RecipeStep struct {
	StepOrder   int              `json:"stepOrder"`
	Title       *string          `json:"title,omitempty"`
	Duration    *string          `json:"duration,omitempty"`
	Temperature *string          `json:"temperature,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Ingredients []StepIngredient `json:"ingredients,omitempty"`
	SubSteps    []SubStep        `json:"subSteps"`
}

type RecipeMetadata struct {
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ExportedAt *time.Time `json:"exportedAt,omitempty"`
	Source     string     `json:"source"`
	Author     string     `json:"author"`
	Favorite   bool       `json:"favorite"`
	Rating     int        `json:"rating"`
}

// Recipe is the structured recipe document. Optional fields are
// pointers so an export→import→export round trip reproduces the same
// document, absent keys staying absent.
type Recipe struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Servings    int              `json:"servings"`
	WorkTime    *string          `json:"workTime,omitempty"`
	PrepTime    *string          `json:"prepTime,omitempty"`
	CookTime    *string          `json:"cookTime,omitempty"`
	TotalTime   *string          `json:"totalTime,omitempty"`
	Types       []string         `json:"types,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	Ingredients []IngredientSpec `json:"ingredients"`
	Steps       []RecipeStep     `json:"steps"`
	Metadata    *RecipeMetadata  `json:"metadata,omitempty"`
}

// MealAssignment plans one recipe into a (date, slot) cell.
// Dates are YYYY-MM-DD strings throughout.
type MealAssignment struct {
	Date       string    `json:"date"`
	Slot       MealSlot  `json:"slot"`
	RecipeID   string    `json:"recipeId"`
	RecipeName string    `json:"recipeName"`
	Portions   int       `json:"portions"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MealSource records one planned meal's contribution to a shopping item.
type MealSource struct {
	Date           string   `json:"date"`
	Slot           MealSlot `json:"slot"`
	RecipeName     string   `json:"recipeName"`
	QuantityNeeded float64  `json:"quantityNeeded"`
}

// ShoppingListItem is one line of a shopping list. An item with no
// MealSources was added manually by the user and regeneration never
// touches it. Canceled is the soft-delete state; canceled items are
// kept so the user can restore them.
type ShoppingListItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Quantity    float64      `json:"quantity"`
	Unit        string       `json:"unit"`
	Category    string       `json:"category"`
	Checked     bool         `json:"checked"`
	Canceled    bool         `json:"canceled"`
	MealSources []MealSource `json:"mealSources"`
}

// Manual reports whether the item was added by hand rather than
// derived from a planned recipe.
func (item ShoppingListItem) Manual() bool {
	return len(item.MealSources) == 0
}

// SameItem matches items by attribute tuple rather than by ID. Callers
// that re-derive items as values rely on this equality.
func (item ShoppingListItem) SameItem(other ShoppingListItem) bool {
	if item.Name != other.Name || item.Category != other.Category || item.Unit != other.Unit {
		return false
	}
	if len(item.MealSources) != len(other.MealSources) {
		return false
	}
	for i, source := range item.MealSources {
		if source != other.MealSources[i] {
			return false
		}
	}
	return true
}

// ShoppingListEntry is the shopping list for one date range. The
// (StartDate, EndDate) pair identifies the list: regenerating for an
// existing pair updates the entry in place instead of duplicating it.
type ShoppingListEntry struct {
	ID        string
	StartDate string
	EndDate   string
	Items     []ShoppingListItem
	CreatedAt time.Time
	UpdatedAt time.Time
}
