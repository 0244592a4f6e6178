package services

import "strings"

// CategoryCatalog is a read-only lookup for ingredient categories and
// their display emoji. It is injected rather than kept as package
// state so the engine stays testable with a custom table.
type CategoryCatalog struct {
	emoji     map[string]string
	exact     map[string]string
	keywords  []keywordCategory
	normalize *Normalizer
}

type keywordCategory struct {
	keyword  string
	category string
}

// NewCategoryCatalog returns a catalog with the built-in tables.
func NewCategoryCatalog(normalizer *Normalizer) *CategoryCatalog {
	return &CategoryCatalog{
		emoji:     defaultCategoryEmoji,
		exact:     defaultExactCategories,
		keywords:  defaultKeywordCategories,
		normalize: normalizer,
	}
}

// Emoji returns the display emoji for a category, or empty when the
// category has none.
func (catalog *CategoryCatalog) Emoji(category string) string {
	return catalog.emoji[strings.ToLower(strings.TrimSpace(category))]
}

// Canonical returns the category itself, or DefaultCategory when blank.
func (catalog *CategoryCatalog) Canonical(category string) string {
	if strings.TrimSpace(category) == "" {
		return DefaultCategory
	}
	return category
}

// Suggest guesses a category from an ingredient name: exact match on
// the normalized name first, then keyword containment, then
// DefaultCategory. Used when an ingredient carries no category of its
// own.
func (catalog *CategoryCatalog) Suggest(ingredientName string) string {
	name := catalog.normalize.NormalizeName(ingredientName)
	if name == "" {
		return DefaultCategory
	}
	if category, ok := catalog.exact[name]; ok {
		return category
	}
	for _, entry := range catalog.keywords {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}
	return DefaultCategory
}

var defaultCategoryEmoji = map[string]string{
	"fruits":     "🍎",
	"vegetables": "🥕",
	"veg":        "🥕",
	"dairy":      "🧀",
	"meat":       "🥩",
	"fish":       "🐟",
	"bakery":     "🥖",
	"grocery":    "🛒",
	"frozen":     "🧊",
	"drinks":     "🥤",
	"spices":     "🧂",
	"other":      "🧺",
}

// Keys are normalized ingredient names (lowercased, singularized).
var defaultExactCategories = map[string]string{
	"apple":    "Fruits",
	"banana":   "Fruits",
	"lemon":    "Fruits",
	"orange":   "Fruits",
	"tomato":   "Vegetables",
	"potato":   "Vegetables",
	"onion":    "Vegetables",
	"garlic":   "Vegetables",
	"carrot":   "Vegetables",
	"zucchini": "Vegetables",
	"milk":     "Dairy",
	"butter":   "Dairy",
	"cream":    "Dairy",
	"egg":      "Dairy",
	"chicken":  "Meat",
	"beef":     "Meat",
	"pork":     "Meat",
	"salmon":   "Fish",
	"tuna":     "Fish",
	"bread":    "Bakery",
	"flour":    "Grocery",
	"sugar":    "Grocery",
	"rice":     "Grocery",
	"pasta":    "Grocery",
	"oil":      "Grocery",
	"salt":     "Spices",
	"pepper":   "Spices",
}

// Checked in order; longer, more specific keywords first.
var defaultKeywordCategories = []keywordCategory{
	{"cheese", "Dairy"},
	{"yogurt", "Dairy"},
	{"chocolate", "Grocery"},
	{"sausage", "Meat"},
	{"shrimp", "Fish"},
	{"juice", "Drinks"},
	{"water", "Drinks"},
	{"herb", "Spices"},
}
