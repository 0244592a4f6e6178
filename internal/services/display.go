package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pantryhub/pantry-hub/internal/models"
)

// CanceledGroupLabel names the fixed trailing group holding canceled
// items. It always sorts last, outside the alphabetical category order.
const CanceledGroupLabel = "Canceled"

type SourceLine struct {
	Date           string          `json:"date"`
	Slot           models.MealSlot `json:"slot"`
	RecipeName     string          `json:"recipeName"`
	QuantityNeeded string          `json:"quantityNeeded"`
}

type DisplayItem struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	QuantityLabel string       `json:"quantityLabel"`
	Unit          string       `json:"unit"`
	Checked       bool         `json:"checked"`
	Canceled      bool         `json:"canceled"`
	Manual        bool         `json:"manual"`
	Sources       []SourceLine `json:"sources,omitempty"`
}

type DisplayGroup struct {
	Category string        `json:"category"`
	Emoji    string        `json:"emoji,omitempty"`
	Items    []DisplayItem `json:"items"`
}

// Formatter renders shopping lists deterministically for display and
// for the external print/export renderer.
type Formatter struct {
	catalog *CategoryCatalog
}

func NewFormatter(catalog *CategoryCatalog) *Formatter {
	return &Formatter{catalog: catalog}
}

// FormatEntry partitions active items by category, sorted
// case-insensitively, with canceled items collected into one final
// Canceled group. Recipe-derived headline quantities round up to whole
// units (shoppers buy whole units even when a recipe needs a
// fraction); manual quantities render exactly. Per-source breakdowns
// keep the exact needed amounts at one decimal.
func (formatter *Formatter) FormatEntry(entry models.ShoppingListEntry) []DisplayGroup {
	groupIndex := make(map[string]int)
	var groups []DisplayGroup
	var canceled DisplayGroup

	for _, item := range entry.Items {
		display := formatter.formatItem(item)
		if item.Canceled {
			canceled.Items = append(canceled.Items, display)
			continue
		}

		category := formatter.catalog.Canonical(item.Category)
		index, ok := groupIndex[category]
		if !ok {
			index = len(groups)
			groupIndex[category] = index
			groups = append(groups, DisplayGroup{
				Category: category,
				Emoji:    formatter.catalog.Emoji(category),
			})
		}
		groups[index].Items = append(groups[index].Items, display)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Category) < strings.ToLower(groups[j].Category)
	})

	if len(canceled.Items) > 0 {
		canceled.Category = CanceledGroupLabel
		groups = append(groups, canceled)
	}
	return groups
}

func (formatter *Formatter) formatItem(item models.ShoppingListItem) DisplayItem {
	display := DisplayItem{
		ID:       item.ID,
		Name:     item.Name,
		Unit:     item.Unit,
		Checked:  item.Checked,
		Canceled: item.Canceled,
		Manual:   item.Manual(),
	}

	if item.Manual() {
		display.QuantityLabel = FormatQuantity(item.Quantity)
	} else {
		// Tolerance keeps float noise from bumping 2.00003 up to 3.
		display.QuantityLabel = fmt.Sprintf("%d", int64(math.Ceil(item.Quantity-integerTolerance)))
		for _, source := range item.MealSources {
			display.Sources = append(display.Sources, SourceLine{
				Date:           source.Date,
				Slot:           source.Slot,
				RecipeName:     source.RecipeName,
				QuantityNeeded: FormatQuantityOneDecimal(source.QuantityNeeded),
			})
		}
	}
	return display
}
