package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultUnit is substituted for blank or whitespace-only units.
const DefaultUnit = "piece"

// DefaultCategory is substituted for blank ingredient categories.
const DefaultCategory = "Other"

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizer canonicalizes ingredient names and units so that the same
// logical item merges across recipes. It is pure and total; every
// method accepts any input without failing.
type Normalizer struct {
	// CaseInsensitiveUnits folds unit case inside merge keys, so "G"
	// and "g" merge. Off by default: units are compared literally
	// after trimming, matching historical behavior.
	CaseInsensitiveUnits bool
}

func NewNormalizer(caseInsensitiveUnits bool) *Normalizer {
	return &Normalizer{CaseInsensitiveUnits: caseInsensitiveUnits}
}

// NormalizeName lowercases, strips diacritics, squashes every run of
// characters outside [a-z0-9 ] into a single space, collapses
// whitespace, trims, and drops a trailing plural "s" from words longer
// than three characters.
func (n *Normalizer) NormalizeName(raw string) string {
	lowered := strings.ToLower(raw)
	ascii, _, err := transform.String(stripDiacritics, lowered)
	if err != nil {
		ascii = lowered
	}

	var builder strings.Builder
	builder.Grow(len(ascii))
	inRun := false
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			builder.WriteByte(' ')
			inRun = true
		}
	}

	cleaned := strings.Join(strings.Fields(builder.String()), " ")
	if len(cleaned) > 3 && strings.HasSuffix(cleaned, "s") {
		cleaned = cleaned[:len(cleaned)-1]
	}
	return cleaned
}

// NormalizeUnit substitutes DefaultUnit for blank units and otherwise
// preserves the unit verbatim for display.
func (n *Normalizer) NormalizeUnit(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return DefaultUnit
	}
	return raw
}

// unitKey is the unit as compared inside merge keys.
func (n *Normalizer) unitKey(unit string) string {
	key := strings.TrimSpace(n.NormalizeUnit(unit))
	if n.CaseInsensitiveUnits {
		key = strings.ToLower(key)
	}
	return key
}

// MergeKey identifies one logical shopping item. Two items with the
// same merge key must collapse into a single list entry.
func (n *Normalizer) MergeKey(name, unit, category string) string {
	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}
	return n.NormalizeName(name) + "|" + n.unitKey(unit) + "|" + category
}

const integerTolerance = 1e-4

// FormatQuantity renders a quantity without a decimal point when it is
// within tolerance of an integer, and with default float formatting
// otherwise.
func FormatQuantity(value float64) string {
	rounded := math.Round(value)
	if math.Abs(value-rounded) < integerTolerance {
		return strconv.FormatInt(int64(rounded), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatQuantityOneDecimal renders a quantity with at most one decimal
// place, used for per-meal source breakdowns. Ties round away from
// zero, so 1.25 renders as 1.3.
func FormatQuantityOneDecimal(value float64) string {
	rounded := math.Round(value)
	if math.Abs(value-rounded) < integerTolerance {
		return strconv.FormatInt(int64(rounded), 10)
	}
	return strconv.FormatFloat(math.Round(value*10)/10, 'f', -1, 64)
}
