package constants

import (
	"strings"
)

// Category is the directory name of a product family under the assets root.
type Category string

const (
	Rugs        Category = "rugs"
	Placemat    Category = "placemat"
	TableRunner Category = "TableRunner"
	Cushion     Category = "cushion"
	Throw       Category = "throw"
	Bedding     Category = "bedding"
)

// allCategories is the declared processing order.
var allCategories = []Category{
	Rugs,
	Placemat,
	TableRunner,
	Cushion,
	Throw,
	Bedding,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps loose user input ("table-runner", "Rug") onto a known category
// directory name. Unknown input is returned trimmed with ok=false so callers can
// still use custom directory names.
func Canonicalize(input string) (Category, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}

	normalized := strings.ToLower(trimmed)

	synonyms := map[string]Category{
		"rug":          Rugs,
		"placemats":    Placemat,
		"table-runner": TableRunner,
		"table_runner": TableRunner,
		"runner":       TableRunner,
		"cushions":     Cushion,
		"throws":       Throw,
	}
	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Category(trimmed), false
}
