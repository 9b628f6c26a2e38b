// Package substitute holds the built-in ingredient substitution table.
// Each rule names a replacement, the quantity ratio to apply to the
// original amount, and a short preparation note.
package substitute

import (
	"maps"
	"slices"

	"pantrychef/internal/domain"
)

// Rule describes one substitution: use Ratio times the original quantity
// of Ingredient, following Note.
type Rule struct {
	Ingredient string
	Ratio      float64
	Note       string
}

// table maps an ingredient to its substitutes, preferred candidates first.
var table = map[string][]Rule{
	"milk": {
		{"buttermilk", 1.0, "Add 1 tbsp lemon juice"},
		{"almond milk", 1.0, "May alter flavor slightly"},
		{"coconut milk", 1.0, "Use light coconut milk"},
		{"soy milk", 1.0, "Good dairy-free option"},
	},
	"butter": {
		{"oil", 0.75, "Use 3/4 the amount"},
		{"margarine", 1.0, "Direct substitution"},
		{"applesauce", 0.5, "For baking, use half the amount"},
		{"coconut oil", 1.0, "Good for baking"},
	},
	"egg": {
		{"flax egg", 1.0, "1 tbsp ground flaxseed + 3 tbsp water"},
		{"banana", 0.25, "1/4 cup mashed banana per egg"},
		{"applesauce", 0.25, "1/4 cup unsweetened applesauce"},
	},
	"all-purpose flour": {
		{"whole wheat flour", 1.0, "May need extra liquid"},
		{"almond flour", 1.0, "Different texture, gluten-free"},
		{"oat flour", 1.0, "Gluten-free option"},
	},
	"sugar": {
		{"honey", 0.75, "Reduce liquid by 1/4 cup"},
		{"maple syrup", 0.75, "Reduce liquid by 3 tbsp"},
		{"brown sugar", 1.0, "Direct substitution"},
	},
	"yogurt": {
		{"sour cream", 1.0, "Direct substitution"},
		{"buttermilk", 1.0, "For baking"},
		{"cottage cheese", 1.0, "Blend until smooth"},
	},
}

// For returns the substitution rules for an ingredient, preferred
// candidate first. Lookup is case-insensitive; unknown ingredients yield
// nil. The returned slice is a copy.
func For(name string) []Rule {
	return slices.Clone(table[domain.Key(name)])
}

// Known lists every ingredient the table covers, sorted.
func Known() []string {
	return slices.Sorted(maps.Keys(table))
}
