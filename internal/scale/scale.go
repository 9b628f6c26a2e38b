// Package scale produces scaled recipe variants for a new serving count.
// Spices and leavening agents grow slower than linear so large batches do
// not come out over-seasoned or over-risen.
package scale

import (
	"fmt"
	"slices"

	"pantrychef/internal/domain"
)

// spices dampen when scaling up: doubling a recipe should not double the
// cayenne.
var spices = map[string]bool{
	"salt": true, "pepper": true, "garlic powder": true, "onion powder": true,
	"paprika": true, "cumin": true, "oregano": true, "basil": true,
	"thyme": true, "rosemary": true, "sage": true, "cayenne": true,
	"chili powder": true, "black pepper": true, "vanilla extract": true,
}

// leaveners scale linearly up to double, then dampen.
var leaveners = map[string]bool{
	"baking powder": true, "baking soda": true, "yeast": true, "cream of tartar": true,
}

// Recipe returns a copy of r scaled to newServings. The original is never
// mutated; the copy's name carries the new serving count.
func Recipe(r *domain.Recipe, newServings int) (*domain.Recipe, error) {
	if r.Servings <= 0 || newServings <= 0 {
		return nil, domain.ErrInvalidServings
	}
	factor := float64(newServings) / float64(r.Servings)

	scaled := domain.NewRecipe(fmt.Sprintf("%s (scaled for %d)", r.Name, newServings), newServings, nil, slices.Clone(r.Instructions))
	scaled.PrepTime = r.PrepTime
	scaled.CookTime = r.CookTime
	scaled.Difficulty = r.Difficulty
	scaled.Cuisine = r.Cuisine
	scaled.DietaryTags = slices.Clone(r.DietaryTags)

	scaled.Ingredients = make([]domain.RecipeIngredient, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		scaled.Ingredients = append(scaled.Ingredients, domain.RecipeIngredient{
			Name:     line.Name,
			Quantity: Quantity(line.Name, line.Quantity, factor),
			Unit:     line.Unit,
			Optional: line.Optional,
		})
	}
	return scaled, nil
}

// Quantity scales one ingredient amount by the given factor, applying the
// dampening rules for spices and leavening agents.
func Quantity(name string, quantity, factor float64) float64 {
	switch {
	case spices[name]:
		if factor > 1 {
			return quantity * (1 + (factor-1)*0.8)
		}
		return quantity * factor
	case leaveners[name]:
		if factor <= 2 {
			return quantity * factor
		}
		return quantity * (2 + (factor-2)*0.5)
	default:
		return quantity * factor
	}
}
