package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty levels accepted by Recipe.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether s is one of the accepted difficulty levels.
func ValidDifficulty(s string) bool {
	switch s {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// RecipeIngredient is one line of a recipe: a required (or optional)
// ingredient with quantity and unit.
type RecipeIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Optional bool    `json:"optional"`
}

// NewRecipeIngredient creates a normalized recipe line.
func NewRecipeIngredient(name string, quantity float64, unit string) RecipeIngredient {
	return RecipeIngredient{
		Name:     Key(name),
		Quantity: quantity,
		Unit:     Key(unit),
	}
}

func (ri RecipeIngredient) String() string {
	opt := ""
	if ri.Optional {
		opt = " (optional)"
	}
	return fmt.Sprintf("%s %s %s%s", FormatFloat(ri.Quantity), ri.Unit, ri.Name, opt)
}

// Recipe is a complete recipe with ingredients, instructions, and metadata.
// Recipe names keep their display case; lookups compare normalized names.
type Recipe struct {
	Name         string             `json:"name"`
	Servings     int                `json:"servings"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Instructions []string           `json:"instructions"`
	PrepTime     int                `json:"prep_time"` // minutes
	CookTime     int                `json:"cook_time"` // minutes
	Difficulty   string             `json:"difficulty"`
	Cuisine      string             `json:"cuisine"`
	DietaryTags  []string           `json:"dietary_tags"`
	CreatedAt    time.Time          `json:"created_at"`
	Rating       float64            `json:"rating"`
	TimesMade    int                `json:"times_made"`
}

// NewRecipe creates a recipe with default difficulty ("medium") and
// cuisine ("other").
func NewRecipe(name string, servings int, ingredients []RecipeIngredient, instructions []string) *Recipe {
	return &Recipe{
		Name:         strings.TrimSpace(name),
		Servings:     servings,
		Ingredients:  ingredients,
		Instructions: instructions,
		Difficulty:   DifficultyMedium,
		Cuisine:      "other",
		CreatedAt:    time.Now(),
	}
}

// TotalTime is prep plus cook time in minutes.
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// MatchScore compares the recipe's required lines against the available
// ingredients by raw quantity, with no unit conversion and no substitutions.
// It returns the fraction of required lines covered, the missing lines, and
// the matched ingredient names. Optional lines never count.
func (r *Recipe) MatchScore(available []*Ingredient) (float64, []string, []string) {
	byName := make(map[string]*Ingredient, len(available))
	for _, ing := range available {
		byName[ing.Name] = ing
	}

	total := 0
	matched := 0
	var missing, matchedNames []string

	for _, line := range r.Ingredients {
		if line.Optional {
			continue
		}
		total++

		have, ok := byName[line.Name]
		if !ok {
			missing = append(missing, fmt.Sprintf("%s %s %s",
				FormatFloat(line.Quantity), line.Unit, line.Name))
			continue
		}
		if have.IsSufficient(line.Quantity) {
			matched++
			matchedNames = append(matchedNames, line.Name)
		} else {
			missing = append(missing, fmt.Sprintf("%s (need %s %s, have %s %s)",
				line.Name, FormatFloat(line.Quantity), line.Unit,
				FormatFloat(have.Quantity), have.Unit))
		}
	}

	if total == 0 {
		return 0, missing, matchedNames
	}
	return float64(matched) / float64(total), missing, matchedNames
}

func (r *Recipe) String() string {
	return fmt.Sprintf("%s (serves %d, %d min total)", r.Name, r.Servings, r.TotalTime())
}
