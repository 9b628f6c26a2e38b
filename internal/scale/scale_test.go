package scale

import (
	"errors"
	"math"
	"testing"

	"pantrychef/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func setupCake(t *testing.T) *domain.Recipe {
	t.Helper()
	sprinkles := domain.NewRecipeIngredient("sprinkles", 1, "tbsp")
	sprinkles.Optional = true
	r := domain.NewRecipe("Vanilla Cake", 4, []domain.RecipeIngredient{
		domain.NewRecipeIngredient("all-purpose flour", 2, "cups"),
		domain.NewRecipeIngredient("salt", 1, "tsp"),
		domain.NewRecipeIngredient("baking powder", 1, "tsp"),
		sprinkles,
	}, []string{"Mix dry", "Mix wet", "Bake"})
	r.PrepTime = 20
	r.CookTime = 35
	r.Difficulty = domain.DifficultyEasy
	r.Cuisine = "american"
	r.DietaryTags = []string{"vegetarian"}
	return r
}

func TestQuantityRules(t *testing.T) {
	tests := []struct {
		name     string
		ing      string
		quantity float64
		factor   float64
		want     float64
	}{
		{"regular scales linearly", "flour", 2, 2, 4},
		{"regular shrinks linearly", "flour", 2, 0.5, 1},
		{"spice dampened when growing", "salt", 1, 2, 1.8},
		{"spice linear when shrinking", "salt", 1, 0.5, 0.5},
		{"spice at factor one", "salt", 1, 1, 1},
		{"leavener linear up to double", "baking powder", 1, 2, 2},
		{"leavener dampened past double", "baking powder", 1, 3, 2.5},
		{"leavener at factor four", "yeast", 2, 4, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantity(tt.ing, tt.quantity, tt.factor)
			if !almostEqual(got, tt.want) {
				t.Fatalf("Quantity(%q, %v, %v): got %v, want %v", tt.ing, tt.quantity, tt.factor, got, tt.want)
			}
		})
	}
}

func TestRecipeScaling(t *testing.T) {
	original := setupCake(t)
	scaled, err := Recipe(original, 8)
	if err != nil {
		t.Fatalf("Recipe: %v", err)
	}

	if scaled.Name != "Vanilla Cake (scaled for 8)" {
		t.Fatalf("name: got %q", scaled.Name)
	}
	if scaled.Servings != 8 {
		t.Fatalf("servings: got %d, want 8", scaled.Servings)
	}

	// Factor 2: flour doubles, salt dampens, baking powder still linear.
	wantQuantities := []float64{4, 1.8, 2, 2}
	for i, want := range wantQuantities {
		if got := scaled.Ingredients[i].Quantity; !almostEqual(got, want) {
			t.Fatalf("ingredient %q: got %v, want %v", scaled.Ingredients[i].Name, got, want)
		}
	}

	// Optional flag and units carry over.
	if !scaled.Ingredients[3].Optional || scaled.Ingredients[3].Unit != "tbsp" {
		t.Fatalf("optional line mangled: %+v", scaled.Ingredients[3])
	}

	// Metadata copies unchanged.
	if scaled.PrepTime != 20 || scaled.CookTime != 35 {
		t.Fatalf("times: got %d/%d", scaled.PrepTime, scaled.CookTime)
	}
	if scaled.Difficulty != domain.DifficultyEasy || scaled.Cuisine != "american" {
		t.Fatalf("metadata: got %q/%q", scaled.Difficulty, scaled.Cuisine)
	}
	if len(scaled.Instructions) != 3 || len(scaled.DietaryTags) != 1 {
		t.Fatalf("instructions/tags not copied: %v %v", scaled.Instructions, scaled.DietaryTags)
	}
}

func TestRecipeOriginalUntouched(t *testing.T) {
	original := setupCake(t)
	scaled, err := Recipe(original, 12)
	if err != nil {
		t.Fatalf("Recipe: %v", err)
	}

	if original.Servings != 4 || original.Name != "Vanilla Cake" {
		t.Fatalf("original mutated: %v", original)
	}
	if original.Ingredients[0].Quantity != 2 {
		t.Fatalf("original quantity mutated: %v", original.Ingredients[0].Quantity)
	}

	// The copy's slices must not alias the original's.
	scaled.Instructions[0] = "changed"
	if original.Instructions[0] != "Mix dry" {
		t.Fatal("instructions aliased between original and copy")
	}
}

func TestRecipeInvalidServings(t *testing.T) {
	original := setupCake(t)

	for _, n := range []int{0, -2} {
		if _, err := Recipe(original, n); !errors.Is(err, domain.ErrInvalidServings) {
			t.Fatalf("servings %d: expected ErrInvalidServings, got %v", n, err)
		}
	}

	original.Servings = 0
	if _, err := Recipe(original, 4); !errors.Is(err, domain.ErrInvalidServings) {
		t.Fatalf("expected ErrInvalidServings for zero base servings, got %v", err)
	}
}
