package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
	"pantrychef/internal/storage"
	"pantrychef/internal/units"
)

func setupEngine(t *testing.T) (*Engine, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	inv := storage.NewMemoryInventory(log)
	cat := storage.NewMemoryCatalog(log)
	return New(inv, cat, log), context.Background()
}

func pancakes() *domain.Recipe {
	r := domain.NewRecipe("Pancakes", 4,
		[]domain.RecipeIngredient{
			domain.NewRecipeIngredient("flour", 2, "cups"),
			domain.NewRecipeIngredient("milk", 1, "cup"),
		},
		[]string{"Mix the batter.", "Fry until golden."},
	)
	r.PrepTime = 5
	r.CookTime = 10
	r.Difficulty = domain.DifficultyEasy
	return r
}

func expiringIn(name string, days int) *domain.Ingredient {
	ing := domain.NewIngredient(name, 1, "pieces")
	exp := time.Now().AddDate(0, 0, days)
	ing.Expiration = &exp
	return ing
}

func TestAddAndUseIngredient(t *testing.T) {
	e, ctx := setupEngine(t)

	if err := e.AddIngredient(ctx, domain.NewIngredient("sugar", 1000, "g")); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Using in a different unit converts into the stored one.
	ing, err := e.UseIngredient(ctx, "sugar", 1, "kg")
	if err != nil {
		t.Fatalf("use: %v", err)
	}
	if ing.Quantity != 0 {
		t.Errorf("quantity after use = %v, want 0", ing.Quantity)
	}

	// The entry stays in the pantry at zero.
	if _, err := e.GetIngredient(ctx, "sugar"); err != nil {
		t.Fatalf("zero-quantity entry should remain: %v", err)
	}

	if _, err := e.UseIngredient(ctx, "sugar", 1, "g"); err == nil {
		t.Fatal("expected error when using more than available")
	}
}

func TestUseIngredientIncompatibleUnit(t *testing.T) {
	e, ctx := setupEngine(t)

	if err := e.AddIngredient(ctx, domain.NewIngredient("flour", 2, "cups")); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := e.UseIngredient(ctx, "flour", 100, "g")
	if !errors.Is(err, units.ErrIncompatible) {
		t.Fatalf("expected ErrIncompatible, got %v", err)
	}
}

func TestRemoveIngredient(t *testing.T) {
	e, ctx := setupEngine(t)

	if err := e.AddIngredient(ctx, domain.NewIngredient("flour", 2, "cups")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := e.RemoveIngredient(ctx, "Flour"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := e.GetIngredient(ctx, "flour"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	if err := e.RemoveIngredient(ctx, "flour"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double remove, got %v", err)
	}
}

func TestFindRecipes(t *testing.T) {
	e, ctx := setupEngine(t)

	if err := e.AddRecipe(ctx, pancakes()); err != nil {
		t.Fatalf("add recipe: %v", err)
	}
	exotic := domain.NewRecipe("Bouillabaisse", 4,
		[]domain.RecipeIngredient{domain.NewRecipeIngredient("saffron", 1, "pinch")},
		[]string{"Simmer."},
	)
	if err := e.AddRecipe(ctx, exotic); err != nil {
		t.Fatalf("add recipe: %v", err)
	}

	for _, ing := range []*domain.Ingredient{
		domain.NewIngredient("flour", 3, "cups"),
		domain.NewIngredient("milk", 2, "cups"),
	} {
		if err := e.AddIngredient(ctx, ing); err != nil {
			t.Fatalf("add ingredient: %v", err)
		}
	}

	results, err := e.FindRecipes(ctx, 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 match with the default threshold, got %d", len(results))
	}
	if results[0].Recipe.Name != "Pancakes" || results[0].Score != 1.0 {
		t.Errorf("got %s at %.2f, want Pancakes at 1.00", results[0].Recipe.Name, results[0].Score)
	}
}

func TestCanMake(t *testing.T) {
	e, ctx := setupEngine(t)

	if err := e.AddRecipe(ctx, pancakes()); err != nil {
		t.Fatalf("add recipe: %v", err)
	}
	if err := e.AddIngredient(ctx, domain.NewIngredient("flour", 2, "cups")); err != nil {
		t.Fatalf("add ingredient: %v", err)
	}

	ok, missing, err := e.CanMake(ctx, "pancakes")
	if err != nil {
		t.Fatalf("can make: %v", err)
	}
	if ok {
		t.Error("should not be makeable without milk")
	}
	if len(missing) != 1 || missing[0] != "1 cup milk" {
		t.Errorf("missing = %v, want [1 cup milk]", missing)
	}

	if err := e.AddIngredient(ctx, domain.NewIngredient("milk", 1, "cup")); err != nil {
		t.Fatalf("add milk: %v", err)
	}
	ok, missing, err = e.CanMake(ctx, "Pancakes")
	if err != nil {
		t.Fatalf("can make: %v", err)
	}
	if !ok || len(missing) != 0 {
		t.Errorf("expected makeable with nothing missing, got ok=%v missing=%v", ok, missing)
	}
}

func TestQuickRecipes(t *testing.T) {
	e, ctx := setupEngine(t)

	quick := pancakes() // 15 minutes total
	slow := domain.NewRecipe("Pot Roast", 6,
		[]domain.RecipeIngredient{domain.NewRecipeIngredient("flour", 1, "cup")},
		[]string{"Roast."},
	)
	slow.PrepTime = 20
	slow.CookTime = 180
	for _, r := range []*domain.Recipe{quick, slow} {
		if err := e.AddRecipe(ctx, r); err != nil {
			t.Fatalf("add recipe: %v", err)
		}
	}
	for _, ing := range []*domain.Ingredient{
		domain.NewIngredient("flour", 5, "cups"),
		domain.NewIngredient("milk", 2, "cups"),
	} {
		if err := e.AddIngredient(ctx, ing); err != nil {
			t.Fatalf("add ingredient: %v", err)
		}
	}

	results, err := e.QuickRecipes(ctx, 20, 0)
	if err != nil {
		t.Fatalf("quick: %v", err)
	}
	if len(results) != 1 || results[0].Recipe.Name != "Pancakes" {
		t.Fatalf("expected only Pancakes within 20 minutes, got %v", results)
	}
}

func TestRecipesByDifficulty(t *testing.T) {
	e, ctx := setupEngine(t)

	if err := e.AddRecipe(ctx, pancakes()); err != nil {
		t.Fatalf("add recipe: %v", err)
	}
	for _, ing := range []*domain.Ingredient{
		domain.NewIngredient("flour", 5, "cups"),
		domain.NewIngredient("milk", 2, "cups"),
	} {
		if err := e.AddIngredient(ctx, ing); err != nil {
			t.Fatalf("add ingredient: %v", err)
		}
	}

	results, err := e.RecipesByDifficulty(ctx, "Easy", 0)
	if err != nil {
		t.Fatalf("by difficulty: %v", err)
	}
	if len(results) != 1 || results[0].Recipe.Name != "Pancakes" {
		t.Fatalf("expected Pancakes for Easy, got %v", results)
	}

	if _, err := e.RecipesByDifficulty(ctx, "brutal", 0); err == nil {
		t.Fatal("expected error for unknown difficulty")
	}
}

func TestScaleRecipe(t *testing.T) {
	e, ctx := setupEngine(t)

	if err := e.AddRecipe(ctx, pancakes()); err != nil {
		t.Fatalf("add recipe: %v", err)
	}

	scaled, err := e.ScaleRecipe(ctx, "pancakes", 8, false)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	if scaled.Servings != 8 {
		t.Errorf("servings = %d, want 8", scaled.Servings)
	}
	if scaled.Ingredients[0].Quantity != 4 {
		t.Errorf("flour = %v, want 4", scaled.Ingredients[0].Quantity)
	}

	// The catalog keeps the original and, without save, nothing else.
	original, err := e.GetRecipe(ctx, "pancakes")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if original.Servings != 4 || original.Ingredients[0].Quantity != 2 {
		t.Errorf("original mutated: servings=%d flour=%v", original.Servings, original.Ingredients[0].Quantity)
	}
	if _, err := e.GetRecipe(ctx, scaled.Name); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("scaled copy stored without save, err = %v", err)
	}

	// With save the scaled copy lands in the catalog under its own name.
	if _, err := e.ScaleRecipe(ctx, "pancakes", 8, true); err != nil {
		t.Fatalf("scale with save: %v", err)
	}
	saved, err := e.GetRecipe(ctx, "pancakes (scaled for 8)")
	if err != nil {
		t.Fatalf("get saved copy: %v", err)
	}
	if saved.Servings != 8 {
		t.Errorf("saved servings = %d, want 8", saved.Servings)
	}
}

func TestShoppingList(t *testing.T) {
	e, ctx := setupEngine(t)

	if err := e.AddRecipe(ctx, pancakes()); err != nil {
		t.Fatalf("add recipe: %v", err)
	}
	if err := e.AddIngredient(ctx, domain.NewIngredient("flour", 5, "cups")); err != nil {
		t.Fatalf("add ingredient: %v", err)
	}

	items, err := e.ShoppingList(ctx, []string{"Pancakes"}, nil)
	if err != nil {
		t.Fatalf("shopping list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "milk" {
		t.Fatalf("expected only milk on the list, got %v", items)
	}

	if _, err := e.ShoppingList(ctx, []string{"nope"}, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown recipe, got %v", err)
	}
}

func TestStats(t *testing.T) {
	e, ctx := setupEngine(t)

	flour := domain.NewIngredient("flour", 2, "cups")
	flour.CostPerUnit = 0.5
	for _, ing := range []*domain.Ingredient{flour, expiringIn("milk", 1), expiringIn("yogurt", -1)} {
		if err := e.AddIngredient(ctx, ing); err != nil {
			t.Fatalf("add ingredient: %v", err)
		}
	}
	if err := e.AddRecipe(ctx, pancakes()); err != nil {
		t.Fatalf("add recipe: %v", err)
	}

	st, err := e.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Ingredients != 3 || st.Recipes != 1 {
		t.Errorf("counts = %d/%d, want 3/1", st.Ingredients, st.Recipes)
	}
	if st.ExpiringSoon != 1 || st.Expired != 1 {
		t.Errorf("expiry counts = %d soon / %d expired, want 1/1", st.ExpiringSoon, st.Expired)
	}
	if st.PantryValue != 1.0 {
		t.Errorf("pantry value = %v, want 1.0", st.PantryValue)
	}
	if st.AvgRecipeMinutes != 15 {
		t.Errorf("avg recipe minutes = %v, want 15", st.AvgRecipeMinutes)
	}
	if st.ByCategory["other"] != 3 {
		t.Errorf("category counts = %v, want other:3", st.ByCategory)
	}
}

func TestCounts(t *testing.T) {
	e, ctx := setupEngine(t)

	if err := e.AddIngredient(ctx, expiringIn("milk", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := e.AddIngredient(ctx, domain.NewIngredient("flour", 2, "cups")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := e.AddRecipe(ctx, pancakes()); err != nil {
		t.Fatalf("add recipe: %v", err)
	}

	ingredients, recipes, expiring := e.Counts(ctx)
	if ingredients != 2 || recipes != 1 || expiring != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", ingredients, recipes, expiring)
	}
}

func TestBackupRestore(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	inv := storage.NewMemoryInventory(log)
	cat := storage.NewMemoryCatalog(log)
	dir := t.TempDir()
	e := New(inv, cat, log, WithDataDir(dir))
	ctx := context.Background()

	if err := e.AddIngredient(ctx, domain.NewIngredient("flour", 2, "cups")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := e.AddRecipe(ctx, pancakes()); err != nil {
		t.Fatalf("add recipe: %v", err)
	}

	path, err := e.Backup(ctx, "")
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "backup_") {
		t.Errorf("default backup name = %q, want backup_ prefix", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	// Restore into a fresh kitchen.
	inv2 := storage.NewMemoryInventory(log)
	cat2 := storage.NewMemoryCatalog(log)
	e2 := New(inv2, cat2, log)
	if err := e2.Restore(ctx, path); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if _, err := e2.GetIngredient(ctx, "flour"); err != nil {
		t.Errorf("flour missing after restore: %v", err)
	}
	if _, err := e2.GetRecipe(ctx, "pancakes"); err != nil {
		t.Errorf("pancakes missing after restore: %v", err)
	}

	if err := e2.Restore(ctx, ""); err == nil {
		t.Fatal("expected error for restore without a path")
	}
}

func TestConvert(t *testing.T) {
	e, _ := setupEngine(t)

	got, err := e.Convert(2, "cups", "ml")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got != 473.176 {
		t.Errorf("2 cups = %v ml, want 473.176", got)
	}

	if _, err := e.Convert(1, "cup", "g"); !errors.Is(err, units.ErrIncompatible) {
		t.Fatalf("expected ErrIncompatible, got %v", err)
	}
}
