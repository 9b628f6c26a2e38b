// Package engine implements the core kitchen operations: pantry upkeep,
// recipe matching, scaling, shopping lists, and data archiving.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"pantrychef/internal/domain"
	"pantrychef/internal/expiry"
	"pantrychef/internal/logger"
	"pantrychef/internal/match"
	"pantrychef/internal/scale"
	"pantrychef/internal/shopping"
	"pantrychef/internal/storage"
	"pantrychef/internal/substitute"
	"pantrychef/internal/units"
)

// Option configures the engine.
type Option func(*Engine)

// WithMinScore sets the default match score threshold for FindRecipes.
func WithMinScore(score float64) Option {
	return func(e *Engine) {
		e.minScore = score
	}
}

// WithFilteredMinScore sets the match threshold used by the time and
// difficulty filters.
func WithFilteredMinScore(score float64) Option {
	return func(e *Engine) {
		e.filteredMinScore = score
	}
}

// WithSubstitutions toggles whether matching may count substitutes.
func WithSubstitutions(enabled bool) Option {
	return func(e *Engine) {
		e.allowSubs = enabled
	}
}

// WithWarnWindow sets how many days ahead ExpiringSoon and Stats look.
func WithWarnWindow(days int) Option {
	return func(e *Engine) {
		e.warnDays = days
	}
}

// WithDataDir sets the directory where default backups land.
func WithDataDir(dir string) Option {
	return func(e *Engine) {
		e.dataDir = dir
	}
}

// Engine coordinates the stores and the kitchen logic. It depends only on
// interfaces and is fully testable with in-memory stores.
type Engine struct {
	inventory domain.InventoryStore
	recipes   domain.RecipeStore
	matcher   *match.Matcher
	planner   *shopping.Planner
	archive   *storage.Archive
	log       *logger.Logger

	minScore         float64
	filteredMinScore float64
	allowSubs        bool
	warnDays         int
	dataDir          string
}

// New creates a kitchen engine with the given dependencies and options.
func New(inventory domain.InventoryStore, recipes domain.RecipeStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		inventory:        inventory,
		recipes:          recipes,
		matcher:          match.New(log),
		planner:          shopping.New(log),
		archive:          storage.NewArchive(inventory, recipes, log),
		log:              log,
		minScore:         match.DefaultMinScore,
		filteredMinScore: match.DefaultFilteredMinScore,
		allowSubs:        true,
		warnDays:         expiry.DefaultWarnWindow,
		dataDir:          "data",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pantry returns all pantry ingredients sorted by name.
func (e *Engine) Pantry(ctx context.Context) ([]*domain.Ingredient, error) {
	return e.inventory.List(ctx)
}

// GetIngredient returns a pantry ingredient by name.
func (e *Engine) GetIngredient(ctx context.Context, name string) (*domain.Ingredient, error) {
	return e.inventory.Get(ctx, name)
}

// IngredientsByCategory groups the pantry by category. Ingredients stay
// sorted by name within each group; empty categories map to "other".
func (e *Engine) IngredientsByCategory(ctx context.Context) (map[string][]*domain.Ingredient, error) {
	inventory, err := e.inventory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	groups := make(map[string][]*domain.Ingredient)
	for _, ing := range inventory {
		cat := ing.Category
		if cat == "" {
			cat = "other"
		}
		groups[cat] = append(groups[cat], ing)
	}
	return groups, nil
}

// AddIngredient stores an ingredient, replacing any existing entry with the
// same name.
func (e *Engine) AddIngredient(ctx context.Context, ing *domain.Ingredient) error {
	if err := e.inventory.Put(ctx, ing); err != nil {
		return fmt.Errorf("adding ingredient: %w", err)
	}
	e.log.Info("pantry: added %s", ing)
	return nil
}

// RemoveIngredient deletes an ingredient from the pantry.
func (e *Engine) RemoveIngredient(ctx context.Context, name string) error {
	if err := e.inventory.Delete(ctx, name); err != nil {
		return fmt.Errorf("removing ingredient: %w", err)
	}
	e.log.Info("pantry: removed %s", domain.Key(name))
	return nil
}

// UseIngredient consumes an amount of a pantry ingredient. When the given
// unit differs from the stored one the amount is converted first. The entry
// stays in the pantry even when it hits zero.
func (e *Engine) UseIngredient(ctx context.Context, name string, amount float64, unit string) (*domain.Ingredient, error) {
	ing, err := e.inventory.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("using ingredient: %w", err)
	}

	needed := amount
	if unit != "" && domain.Key(unit) != ing.Unit {
		needed, err = units.Convert(amount, unit, ing.Unit)
		if err != nil {
			return nil, fmt.Errorf("using ingredient: %w", err)
		}
	}

	if !ing.Use(needed) {
		return nil, fmt.Errorf("not enough %s: need %s %s, have %s %s",
			ing.Name, domain.FormatFloat(needed), ing.Unit, domain.FormatFloat(ing.Quantity), ing.Unit)
	}

	if err := e.inventory.Put(ctx, ing); err != nil {
		return nil, fmt.Errorf("saving ingredient: %w", err)
	}

	e.log.Info("pantry: used %s %s %s, %s left", domain.FormatFloat(needed), ing.Unit, ing.Name, domain.FormatFloat(ing.Quantity))
	return ing, nil
}

// Recipes returns the full catalog sorted by name.
func (e *Engine) Recipes(ctx context.Context) ([]*domain.Recipe, error) {
	return e.recipes.List(ctx)
}

// GetRecipe returns a recipe by name.
func (e *Engine) GetRecipe(ctx context.Context, name string) (*domain.Recipe, error) {
	return e.recipes.Get(ctx, name)
}

// AddRecipe stores a recipe, replacing any existing one with the same name.
func (e *Engine) AddRecipe(ctx context.Context, r *domain.Recipe) error {
	if err := e.recipes.Put(ctx, r); err != nil {
		return fmt.Errorf("adding recipe: %w", err)
	}
	e.log.Info("catalog: added %q (%d ingredients)", r.Name, len(r.Ingredients))
	return nil
}

// DeleteRecipe removes a recipe from the catalog.
func (e *Engine) DeleteRecipe(ctx context.Context, name string) error {
	if err := e.recipes.Delete(ctx, name); err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	e.log.Info("catalog: deleted %q", name)
	return nil
}

// FindRecipes ranks the catalog against the pantry. A non-positive minScore
// falls back to the engine default.
func (e *Engine) FindRecipes(ctx context.Context, minScore float64) ([]match.Result, error) {
	if minScore <= 0 {
		minScore = e.minScore
	}

	recipes, inventory, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	results := e.matcher.Rank(recipes, inventory, minScore, e.allowSubs)
	e.log.Debug("matched %d of %d recipes at min score %.2f", len(results), len(recipes), minScore)
	return results, nil
}

// CanMake reports whether a recipe is fully covered by the pantry, along
// with anything missing.
func (e *Engine) CanMake(ctx context.Context, name string) (bool, []string, error) {
	recipe, err := e.recipes.Get(ctx, name)
	if err != nil {
		return false, nil, fmt.Errorf("getting recipe: %w", err)
	}
	inventory, err := e.inventory.List(ctx)
	if err != nil {
		return false, nil, fmt.Errorf("listing inventory: %w", err)
	}
	ok, missing := e.matcher.CanMake(recipe, inventory, e.allowSubs)
	return ok, missing, nil
}

// QuickRecipes ranks recipes whose total time fits within maxMinutes.
func (e *Engine) QuickRecipes(ctx context.Context, maxMinutes int, minScore float64) ([]match.Result, error) {
	if minScore <= 0 {
		minScore = e.filteredMinScore
	}

	recipes, inventory, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return e.matcher.RankByTime(recipes, inventory, maxMinutes, minScore, e.allowSubs), nil
}

// RecipesByDifficulty ranks recipes of the given difficulty level.
func (e *Engine) RecipesByDifficulty(ctx context.Context, difficulty string, minScore float64) ([]match.Result, error) {
	if !domain.ValidDifficulty(domain.Key(difficulty)) {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	if minScore <= 0 {
		minScore = e.filteredMinScore
	}

	recipes, inventory, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return e.matcher.RankByDifficulty(recipes, inventory, difficulty, minScore, e.allowSubs), nil
}

// Substitutes returns known replacements for an ingredient.
func (e *Engine) Substitutes(name string) []substitute.Rule {
	return substitute.For(name)
}

// ShoppingList aggregates what the given recipes need beyond the pantry.
// Multipliers scale individual recipes by normalized name.
func (e *Engine) ShoppingList(ctx context.Context, names []string, multipliers map[string]float64) ([]shopping.Item, error) {
	var selected []*domain.Recipe
	for _, name := range names {
		recipe, err := e.recipes.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("recipe %q: %w", name, err)
		}
		selected = append(selected, recipe)
	}

	inventory, err := e.inventory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}

	items := e.planner.Aggregate(selected, inventory, multipliers)
	e.log.Info("shopping list for %d recipes: %d items to buy", len(selected), len(items))
	return items, nil
}

// FormatShoppingList renders items as a printable checklist.
func (e *Engine) FormatShoppingList(items []shopping.Item) string {
	return e.planner.Format(items)
}

// ExportShoppingList writes the list for the given recipes to a text file.
func (e *Engine) ExportShoppingList(ctx context.Context, names []string, multipliers map[string]float64, path string) ([]shopping.Item, error) {
	items, err := e.ShoppingList(ctx, names, multipliers)
	if err != nil {
		return nil, err
	}
	if err := e.planner.Export(items, path); err != nil {
		return nil, err
	}
	e.log.Info("exported shopping list (%d items) to %s", len(items), path)
	return items, nil
}

// ScaleRecipe returns a copy of a recipe resized to the given servings.
// The original stays untouched; with save the scaled copy is also stored
// in the catalog under its derived name.
func (e *Engine) ScaleRecipe(ctx context.Context, name string, servings int, save bool) (*domain.Recipe, error) {
	recipe, err := e.recipes.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}
	scaled, err := scale.Recipe(recipe, servings)
	if err != nil {
		return nil, fmt.Errorf("scaling recipe: %w", err)
	}
	if save {
		if err := e.recipes.Put(ctx, scaled); err != nil {
			return nil, fmt.Errorf("saving scaled recipe: %w", err)
		}
	}
	e.log.Info("scaled %q from %d to %d servings (saved=%t)", recipe.Name, recipe.Servings, servings, save)
	return scaled, nil
}

// Convert translates a quantity between units.
func (e *Engine) Convert(quantity float64, fromUnit, toUnit string) (float64, error) {
	converted, err := units.Convert(quantity, fromUnit, toUnit)
	if err != nil {
		return 0, err
	}
	e.log.Debug("converted %s %s to %s %s", domain.FormatFloat(quantity), fromUnit, domain.FormatFloat(converted), toUnit)
	return converted, nil
}

// ExpiringSoon returns ingredients expiring within the next days, soonest
// first. A non-positive days falls back to the engine's warn window.
func (e *Engine) ExpiringSoon(ctx context.Context, days int) ([]*domain.Ingredient, error) {
	if days <= 0 {
		days = e.warnDays
	}
	inventory, err := e.inventory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	return expiry.Soon(inventory, days), nil
}

// Expired returns ingredients already past their expiration date.
func (e *Engine) Expired(ctx context.Context) ([]*domain.Ingredient, error) {
	inventory, err := e.inventory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	return expiry.Expired(inventory), nil
}

// Stats summarizes the pantry and the catalog.
type Stats struct {
	Ingredients      int
	Recipes          int
	ExpiringSoon     int
	Expired          int
	PantryValue      float64
	AvgRecipeMinutes float64
	ByCategory       map[string]int
}

// Stats counts the kitchen: pantry size and composition, catalog size and
// average total time, expiry state, and the total value of stocked
// ingredients.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	recipes, inventory, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Ingredients:  len(inventory),
		Recipes:      len(recipes),
		ExpiringSoon: len(expiry.Soon(inventory, e.warnDays)),
		Expired:      len(expiry.Expired(inventory)),
		ByCategory:   make(map[string]int),
	}
	for _, ing := range inventory {
		st.PantryValue += ing.Quantity * ing.CostPerUnit
		cat := ing.Category
		if cat == "" {
			cat = "other"
		}
		st.ByCategory[cat]++
	}
	if len(recipes) > 0 {
		total := 0
		for _, r := range recipes {
			total += r.TotalTime()
		}
		st.AvgRecipeMinutes = float64(total) / float64(len(recipes))
	}
	return st, nil
}

// Counts returns the status-bar numbers: pantry size, catalog size, and how
// many ingredients expire within the warn window. Errors only degrade the
// numbers to zero; the status bar is not worth failing over.
func (e *Engine) Counts(ctx context.Context) (ingredients, recipes, expiring int) {
	if inventory, err := e.inventory.List(ctx); err == nil {
		ingredients = len(inventory)
		expiring = len(expiry.Soon(inventory, e.warnDays))
	}
	if catalog, err := e.recipes.List(ctx); err == nil {
		recipes = len(catalog)
	}
	return ingredients, recipes, expiring
}

// Backup writes the full kitchen state to path. An empty path picks a
// timestamped file in the data directory. Returns the path written.
func (e *Engine) Backup(ctx context.Context, path string) (string, error) {
	if path == "" {
		path = filepath.Join(e.dataDir, fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405")))
	}
	if err := e.archive.Export(ctx, path); err != nil {
		return "", fmt.Errorf("backing up: %w", err)
	}
	e.log.Info("backed up kitchen data to %s", path)
	return path, nil
}

// Restore replaces the pantry and the catalog with the contents of an
// export file.
func (e *Engine) Restore(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("restore needs a file path")
	}
	if err := e.archive.Import(ctx, path); err != nil {
		return fmt.Errorf("restoring: %w", err)
	}
	e.log.Info("restored kitchen data from %s", path)
	return nil
}

// load fetches the catalog and the inventory in one go.
func (e *Engine) load(ctx context.Context) ([]*domain.Recipe, []*domain.Ingredient, error) {
	recipes, err := e.recipes.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing recipes: %w", err)
	}
	inventory, err := e.inventory.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing inventory: %w", err)
	}
	return recipes, inventory, nil
}
