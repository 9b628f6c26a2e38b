package match

import (
	"testing"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

func setupMatcher(t *testing.T) *Matcher {
	t.Helper()
	return New(logger.New(logger.LevelOff, nil))
}

func testRecipe(name string, lines ...domain.RecipeIngredient) *domain.Recipe {
	return domain.NewRecipe(name, 4, lines, []string{"Mix everything", "Cook"})
}

func TestScoreFullMatch(t *testing.T) {
	m := setupMatcher(t)
	r := testRecipe("Pancakes",
		domain.NewRecipeIngredient("flour", 2, "cups"),
		domain.NewRecipeIngredient("milk", 1, "cup"),
	)
	inventory := []*domain.Ingredient{
		domain.NewIngredient("flour", 3, "cups"),
		domain.NewIngredient("milk", 2, "cups"),
	}

	score, missing, matched := m.Score(r, inventory, true)
	if score != 1.0 {
		t.Fatalf("score: got %v, want 1.0", score)
	}
	if len(missing) != 0 {
		t.Fatalf("expected nothing missing, got %v", missing)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 matched, got %v", matched)
	}
}

func TestScoreTwoThirds(t *testing.T) {
	m := setupMatcher(t)
	r := testRecipe("Pancakes",
		domain.NewRecipeIngredient("flour", 2, "cups"),
		domain.NewRecipeIngredient("milk", 1, "cup"),
		domain.NewRecipeIngredient("eggs", 2, "pieces"),
	)
	inventory := []*domain.Ingredient{
		domain.NewIngredient("flour", 3, "cups"),
		domain.NewIngredient("milk", 2, "cups"),
	}

	score, missing, matched := m.Score(r, inventory, true)
	if score != 2.0/3.0 {
		t.Fatalf("score: got %v, want %v", score, 2.0/3.0)
	}
	if len(matched) != 2 || matched[0] != "flour" || matched[1] != "milk" {
		t.Fatalf("matched: got %v", matched)
	}
	if len(missing) != 1 || missing[0] != "2 pieces eggs" {
		t.Fatalf("missing: got %v", missing)
	}
}

func TestScoreUnitConversion(t *testing.T) {
	m := setupMatcher(t)
	r := testRecipe("Bread",
		domain.NewRecipeIngredient("flour", 1, "lb"),
		domain.NewRecipeIngredient("milk", 500, "ml"),
	)
	inventory := []*domain.Ingredient{
		domain.NewIngredient("flour", 500, "g"), // covers 453.592 g
		domain.NewIngredient("milk", 1, "l"),
	}

	score, missing, _ := m.Score(r, inventory, true)
	if score != 1.0 {
		t.Fatalf("score: got %v, want 1.0 (missing %v)", score, missing)
	}
}

func TestScoreSubstitutionCredit(t *testing.T) {
	m := setupMatcher(t)
	r := testRecipe("Muffins",
		domain.NewRecipeIngredient("milk", 1, "cup"),
	)
	inventory := []*domain.Ingredient{
		domain.NewIngredient("buttermilk", 2, "cups"),
	}

	score, missing, matched := m.Score(r, inventory, true)
	if score != 0.8 {
		t.Fatalf("score: got %v, want 0.8", score)
	}
	if len(missing) != 0 {
		t.Fatalf("expected nothing missing, got %v", missing)
	}
	if len(matched) != 1 || matched[0] != "buttermilk (sub for milk)" {
		t.Fatalf("matched: got %v", matched)
	}
}

func TestScoreSubstitutionRatio(t *testing.T) {
	m := setupMatcher(t)
	r := testRecipe("Cookies",
		domain.NewRecipeIngredient("butter", 1, "cup"),
	)

	// Oil is listed first with ratio 0.75: 0.75 on hand is exactly enough.
	inventory := []*domain.Ingredient{
		domain.NewIngredient("oil", 0.75, "cup"),
	}
	score, _, matched := m.Score(r, inventory, true)
	if score != 0.8 {
		t.Fatalf("score: got %v, want 0.8", score)
	}
	if matched[0] != "oil (sub for butter)" {
		t.Fatalf("matched: got %v", matched)
	}

	// Short of the ratio, the next candidate with enough quantity wins.
	inventory = []*domain.Ingredient{
		domain.NewIngredient("oil", 0.5, "cup"),
		domain.NewIngredient("margarine", 1, "cup"),
	}
	score, _, matched = m.Score(r, inventory, true)
	if score != 0.8 {
		t.Fatalf("score: got %v, want 0.8", score)
	}
	if matched[0] != "margarine (sub for butter)" {
		t.Fatalf("matched: got %v", matched)
	}
}

func TestScoreInsufficientIsTerminal(t *testing.T) {
	m := setupMatcher(t)
	r := testRecipe("Custard",
		domain.NewRecipeIngredient("milk", 2, "cups"),
	)

	// Milk is present but short; buttermilk would cover it, yet an
	// insufficient direct match never falls through to substitutes.
	inventory := []*domain.Ingredient{
		domain.NewIngredient("milk", 1, "cup"),
		domain.NewIngredient("buttermilk", 5, "cups"),
	}

	score, missing, matched := m.Score(r, inventory, true)
	if score != 0 {
		t.Fatalf("score: got %v, want 0", score)
	}
	if len(matched) != 0 {
		t.Fatalf("expected no matches, got %v", matched)
	}
	want := "milk (need 2 cups, have 1 cup)"
	if len(missing) != 1 || missing[0] != want {
		t.Fatalf("missing: got %v, want [%q]", missing, want)
	}
}

func TestScoreSubstitutionsDisallowed(t *testing.T) {
	m := setupMatcher(t)
	r := testRecipe("Muffins",
		domain.NewRecipeIngredient("milk", 1, "cup"),
	)
	inventory := []*domain.Ingredient{
		domain.NewIngredient("buttermilk", 2, "cups"),
	}

	score, missing, _ := m.Score(r, inventory, false)
	if score != 0 {
		t.Fatalf("score: got %v, want 0", score)
	}
	if len(missing) != 1 || missing[0] != "1 cup milk" {
		t.Fatalf("missing: got %v", missing)
	}
}

func TestScoreOptionalOnly(t *testing.T) {
	m := setupMatcher(t)
	parsley := domain.NewRecipeIngredient("parsley", 1, "tbsp")
	parsley.Optional = true
	r := testRecipe("Garnish", parsley)

	score, missing, matched := m.Score(r, nil, true)
	if score != 1.0 {
		t.Fatalf("score: got %v, want 1.0", score)
	}
	if missing != nil || matched != nil {
		t.Fatalf("expected empty lists, got missing=%v matched=%v", missing, matched)
	}
}

func TestScoreLastWriteWins(t *testing.T) {
	m := setupMatcher(t)
	r := testRecipe("Porridge",
		domain.NewRecipeIngredient("milk", 2, "cups"),
	)

	// Duplicate names in the snapshot: the later entry is authoritative.
	inventory := []*domain.Ingredient{
		domain.NewIngredient("milk", 0.5, "cups"),
		domain.NewIngredient("milk", 3, "cups"),
	}

	score, _, _ := m.Score(r, inventory, true)
	if score != 1.0 {
		t.Fatalf("score: got %v, want 1.0", score)
	}
}

func TestRankFiltersAndOrders(t *testing.T) {
	m := setupMatcher(t)

	full := testRecipe("Toast",
		domain.NewRecipeIngredient("bread", 2, "pieces"),
	)
	full.Rating = 3.0

	fullHigherRated := testRecipe("Grilled Cheese",
		domain.NewRecipeIngredient("bread", 2, "pieces"),
	)
	fullHigherRated.Rating = 4.5

	partial := testRecipe("Pancakes",
		domain.NewRecipeIngredient("bread", 1, "pieces"),
		domain.NewRecipeIngredient("caviar", 1, "cup"),
	)

	inventory := []*domain.Ingredient{
		domain.NewIngredient("bread", 6, "pieces"),
	}

	recipes := []*domain.Recipe{partial, full, fullHigherRated}
	results := m.Rank(recipes, inventory, 0.5, true)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Recipe.Name != "Grilled Cheese" || results[1].Recipe.Name != "Toast" {
		t.Fatalf("wrong order: %q, %q", results[0].Recipe.Name, results[1].Recipe.Name)
	}
	if results[2].Recipe.Name != "Pancakes" || results[2].Score != 0.5 {
		t.Fatalf("expected Pancakes at 0.5 last, got %q at %v", results[2].Recipe.Name, results[2].Score)
	}

	if results = m.Rank(recipes, inventory, 0.7, true); len(results) != 2 {
		t.Fatalf("expected the 0.5 match excluded at 0.7, got %d results", len(results))
	}
}

func TestRankThresholdBoundary(t *testing.T) {
	m := setupMatcher(t)
	r := testRecipe("Pancakes",
		domain.NewRecipeIngredient("flour", 2, "cups"),
		domain.NewRecipeIngredient("milk", 1, "cup"),
		domain.NewRecipeIngredient("eggs", 2, "pieces"),
	)
	inventory := []*domain.Ingredient{
		domain.NewIngredient("flour", 3, "cups"),
		domain.NewIngredient("milk", 2, "cups"),
	}

	if results := m.Rank([]*domain.Recipe{r}, inventory, 0.7, true); len(results) != 0 {
		t.Fatalf("2/3 match should be excluded at 0.7, got %d results", len(results))
	}
	results := m.Rank([]*domain.Recipe{r}, inventory, 0.6, true)
	if len(results) != 1 {
		t.Fatalf("2/3 match should be included at 0.6, got %d results", len(results))
	}
	if results[0].Score != 2.0/3.0 {
		t.Fatalf("score: got %v, want %v", results[0].Score, 2.0/3.0)
	}
}

func TestCanMake(t *testing.T) {
	m := setupMatcher(t)
	r := testRecipe("Toast",
		domain.NewRecipeIngredient("bread", 2, "pieces"),
	)

	ok, missing := m.CanMake(r, []*domain.Ingredient{domain.NewIngredient("bread", 2, "pieces")}, true)
	if !ok {
		t.Fatalf("expected makeable, missing %v", missing)
	}

	ok, missing = m.CanMake(r, nil, true)
	if ok {
		t.Fatal("expected not makeable with empty pantry")
	}
	if len(missing) != 1 || missing[0] != "2 pieces bread" {
		t.Fatalf("missing: got %v", missing)
	}
}

func TestRankByTime(t *testing.T) {
	m := setupMatcher(t)

	quick := testRecipe("Toast", domain.NewRecipeIngredient("bread", 1, "pieces"))
	quick.PrepTime, quick.CookTime = 2, 3

	slow := testRecipe("Roast", domain.NewRecipeIngredient("bread", 1, "pieces"))
	slow.PrepTime, slow.CookTime = 30, 90

	inventory := []*domain.Ingredient{domain.NewIngredient("bread", 5, "pieces")}

	results := m.RankByTime([]*domain.Recipe{quick, slow}, inventory, 15, DefaultFilteredMinScore, true)
	if len(results) != 1 || results[0].Recipe.Name != "Toast" {
		t.Fatalf("expected only Toast within 15 minutes, got %v", results)
	}
}

func TestRankByDifficulty(t *testing.T) {
	m := setupMatcher(t)

	easy := testRecipe("Toast", domain.NewRecipeIngredient("bread", 1, "pieces"))
	easy.Difficulty = domain.DifficultyEasy

	hard := testRecipe("Souffle", domain.NewRecipeIngredient("bread", 1, "pieces"))
	hard.Difficulty = domain.DifficultyHard

	inventory := []*domain.Ingredient{domain.NewIngredient("bread", 5, "pieces")}

	results := m.RankByDifficulty([]*domain.Recipe{easy, hard}, inventory, "Easy", DefaultFilteredMinScore, true)
	if len(results) != 1 || results[0].Recipe.Name != "Toast" {
		t.Fatalf("expected only the easy recipe, got %v", results)
	}
}
