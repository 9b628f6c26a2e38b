// Package match scores recipes against a pantry inventory and ranks the
// results. Quantities are compared in each dimension's standard unit, and
// the built-in substitution table can earn partial credit for missing
// ingredients.
package match

import (
	"fmt"
	"sort"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
	"pantrychef/internal/substitute"
	"pantrychef/internal/units"
)

const (
	// DefaultMinScore is the cutoff for free-form ranking.
	DefaultMinScore = 0.7
	// DefaultFilteredMinScore is the stricter cutoff used when ranking an
	// already-filtered subset (by time or difficulty).
	DefaultFilteredMinScore = 0.8

	// substitutionCredit is the per-line weight awarded for a substitute,
	// always below the 1.0 of a direct match.
	substitutionCredit = 0.8
)

// Result is one ranked recipe with its score and the matched and missing
// ingredient descriptions.
type Result struct {
	Recipe  *domain.Recipe
	Score   float64
	Missing []string
	Matched []string
}

// Matcher scores and ranks recipes. It is stateless apart from the logger
// and safe for concurrent use.
type Matcher struct {
	log *logger.Logger
}

// New creates a matcher.
func New(log *logger.Logger) *Matcher {
	return &Matcher{log: log}
}

// Score computes how completely the inventory covers a recipe's required
// ingredients. Returns the score in [0,1], the missing descriptions, and
// the matched descriptions. A recipe with no required ingredients scores
// a perfect 1.0.
func (m *Matcher) Score(recipe *domain.Recipe, inventory []*domain.Ingredient, allowSubs bool) (float64, []string, []string) {
	byName := make(map[string]*domain.Ingredient, len(inventory))
	for _, ing := range inventory {
		byName[ing.Name] = ing // names are the identity key, last write wins
	}

	var required []domain.RecipeIngredient
	for _, line := range recipe.Ingredients {
		if !line.Optional {
			required = append(required, line)
		}
	}
	if len(required) == 0 {
		return 1.0, nil, nil
	}

	var (
		weight  float64
		missing []string
		matched []string
	)

	for _, line := range required {
		if have, ok := byName[line.Name]; ok {
			// Present but insufficient is terminal: no substitute is
			// tried for this line.
			needStd, _ := units.ToStandard(line.Quantity, line.Unit)
			haveStd, _ := units.ToStandard(have.Quantity, have.Unit)
			if haveStd >= needStd {
				weight += 1.0
				matched = append(matched, line.Name)
			} else {
				missing = append(missing, fmt.Sprintf("%s (need %s %s, have %s %s)",
					line.Name, domain.FormatFloat(line.Quantity), line.Unit,
					domain.FormatFloat(have.Quantity), have.Unit))
			}
			continue
		}

		if allowSubs {
			if desc, ok := m.findSubstitute(line, byName); ok {
				weight += substitutionCredit
				matched = append(matched, desc)
				continue
			}
		}
		missing = append(missing, fmt.Sprintf("%s %s %s",
			domain.FormatFloat(line.Quantity), line.Unit, line.Name))
	}

	score := weight / float64(len(required))
	m.log.Debug("scored %q at %.2f (%d matched, %d missing)",
		recipe.Name, score, len(matched), len(missing))
	return score, missing, matched
}

// findSubstitute picks the first listed substitute present in sufficient
// quantity. The ratio applies directly to the recipe quantity; no unit
// conversion happens here.
func (m *Matcher) findSubstitute(line domain.RecipeIngredient, byName map[string]*domain.Ingredient) (string, bool) {
	for _, rule := range substitute.For(line.Name) {
		have, ok := byName[rule.Ingredient]
		if !ok {
			continue
		}
		if have.Quantity >= line.Quantity*rule.Ratio {
			return fmt.Sprintf("%s (sub for %s)", rule.Ingredient, line.Name), true
		}
	}
	return "", false
}

// Rank scores every recipe and keeps those at or above minScore, ordered
// by score then rating, both descending. Catalog order is preserved among
// exact ties.
func (m *Matcher) Rank(recipes []*domain.Recipe, inventory []*domain.Ingredient, minScore float64, allowSubs bool) []Result {
	var results []Result
	for _, r := range recipes {
		score, missing, matched := m.Score(r, inventory, allowSubs)
		if score >= minScore {
			results = append(results, Result{Recipe: r, Score: score, Missing: missing, Matched: matched})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Recipe.Rating > results[j].Recipe.Rating
	})

	m.log.Debug("ranked %d of %d recipes at min score %.2f", len(results), len(recipes), minScore)
	return results
}

// CanMake reports whether the inventory fully covers the recipe, along
// with what is missing.
func (m *Matcher) CanMake(recipe *domain.Recipe, inventory []*domain.Ingredient, allowSubs bool) (bool, []string) {
	score, missing, _ := m.Score(recipe, inventory, allowSubs)
	return score >= 1.0, missing
}

// RankByTime ranks only recipes whose total time fits within maxMinutes.
func (m *Matcher) RankByTime(recipes []*domain.Recipe, inventory []*domain.Ingredient, maxMinutes int, minScore float64, allowSubs bool) []Result {
	var quick []*domain.Recipe
	for _, r := range recipes {
		if r.TotalTime() <= maxMinutes {
			quick = append(quick, r)
		}
	}
	return m.Rank(quick, inventory, minScore, allowSubs)
}

// RankByDifficulty ranks only recipes with exactly the given difficulty.
func (m *Matcher) RankByDifficulty(recipes []*domain.Recipe, inventory []*domain.Ingredient, difficulty string, minScore float64, allowSubs bool) []Result {
	want := domain.Key(difficulty)
	var filtered []*domain.Recipe
	for _, r := range recipes {
		if r.Difficulty == want {
			filtered = append(filtered, r)
		}
	}
	return m.Rank(filtered, inventory, minScore, allowSubs)
}
