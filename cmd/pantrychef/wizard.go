package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pantrychef/internal/domain"
	"pantrychef/internal/shopping"
)

// wizard is a short guided flow that consumes input lines directly,
// bypassing the intent parser. Typing "cancel" always aborts.
type wizard interface {
	// handle consumes one line and reports whether the wizard finished.
	handle(ctx context.Context, line string) bool
}

func cancelled(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "cancel")
}

// ── Ingredient wizard ────────────────────────────────────────────

type ingredientWizard struct {
	app  *cliApp
	step int

	name       string
	qty        float64
	unit       string
	guess      string // suggested category, from the name
	category   string
	expiration *time.Time
	cost       float64
}

func startIngredientWizard(a *cliApp) *ingredientWizard {
	a.ui.PrintChat("Let's add something to the pantry. (type 'cancel' to stop)")
	a.ui.PrintChat("What's the ingredient?")
	return &ingredientWizard{app: a}
}

func (w *ingredientWizard) handle(ctx context.Context, line string) bool {
	a := w.app
	line = strings.TrimSpace(line)
	if cancelled(line) {
		a.ui.PrintChat("Never mind, nothing added.")
		return true
	}

	switch w.step {
	case 0: // name
		if line == "" {
			a.ui.PrintChat("I need a name for it.")
			return false
		}
		w.name = line
		w.guess = shopping.GuessCategory(line)
		w.step++
		if _, ok := a.existing(ctx, w.name); ok {
			a.ui.PrintHint("(this will replace the existing pantry entry)")
		}
		a.ui.PrintChat("How much do you have? (a number, like 2 or 0.5)")

	case 1: // quantity
		q, err := parseQuantity(line)
		if err != nil || q < 0 {
			a.ui.PrintUrgent("That's not a quantity I understand, try again.")
			return false
		}
		w.qty = q
		w.step++
		a.ui.PrintChat("What unit? (cups, g, ml... blank for count)")

	case 2: // unit
		w.unit = line
		if w.unit == "" {
			w.unit = "count"
		}
		w.step++
		a.ui.PrintChat(fmt.Sprintf("Category? (blank for %q)", w.guess))

	case 3: // category
		w.category = line
		if w.category == "" {
			w.category = w.guess
		}
		w.step++
		a.ui.PrintChat("Expiration? (YYYY-MM-DD, days from now, or blank for none)")

	case 4: // expiration
		if line != "" {
			t, err := parseExpiration(line)
			if err != nil {
				a.ui.PrintUrgent("Use YYYY-MM-DD or a plain number of days.")
				return false
			}
			w.expiration = &t
		}
		w.step++
		a.ui.PrintChat("Cost per unit? (blank for 0)")

	case 5: // cost, then save
		if line != "" {
			c, err := strconv.ParseFloat(line, 64)
			if err != nil || c < 0 {
				a.ui.PrintUrgent("That's not a price, try again.")
				return false
			}
			w.cost = c
		}

		ing := domain.NewIngredient(w.name, w.qty, w.unit)
		ing.Category = domain.Key(w.category)
		ing.CostPerUnit = w.cost
		ing.Expiration = w.expiration
		if err := a.engine.AddIngredient(ctx, ing); err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			return true
		}
		a.ui.PrintChat(fmt.Sprintf("Added %s.", ing))
		return true
	}
	return false
}

// parseExpiration reads a date ("2026-09-01") or a day count ("7").
// Dates parse in local time so day-until math lands on calendar days.
func parseExpiration(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	days, err := strconv.Atoi(s)
	if err != nil || days < 0 {
		return time.Time{}, fmt.Errorf("%q is not a date or day count", s)
	}
	return time.Now().AddDate(0, 0, days), nil
}

// ── Recipe wizard ────────────────────────────────────────────────

type recipeWizard struct {
	app  *cliApp
	step int

	name         string
	servings     int
	prep         int
	cook         int
	difficulty   string
	cuisine      string
	tags         []string
	ingredients  []domain.RecipeIngredient
	instructions []string
}

func startRecipeWizard(a *cliApp) *recipeWizard {
	a.ui.PrintChat("A new recipe! What's it called? (type 'cancel' to stop)")
	return &recipeWizard{app: a}
}

func (w *recipeWizard) handle(ctx context.Context, line string) bool {
	a := w.app
	line = strings.TrimSpace(line)
	if cancelled(line) {
		a.ui.PrintChat("Never mind, nothing saved.")
		return true
	}

	switch w.step {
	case 0: // name
		if line == "" {
			a.ui.PrintChat("Every recipe needs a name.")
			return false
		}
		w.name = line
		w.step++
		if _, err := a.engine.GetRecipe(ctx, line); err == nil {
			a.ui.PrintHint("(this will replace the existing recipe with that name)")
		}
		a.ui.PrintChat("How many servings? (blank for 4)")

	case 1: // servings
		w.servings = 4
		if line != "" {
			n, err := strconv.Atoi(line)
			if err != nil || n <= 0 {
				a.ui.PrintUrgent("Servings must be a positive number.")
				return false
			}
			w.servings = n
		}
		w.step++
		a.ui.PrintChat("Prep time in minutes? (blank for 0)")

	case 2: // prep
		n, ok := w.minutes(line)
		if !ok {
			return false
		}
		w.prep = n
		w.step++
		a.ui.PrintChat("Cook time in minutes? (blank for 0)")

	case 3: // cook
		n, ok := w.minutes(line)
		if !ok {
			return false
		}
		w.cook = n
		w.step++
		a.ui.PrintChat("Difficulty: easy, medium, or hard? (blank for medium)")

	case 4: // difficulty
		w.difficulty = domain.DifficultyMedium
		if line != "" {
			d := domain.Key(line)
			if !domain.ValidDifficulty(d) {
				a.ui.PrintUrgent("Pick easy, medium, or hard.")
				return false
			}
			w.difficulty = d
		}
		w.step++
		a.ui.PrintChat("Cuisine? (blank for other)")

	case 5: // cuisine
		w.cuisine = "other"
		if line != "" {
			w.cuisine = domain.Key(line)
		}
		w.step++
		a.ui.PrintChat("Dietary tags, comma separated? (blank for none)")

	case 6: // tags
		for _, tag := range strings.Split(line, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				w.tags = append(w.tags, domain.Key(tag))
			}
		}
		w.step++
		a.ui.PrintChat("Now the ingredients, one per line as \"<qty> <unit> <name>\".")
		a.ui.PrintHint("End a line with 'optional' if it's optional. Type 'done' when finished.")

	case 7: // ingredient lines
		if strings.EqualFold(line, "done") {
			if len(w.ingredients) == 0 {
				a.ui.PrintChat("I need at least one ingredient.")
				return false
			}
			w.step++
			a.ui.PrintChat("And the steps, one per line. Type 'done' when finished.")
			return false
		}

		optional := false
		lower := strings.ToLower(line)
		for _, suffix := range []string{"(optional)", "optional"} {
			if strings.HasSuffix(lower, suffix) {
				optional = true
				line = strings.TrimSpace(line[:len(line)-len(suffix)])
				break
			}
		}

		qty, unit, name, err := parseIngredientPhrase(line)
		if err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			a.ui.PrintHint("Like '2 cups flour', or '1 cup walnuts optional'.")
			return false
		}
		if unit == "" {
			unit = "count"
		}
		ri := domain.NewRecipeIngredient(name, qty, unit)
		ri.Optional = optional
		w.ingredients = append(w.ingredients, ri)

	case 8: // instruction lines, then save
		if !strings.EqualFold(line, "done") {
			w.instructions = append(w.instructions, line)
			return false
		}

		r := domain.NewRecipe(w.name, w.servings, w.ingredients, w.instructions)
		r.PrepTime = w.prep
		r.CookTime = w.cook
		r.Difficulty = w.difficulty
		r.Cuisine = w.cuisine
		r.DietaryTags = w.tags
		if err := a.engine.AddRecipe(ctx, r); err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			return true
		}
		a.ui.PrintChat(fmt.Sprintf("Saved %s.", r))
		return true
	}
	return false
}

// minutes parses a non-negative minute count, blank meaning zero.
func (w *recipeWizard) minutes(line string) (int, bool) {
	if line == "" {
		return 0, true
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		w.app.ui.PrintUrgent("Minutes must be a non-negative number.")
		return 0, false
	}
	return n, true
}
