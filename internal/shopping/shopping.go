// Package shopping reduces the ingredient requirements of several recipes
// to a consolidated purchase list, netted against what the pantry already
// holds. Quantities accumulate in each dimension's standard unit and are
// projected back to a display unit at the end.
package shopping

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
	"pantrychef/internal/units"
)

// Item is one entry on the shopping list.
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// Stats summarizes a shopping list for display.
type Stats struct {
	TotalItems int
	ByCategory map[string]int
}

// Planner builds and renders shopping lists.
type Planner struct {
	log *logger.Logger
}

// New creates a planner.
func New(log *logger.Logger) *Planner {
	return &Planner{log: log}
}

// pending is one ingredient being accumulated across recipes.
type pending struct {
	quantity float64 // running total in the standard unit
	unit     string  // display unit, last recipe line wins
	category string
}

// Aggregate sums the non-optional requirements of the given recipes,
// scaled by the per-recipe multipliers (keyed by normalized recipe name,
// default 1), subtracts pantry stock, and returns the shortfall sorted by
// category then name. Quantities are rounded to two decimals.
func (p *Planner) Aggregate(recipes []*domain.Recipe, inventory []*domain.Ingredient, multipliers map[string]float64) []Item {
	needed := make(map[string]*pending)

	for _, r := range recipes {
		multiplier, ok := multipliers[domain.Key(r.Name)]
		if !ok {
			multiplier = 1.0
		}

		for _, line := range r.Ingredients {
			if line.Optional {
				continue
			}
			stdQty, _ := units.ToStandard(line.Quantity*multiplier, line.Unit)

			entry, ok := needed[line.Name]
			if !ok {
				entry = &pending{}
				needed[line.Name] = entry
			}
			entry.quantity += stdQty
			entry.unit = line.Unit
			entry.category = GuessCategory(line.Name)
		}
	}

	byName := make(map[string]*domain.Ingredient, len(inventory))
	for _, ing := range inventory {
		byName[ing.Name] = ing
	}

	var list []Item
	for name, entry := range needed {
		shortfall := entry.quantity
		if have, ok := byName[name]; ok {
			haveStd, _ := units.ToStandard(have.Quantity, have.Unit)
			if haveStd >= shortfall {
				continue
			}
			shortfall -= haveStd
		}

		display, err := units.Convert(shortfall, units.StandardUnit(entry.unit), entry.unit)
		if err != nil || display <= 0 {
			continue
		}
		list = append(list, Item{
			Name:     name,
			Quantity: round2(display),
			Unit:     entry.unit,
			Category: entry.category,
		})
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Category != list[j].Category {
			return list[i].Category < list[j].Category
		}
		return list[i].Name < list[j].Name
	})

	p.log.Debug("aggregated %d recipes into %d shopping items", len(recipes), len(list))
	return list
}

// categoryLabels maps category keys to display headers.
var categoryLabels = map[string]string{
	"vegetables": "Vegetables",
	"fruits":     "Fruits",
	"dairy":      "Dairy",
	"meat":       "Meat & Poultry",
	"grains":     "Grains & Bread",
	"spices":     "Spices & Seasonings",
	"pantry":     "Pantry Staples",
	"other":      "Other",
}

// Format renders a shopping list as grouped text with one checkbox line
// per item.
func (p *Planner) Format(items []Item) string {
	if len(items) == 0 {
		return "You have all ingredients needed!"
	}

	byCategory := make(map[string][]Item)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("SHOPPING LIST\n")
	b.WriteString(strings.Repeat("=", 50))

	for _, category := range categories {
		label, ok := categoryLabels[category]
		if !ok {
			label = strings.ToUpper(category[:1]) + category[1:]
		}
		b.WriteString("\n\n" + label + ":")

		group := byCategory[category]
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		for _, item := range group {
			b.WriteString("\n  [ ] " + units.FormatQuantity(item.Quantity, item.Unit) + " " + item.Name)
		}
	}
	return b.String()
}

// Export writes the formatted list to a text file.
func (p *Planner) Export(items []Item, path string) error {
	if err := os.WriteFile(path, []byte(p.Format(items)+"\n"), 0o644); err != nil {
		return fmt.Errorf("exporting shopping list: %w", err)
	}
	p.log.Info("exported shopping list (%d items) to %s", len(items), path)
	return nil
}

// Summarize counts list entries per category.
func (p *Planner) Summarize(items []Item) Stats {
	s := Stats{TotalItems: len(items), ByCategory: make(map[string]int)}
	for _, item := range items {
		s.ByCategory[item.Category]++
	}
	return s
}

// categoryKeywords drive substring category guessing. Groups are checked
// in order and the first keyword hit wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"vegetables", []string{"lettuce", "tomato", "onion", "garlic", "potato", "carrot", "pepper", "broccoli", "spinach", "cucumber", "celery"}},
	{"fruits", []string{"apple", "banana", "orange", "lemon", "lime", "berry", "strawberry", "grape", "melon", "peach"}},
	{"dairy", []string{"milk", "cheese", "butter", "yogurt", "cream", "sour cream", "buttermilk"}},
	{"meat", []string{"chicken", "beef", "pork", "turkey", "fish", "salmon", "tuna", "shrimp", "bacon", "ham"}},
	{"grains", []string{"flour", "bread", "rice", "pasta", "oats", "cereal", "tortilla"}},
	{"spices", []string{"salt", "pepper", "cinnamon", "paprika", "cumin", "oregano", "basil", "thyme", "vanilla", "garlic powder", "onion powder"}},
}

// GuessCategory suggests a store category for an ingredient name. Used for
// list grouping here and as the wizard default when adding pantry items.
func GuessCategory(name string) string {
	lower := strings.ToLower(name)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category
			}
		}
	}
	return "other"
}

func round2(q float64) float64 {
	return math.Round(q*100) / 100
}
