// Package domain defines the core types and interfaces for the pantry
// assistant. All other packages depend on domain; domain depends on nothing.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Ingredient is a single pantry item. Names and units are stored normalized
// (lowercase, trimmed) so lookups are case-insensitive.
type Ingredient struct {
	Name        string     `json:"name"`
	Quantity    float64    `json:"quantity"`
	Unit        string     `json:"unit"`
	Expiration  *time.Time `json:"expiration_date"` // date precision, nil when untracked
	Category    string     `json:"category"`
	CostPerUnit float64    `json:"cost_per_unit"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"last_updated"`
}

// Key normalizes a name for case-insensitive lookups.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewIngredient creates a normalized ingredient. Quantity is clamped at zero
// and the category defaults to "other".
func NewIngredient(name string, quantity float64, unit string) *Ingredient {
	now := time.Now()
	if quantity < 0 {
		quantity = 0
	}
	return &Ingredient{
		Name:      Key(name),
		Quantity:  quantity,
		Unit:      Key(unit),
		Category:  "other",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateQuantity sets a new quantity, clamped at zero.
func (i *Ingredient) UpdateQuantity(quantity float64) {
	if quantity < 0 {
		quantity = 0
	}
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
}

// Use consumes the given amount. Returns false without mutating when the
// ingredient does not cover the amount.
func (i *Ingredient) Use(amount float64) bool {
	if i.Quantity < amount {
		return false
	}
	i.Quantity -= amount
	i.UpdatedAt = time.Now()
	return true
}

// IsSufficient reports whether the stored quantity covers the required amount.
func (i *Ingredient) IsSufficient(required float64) bool {
	return i.Quantity >= required
}

// IsExpired reports whether the expiration date lies strictly in the past.
// Ingredients without an expiration date never expire.
func (i *Ingredient) IsExpired() bool {
	if i.Expiration == nil {
		return false
	}
	return startOfDay(*i.Expiration).Before(startOfDay(time.Now()))
}

// DaysUntilExpiry returns whole days until the expiration date (negative when
// already expired). The second return is false when no date is tracked.
func (i *Ingredient) DaysUntilExpiry() (int, bool) {
	if i.Expiration == nil {
		return 0, false
	}
	diff := startOfDay(*i.Expiration).Sub(startOfDay(time.Now()))
	return int(diff.Hours() / 24), true
}

func (i *Ingredient) String() string {
	s := fmt.Sprintf("%s %s %s", FormatFloat(i.Quantity), i.Unit, i.Name)
	if i.Expiration != nil {
		s += fmt.Sprintf(" (expires %s)", i.Expiration.Format("2006-01-02"))
	}
	return s
}

// FormatFloat renders a quantity without trailing zeros ("2", "0.5", "1.25").
func FormatFloat(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
