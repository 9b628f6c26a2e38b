package domain

import "context"

// InventoryStore persists pantry ingredients. Implementations can be
// in-memory or file-backed. Put replaces any existing ingredient with the
// same normalized name.
type InventoryStore interface {
	List(ctx context.Context) ([]*Ingredient, error)
	Get(ctx context.Context, name string) (*Ingredient, error)
	Put(ctx context.Context, ing *Ingredient) error
	Delete(ctx context.Context, name string) error
	Clear(ctx context.Context) error
}

// RecipeStore persists the recipe catalog. Put replaces any existing recipe
// with the same normalized name.
type RecipeStore interface {
	List(ctx context.Context) ([]*Recipe, error)
	Get(ctx context.Context, name string) (*Recipe, error)
	Put(ctx context.Context, r *Recipe) error
	Delete(ctx context.Context, name string) error
	Clear(ctx context.Context) error
}

// IntentParser converts raw user input into structured intents.
// Implementations can be keyword-based, regex, or anything smarter.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout or into the terminal UI scrollback.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
