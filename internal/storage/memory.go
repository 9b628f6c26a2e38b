// Package storage provides pantry inventory and recipe catalog
// persistence implementations, both in-memory and JSON-file backed.
package storage

import (
	"context"
	"sort"
	"sync"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.InventoryStore = (*MemoryInventory)(nil)
	_ domain.RecipeStore    = (*MemoryCatalog)(nil)
)

// MemoryInventory is an in-memory pantry store. Safe for concurrent use.
type MemoryInventory struct {
	mu    sync.RWMutex
	items map[string]*domain.Ingredient
	log   *logger.Logger
}

// NewMemoryInventory creates an empty in-memory pantry store.
func NewMemoryInventory(log *logger.Logger) *MemoryInventory {
	return &MemoryInventory{
		items: make(map[string]*domain.Ingredient),
		log:   log,
	}
}

// List returns all ingredients sorted by name.
func (s *MemoryInventory) List(ctx context.Context) ([]*domain.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Ingredient, 0, len(s.items))
	for _, ing := range s.items {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get retrieves an ingredient by name, case-insensitively.
func (s *MemoryInventory) Get(ctx context.Context, name string) (*domain.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ing, ok := s.items[domain.Key(name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ing, nil
}

// Put stores an ingredient, replacing any existing entry with the same
// normalized name.
func (s *MemoryInventory) Put(ctx context.Context, ing *domain.Ingredient) error {
	key := domain.Key(ing.Name)
	if key == "" {
		return domain.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("storing ingredient %q (%v %s)", ing.Name, ing.Quantity, ing.Unit)
	s.items[key] = ing
	return nil
}

// Delete removes an ingredient by name.
func (s *MemoryInventory) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Key(name)
	if _, ok := s.items[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, key)
	s.log.Debug("deleted ingredient %q", key)
	return nil
}

// Clear removes every ingredient.
func (s *MemoryInventory) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*domain.Ingredient)
	return nil
}

// MemoryCatalog is an in-memory recipe store. Safe for concurrent use.
type MemoryCatalog struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewMemoryCatalog creates an empty in-memory recipe store.
func NewMemoryCatalog(log *logger.Logger) *MemoryCatalog {
	return &MemoryCatalog{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
}

// List returns all recipes sorted by name.
func (s *MemoryCatalog) List(ctx context.Context) ([]*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get retrieves a recipe by name, case-insensitively.
func (s *MemoryCatalog) Get(ctx context.Context, name string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[domain.Key(name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// Put stores a recipe, replacing any existing entry with the same
// normalized name.
func (s *MemoryCatalog) Put(ctx context.Context, r *domain.Recipe) error {
	key := domain.Key(r.Name)
	if key == "" {
		return domain.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("storing recipe %q (%d ingredients)", r.Name, len(r.Ingredients))
	s.recipes[key] = r
	return nil
}

// Delete removes a recipe by name.
func (s *MemoryCatalog) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Key(name)
	if _, ok := s.recipes[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.recipes, key)
	s.log.Debug("deleted recipe %q", key)
	return nil
}

// Clear removes every recipe.
func (s *MemoryCatalog) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipes = make(map[string]*domain.Recipe)
	return nil
}
