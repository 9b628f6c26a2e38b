package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	json "github.com/goccy/go-json"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.InventoryStore = (*FileInventory)(nil)
	_ domain.RecipeStore    = (*FileCatalog)(nil)
)

// FileInventory persists the pantry to a JSON array file. The full file is
// rewritten on every mutation via a temp-file rename, so a crash mid-write
// never leaves a truncated file behind.
type FileInventory struct {
	mu    sync.RWMutex
	path  string
	items map[string]*domain.Ingredient
	log   *logger.Logger
}

// NewFileInventory opens (or initializes) the pantry file at path and
// loads its contents. A corrupted file is an error, not an empty pantry.
func NewFileInventory(path string, log *logger.Logger) (*FileInventory, error) {
	s := &FileInventory{
		path:  path,
		items: make(map[string]*domain.Ingredient),
		log:   log,
	}

	var loaded []*domain.Ingredient
	if err := loadJSONFile(path, &loaded); err != nil {
		return nil, fmt.Errorf("loading ingredients: %w", err)
	}
	for _, ing := range loaded {
		s.items[domain.Key(ing.Name)] = ing
	}

	log.Debug("loaded %d ingredients from %s", len(s.items), path)
	return s, nil
}

// List returns all ingredients sorted by name.
func (s *FileInventory) List(ctx context.Context) ([]*domain.Ingredient, error) {
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
func (s *FileInventory) Get(ctx context.Context, name string) (*domain.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ing, ok := s.items[domain.Key(name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ing, nil
}

// Put stores an ingredient, replacing any existing entry with the same
// normalized name, and rewrites the file.
func (s *FileInventory) Put(ctx context.Context, ing *domain.Ingredient) error {
	key := domain.Key(ing.Name)
	if key == "" {
		return domain.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = ing
	if err := s.flush(); err != nil {
		return err
	}
	s.log.Debug("stored ingredient %q (%v %s)", ing.Name, ing.Quantity, ing.Unit)
	return nil
}

// Delete removes an ingredient by name and rewrites the file.
func (s *FileInventory) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Key(name)
	if _, ok := s.items[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, key)
	return s.flush()
}

// Clear removes every ingredient and rewrites the file.
func (s *FileInventory) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*domain.Ingredient)
	return s.flush()
}

// flush rewrites the backing file. Callers must hold the write lock.
func (s *FileInventory) flush() error {
	out := make([]*domain.Ingredient, 0, len(s.items))
	for _, ing := range s.items {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return writeJSONFile(s.path, out)
}

// FileCatalog persists recipes to a JSON array file, mirroring
// FileInventory's write strategy.
type FileCatalog struct {
	mu      sync.RWMutex
	path    string
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewFileCatalog opens (or initializes) the recipe file at path and loads
// its contents.
func NewFileCatalog(path string, log *logger.Logger) (*FileCatalog, error) {
	s := &FileCatalog{
		path:    path,
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}

	var loaded []*domain.Recipe
	if err := loadJSONFile(path, &loaded); err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}
	for _, r := range loaded {
		s.recipes[domain.Key(r.Name)] = r
	}

	log.Debug("loaded %d recipes from %s", len(s.recipes), path)
	return s, nil
}

// List returns all recipes sorted by name.
func (s *FileCatalog) List(ctx context.Context) ([]*domain.Recipe, error) {
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
func (s *FileCatalog) Get(ctx context.Context, name string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[domain.Key(name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// Put stores a recipe, replacing any existing entry with the same
// normalized name, and rewrites the file.
func (s *FileCatalog) Put(ctx context.Context, r *domain.Recipe) error {
	key := domain.Key(r.Name)
	if key == "" {
		return domain.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipes[key] = r
	if err := s.flush(); err != nil {
		return err
	}
	s.log.Debug("stored recipe %q (%d ingredients)", r.Name, len(r.Ingredients))
	return nil
}

// Delete removes a recipe by name and rewrites the file.
func (s *FileCatalog) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Key(name)
	if _, ok := s.recipes[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.recipes, key)
	return s.flush()
}

// Clear removes every recipe and rewrites the file.
func (s *FileCatalog) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipes = make(map[string]*domain.Recipe)
	return s.flush()
}

// flush rewrites the backing file. Callers must hold the write lock.
func (s *FileCatalog) flush() error {
	out := make([]*domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return writeJSONFile(s.path, out)
}

// loadJSONFile decodes path into v. A missing file is initialized to an
// empty array so first runs start clean.
func loadJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return writeJSONFile(path, []any{})
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// writeJSONFile writes v to path atomically: encode, write a sibling temp
// file, rename over the target.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
