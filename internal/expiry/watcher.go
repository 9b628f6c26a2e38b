// Package expiry implements the background watcher that scans the pantry
// for ingredients near or past their expiration date and raises alerts.
package expiry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// DefaultWarnWindow is how many days ahead of expiration a warning fires.
const DefaultWarnWindow = 3

// Option configures the watcher.
type Option func(*Watcher)

// WithCheckInterval sets how often the watcher scans the inventory.
func WithCheckInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.checkInterval = d
	}
}

// WithWarnWindow sets how many days before expiration a warning fires.
func WithWarnWindow(days int) Option {
	return func(w *Watcher) {
		w.warnWindow = days
	}
}

// Watcher runs in the background and announces ingredients that are about to
// expire or already have. Each ingredient is announced once per state; the
// alert repeats only when the state changes (two days left becomes one, or an
// expiring item is restocked and later nears expiry again).
type Watcher struct {
	inventory domain.InventoryStore
	notifier  domain.Notifier
	log       *logger.Logger

	checkInterval time.Duration
	warnWindow    int

	// announced maps ingredient key to the last announced state.
	// Owned by the loop goroutine.
	announced map[string]string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates an expiry watcher with the given dependencies and options.
func New(inventory domain.InventoryStore, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		inventory:     inventory,
		notifier:      notifier,
		log:           log,
		checkInterval: 30 * time.Second,
		warnWindow:    DefaultWarnWindow,
		announced:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins the background watcher loop. Non-blocking.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		w.log.Warn("expiry watcher already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true

	go w.loop(childCtx)

	w.log.Info("expiry watcher started (interval=%s, window=%dd)", w.checkInterval, w.warnWindow)
}

// Stop gracefully shuts down the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.cancel()
	w.running = false
	w.log.Info("expiry watcher stopped")
}

// loop is the main scan loop. The first sweep runs immediately so warnings
// do not wait a full interval after startup.
func (w *Watcher) loop(ctx context.Context) {
	w.sweep(ctx)

	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep runs one scan cycle over the inventory.
func (w *Watcher) sweep(ctx context.Context) {
	ingredients, err := w.inventory.List(ctx)
	if err != nil {
		w.log.Error("expiry watcher: listing inventory: %v", err)
		return
	}

	current := make(map[string]string)

	for _, ing := range Expired(ingredients) {
		key := domain.Key(ing.Name)
		current[key] = "expired"
		if w.announced[key] == "expired" {
			continue
		}
		w.log.Debug("expiry watcher: %s is expired", ing.Name)
		if err := w.notifier.NotifyUrgent(ctx, expiredMessage(ing)); err != nil {
			w.log.Error("expiry watcher: urgent notify: %v", err)
		}
	}

	for _, ing := range Soon(ingredients, w.warnWindow) {
		key := domain.Key(ing.Name)
		days, _ := ing.DaysUntilExpiry()
		state := fmt.Sprintf("soon:%d", days)
		current[key] = state
		if w.announced[key] == state {
			continue
		}
		w.log.Debug("expiry watcher: %s expires in %d days", ing.Name, days)
		if err := w.notifier.Notify(ctx, soonMessage(ing, days)); err != nil {
			w.log.Error("expiry watcher: notify: %v", err)
		}
	}

	// Dropping keys that left both lists lets a restocked ingredient be
	// announced again the next time it nears expiry.
	w.announced = current
}

// Soon returns the ingredients expiring within the next window days (today
// included), soonest first.
func Soon(ingredients []*domain.Ingredient, window int) []*domain.Ingredient {
	var out []*domain.Ingredient
	for _, ing := range ingredients {
		days, ok := ing.DaysUntilExpiry()
		if !ok {
			continue
		}
		if days >= 0 && days <= window {
			out = append(out, ing)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, _ := out[i].DaysUntilExpiry()
		dj, _ := out[j].DaysUntilExpiry()
		if di != dj {
			return di < dj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Expired returns the ingredients whose expiration date has passed.
func Expired(ingredients []*domain.Ingredient) []*domain.Ingredient {
	var out []*domain.Ingredient
	for _, ing := range ingredients {
		if ing.IsExpired() {
			out = append(out, ing)
		}
	}
	return out
}

func expiredMessage(ing *domain.Ingredient) string {
	days, _ := ing.DaysUntilExpiry()
	if ago := -days; ago > 1 {
		return fmt.Sprintf("[Pantry] %s expired %d days ago.", ing.Name, ago)
	}
	return fmt.Sprintf("[Pantry] %s expired yesterday.", ing.Name)
}

func soonMessage(ing *domain.Ingredient, days int) string {
	switch days {
	case 0:
		return fmt.Sprintf("[Pantry] %s expires today.", ing.Name)
	case 1:
		return fmt.Sprintf("[Pantry] %s expires tomorrow.", ing.Name)
	default:
		return fmt.Sprintf("[Pantry] %s expires in %d days.", ing.Name, days)
	}
}
