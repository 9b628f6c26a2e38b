// PantryChef — a conversational pantry and recipe assistant.
//
// Usage:
//
//	pantrychef [-verbose] [-quiet] [-mem] [-no-subs] [-data-dir DIR]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"pantrychef/internal/config"
	"pantrychef/internal/conversation"
	"pantrychef/internal/display"
	"pantrychef/internal/domain"
	"pantrychef/internal/engine"
	"pantrychef/internal/expiry"
	"pantrychef/internal/logger"
	"pantrychef/internal/match"
	"pantrychef/internal/shopping"
	"pantrychef/internal/storage"
	"pantrychef/internal/substitute"
	"pantrychef/internal/units"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (use \"stderr\" to log to console; default from config)")
	dataDir := flag.String("data-dir", "", "directory for pantry and recipe files (default from config)")
	mem := flag.Bool("mem", false, "keep everything in memory, nothing is written to disk")
	noSubs := flag.Bool("no-subs", false, "never count substitutes when matching recipes")
	flag.Parse()

	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *noSubs {
		cfg.AllowSubstitutions = false
	}

	// Configure logger. Flags win over config.
	logLevel := cfg.LoggerLevel()
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		dir := filepath.Dir(cfg.LogFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package to the same output so third-party
	// libraries don't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)
	defer log.Sync()

	// Set up context — cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies. The data directory is created either way; backups
	// land there even in memory mode.
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: creating data dir %s: %v\n", cfg.DataDir, err)
		os.Exit(1)
	}

	var (
		inventory domain.InventoryStore
		catalog   domain.RecipeStore
	)
	if *mem {
		inventory = storage.NewMemoryInventory(log)
		catalog = storage.NewMemoryCatalog(log)
	} else {
		fi, err := storage.NewFileInventory(filepath.Join(cfg.DataDir, "ingredients.json"), log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: opening pantry file: %v\n", err)
			os.Exit(1)
		}
		fc, err := storage.NewFileCatalog(filepath.Join(cfg.DataDir, "recipes.json"), log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: opening recipe file: %v\n", err)
			os.Exit(1)
		}
		inventory, catalog = fi, fc
	}

	eng := engine.New(inventory, catalog, log,
		engine.WithMinScore(cfg.MinMatchScore),
		engine.WithFilteredMinScore(cfg.FilteredMinScore),
		engine.WithSubstitutions(cfg.AllowSubstitutions),
		engine.WithWarnWindow(cfg.ExpiryWarnDays),
		engine.WithDataDir(cfg.DataDir),
	)

	ui := display.NewUI(eng)
	notifier := conversation.NewCLINotifier(log, ui.Printf)
	parser := conversation.NewKeywordParser(log)

	watcher := expiry.New(inventory, notifier, log,
		expiry.WithCheckInterval(cfg.ExpiryCheckInterval),
		expiry.WithWarnWindow(cfg.ExpiryWarnDays),
	)
	defer watcher.Stop()

	app := &cliApp{
		engine:   eng,
		parser:   parser,
		log:      log,
		ui:       ui,
		warnDays: cfg.ExpiryWarnDays,
		dataDir:  cfg.DataDir,
		memOnly:  *mem,
	}

	fmt.Print(display.RenderBanner())
	fmt.Println()
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine. The expiry watcher starts
	// after the UI is up so its announcements land in the scrollback.
	go func() {
		ui.WaitReady()
		watcher.Start(ctx)
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

// shopRequest remembers the last shopping list so 'export' can write it out.
type shopRequest struct {
	names       []string
	multipliers map[string]float64
}

type cliApp struct {
	engine   *engine.Engine
	parser   domain.IntentParser
	log      *logger.Logger
	ui       *display.UI
	warnDays int
	dataDir  string
	memOnly  bool
	wiz      wizard       // active guided flow, nil when idle
	lastShop *shopRequest // nil until a shopping list was built
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat("Welcome to PantryChef!")
	ingredients, recipes, _ := a.engine.Counts(ctx)
	a.ui.PrintHint(fmt.Sprintf("%d ingredients in the pantry, %d recipes in the book.", ingredients, recipes))
	if a.memOnly {
		a.ui.PrintHint("Running in memory mode, nothing will be saved.")
	}
	a.ui.Println("")

	uiCh := a.ui.InputChan()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		// A running wizard consumes input directly, bypassing the parser.
		if a.wiz != nil {
			if done := a.wiz.handle(ctx, input); done {
				a.wiz = nil
			}
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		a.handleIntent(ctx, intent)
	}
}

func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) {
	switch intent.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentQuit:
		a.quit()
	case domain.IntentShowPantry:
		a.showPantry(ctx)
	case domain.IntentAddIngredient:
		a.addIngredient(ctx, intent.Payload)
	case domain.IntentRemoveIngredient:
		a.removeIngredient(ctx, intent.Payload)
	case domain.IntentUseIngredient:
		a.useIngredient(ctx, intent.Payload)
	case domain.IntentListRecipes:
		a.showRecipes(ctx)
	case domain.IntentShowRecipe:
		a.showRecipe(ctx, intent.Payload)
	case domain.IntentNewRecipe:
		a.wiz = startRecipeWizard(a)
	case domain.IntentDeleteRecipe:
		a.deleteRecipe(ctx, intent.Payload)
	case domain.IntentFindRecipes:
		a.findRecipes(ctx, intent.Payload)
	case domain.IntentCanMake:
		a.canMake(ctx, intent.Payload)
	case domain.IntentQuickRecipes:
		a.quickRecipes(ctx, intent.Payload)
	case domain.IntentByDifficulty:
		a.byDifficulty(ctx, intent.Payload)
	case domain.IntentSubstitutes:
		a.substitutes(intent.Payload)
	case domain.IntentShoppingList:
		a.shoppingList(ctx, intent.Payload)
	case domain.IntentScaleRecipe:
		a.scaleRecipe(ctx, intent.Payload)
	case domain.IntentConvert:
		a.convert(intent.Payload)
	case domain.IntentExpiring:
		a.expiring(ctx, intent.Payload)
	case domain.IntentStats:
		a.stats(ctx)
	case domain.IntentBackup:
		a.backup(ctx, intent.Payload)
	case domain.IntentRestore:
		a.restore(ctx, intent.Payload)
	case domain.IntentExport:
		a.export(ctx, intent.Payload)
	case domain.IntentUnknown:
		a.unknown(intent.Payload)
	}
}

// ── Pantry ───────────────────────────────────────────────────────

func (a *cliApp) showPantry(ctx context.Context) {
	groups, err := a.engine.IngredientsByCategory(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	if len(groups) == 0 {
		a.ui.PrintChat("The pantry is empty. Try 'add 2 cups flour', or just 'add'.")
		return
	}

	a.ui.PrintHeading("PANTRY")
	total := 0
	for _, cat := range slices.Sorted(maps.Keys(groups)) {
		a.ui.PrintHint(strings.ToUpper(cat))
		for _, ing := range groups[cat] {
			total++
			if ing.IsExpired() {
				a.ui.PrintUrgent("- " + ing.String() + "  [expired]")
			} else {
				a.ui.PrintLine("- " + ing.String())
			}
		}
	}
	a.ui.Println("")
	a.ui.PrintHint(fmt.Sprintf("%d items", total))
}

func (a *cliApp) addIngredient(ctx context.Context, payload string) {
	if payload == "" {
		a.wiz = startIngredientWizard(a)
		return
	}

	qty, unit, name, err := parseIngredientPhrase(payload)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		a.ui.PrintHint("Try 'add 2 cups flour', or just 'add' for the guided version.")
		return
	}
	if unit == "" {
		unit = "count"
	}

	ing := domain.NewIngredient(name, qty, unit)
	ing.Category = shopping.GuessCategory(ing.Name)
	_, existed := a.existing(ctx, ing.Name)
	if err := a.engine.AddIngredient(ctx, ing); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	msg := fmt.Sprintf("Added %s.", ing)
	if existed {
		msg += " (replaced the previous entry)"
	}
	a.ui.PrintChat(msg)
}

// existing reports whether the pantry already holds an entry for name.
func (a *cliApp) existing(ctx context.Context, name string) (*domain.Ingredient, bool) {
	ing, err := a.engine.GetIngredient(ctx, name)
	return ing, err == nil
}

func (a *cliApp) removeIngredient(ctx context.Context, payload string) {
	if err := a.engine.RemoveIngredient(ctx, payload); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintChat(fmt.Sprintf("There's no %q in the pantry.", payload))
			return
		}
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Removed %s from the pantry.", domain.Key(payload)))
}

func (a *cliApp) useIngredient(ctx context.Context, payload string) {
	qty, unit, name, err := parseIngredientPhrase(payload)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		a.ui.PrintHint("Try 'use 2 cups flour' or 'use 2 flour' for the stored unit.")
		return
	}

	ing, err := a.engine.UseIngredient(ctx, name, qty, unit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintChat(fmt.Sprintf("There's no %q in the pantry.", name))
			return
		}
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Done. %s %s of %s left.", domain.FormatFloat(ing.Quantity), ing.Unit, ing.Name))
}

// ── Recipes ──────────────────────────────────────────────────────

func (a *cliApp) showRecipes(ctx context.Context) {
	recipes, err := a.engine.Recipes(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	if len(recipes) == 0 {
		a.ui.PrintChat("No recipes yet. Type 'new recipe' to create one.")
		return
	}

	a.ui.PrintHeading(fmt.Sprintf("RECIPE BOOK (%d)", len(recipes)))
	for _, r := range recipes {
		a.ui.PrintLine("- " + r.String())
		meta := r.Difficulty
		if r.Cuisine != "" && r.Cuisine != "other" {
			meta += ", " + r.Cuisine
		}
		if r.Rating > 0 {
			meta += fmt.Sprintf(", rated %.1f", r.Rating)
		}
		a.ui.PrintHint("    " + meta)
	}
}

func (a *cliApp) showRecipe(ctx context.Context, payload string) {
	r, err := a.engine.GetRecipe(ctx, payload)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintChat(fmt.Sprintf("I don't know a recipe called %q.", payload))
			a.ui.PrintHint("Type 'recipes' to see the book.")
			return
		}
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.printRecipe(r)
}

func (a *cliApp) printRecipe(r *domain.Recipe) {
	a.ui.PrintHeading(fmt.Sprintf("=== %s ===", r.Name))
	a.ui.PrintLine(fmt.Sprintf("Serves %d. %d min prep, %d min cook. Difficulty: %s.",
		r.Servings, r.PrepTime, r.CookTime, r.Difficulty))
	if r.Cuisine != "" && r.Cuisine != "other" {
		a.ui.PrintHint("Cuisine: " + r.Cuisine)
	}
	if len(r.DietaryTags) > 0 {
		a.ui.PrintHint("Tags: " + strings.Join(r.DietaryTags, ", "))
	}

	a.ui.Println("")
	a.ui.PrintHeading("Ingredients:")
	for _, line := range r.Ingredients {
		a.ui.PrintLine("- " + line.String())
	}

	if len(r.Instructions) > 0 {
		a.ui.Println("")
		a.ui.PrintHeading("Steps:")
		for i, step := range r.Instructions {
			a.ui.PrintLine(fmt.Sprintf("%d. %s", i+1, step))
		}
	}
}

func (a *cliApp) deleteRecipe(ctx context.Context, payload string) {
	if err := a.engine.DeleteRecipe(ctx, payload); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintChat(fmt.Sprintf("I don't know a recipe called %q.", payload))
			return
		}
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Deleted %q from the book.", payload))
}

// ── Matching ─────────────────────────────────────────────────────

func (a *cliApp) findRecipes(ctx context.Context, payload string) {
	minScore := 0.0
	if payload != "" {
		s, err := strconv.ParseFloat(payload, 64)
		if err != nil || s < 0 || s > 1 {
			a.ui.PrintUrgent(fmt.Sprintf("%q is not a score between 0 and 1.", payload))
			return
		}
		minScore = s
	}

	results, err := a.engine.FindRecipes(ctx, minScore)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	if len(results) == 0 {
		a.ui.PrintChat("Nothing matches well enough with what you have.")
		a.ui.PrintHint("Stock up, or lower the bar: 'find 0.5'.")
		return
	}

	a.ui.PrintHeading("MATCHING RECIPES")
	a.printResults(results)
}

func (a *cliApp) printResults(results []match.Result) {
	for _, res := range results {
		a.ui.PrintLine(fmt.Sprintf("%3d%%  %s", int(res.Score*100+0.5), res.Recipe.String()))
		if len(res.Missing) > 0 {
			a.ui.PrintHint("      missing: " + strings.Join(res.Missing, ", "))
		}
	}
}

func (a *cliApp) canMake(ctx context.Context, payload string) {
	ok, missing, err := a.engine.CanMake(ctx, payload)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintChat(fmt.Sprintf("I don't know a recipe called %q.", payload))
			return
		}
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	if ok {
		a.ui.PrintChat(fmt.Sprintf("Yes! You have everything for %s.", payload))
		return
	}
	a.ui.PrintChat("Not quite. You're missing:")
	for _, m := range missing {
		a.ui.PrintLine("- " + m)
	}
	a.ui.PrintHint(fmt.Sprintf("'shop %s' builds the shopping list.", payload))
}

func (a *cliApp) quickRecipes(ctx context.Context, payload string) {
	minutes := 30
	if payload != "" {
		m, err := strconv.Atoi(payload)
		if err != nil || m <= 0 {
			a.ui.PrintUrgent(fmt.Sprintf("%q is not a number of minutes.", payload))
			return
		}
		minutes = m
	}

	results, err := a.engine.QuickRecipes(ctx, minutes, 0)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	if len(results) == 0 {
		a.ui.PrintChat(fmt.Sprintf("No makeable recipes under %d minutes.", minutes))
		return
	}

	a.ui.PrintHeading(fmt.Sprintf("QUICK RECIPES (under %d min)", minutes))
	a.printResults(results)
}

func (a *cliApp) byDifficulty(ctx context.Context, payload string) {
	results, err := a.engine.RecipesByDifficulty(ctx, payload, 0)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		a.ui.PrintHint("Difficulty is easy, medium, or hard.")
		return
	}
	if len(results) == 0 {
		a.ui.PrintChat(fmt.Sprintf("No makeable %s recipes right now.", domain.Key(payload)))
		return
	}

	a.ui.PrintHeading(fmt.Sprintf("%s RECIPES", strings.ToUpper(payload)))
	a.printResults(results)
}

// ── Kitchen helpers ──────────────────────────────────────────────

func (a *cliApp) substitutes(payload string) {
	rules := a.engine.Substitutes(payload)
	if len(rules) == 0 {
		a.ui.PrintChat(fmt.Sprintf("No substitutions known for %q.", payload))
		a.ui.PrintHint("I know: " + strings.Join(substitute.Known(), ", "))
		return
	}

	a.ui.PrintHeading(fmt.Sprintf("SUBSTITUTES for %s", domain.Key(payload)))
	for _, rule := range rules {
		line := fmt.Sprintf("- %s (ratio %s)", rule.Ingredient, domain.FormatFloat(rule.Ratio))
		a.ui.PrintLine(line)
		if rule.Note != "" {
			a.ui.PrintHint("    " + rule.Note)
		}
	}
}

func (a *cliApp) shoppingList(ctx context.Context, payload string) {
	if payload == "" {
		a.ui.PrintHint("Try 'shop lasagna x2, pancakes'.")
		return
	}

	names, multipliers := parseShopPayload(payload)
	items, err := a.engine.ShoppingList(ctx, names, multipliers)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.ui.PrintChat(fmt.Sprintf("Can't build that list: %v.", err))
			return
		}
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.lastShop = &shopRequest{names: names, multipliers: multipliers}

	if len(items) == 0 {
		a.ui.PrintChat("You already have everything you need!")
		return
	}

	for _, line := range strings.Split(strings.TrimRight(a.engine.FormatShoppingList(items), "\n"), "\n") {
		a.ui.PrintLine(line)
	}
	a.ui.PrintHint(fmt.Sprintf("%d items to buy. 'export <path>' writes this list to a file.", len(items)))
}

func (a *cliApp) scaleRecipe(ctx context.Context, payload string) {
	name, servings, save, err := parseScalePayload(payload)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		a.ui.PrintHint("Try 'scale lasagna 6', add 'save' to keep the copy.")
		return
	}

	scaled, err := a.engine.ScaleRecipe(ctx, name, servings, save)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			a.ui.PrintChat(fmt.Sprintf("I don't know a recipe called %q.", name))
		case errors.Is(err, domain.ErrInvalidServings):
			a.ui.PrintUrgent("Servings must be a positive number.")
		default:
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		}
		return
	}

	a.printRecipe(scaled)
	if save {
		a.ui.PrintChat(fmt.Sprintf("Saved %q to the book.", scaled.Name))
	}
}

func (a *cliApp) convert(payload string) {
	qty, from, to, err := parseConvertPayload(payload)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		a.ui.PrintHint("Try 'convert 2 cups to ml'.")
		return
	}

	converted, err := a.engine.Convert(qty, from, to)
	if err != nil {
		if errors.Is(err, units.ErrIncompatible) {
			a.ui.PrintUrgent(fmt.Sprintf("Can't convert %s to %s, they measure different things.", from, to))
			if compat := units.CompatibleUnits(from); len(compat) > 0 {
				a.ui.PrintHint(fmt.Sprintf("%s converts to: %s", from, strings.Join(compat, ", ")))
			}
			return
		}
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("%s %s = %s %s", domain.FormatFloat(qty), from, domain.FormatFloat(converted), to))
}

// ── Housekeeping ─────────────────────────────────────────────────

func (a *cliApp) expiring(ctx context.Context, payload string) {
	days := 0
	if payload != "" {
		d, err := strconv.Atoi(payload)
		if err != nil || d < 0 {
			a.ui.PrintUrgent(fmt.Sprintf("%q is not a number of days.", payload))
			return
		}
		days = d
	}
	window := days
	if window <= 0 {
		window = a.warnDays
	}

	soon, err := a.engine.ExpiringSoon(ctx, days)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	expired, err := a.engine.Expired(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}

	if len(soon) == 0 && len(expired) == 0 {
		a.ui.PrintChat(fmt.Sprintf("Nothing expires in the next %d days. All good.", window))
		return
	}

	if len(expired) > 0 {
		a.ui.PrintHeading("EXPIRED")
		for _, ing := range expired {
			a.ui.PrintUrgent("- " + ing.String())
		}
	}
	if len(soon) > 0 {
		a.ui.PrintHeading(fmt.Sprintf("EXPIRING WITHIN %d DAYS", window))
		for _, ing := range soon {
			left, _ := ing.DaysUntilExpiry()
			a.ui.PrintLine(fmt.Sprintf("- %s %s %s (%s)",
				domain.FormatFloat(ing.Quantity), ing.Unit, ing.Name, fmtDaysLeft(left)))
		}
	}
	a.ui.PrintHint("Cook these first, or 'remove' what's gone.")
}

func (a *cliApp) stats(ctx context.Context) {
	st, err := a.engine.Stats(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}

	a.ui.PrintHeading("KITCHEN STATS")
	a.ui.PrintLine(fmt.Sprintf("Ingredients: %d", st.Ingredients))
	for _, cat := range slices.Sorted(maps.Keys(st.ByCategory)) {
		a.ui.PrintHint(fmt.Sprintf("    %s: %d", cat, st.ByCategory[cat]))
	}
	if st.Recipes > 0 {
		a.ui.PrintLine(fmt.Sprintf("Recipes: %d (avg %.0f min)", st.Recipes, st.AvgRecipeMinutes))
	} else {
		a.ui.PrintLine("Recipes: 0")
	}
	a.ui.PrintLine(fmt.Sprintf("Expiring soon: %d, expired: %d", st.ExpiringSoon, st.Expired))
	a.ui.PrintLine(fmt.Sprintf("Pantry value: $%.2f", st.PantryValue))
	if a.memOnly {
		a.ui.PrintHint("Data: in-memory (ephemeral)")
	} else {
		a.ui.PrintHint("Data: " + filepath.Join(a.dataDir, "ingredients.json") + ", " + filepath.Join(a.dataDir, "recipes.json"))
	}
}

func (a *cliApp) backup(ctx context.Context, payload string) {
	path, err := a.engine.Backup(ctx, payload)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Backed up the kitchen to %s.", path))
}

func (a *cliApp) restore(ctx context.Context, payload string) {
	if payload == "" {
		a.ui.PrintHint("Try 'restore data/backup_20260825_120000.json'.")
		return
	}
	if err := a.engine.Restore(ctx, payload); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	ingredients, recipes, _ := a.engine.Counts(ctx)
	a.ui.PrintChat(fmt.Sprintf("Restored %d ingredients and %d recipes from %s.", ingredients, recipes, payload))
}

func (a *cliApp) export(ctx context.Context, payload string) {
	if payload == "" {
		a.ui.PrintHint("Try 'export shopping.txt'.")
		return
	}
	if a.lastShop == nil {
		a.ui.PrintChat("Build a shopping list first: 'shop <recipes>'.")
		return
	}
	items, err := a.engine.ExportShoppingList(ctx, a.lastShop.names, a.lastShop.multipliers, payload)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Shopping list written to %s (%d items).", payload, len(items)))
}

func (a *cliApp) unknown(payload string) {
	if payload == "" {
		return
	}
	a.ui.PrintChat("Sorry, I didn't catch that.")
	a.ui.PrintHint("Type 'help' to see what I understand.")
}

func (a *cliApp) quit() {
	a.ui.PrintChat("Happy cooking! Bye.")
	a.ui.Quit()
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeading("Pantry:")
	a.ui.PrintLine("  pantry                 Show what you have, by category")
	a.ui.PrintLine("  add [2 cups flour]     Add an ingredient (bare 'add' walks you through it)")
	a.ui.PrintLine("  use 2 [cups] flour     Consume some of an ingredient")
	a.ui.PrintLine("  remove <name>          Drop an ingredient entirely")
	a.ui.Println("")
	a.ui.PrintHeading("Recipes:")
	a.ui.PrintLine("  recipes                List the recipe book")
	a.ui.PrintLine("  show <name>            Show one recipe in full")
	a.ui.PrintLine("  new recipe             Create a recipe step by step")
	a.ui.PrintLine("  delete <name>          Remove a recipe")
	a.ui.Println("")
	a.ui.PrintHeading("Matching:")
	a.ui.PrintLine("  find [0.5]             What can I make? (optional minimum score)")
	a.ui.PrintLine("  can i make <name>      Check one recipe against the pantry")
	a.ui.PrintLine("  quick [30]             Makeable recipes under N minutes")
	a.ui.PrintLine("  easy / medium / hard   Makeable recipes by difficulty")
	a.ui.Println("")
	a.ui.PrintHeading("Kitchen helpers:")
	a.ui.PrintLine("  subs <ingredient>      Substitution suggestions")
	a.ui.PrintLine("  shop <a> x2, <b>       Shopping list for recipes (xN multiplies)")
	a.ui.PrintLine("  scale <name> <n>       Resize a recipe ('save' keeps the copy)")
	a.ui.PrintLine("  convert 2 cups to ml   Unit conversion")
	a.ui.Println("")
	a.ui.PrintHeading("Housekeeping:")
	a.ui.PrintLine("  expiring [days]        What's going bad soon")
	a.ui.PrintLine("  stats                  Kitchen overview")
	a.ui.PrintLine("  backup [path]          Save everything to a JSON file")
	a.ui.PrintLine("  restore <path>         Load a backup (replaces current data)")
	a.ui.PrintLine("  export <path>          Write the last shopping list to a file")
	a.ui.PrintLine("  quit                   Exit")
}

// ── Payload parsing ──────────────────────────────────────────────

// countUnits are unit words the converter doesn't know but people use.
var countUnits = map[string]bool{
	"count": true, "piece": true, "pieces": true, "can": true, "cans": true,
	"slice": true, "slices": true, "clove": true, "cloves": true,
	"bunch": true, "bunches": true, "stick": true, "sticks": true,
	"pinch": true, "pinches": true, "dash": true, "dashes": true,
}

func isUnit(tok string) bool {
	if units.DimensionOf(tok) != units.Unknown {
		return true
	}
	return countUnits[strings.ToLower(tok)]
}

// parseQuantity reads "2", "0.5", or a simple fraction like "1/2".
func parseQuantity(tok string) (float64, error) {
	if num, den, ok := strings.Cut(tok, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, fmt.Errorf("%q is not a quantity", tok)
		}
		return n / d, nil
	}
	q, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a quantity", tok)
	}
	return q, nil
}

// parseIngredientPhrase splits "2 cups flour" into quantity, unit, and name.
// The unit is optional ("2 eggs"); multi-word names are fine.
func parseIngredientPhrase(s string) (qty float64, unit, name string, err error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return 0, "", "", fmt.Errorf("expected \"<quantity> [unit] <name>\", got %q", s)
	}
	qty, err = parseQuantity(fields[0])
	if err != nil {
		return 0, "", "", err
	}
	if len(fields) >= 3 && isUnit(fields[1]) {
		return qty, fields[1], strings.Join(fields[2:], " "), nil
	}
	return qty, "", strings.Join(fields[1:], " "), nil
}

var shopMultRe = regexp.MustCompile(`(?i)^(.+?)\s*x\s*([0-9]+(?:\.[0-9]+)?)$`)

// parseShopPayload reads "lasagna x2, pancakes" into recipe names and
// per-recipe multipliers keyed by normalized name.
func parseShopPayload(s string) ([]string, map[string]float64) {
	var names []string
	multipliers := make(map[string]float64)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if m := shopMultRe.FindStringSubmatch(part); m != nil {
			mult, err := strconv.ParseFloat(m[2], 64)
			if err == nil && mult > 0 {
				names = append(names, m[1])
				multipliers[domain.Key(m[1])] = mult
				continue
			}
		}
		names = append(names, part)
	}
	return names, multipliers
}

// parseScalePayload reads "lasagna 6", "lasagna to 6", or "lasagna 6 save".
func parseScalePayload(s string) (name string, servings int, save bool, err error) {
	fields := strings.Fields(s)
	if len(fields) >= 2 && strings.EqualFold(fields[len(fields)-1], "save") {
		save = true
		fields = fields[:len(fields)-1]
	}
	if len(fields) < 2 {
		return "", 0, false, fmt.Errorf("expected \"<recipe> <servings>\", got %q", s)
	}
	servings, err = strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return "", 0, false, fmt.Errorf("%q is not a number of servings", fields[len(fields)-1])
	}
	fields = fields[:len(fields)-1]
	if n := len(fields); n > 1 && (strings.EqualFold(fields[n-1], "to") || strings.EqualFold(fields[n-1], "for")) {
		fields = fields[:n-1]
	}
	return strings.Join(fields, " "), servings, save, nil
}

// parseConvertPayload reads "2 cups to ml" (multi-word units work too).
func parseConvertPayload(s string) (qty float64, from, to string, err error) {
	fields := strings.Fields(s)
	sep := -1
	for i := 2; i < len(fields)-1; i++ {
		if strings.EqualFold(fields[i], "to") || strings.EqualFold(fields[i], "in") {
			sep = i
			break
		}
	}
	if len(fields) < 4 || sep < 2 {
		return 0, "", "", fmt.Errorf("expected \"<quantity> <unit> to <unit>\", got %q", s)
	}
	qty, err = parseQuantity(fields[0])
	if err != nil {
		return 0, "", "", err
	}
	return qty, strings.Join(fields[1:sep], " "), strings.Join(fields[sep+1:], " "), nil
}

func fmtDaysLeft(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}
