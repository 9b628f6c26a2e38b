package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentHelp
	IntentQuit
	IntentShowPantry
	IntentAddIngredient    // payload: "2 cups flour", empty to start the wizard
	IntentRemoveIngredient // payload: ingredient name
	IntentUseIngredient    // payload: "2 cups flour" or "2 flour"
	IntentListRecipes
	IntentShowRecipe // payload: recipe name
	IntentNewRecipe
	IntentDeleteRecipe // payload: recipe name
	IntentFindRecipes  // payload: optional minimum score
	IntentCanMake      // payload: recipe name
	IntentQuickRecipes // payload: minutes
	IntentByDifficulty // payload: easy|medium|hard
	IntentSubstitutes  // payload: ingredient name
	IntentShoppingList // payload: "lasagna x2, pancakes"
	IntentScaleRecipe  // payload: "lasagna 6"
	IntentConvert      // payload: "2 cups to ml"
	IntentExpiring     // payload: optional days window
	IntentStats
	IntentBackup  // payload: file path
	IntentRestore // payload: file path
	IntentExport  // payload: file path
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	case IntentShowPantry:
		return "show_pantry"
	case IntentAddIngredient:
		return "add_ingredient"
	case IntentRemoveIngredient:
		return "remove_ingredient"
	case IntentUseIngredient:
		return "use_ingredient"
	case IntentListRecipes:
		return "list_recipes"
	case IntentShowRecipe:
		return "show_recipe"
	case IntentNewRecipe:
		return "new_recipe"
	case IntentDeleteRecipe:
		return "delete_recipe"
	case IntentFindRecipes:
		return "find_recipes"
	case IntentCanMake:
		return "can_make"
	case IntentQuickRecipes:
		return "quick_recipes"
	case IntentByDifficulty:
		return "by_difficulty"
	case IntentSubstitutes:
		return "substitutes"
	case IntentShoppingList:
		return "shopping_list"
	case IntentScaleRecipe:
		return "scale_recipe"
	case IntentConvert:
		return "convert"
	case IntentExpiring:
		return "expiring"
	case IntentStats:
		return "stats"
	case IntentBackup:
		return "backup"
	case IntentRestore:
		return "restore"
	case IntentExport:
		return "export"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // argument text after the command keyword, if any
}
