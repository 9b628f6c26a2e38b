// Package conversation provides intent parsing and user notification implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"pantrychef/internal/domain"
	"pantrychef/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple patterns.
// Swap this out for an LLM-backed parser when ready.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// NewKeywordParser creates a keyword-based intent parser. Rules are checked
// in order; the first match wins, so specific phrasings come before the
// generic verbs they overlap with ("add a recipe" before "add ...").
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(?:help|h|commands|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`(?i)^(?:quit|exit|bye|q)$`), domain.IntentQuit},
		{regexp.MustCompile(`(?i)^(?:pantry|inventory|show pantry|list ingredients|what do i have)$`), domain.IntentShowPantry},
		{regexp.MustCompile(`(?i)^(?:recipes|list recipes|browse)$`), domain.IntentListRecipes},
		{regexp.MustCompile(`(?i)^(?:new|create|add)(?:\s+a)?\s+recipe$`), domain.IntentNewRecipe},
		{regexp.MustCompile(`(?i)^(?:delete|forget)(?:\s+recipe)?\s+(.+)$`), domain.IntentDeleteRecipe},
		{regexp.MustCompile(`(?i)^(?:show|view|open)(?:\s+recipe)?\s+(.+)$`), domain.IntentShowRecipe},
		{regexp.MustCompile(`(?i)^(?:add|buy|bought|i (?:have|got))\b\s*(.*)$`), domain.IntentAddIngredient},
		{regexp.MustCompile(`(?i)^(?:remove|drop|toss)\s+(.+)$`), domain.IntentRemoveIngredient},
		{regexp.MustCompile(`(?i)^(?:use|used)\s+(.+)$`), domain.IntentUseIngredient},
		{regexp.MustCompile(`(?i)^can i make\s+(.+)$`), domain.IntentCanMake},
		{regexp.MustCompile(`(?i)^(?:find|match|suggest|what can i (?:make|cook))\b\s*(.*)$`), domain.IntentFindRecipes},
		{regexp.MustCompile(`(?i)^(?:quick|fast)(?:\s+recipes)?\s*(\d*)$`), domain.IntentQuickRecipes},
		{regexp.MustCompile(`(?i)^(?:level\s+)?(easy|medium|hard)(?:\s+recipes)?$`), domain.IntentByDifficulty},
		{regexp.MustCompile(`(?i)^(?:subs?|substitutes?|substitutions?)(?:\s+for)?\s+(.+)$`), domain.IntentSubstitutes},
		{regexp.MustCompile(`(?i)^(?:shop|shopping)(?:\s+list)?(?:\s+for)?\b\s*(.*)$`), domain.IntentShoppingList},
		{regexp.MustCompile(`(?i)^scale\s+(.+)$`), domain.IntentScaleRecipe},
		{regexp.MustCompile(`(?i)^convert\s+(.+)$`), domain.IntentConvert},
		{regexp.MustCompile(`(?i)^(?:expiring|expiry)\s*(\d*)$`), domain.IntentExpiring},
		{regexp.MustCompile(`(?i)^(?:stats|statistics|summary)$`), domain.IntentStats},
		{regexp.MustCompile(`(?i)^backup\b\s*(.*)$`), domain.IntentBackup},
		{regexp.MustCompile(`(?i)^restore\b\s*(.*)$`), domain.IntentRestore},
		{regexp.MustCompile(`(?i)^export\b\s*(.*)$`), domain.IntentExport},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// "can i make pancakes?" should parse the same as without the "?".
	clean := trimmed
	if len(clean) > 1 {
		clean = strings.TrimSpace(strings.TrimRight(clean, "?"))
	}
	if clean == "" {
		clean = trimmed
	}

	for _, rule := range p.patterns {
		if m := rule.regex.FindStringSubmatch(clean); m != nil {
			p.log.Debug("matched intent: %s", rule.intent)
			return &domain.Intent{Type: rule.intent, Payload: payloadOf(m)}, nil
		}
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// payloadOf returns the trimmed capture group of a match, if the rule has one.
func payloadOf(m []string) string {
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[len(m)-1])
}
