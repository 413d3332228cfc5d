package engine

import (
	"regexp"
	"sort"
	"strings"
)

// keywordVocabulary lists the Sorcery keywords and mechanic terms worth
// matching in rules text. Longer phrases are checked the same way as single
// words since matching is substring-based.
var keywordVocabulary = []string{
	// Combat abilities
	"airborne", "burrowing", "ephemeral", "flying", "stealthy", "unblockable",
	"ambush", "blitz", "bloodlust", "deadly", "double strike", "first strike",
	"lifesteal", "rampage", "reach", "vigilant", "waterbound",

	// Protection
	"protected", "shroud", "ward", "hexproof", "indestructible",

	// Triggered abilities
	"genesis", "demise", "clash", "breakthrough", "strike",

	// Card types referenced in text
	"spellcaster", "ritual", "aura", "rune", "cursed", "item",

	// Mechanics
	"draw", "discard", "destroy", "exile", "return", "bounce",
	"token", "transform", "morph", "rubble", "reanimate",
	"search", "tutor", "sacrifice", "conjure", "manifest",

	// Counters and buffs
	"counter", "+1/+1", "-1/-1", "buff", "debuff", "pump",

	// Targeting
	"target", "each", "all", "choose", "random",

	// Duration
	"permanent", "turn", "until end of turn", "enters the battlefield",
}

// Pattern-derived tags for effects the plain vocabulary misses.
var (
	genesisTriggerRe = regexp.MustCompile(`genesis\s*[→\-]`)
	demiseTriggerRe  = regexp.MustCompile(`demise\s*[→\-]`)
	drawCountRe      = regexp.MustCompile(`draw\s+\d+`)
	drawCardRe       = regexp.MustCompile(`draw\s+a\s+(card|spell)`)
	directDamageRe   = regexp.MustCompile(`deals?\s+\d+\s+damage`)
	statModRe        = regexp.MustCompile(`[+\-]\d+/[+\-]\d+`)
	costReductionRe  = regexp.MustCompile(`costs?\s+\d+\s+less`)
)

// ExtractKeywords pulls normalized ability tags out of a card's rules text.
// The result is sorted and de-duplicated so tag sets compare deterministically.
func ExtractKeywords(rulesText string) []string {
	if rulesText == "" {
		return nil
	}

	text := strings.ToLower(rulesText)
	found := make(map[string]struct{})

	for _, kw := range keywordVocabulary {
		if strings.Contains(text, kw) {
			found[kw] = struct{}{}
		}
	}

	if genesisTriggerRe.MatchString(text) {
		found["genesis_trigger"] = struct{}{}
	}
	if demiseTriggerRe.MatchString(text) {
		found["demise_trigger"] = struct{}{}
	}
	if drawCountRe.MatchString(text) || drawCardRe.MatchString(text) {
		found["card_draw"] = struct{}{}
	}
	if directDamageRe.MatchString(text) {
		found["direct_damage"] = struct{}{}
	}
	if statModRe.MatchString(text) {
		found["stat_modification"] = struct{}{}
	}
	if costReductionRe.MatchString(text) {
		found["cost_reduction"] = struct{}{}
	}
	if strings.Contains(text, "search") || strings.Contains(text, "look at") {
		found["search_effect"] = struct{}{}
	}

	if len(found) == 0 {
		return nil
	}
	keywords := make([]string, 0, len(found))
	for kw := range found {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}
