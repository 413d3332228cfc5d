package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pnakotic/sorcery-bot/internal/engine"
	"github.com/pnakotic/sorcery-bot/internal/models"
	"github.com/pnakotic/sorcery-bot/internal/services"
)

const curiosaCardURL = "https://curiosa.io/cards/"

// WelcomeMessage is the /start and /help reply.
const WelcomeMessage = "👋 *Welcome to PnakoticBot!*\n\n" +
	"I can fetch Sorcery: Contested Realm card information from curiosa.io.\n\n" +
	"📋 *Commands:*\n" +
	"`/card <name>` - Get card image and FAQ\n" +
	"`/replace <name>` - Suggest replacement cards\n" +
	"`/price <name>` - Get market prices\n" +
	"`/help` - Show this help message\n\n" +
	"📝 *Examples:*\n" +
	"`/card Blink`\n" +
	"`/card Apprentice Wizard`\n\n" +
	"💡 *Tip:* I can handle typos and partial names!\n\n" +
	"🔗 Data from [curiosa.io](https://curiosa.io)"

// FormatCardMessage renders a card with its FAQ entries as a Telegram
// Markdown message. All FAQ entries are shown, none are truncated.
func FormatCardMessage(card *models.Card, faqs []models.FAQEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🃏 *%s*\n", card.Name)
	b.WriteString("━━━━━━━━━━━━━━━━━━━━\n")

	if card.Rarity != "" {
		fmt.Fprintf(&b, "📊 *Type:* %s %s\n", card.Rarity, card.Type)
	} else {
		fmt.Fprintf(&b, "📊 *Type:* %s\n", card.Type)
	}

	elements := "None"
	if len(card.Elements) > 0 {
		elements = strings.Join(card.Elements, "/")
	}
	fmt.Fprintf(&b, "🌀 *Element:* %s\n", elements)

	if card.Cost != nil {
		fmt.Fprintf(&b, "💠 *Cost:* %d", *card.Cost)
		if ts := formatThresholds(card.Thresholds); ts != "" {
			fmt.Fprintf(&b, " | %s", ts)
		}
		b.WriteString("\n")
	}

	if card.HasStats() {
		fmt.Fprintf(&b, "⚔️ *ATK/DEF:* %d/%d\n", *card.Attack, *card.Defence)
	}
	if card.Life != nil {
		fmt.Fprintf(&b, "❤️ *Life:* %d\n", *card.Life)
	}

	if card.RulesText != "" {
		fmt.Fprintf(&b, "\n📖 *Effect:*\n%s\n", card.RulesText)
	}

	if len(card.SubTypes) > 0 {
		fmt.Fprintf(&b, "\n🏷️ *Subtypes:* %s\n", strings.Join(card.SubTypes, ", "))
	}

	if len(faqs) > 0 {
		fmt.Fprintf(&b, "\n❓ *FAQ* (%d entries):\n\n", len(faqs))
		for i, faq := range faqs {
			fmt.Fprintf(&b, "*Q%d:* %s\n", i+1, faq.Question)
			fmt.Fprintf(&b, "*A:* %s\n\n", faq.Answer)
		}
	}

	fmt.Fprintf(&b, "\n🔗 [View on Curiosa](%s%s)", curiosaCardURL, card.Slug)

	return b.String()
}

func formatThresholds(thresholds map[string]int) string {
	if len(thresholds) == 0 {
		return ""
	}
	keys := make([]string, 0, len(thresholds))
	for k, v := range thresholds {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", capitalize(k), thresholds[k]))
	}
	return strings.Join(parts, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatReplacements renders ranked replacement suggestions for a card.
func FormatReplacements(target *models.Card, ranked []engine.RankedCard) string {
	if len(ranked) == 0 {
		return fmt.Sprintf("🔄 No replacements found for *%s*.", target.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔄 *Replacements for %s:*\n\n", target.Name)

	for i, rc := range ranked {
		fmt.Fprintf(&b, "*%d. %s* (Match: %.0f%%)\n", i+1, rc.Card.Name, rc.Score*100)

		cost := "N/A"
		if rc.Card.Cost != nil {
			cost = fmt.Sprintf("%d", *rc.Card.Cost)
		}
		fmt.Fprintf(&b, "• %s - Cost: %s\n", rc.Card.Type, cost)

		if rc.Card.HasStats() {
			fmt.Fprintf(&b, "• %d/%d\n", *rc.Card.Attack, *rc.Card.Defence)
		}
		if len(rc.Card.Elements) > 0 {
			fmt.Fprintf(&b, "• Elements: %s\n", strings.Join(rc.Card.Elements, "/"))
		}
		if reasons := matchReasons(rc); reasons != "" {
			fmt.Fprintf(&b, "• Match: %s\n", reasons)
		}
		b.WriteString("\n")
	}

	b.WriteString("🔗 Data from [curiosa.io](https://curiosa.io)")
	return b.String()
}

// matchReasons names the factors that carried a candidate's score.
func matchReasons(rc engine.RankedCard) string {
	var reasons []string
	if rc.Breakdown["vector"] > 0.4 {
		reasons = append(reasons, "similar text")
	}
	if rc.Breakdown["keywords"] > 0.2 {
		reasons = append(reasons, "similar abilities")
	}
	if rc.Breakdown["elements"] > 0.15 {
		reasons = append(reasons, "same element")
	}
	if rc.Breakdown["cost"] >= 0.1 {
		reasons = append(reasons, "similar cost")
	}
	return strings.Join(reasons, ", ")
}

// FormatPrices renders JustTCG price variants for a card. A nil result means
// Sorcery is not in the JustTCG catalog yet.
func FormatPrices(cardName string, result *services.PriceResult) string {
	if result == nil {
		return "💎 *JustTCG prices not available yet*\n\n" +
			"ℹ️ Sorcery: Contested Realm hasn't been added to the " +
			"JustTCG catalog yet. Check back soon!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💎 *JustTCG Prices for %s*\n\n", result.Card.Name)
	b.WriteString(formatVariantPrices(result.Card.Variants))
	b.WriteString("\n\n🔗 Data from JustTCG")

	if result.QuotaRemaining != nil && *result.QuotaRemaining < 50 {
		fmt.Fprintf(&b, "\n\n⚠️ API calls remaining today: %d", *result.QuotaRemaining)
	}
	return b.String()
}

func formatVariantPrices(variants []services.JustTCGVariant) string {
	if len(variants) == 0 {
		return "No pricing data available"
	}

	var lines []string
	var nmNormal *services.JustTCGVariant
	var others []services.JustTCGVariant

	for i := range variants {
		v := variants[i]
		if v.Condition == "Near Mint" && v.Printing == "Normal" {
			nmNormal = &variants[i]
		} else {
			others = append(others, v)
		}
	}

	if nmNormal != nil && nmNormal.Price > 0 {
		lines = append(lines, fmt.Sprintf("📊 *Near Mint*: $%.2f", nmNormal.Price))

		var changes []string
		if c, ok := nmNormal.PriceChanges["7d"]; ok {
			changes = append(changes, "7d: "+formatPriceChange(c))
		}
		if c, ok := nmNormal.PriceChanges["30d"]; ok {
			changes = append(changes, "30d: "+formatPriceChange(c))
		}
		if len(changes) > 0 {
			lines = append(lines, "   "+strings.Join(changes, " | "))
		}
	}

	if len(others) > 0 {
		lines = append(lines, "\n*Other Conditions:*")
		shown := others
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, v := range shown {
			if v.Price <= 0 {
				continue
			}
			label := v.Condition
			if v.Printing != "Normal" && v.Printing != "" {
				label += fmt.Sprintf(" (%s)", v.Printing)
			}
			lines = append(lines, fmt.Sprintf("• %s: $%.2f", label, v.Price))
		}
	}

	if len(lines) == 0 {
		return "No pricing data available"
	}
	return strings.Join(lines, "\n")
}

func formatPriceChange(change float64) string {
	if change == 0 {
		return "—"
	}
	if change > 0 {
		return fmt.Sprintf("📈 +%.1f%%", change)
	}
	return fmt.Sprintf("📉 %.1f%%", change)
}

// FormatAmbiguous renders a disambiguation prompt for multi-match queries.
func FormatAmbiguous(query string, res engine.MatchResult, isGroup bool) string {
	count := res.Count
	if count == 0 {
		count = len(res.Candidates)
	}
	if isGroup {
		return fmt.Sprintf("🔍 %d matches. Be more specific.", count)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Found %d matches for '%s':", count, query)
	if len(res.Candidates) > 0 {
		b.WriteString("\n\n")
		shown := res.Candidates
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, c := range shown {
			fmt.Fprintf(&b, "• %s\n", c.Name)
		}
		if count > len(shown) {
			fmt.Fprintf(&b, "\n...and %d more.", count-len(shown))
		}
	}
	b.WriteString("\n\nPlease be more specific.")
	return b.String()
}
