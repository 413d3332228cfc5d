// Package bot implements the Telegram command surface: card lookups,
// replacement suggestions, and price queries, with per-chat rate limiting.
// Group chats get brief error messages; private chats get full ones.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pnakotic/sorcery-bot/internal/engine"
	"github.com/pnakotic/sorcery-bot/internal/metrics"
	"github.com/pnakotic/sorcery-bot/internal/models"
	"github.com/pnakotic/sorcery-bot/internal/services"
)

// sender is the slice of the Telegram API the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot routes Telegram updates to command handlers.
type Bot struct {
	api     sender
	store   *services.CardStore
	faqs    *services.FAQService
	prices  *services.JustTCGService
	limiter *RateLimiter
}

func New(api sender, store *services.CardStore, faqs *services.FAQService, prices *services.JustTCGService) *Bot {
	return &Bot{
		api:     api,
		store:   store,
		faqs:    faqs,
		prices:  prices,
		limiter: NewRateLimiter(),
	}
}

// HandleUpdate processes one webhook update. Errors are reported to the chat
// rather than returned; the webhook always acknowledges.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}

	chatID := msg.Chat.ID
	isGroup := msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()

	limiterID := chatID
	if !isGroup && msg.From != nil {
		limiterID = msg.From.ID
	}
	if !b.limiter.Allow(limiterID, isGroup) {
		metrics.BotRateLimitedTotal.Inc()
		b.reply(msg, "⏳ Rate limit exceeded. Please wait a moment.", false)
		return
	}

	command := msg.Command()
	metrics.BotCommandsTotal.WithLabelValues(command, msg.Chat.Type).Inc()

	switch command {
	case "start", "help":
		b.reply(msg, WelcomeMessage, true)
	case "card":
		b.handleCard(ctx, msg, isGroup)
	case "replace":
		b.handleReplace(ctx, msg, isGroup)
	case "price":
		b.handlePrice(ctx, msg, isGroup)
	}
}

func (b *Bot) handleCard(ctx context.Context, msg *tgbotapi.Message, isGroup bool) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		if isGroup {
			b.reply(msg, "❌ Provide card name", false)
		} else {
			b.reply(msg, "❌ Please provide a card name.\nExample: `/card Blink`", true)
		}
		return
	}

	b.sendTyping(msg.Chat.ID)

	card, ok := b.resolveCard(ctx, msg, query, isGroup)
	if !ok {
		return
	}

	faqs := b.faqs.ForCard(ctx, card.Name)
	text := FormatCardMessage(card, faqs)

	if card.ImageURL != "" {
		photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileURL(card.ImageURL))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdown
		if isGroup {
			photo.ReplyToMessageID = msg.MessageID
		}
		if _, err := b.api.Send(photo); err == nil {
			return
		} else {
			log.Printf("Image send failed for %s: %v", card.Name, err)
		}
	}

	b.reply(msg, text, true)
}

func (b *Bot) handleReplace(ctx context.Context, msg *tgbotapi.Message, isGroup bool) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		if isGroup {
			b.reply(msg, "❌ Provide card name", false)
		} else {
			b.reply(msg, "❌ Please provide a card name.\nExample: `/replace Blink`", true)
		}
		return
	}

	b.sendTyping(msg.Chat.ID)

	card, ok := b.resolveCard(ctx, msg, query, isGroup)
	if !ok {
		return
	}

	eng, err := b.store.Engine(ctx)
	if err != nil || eng == nil {
		b.reply(msg, "❌ Failed to load card database. Try again later.", false)
		return
	}

	start := time.Now()
	ranked := eng.Rank(card, 0)
	metrics.RankDuration.Observe(time.Since(start).Seconds())
	if len(ranked) > 0 {
		metrics.RankMode.WithLabelValues(string(ranked[0].Mode)).Inc()
	}

	b.reply(msg, FormatReplacements(card, ranked), true)
}

func (b *Bot) handlePrice(ctx context.Context, msg *tgbotapi.Message, isGroup bool) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		if isGroup {
			b.reply(msg, "❌ Provide card name", false)
		} else {
			b.reply(msg, "❌ Please provide a card name.\nExample: `/price Blink`", true)
		}
		return
	}

	if b.prices == nil || !b.prices.Enabled() {
		b.reply(msg, "💎 Price lookups are not configured.", false)
		return
	}

	b.sendTyping(msg.Chat.ID)

	// Resolve first so the price query uses the canonical card name.
	card, ok := b.resolveCard(ctx, msg, query, isGroup)
	if !ok {
		return
	}

	result, err := b.prices.SearchCardPrices(ctx, card.Name)
	if err != nil {
		log.Printf("Price lookup failed for %s: %v", card.Name, err)
		b.reply(msg, "❌ Price lookup failed. Please try again later.", false)
		return
	}

	b.reply(msg, FormatPrices(card.Name, result), true)
}

// resolveCard runs name resolution and reports failures to the chat. The
// second return is false when no single card was settled on.
func (b *Bot) resolveCard(ctx context.Context, msg *tgbotapi.Message, query string, isGroup bool) (*models.Card, bool) {
	eng, err := b.store.Engine(ctx)
	if err != nil || eng == nil {
		b.reply(msg, "❌ Failed to load card database. Try again later.", false)
		return nil, false
	}

	res := eng.Resolve(query)
	metrics.ResolverOutcomes.WithLabelValues(res.Kind.String()).Inc()

	switch res.Kind {
	case engine.MatchExact, engine.MatchFuzzy:
		return res.Card, true
	case engine.MatchPartial, engine.MatchAmbiguous:
		b.reply(msg, FormatAmbiguous(query, res, isGroup), false)
		return nil, false
	default:
		if isGroup {
			b.reply(msg, "❌ Not found", false)
		} else {
			b.reply(msg, fmt.Sprintf("❌ Card '%s' not found. Check spelling?", query), false)
		}
		return nil, false
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string, markdown bool) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	if markdown {
		reply.ParseMode = tgbotapi.ModeMarkdown
		reply.DisableWebPagePreview = true
	}
	if msg.Chat.IsGroup() || msg.Chat.IsSuperGroup() {
		reply.ReplyToMessageID = msg.MessageID
	}
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("Failed to send reply: %v", err)
	}
}

func (b *Bot) sendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		log.Printf("Failed to send typing action: %v", err)
	}
}
