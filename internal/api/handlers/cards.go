package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pnakotic/sorcery-bot/internal/engine"
	"github.com/pnakotic/sorcery-bot/internal/metrics"
	"github.com/pnakotic/sorcery-bot/internal/services"
)

type CardHandler struct {
	store  *services.CardStore
	faqs   *services.FAQService
	prices *services.JustTCGService
}

func NewCardHandler(store *services.CardStore, faqs *services.FAQService, prices *services.JustTCGService) *CardHandler {
	return &CardHandler{
		store:  store,
		faqs:   faqs,
		prices: prices,
	}
}

func (h *CardHandler) engine(c *gin.Context) *engine.Engine {
	eng, err := h.store.Engine(c.Request.Context())
	if err != nil || eng == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "card database unavailable"})
		return nil
	}
	return eng
}

// SearchCards resolves a card name. The response reports how the match was
// made so clients can distinguish a typo correction from an ambiguous query.
func (h *CardHandler) SearchCards(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	eng := h.engine(c)
	if eng == nil {
		return
	}

	res := eng.Resolve(query)
	metrics.ResolverOutcomes.WithLabelValues(res.Kind.String()).Inc()
	body := gin.H{"query": query, "result": res.Kind.String()}

	switch res.Kind {
	case engine.MatchExact, engine.MatchFuzzy:
		body["card"] = res.Card
		if res.Kind == engine.MatchFuzzy {
			body["confidence"] = res.Confidence
		}
		c.JSON(http.StatusOK, body)
	case engine.MatchPartial:
		body["candidates"] = res.Candidates
		c.JSON(http.StatusOK, body)
	case engine.MatchAmbiguous:
		body["count"] = res.Count
		c.JSON(http.StatusOK, body)
	default:
		c.JSON(http.StatusNotFound, body)
	}
}

// GetCard returns a card by slug, with its FAQ entries attached.
func (h *CardHandler) GetCard(c *gin.Context) {
	eng := h.engine(c)
	if eng == nil {
		return
	}

	card := eng.CardIndex().BySlug(c.Param("slug"))
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"card": card,
		"faqs": h.faqs.ForCard(c.Request.Context(), card.Name),
	})
}

// GetReplacements returns ranked replacement suggestions for a card.
func (h *CardHandler) GetReplacements(c *gin.Context) {
	eng := h.engine(c)
	if eng == nil {
		return
	}

	card := eng.CardIndex().BySlug(c.Param("slug"))
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 50"})
			return
		}
		limit = parsed
	}

	ranked := eng.Rank(card, limit)
	if len(ranked) > 0 {
		metrics.RankMode.WithLabelValues(string(ranked[0].Mode)).Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"card":         card.Name,
		"replacements": ranked,
	})
}

// GetCardPrices returns JustTCG prices for a card, falling back to the last
// persisted observations when a live lookup is not possible.
func (h *CardHandler) GetCardPrices(c *gin.Context) {
	eng := h.engine(c)
	if eng == nil {
		return
	}

	card := eng.CardIndex().BySlug(c.Param("slug"))
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	if h.prices == nil || !h.prices.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price lookups not configured"})
		return
	}

	result, err := h.prices.SearchCardPrices(c.Request.Context(), card.Name)
	if err != nil || result == nil {
		saved := h.prices.SavedPrices(card.Slug)
		if len(saved) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no price data available"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"card": card.Name, "prices": saved, "source": "snapshot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"card":    result.Card.Name,
		"prices":  result.Card.Variants,
		"source":  "justtcg",
		"matches": result.TotalResults,
	})
}

// RefreshCards forces a wholesale reload of the card index.
func (h *CardHandler) RefreshCards(c *gin.Context) {
	if err := h.store.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	eng, _ := h.store.Engine(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status": "refreshed",
		"cards":  eng.CardIndex().Len(),
	})
}
