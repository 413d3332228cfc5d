package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pnakotic/sorcery-bot/internal/metrics"
	"github.com/pnakotic/sorcery-bot/internal/models"
)

const (
	justTCGBaseURL        = "https://api.justtcg.com/v1"
	justTCGDefaultTimeout = 10 * time.Second
	gameCatalogTTL        = 24 * time.Hour
)

// JustTCGService handles API calls to JustTCG for card pricing.
//
// Sorcery: Contested Realm may not be listed in the JustTCG catalog yet, so
// the game id is discovered from /games (cached for a day) rather than
// hardcoded. All lookups are no-ops until the game appears.
type JustTCGService struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	dailyLimit int
	db         *gorm.DB

	// Rate limiting
	mu             sync.Mutex
	requestsToday  int
	lastRequestDay time.Time

	// Cached /games discovery
	gameMu      sync.Mutex
	gameID      string
	gameChecked time.Time
}

// justTCGGame is one entry of the /games catalog.
type justTCGGame struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type justTCGGamesResponse struct {
	Data []justTCGGame `json:"data"`
}

// JustTCGVariant is a condition/printing price point for a card.
type JustTCGVariant struct {
	Condition    string             `json:"condition"` // "Near Mint", "Lightly Played", ...
	Printing     string             `json:"printing"`  // "Normal", "Foil", ...
	Price        float64            `json:"price"`
	PriceChanges map[string]float64 `json:"priceChanges"` // keys "7d", "30d"
}

// JustTCGCard is a card search result with its price variants.
type JustTCGCard struct {
	Name     string           `json:"name"`
	Set      string           `json:"set"`
	Variants []JustTCGVariant `json:"variants"`
}

type justTCGRateLimit struct {
	Remaining *int `json:"remaining"`
	Limit     *int `json:"limit"`
}

type justTCGMetadata struct {
	RateLimit justTCGRateLimit `json:"rateLimit"`
}

type justTCGSearchResponse struct {
	Data     []JustTCGCard   `json:"data"`
	Metadata justTCGMetadata `json:"_metadata"`
	Error    string          `json:"error,omitempty"`
}

// PriceResult carries the best match for a price query plus quota info.
type PriceResult struct {
	Card           JustTCGCard
	TotalResults   int
	QuotaRemaining *int
}

// NewJustTCGService creates a new JustTCG API service
func NewJustTCGService(apiKey string, dailyLimit int, db *gorm.DB) *JustTCGService {
	if dailyLimit <= 0 {
		dailyLimit = 100 // Default free tier limit
	}

	metrics.JustTCGQuotaLimit.Set(float64(dailyLimit))

	return &JustTCGService{
		client: &http.Client{
			Timeout: justTCGDefaultTimeout,
		},
		apiKey:     apiKey,
		baseURL:    justTCGBaseURL,
		dailyLimit: dailyLimit,
		db:         db,
	}
}

// Enabled reports whether the service has an API key configured.
func (s *JustTCGService) Enabled() bool {
	return s.apiKey != ""
}

// checkRateLimit checks if we can make another request today
// Returns true if request can proceed, false if rate limited
func (s *JustTCGService) checkRateLimit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Reset counter if new day
	if s.lastRequestDay.Before(today) {
		s.requestsToday = 0
		s.lastRequestDay = today
	}

	if s.requestsToday >= s.dailyLimit {
		return false
	}

	s.requestsToday++
	metrics.JustTCGRequestsTotal.Inc()
	metrics.JustTCGQuotaRemaining.Set(float64(s.dailyLimit - s.requestsToday))
	return true
}

// GetRequestsRemaining returns the number of requests remaining today
func (s *JustTCGService) GetRequestsRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if s.lastRequestDay.Before(today) {
		return s.dailyLimit
	}

	remaining := s.dailyLimit - s.requestsToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *JustTCGService) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach JustTCG: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("JustTCG API error: status %d", resp.StatusCode)
	}
	return resp, nil
}

// SorceryGameID looks up the JustTCG game id for Sorcery: Contested Realm.
// Returns "" when the game is not in the catalog. The answer is cached for
// 24 hours; on transient errors the last known answer is reused.
func (s *JustTCGService) SorceryGameID(ctx context.Context) string {
	s.gameMu.Lock()
	defer s.gameMu.Unlock()

	if !s.gameChecked.IsZero() && time.Since(s.gameChecked) < gameCatalogTTL {
		return s.gameID
	}

	if !s.checkRateLimit() {
		return s.gameID
	}

	resp, err := s.doRequest(ctx, s.baseURL+"/games")
	if err != nil {
		log.Printf("JustTCG games lookup failed: %v", err)
		return s.gameID
	}
	defer resp.Body.Close()

	var gamesResp justTCGGamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&gamesResp); err != nil {
		log.Printf("JustTCG games decode failed: %v", err)
		return s.gameID
	}

	s.gameID = findSorceryGame(gamesResp.Data)
	s.gameChecked = time.Now()
	if s.gameID != "" {
		log.Printf("Found Sorcery game in JustTCG catalog: %s", s.gameID)
	} else {
		log.Println("Sorcery not found in JustTCG catalog")
	}
	return s.gameID
}

func findSorceryGame(games []justTCGGame) string {
	for _, g := range games {
		id := strings.ToLower(g.ID)
		name := strings.ToLower(g.Name)
		if strings.Contains(id, "sorcery") || strings.Contains(name, "sorcery") {
			return g.ID
		}
	}
	return ""
}

// SearchCardPrices searches JustTCG for a card by name and returns the best
// match with its price variants. Returns (nil, nil) when Sorcery is not in
// the catalog or no card matched.
func (s *JustTCGService) SearchCardPrices(ctx context.Context, cardName string) (*PriceResult, error) {
	gameID := s.SorceryGameID(ctx)
	if gameID == "" {
		return nil, nil
	}

	if !s.checkRateLimit() {
		return nil, fmt.Errorf("JustTCG daily rate limit exceeded")
	}

	params := url.Values{}
	params.Set("game", gameID)
	params.Set("q", cardName)

	resp, err := s.doRequest(ctx, fmt.Sprintf("%s/cards?%s", s.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var searchResp justTCGSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if searchResp.Error != "" {
		return nil, fmt.Errorf("JustTCG API error: %s", searchResp.Error)
	}
	if len(searchResp.Data) == 0 {
		return nil, nil
	}

	if r := searchResp.Metadata.RateLimit.Remaining; r != nil {
		metrics.JustTCGQuotaRemaining.Set(float64(*r))
	}
	if l := searchResp.Metadata.RateLimit.Limit; l != nil {
		metrics.JustTCGQuotaLimit.Set(float64(*l))
	}

	result := &PriceResult{
		Card:           searchResp.Data[0],
		TotalResults:   len(searchResp.Data),
		QuotaRemaining: searchResp.Metadata.RateLimit.Remaining,
	}

	s.savePrices(cardName, result.Card)

	return result, nil
}

// savePrices upserts the card's price variants so the latest observation per
// (card, condition, printing) is kept.
func (s *JustTCGService) savePrices(cardName string, card JustTCGCard) {
	if s.db == nil {
		return
	}

	slug := models.Slugify(cardName)
	now := time.Now()
	var rows []models.CardPrice
	for _, v := range card.Variants {
		condition := mapJustTCGCondition(v.Condition)
		if condition == "" {
			continue
		}
		printing := models.PrintingType(v.Printing)
		if printing == "" {
			printing = models.PrintingNormal
		}

		row := models.CardPrice{
			ID:             uuid.New().String(),
			CardSlug:       slug,
			Condition:      condition,
			Printing:       printing,
			PriceUSD:       v.Price,
			Source:         "justtcg",
			PriceUpdatedAt: &now,
		}
		if c, ok := v.PriceChanges["7d"]; ok {
			change := c
			row.Change7d = &change
		}
		if c, ok := v.PriceChanges["30d"]; ok {
			change := c
			row.Change30d = &change
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return
	}

	go func(rows []models.CardPrice) {
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "card_slug"}, {Name: "condition"}, {Name: "printing"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"price_usd", "change7d", "change30d", "price_updated_at", "updated_at",
			}),
		}).Create(&rows).Error
		if err != nil {
			log.Printf("Warning: failed to persist %d prices for %s: %v", len(rows), slug, err)
		}
	}(rows)
}

// SavedPrices returns the last persisted prices for a card, ordered best
// condition first (NM through DMG) and then by printing.
func (s *JustTCGService) SavedPrices(cardSlug string) []models.CardPrice {
	if s.db == nil {
		return nil
	}
	var rows []models.CardPrice
	if err := s.db.Where("card_slug = ?", cardSlug).Find(&rows).Error; err != nil {
		log.Printf("Warning: failed to load saved prices for %s: %v", cardSlug, err)
		return nil
	}
	rank := make(map[models.PriceCondition]int, 5)
	for i, cond := range models.AllPriceConditions() {
		rank[cond] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, ok := rank[rows[i].Condition]
		if !ok {
			ri = len(rank)
		}
		rj, ok := rank[rows[j].Condition]
		if !ok {
			rj = len(rank)
		}
		if ri != rj {
			return ri < rj
		}
		return rows[i].Printing < rows[j].Printing
	})
	return rows
}

// mapJustTCGCondition maps JustTCG condition strings to our PriceCondition type
func mapJustTCGCondition(condition string) models.PriceCondition {
	switch strings.ToUpper(condition) {
	case "NM", "NEAR MINT":
		return models.PriceConditionNM
	case "LP", "LIGHTLY PLAYED":
		return models.PriceConditionLP
	case "MP", "MODERATELY PLAYED":
		return models.PriceConditionMP
	case "HP", "HEAVILY PLAYED":
		return models.PriceConditionHP
	case "DMG", "DAMAGED":
		return models.PriceConditionDMG
	default:
		return ""
	}
}
