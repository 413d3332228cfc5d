package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pnakotic/sorcery-bot/internal/models"
)

const (
	defaultCardsAPIURL  = "https://api.sorcerytcg.com/api/cards"
	curiosaImageCDN     = "https://d27a44hjr9gen3.cloudfront.net/cards/"
	cardFetchTimeout    = 30 * time.Second
	standardFinishLabel = "Standard"
)

// CuriosaService fetches the full Sorcery card set from the official card
// API. The engine treats the result as an immutable snapshot; the card store
// decides when to refetch.
type CuriosaService struct {
	client  *http.Client
	baseURL string
}

func NewCuriosaService(baseURL string) *CuriosaService {
	if baseURL == "" {
		baseURL = defaultCardsAPIURL
	}
	return &CuriosaService{
		client: &http.Client{
			Timeout: cardFetchTimeout,
		},
		baseURL: baseURL,
	}
}

// API response shapes. Numeric guardian fields are pointers because avatars
// and sites omit cost/attack, and "no value" must not collapse to zero.
type curiosaCard struct {
	Name     string        `json:"name"`
	Guardian struct {
		Type       string         `json:"type"`
		Rarity     string         `json:"rarity"`
		RulesText  string         `json:"rulesText"`
		Cost       *int           `json:"cost"`
		Attack     *int           `json:"attack"`
		Defence    *int           `json:"defence"`
		Life       *int           `json:"life"`
		Thresholds map[string]int `json:"thresholds"`
	} `json:"guardian"`
	Elements string       `json:"elements"`
	SubTypes string       `json:"subTypes"`
	Sets     []curiosaSet `json:"sets"`
}

type curiosaSet struct {
	Name     string           `json:"name"`
	Variants []curiosaVariant `json:"variants"`
}

type curiosaVariant struct {
	Slug   string `json:"slug"`
	Finish string `json:"finish"`
}

// FetchAllCards downloads the complete card list and converts it to the
// model shape.
func (s *CuriosaService) FetchAllCards(ctx context.Context) ([]models.Card, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("card API returned status %d", resp.StatusCode)
	}

	var raw []curiosaCard
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode card list: %w", err)
	}

	cards := make([]models.Card, 0, len(raw))
	for _, rc := range raw {
		if rc.Name == "" {
			continue
		}
		cards = append(cards, convertCard(rc))
	}
	return cards, nil
}

func convertCard(rc curiosaCard) models.Card {
	now := time.Now()
	return models.Card{
		Slug:       models.Slugify(rc.Name),
		Name:       rc.Name,
		Type:       rc.Guardian.Type,
		SubTypes:   splitList(rc.SubTypes, ","),
		Elements:   splitList(rc.Elements, "/"),
		Cost:       rc.Guardian.Cost,
		Attack:     rc.Guardian.Attack,
		Defence:    rc.Guardian.Defence,
		Life:       rc.Guardian.Life,
		Thresholds: rc.Guardian.Thresholds,
		Rarity:     rc.Guardian.Rarity,
		RulesText:  rc.Guardian.RulesText,
		ImageURL:   imageURL(rc.Sets),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// imageURL picks a CDN URL from the most recent set, preferring the standard
// finish over foils.
func imageURL(sets []curiosaSet) string {
	if len(sets) == 0 {
		return ""
	}
	variants := sets[len(sets)-1].Variants
	if len(variants) == 0 {
		return ""
	}
	for _, v := range variants {
		if v.Finish == standardFinishLabel && v.Slug != "" {
			return curiosaImageCDN + v.Slug + ".png"
		}
	}
	if variants[0].Slug == "" {
		return ""
	}
	return curiosaImageCDN + variants[0].Slug + ".png"
}

func splitList(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
