package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
	"gorm.io/gorm"

	"github.com/pnakotic/sorcery-bot/internal/metrics"
	"github.com/pnakotic/sorcery-bot/internal/models"
)

const (
	defaultFAQURL   = "https://curiosa.io/faqs"
	faqFetchTimeout = 30 * time.Second
	defaultFAQTTL   = 24 * time.Hour
)

// FAQService scrapes the curiosa.io FAQ page into per-card question/answer
// lists. The page groups entries under h3/h4 card headers, with questions in
// bold paragraphs followed by plain-paragraph answers. Entries are cached
// in memory with a TTL and mirrored to SQLite as an offline fallback.
type FAQService struct {
	client *http.Client
	db     *gorm.DB
	url    string
	ttl    time.Duration

	mu       sync.Mutex
	faqs     map[string][]models.FAQEntry
	loadedAt time.Time
}

func NewFAQService(url string, db *gorm.DB) *FAQService {
	if url == "" {
		url = defaultFAQURL
	}
	return &FAQService{
		client: &http.Client{Timeout: faqFetchTimeout},
		db:     db,
		url:    url,
		ttl:    defaultFAQTTL,
	}
}

// ForCard returns all FAQ entries for a card, or nil when it has none.
// The full FAQ set is lazily scraped on first use and after TTL expiry.
func (s *FAQService) ForCard(ctx context.Context, cardName string) []models.FAQEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.faqs == nil || time.Since(s.loadedAt) >= s.ttl {
		faqs, err := s.scrape(ctx)
		if err != nil {
			log.Printf("FAQ scrape failed: %v", err)
			if s.faqs == nil {
				s.faqs = s.loadSaved()
				s.loadedAt = time.Now()
			}
			// Otherwise keep serving the stale in-memory set.
		} else {
			s.faqs = faqs
			s.loadedAt = time.Now()
			s.saveAsync(faqs)
			total := 0
			for _, list := range faqs {
				total += len(list)
			}
			metrics.FAQEntriesLoaded.Set(float64(total))
		}
	}

	return s.faqs[cardName]
}

// scrape downloads and parses the FAQ page.
func (s *FAQService) scrape(ctx context.Context) (map[string][]models.FAQEntry, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch FAQ page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FAQ page returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FAQ HTML: %w", err)
	}

	faqs := parseFAQDocument(doc)
	if len(faqs) == 0 {
		return nil, fmt.Errorf("FAQ page yielded no entries")
	}
	log.Printf("Scraped FAQs for %d cards", len(faqs))
	return faqs, nil
}

// parseFAQDocument walks the document in order, tracking the current card
// header and pairing each bold question paragraph with the following plain
// paragraph as its answer.
func parseFAQDocument(doc *html.Node) map[string][]models.FAQEntry {
	faqs := make(map[string][]models.FAQEntry)

	var elements []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h3", "h4", "p":
				elements = append(elements, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(doc)

	currentCard := ""
	for i, el := range elements {
		switch el.Data {
		case "h3", "h4":
			currentCard = strings.TrimSpace(nodeText(el))
		case "p":
			if currentCard == "" {
				continue
			}
			strong := findChild(el, "strong")
			if strong == nil {
				continue
			}
			question := strings.TrimSpace(nodeText(strong))
			if question == "" || i+1 >= len(elements) {
				continue
			}
			next := elements[i+1]
			// The answer is the next paragraph, unless that is itself
			// another question.
			if next.Data != "p" || findChild(next, "strong") != nil {
				continue
			}
			answer := strings.TrimSpace(nodeText(next))
			if answer == "" {
				continue
			}
			faqs[currentCard] = append(faqs[currentCard], models.FAQEntry{
				CardName: currentCard,
				Question: question,
				Answer:   answer,
			})
		}
	}
	return faqs
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func findChild(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findChild(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// loadSaved restores the last persisted FAQ set from SQLite.
func (s *FAQService) loadSaved() map[string][]models.FAQEntry {
	faqs := make(map[string][]models.FAQEntry)
	if s.db == nil {
		return faqs
	}
	var entries []models.FAQEntry
	if err := s.db.Order("card_name, id").Find(&entries).Error; err != nil {
		log.Printf("Warning: failed to load saved FAQs: %v", err)
		return faqs
	}
	for _, e := range entries {
		faqs[e.CardName] = append(faqs[e.CardName], e)
	}
	if len(entries) > 0 {
		log.Printf("Serving %d saved FAQ entries from snapshot", len(entries))
	}
	return faqs
}

// saveAsync replaces the persisted FAQ set with the freshly scraped one.
func (s *FAQService) saveAsync(faqs map[string][]models.FAQEntry) {
	if s.db == nil {
		return
	}
	var entries []models.FAQEntry
	for _, list := range faqs {
		entries = append(entries, list...)
	}
	go func(entries []models.FAQEntry) {
		if err := s.db.Where("1 = 1").Delete(&models.FAQEntry{}).Error; err != nil {
			log.Printf("Warning: failed to clear saved FAQs: %v", err)
			return
		}
		if err := s.db.CreateInBatches(entries, 200).Error; err != nil {
			log.Printf("Warning: failed to persist %d FAQ entries: %v", len(entries), err)
		}
	}(entries)
}
