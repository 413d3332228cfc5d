package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/pnakotic/sorcery-bot/internal/engine"
	"github.com/pnakotic/sorcery-bot/internal/metrics"
	"github.com/pnakotic/sorcery-bot/internal/models"
)

const defaultCardTTL = 24 * time.Hour

// CardStore owns the current engine snapshot and its refresh lifecycle. The
// card set is loaded lazily on first use, refreshed wholesale after the TTL,
// and persisted to SQLite so the bot can come back up while the card API is
// down. Population is single-flight: one loader at a time, with concurrent
// readers either blocking briefly (cold start) or continuing to serve the
// previous snapshot (stale refresh). A partially-loaded index is never
// observable.
type CardStore struct {
	curiosa  *CuriosaService
	db       *gorm.DB
	embStore *engine.EmbeddingStore
	cfg      engine.Config
	ttl      time.Duration

	refreshMu sync.Mutex // single-flight guard for population

	mu       sync.RWMutex // guards current + loadedAt
	current  *engine.Engine
	loadedAt time.Time
}

func NewCardStore(curiosa *CuriosaService, db *gorm.DB, embStore *engine.EmbeddingStore, cfg engine.Config, ttl time.Duration) *CardStore {
	if ttl <= 0 {
		ttl = defaultCardTTL
	}
	return &CardStore{
		curiosa:  curiosa,
		db:       db,
		embStore: embStore,
		cfg:      cfg,
		ttl:      ttl,
	}
}

// Engine returns the current engine snapshot, populating or refreshing it as
// needed. On a cold start callers block until the first load finishes; on a
// stale snapshot one caller refreshes while the rest keep the old snapshot.
// A degraded (empty) engine plus an error is returned when no data source is
// reachable; callers report the degraded state instead of failing.
func (s *CardStore) Engine(ctx context.Context) (*engine.Engine, error) {
	s.mu.RLock()
	current, loadedAt := s.current, s.loadedAt
	s.mu.RUnlock()

	if current != nil && time.Since(loadedAt) < s.ttl {
		return current, nil
	}

	if current != nil {
		// Stale but usable: only one caller refreshes, everyone else keeps
		// reading the previous snapshot.
		if s.refreshMu.TryLock() {
			defer s.refreshMu.Unlock()
			if eng, err := s.populate(ctx); err == nil {
				return eng, nil
			} else {
				log.Printf("Card refresh failed, serving stale snapshot: %v", err)
			}
		}
		return current, nil
	}

	// Cold start: serialize the first population.
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.RLock()
	current = s.current
	s.mu.RUnlock()
	if current != nil {
		return current, nil
	}

	return s.populate(ctx)
}

// Refresh forces a wholesale reload regardless of TTL.
func (s *CardStore) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	_, err := s.populate(ctx)
	return err
}

// populate fetches a fresh card set, falls back to the SQLite snapshot when
// the API is unreachable, and swaps in a fully-built engine. Callers must
// hold refreshMu.
func (s *CardStore) populate(ctx context.Context) (*engine.Engine, error) {
	cards, err := s.curiosa.FetchAllCards(ctx)
	if err != nil {
		log.Printf("Card API fetch failed: %v", err)
		cards, err = s.loadSnapshot()
		if err != nil {
			metrics.CardIndexRefreshesTotal.WithLabelValues("failed").Inc()
			// A stale snapshot beats no snapshot: keep serving it and retry
			// on the next request.
			if stale := s.currentEngine(); stale != nil {
				return stale, fmt.Errorf("no fresh card data available: %w", err)
			}
			// Nothing to serve at all: install an empty engine so callers
			// degrade instead of crashing.
			s.swap(engine.New(nil, s.embStore, s.cfg), time.Time{})
			return s.currentEngine(), fmt.Errorf("no card data available: %w", err)
		}
		metrics.CardIndexRefreshesTotal.WithLabelValues("snapshot").Inc()
		log.Printf("Serving %d cards from local snapshot", len(cards))
	} else {
		metrics.CardIndexRefreshesTotal.WithLabelValues("api").Inc()
		log.Printf("Fetched %d cards from card API", len(cards))
		s.saveSnapshotAsync(cards)
	}

	eng := engine.New(cards, s.embStore, s.cfg)
	s.swap(eng, time.Now())
	metrics.CardIndexSize.Set(float64(eng.CardIndex().Len()))
	return eng, nil
}

func (s *CardStore) swap(eng *engine.Engine, loadedAt time.Time) {
	s.mu.Lock()
	s.current = eng
	s.loadedAt = loadedAt
	s.mu.Unlock()
}

func (s *CardStore) currentEngine() *engine.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// loadSnapshot reads the last persisted card set. Slug order keeps the
// candidate universe deterministic across restarts.
func (s *CardStore) loadSnapshot() ([]models.Card, error) {
	if s.db == nil {
		return nil, fmt.Errorf("no snapshot database configured")
	}
	var cards []models.Card
	if err := s.db.Order("slug").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to load card snapshot: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("card snapshot is empty")
	}
	return cards, nil
}

// saveSnapshotAsync persists the fetched cards without blocking the request
// that triggered the refresh.
func (s *CardStore) saveSnapshotAsync(cards []models.Card) {
	if s.db == nil || len(cards) == 0 {
		return
	}
	toSave := make([]models.Card, len(cards))
	copy(toSave, cards)
	go func(cards []models.Card) {
		if err := s.db.Save(&cards).Error; err != nil {
			log.Printf("Warning: failed to persist %d cards: %v", len(cards), err)
		}
	}(toSave)
}
