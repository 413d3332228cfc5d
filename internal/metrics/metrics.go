// Package metrics provides Prometheus metrics for the Sorcery bot.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sorcery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sorcery_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Bot Metrics
	BotCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sorcery_bot_commands_total",
			Help: "Telegram commands processed by command and chat type",
		},
		[]string{"command", "chat_type"},
	)

	BotRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sorcery_bot_rate_limited_total",
			Help: "Messages dropped because a chat exceeded its rate limit",
		},
	)

	// Resolver Metrics
	ResolverOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sorcery_resolver_outcomes_total",
			Help: "Card name resolution outcomes",
		},
		[]string{"result"}, // "exact", "partial", "fuzzy", "ambiguous", "not_found"
	)

	// Ranker Metrics
	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sorcery_rank_duration_seconds",
			Help:    "Time taken to rank replacement candidates",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	RankMode = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sorcery_rank_mode_total",
			Help: "Ranking requests by scoring mode",
		},
		[]string{"mode"}, // "embedding", "fallback"
	)

	// Card Index Metrics
	CardIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sorcery_card_index_size",
			Help: "Number of cards in the in-memory index",
		},
	)

	CardIndexRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sorcery_card_index_refreshes_total",
			Help: "Card index refresh attempts by result",
		},
		[]string{"result"}, // "api", "snapshot", "failed"
	)

	EmbeddingsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sorcery_embeddings_loaded",
			Help: "Number of card embedding vectors loaded (0 when unavailable)",
		},
	)

	// JustTCG API Metrics
	JustTCGRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sorcery_justtcg_requests_total",
			Help: "Total number of JustTCG API requests made",
		},
	)

	JustTCGQuotaRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sorcery_justtcg_quota_remaining",
			Help: "Remaining JustTCG API requests for today",
		},
	)

	JustTCGQuotaLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sorcery_justtcg_quota_limit",
			Help: "Daily JustTCG API request limit",
		},
	)

	// FAQ Metrics
	FAQEntriesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sorcery_faq_entries_loaded",
			Help: "Number of FAQ entries currently cached",
		},
	)
)
