package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pnakotic/sorcery-bot/internal/api"
	"github.com/pnakotic/sorcery-bot/internal/bot"
	"github.com/pnakotic/sorcery-bot/internal/database"
	"github.com/pnakotic/sorcery-bot/internal/engine"
	"github.com/pnakotic/sorcery-bot/internal/metrics"
	"github.com/pnakotic/sorcery-bot/internal/services"
)

func main() {
	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./sorcery_bot.db"
	}

	// Initialize database
	if err := database.Initialize(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Engine configuration is validated once; malformed weights are a
	// deployment error, not something to limp along with.
	cfg := engine.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid engine configuration: %v", err)
	}

	// Load card embeddings. A missing or defective file degrades ranking to
	// attribute-only scoring instead of blocking startup.
	embPath := os.Getenv("EMBEDDINGS_PATH")
	if embPath == "" {
		embPath = "./data/embeddings.json"
	}
	embStore, err := engine.LoadEmbeddingStore(embPath)
	if err != nil {
		log.Printf("Embeddings unavailable, ranking falls back to attributes: %v", err)
	} else {
		log.Printf("Loaded %d embeddings (model %s, %d dims)", embStore.Count(), embStore.Model(), embStore.Dimension())
	}
	metrics.EmbeddingsLoaded.Set(float64(embStore.Count()))

	// Card store over the official card API, with the SQLite snapshot as
	// offline fallback
	curiosaService := services.NewCuriosaService(os.Getenv("CARDS_API_URL"))
	cardStore := services.NewCardStore(curiosaService, database.GetDB(), embStore, cfg, 0)

	// FAQ scraper
	faqService := services.NewFAQService(os.Getenv("FAQ_URL"), database.GetDB())

	// JustTCG pricing
	justTCGAPIKey := os.Getenv("JUSTTCG_API_KEY")
	justTCGDailyLimit := 100 // Default free tier limit
	if limitStr := os.Getenv("JUSTTCG_DAILY_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			justTCGDailyLimit = limit
		}
	}
	priceService := services.NewJustTCGService(justTCGAPIKey, justTCGDailyLimit, database.GetDB())

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Warm the card index in the background so the first command does not
	// pay the cold-start fetch.
	go func() {
		warmCtx, warmCancel := context.WithTimeout(ctx, 2*time.Minute)
		defer warmCancel()
		if eng, err := cardStore.Engine(warmCtx); err != nil {
			log.Printf("Card index warmup failed: %v", err)
		} else {
			log.Printf("Card index ready with %d cards", eng.CardIndex().Len())
		}
	}()

	// Telegram bot (optional: API-only deployments run without a token)
	var telegramBot *bot.Bot
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		botAPI, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			log.Fatalf("Failed to connect to Telegram: %v", err)
		}
		log.Printf("Authorized as @%s", botAPI.Self.UserName)

		if webhookURL := os.Getenv("WEBHOOK_URL"); webhookURL != "" {
			webhook, err := tgbotapi.NewWebhook(webhookURL)
			if err != nil {
				log.Fatalf("Invalid webhook URL: %v", err)
			}
			if _, err := botAPI.Request(webhook); err != nil {
				log.Fatalf("Failed to set webhook: %v", err)
			}
			log.Printf("Webhook set to %s", webhookURL)
		}

		telegramBot = bot.New(botAPI, cardStore, faqService, priceService)
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, running API-only")
	}

	// Setup router
	router := api.SetupRouter(cardStore, faqService, priceService, telegramBot)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
