package api

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pnakotic/sorcery-bot/internal/api/handlers"
	"github.com/pnakotic/sorcery-bot/internal/bot"
	"github.com/pnakotic/sorcery-bot/internal/services"
)

const botVersion = "1.0.0"

func SetupRouter(store *services.CardStore, faqService *services.FAQService, priceService *services.JustTCGService, telegramBot *bot.Bot) *gin.Engine {
	router := gin.Default()
	router.Use(RequestID())
	router.Use(Metrics())

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	cardHandler := handlers.NewCardHandler(store, faqService, priceService)

	// API routes
	api := router.Group("/api")
	{
		cards := api.Group("/cards")
		{
			cards.GET("/search", cardHandler.SearchCards)
			cards.GET("/:slug", cardHandler.GetCard)
			cards.GET("/:slug/replacements", cardHandler.GetReplacements)
			cards.GET("/:slug/prices", cardHandler.GetCardPrices)
			cards.POST("/refresh", cardHandler.RefreshCards)
		}
	}

	// Telegram webhook receiver
	if telegramBot != nil {
		router.POST("/webhook", func(c *gin.Context) {
			var update tgbotapi.Update
			if err := c.ShouldBindJSON(&update); err != nil {
				log.Printf("Malformed webhook update: %v", err)
				c.Status(http.StatusBadRequest)
				return
			}
			telegramBot.HandleUpdate(c.Request.Context(), update)
			c.Status(http.StatusOK)
		})
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"bot":     "PnakoticBot",
			"version": botVersion,
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"bot":         "PnakoticBot",
			"version":     botVersion,
			"status":      "running",
			"description": "Sorcery: Contested Realm card bot for Telegram",
			"source":      "https://curiosa.io",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
