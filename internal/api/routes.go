package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/tcg-listmatch/backend/internal/api/handlers"
	"github.com/codyseavey/tcg-listmatch/backend/internal/services"
)

func SetupRouter(scraperService *services.ScraperService, tcgcsvService *services.TCGCSVService, resolverService *services.ResolverService) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.AllowCredentials = false // Explicitly set
	router.Use(cors.New(config))

	router.Use(MetricsMiddleware())

	// Initialize handlers
	scrapeHandler := handlers.NewScrapeHandler(scraperService, tcgcsvService, resolverService)
	cacheHandler := handlers.NewCacheHandler(tcgcsvService)

	// API routes
	api := router.Group("/api")
	{
		api.POST("/scrape", scrapeHandler.ScrapeLists)

		cache := api.Group("/cache")
		{
			cache.DELETE("", cacheHandler.ClearCache)
			cache.DELETE("/expired", cacheHandler.ClearExpiredCache)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":          "ok",
			"scraper_healthy": scraperService.IsHealthy(),
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
