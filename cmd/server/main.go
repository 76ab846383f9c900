package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codyseavey/tcg-listmatch/backend/internal/api"
	"github.com/codyseavey/tcg-listmatch/backend/internal/database"
	"github.com/codyseavey/tcg-listmatch/backend/internal/services"
)

func main() {
	// Database path (holds the catalog response cache)
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./listmatch.db"
	}

	// Initialize database
	if err := database.Initialize(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize services
	tcgcsvService := services.NewTCGCSVService(database.GetDB(), os.Getenv("TCGCSV_BASE_URL"))
	scraperService := services.NewScraperService()
	resolverService := services.NewResolverService(tcgcsvService)

	// Warm the groups cache in the background so the first scrape request
	// doesn't pay for the catalog round trip.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		groups := tcgcsvService.GetGroups(ctx)
		log.Printf("Preloaded %d catalog groups", len(groups))
	}()

	// Setup router
	router := api.SetupRouter(scraperService, tcgcsvService, resolverService)

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

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
