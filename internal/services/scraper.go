package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/codyseavey/tcg-listmatch/backend/internal/metrics"
	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
)

// ScraperService talks to the headless-browser scraping sidecar that renders
// list pages and extracts card tuples. The core never touches the DOM; it
// only consumes (name, number, url) tuples grouped by set label.
type ScraperService struct {
	baseURL string
	client  *http.Client

	// Cached health status
	mu              sync.RWMutex
	lastHealthCheck time.Time
	cachedHealthy   bool
}

type scraperHealthResponse struct {
	Status string `json:"status"`
}

type scrapeRequest struct {
	Sources []models.ScrapeSource `json:"sources"`
}

func NewScraperService() *ScraperService {
	baseURL := os.Getenv("SCRAPER_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8098"
	}

	svc := &ScraperService{
		baseURL: baseURL,
		client: &http.Client{
			// Rendering several JS-heavy list pages takes a while.
			Timeout: 120 * time.Second,
		},
	}

	// Run initial health check in background
	go svc.checkHealth()

	return svc
}

// IsHealthy returns true if the scraper sidecar is reachable. Uses a cached
// result (refreshed every 60 seconds) to avoid blocking on every request.
func (s *ScraperService) IsHealthy() bool {
	s.mu.RLock()
	if time.Since(s.lastHealthCheck) < 60*time.Second {
		healthy := s.cachedHealthy
		s.mu.RUnlock()
		return healthy
	}
	s.mu.RUnlock()

	return s.checkHealth()
}

func (s *ScraperService) checkHealth() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		s.updateHealthCache(false)
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Scraper] health check failed: %v", err)
		s.updateHealthCache(false)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.updateHealthCache(false)
		return false
	}

	var health scraperHealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		s.updateHealthCache(false)
		return false
	}

	healthy := health.Status == "ok"
	s.updateHealthCache(healthy)
	return healthy
}

func (s *ScraperService) updateHealthCache(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastHealthCheck = time.Now()
	s.cachedHealthy = healthy
}

// ScrapeAll renders every source list and returns the extracted cards
// grouped by set label. A failed scrape degrades to empty per-source
// results so matching can still run over whatever did come back.
func (s *ScraperService) ScrapeAll(ctx context.Context, sources []models.ScrapeSource) []models.SourceCards {
	results, err := s.scrape(ctx, sources)
	if err != nil {
		metrics.ScraperRequestsTotal.WithLabelValues("failed").Inc()
		log.Printf("[Scraper] scrape failed: %v", err)
		return emptyResults(sources)
	}
	metrics.ScraperRequestsTotal.WithLabelValues("success").Inc()
	return results
}

func (s *ScraperService) scrape(ctx context.Context, sources []models.ScrapeSource) ([]models.SourceCards, error) {
	body, err := json.Marshal(scrapeRequest{Sources: sources})
	if err != nil {
		return nil, fmt.Errorf("marshal scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape failed status=%d", resp.StatusCode)
	}

	var results []models.SourceCards
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode scrape response: %w", err)
	}
	return results, nil
}

func emptyResults(sources []models.ScrapeSource) []models.SourceCards {
	results := make([]models.SourceCards, 0, len(sources))
	for _, src := range sources {
		name := src.Name
		if name == "" {
			name = "Unknown Source"
		}
		results = append(results, models.SourceCards{SourceName: name, CardsBySet: map[string][]models.CardObservation{}})
	}
	return results
}
