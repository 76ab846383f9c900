package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/tcg-listmatch/backend/internal/metrics"
	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
)

const (
	tcgcsvBaseURL        = "https://tcgcsv.com/tcgplayer"
	pokemonCategoryID    = 3
	tcgcsvDefaultTimeout = 10 * time.Second

	// tcgcsv refreshes its exports daily; a week-old copy is plenty for
	// list matching and keeps us off their servers.
	cacheExpiry = 7 * 24 * time.Hour
)

// TCGCSVService fetches Pokemon groups and products from the TCGPlayer CSV
// mirror, with a sqlite-backed response cache and polite request pacing.
type TCGCSVService struct {
	client  *http.Client
	baseURL string
	db      *gorm.DB
	limiter *rate.Limiter
}

// tcgcsvEnvelope is the {success, results} wrapper every tcgcsv endpoint uses.
type tcgcsvEnvelope struct {
	Success bool            `json:"success"`
	Results json.RawMessage `json:"results"`
}

// NewTCGCSVService creates a catalog client writing its cache through db.
// baseURL overrides the production endpoint (used by ops and tests); pass ""
// for the default.
func NewTCGCSVService(db *gorm.DB, baseURL string) *TCGCSVService {
	if baseURL == "" {
		baseURL = tcgcsvBaseURL
	}
	return &TCGCSVService{
		client: &http.Client{
			Timeout: tcgcsvDefaultTimeout,
		},
		baseURL: baseURL,
		db:      db,
		// 5 req/s with a small burst; group fan-out can get chatty.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// GetGroups fetches the full name -> groupId table for the Pokemon category.
// Errors degrade to an empty map; a missing catalog is a recoverable
// condition for the caller, not a fatal one.
func (s *TCGCSVService) GetGroups(ctx context.Context) map[string]int {
	if payload, ok := s.readCache("groups"); ok {
		var groups map[string]int
		if err := json.Unmarshal(payload, &groups); err == nil {
			metrics.CatalogRequestsTotal.WithLabelValues("groups", "hit").Inc()
			log.Printf("[TCGCSV] using cached groups (%d groups)", len(groups))
			return groups
		}
	}

	url := fmt.Sprintf("%s/%d/groups", s.baseURL, pokemonCategoryID)
	raw, err := s.fetch(ctx, url)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues("groups", "error").Inc()
		log.Printf("[TCGCSV] error fetching groups: %v", err)
		return map[string]int{}
	}
	metrics.CatalogRequestsTotal.WithLabelValues("groups", "miss").Inc()

	var results []models.CatalogGroup
	if err := json.Unmarshal(raw, &results); err != nil {
		log.Printf("[TCGCSV] error decoding groups: %v", err)
		return map[string]int{}
	}

	groups := make(map[string]int, len(results))
	for _, g := range results {
		groups[g.Name] = g.GroupID
	}

	if payload, err := json.Marshal(groups); err == nil {
		s.writeCache("groups", payload)
	}
	return groups
}

// GetProducts fetches all products for one group. Errors degrade to an empty
// slice so a bad group costs recall, not availability.
func (s *TCGCSVService) GetProducts(ctx context.Context, groupID int) []models.CatalogProduct {
	cacheKey := fmt.Sprintf("products_%d", groupID)
	if payload, ok := s.readCache(cacheKey); ok {
		var products []models.CatalogProduct
		if err := json.Unmarshal(payload, &products); err == nil {
			metrics.CatalogRequestsTotal.WithLabelValues("products", "hit").Inc()
			return products
		}
	}

	url := fmt.Sprintf("%s/%d/%d/products", s.baseURL, pokemonCategoryID, groupID)
	log.Printf("[TCGCSV] fetching products for group %d", groupID)
	raw, err := s.fetch(ctx, url)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues("products", "error").Inc()
		log.Printf("[TCGCSV] error fetching products for group %d: %v", groupID, err)
		return nil
	}
	metrics.CatalogRequestsTotal.WithLabelValues("products", "miss").Inc()

	var products []models.CatalogProduct
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Printf("[TCGCSV] error decoding products for group %d: %v", groupID, err)
		return nil
	}

	s.writeCache(cacheKey, raw)
	return products
}

// fetch performs one rate-limited GET and unwraps the tcgcsv envelope.
func (s *TCGCSVService) fetch(ctx context.Context, url string) (json.RawMessage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.CatalogFetchDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("tcgcsv returned status %d", resp.StatusCode)
	}

	var envelope tcgcsvEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("tcgcsv returned unsuccessful response")
	}
	return envelope.Results, nil
}

// readCache returns the cached payload for key if present and fresh.
func (s *TCGCSVService) readCache(key string) ([]byte, bool) {
	if s.db == nil {
		return nil, false
	}
	var entry models.CacheEntry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		return nil, false
	}
	if time.Since(entry.FetchedAt) >= cacheExpiry {
		return nil, false
	}
	return entry.Payload, true
}

// writeCache upserts a payload under key. Cache failures are logged and
// otherwise ignored; the data was already fetched.
func (s *TCGCSVService) writeCache(key string, payload []byte) {
	if s.db == nil {
		return
	}
	entry := models.CacheEntry{Key: key, Payload: payload, FetchedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at"}),
	}).Create(&entry).Error
	if err != nil {
		log.Printf("[TCGCSV] error writing cache entry %s: %v", key, err)
	}
}

// ClearCache removes every cached catalog response.
func (s *TCGCSVService) ClearCache() error {
	if s.db == nil {
		return nil
	}
	return s.db.Where("1 = 1").Delete(&models.CacheEntry{}).Error
}

// ClearExpiredCache removes only entries past the catalog TTL.
func (s *TCGCSVService) ClearExpiredCache() error {
	if s.db == nil {
		return nil
	}
	cutoff := time.Now().Add(-cacheExpiry)
	return s.db.Where("fetched_at < ?", cutoff).Delete(&models.CacheEntry{}).Error
}
