package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/codyseavey/tcg-listmatch/backend/internal/metrics"
	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
)

// maxLookupWorkers bounds the card-resolution fan-out. Most of the time per
// card is spent waiting on uncached catalog fetches.
const maxLookupWorkers = 15

// ProcessCards deduplicates the scraped cards and resolves each unique card
// against the catalog with a bounded worker pool. Results come back in
// completion order; callers sort as needed. One card failing, panicking or
// simply not matching never affects the rest of the batch.
func (s *ResolverService) ProcessCards(ctx context.Context, scrapeResults []models.SourceCards, groups map[string]int) []models.MatchResult {
	deduped := DedupeCards(scrapeResults)

	totalRaw := countObservations(scrapeResults)
	metrics.CardsScraped.Add(float64(totalRaw))
	metrics.CardsDeduped.Add(float64(len(deduped)))
	log.Printf("[Batch] found %d raw cards, %d unique after dedupe", totalRaw, len(deduped))

	if len(deduped) == 0 {
		return []models.MatchResult{}
	}

	// One products cache per batch; the index cache is process-wide.
	cache := NewProductsCache()

	tasks := make(chan *models.DedupedCard)
	var mu sync.Mutex
	results := make([]models.MatchResult, 0, len(deduped))

	var wg sync.WaitGroup
	workers := maxLookupWorkers
	if len(deduped) < workers {
		workers = len(deduped)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range tasks {
				if result, ok := s.resolveEntry(ctx, entry, groups, cache); ok {
					mu.Lock()
					results = append(results, *result)
					mu.Unlock()
				}
			}
		}()
	}

	for _, entry := range deduped {
		tasks <- entry
	}
	close(tasks)
	wg.Wait()

	log.Printf("[Batch] completed: %d of %d unique cards matched", len(results), len(deduped))
	return results
}

// resolveEntry runs one card's resolution to completion with panic
// isolation and annotates the result with the contributing source names.
func (s *ResolverService) resolveEntry(ctx context.Context, entry *models.DedupedCard, groups map[string]int, cache *ProductsCache) (result *models.MatchResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			metrics.CardResolutionsTotal.WithLabelValues("error").Inc()
			log.Printf("[Batch] PANIC resolving %s #%s: %v", entry.CardInfo.Name, entry.CardInfo.Number, r)
			result, ok = nil, false
		}
	}()

	// Any of the merged labels identifies the card's set; take the first in
	// sorted order so reruns behave the same.
	setLabel := firstSetLabel(entry.SetLabels)

	result, ok = s.ResolveCard(ctx, entry.CardInfo, setLabel, groups, cache)
	if !ok {
		return nil, false
	}

	sources := make([]string, 0, len(entry.Sources))
	for name := range entry.Sources {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	result.SourceNames = sources
	result.SourceName = strings.Join(sources, ", ")
	return result, true
}

func firstSetLabel(labels map[string]struct{}) string {
	names := make([]string, 0, len(labels))
	for label := range labels {
		names = append(names, label)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
