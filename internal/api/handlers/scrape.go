package handlers

import (
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codyseavey/tcg-listmatch/backend/internal/metrics"
	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
	"github.com/codyseavey/tcg-listmatch/backend/internal/services"
)

const listSitePrefix = "https://mytcgcollection.com/"

type ScrapeHandler struct {
	scraperService  *services.ScraperService
	tcgcsvService   *services.TCGCSVService
	resolverService *services.ResolverService
}

func NewScrapeHandler(scraper *services.ScraperService, tcgcsv *services.TCGCSVService, resolver *services.ResolverService) *ScrapeHandler {
	return &ScrapeHandler{
		scraperService:  scraper,
		tcgcsvService:   tcgcsv,
		resolverService: resolver,
	}
}

type scrapeListsRequest struct {
	Sources []models.ScrapeSource `json:"sources"`
	// Legacy single-URL format
	URL string `json:"url"`
}

type scrapeListsResponse struct {
	Success bool                 `json:"success"`
	Cards   []models.MatchResult `json:"cards"`
	Total   int                  `json:"total"`
	Matched int                  `json:"matched"`
}

// ScrapeLists scrapes one or more collection list pages and matches every
// extracted card against the TCGPlayer catalog.
func (h *ScrapeHandler) ScrapeLists(c *gin.Context) {
	var req scrapeListsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sources := req.Sources
	if len(sources) == 0 && req.URL != "" {
		sources = []models.ScrapeSource{{URL: req.URL, Name: "List 1"}}
	}
	if len(sources) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one URL is required"})
		return
	}
	for _, src := range sources {
		if src.URL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each source must have a URL"})
			return
		}
		if !strings.HasPrefix(src.URL, listSitePrefix) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL: " + src.URL + ". Must be a mytcgcollection.com list URL"})
			return
		}
	}

	requestID := uuid.New().String()[:8]
	metrics.ScrapeRequestsTotal.Inc()
	log.Printf("[Scrape %s] processing %d source list(s)", requestID, len(sources))

	groups := h.tcgcsvService.GetGroups(c.Request.Context())
	if len(groups) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch TCGPlayer groups"})
		return
	}

	scrapeResults := h.scraperService.ScrapeAll(c.Request.Context(), sources)
	for _, sr := range scrapeResults {
		if len(sr.CardsBySet) == 0 {
			log.Printf("[Scrape %s] no cards found for %s", requestID, sr.SourceName)
		}
	}

	results := h.resolverService.ProcessCards(c.Request.Context(), scrapeResults, groups)

	// Workers finish in arbitrary order; give the client a stable order.
	sort.Slice(results, func(i, j int) bool {
		if results[i].SourceName != results[j].SourceName {
			return results[i].SourceName < results[j].SourceName
		}
		return results[i].Name < results[j].Name
	})

	log.Printf("[Scrape %s] completed: %d cards matched from %d list(s)", requestID, len(results), len(sources))

	c.JSON(http.StatusOK, scrapeListsResponse{
		Success: true,
		Cards:   results,
		Total:   len(results),
		Matched: len(results),
	})
}
