package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/codyseavey/tcg-listmatch/backend/internal/metrics"
	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
)

// listSiteOrigin prefixes the relative card links the scraper extracts.
const listSiteOrigin = "https://mytcgcollection.com"

// indexCacheSize bounds the process-wide product index cache. Each index
// covers one group; a few hundred groups is the whole Pokemon catalog.
const indexCacheSize = 256

// CatalogClient is the catalog collaborator the resolver consumes. Both
// operations degrade to empty results on failure.
type CatalogClient interface {
	GetGroups(ctx context.Context) map[string]int
	GetProducts(ctx context.Context, groupID int) []models.CatalogProduct
}

// ProductsCache is the per-batch groupId -> products table. The lock guards
// the read-check-fetch-write sequence; entries are never mutated once
// written, so callers may read returned slices without holding it.
type ProductsCache struct {
	mu       sync.Mutex
	products map[int][]models.CatalogProduct
}

func NewProductsCache() *ProductsCache {
	return &ProductsCache{products: make(map[int][]models.CatalogProduct)}
}

// ResolverService runs the per-card resolution state machine: set label to
// group id, group products to index, index to matched product. The index
// cache is process-wide; the products cache is injected per batch.
type ResolverService struct {
	catalog    CatalogClient
	indexCache *lru.Cache[int, ProductIndex]
}

func NewResolverService(catalog CatalogClient) *ResolverService {
	indexCache, err := lru.New[int, ProductIndex](indexCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &ResolverService{
		catalog:    catalog,
		indexCache: indexCache,
	}
}

// ResolveCard resolves one scraped card against the catalog. A failed
// resolution is an expected outcome, reported as (nil, false) and logged,
// never as an error.
func (s *ResolverService) ResolveCard(ctx context.Context, card models.CardObservation, setLabel string, groups map[string]int, cache *ProductsCache) (*models.MatchResult, bool) {
	start := time.Now()
	defer func() {
		metrics.CardResolutionDuration.Observe(time.Since(start).Seconds())
	}()

	setLabel = FixSetName(setLabel)
	groupID, resolved := FindGroupID(setLabel, groups)

	// Promo labels that resolve to nothing get a broadened scan over every
	// promo group before anything else.
	if !resolved && strings.Contains(strings.ToLower(setLabel), "promo") {
		for _, promoName := range PromoGroups(groups) {
			index := s.ensureIndex(ctx, groups[promoName], cache)
			if product, ok := MatchCardToProduct(card, index); ok {
				metrics.CardResolutionsTotal.WithLabelValues("matched").Inc()
				return buildResult(product, promoName, setLabel, card), true
			}
		}
	}

	var product *models.CatalogProduct
	matchedGroupName := ""

	if resolved {
		index := s.ensureIndex(ctx, groupID, cache)
		if p, ok := MatchCardToProduct(card, index); ok {
			product = p
			matchedGroupName = groupNameByID(groups, groupID)
		}
	}

	// Fallback: related and subset groups whose name contains one of the
	// label's search variants.
	if product == nil {
		variants := SearchVariants(setLabel)
		for _, groupName := range sortedGroupNames(groups) {
			gid := groups[groupName]
			if resolved && gid == groupID {
				continue
			}
			if !containsAnyVariant(groupName, variants) {
				continue
			}
			index := s.ensureIndex(ctx, gid, cache)
			if p, ok := MatchCardToProduct(card, index); ok {
				product = p
				matchedGroupName = groupName
				break
			}
		}
	}

	if product == nil {
		if resolved {
			metrics.CardResolutionsTotal.WithLabelValues("no_product").Inc()
			log.Printf("[Resolver] no product match for %s #%s in %s", card.Name, card.Number, setLabel)
		} else {
			metrics.CardResolutionsTotal.WithLabelValues("no_group").Inc()
			log.Printf("[Resolver] no group found for set: %s", setLabel)
		}
		return nil, false
	}

	metrics.CardResolutionsTotal.WithLabelValues("matched").Inc()
	if matchedGroupName == "" {
		matchedGroupName = setLabel
	}
	return buildResult(product, matchedGroupName, setLabel, card), true
}

// ensureIndex returns the product index for a group, fetching and caching
// the group's products on first use. The cache lock only covers the
// read-check-fetch-write sequence; index construction is a pure function of
// the cached products and runs outside it. A racing duplicate build wastes
// work but stays correct, since indexes are immutable once stored.
func (s *ResolverService) ensureIndex(ctx context.Context, groupID int, cache *ProductsCache) ProductIndex {
	if index, ok := s.indexCache.Get(groupID); ok {
		return index
	}

	cache.mu.Lock()
	products, ok := cache.products[groupID]
	if !ok {
		products = s.catalog.GetProducts(ctx, groupID)
		cache.products[groupID] = products
	}
	cache.mu.Unlock()

	if len(products) == 0 {
		return nil
	}

	index := BuildProductsIndex(products)
	metrics.ProductIndexBuilds.Inc()
	s.indexCache.Add(groupID, index)
	return index
}

func buildResult(product *models.CatalogProduct, groupName, setLabel string, card models.CardObservation) *models.MatchResult {
	cardURL := ""
	if card.URL != "" {
		cardURL = listSiteOrigin + card.URL
	}
	return &models.MatchResult{
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		Rarity:    product.ExtendedValue("Rarity"),
		GroupName: groupName,
		SetName:   setLabel,
		CardURL:   cardURL,
	}
}

// groupNameByID reverses the groups table for result annotation. Ties are
// impossible in practice (ids are unique) but scan order is fixed anyway.
func groupNameByID(groups map[string]int, groupID int) string {
	names := sortedGroupNames(groups)
	for _, name := range names {
		if groups[name] == groupID {
			return name
		}
	}
	return ""
}

func containsAnyVariant(groupName string, variants []string) bool {
	gl := strings.ToLower(groupName)
	for _, v := range variants {
		if v != "" && strings.Contains(gl, v) {
			return true
		}
	}
	return false
}
