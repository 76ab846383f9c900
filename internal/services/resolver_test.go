package services

import (
	"context"
	"sync"
	"testing"

	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
)

// fakeCatalog serves canned groups/products and counts product fetches.
type fakeCatalog struct {
	groups   map[string]int
	products map[int][]models.CatalogProduct

	mu           sync.Mutex
	productCalls map[int]int
}

func newFakeCatalog(groups map[string]int, products map[int][]models.CatalogProduct) *fakeCatalog {
	return &fakeCatalog{
		groups:       groups,
		products:     products,
		productCalls: make(map[int]int),
	}
}

func (f *fakeCatalog) GetGroups(ctx context.Context) map[string]int {
	return f.groups
}

func (f *fakeCatalog) GetProducts(ctx context.Context, groupID int) []models.CatalogProduct {
	f.mu.Lock()
	f.productCalls[groupID]++
	f.mu.Unlock()
	return f.products[groupID]
}

func (f *fakeCatalog) calls(groupID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productCalls[groupID]
}

func TestResolveCardDirectMatch(t *testing.T) {
	catalog := newFakeCatalog(
		map[string]int{"Evolving Skies": 2848},
		map[int][]models.CatalogProduct{
			2848: {catalogProduct("Umbreon VMAX", "Umbreon VMAX", "95/203", "Secret Rare")},
		},
	)
	svc := NewResolverService(catalog)

	card := models.CardObservation{Name: "Umbreon VMAX", Number: "095", URL: "/card/umbreon"}
	result, ok := svc.ResolveCard(context.Background(), card, "Evolving Skies", catalog.groups, NewProductsCache())
	if !ok {
		t.Fatal("expected a match")
	}
	if result.Name != "Umbreon VMAX" {
		t.Errorf("Name = %q", result.Name)
	}
	if result.Rarity != "Secret Rare" {
		t.Errorf("Rarity = %q", result.Rarity)
	}
	if result.GroupName != "Evolving Skies" {
		t.Errorf("GroupName = %q", result.GroupName)
	}
	if result.SetName != "Evolving Skies" {
		t.Errorf("SetName = %q", result.SetName)
	}
	if result.CardURL != "https://mytcgcollection.com/card/umbreon" {
		t.Errorf("CardURL = %q", result.CardURL)
	}
}

func TestResolveCardNoURL(t *testing.T) {
	catalog := newFakeCatalog(
		map[string]int{"Evolving Skies": 2848},
		map[int][]models.CatalogProduct{
			2848: {catalogProduct("Umbreon VMAX", "Umbreon VMAX", "95", "Secret Rare")},
		},
	)
	svc := NewResolverService(catalog)

	card := models.CardObservation{Name: "Umbreon VMAX", Number: "95"}
	result, ok := svc.ResolveCard(context.Background(), card, "Evolving Skies", catalog.groups, NewProductsCache())
	if !ok {
		t.Fatal("expected a match")
	}
	if result.CardURL != "" {
		t.Errorf("CardURL = %q, want empty for a card without a link", result.CardURL)
	}
}

func TestResolveCardPromoFallback(t *testing.T) {
	catalog := newFakeCatalog(
		map[string]int{
			"SWSH: Sword & Shield Promo Cards": 2545,
			"SM Promos":                        1418,
			"Evolving Skies":                   2848,
		},
		map[int][]models.CatalogProduct{
			2545: {catalogProduct("Zacian V", "Zacian V", "SWSH018", "Promo")},
		},
	)
	svc := NewResolverService(catalog)

	// The label resolves to no group but smells like a promo set.
	card := models.CardObservation{Name: "Zacian V", Number: "SWSH018"}
	result, ok := svc.ResolveCard(context.Background(), card, "Collected Promo Cards", catalog.groups, NewProductsCache())
	if !ok {
		t.Fatal("expected promo fallback to find the card")
	}
	if result.GroupName != "SWSH: Sword & Shield Promo Cards" {
		t.Errorf("GroupName = %q", result.GroupName)
	}
	if result.SetName != "Collected Promo Cards" {
		t.Errorf("SetName = %q, want the original label", result.SetName)
	}
}

func TestResolveCardRelatedGroupFallback(t *testing.T) {
	// The label resolves to the main set, but the card lives in the sibling
	// gallery group whose name contains the label.
	catalog := newFakeCatalog(
		map[string]int{
			"Crown Zenith":                   3170,
			"Crown Zenith: Galarian Gallery": 3171,
		},
		map[int][]models.CatalogProduct{
			3170: {catalogProduct("Pikachu", "Pikachu", "65/159", "Common")},
			3171: {catalogProduct("Radiant Eternatus", "Radiant Eternatus", "GG42/GG70", "Galarian Gallery")},
		},
	)
	svc := NewResolverService(catalog)

	card := models.CardObservation{Name: "Radiant Eternatus", Number: "GG42"}
	result, ok := svc.ResolveCard(context.Background(), card, "Crown Zenith", catalog.groups, NewProductsCache())
	if !ok {
		t.Fatal("expected related-group fallback to find the card")
	}
	if result.GroupName != "Crown Zenith: Galarian Gallery" {
		t.Errorf("GroupName = %q", result.GroupName)
	}
}

func TestResolveCardNoMatch(t *testing.T) {
	catalog := newFakeCatalog(
		map[string]int{"Evolving Skies": 2848},
		map[int][]models.CatalogProduct{},
	)
	svc := NewResolverService(catalog)

	card := models.CardObservation{Name: "Missingno", Number: "0"}
	if _, ok := svc.ResolveCard(context.Background(), card, "Not A Real Set", catalog.groups, NewProductsCache()); ok {
		t.Error("expected no match")
	}
}

func TestEnsureIndexFetchesOncePerGroup(t *testing.T) {
	catalog := newFakeCatalog(
		map[string]int{"Evolving Skies": 2848},
		map[int][]models.CatalogProduct{
			2848: {catalogProduct("Umbreon VMAX", "Umbreon VMAX", "95", "Secret Rare")},
		},
	)
	svc := NewResolverService(catalog)
	cache := NewProductsCache()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			index := svc.ensureIndex(context.Background(), 2848, cache)
			if index == nil {
				t.Error("expected an index")
			}
		}()
	}
	wg.Wait()

	if calls := catalog.calls(2848); calls != 1 {
		t.Errorf("GetProducts called %d times, want 1", calls)
	}
}

func TestEnsureIndexEmptyGroup(t *testing.T) {
	catalog := newFakeCatalog(map[string]int{}, map[int][]models.CatalogProduct{})
	svc := NewResolverService(catalog)
	cache := NewProductsCache()

	if index := svc.ensureIndex(context.Background(), 42, cache); index != nil {
		t.Error("expected nil index for a group with no products")
	}
	// The empty fetch result is still cached; no refetch on retry.
	svc.ensureIndex(context.Background(), 42, cache)
	if calls := catalog.calls(42); calls != 1 {
		t.Errorf("GetProducts called %d times, want 1", calls)
	}
}
