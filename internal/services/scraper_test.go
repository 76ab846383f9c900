package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
)

func TestScrapeAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.Write([]byte(`{"status":"ok"}`))
		case "/scrape":
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"source_name":"Wishlist","cards_by_set":{
					"Evolving Skies":[{"name":"Umbreon VMAX","number":"095","url":"/card/umbreon"}]
				}}
			]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	t.Setenv("SCRAPER_SERVICE_URL", server.URL)
	svc := NewScraperService()

	if !svc.IsHealthy() {
		t.Error("expected scraper to report healthy")
	}

	sources := []models.ScrapeSource{{URL: "https://mytcgcollection.com/list/1", Name: "Wishlist"}}
	results := svc.ScrapeAll(context.Background(), sources)
	if len(results) != 1 {
		t.Fatalf("expected 1 source result, got %d", len(results))
	}
	if results[0].SourceName != "Wishlist" {
		t.Errorf("SourceName = %q", results[0].SourceName)
	}
	cards := results[0].CardsBySet["Evolving Skies"]
	if len(cards) != 1 || cards[0].Name != "Umbreon VMAX" {
		t.Errorf("unexpected cards: %+v", results[0].CardsBySet)
	}
}

func TestScrapeAllFailureDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "browser crashed", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	t.Setenv("SCRAPER_SERVICE_URL", server.URL)
	svc := NewScraperService()

	sources := []models.ScrapeSource{
		{URL: "https://mytcgcollection.com/list/1", Name: "Wishlist"},
		{URL: "https://mytcgcollection.com/list/2"},
	}
	results := svc.ScrapeAll(context.Background(), sources)
	if len(results) != 2 {
		t.Fatalf("expected per-source empty results, got %d", len(results))
	}
	if results[1].SourceName != "Unknown Source" {
		t.Errorf("unnamed source = %q, want Unknown Source", results[1].SourceName)
	}
	for _, r := range results {
		if len(r.CardsBySet) != 0 {
			t.Errorf("expected no cards for %s", r.SourceName)
		}
	}
}
