package services

import (
	"testing"

	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
)

func TestDedupeKey(t *testing.T) {
	a := models.CardObservation{Name: "Pokémon Center Lady", Number: "093"}
	b := models.CardObservation{Name: "Pokemon Center Lady!", Number: "93/100"}
	if DedupeKey(a) != DedupeKey(b) {
		t.Errorf("keys differ: %q vs %q", DedupeKey(a), DedupeKey(b))
	}

	c := models.CardObservation{Name: "Pikachu", Number: "25"}
	if DedupeKey(a) == DedupeKey(c) {
		t.Error("different cards must not share a key")
	}
}

func TestDedupeCardsMergesSourcesAndLabels(t *testing.T) {
	scrapeResults := []models.SourceCards{
		{
			SourceName: "Wishlist",
			CardsBySet: map[string][]models.CardObservation{
				"Sun & Moon": {
					{Name: "Pikachu", Number: "025", URL: "/card/1"},
					{Name: "Mewtwo V", Number: "30", URL: "/card/2"},
				},
			},
		},
		{
			SourceName: "Trade Binder",
			CardsBySet: map[string][]models.CardObservation{
				"SM": {
					{Name: "Pikachu", Number: "25/189", URL: "/card/9"},
				},
			},
		},
	}

	deduped := DedupeCards(scrapeResults)

	if len(deduped) != 2 {
		t.Fatalf("expected 2 unique cards, got %d", len(deduped))
	}

	key := DedupeKey(models.CardObservation{Name: "Pikachu", Number: "25"})
	entry, ok := deduped[key]
	if !ok {
		t.Fatal("merged Pikachu entry missing")
	}
	if len(entry.Sources) != 2 {
		t.Errorf("expected 2 sources, got %v", entry.Sources)
	}
	if _, ok := entry.Sources["Wishlist"]; !ok {
		t.Error("missing Wishlist source")
	}
	if _, ok := entry.Sources["Trade Binder"]; !ok {
		t.Error("missing Trade Binder source")
	}
	if len(entry.SetLabels) != 2 {
		t.Errorf("expected 2 set labels, got %v", entry.SetLabels)
	}
	// Representative is the first observation seen.
	if entry.CardInfo.URL != "/card/1" {
		t.Errorf("representative URL = %q, want /card/1", entry.CardInfo.URL)
	}

	if total := countObservations(scrapeResults); total != 3 {
		t.Errorf("countObservations = %d, want 3", total)
	}
}
