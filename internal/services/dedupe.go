package services

import (
	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
)

// DedupeKey identifies the same logical card across scraped sources:
// normalized number plus normalized name.
func DedupeKey(card models.CardObservation) string {
	return NormalizeNumber(card.Number) + "|" + NormalizeText(card.Name)
}

// DedupeCards merges card observations from every scraped source into one
// entry per logical card, collecting the union of set labels and source
// names that observed it. The first observation seen becomes the
// representative; later duplicates only extend the label/source sets.
func DedupeCards(scrapeResults []models.SourceCards) map[string]*models.DedupedCard {
	deduped := make(map[string]*models.DedupedCard)
	for _, source := range scrapeResults {
		for setLabel, cards := range source.CardsBySet {
			for _, card := range cards {
				key := DedupeKey(card)
				entry, ok := deduped[key]
				if !ok {
					entry = &models.DedupedCard{
						CardInfo:  card,
						SetLabels: make(map[string]struct{}),
						Sources:   make(map[string]struct{}),
					}
					deduped[key] = entry
				}
				entry.SetLabels[setLabel] = struct{}{}
				entry.Sources[source.SourceName] = struct{}{}
			}
		}
	}
	return deduped
}

// countObservations totals the raw card observations across all sources.
func countObservations(scrapeResults []models.SourceCards) int {
	total := 0
	for _, source := range scrapeResults {
		for _, cards := range source.CardsBySet {
			total += len(cards)
		}
	}
	return total
}
