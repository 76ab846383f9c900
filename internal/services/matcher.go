package services

import (
	"strings"

	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
)

// MatchCardToProduct finds the catalog product for a scraped card within one
// group's product index. Candidates are the products sharing the card's
// normalized number; for each, the product's CleanName is tried before its
// Name. A candidate name is accepted when its suffix-tag set equals the
// card's exactly and the normalized names contain one another in either
// direction. The first satisfying candidate wins; there is no scoring.
func MatchCardToProduct(card models.CardObservation, index ProductIndex) (*models.CatalogProduct, bool) {
	normNum := NormalizeNumber(card.Number)
	normName := NormalizeText(card.Name)
	cardSuffixes := ExtractCardSuffixes(card.Name)

	for i := range index[normNum] {
		product := &index[normNum][i]
		for _, pname := range []string{product.CleanName, product.Name} {
			if pname == "" {
				continue
			}
			if !suffixSetsEqual(ExtractCardSuffixes(pname), cardSuffixes) {
				continue
			}
			pnorm := NormalizeText(pname)
			if strings.Contains(pnorm, normName) || strings.Contains(normName, pnorm) {
				return product, true
			}
		}
	}
	return nil, false
}
