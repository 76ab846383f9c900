package services

import (
	"github.com/codyseavey/tcg-listmatch/backend/internal/models"
)

// ProductIndex maps a normalized card number to the catalog products printed
// with that number, in original catalog order. Built once per group and never
// mutated afterwards, so it is safe for concurrent reads.
type ProductIndex map[string][]models.CatalogProduct

// BuildProductsIndex indexes products by the "Number" extended attribute.
// Products without a number are unreachable by number lookup and are skipped.
// Catalog order is preserved per key; the matcher checks earlier products
// first, which is the tie-break when several products share a number.
func BuildProductsIndex(products []models.CatalogProduct) ProductIndex {
	index := make(ProductIndex)
	for _, product := range products {
		num := product.ExtendedValue("Number")
		if num == "" {
			continue
		}
		key := NormalizeNumber(num)
		index[key] = append(index[key], product)
	}
	return index
}
