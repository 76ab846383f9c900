package models

// ExtendedData is one name/value pair of product metadata from the catalog
// (card number, rarity, attack text, and so on).
type ExtendedData struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CatalogProduct is a single product (a specific printed card) from the
// TCGPlayer CSV catalog. Read-only once fetched.
type CatalogProduct struct {
	ProductID    int            `json:"productId"`
	Name         string         `json:"name"`
	CleanName    string         `json:"cleanName"`
	ImageURL     string         `json:"imageUrl"`
	GroupID      int            `json:"groupId"`
	URL          string         `json:"url"`
	ExtendedData []ExtendedData `json:"extendedData"`
}

// ExtendedValue returns the value of the named extended attribute, or ""
// if the product does not carry it.
func (p *CatalogProduct) ExtendedValue(name string) string {
	for _, d := range p.ExtendedData {
		if d.Name == name {
			return d.Value
		}
	}
	return ""
}

// CatalogGroup is the catalog's notion of a set: a named collection of
// products with a stable identifier.
type CatalogGroup struct {
	GroupID int    `json:"groupId"`
	Name    string `json:"name"`
}
