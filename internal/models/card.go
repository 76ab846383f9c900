package models

// ScrapeSource is one list URL submitted by the user, with a display name
// used to annotate which lists a matched card came from.
type ScrapeSource struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// CardObservation is one raw card tuple extracted from a scraped list page.
type CardObservation struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	URL    string `json:"url"` // relative link to the card's page on the list site
}

// SourceCards holds everything scraped from a single list, grouped by the
// set label shown on the page.
type SourceCards struct {
	SourceName string                       `json:"source_name"`
	CardsBySet map[string][]CardObservation `json:"cards_by_set"`
}

// DedupedCard merges observations of the same logical card across sources.
// Identity is (normalized number, normalized name); SetLabels and Sources
// collect every spelling/list that contributed an observation.
type DedupedCard struct {
	CardInfo  CardObservation
	SetLabels map[string]struct{}
	Sources   map[string]struct{}
}

// MatchResult is a successfully resolved card with catalog metadata attached.
// JSON field names match what the frontend already consumes.
type MatchResult struct {
	Name        string   `json:"name"`
	ImageURL    string   `json:"image_url"`
	Rarity      string   `json:"rarity"`
	GroupName   string   `json:"group_name"`
	SetName     string   `json:"set_name"`
	CardURL     string   `json:"card_url"`
	SourceNames []string `json:"source_names,omitempty"`
	SourceName  string   `json:"source_name,omitempty"`
}
