package models

import "time"

// CacheEntry is one cached catalog API response, stored as the raw JSON
// payload keyed by endpoint ("groups" or "products_<groupId>"). Entries
// older than the catalog TTL are treated as absent.
type CacheEntry struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Payload   []byte    `json:"-"`
	FetchedAt time.Time `json:"fetched_at" gorm:"index"`
}
