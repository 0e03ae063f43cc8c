package store

import "time"

// Store is one physical liquor store, upserted by its OLCC store
// number (Key) across re-imports.
type Store struct {
	ID         int64     `json:"id"`
	Key        int       `json:"key"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	AddressRaw string    `json:"address_raw"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	County     string    `json:"county"`
	Phone      string    `json:"phone"`
	HoursRaw   string    `json:"hours"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}
