// Package destinations serves the curated catalog of Moroccan cities shown
// on the landing page: the Leaflet map markers and the destination cards.
// The catalog lives in MariaDB and is seeded by migrations.
package destinations

// Destination is one catalog entry. Lat/Lng position the map marker;
// Tagline is the card byline and Description the marker popup.
type Destination struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Tagline     string  `json:"tagline"`
	Description string  `json:"description"`
	SortOrder   int     `json:"-"`
}
