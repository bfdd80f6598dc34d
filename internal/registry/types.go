// Package registry holds the master data for venues and food trucks and the
// matching logic that resolves scraped vendor names against it.
package registry

import (
	"strings"

	"kitchencar/internal/nameform"
)

// Venue is a static registry entry for a physical location. Venues are owned
// by configuration; the pipeline never creates or mutates them.
type Venue struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	NameEN    string  `json:"name_en"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Address   string  `json:"address"`
	Hours     string  `json:"hours"`
	SourceURL string  `json:"source_url"`
	Note      string  `json:"note"`
}

// Tokyo-area bounding box for venue coordinate sanity checks.
const (
	latMin = 35.5
	latMax = 36.0
	lngMin = 139.5
	lngMax = 140.0
)

// InBounds reports whether the venue's coordinates fall inside the expected
// Tokyo bounding box.
func (v Venue) InBounds() bool {
	return v.Lat >= latMin && v.Lat <= latMax && v.Lng >= lngMin && v.Lng <= lngMax
}

// Truck is a registry entry for a food-truck vendor. Trucks are created
// either by manual curation or by the pipeline as placeholders on first
// sighting of an unresolvable name. The pipeline only ever mutates a truck to
// backfill a previously unknown cuisine; it never deletes one.
type Truck struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Cuisine          string `json:"cuisine"`
	CuisineLabel     string `json:"cuisine_label"`
	ContactInstagram string `json:"contact_instagram"`
	AcceptsPreorder  bool   `json:"accepts_preorder"`
	URL              string `json:"url"`
}

// NewPlaceholder builds a minimal truck for a vendor name that resolution
// could not match: slug id, trimmed display name, cuisine inferred from the
// name plus whatever detail text the adapter scraped.
func NewPlaceholder(rawName, extraText string) Truck {
	key, label := Classify(rawName, extraText)
	return Truck{
		ID:           nameform.DeriveID(rawName),
		Name:         strings.TrimSpace(rawName),
		Cuisine:      key,
		CuisineLabel: label,
	}
}
