package registry

import (
	"strings"
	"unicode/utf8"

	"kitchencar/internal/nameform"
)

// minSubstringLen is the rune-length floor for the substring matching tier.
// Shorter names are too ambiguous to substring-match safely.
const minSubstringLen = 4

// Registry is the in-memory truck and venue master data. It is owned by
// exactly one pipeline run at a time: the sequential resolution step mutates
// it in place (appending placeholders, upgrading cuisines) and later
// observations in the same run see earlier insertions. Not safe for
// concurrent use; resolution must never run from more than one goroutine.
type Registry struct {
	LastUpdated string
	Venues      []Venue

	trucks []*Truck
	byID   map[string]*Truck
	dirty  bool
}

// New builds a registry over the given venues and trucks.
func New(venues []Venue, trucks []Truck) *Registry {
	r := &Registry{
		Venues: venues,
		byID:   make(map[string]*Truck, len(trucks)),
	}
	for i := range trucks {
		t := trucks[i]
		r.trucks = append(r.trucks, &t)
		r.byID[t.ID] = &t
	}
	return r
}

// Trucks returns the trucks in insertion order.
func (r *Registry) Trucks() []*Truck {
	return r.trucks
}

// TruckByID returns the truck with the given id, or nil.
func (r *Registry) TruckByID(id string) *Truck {
	return r.byID[id]
}

// Len returns the number of registered trucks.
func (r *Registry) Len() int {
	return len(r.trucks)
}

// Add appends a new truck and returns the stored entry. The caller must have
// checked for id collisions first (Resolve plus TruckByID covers this).
func (r *Registry) Add(t Truck) *Truck {
	stored := &t
	r.trucks = append(r.trucks, stored)
	r.byID[t.ID] = stored
	r.dirty = true
	return stored
}

// Dirty reports whether the registry changed this run (trucks added or
// cuisines upgraded) and therefore needs persisting.
func (r *Registry) Dirty() bool {
	return r.dirty
}

// Resolve matches a raw scraped vendor name to a registered truck. Tiers are
// tried in strict order, first match wins:
//
//  1. alias table, a manual variant-to-id mapping that corrects names the
//     automatic tiers would mismatch or miss
//  2. exact normalized name equality
//  3. substring containment of the shorter normalized name in the longer,
//     gated by minSubstringLen
//  4. derived-slug equality against registered ids
//
// Returns nil when no tier matches; the caller treats that as a new vendor.
func (r *Registry) Resolve(rawName string) *Truck {
	normalized := nameform.Normalize(rawName)
	if normalized == "" {
		return nil
	}

	if id, ok := aliasID(normalized); ok {
		if t := r.byID[id]; t != nil {
			return t
		}
	}

	for _, t := range r.trucks {
		if nameform.Normalize(t.Name) == normalized {
			return t
		}
	}

	for _, t := range r.trucks {
		if substringMatch(normalized, nameform.Normalize(t.Name)) {
			return t
		}
	}

	if t := r.byID[nameform.DeriveID(rawName)]; t != nil {
		return t
	}

	return nil
}

// UpgradeCuisine re-classifies a truck whose cuisine is still unknown using
// newly scraped detail text. Reports whether the cuisine changed.
func (r *Registry) UpgradeCuisine(t *Truck, extraText string) bool {
	if t.Cuisine != UnknownCuisine || extraText == "" {
		return false
	}
	key, label := Classify(t.Name, extraText)
	if key == UnknownCuisine {
		return false
	}
	t.Cuisine = key
	t.CuisineLabel = label
	r.dirty = true
	return true
}

func substringMatch(a, b string) bool {
	short, long := a, b
	if utf8.RuneCountInString(short) > utf8.RuneCountInString(long) {
		short, long = long, short
	}
	if utf8.RuneCountInString(short) < minSubstringLen {
		return false
	}
	return strings.Contains(long, short)
}
