package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"kitchencar/internal/logging"
)

// artifact is the on-disk shape of the registry JSON consumed by the display
// front end and the validation checker.
type artifact struct {
	LastUpdated string  `json:"last_updated"`
	Venues      []Venue `json:"venues"`
	Trucks      []Truck `json:"trucks"`
}

// Load reads the registry artifact at path. A missing or unreadable file is
// not an error: the pipeline favors producing fresh data over preserving an
// unreadable prior state, so corruption degrades to an empty registry with a
// warning.
func Load(path string) *Registry {
	logger := logging.New("registry")

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("registry unreadable, starting empty", "path", path, "error", err)
		}
		return New(nil, nil)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		logger.Warn("registry corrupt, starting empty", "path", path, "error", err)
		return New(nil, nil)
	}

	r := New(art.Venues, art.Trucks)
	r.LastUpdated = art.LastUpdated
	return r
}

// Save writes the registry artifact to path. LastUpdated is stamped with the
// given time's calendar date.
func (r *Registry) Save(path string, now time.Time) error {
	venues := r.Venues
	if venues == nil {
		venues = []Venue{}
	}
	art := artifact{
		LastUpdated: now.Format("2006-01-02"),
		Venues:      venues,
		Trucks:      make([]Truck, 0, len(r.trucks)),
	}
	for _, t := range r.trucks {
		art.Trucks = append(art.Trucks, *t)
	}

	raw, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}
