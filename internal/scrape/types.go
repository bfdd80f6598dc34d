// Package scrape defines the contract every venue source adapter implements
// and the date plumbing the adapters share. Adapters turn one venue's pages
// into RawObservations; everything downstream of that is the pipeline's job.
package scrape

import (
	"context"
	"time"
)

// RawObservation is one scraped sighting: this vendor name appears at this
// venue on this date. Ephemeral: consumed immediately by the resolver and
// never persisted.
type RawObservation struct {
	Date         time.Time
	VenueID      string
	TruckNameRaw string
	DetailText   string
}

// Adapter scrapes one venue's pages for the given target dates. A returned
// error means the fetch failed and is worth retrying; an empty result with a
// nil error means the venue currently lists nothing, which is legitimate.
type Adapter interface {
	VenueID() string
	Scrape(ctx context.Context, dates []time.Time) ([]RawObservation, error)
}

// DateKey formats a time as the ISO calendar date used throughout the
// artifacts and for dedup keys.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Window returns n consecutive calendar dates starting at start, truncated
// to midnight in start's location.
func Window(start time.Time, n int) []time.Time {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, day.AddDate(0, 0, i))
	}
	return dates
}

// InWindow reports whether t falls on one of the target dates.
func InWindow(t time.Time, dates []time.Time) bool {
	key := DateKey(t)
	for _, d := range dates {
		if DateKey(d) == key {
			return true
		}
	}
	return false
}

// WeekdayDates returns every target date whose weekday matches wd. Used to
// expand recurring-weekly listings ("every Monday") into concrete dates.
func WeekdayDates(wd time.Weekday, dates []time.Time) []time.Time {
	var out []time.Time
	for _, d := range dates {
		if d.Weekday() == wd {
			out = append(out, d)
		}
	}
	return out
}

// Dedup collapses repeated (date, vendor) sightings from a single source,
// keeping the first occurrence. Detail text from the survivor is preserved.
func Dedup(obs []RawObservation) []RawObservation {
	seen := make(map[string]bool, len(obs))
	var out []RawObservation
	for _, o := range obs {
		key := DateKey(o.Date) + "|" + o.TruckNameRaw
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, o)
	}
	return out
}
