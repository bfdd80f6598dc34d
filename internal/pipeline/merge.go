package pipeline

import (
	"sort"
	"time"

	"kitchencar/internal/scrape"
)

// carryOver filters prior entries to those inside the new target window.
// Entries dated before the window's first date stay dropped; the pipeline
// never resurrects the past. ISO date strings compare lexicographically.
func carryOver(prior *Schedule, weekStart, weekEnd string) []ScheduleEntry {
	if prior == nil {
		return nil
	}
	var kept []ScheduleEntry
	for _, e := range prior.Entries {
		if e.Date >= weekStart && e.Date <= weekEnd {
			kept = append(kept, e)
		}
	}
	return kept
}

// mergeEntries concatenates carried-over and freshly resolved entries and
// collapses duplicates on the (date, venue, truck) key, first occurrence
// winning. The result is sorted so that repeat runs over unchanged sources
// produce byte-identical artifacts.
func mergeEntries(carried, fresh []ScheduleEntry) []ScheduleEntry {
	seen := make(map[string]bool, len(carried)+len(fresh))
	merged := make([]ScheduleEntry, 0, len(carried)+len(fresh))
	for _, e := range append(append([]ScheduleEntry{}, carried...), fresh...) {
		if seen[e.key()] {
			continue
		}
		seen[e.key()] = true
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.VenueID != b.VenueID {
			return a.VenueID < b.VenueID
		}
		return a.TruckID < b.TruckID
	})
	return merged
}

// coverage computes the per-venue data-quality stats over the window's
// weekdays (Mon-Fri).
func coverage(entries []ScheduleEntry, venueIDs []string, window []time.Time) map[string]VenueCoverage {
	byVenueDate := make(map[string]map[string]int)
	totals := make(map[string]int)
	for _, e := range entries {
		if byVenueDate[e.VenueID] == nil {
			byVenueDate[e.VenueID] = make(map[string]int)
		}
		byVenueDate[e.VenueID][e.Date]++
		totals[e.VenueID]++
	}

	out := make(map[string]VenueCoverage, len(venueIDs))
	for _, vid := range venueIDs {
		var cov VenueCoverage
		for _, d := range window {
			wd := d.Weekday()
			if wd == time.Saturday || wd == time.Sunday {
				continue
			}
			if byVenueDate[vid][scrape.DateKey(d)] > 0 {
				cov.CoveredWeekdays++
			} else {
				cov.EmptyWeekdays = append(cov.EmptyWeekdays, scrape.DateKey(d))
			}
		}
		cov.TotalEntries = totals[vid]
		out[vid] = cov
	}
	return out
}
