package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"kitchencar/internal/logging"
)

// ScheduleEntry says one truck is present at one venue on one calendar date.
// The (date, venue_id, truck_id) triple is unique within a schedule.
type ScheduleEntry struct {
	Date    string `json:"date"`
	VenueID string `json:"venue_id"`
	TruckID string `json:"truck_id"`
}

func (e ScheduleEntry) key() string {
	return e.Date + "|" + e.VenueID + "|" + e.TruckID
}

// SourceRun records one adapter's execution for observability and for the
// all-sources-failed abort condition.
type SourceRun struct {
	VenueID      string `json:"venue_id"`
	Status       string `json:"status"` // "ok" or "error"
	EntriesCount int    `json:"entries_count"`
	Error        string `json:"error,omitempty"`
}

// VenueCoverage is the per-venue data-quality block: how many of the
// window's weekdays (Mon-Fri) have at least one entry, and which have none.
type VenueCoverage struct {
	CoveredWeekdays int      `json:"covered_weekdays"`
	EmptyWeekdays   []string `json:"empty_weekdays"`
	TotalEntries    int      `json:"total_entries"`
}

// Schedule is the persisted schedule artifact. It is read at pipeline start
// to seed carry-over and fully rewritten at pipeline end.
type Schedule struct {
	LastUpdated string                   `json:"last_updated"`
	WeekStart   string                   `json:"week_start"`
	WeekEnd     string                   `json:"week_end"`
	SourceRuns  []SourceRun              `json:"source_runs"`
	DataQuality map[string]VenueCoverage `json:"data_quality"`
	Entries     []ScheduleEntry          `json:"schedule"`
}

// LoadSchedule reads the prior schedule artifact. Missing or corrupt files
// degrade to "no prior data" with a warning; fresh data beats an unreadable
// prior state.
func LoadSchedule(path string) *Schedule {
	logger := logging.New("pipeline")

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("prior schedule unreadable, no carry-over", "path", path, "error", err)
		}
		return nil
	}
	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn("prior schedule corrupt, no carry-over", "path", path, "error", err)
		return nil
	}
	return &s
}

// Save writes the schedule artifact, stamping LastUpdated. Consumers expect
// arrays, so nil slices are written as empty ones.
func (s *Schedule) Save(path string, now time.Time) error {
	s.LastUpdated = now.UTC().Format(time.RFC3339)
	if s.SourceRuns == nil {
		s.SourceRuns = []SourceRun{}
	}
	if s.Entries == nil {
		s.Entries = []ScheduleEntry{}
	}
	if s.DataQuality == nil {
		s.DataQuality = map[string]VenueCoverage{}
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	return nil
}
