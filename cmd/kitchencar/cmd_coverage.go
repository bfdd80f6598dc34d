package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"kitchencar/internal/pipeline"
)

var coverageFlags struct {
	dataDir string
}

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Print the persisted per-venue coverage stats",
	Long: `Read schedule.json and print its data-quality block: for each venue,
how many of the window's weekdays have at least one scheduled truck. This is
a read-only convenience view of the last run's output.`,
	Args: cobra.NoArgs,
	RunE: runCoverage,
}

func init() {
	coverageCmd.Flags().StringVar(&coverageFlags.dataDir, "data", "", "Artifact directory (default: $KITCHENCAR_DATA_DIR or ./data)")
}

func runCoverage(cmd *cobra.Command, args []string) error {
	dataDir := coverageFlags.dataDir
	if dataDir == "" {
		dataDir = os.Getenv("KITCHENCAR_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = "data"
	}

	path := filepath.Join(dataDir, "schedule.json")
	sched := pipeline.LoadSchedule(path)
	if sched == nil {
		return fmt.Errorf("no readable schedule at %s, run the pipeline first", path)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "week %s .. %s (updated %s)\n", sched.WeekStart, sched.WeekEnd, sched.LastUpdated)

	venues := make([]string, 0, len(sched.DataQuality))
	for vid := range sched.DataQuality {
		venues = append(venues, vid)
	}
	sort.Strings(venues)

	for _, vid := range venues {
		cov := sched.DataQuality[vid]
		fmt.Fprintf(out, "%-20s %d weekdays covered, %d entries", vid, cov.CoveredWeekdays, cov.TotalEntries)
		if len(cov.EmptyWeekdays) > 0 {
			fmt.Fprintf(out, ", empty: %s", strings.Join(cov.EmptyWeekdays, " "))
		}
		fmt.Fprintln(out)
	}

	for _, r := range sched.SourceRuns {
		if r.Status != "ok" {
			fmt.Fprintf(out, "source %s failed: %s\n", r.VenueID, r.Error)
		}
	}
	return nil
}
