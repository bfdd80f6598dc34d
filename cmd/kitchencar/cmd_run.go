package main

import (
	"os"

	"github.com/spf13/cobra"

	"kitchencar/internal/logging"
	"kitchencar/internal/pipeline"
	"kitchencar/internal/scrape"
)

var runFlags struct {
	venuesPath string
	dataDir    string
	days       int
	logLevel   string
	logFormat  string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape all venues and rewrite the schedule artifacts",
	Long: `Run one full pipeline pass: scrape every configured venue, resolve
vendor names against the truck registry, merge with the carried-over prior
schedule, and persist registry.json and schedule.json.

The data directory defaults to $KITCHENCAR_DATA_DIR, then ./data.
Exits non-zero when every source failed, leaving the artifacts untouched.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.venuesPath, "venues", "venues.yaml", "Venue configuration file")
	f.StringVar(&runFlags.dataDir, "data", "", "Artifact directory (default: $KITCHENCAR_DATA_DIR or ./data)")
	f.IntVar(&runFlags.days, "days", 7, "Target window length in days, today inclusive")
	f.StringVar(&runFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $KITCHENCAR_LOG_LEVEL or info)")
	f.StringVar(&runFlags.logFormat, "log-format", "text", "Log format: text or json")
}

func runRun(cmd *cobra.Command, args []string) error {
	level := runFlags.logLevel
	if level == "" {
		level = os.Getenv("KITCHENCAR_LOG_LEVEL")
	}
	logging.Init(logging.ParseLevel(level), runFlags.logFormat)

	dataDir := runFlags.dataDir
	if dataDir == "" {
		dataDir = os.Getenv("KITCHENCAR_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	cfg, err := scrape.LoadConfig(runFlags.venuesPath)
	if err != nil {
		return err
	}

	_, err = pipeline.Run(cmd.Context(), pipeline.Options{
		Venues:  cfg.Venues,
		DataDir: dataDir,
		Days:    runFlags.days,
	})
	return err
}
