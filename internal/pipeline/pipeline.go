// Package pipeline is the orchestrator: it runs every venue adapter
// concurrently, resolves the scraped observations against the truck
// registry, merges with the carried-over prior schedule, and persists the
// registry and schedule artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"kitchencar/adapters"
	"kitchencar/internal/logging"
	"kitchencar/internal/registry"
	"kitchencar/internal/scrape"
)

// ErrAllSourcesFailed is returned when every configured source ended in
// error. The pipeline refuses to publish in that state: overwriting good
// historical data with an empty schedule is worse than publishing nothing.
var ErrAllSourcesFailed = errors.New("all sources failed, refusing to publish")

// Options configures one pipeline run.
type Options struct {
	Venues  []scrape.VenueConfig
	DataDir string
	Days    int // window length, today inclusive

	// NewAdapter overrides adapter construction; tests inject fetchers
	// through it. Defaults to adapters.New.
	NewAdapter func(scrape.VenueConfig) (scrape.Adapter, error)
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time

	MaxAttempts int
	RetryBase   time.Duration
}

func (o *Options) withDefaults() {
	if o.Days <= 0 {
		o.Days = 7
	}
	if o.NewAdapter == nil {
		o.NewAdapter = adapters.New
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
}

// sourceResult carries one adapter's outcome across the join; errors live in
// the run record, never in the errgroup.
type sourceResult struct {
	run SourceRun
	obs []scrape.RawObservation
}

// Run executes one full scrape-resolve-merge pass and persists the
// artifacts. See ErrAllSourcesFailed for the only fatal condition.
func Run(ctx context.Context, opts Options) (*Schedule, error) {
	opts.withDefaults()
	logger := logging.New("pipeline")

	now := opts.Now()
	window := scrape.Window(now, opts.Days)
	weekStart := scrape.DateKey(window[0])
	weekEnd := scrape.DateKey(window[len(window)-1])

	registryPath := filepath.Join(opts.DataDir, "registry.json")
	schedulePath := filepath.Join(opts.DataDir, "schedule.json")

	reg := registry.Load(registryPath)
	carried := carryOver(LoadSchedule(schedulePath), weekStart, weekEnd)
	logger.Info("run started",
		"week_start", weekStart, "week_end", weekEnd,
		"venues", len(opts.Venues), "trucks", reg.Len(), "carried", len(carried))

	// Dispatch every adapter concurrently; collect individually. One
	// venue's failure never cancels or blocks the others.
	results := make([]sourceResult, len(opts.Venues))
	g, gctx := errgroup.WithContext(ctx)
	for i, vcfg := range opts.Venues {
		g.Go(func() error {
			results[i] = scrapeSource(gctx, vcfg, window, opts)
			return nil
		})
	}
	_ = g.Wait() // errors captured in results

	failures := 0
	var runs []SourceRun
	var observations []scrape.RawObservation
	for _, res := range results {
		runs = append(runs, res.run)
		observations = append(observations, res.obs...)
		if res.run.Status == "error" {
			failures++
		}
	}
	if len(opts.Venues) > 0 && failures == len(opts.Venues) {
		return nil, ErrAllSourcesFailed
	}

	// Resolution is sequential on purpose: placeholder insertion and
	// id-collision checks depend on entries added earlier in this run.
	fresh := resolveObservations(reg, observations)

	merged := mergeEntries(carried, fresh)

	venueIDs := make([]string, 0, len(opts.Venues))
	for _, v := range opts.Venues {
		venueIDs = append(venueIDs, v.ID)
	}

	sched := &Schedule{
		WeekStart:   weekStart,
		WeekEnd:     weekEnd,
		SourceRuns:  runs,
		DataQuality: coverage(merged, venueIDs, window),
		Entries:     merged,
	}

	if reg.Dirty() {
		if err := reg.Save(registryPath, now); err != nil {
			return nil, fmt.Errorf("persist registry: %w", err)
		}
		logger.Info("registry updated", "trucks", reg.Len())
	}
	if err := sched.Save(schedulePath, now); err != nil {
		return nil, fmt.Errorf("persist schedule: %w", err)
	}

	logger.Info("run finished", "entries", len(merged), "sources_failed", failures)
	return sched, nil
}

// scrapeSource runs one venue's adapter with bounded retry and returns its
// outcome as data. All errors end up in the SourceRun record.
func scrapeSource(ctx context.Context, vcfg scrape.VenueConfig, window []time.Time, opts Options) sourceResult {
	logger := logging.New("pipeline")

	adapter, err := opts.NewAdapter(vcfg)
	if err != nil {
		return sourceResult{run: SourceRun{VenueID: vcfg.ID, Status: "error", Error: err.Error()}}
	}

	var obs []scrape.RawObservation
	err = withRetry(ctx, opts.MaxAttempts, opts.RetryBase, func() error {
		var scrapeErr error
		obs, scrapeErr = adapter.Scrape(ctx, window)
		if scrapeErr != nil {
			logger.Warn("scrape attempt failed", "venue", vcfg.ID, "error", scrapeErr)
		}
		return scrapeErr
	})
	if err != nil {
		return sourceResult{run: SourceRun{VenueID: vcfg.ID, Status: "error", Error: err.Error()}}
	}

	return sourceResult{
		run: SourceRun{VenueID: vcfg.ID, Status: "ok", EntriesCount: len(obs)},
		obs: obs,
	}
}

// resolveObservations maps every raw observation to a truck id, growing the
// registry in place: unmatched names become placeholder trucks, and matched
// trucks with an unknown cuisine are re-classified from fresh detail text.
func resolveObservations(reg *registry.Registry, observations []scrape.RawObservation) []ScheduleEntry {
	logger := logging.New("pipeline")

	var entries []ScheduleEntry
	for _, o := range observations {
		truck := reg.Resolve(o.TruckNameRaw)
		if truck != nil {
			reg.UpgradeCuisine(truck, o.DetailText)
		} else {
			placeholder := registry.NewPlaceholder(o.TruckNameRaw, o.DetailText)
			if existing := reg.TruckByID(placeholder.ID); existing != nil {
				// Same slug as a registered truck that the name tiers
				// missed: treat as that truck rather than duplicating.
				truck = existing
				reg.UpgradeCuisine(truck, o.DetailText)
			} else {
				truck = reg.Add(placeholder)
				logger.Info("new truck discovered",
					"id", truck.ID, "name", truck.Name, "cuisine", truck.Cuisine)
			}
		}
		entries = append(entries, ScheduleEntry{
			Date:    scrape.DateKey(o.Date),
			VenueID: o.VenueID,
			TruckID: truck.ID,
		})
	}
	return entries
}
