package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"kitchencar/internal/registry"
	"kitchencar/internal/scrape"
)

var (
	monday   = time.Date(2026, 2, 16, 9, 30, 0, 0, time.UTC)
	fixedNow = func() time.Time { return monday }
)

// --- Fake adapter ---

type fakeAdapter struct {
	id    string
	obs   []scrape.RawObservation
	errs  []error // one per attempt; nil entries succeed
	calls int
}

func (f *fakeAdapter) VenueID() string { return f.id }

func (f *fakeAdapter) Scrape(_ context.Context, _ []time.Time) ([]scrape.RawObservation, error) {
	f.calls++
	if f.calls <= len(f.errs) && f.errs[f.calls-1] != nil {
		return nil, f.errs[f.calls-1]
	}
	return f.obs, nil
}

func fakeAdapters(t *testing.T, fakes map[string]*fakeAdapter) func(scrape.VenueConfig) (scrape.Adapter, error) {
	t.Helper()
	return func(cfg scrape.VenueConfig) (scrape.Adapter, error) {
		a, ok := fakes[cfg.ID]
		if !ok {
			t.Fatalf("no fake adapter for venue %q", cfg.ID)
		}
		return a, nil
	}
}

func baseOptions(t *testing.T, dir string, fakes map[string]*fakeAdapter) Options {
	t.Helper()
	var venues []scrape.VenueConfig
	for id := range fakes {
		venues = append(venues, scrape.VenueConfig{ID: id, URL: "http://example.invalid/" + id, Parser: "weeklyboard"})
	}
	return Options{
		Venues:     venues,
		DataDir:    dir,
		Days:       7,
		NewAdapter: fakeAdapters(t, fakes),
		Now:        fixedNow,
		RetryBase:  time.Millisecond,
	}
}

func seedRegistry(t *testing.T, dir string, trucks ...registry.Truck) {
	t.Helper()
	reg := registry.New(nil, trucks)
	if err := reg.Save(filepath.Join(dir, "registry.json"), monday); err != nil {
		t.Fatal(err)
	}
}

func obs(date, venue, name, detail string) scrape.RawObservation {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return scrape.RawObservation{Date: d, VenueID: venue, TruckNameRaw: name, DetailText: detail}
}

// --- Scenarios ---

func TestRun_AliasHit(t *testing.T) {
	dir := t.TempDir()
	seedRegistry(t, dir, registry.Truck{ID: "mr-chicken", Name: "Mr.Chicken", Cuisine: "karaage"})

	fakes := map[string]*fakeAdapter{
		"v1": {id: "v1", obs: []scrape.RawObservation{obs("2026-02-16", "v1", "Mr.Chicken★Torihanten", "")}},
	}
	sched, err := Run(context.Background(), baseOptions(t, dir, fakes))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []ScheduleEntry{{Date: "2026-02-16", VenueID: "v1", TruckID: "mr-chicken"}}
	if diff := cmp.Diff(want, sched.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	reg := registry.Load(filepath.Join(dir, "registry.json"))
	if reg.Len() != 1 {
		t.Errorf("registry grew to %d trucks on an alias hit", reg.Len())
	}
}

func TestRun_NewTruck(t *testing.T) {
	dir := t.TempDir()
	seedRegistry(t, dir, registry.Truck{ID: "mr-chicken", Name: "Mr.Chicken", Cuisine: "karaage"})

	fakes := map[string]*fakeAdapter{
		"v1": {id: "v1", obs: []scrape.RawObservation{obs("2026-02-17", "v1", "Totally New Truck", "")}},
	}
	sched, err := Run(context.Background(), baseOptions(t, dir, fakes))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []ScheduleEntry{{Date: "2026-02-17", VenueID: "v1", TruckID: "totally-new-truck"}}
	if diff := cmp.Diff(want, sched.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	reg := registry.Load(filepath.Join(dir, "registry.json"))
	if reg.Len() != 2 {
		t.Fatalf("registry has %d trucks, want 2", reg.Len())
	}
	added := reg.TruckByID("totally-new-truck")
	if added == nil {
		t.Fatal("placeholder truck not persisted")
	}
	if added.Cuisine != registry.UnknownCuisine {
		t.Errorf("cuisine = %q, want unknown (name has no cuisine keyword)", added.Cuisine)
	}
}

func TestRun_AllSourcesFailed(t *testing.T) {
	dir := t.TempDir()

	// A prior schedule that must survive the aborted run untouched.
	prior := &Schedule{WeekStart: "2026-02-09", WeekEnd: "2026-02-15",
		Entries: []ScheduleEntry{{Date: "2026-02-13", VenueID: "v1", TruckID: "mr-chicken"}}}
	if err := prior.Save(filepath.Join(dir, "schedule.json"), monday.Add(-72*time.Hour)); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(filepath.Join(dir, "schedule.json"))
	if err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	fakes := map[string]*fakeAdapter{
		"v1": {id: "v1", errs: []error{boom, boom, boom}},
		"v2": {id: "v2", errs: []error{boom, boom, boom}},
		"v3": {id: "v3", errs: []error{boom, boom, boom}},
	}
	_, err = Run(context.Background(), baseOptions(t, dir, fakes))
	if !errors.Is(err, ErrAllSourcesFailed) {
		t.Fatalf("err = %v, want ErrAllSourcesFailed", err)
	}

	after, err := os.ReadFile(filepath.Join(dir, "schedule.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("schedule artifact was rewritten by a fully failed run")
	}
}

func TestRun_PartialFailureIsolated(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")
	fakes := map[string]*fakeAdapter{
		"v1": {id: "v1", obs: []scrape.RawObservation{obs("2026-02-16", "v1", "Kebab King", "")}},
		"v2": {id: "v2", errs: []error{boom, boom, boom}},
	}
	sched, err := Run(context.Background(), baseOptions(t, dir, fakes))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	statuses := map[string]string{}
	for _, r := range sched.SourceRuns {
		statuses[r.VenueID] = r.Status
	}
	if statuses["v1"] != "ok" || statuses["v2"] != "error" {
		t.Errorf("source runs = %+v", sched.SourceRuns)
	}
	if len(sched.Entries) != 1 {
		t.Errorf("entries = %+v", sched.Entries)
	}
}

func TestRun_RetrySucceedsEventually(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("flaky")
	fake := &fakeAdapter{id: "v1",
		errs: []error{boom, boom, nil},
		obs:  []scrape.RawObservation{obs("2026-02-16", "v1", "Kebab King", "")}}
	fakes := map[string]*fakeAdapter{"v1": fake}

	sched, err := Run(context.Background(), baseOptions(t, dir, fakes))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if fake.calls != 3 {
		t.Errorf("adapter called %d times, want 3", fake.calls)
	}
	if sched.SourceRuns[0].Status != "ok" {
		t.Errorf("run status = %q after successful retry", sched.SourceRuns[0].Status)
	}
}

func TestRun_CarryOverAndWindowFilter(t *testing.T) {
	dir := t.TempDir()

	prior := &Schedule{
		WeekStart: "2026-02-09", WeekEnd: "2026-02-15",
		Entries: []ScheduleEntry{
			{Date: "2026-02-13", VenueID: "v1", TruckID: "old-truck"},   // before new window: dropped
			{Date: "2026-02-18", VenueID: "v1", TruckID: "ahead-truck"}, // inside new window: carried
		},
	}
	if err := prior.Save(filepath.Join(dir, "schedule.json"), monday.Add(-72*time.Hour)); err != nil {
		t.Fatal(err)
	}

	fakes := map[string]*fakeAdapter{
		"v1": {id: "v1", obs: []scrape.RawObservation{obs("2026-02-16", "v1", "Kebab King", "")}},
	}
	sched, err := Run(context.Background(), baseOptions(t, dir, fakes))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []ScheduleEntry{
		{Date: "2026-02-16", VenueID: "v1", TruckID: "kebab-king"},
		{Date: "2026-02-18", VenueID: "v1", TruckID: "ahead-truck"},
	}
	if diff := cmp.Diff(want, sched.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_MergeIdempotent(t *testing.T) {
	dir := t.TempDir()
	fakes := map[string]*fakeAdapter{
		"v1": {id: "v1", obs: []scrape.RawObservation{
			obs("2026-02-16", "v1", "Kebab King", ""),
			obs("2026-02-16", "v1", "Kebab King", ""), // in-run duplicate
			obs("2026-02-17", "v1", "Spice Wagon", ""),
		}},
	}

	first, err := Run(context.Background(), baseOptions(t, dir, fakes))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Run(context.Background(), baseOptions(t, dir, fakes))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if diff := cmp.Diff(first.Entries, second.Entries); diff != "" {
		t.Errorf("second run changed the schedule (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.DataQuality, second.DataQuality); diff != "" {
		t.Errorf("second run changed data quality (-first +second):\n%s", diff)
	}
	if len(first.Entries) != 2 {
		t.Errorf("duplicates survived the merge: %+v", first.Entries)
	}
}

func TestRun_CuisineUpgrade(t *testing.T) {
	dir := t.TempDir()
	seedRegistry(t, dir, registry.Truck{
		ID: "mystery-wagon", Name: "Mystery Wagon",
		Cuisine: registry.UnknownCuisine, CuisineLabel: registry.UnknownCuisineLabel,
	})

	fakes := map[string]*fakeAdapter{
		"v1": {id: "v1", obs: []scrape.RawObservation{
			obs("2026-02-16", "v1", "Mystery Wagon", "自家製タコスとブリトーの店"),
		}},
	}
	if _, err := Run(context.Background(), baseOptions(t, dir, fakes)); err != nil {
		t.Fatalf("run: %v", err)
	}

	reg := registry.Load(filepath.Join(dir, "registry.json"))
	truck := reg.TruckByID("mystery-wagon")
	if truck == nil || truck.Cuisine != "mexican" {
		t.Fatalf("cuisine not upgraded from detail text: %+v", truck)
	}
}

func TestRun_SlugMatchJoinsExisting(t *testing.T) {
	dir := t.TempDir()
	// Registered under a name whose normalized form won't match the raw
	// sighting, but whose slug will. No duplicate may be created.
	seedRegistry(t, dir, registry.Truck{ID: "kebab-king", Name: "KEBAB-KING", Cuisine: "kebab"})

	fakes := map[string]*fakeAdapter{
		"v1": {id: "v1", obs: []scrape.RawObservation{obs("2026-02-16", "v1", "Kebab King", "")}},
	}
	sched, err := Run(context.Background(), baseOptions(t, dir, fakes))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	reg := registry.Load(filepath.Join(dir, "registry.json"))
	if reg.Len() != 1 {
		t.Fatalf("slug collision created a duplicate: %d trucks", reg.Len())
	}
	if sched.Entries[0].TruckID != "kebab-king" {
		t.Errorf("entry references %q", sched.Entries[0].TruckID)
	}
}

func TestRun_Coverage(t *testing.T) {
	dir := t.TempDir()
	fakes := map[string]*fakeAdapter{
		"v1": {id: "v1", obs: []scrape.RawObservation{
			obs("2026-02-16", "v1", "Kebab King", ""), // Monday
			obs("2026-02-18", "v1", "Kebab King", ""), // Wednesday
		}},
	}
	sched, err := Run(context.Background(), baseOptions(t, dir, fakes))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	cov, ok := sched.DataQuality["v1"]
	if !ok {
		t.Fatalf("no coverage for v1: %+v", sched.DataQuality)
	}
	if cov.CoveredWeekdays != 2 {
		t.Errorf("covered weekdays = %d, want 2", cov.CoveredWeekdays)
	}
	wantEmpty := []string{"2026-02-17", "2026-02-19", "2026-02-20"}
	if diff := cmp.Diff(wantEmpty, cov.EmptyWeekdays); diff != "" {
		t.Errorf("empty weekdays mismatch (-want +got):\n%s", diff)
	}
	if cov.TotalEntries != 2 {
		t.Errorf("total entries = %d", cov.TotalEntries)
	}
}

func TestRun_RegistryNotRewrittenWhenClean(t *testing.T) {
	dir := t.TempDir()
	seedRegistry(t, dir, registry.Truck{ID: "kebab-king", Name: "Kebab King", Cuisine: "kebab"})

	path := filepath.Join(dir, "registry.json")
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	fakes := map[string]*fakeAdapter{
		"v1": {id: "v1", obs: []scrape.RawObservation{obs("2026-02-16", "v1", "Kebab King", "")}},
	}
	if _, err := Run(context.Background(), baseOptions(t, dir, fakes)); err != nil {
		t.Fatalf("run: %v", err)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("clean registry was rewritten")
	}
}
