// Package adapters wires venue configuration to the closed set of source
// adapter implementations. Dispatch is a static table keyed by parser name;
// nothing is loaded dynamically.
package adapters

import (
	"fmt"

	"kitchencar/adapters/cardgrid"
	"kitchencar/adapters/tabbedweek"
	"kitchencar/adapters/weeklyboard"
	"kitchencar/internal/fetch"
	"kitchencar/internal/scrape"
)

var constructors = map[string]func(scrape.VenueConfig, fetch.Fetcher) scrape.Adapter{
	"weeklyboard": func(cfg scrape.VenueConfig, f fetch.Fetcher) scrape.Adapter { return weeklyboard.New(cfg, f) },
	"cardgrid":    func(cfg scrape.VenueConfig, f fetch.Fetcher) scrape.Adapter { return cardgrid.New(cfg, f) },
	"tabbedweek":  func(cfg scrape.VenueConfig, f fetch.Fetcher) scrape.Adapter { return tabbedweek.New(cfg, f) },
}

// New constructs the adapter for a venue. The fetcher is chosen from the
// venue's render mode: plain HTTP by default, headless browser when the
// configuration says the page needs script execution.
func New(cfg scrape.VenueConfig) (scrape.Adapter, error) {
	var f fetch.Fetcher
	switch cfg.Render {
	case "", "http":
		f = fetch.NewHTTP(nil)
	case "browser":
		f = fetch.NewBrowser()
	default:
		return nil, fmt.Errorf("venue %s: unknown render mode %q", cfg.ID, cfg.Render)
	}
	return NewWithFetcher(cfg, f)
}

// NewWithFetcher constructs the adapter for a venue with an explicit
// fetcher. Tests use this to point adapters at httptest servers.
func NewWithFetcher(cfg scrape.VenueConfig, f fetch.Fetcher) (scrape.Adapter, error) {
	ctor, ok := constructors[cfg.Parser]
	if !ok {
		return nil, fmt.Errorf("venue %s: unknown parser %q", cfg.ID, cfg.Parser)
	}
	return ctor(cfg, f), nil
}
