// Package tabbedweek scrapes venues that publish a multi-day tabbed
// schedule: a row of date tabs and one panel of vendors per tab, matched by
// position. The markup gives no explicit tab-to-panel link, so index alignment
// is the contract.
package tabbedweek

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"kitchencar/internal/fetch"
	"kitchencar/internal/logging"
	"kitchencar/internal/scrape"
)

// Adapter implements scrape.Adapter for the tabbed-week layout.
type Adapter struct {
	cfg     scrape.VenueConfig
	fetcher fetch.Fetcher
	logger  *slog.Logger
}

// New returns a tabbed-week adapter for the venue.
func New(cfg scrape.VenueConfig, f fetch.Fetcher) *Adapter {
	return &Adapter{cfg: cfg, fetcher: f, logger: logging.New("tabbedweek")}
}

// VenueID returns the configured venue id.
func (a *Adapter) VenueID() string {
	return a.cfg.ID
}

// Scrape fetches the tabbed schedule and pairs each date tab with the panel
// at the same index. A tab/panel count mismatch is tolerated by walking the
// shorter side; panels are deduplicated internally because the venue lists a
// vendor once per stall slot, not once per day.
func (a *Adapter) Scrape(ctx context.Context, dates []time.Time) ([]scrape.RawObservation, error) {
	body, err := a.fetcher.Fetch(ctx, a.cfg.URL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", a.cfg.URL, err)
	}

	ref := time.Now()
	if len(dates) > 0 {
		ref = dates[0]
	}

	tabs := doc.Find("ul.date-tabs li")
	panels := doc.Find(".day-panel")

	n := tabs.Length()
	if panels.Length() < n {
		n = panels.Length()
	}
	if tabs.Length() != panels.Length() {
		a.logger.Warn("tab/panel count mismatch",
			"venue", a.cfg.ID, "tabs", tabs.Length(), "panels", panels.Length())
	}

	var obs []scrape.RawObservation
	for i := 0; i < n; i++ {
		label := strings.TrimSpace(tabs.Eq(i).Text())
		d, ok := scrape.ParseDate(label, ref)
		if !ok {
			a.logger.Warn("tab without a parseable date", "venue", a.cfg.ID, "label", label)
			continue
		}
		if !scrape.InWindow(d, dates) {
			continue
		}

		panels.Eq(i).Find(".shop-name").Each(func(_ int, sel *goquery.Selection) {
			name := strings.TrimSpace(sel.Text())
			if name == "" {
				return
			}
			detail := strings.TrimSpace(sel.Next().Filter(".shop-desc").Text())
			obs = append(obs, scrape.RawObservation{
				Date:         d,
				VenueID:      a.cfg.ID,
				TruckNameRaw: name,
				DetailText:   detail,
			})
		})
	}
	obs = scrape.Dedup(obs)

	if len(obs) == 0 {
		a.logger.Warn("no vendors extracted", "venue", a.cfg.ID, "url", a.cfg.URL)
		return nil, nil
	}

	a.logger.Info("scraped", "venue", a.cfg.ID, "entries", len(obs))
	return obs, nil
}
