// Package weeklyboard scrapes venues that publish a recurring weekly board:
// one section per day of the week, each holding the list of vendors that
// appear on that weekday.
package weeklyboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"kitchencar/internal/fetch"
	"kitchencar/internal/logging"
	"kitchencar/internal/scrape"
)

// Adapter implements scrape.Adapter for the weekly-board layout.
type Adapter struct {
	cfg     scrape.VenueConfig
	fetcher fetch.Fetcher
	logger  *slog.Logger
}

// New returns a weekly-board adapter for the venue.
func New(cfg scrape.VenueConfig, f fetch.Fetcher) *Adapter {
	return &Adapter{cfg: cfg, fetcher: f, logger: logging.New("weeklyboard")}
}

// VenueID returns the configured venue id.
func (a *Adapter) VenueID() string {
	return a.cfg.ID
}

// Scrape fetches the weekly board and expands every weekday section into one
// observation per matching target date. Vendors with a detail link get their
// detail page flattened into DetailText, best-effort.
func (a *Adapter) Scrape(ctx context.Context, dates []time.Time) ([]scrape.RawObservation, error) {
	body, err := a.fetcher.Fetch(ctx, a.cfg.URL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", a.cfg.URL, err)
	}

	perDate := make(map[string][]string) // DateKey -> vendor names
	detailURLs := make(map[string]string)

	doc.Find("section.day").Each(func(_ int, sec *goquery.Selection) {
		wd, ok := a.sectionWeekday(sec)
		if !ok {
			a.logger.Warn("weekday section without a recognizable day", "venue", a.cfg.ID)
			return
		}
		sec.Find("ul.vendors li").Each(func(_ int, li *goquery.Selection) {
			name, detail, ok := a.vendorFromItem(li)
			if !ok {
				a.logger.Warn("vendor item without a name", "venue", a.cfg.ID, "weekday", wd.String())
				return
			}
			if detail != "" {
				detailURLs[name] = detail
			}
			for _, d := range scrape.WeekdayDates(wd, dates) {
				key := scrape.DateKey(d)
				perDate[key] = append(perDate[key], name)
			}
		})
	})

	var obs []scrape.RawObservation
	for _, d := range dates {
		for _, name := range perDate[scrape.DateKey(d)] {
			obs = append(obs, scrape.RawObservation{
				Date:         d,
				VenueID:      a.cfg.ID,
				TruckNameRaw: name,
			})
		}
	}
	obs = scrape.Dedup(obs)

	if len(obs) == 0 {
		a.logger.Warn("no vendors extracted", "venue", a.cfg.ID, "url", a.cfg.URL)
		return nil, nil
	}

	if len(detailURLs) > 0 {
		texts := scrape.FetchDetailTexts(ctx, a.fetcher, detailURLs)
		for i := range obs {
			obs[i].DetailText = texts[obs[i].TruckNameRaw]
		}
	}

	a.logger.Info("scraped", "venue", a.cfg.ID, "entries", len(obs))
	return obs, nil
}

// sectionWeekday determines a section's weekday with an ordered fallback
// chain: the data-day attribute first, then the heading text. Both failing
// means the section is unusable.
func (a *Adapter) sectionWeekday(sec *goquery.Selection) (time.Weekday, bool) {
	if attr, ok := sec.Attr("data-day"); ok {
		if wd, ok := scrape.ParseWeekday(attr); ok {
			return wd, true
		}
	}
	heading := strings.TrimSpace(sec.Find("h2, h3").First().Text())
	return scrape.ParseWeekday(heading)
}

// vendorFromItem extracts the vendor name and optional detail link from a
// list item: anchor text first, then the item's own text. An empty name is
// an explicit not-found, never silently emitted.
func (a *Adapter) vendorFromItem(li *goquery.Selection) (name, detailURL string, ok bool) {
	if link := li.Find("a").First(); link.Length() > 0 {
		name = strings.TrimSpace(link.Text())
		if href, has := link.Attr("href"); has {
			detailURL = a.resolveURL(href)
		}
	}
	if name == "" {
		name = strings.TrimSpace(li.Text())
	}
	if name == "" {
		return "", "", false
	}
	return name, detailURL, true
}

func (a *Adapter) resolveURL(href string) string {
	base := a.cfg.DetailBaseURL
	if base == "" {
		base = a.cfg.URL
	}
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	hu, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(hu).String()
}
