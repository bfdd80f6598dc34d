// Package cardgrid scrapes venues that publish schedule cards. Each card
// names one vendor and carries either an explicit date ("2/18(水)") or a
// weekly recurrence ("毎週月曜日"); the two patterns are mixed freely on the
// same page.
package cardgrid

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

// Adapter implements scrape.Adapter for the card-grid layout.
type Adapter struct {
	cfg     scrape.VenueConfig
	fetcher fetch.Fetcher
	logger  *slog.Logger
}

// New returns a card-grid adapter for the venue.
func New(cfg scrape.VenueConfig, f fetch.Fetcher) *Adapter {
	return &Adapter{cfg: cfg, fetcher: f, logger: logging.New("cardgrid")}
}

// VenueID returns the configured venue id.
func (a *Adapter) VenueID() string {
	return a.cfg.ID
}

// Scrape fetches the card page and converts every card into observations for
// the target dates its date expression covers. Cards whose expression falls
// outside the window contribute nothing.
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

	var obs []scrape.RawObservation
	doc.Find(".schedule-card").Each(func(i int, card *goquery.Selection) {
		name, ok := cardName(card)
		if !ok {
			a.logger.Warn("card without a vendor name", "venue", a.cfg.ID, "card", i)
			return
		}
		detail := strings.TrimSpace(card.Find(".card-note").Text())

		for _, d := range cardDates(card, dates, ref) {
			obs = append(obs, scrape.RawObservation{
				Date:         d,
				VenueID:      a.cfg.ID,
				TruckNameRaw: name,
				DetailText:   detail,
			})
		}
	})
	obs = scrape.Dedup(obs)

	if len(obs) == 0 {
		a.logger.Warn("no vendors extracted", "venue", a.cfg.ID, "url", a.cfg.URL)
		return nil, nil
	}

	a.logger.Info("scraped", "venue", a.cfg.ID, "entries", len(obs))
	return obs, nil
}

// cardName extracts a card's vendor name with an ordered fallback chain:
//
//  1. data-kitchen attribute, present on the venue's newer cards
//  2. card title heading text
//  3. first non-empty line of the card's text
//
// All three failing is an explicit not-found; the card is skipped with a
// warning rather than emitted with an empty name.
func cardName(card *goquery.Selection) (string, bool) {
	if attr, ok := card.Attr("data-kitchen"); ok {
		if name := strings.TrimSpace(attr); name != "" {
			return name, true
		}
	}
	if name := strings.TrimSpace(card.Find(".card-title").First().Text()); name != "" {
		return name, true
	}
	// Last resort: the first non-empty text line, with the date element
	// removed so a date-only card is not mistaken for a vendor.
	body := card.Clone()
	body.Find(".card-date").Remove()
	for _, line := range strings.Split(body.Text(), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			return name, true
		}
	}
	return "", false
}

// cardDates resolves a card's date expression against the target window.
// Recurrences expand to every matching weekday; explicit dates must land
// inside the window or the card is discarded.
func cardDates(card *goquery.Selection, dates []time.Time, ref time.Time) []time.Time {
	expr := strings.TrimSpace(card.Find(".card-date").Text())
	if expr == "" {
		return nil
	}
	if wd, ok := scrape.ParseRecurring(expr); ok {
		return scrape.WeekdayDates(wd, dates)
	}
	if d, ok := scrape.ParseDate(expr, ref); ok && scrape.InWindow(d, dates) {
		return []time.Time{d}
	}
	return nil
}
