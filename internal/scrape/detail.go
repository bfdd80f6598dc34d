package scrape

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"kitchencar/internal/fetch"
	"kitchencar/internal/logging"
	"kitchencar/internal/nameform"
)

// detailBatchSize bounds concurrent outbound detail-page fetches. Batches
// run strictly in sequence; within one, at most this many are in flight.
const detailBatchSize = 5

// FetchDetailTexts fetches per-vendor detail pages and flattens them to
// plain text keyed by vendor name. Detail text is best-effort enrichment for
// cuisine detection only, so every failure is swallowed: a vendor whose page
// cannot be fetched simply gets no entry in the result.
func FetchDetailTexts(ctx context.Context, f fetch.Fetcher, urls map[string]string) map[string]string {
	logger := logging.New("detail")

	keys := make([]string, 0, len(urls))
	for k := range urls {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(urls))
	var mu sync.Mutex

	for start := 0; start < len(keys); start += detailBatchSize {
		end := start + detailBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, key := range keys[start:end] {
			g.Go(func() error {
				body, err := f.Fetch(gctx, urls[key])
				if err != nil {
					logger.Debug("detail fetch failed", "vendor", key, "url", urls[key], "error", err)
					return nil
				}
				mu.Lock()
				out[key] = nameform.FlattenHTML(body)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait() // errors never leave the group
	}

	return out
}
