package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"kitchencar/internal/fetch"
)

func httpFetcher(srv *httptest.Server) fetch.Fetcher {
	return fetch.NewHTTP(srv.Client())
}

func TestFetchDetailTexts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>タコスの店</p></body></html>")
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	texts := FetchDetailTexts(context.Background(), httpFetcher(srv), map[string]string{
		"Vendor A": srv.URL + "/a",
		"Vendor B": srv.URL + "/b",
	})

	if texts["Vendor A"] != "タコスの店" {
		t.Errorf("Vendor A text = %q", texts["Vendor A"])
	}
	if _, ok := texts["Vendor B"]; ok {
		t.Error("failed detail page produced text instead of being skipped")
	}
}

func TestFetchDetailTexts_ManyVendorsBatched(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprintf(w, "<p>page %s</p>", r.URL.Path)
	}))
	defer srv.Close()

	urls := make(map[string]string)
	for i := 0; i < 12; i++ {
		urls[fmt.Sprintf("vendor-%02d", i)] = fmt.Sprintf("%s/%d", srv.URL, i)
	}

	texts := FetchDetailTexts(context.Background(), httpFetcher(srv), urls)
	if len(texts) != 12 {
		t.Fatalf("got %d texts, want 12", len(texts))
	}
	if n := hits.Load(); n != 12 {
		t.Fatalf("server hit %d times, want 12", n)
	}
}
