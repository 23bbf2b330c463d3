package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/leed-cli/internal/config"
	"github.com/sells-group/leed-cli/internal/scrape"
)

const listingHTML = `<html><body>
<form id="search_form">
  <div></div><div></div>
  <div><div><div><span>Displaying projects 1 - 2 of 2 in total</span></div></div></div>
</form>
<div class="row result-row">
  <div class="col-sm-3"><div class="cert-badge cert-badge-gold">Gold</div></div>
  <div class="col-sm-4"><a href="/activities/leed-1">Maple Street Home</a></div>
</div>
<div class="row result-row">
  <div class="col-sm-3"><div class="cert-badge">Registered</div></div>
  <div class="col-sm-4"><a href="/activities/leed-2">Pending Home</a></div>
</div>
</body></html>`

const detailHTML = `<html><body>
<h1>Maple Street Home</h1>
<p class="lead">Certified <strong>LEED-HOMES v2008 Gold</strong>
on 04/15/2016</p>
</body></html>`

const notFoundHTML = `<html><body><h1>Hmm, the page you're looking for can't be found.</h1></body></html>`

// newUpstream serves a one-page listing and a single detail page.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search/advanced", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingHTML))
	})
	mux.HandleFunc("/activities/leed-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailHTML))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(notFoundHTML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		GBIG: config.GBIGConfig{
			BaseURL:       baseURL,
			SearchPath:    "/search/advanced",
			ProgramFilter: "Certification//37",
			TimeoutSecs:   5,
		},
		Geocode: config.GeocodeConfig{Provider: "none"},
		Export:  config.ExportConfig{Format: "json", KeyStyle: "snake"},
		Batch:   config.BatchConfig{Concurrency: 2},
		Server:  config.ServerConfig{Port: 8080},
		Log:     config.LogConfig{Level: "info", Format: "json"},
	}
}

func testEnv(t *testing.T, mode string) *leedEnv {
	t.Helper()
	srv := newUpstream(t)
	env, err := newEnv(testConfig(srv.URL), mode, scrape.NewHTTPFetcher(scrape.HTTPOptions{Client: srv.Client()}))
	require.NoError(t, err)
	return env
}
