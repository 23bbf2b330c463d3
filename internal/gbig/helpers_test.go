package gbig

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leed-cli/internal/scrape"
	"github.com/sells-group/leed-cli/pkg/geocode"
)

// fixture reads an HTML file from testdata.
func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

type fakeResponse struct {
	status int
	body   string
	err    error
}

// fakeFetcher serves canned pages keyed by URL. A URL with several
// responses serves them in order and repeats the last one.
type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string][]fakeResponse
	calls  map[string]int
	called []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string][]fakeResponse{}, calls: map[string]int{}}
}

func (f *fakeFetcher) add(url string, status int, body string) *fakeFetcher {
	f.pages[url] = append(f.pages[url], fakeResponse{status: status, body: body})
	return f
}

func (f *fakeFetcher) fail(url string, err error) *fakeFetcher {
	f.pages[url] = append(f.pages[url], fakeResponse{err: err})
	return f
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*scrape.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.called = append(f.called, url)
	responses, ok := f.pages[url]
	if !ok {
		return nil, eris.Errorf("fake fetcher: unexpected url %s", url)
	}
	n := f.calls[url]
	f.calls[url] = n + 1
	if n >= len(responses) {
		n = len(responses) - 1
	}
	r := responses[n]
	if r.err != nil {
		return nil, r.err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.body))
	if err != nil {
		return nil, err
	}
	return &scrape.Page{URL: url, StatusCode: r.status, Doc: doc}, nil
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// fakeGeocoder returns a fixed response and records the addresses it saw.
type fakeGeocoder struct {
	mu    sync.Mutex
	resp  *geocode.Response
	err   error
	calls []geocode.AddressInput
}

func (g *fakeGeocoder) Geocode(_ context.Context, addr geocode.AddressInput) (*geocode.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, addr)
	return g.resp, g.err
}

func candidate(quality, street, postal string) geocode.Candidate {
	c := geocode.Candidate{
		Quality:   quality,
		Latitude:  44.4669,
		Longitude: -73.1709,
		Components: []geocode.Component{
			{Kind: geocode.KindStreet, Value: street},
			{Kind: geocode.KindCity, Value: "South Burlington"},
			{Kind: geocode.KindState, Value: "VT"},
		},
	}
	if postal != "" {
		c.Components = append(c.Components, geocode.Component{Kind: geocode.KindPostalCode, Value: postal})
	}
	return c
}

