// Package scrape fetches upstream HTML pages and exposes them as queryable documents.
package scrape

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Page is a fetched HTML page.
type Page struct {
	URL        string
	StatusCode int
	Doc        *goquery.Document
}

// OK reports whether the upstream answered with a 2xx status.
func (p *Page) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// Fetcher issues a GET for url and parses the body as HTML. Non-2xx
// responses are returned as pages; only transport and parse failures are errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}
