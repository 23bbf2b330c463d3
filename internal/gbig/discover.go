// Package gbig scrapes LEED certification records from the Green Building
// Information Gateway: paginated search listings and per-building detail pages.
package gbig

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leed-cli/internal/model"
	"github.com/sells-group/leed-cli/internal/scrape"
)

// PageSize is the fixed number of results per upstream listing page.
const PageSize = 25

const (
	DefaultBaseURL       = "http://www.gbig.org"
	DefaultSearchPath    = "/search/advanced"
	DefaultProgramFilter = "Certification//37"
)

const (
	resultsCountSelector = `#search_form > div:nth-of-type(3) > div:nth-of-type(1) > div > span`
	resultRowSelector    = `div[class="row result-row"]`
	rowBadgeSelector     = `div[class="col-sm-3"] > div[class*="cert-badge"]`
	rowLinkSelector      = `div[class="col-sm-4"] > a[href]`
)

var digitGroupRe = regexp.MustCompile(`\d*,*\d+`)

// Discoverer finds certified-building identifiers in the upstream search index.
type Discoverer struct {
	fetcher       scrape.Fetcher
	searchURL     string
	programFilter string
}

// DiscovererOption configures a Discoverer.
type DiscovererOption func(*Discoverer)

// WithSearchURL overrides the search endpoint (base URL + search path).
func WithSearchURL(u string) DiscovererOption {
	return func(d *Discoverer) {
		d.searchURL = u
	}
}

// WithProgramFilter overrides the certification-program filter value.
func WithProgramFilter(f string) DiscovererOption {
	return func(d *Discoverer) {
		d.programFilter = f
	}
}

// NewDiscoverer creates a Discoverer.
func NewDiscoverer(f scrape.Fetcher, opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{
		fetcher:       f,
		searchURL:     DefaultBaseURL + DefaultSearchPath,
		programFilter: DefaultProgramFilter,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CountPages returns the number of listing pages for q. ok is false when
// the upstream shows no results-count text, meaning zero results.
func (d *Discoverer) CountPages(ctx context.Context, q model.SearchQuery) (pages int, ok bool, err error) {
	doc, err := d.fetchListing(ctx, q, 1)
	if err != nil {
		return 0, false, err
	}

	text, found := firstOwnText(doc.Find(resultsCountSelector))
	if !found {
		return 0, false, nil
	}

	pages, ok = PageCount(text)
	zap.L().Debug("gbig: counted listing pages",
		zap.String("geo_id", q.GeoID),
		zap.String("count_text", strings.TrimSpace(text)),
		zap.Int("pages", pages),
	)
	return pages, ok, nil
}

// PageCount derives the listing page count from the results-count text,
// e.g. "Displaying projects 1 - 25 of 1,234 in total". A single numeric
// group means one page. Otherwise the total is the third group (the last
// when fewer are present) and the count is total/25 + 1, which requests an
// extra empty page when total is a multiple of 25; the upstream client has
// always paged this way.
func PageCount(text string) (int, bool) {
	groups := digitGroupRe.FindAllString(text, -1)
	switch len(groups) {
	case 0:
		return 0, false
	case 1:
		return 1, true
	}

	raw := groups[len(groups)-1]
	if len(groups) > 2 {
		raw = groups[2]
	}
	total, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return 0, false
	}
	return total/PageSize + 1, true
}

// ListIdentifiers returns the detail-page identifiers of every certified
// building matching q, in listing order. Any page failure aborts the listing.
func (d *Discoverer) ListIdentifiers(ctx context.Context, q model.SearchQuery) ([]string, error) {
	pages, ok, err := d.CountPages(ctx, q)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}

	ids := []string{}
	for page := 1; page <= pages; page++ {
		batch, err := d.FetchPage(ctx, q, page)
		if err != nil {
			return nil, eris.Wrapf(err, "gbig: list page %d of %d", page, pages)
		}
		ids = append(ids, batch.Certified()...)
	}

	zap.L().Info("gbig: listed identifiers",
		zap.String("geo_id", q.GeoID),
		zap.Int("pages", pages),
		zap.Int("identifiers", len(ids)),
	)
	return ids, nil
}

// FetchPage fetches one listing page and extracts its rows.
func (d *Discoverer) FetchPage(ctx context.Context, q model.SearchQuery, page int) (model.PageBatch, error) {
	doc, err := d.fetchListing(ctx, q, page)
	if err != nil {
		return model.PageBatch{}, err
	}
	return parseRows(doc, page), nil
}

// parseRows pairs each result row's certification badge with its
// detail-page links so the two sequences stay position-aligned.
func parseRows(doc *goquery.Document, page int) model.PageBatch {
	batch := model.PageBatch{Page: page}
	doc.Find(resultRowSelector).Each(func(_ int, row *goquery.Selection) {
		badge, _ := firstOwnText(row.Find(rowBadgeSelector))
		badge = strings.TrimSpace(badge)
		row.Find(rowLinkSelector).Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			batch.Badges = append(batch.Badges, badge)
			batch.IDs = append(batch.IDs, href)
		})
	})
	return batch
}

func (d *Discoverer) fetchListing(ctx context.Context, q model.SearchQuery, page int) (*goquery.Document, error) {
	u := d.PageURL(q, page)
	p, err := d.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, eris.Wrap(err, "gbig: fetch listing")
	}
	if !p.OK() {
		return nil, eris.Errorf("gbig: listing page %d returned status %d", page, p.StatusCode)
	}
	return p.Doc, nil
}

// PageURL builds the listing URL for one page of q. Parameter order follows
// the upstream search form.
func (d *Discoverer) PageURL(q model.SearchQuery, page int) string {
	params := [][2]string{
		{"utf8", "✔"},
		{"search[include_non_certified]", "0"},
		{"search[search_type]", "Projects"},
		{"search[text_search_mode]", "all"},
		{"view", "list"},
		{"page", strconv.Itoa(page)},
		{"type", "advanced"},
		{"search[place_ids]", q.GeoID},
		{"search[flat_rating_program_ids]", d.programFilter},
	}
	if q.After != nil {
		params = append(params, [2]string{"search[after_date]", q.After.Format(model.DateLayout)})
	}
	if q.Before != nil {
		params = append(params, [2]string{"search[before_date]", q.Before.Format(model.DateLayout)})
	}

	var b strings.Builder
	b.WriteString(d.searchURL)
	for i, kv := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[1]))
	}
	return b.String()
}
