package gbig

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leed-cli/internal/model"
	"github.com/sells-group/leed-cli/internal/resilience"
	"github.com/sells-group/leed-cli/internal/scrape"
	"github.com/sells-group/leed-cli/pkg/geocode"
)

const (
	// PlaceholderHeading is the transient title of a detail page that has not
	// been rendered yet.
	PlaceholderHeading = "GBIG"
	// NotFoundHeading is the upstream's canonical missing-page title.
	NotFoundHeading = "Hmm, the page you're looking for can't be found."

	msgNotRated           = "not rated"
	msgUnparseableAddress = "address could not be parsed"
	msgNoDate             = "certification date could not be parsed"
)

// Extractor turns one detail page into a BuildingRecord or an ErrorOutcome.
type Extractor struct {
	fetcher  scrape.Fetcher
	geocoder geocode.Client
	baseURL  string
	retry    resilience.RetryConfig
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithBaseURL overrides the upstream site root detail identifiers are joined to.
func WithBaseURL(u string) ExtractorOption {
	return func(e *Extractor) {
		e.baseURL = strings.TrimRight(u, "/")
	}
}

// WithGeocoder enables address geocoding. A nil client disables it.
func WithGeocoder(g geocode.Client) ExtractorOption {
	return func(e *Extractor) {
		e.geocoder = g
	}
}

// WithPlaceholderRetry overrides the placeholder-page retry.
func WithPlaceholderRetry(cfg resilience.RetryConfig) ExtractorOption {
	return func(e *Extractor) {
		e.retry = cfg
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(f scrape.Fetcher, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		fetcher: f,
		baseURL: DefaultBaseURL,
		retry:   resilience.DefaultRetryConfig(),
	}
	e.retry.OnRetry = resilience.RetryLogger("gbig", "detail_page")
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// URL returns the detail-page URL of id.
func (e *Extractor) URL(id string) string {
	return e.baseURL + id
}

// Extract fetches and parses the detail page of id. Named failures are
// returned in the Outcome; the error is reserved for transport failures.
func (e *Extractor) Extract(ctx context.Context, id string) (model.Outcome, error) {
	log := zap.L().With(zap.String("id", id))
	pageURL := e.URL(id)

	page, err := resilience.DoVal(ctx, e.retry,
		func(ctx context.Context) (*scrape.Page, error) {
			return e.fetcher.Fetch(ctx, pageURL)
		},
		func(p *scrape.Page) (bool, string) {
			h, _ := heading(p)
			return strings.TrimSpace(h) == PlaceholderHeading, "placeholder heading"
		},
	)
	if err != nil {
		return model.Outcome{}, eris.Wrapf(err, "gbig: fetch detail %s", id)
	}

	title, ok := heading(page)
	if !ok {
		if !page.OK() {
			return model.Outcome{}, eris.Errorf("gbig: detail %s returned status %d", id, page.StatusCode)
		}
		return model.Outcome{}, eris.Errorf("gbig: detail %s has no heading", id)
	}
	switch strings.TrimSpace(title) {
	case NotFoundHeading, PlaceholderHeading:
		log.Debug("gbig: detail page unavailable", zap.String("heading", title))
		return model.Failure(id, model.ErrorNotFound, strings.TrimSpace(title)), nil
	}

	doc := page.Doc
	ratingText, _ := firstOwnText(doc.Find(leadRatingSelector))
	rating, ok := ParseRating(ratingText)
	if !ok {
		return model.Failure(id, model.ErrorUnrated, msgNotRated), nil
	}

	rec := &model.BuildingRecord{
		AssessmentName: model.AssessmentName,
		Source:         model.AssessmentSource,
		Rating:         rating.Tier,
		Version:        rating.Version,
		URL:            pageURL,
	}

	if lead := ownText(doc.Find(leadSelector)); len(lead) > 1 {
		rec.Date, _ = ParseCertificationDate(lead[1])
	}
	if !rec.Complete() {
		return model.Failure(id, model.ErrorUnrated, msgNoDate), nil
	}

	if score, ok := parseScore(doc); ok {
		rec.Score = score
	}
	if pt, ok := parsePropertyType(doc); ok {
		rec.PropertyType = pt
	}

	addrText, ok := firstOwnText(doc.Find(addressSelector))
	if !ok {
		return model.Success(id, rec), nil
	}
	addr, ok := ParseAddress(addrText)
	if !ok {
		return model.Failure(id, model.ErrorUnparseableAddress, msgUnparseableAddress), nil
	}
	rec.Address = &addr

	if failure := e.enrich(ctx, rec); failure != nil {
		log.Debug("gbig: geocode failed", zap.String("reason", failure.Message))
		return model.Outcome{ID: id, Error: failure}, nil
	}

	log.Debug("gbig: extracted record",
		zap.String("rating", string(rec.Rating)),
		zap.String("date", rec.Date),
	)
	return model.Success(id, rec), nil
}

// heading returns the first text node of the page's primary heading.
func heading(p *scrape.Page) (string, bool) {
	if p == nil || p.Doc == nil {
		return "", false
	}
	return firstOwnText(p.Doc.Find(headingSelector))
}
