// Package geocode resolves postal addresses to normalized components and
// coordinates via MapQuest or Google.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client geocodes a single address.
type Client interface {
	// Geocode returns the provider's candidates for addr. A provider or
	// transport failure is returned as an error; an address the provider
	// could not match yields a Response with no candidates.
	Geocode(ctx context.Context, addr AddressInput) (*Response, error)
}

// AddressInput represents an address to geocode.
type AddressInput struct {
	Street string
	City   string
	State  string
}

// OneLine joins the non-empty parts as "street,city,state".
func (a AddressInput) OneLine() string {
	var parts []string
	for _, p := range []string{a.Street, a.City, a.State} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ",")
}

// Component kinds shared by all providers.
const (
	KindStreet     = "street"
	KindCity       = "city"
	KindState      = "state"
	KindPostalCode = "postal_code"
	KindCountry    = "country"
)

// Component is one tagged part of a matched address.
type Component struct {
	Kind  string
	Value string
}

// Candidate is one provider match.
type Candidate struct {
	Components []Component
	Quality    string // see Quality* constants
	Latitude   float64
	Longitude  float64
}

// Component returns the first component of the given kind.
func (c Candidate) Component(kind string) (Component, bool) {
	for _, comp := range c.Components {
		if comp.Kind == kind {
			return comp, true
		}
	}
	return Component{}, false
}

// HighConfidence reports whether the candidate's coordinates may be used.
func (c Candidate) HighConfidence() bool {
	return IsHighConfidence(c.Quality)
}

// Response holds the provider's candidates, best match first.
type Response struct {
	Source     string // "mapquest" or "google"
	Candidates []Candidate
}

// First returns the best candidate, if any.
func (r *Response) First() (Candidate, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return Candidate{}, false
	}
	return r.Candidates[0], true
}

// Provider names accepted by NewClient.
const (
	ProviderMapQuest = "mapquest"
	ProviderGoogle   = "google"
	ProviderNone     = "none"
)

// Option configures the geocoder.
type Option func(*options)

type options struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimit caps provider calls per second. Zero or negative disables the cap.
func WithRateLimit(rps float64) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

func buildOptions(defaultURL string, opts []Option) options {
	o := options{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		baseURL:    defaultURL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewClient creates the Client for the named provider. ProviderNone
// returns a nil Client, which disables geocoding.
func NewClient(provider, apiKey string, opts ...Option) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderMapQuest:
		if apiKey == "" {
			return nil, eris.New("geocode: mapquest api key not configured")
		}
		return NewMapQuest(apiKey, opts...), nil
	case ProviderGoogle:
		if apiKey == "" {
			return nil, eris.New("geocode: google api key not configured")
		}
		return NewGoogle(apiKey, opts...), nil
	case ProviderNone, "":
		return nil, nil
	default:
		return nil, eris.Errorf("geocode: unknown provider %q", provider)
	}
}
