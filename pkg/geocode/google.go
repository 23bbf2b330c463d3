package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// googleGeocodeResponse is the JSON response from the Google Geocoding API.
type googleGeocodeResponse struct {
	Results      []googleResult `json:"results"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
}

type googleResult struct {
	AddressComponents []struct {
		LongName  string   `json:"long_name"`
		ShortName string   `json:"short_name"`
		Types     []string `json:"types"`
	} `json:"address_components"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
		LocationType string `json:"location_type"`
	} `json:"geometry"`
	FormattedAddress string `json:"formatted_address"`
}

// Google geocodes through the Google Geocoding API.
type Google struct {
	key  string
	opts options
}

// NewGoogle creates a Google client.
func NewGoogle(key string, opts ...Option) *Google {
	return &Google{key: key, opts: buildOptions(googleGeocodeURL, opts)}
}

// Geocode implements Client.
func (g *Google) Geocode(ctx context.Context, addr AddressInput) (*Response, error) {
	if err := g.opts.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: google rate limit")
	}

	params := url.Values{
		"address": {addr.OneLine()},
		"key":     {g.key},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.opts.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google create request")
	}

	resp, err := g.opts.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: google returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google read body")
	}

	var googleResp googleGeocodeResponse
	if err := json.Unmarshal(body, &googleResp); err != nil {
		return nil, eris.Wrap(err, "geocode: google parse response")
	}

	out := &Response{Source: ProviderGoogle}
	switch googleResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return out, nil
	default:
		return nil, eris.Errorf("geocode: google status %s: %s", googleResp.Status, googleResp.ErrorMessage)
	}

	for _, r := range googleResp.Results {
		out.Candidates = append(out.Candidates, r.candidate())
	}
	return out, nil
}

// candidate converts a Google result. The street component is assembled
// from street_number and route, as MapQuest reports it.
func (r googleResult) candidate() Candidate {
	c := Candidate{
		Quality:   googleLocationTypeToQuality(r.Geometry.LocationType),
		Latitude:  r.Geometry.Location.Lat,
		Longitude: r.Geometry.Location.Lng,
	}

	var number, route string
	for _, ac := range r.AddressComponents {
		switch {
		case hasType(ac.Types, "street_number"):
			number = ac.LongName
		case hasType(ac.Types, "route"):
			route = ac.ShortName
		case hasType(ac.Types, "locality"):
			c.Components = append(c.Components, Component{Kind: KindCity, Value: ac.LongName})
		case hasType(ac.Types, "administrative_area_level_1"):
			c.Components = append(c.Components, Component{Kind: KindState, Value: ac.ShortName})
		case hasType(ac.Types, "postal_code"):
			c.Components = append(c.Components, Component{Kind: KindPostalCode, Value: ac.LongName})
		case hasType(ac.Types, "country"):
			c.Components = append(c.Components, Component{Kind: KindCountry, Value: ac.ShortName})
		}
	}
	if street := strings.TrimSpace(number + " " + route); street != "" {
		c.Components = append([]Component{{Kind: KindStreet, Value: street}}, c.Components...)
	}
	return c
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
