package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

const mapquestGeocodeURL = "http://www.mapquestapi.com/geocoding/v1/address"

// mapquestResponse is the JSON response from the MapQuest Geocoding API.
type mapquestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []mapquestLocation `json:"locations"`
	} `json:"results"`
}

type mapquestLocation struct {
	Street         string  `json:"street"`
	PostalCode     *string `json:"postalCode"`
	AdminArea5     string  `json:"adminArea5"` // city
	AdminArea3     string  `json:"adminArea3"` // state
	AdminArea1     string  `json:"adminArea1"` // country
	GeocodeQuality string  `json:"geocodeQuality"`
	LatLng         struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"latLng"`
}

// MapQuest geocodes through the MapQuest Geocoding API.
type MapQuest struct {
	key  string
	opts options
}

// NewMapQuest creates a MapQuest client.
func NewMapQuest(key string, opts ...Option) *MapQuest {
	return &MapQuest{key: key, opts: buildOptions(mapquestGeocodeURL, opts)}
}

// Geocode implements Client.
func (m *MapQuest) Geocode(ctx context.Context, addr AddressInput) (*Response, error) {
	if err := m.opts.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: mapquest rate limit")
	}

	params := url.Values{
		"key":      {m.key},
		"location": {addr.OneLine()},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.opts.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: mapquest create request")
	}

	resp, err := m.opts.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: mapquest request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: mapquest returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: mapquest read body")
	}

	var mqResp mapquestResponse
	if err := json.Unmarshal(body, &mqResp); err != nil {
		return nil, eris.Wrap(err, "geocode: mapquest parse response")
	}
	if mqResp.Info.StatusCode != 0 {
		return nil, eris.Errorf("geocode: mapquest status %d: %v", mqResp.Info.StatusCode, mqResp.Info.Messages)
	}

	out := &Response{Source: ProviderMapQuest}
	if len(mqResp.Results) == 0 {
		return out, nil
	}
	for _, loc := range mqResp.Results[0].Locations {
		out.Candidates = append(out.Candidates, loc.candidate())
	}
	return out, nil
}

// candidate converts a location. A location without a postalCode key gets
// no postal_code component.
func (l mapquestLocation) candidate() Candidate {
	c := Candidate{
		Quality:   mapquestQuality(l.GeocodeQuality),
		Latitude:  l.LatLng.Lat,
		Longitude: l.LatLng.Lng,
		Components: []Component{
			{Kind: KindStreet, Value: l.Street},
			{Kind: KindCity, Value: l.AdminArea5},
			{Kind: KindState, Value: l.AdminArea3},
			{Kind: KindCountry, Value: l.AdminArea1},
		},
	}
	if l.PostalCode != nil {
		c.Components = append(c.Components, Component{Kind: KindPostalCode, Value: *l.PostalCode})
	}
	return c
}
