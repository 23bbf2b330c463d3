package geocode

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleGeocode_Rooftop(t *testing.T) {
	srv := newJSONServer(t, http.StatusOK, `{
		"status": "OK",
		"results": [{
			"address_components": [
				{"long_name": "1600", "short_name": "1600", "types": ["street_number"]},
				{"long_name": "Pennsylvania Avenue Northwest", "short_name": "Pennsylvania Ave NW", "types": ["route"]},
				{"long_name": "Washington", "short_name": "Washington", "types": ["locality", "political"]},
				{"long_name": "District of Columbia", "short_name": "DC", "types": ["administrative_area_level_1", "political"]},
				{"long_name": "20500", "short_name": "20500", "types": ["postal_code"]}
			],
			"geometry": {
				"location": {"lat": 38.8977, "lng": -77.0365},
				"location_type": "ROOFTOP"
			},
			"formatted_address": "1600 Pennsylvania Avenue NW, Washington, DC 20500"
		}]
	}`, nil)

	g := NewGoogle("test-key", WithHTTPClient(newRewriteClient(srv.URL, googleGeocodeURL)))
	resp, err := g.Geocode(context.Background(), AddressInput{
		Street: "1600 Pennsylvania Ave NW", City: "Washington", State: "DC",
	})
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, resp.Source)

	c, ok := resp.First()
	require.True(t, ok)
	assert.Equal(t, QualityRooftop, c.Quality)
	assert.True(t, c.HighConfidence())
	assert.InDelta(t, 38.8977, c.Latitude, 0.0001)

	street, ok := c.Component(KindStreet)
	require.True(t, ok)
	assert.Equal(t, "1600 Pennsylvania Ave NW", street.Value)
	postal, ok := c.Component(KindPostalCode)
	require.True(t, ok)
	assert.Equal(t, "20500", postal.Value)
	state, ok := c.Component(KindState)
	require.True(t, ok)
	assert.Equal(t, "DC", state.Value)
}

func TestGoogleGeocode_RangeInterpolatedIsLowConfidence(t *testing.T) {
	srv := newJSONServer(t, http.StatusOK, `{
		"status": "OK",
		"results": [{"geometry": {"location": {"lat": 1, "lng": 2}, "location_type": "RANGE_INTERPOLATED"}}]
	}`, nil)

	g := NewGoogle("k", WithBaseURL(srv.URL))
	resp, err := g.Geocode(context.Background(), AddressInput{City: "New York", State: "NY"})
	require.NoError(t, err)
	c, ok := resp.First()
	require.True(t, ok)
	assert.Equal(t, QualityRange, c.Quality)
	assert.False(t, c.HighConfidence())
}

func TestGoogleGeocode_ZeroResults(t *testing.T) {
	srv := newJSONServer(t, http.StatusOK, `{"status": "ZERO_RESULTS", "results": []}`, nil)

	g := NewGoogle("k", WithBaseURL(srv.URL))
	resp, err := g.Geocode(context.Background(), AddressInput{Street: "000 Nonexistent", City: "Nowhere", State: "XX"})
	require.NoError(t, err)
	assert.Empty(t, resp.Candidates)
}

func TestGoogleGeocode_DeniedIsError(t *testing.T) {
	srv := newJSONServer(t, http.StatusOK, `{"status": "REQUEST_DENIED", "error_message": "invalid key", "results": []}`, nil)

	g := NewGoogle("k", WithBaseURL(srv.URL))
	_, err := g.Geocode(context.Background(), AddressInput{Street: "1 A St", City: "B", State: "C"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestGoogleGeocode_APIError(t *testing.T) {
	srv := newJSONServer(t, http.StatusInternalServerError, ``, nil)

	g := NewGoogle("k", WithBaseURL(srv.URL))
	_, err := g.Geocode(context.Background(), AddressInput{Street: "1 A St", City: "B", State: "C"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
