package gbig

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leed-cli/internal/model"
	"github.com/sells-group/leed-cli/pkg/geocode"
)

// enrich geocodes rec.Address in place. It returns a geocode-failed outcome
// when the provider fails or its best match lacks the expected components.
// Coordinates are only attached for high-confidence matches.
func (e *Extractor) enrich(ctx context.Context, rec *model.BuildingRecord) *model.ErrorOutcome {
	addr := rec.Address
	if e.geocoder == nil || addr.Street == "" || addr.City == "" || addr.State == "" {
		return nil
	}

	resp, err := e.geocoder.Geocode(ctx, geocode.AddressInput{
		Street: addr.Street,
		City:   addr.City,
		State:  addr.State,
	})
	if err != nil {
		return geocodeFailure(err.Error())
	}

	best, ok := resp.First()
	if !ok {
		return geocodeFailure("no geocode match for " + addr.Street + "," + addr.City + "," + addr.State)
	}

	postal, ok := best.Component(geocode.KindPostalCode)
	if !ok {
		return geocodeFailure("geocode match has no postal code")
	}
	street, ok := best.Component(geocode.KindStreet)
	if !ok {
		return geocodeFailure("geocode match has no street")
	}
	addr.PostalCode = postal.Value
	addr.Street = street.Value

	if best.HighConfidence() {
		rec.Coordinates = &model.Coordinates{Latitude: best.Latitude, Longitude: best.Longitude}
	} else {
		zap.L().Debug("gbig: dropping low-confidence coordinates",
			zap.String("url", rec.URL),
			zap.String("quality", best.Quality),
		)
	}
	return nil
}

func geocodeFailure(msg string) *model.ErrorOutcome {
	return &model.ErrorOutcome{Kind: model.ErrorGeocodeFailed, Message: msg}
}
