package geocode

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"delivery-quotation/internal/models"
)

// Geocoder resolves a free-form street address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

// GoogleGeocoder implements Geocoder with the Google Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder creates a geocoder with the given API key.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

// Geocode returns the first geocoding result for the address. The region
// bias narrows results to Indonesia; the caller still re-validates the
// returned coordinate against the service-area bounding box.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  "id",
	})
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return models.Coordinate{}, models.ErrAddressNotFound
	}
	loc := results[0].Geometry.Location
	return models.Coordinate{Lat: loc.Lat, Lng: loc.Lng}, nil
}
