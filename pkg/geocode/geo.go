package geocode

import (
	geo "github.com/codingsince1985/geo-golang"
)

// AsGeoGeocoder exposes g through the geo-golang interface so it can be
// dropped into code written against that library. Only the first result of
// each lookup is kept.
func AsGeoGeocoder(g Geocoder) geo.Geocoder {
	return &geoAdapter{g: g}
}

type geoAdapter struct {
	g Geocoder
}

func (a *geoAdapter) Geocode(address string) (*geo.Location, error) {
	results, err := a.g.Geocode(address)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, nil
	}

	return &geo.Location{
		Lat: results[0].Coordinate.Latitude,
		Lng: results[0].Coordinate.Longitude,
	}, nil
}

func (a *geoAdapter) ReverseGeocode(lat, lng float64) (*geo.Address, error) {
	results, err := a.g.Reverse(lng, lat)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 || results[0].Label == Unsupported {
		return nil, nil
	}

	return &geo.Address{FormattedAddress: results[0].Label}, nil
}
