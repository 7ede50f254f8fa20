package geocode

import (
	"errors"
	"fmt"
)

const (
	googleSearchURL  = "https://maps.googleapis.com/maps/api/geocode/json?address={address}"
	googleReverseURL = "https://maps.googleapis.com/maps/api/geocode/json?latlng={lat},{lon}"
)

// NewGoogleGeocoder uses the Google Maps Geocoding API. Pass WithAPIKey to
// authenticate; the key is appended as "&key=" to every request.
func NewGoogleGeocoder(t Transport, opts ...Option) *gc {
	return &gc{t: t, opts: newOptions(googleSearchURL, googleReverseURL, opts)}
}

type gc struct {
	t    Transport
	opts options
}

var _ Geocoder = (*gc)(nil)

type googleResponse struct {
	Results *[]struct {
		FormattedAddress *string `json:"formatted_address"`
		Geometry         *struct {
			Location *struct {
				Lat *float64 `json:"lat"`
				Lng *float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, REQUEST_DENIED, etc.
	ErrorMessage string `json:"error_message"`
}

func (c *gc) Geocode(address string) ([]Result, error) {
	return c.lookup(c.opts.searchFor(address))
}

// Reverse returns the most specific match only.
func (c *gc) Reverse(lon, lat float64) ([]Result, error) {
	results, err := c.lookup(c.opts.reverseFor(lon, lat))
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, parseError(ProviderGoogle, fmt.Errorf("no results for %s,%s", formatFloat(lat), formatFloat(lon)))
	}

	return results[:1], nil
}

func (c *gc) lookup(url string) ([]Result, error) {
	var res googleResponse
	if err := fetch(c.t, &c.opts, ProviderGoogle, url, &res); err != nil {
		return nil, err
	}

	switch res.Status {
	case "", "OK", "ZERO_RESULTS":
	default:
		msg := res.Status
		if res.ErrorMessage != "" {
			msg = fmt.Sprintf("%s: %s", res.Status, res.ErrorMessage)
		}
		return nil, transportError(ProviderGoogle, errors.New(msg))
	}

	if res.Results == nil {
		return nil, parseError(ProviderGoogle, errors.New("missing field results"))
	}

	results := make([]Result, 0, len(*res.Results))
	for i, rec := range *res.Results {
		if rec.FormattedAddress == nil {
			return nil, parseError(ProviderGoogle, fmt.Errorf("record %d: missing field formatted_address", i))
		}

		if rec.Geometry == nil || rec.Geometry.Location == nil || rec.Geometry.Location.Lat == nil || rec.Geometry.Location.Lng == nil {
			return nil, parseError(ProviderGoogle, fmt.Errorf("record %d: missing field geometry.location", i))
		}

		results = append(results, Result{
			Label: *rec.FormattedAddress,
			Coordinate: Coordinate{
				Longitude: *rec.Geometry.Location.Lng,
				Latitude:  *rec.Geometry.Location.Lat,
			},
		})
	}

	return results, nil
}
