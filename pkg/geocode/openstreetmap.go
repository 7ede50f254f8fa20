package geocode

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	openstreetmapSearchURL  = "https://nominatim.openstreetmap.org/search?format=json&q={address}"
	openstreetmapReverseURL = "https://nominatim.openstreetmap.org/reverse?format=json&lat={lat}&lon={lon}"
)

func NewOpenstreetmapGeocoder(t Transport, opts ...Option) *oc {
	o := newOptions(openstreetmapSearchURL, openstreetmapReverseURL, opts)
	// Nominatim takes no key.
	o.apiKey = ""
	return &oc{t: t, opts: o}
}

type oc struct {
	t    Transport
	opts options
}

var _ Geocoder = (*oc)(nil)

type nominatimPlace struct {
	DisplayName *string `json:"display_name"`
	Lon         *string `json:"lon"`
	Lat         *string `json:"lat"`
	Error       string  `json:"error"`
}

func (c *oc) Geocode(address string) ([]Result, error) {
	var places []nominatimPlace
	if err := fetch(c.t, &c.opts, ProviderOpenstreetmap, c.opts.searchFor(address), &places); err != nil {
		return nil, err
	}

	if places == nil {
		return nil, parseError(ProviderOpenstreetmap, errors.New("expected an array of places"))
	}

	results := make([]Result, 0, len(places))
	for i, p := range places {
		r, err := p.result()
		if err != nil {
			return nil, parseError(ProviderOpenstreetmap, fmt.Errorf("record %d: %w", i, err))
		}

		results = append(results, r)
	}

	return results, nil
}

func (c *oc) Reverse(lon, lat float64) ([]Result, error) {
	var place nominatimPlace
	if err := fetch(c.t, &c.opts, ProviderOpenstreetmap, c.opts.reverseFor(lon, lat), &place); err != nil {
		return nil, err
	}

	r, err := place.result()
	if err != nil {
		return nil, parseError(ProviderOpenstreetmap, err)
	}

	return []Result{r}, nil
}

func (p nominatimPlace) result() (Result, error) {
	if p.Error != "" {
		return Result{}, errors.New(p.Error)
	}

	if p.DisplayName == nil {
		return Result{}, errors.New("missing field display_name")
	}

	if p.Lon == nil || p.Lat == nil {
		return Result{}, errors.New("missing field lon or lat")
	}

	lon, err := strconv.ParseFloat(*p.Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("invalid lon: %w", err)
	}

	lat, err := strconv.ParseFloat(*p.Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("invalid lat: %w", err)
	}

	return Result{
		Label:      *p.DisplayName,
		Coordinate: Coordinate{Longitude: lon, Latitude: lat},
	}, nil
}
