package geocode

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Geocoder translates addresses to coordinates and back using a single
// provider. Implementations perform one blocking request per call.
type Geocoder interface {
	Geocode(address string) ([]Result, error)
	Reverse(lon, lat float64) ([]Result, error)
}

// Transport performs an HTTP GET and returns the raw response body.
type Transport interface {
	Get(url string) ([]byte, error)
}

type Coordinate struct {
	Longitude float64
	Latitude  float64
}

type Result struct {
	Label      string
	Coordinate Coordinate
}

const (
	ProviderOpenstreetmap = "osm"
	ProviderDoris         = "doris"
	ProviderGoogle        = "google"
)

// Providers returns the names accepted by New.
func Providers() []string {
	names := []string{ProviderOpenstreetmap, ProviderDoris, ProviderGoogle}
	sort.Strings(names)
	return names
}

// New builds the geocoder registered under name.
func New(name string, t Transport, opts ...Option) (Geocoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderOpenstreetmap, "openstreetmap", "nominatim":
		return NewOpenstreetmapGeocoder(t, opts...), nil
	case ProviderDoris:
		return NewDorisGeocoder(t, opts...), nil
	case ProviderGoogle:
		return NewGoogleGeocoder(t, opts...), nil
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q, expected one of %s", name, strings.Join(Providers(), ", "))
	}
}

// fetch issues the GET for url through t and decodes the JSON body into v.
func fetch(t Transport, o *options, provider, url string, v any) error {
	o.debug(url)

	data, err := t.Get(url)
	if err != nil {
		return transportError(provider, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return parseError(provider, fmt.Errorf("decode response: %w", err))
	}

	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
