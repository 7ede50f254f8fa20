package geocode

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const dorisSearchURL = "https://srv.doris.at/solr/searchservice/search/all2/?q={address}"

// Unsupported is the label of the single result DorisGeocoder.Reverse yields.
const Unsupported = "unsupported"

func NewDorisGeocoder(t Transport, opts ...Option) *dc {
	o := newOptions(dorisSearchURL, "", opts)
	o.apiKey = ""
	return &dc{t: t, opts: o}
}

type dc struct {
	t    Transport
	opts options
}

var _ Geocoder = (*dc)(nil)

type dorisResponse struct {
	Response *struct {
		Docs *[]dorisDoc `json:"docs"`
	} `json:"response"`
}

type dorisDoc struct {
	Title []string `json:"title"`
	Geo   []string `json:"geo"`
}

func (c *dc) Geocode(address string) ([]Result, error) {
	var res dorisResponse
	if err := fetch(c.t, &c.opts, ProviderDoris, c.opts.searchFor(address), &res); err != nil {
		return nil, err
	}

	if res.Response == nil {
		return nil, parseError(ProviderDoris, errors.New("missing field response"))
	}

	if res.Response.Docs == nil {
		return nil, parseError(ProviderDoris, errors.New("missing field response.docs"))
	}

	docs := *res.Response.Docs
	results := make([]Result, 0, len(docs))
	for i, doc := range docs {
		if len(doc.Title) == 0 {
			return nil, parseError(ProviderDoris, fmt.Errorf("record %d: missing field title", i))
		}

		if len(doc.Geo) == 0 {
			return nil, parseError(ProviderDoris, fmt.Errorf("record %d: missing field geo", i))
		}

		coord, err := GeoToLonLat(doc.Geo[0])
		if err != nil {
			return nil, parseError(ProviderDoris, fmt.Errorf("record %d: %w", i, err))
		}

		results = append(results, Result{Label: doc.Title[0], Coordinate: coord})
	}

	return results, nil
}

// Reverse is not offered by Doris. It answers with a single placeholder
// result labelled Unsupported instead of failing.
func (c *dc) Reverse(_, _ float64) ([]Result, error) {
	return []Result{{Label: Unsupported}}, nil
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// GeoToLonLat converts a Doris "x y" web mercator (EPSG:3857) string into a
// WGS84 coordinate. Every character other than digits and dots is dropped
// from each space separated token, which also drops any minus sign.
func GeoToLonLat(geo string) (Coordinate, error) {
	parts := strings.Split(geo, " ")
	if len(parts) < 2 {
		return Coordinate{}, fmt.Errorf("invalid geo %q: expected two tokens", geo)
	}

	var xy [2]float64
	for i := range xy {
		token := nonNumeric.ReplaceAllString(parts[i], "")
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return Coordinate{}, fmt.Errorf("invalid geo %q: %w", geo, err)
		}
		xy[i] = v
	}

	p := project.Mercator.ToWGS84(orb.Point{xy[0], xy[1]})
	if math.IsNaN(p.Lon()) || math.IsNaN(p.Lat()) || math.Abs(p.Lon()) > 180 || math.Abs(p.Lat()) > 90 {
		return Coordinate{}, fmt.Errorf("invalid geo %q: projection out of range", geo)
	}

	return Coordinate{Longitude: p.Lon(), Latitude: p.Lat()}, nil
}
