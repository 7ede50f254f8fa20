package geocode_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/manzanit0/geocoding/pkg/geocode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTransport struct {
	body []byte
	err  error
	urls []string
}

func (s *stubTransport) Get(url string) ([]byte, error) {
	s.urls = append(s.urls, url)
	return s.body, s.err
}

func respond(body string) *stubTransport {
	return &stubTransport{body: []byte(body)}
}

type recordingLogger struct {
	messages   []string
	categories []string
}

func (l *recordingLogger) Log(message, category string) {
	l.messages = append(l.messages, message)
	l.categories = append(l.categories, category)
}

type staticSettings bool

func (s staticSettings) DebugLoggingEnabled() bool { return bool(s) }

type panickingLogger struct{}

func (panickingLogger) Log(string, string) { panic("sink is broken") }

const viennaFixture = `[
	{"place_id": 1, "display_name": "Vienna, Austria", "lat": "48.2083537", "lon": "16.3725042"},
	{"place_id": 2, "display_name": "Vienna, Fairfax County, Virginia, United States", "lat": "38.9012225", "lon": "-77.2652604"}
]`

func assertFinite(t *testing.T, results []geocode.Result) {
	t.Helper()

	for _, r := range results {
		assert.False(t, math.IsNaN(r.Coordinate.Longitude) || math.IsInf(r.Coordinate.Longitude, 0), "longitude of %q", r.Label)
		assert.False(t, math.IsNaN(r.Coordinate.Latitude) || math.IsInf(r.Coordinate.Latitude, 0), "latitude of %q", r.Label)
	}
}

func TestOpenstreetmapGeocode(t *testing.T) {
	tr := respond(viennaFixture)
	g := geocode.NewOpenstreetmapGeocoder(tr)

	results, err := g.Geocode("Vienna")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assertFinite(t, results)

	first := results[0]
	assert.Contains(t, first.Label, "Vienna")
	assert.Greater(t, first.Coordinate.Longitude, 16.0)
	assert.Less(t, first.Coordinate.Longitude, 17.0)
	assert.Greater(t, first.Coordinate.Latitude, 48.0)
	assert.Less(t, first.Coordinate.Latitude, 49.0)

	require.Len(t, tr.urls, 1)
	assert.Equal(t, "https://nominatim.openstreetmap.org/search?format=json&q=Vienna", tr.urls[0])
}

func TestOpenstreetmapGeocodeEscapesAddress(t *testing.T) {
	tr := respond(`[]`)
	g := geocode.NewOpenstreetmapGeocoder(tr, geocode.WithAPIKey("ignored"))

	results, err := g.Geocode("Hauptplatz 1, Linz & Co")
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.Equal(t, "https://nominatim.openstreetmap.org/search?format=json&q=Hauptplatz+1%2C+Linz+%26+Co", tr.urls[0])
}

func TestOpenstreetmapReverse(t *testing.T) {
	tr := respond(`{"display_name": "Stephansplatz, Innere Stadt, Wien, Österreich", "lat": "48.2084", "lon": "16.3731"}`)
	g := geocode.NewOpenstreetmapGeocoder(tr)

	results, err := g.Reverse(16.37, 48.21)
	require.NoError(t, err)

	want := []geocode.Result{{
		Label:      "Stephansplatz, Innere Stadt, Wien, Österreich",
		Coordinate: geocode.Coordinate{Longitude: 16.3731, Latitude: 48.2084},
	}}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("Reverse() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "https://nominatim.openstreetmap.org/reverse?format=json&lat=48.21&lon=16.37", tr.urls[0])
}

func TestOpenstreetmapFailures(t *testing.T) {
	testCases := []struct {
		desc          string
		transport     *stubTransport
		reverse       bool
		wantTransport bool
	}{
		{desc: "transport error is wrapped", transport: &stubTransport{err: errors.New("connection refused")}, wantTransport: true},
		{desc: "malformed json", transport: respond(`[{"display_name": `)},
		{desc: "missing display_name drops every result", transport: respond(`[{"display_name": "a", "lat": "1", "lon": "2"}, {"lat": "1", "lon": "2"}]`)},
		{desc: "unparsable coordinate", transport: respond(`[{"display_name": "a", "lat": "north", "lon": "2"}]`)},
		{desc: "nominatim error body on reverse", transport: respond(`{"error": "Unable to geocode"}`), reverse: true},
		{desc: "null search body", transport: respond(`null`)},
		{desc: "null reverse body", transport: respond(`null`), reverse: true},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			g := geocode.NewOpenstreetmapGeocoder(tC.transport)

			var (
				results []geocode.Result
				err     error
			)
			if tC.reverse {
				results, err = g.Reverse(0, 0)
			} else {
				results, err = g.Geocode("somewhere")
			}

			require.Error(t, err)
			assert.Nil(t, results)

			var gerr *geocode.Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, geocode.ProviderOpenstreetmap, gerr.Provider)
			assert.Equal(t, tC.wantTransport, geocode.IsTransport(err))
			assert.Equal(t, !tC.wantTransport, geocode.IsParse(err))
		})
	}
}

func TestDorisGeocode(t *testing.T) {
	tr := respond(`{"response": {"numFound": 2, "docs": [
		{"title": ["Linz, Hauptplatz 1"], "geo": ["1234567.8 6123456.7"]},
		{"title": ["Wien"], "geo": ["POINT(1822493.0 6141657.6)"]}
	]}}`)
	g := geocode.NewDorisGeocoder(tr)

	results, err := g.Geocode("Linz Hauptplatz")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assertFinite(t, results)

	want := []geocode.Result{
		{Label: "Linz, Hauptplatz 1", Coordinate: geocode.Coordinate{Longitude: 11.0903112, Latitude: 48.0996957}},
		{Label: "Wien", Coordinate: geocode.Coordinate{Longitude: 16.3717332, Latitude: 48.2087720}},
	}
	if diff := cmp.Diff(want, results, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("Geocode() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "https://srv.doris.at/solr/searchservice/search/all2/?q=Linz+Hauptplatz", tr.urls[0])
}

func TestDorisGeocodeFailures(t *testing.T) {
	testCases := []struct {
		desc string
		body string
	}{
		{desc: "missing response", body: `{"docs": []}`},
		{desc: "missing docs", body: `{"response": {}}`},
		{desc: "null docs", body: `{"response": {"docs": null}}`},
		{desc: "null body", body: `null`},
		{desc: "coordinate outside the mercator extent", body: `{"response": {"docs": [{"title": ["x"], "geo": ["99999999999 1"]}]}}`},
		{desc: "missing title", body: `{"response": {"docs": [{"geo": ["1 2"]}]}}`},
		{desc: "empty geo list", body: `{"response": {"docs": [{"title": ["x"], "geo": []}]}}`},
		{desc: "single coordinate token", body: `{"response": {"docs": [{"title": ["x"], "geo": ["1234567.8"]}]}}`},
		{desc: "not a number", body: `{"response": {"docs": [{"title": ["x"], "geo": ["1.2.3 4"]}]}}`},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			_, err := geocode.NewDorisGeocoder(respond(tC.body)).Geocode("x")
			require.Error(t, err)
			assert.True(t, geocode.IsParse(err), "got %v", err)
		})
	}
}

func TestGeoToLonLatRejectsOutOfRange(t *testing.T) {
	_, err := geocode.GeoToLonLat("99999999999 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestDorisReverseReturnsPlaceholder(t *testing.T) {
	tr := &stubTransport{err: errors.New("must not be called")}
	g := geocode.NewDorisGeocoder(tr)

	results, err := g.Reverse(16.37, 48.21)
	require.NoError(t, err)
	assert.Equal(t, []geocode.Result{{Label: geocode.Unsupported}}, results)
	assert.Empty(t, tr.urls)
}

func TestGeoToLonLat(t *testing.T) {
	testCases := []struct {
		desc string
		geo  string
		want geocode.Coordinate
	}{
		{
			desc: "plain tokens keep longitude first",
			geo:  "1234567.8 6123456.7",
			want: geocode.Coordinate{Longitude: 11.0903112, Latitude: 48.0996957},
		},
		{
			desc: "wkt decoration is stripped",
			geo:  "POINT(1234567.8 6123456.7)",
			want: geocode.Coordinate{Longitude: 11.0903112, Latitude: 48.0996957},
		},
		{
			desc: "minus signs are stripped with everything else",
			geo:  "-1234567.8 6123456.7",
			want: geocode.Coordinate{Longitude: 11.0903112, Latitude: 48.0996957},
		},
		{
			desc: "extra tokens are ignored",
			geo:  "0 0 42",
			want: geocode.Coordinate{},
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got, err := geocode.GeoToLonLat(tC.geo)
			require.NoError(t, err)
			assert.InDelta(t, tC.want.Longitude, got.Longitude, 1e-6)
			assert.InDelta(t, tC.want.Latitude, got.Latitude, 1e-6)
		})
	}
}

const googleFixture = `{
	"results": [
		{"formatted_address": "Vienna, Austria", "geometry": {"location": {"lat": 48.2081743, "lng": 16.3738189}}},
		{"formatted_address": "Vienna, VA, USA", "geometry": {"location": {"lat": 38.9012225, "lng": -77.2652604}}}
	],
	"status": "OK"
}`

func TestGoogleGeocode(t *testing.T) {
	testCases := []struct {
		desc    string
		apiKey  string
		wantURL string
	}{
		{
			desc:    "without api key",
			wantURL: "https://maps.googleapis.com/maps/api/geocode/json?address=Vienna",
		},
		{
			desc:    "blank api key is ignored",
			apiKey:  "   ",
			wantURL: "https://maps.googleapis.com/maps/api/geocode/json?address=Vienna",
		},
		{
			desc:    "api key is appended",
			apiKey:  "s3cr3t",
			wantURL: "https://maps.googleapis.com/maps/api/geocode/json?address=Vienna&key=s3cr3t",
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			tr := respond(googleFixture)
			g := geocode.NewGoogleGeocoder(tr, geocode.WithAPIKey(tC.apiKey))

			results, err := g.Geocode("Vienna")
			require.NoError(t, err)
			require.Len(t, results, 2)
			assertFinite(t, results)

			assert.Equal(t, geocode.Result{
				Label:      "Vienna, Austria",
				Coordinate: geocode.Coordinate{Longitude: 16.3738189, Latitude: 48.2081743},
			}, results[0])
			assert.Equal(t, tC.wantURL, tr.urls[0])
		})
	}
}

func TestGoogleReverse(t *testing.T) {
	tr := respond(googleFixture)
	g := geocode.NewGoogleGeocoder(tr, geocode.WithAPIKey("k"))

	results, err := g.Reverse(16.3738, 48.2081)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Vienna, Austria", results[0].Label)
	assert.Equal(t, "https://maps.googleapis.com/maps/api/geocode/json?latlng=48.2081,16.3738&key=k", tr.urls[0])
}

func TestGoogleFailures(t *testing.T) {
	testCases := []struct {
		desc          string
		body          string
		reverse       bool
		wantTransport bool
		wantMessage   string
	}{
		{desc: "request denied", body: `{"results": [], "status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`, wantTransport: true, wantMessage: "REQUEST_DENIED: The provided API key is invalid."},
		{desc: "missing results", body: `{"status": "OK"}`, wantMessage: "missing field results"},
		{desc: "missing geometry", body: `{"results": [{"formatted_address": "x"}], "status": "OK"}`, wantMessage: "geometry.location"},
		{desc: "reverse with zero results", body: `{"results": [], "status": "ZERO_RESULTS"}`, reverse: true, wantMessage: "no results"},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			g := geocode.NewGoogleGeocoder(respond(tC.body))

			var err error
			if tC.reverse {
				_, err = g.Reverse(1, 2)
			} else {
				_, err = g.Geocode("x")
			}

			require.Error(t, err)
			assert.Equal(t, tC.wantTransport, geocode.IsTransport(err))
			assert.Equal(t, !tC.wantTransport, geocode.IsParse(err))
			assert.Contains(t, err.Error(), tC.wantMessage)
		})
	}
}

func TestGoogleGeocodeZeroResults(t *testing.T) {
	results, err := geocode.NewGoogleGeocoder(respond(`{"results": [], "status": "ZERO_RESULTS"}`)).Geocode("nowhere")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTransportErrorKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")

	for _, name := range geocode.Providers() {
		if name == geocode.ProviderDoris {
			continue
		}

		t.Run(name, func(t *testing.T) {
			g, err := geocode.New(name, &stubTransport{err: cause})
			require.NoError(t, err)

			_, err = g.Reverse(1, 2)
			require.Error(t, err)
			assert.ErrorIs(t, err, cause)
			assert.True(t, geocode.IsTransport(err))
			assert.True(t, strings.HasSuffix(err.Error(), cause.Error()))
		})
	}
}

func TestDiagnostics(t *testing.T) {
	testCases := []struct {
		desc     string
		enabled  bool
		wantLogs int
	}{
		{desc: "urls are logged when debug is enabled", enabled: true, wantLogs: 1},
		{desc: "nothing is logged when debug is disabled", enabled: false, wantLogs: 0},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			l := &recordingLogger{}
			g := geocode.NewOpenstreetmapGeocoder(respond(viennaFixture), geocode.WithDiagnostics(staticSettings(tC.enabled), l))

			_, err := g.Geocode("Vienna")
			require.NoError(t, err)
			require.Len(t, l.messages, tC.wantLogs)

			if tC.wantLogs > 0 {
				assert.Equal(t, "https://nominatim.openstreetmap.org/search?format=json&q=Vienna", l.messages[0])
				assert.Equal(t, geocode.DebugCategory, l.categories[0])
			}
		})
	}
}

func TestDiagnosticsMaskAPIKey(t *testing.T) {
	l := &recordingLogger{}
	g := geocode.NewGoogleGeocoder(respond(googleFixture),
		geocode.WithAPIKey("s3cr3t"),
		geocode.WithDiagnostics(staticSettings(true), l))

	_, err := g.Geocode("Vienna")
	require.NoError(t, err)
	require.Len(t, l.messages, 1)

	assert.NotContains(t, l.messages[0], "s3cr3t")
	assert.Equal(t, "https://maps.googleapis.com/maps/api/geocode/json?address=Vienna&key=%2A%2A%2A%2A%2A", l.messages[0])
}

func TestDiagnosticsNeverFailRequest(t *testing.T) {
	g := geocode.NewGoogleGeocoder(respond(googleFixture), geocode.WithDiagnostics(staticSettings(true), panickingLogger{}))

	results, err := g.Geocode("Vienna")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "osm", "OpenStreetMap", "nominatim", "doris", "google"} {
		g, err := geocode.New(name, respond(`[]`))
		require.NoError(t, err, name)
		assert.NotNil(t, g, name)
	}

	_, err := geocode.New("bing", respond(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doris, google, osm")
}

func TestCustomURLTemplates(t *testing.T) {
	tr := respond(`{"display_name": "x", "lat": "1", "lon": "2"}`)
	g := geocode.NewOpenstreetmapGeocoder(tr,
		geocode.WithSearchURL("http://localhost/search?q={address}"),
		geocode.WithReverseURL("http://localhost/reverse?lon={lon}&lat={lat}"))

	_, err := g.Reverse(2.5, -1)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/reverse?lon=2.5&lat=-1", tr.urls[0])
}
