package geocode

import (
	"net/url"
	"strings"

	"github.com/manzanit0/geocoding/pkg/whttp"
)

// DebugCategory is the category every request URL is logged under.
const DebugCategory = "GeoCoding"

// Settings reports whether outgoing request URLs should be logged.
type Settings interface {
	DebugLoggingEnabled() bool
}

// Logger receives diagnostics messages.
type Logger interface {
	Log(message, category string)
}

type noopSettings struct{}

func (noopSettings) DebugLoggingEnabled() bool { return false }

type noopLogger struct{}

func (noopLogger) Log(string, string) {}

type options struct {
	searchURL  string
	reverseURL string
	apiKey     string
	settings   Settings
	logger     Logger
}

type Option func(*options)

// WithDiagnostics sets the collaborators used to log request URLs. Nil
// arguments keep the no-op defaults.
func WithDiagnostics(s Settings, l Logger) Option {
	return func(o *options) {
		if s != nil {
			o.settings = s
		}
		if l != nil {
			o.logger = l
		}
	}
}

// WithAPIKey configures the key sent to providers that accept one. Keys that
// are blank once spaces are removed are ignored.
func WithAPIKey(key string) Option {
	return func(o *options) {
		if strings.ReplaceAll(key, " ", "") == "" {
			o.apiKey = ""
			return
		}
		o.apiKey = key
	}
}

// WithSearchURL overrides the forward geocoding URL template. The escaped
// address replaces every "{address}" in it.
func WithSearchURL(u string) Option {
	return func(o *options) {
		o.searchURL = u
	}
}

// WithReverseURL overrides the reverse geocoding URL template, which may hold
// "{lon}" and "{lat}" placeholders.
func WithReverseURL(u string) Option {
	return func(o *options) {
		o.reverseURL = u
	}
}

func (o *options) searchFor(address string) string {
	u := strings.NewReplacer("{address}", url.QueryEscape(address)).Replace(o.searchURL)
	return o.withKey(u)
}

func (o *options) reverseFor(lon, lat float64) string {
	u := strings.NewReplacer("{lon}", formatFloat(lon), "{lat}", formatFloat(lat)).Replace(o.reverseURL)
	return o.withKey(u)
}

func (o *options) withKey(u string) string {
	if o.apiKey == "" {
		return u
	}
	return u + "&key=" + url.QueryEscape(o.apiKey)
}

func newOptions(searchURL, reverseURL string, opts []Option) options {
	o := options{
		searchURL:  searchURL,
		reverseURL: reverseURL,
		settings:   noopSettings{},
		logger:     noopLogger{},
	}

	for _, f := range opts {
		f(&o)
	}

	return o
}

// debug writes the request URL, API key masked, to the diagnostics sink when
// enabled. A misbehaving sink must not affect the request.
func (o *options) debug(rawURL string) {
	defer func() {
		_ = recover()
	}()

	if !o.settings.DebugLoggingEnabled() {
		return
	}

	if u, err := url.Parse(rawURL); err == nil {
		rawURL = whttp.RedactURL(u)
	}

	o.logger.Log(rawURL, DebugCategory)
}
