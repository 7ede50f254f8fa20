package whttp

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// secretParams are query parameters whose values never reach the logs.
var secretParams = []string{"key", "access_key", "appid"}

type LoggingRoundTripper struct {
	Proxied http.RoundTripper
}

func (lrt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	t0 := time.Now()
	target := RedactURL(req.URL)

	res, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		slog.ErrorContext(req.Context(), "outbound request failed",
			"http.request.method", req.Method,
			"http.request.url", target,
			"error", err.Error())
		return res, err
	}

	b := bytes.NewBuffer(make([]byte, 0))
	reader := io.TeeReader(res.Body, b)

	body, _ := io.ReadAll(reader)
	defer res.Body.Close()

	slog.DebugContext(req.Context(), "outbound request",
		"http.request.duration_ms", time.Since(t0).Milliseconds(),
		"http.request.method", req.Method,
		"http.request.url", target,
		"http.response.status_code", res.StatusCode,
		"http.response.body", string(body))

	res.Body = io.NopCloser(b)

	return res, nil
}

// RedactURL renders u with every secret query parameter masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	q := u.Query()

	var masked bool
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "*****")
			masked = true
		}
	}

	if !masked {
		return u.String()
	}

	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}

func NewLoggingClient() *http.Client {
	return &http.Client{
		Transport: LoggingRoundTripper{Proxied: http.DefaultTransport},
		Timeout:   10 * time.Second,
	}
}
