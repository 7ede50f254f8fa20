package whttp

import (
	"fmt"
	"io"
	"net/http"
)

// DefaultUserAgent identifies us to providers. Nominatim rejects requests
// without one.
const DefaultUserAgent = "manzanit0-geocoding/1.0"

// maxErrorBody caps how much of a failed response ends up in StatusError.
const maxErrorBody = 512

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected response: %s", e.Status)
	}

	return fmt.Sprintf("unexpected response: %s: %s", e.Status, e.Body)
}

// Fetcher performs plain GET requests and hands back the body.
type Fetcher struct {
	h         *http.Client
	userAgent string
}

func NewFetcher(h *http.Client, userAgent string) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Fetcher{h: h, userAgent: userAgent}
}

func (f *Fetcher) Get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := f.h.Do(req)
	if err != nil {
		return nil, err
	}

	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body := string(data)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}

		return nil, &StatusError{StatusCode: res.StatusCode, Status: res.Status, Body: body}
	}

	return data, nil
}
