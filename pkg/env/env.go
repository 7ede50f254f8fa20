// package env contains simple getters for the environment variables shared by
// the geocoding binaries.
package env

import (
	"fmt"
	"os"
	"strconv"
)

const (
	VarProvider     = "GEOCODING_PROVIDER"
	VarWriteDebug   = "GEOCODING_WRITE_DEBUG"
	VarUserAgent    = "GEOCODING_USER_AGENT"
	VarGoogleAPIKey = "GOOGLE_MAPS_API_KEY"
	VarDatabaseURL  = "DATABASE_URL"
	VarPort         = "PORT"
)

// Provider is the geocoding provider used when a request names none.
func Provider() string {
	if p := os.Getenv(VarProvider); p != "" {
		return p
	}

	return "osm"
}

// WriteDebug reports whether outgoing request URLs should be logged. Unset
// means false.
func WriteDebug() (bool, error) {
	v := os.Getenv(VarWriteDebug)
	if v == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s as boolean: %s", VarWriteDebug, err.Error())
	}

	return b, nil
}

// GoogleAPIKey is optional; Google answers keyless requests with
// REQUEST_DENIED.
func GoogleAPIKey() string {
	return os.Getenv(VarGoogleAPIKey)
}

func UserAgent() string {
	return os.Getenv(VarUserAgent)
}

// DatabaseURL points at the host settings database. It is optional.
func DatabaseURL() string {
	return os.Getenv(VarDatabaseURL)
}

func Port() string {
	var port string
	if port = os.Getenv(VarPort); port == "" {
		port = "8080"
	}

	return port
}
