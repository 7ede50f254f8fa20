// Package settings provides the host settings that control geocoding
// diagnostics.
package settings

import (
	"log/slog"

	"github.com/manzanit0/geocoding/pkg/env"
	"github.com/manzanit0/geocoding/pkg/geocode"
)

// KeyWriteDebug is the setting that enables request URL logging.
const KeyWriteDebug = "PythonPlugins/GeoCoding/writeDebug"

// Static always answers with the same value.
type Static bool

var _ geocode.Settings = Static(false)

func (s Static) DebugLoggingEnabled() bool { return bool(s) }

// Env reads GEOCODING_WRITE_DEBUG on every call so it can be flipped on a
// running process.
type Env struct{}

var _ geocode.Settings = Env{}

func (Env) DebugLoggingEnabled() bool {
	enabled, err := env.WriteDebug()
	if err != nil {
		slog.Warn("invalid debug setting, assuming disabled", "error", err.Error())
		return false
	}

	return enabled
}
