package geocode

import (
	"errors"
	"fmt"
)

// Kind tells apart the two ways a lookup can fail.
type Kind int

const (
	// KindTransport covers network failures, non-2xx responses and requests
	// the provider refused.
	KindTransport Kind = iota
	// KindParse covers undecodable bodies, missing fields and coordinates
	// that cannot be converted.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by every Geocoder.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func transportError(provider string, err error) error {
	return &Error{Kind: KindTransport, Provider: provider, Err: err}
}

func parseError(provider string, err error) error {
	return &Error{Kind: KindParse, Provider: provider, Err: err}
}

// IsTransport reports whether err is a geocoding transport failure.
func IsTransport(err error) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Kind == KindTransport
}

// IsParse reports whether err is a geocoding parse failure.
func IsParse(err error) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Kind == KindParse
}
