// Package errs defines the closed set of error kinds the poll loop
// dispatches on. Callers match with errors.Is/KindOf, never on message text.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig: required settings are missing. Fatal before the loop starts.
	KindConfig
	// KindAuth: the credential renewal exchange failed.
	KindAuth
	// KindUpstream: transport or HTTP failure on a remote read.
	KindUpstream
	// KindParse: a remote response had an unexpected shape.
	KindParse
	// KindDelivery: the webhook send failed.
	KindDelivery
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindUpstream:
		return "upstream"
	case KindParse:
		return "parse"
	case KindDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Error tags an underlying error with a Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with the given kind.
func New(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// Newf wraps a formatted message with the given kind.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind tagged on err, walking the wrap chain.
// Untagged errors report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
