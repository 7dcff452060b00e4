package football

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed fetch.
type ErrorKind string

const (
	// KindNetwork covers transport-level failures and API-reported errors.
	KindNetwork ErrorKind = "network_error"
	// KindTimeout means the hard wall-clock ceiling was exceeded and the
	// worker was terminated.
	KindTimeout ErrorKind = "timeout"
	// KindMalformed means the response could not be parsed as the
	// expected structure.
	KindMalformed ErrorKind = "malformed"
)

// Error is the typed outcome of a failed fetch. Every outbound call
// yields either a payload or exactly one of these; callers must never
// treat it as an empty-but-valid result.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("football api %s: %s", e.Kind, e.Detail)
}

// KindOf extracts the error kind, or "" for a nil or foreign error.
func KindOf(err error) ErrorKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
