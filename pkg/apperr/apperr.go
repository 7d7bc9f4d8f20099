// Package apperr classifies application errors so transport code can map
// them to client or server failures without string matching.
package apperr

import (
	"errors"
	"net/http"
)

// Kind partitions errors into the categories the API distinguishes.
type Kind uint8

const (
	// KindInternal is any failure the client cannot fix (storage faults,
	// programming errors). The default for unclassified errors.
	KindInternal Kind = iota
	// KindInvalid marks malformed input, e.g. a name that slugifies to "".
	KindInvalid
	// KindNotFound marks a missing or inactive record.
	KindNotFound
	// KindConflict marks a uniqueness violation: occupied SKU, duplicate
	// review, or a storage-level duplicate key.
	KindConflict
)

// Error is a classified application error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional cause
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid returns a KindInvalid error with the given client-facing message.
func Invalid(msg string) error { return &Error{Kind: KindInvalid, Msg: msg} }

// NotFound returns a KindNotFound error with the given client-facing message.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// Conflict returns a KindConflict error with the given client-facing message.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// Internal wraps a cause as a server-side failure. msg is safe to show to
// clients; err is for logs only.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf reports the Kind of err, or KindInternal when err is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsInvalid(err error) bool  { return KindOf(err) == KindInvalid }
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
