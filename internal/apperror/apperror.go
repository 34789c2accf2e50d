// Package apperror defines the error taxonomy shared by the service layer
// and the HTTP surface. Handlers translate kinds to status codes; services
// only wrap causes with a kind.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindUnknown is the zero value; treated as an internal failure.
	KindUnknown Kind = iota
	// KindInvalidRequest: bad or missing input, client's fault, not retryable as-is.
	KindInvalidRequest
	// KindNotFound: a referenced kit (or other entity) is absent.
	KindNotFound
	// KindUnauthorized: signature or credential check failed, never processed.
	KindUnauthorized
	// KindInvalidPayload: malformed event content, acknowledged but not retried.
	KindInvalidPayload
	// KindUpstream: payment-provider call failed, transient.
	KindUpstream
	// KindStorage: persistence layer failed, transient, provider should retry.
	KindStorage
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf walks the error chain and reports the outermost app-error kind,
// or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error kind to the status the initiation-side API
// returns. The webhook endpoint has its own mapping (provider-facing
// retry semantics differ from end-user responses).
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidRequest, KindInvalidPayload:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
