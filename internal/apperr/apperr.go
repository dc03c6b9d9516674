// Package apperr is the error taxonomy shared by the domain packages and the HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindClient
	KindNotFound
	KindAuth
	KindUpstreamRequest
	KindUpstream
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindUpstreamRequest:
		return "upstream_request"
	case KindUpstream:
		return "upstream"
	case KindNotification:
		return "notification"
	default:
		return "unexpected"
	}
}

// Status is the HTTP status code a Kind is reported with.
func (k Kind) Status() int {
	switch k {
	case KindClient, KindUpstreamRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a Kind, a stable Code and a client-safe Message. Err is the
// underlying cause and is only ever logged.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Code, so package sentinels survive WithCause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of e carrying err as its cause.
func (e *Error) WithCause(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// From classifies any error. Errors outside the taxonomy become KindUnexpected.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: KindUnexpected, Code: "unexpected", Message: "Internal server error", Err: err}
}

func KindOf(err error) Kind { return From(err).Kind }
