package relay

import (
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindConfiguration
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is the only error type the relay returns. Message is safe to show to
// clients; Err keeps the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error kind to the HTTP status returned to callers.
func (e *Error) Status() int {
	if e.Kind == KindConfiguration {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func configurationError(msg string) *Error {
	return &Error{Kind: KindConfiguration, Message: msg}
}

func upstreamError(prefix string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: prefix + ": " + err.Error(), Err: err}
}

func internalError(prefix string, err error) *Error {
	return &Error{Kind: KindInternal, Message: prefix + ": " + err.Error(), Err: err}
}
