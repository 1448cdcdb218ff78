package sharing

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure surfaced by this client. The set is
// closed: each collaborator failure is wrapped into exactly one kind at the
// point it is first observed.
type ErrorKind int

const (
	// ErrorKindInternal marks programmer or invariant violations, such as
	// malformed URL construction or an unexpected status code.
	ErrorKindInternal ErrorKind = iota

	// ErrorKindProfile marks credential problems: unreadable or invalid
	// profile files, missing tokens, expired tokens.
	ErrorKindProfile

	// ErrorKindRequest marks transport-layer failures: connect, TLS,
	// timeout, cancellation.
	ErrorKindRequest

	// ErrorKindParseResponse marks any response body or header that did not
	// match the expected shape.
	ErrorKindParseResponse

	// ErrorKindClient marks 4xx responses; the error carries the original
	// status and the server-supplied error code.
	ErrorKindClient

	// ErrorKindServer marks 5xx responses, with status and server code.
	ErrorKindServer
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindInternal:
		return "INTERNAL_ERROR"
	case ErrorKindProfile:
		return "PROFILE_ERROR"
	case ErrorKindRequest:
		return "REQUEST_ERROR"
	case ErrorKindParseResponse:
		return "PARSE_RESPONSE_ERROR"
	case ErrorKindClient:
		return "CLIENT_ERROR"
	case ErrorKindServer:
		return "SERVER_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Error is the error type returned by every operation of this client.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int    // set for client and server kinds
	ErrorCode  string // server-supplied error code, if any
	Err        error  // wrapped cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	var msg string

	switch e.Kind {
	case ErrorKindClient, ErrorKindServer:
		msg = fmt.Sprintf("[%s] %d %s: %s", e.Kind, e.StatusCode, e.ErrorCode, e.Message)
	default:
		msg = fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the error is a 404 client error.
func (e *Error) IsNotFound() bool {
	return e.Kind == ErrorKindClient && e.StatusCode == http.StatusNotFound
}

// WithCause attaches an underlying cause and returns the error for chaining.
func (e *Error) WithCause(err error) *Error {
	e.Err = err

	return e
}

// NewInternalError creates an internal-kind error.
func NewInternalError(message string) *Error {
	return &Error{Kind: ErrorKindInternal, Message: message}
}

// NewProfileError creates a profile-kind error.
func NewProfileError(message string) *Error {
	return &Error{Kind: ErrorKindProfile, Message: message}
}

// NewRequestError creates a request-kind error.
func NewRequestError(message string) *Error {
	return &Error{Kind: ErrorKindRequest, Message: message}
}

// NewParseResponseError creates a parse-response-kind error.
func NewParseResponseError(message string) *Error {
	return &Error{Kind: ErrorKindParseResponse, Message: message}
}

// NewClientError creates a client-kind error for a 4xx response.
func NewClientError(statusCode int, errorCode, message string) *Error {
	return &Error{
		Kind:       ErrorKindClient,
		Message:    message,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

// NewServerError creates a server-kind error for a 5xx response.
func NewServerError(statusCode int, errorCode, message string) *Error {
	return &Error{
		Kind:       ErrorKindServer,
		Message:    message,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

// Common static errors that can be wrapped with context.
var (
	ErrNoMoreItems = errors.New("no more items")

	ErrConfigRequired      = errors.New("config is required")
	ErrEndpointRequired    = errors.New("endpoint is required")
	ErrCredentialsRequired = errors.New("no credentials configured: set a token provider, a profile, or a bearer token")
)

// KindOf extracts the error kind from an error chain.
func KindOf(err error) (ErrorKind, bool) {
	sharingErr := &Error{}
	if errors.As(err, &sharingErr) {
		return sharingErr.Kind, true
	}

	return 0, false
}

// IsNotFound checks if the error is a 404 client error.
func IsNotFound(err error) bool {
	sharingErr := &Error{}
	if errors.As(err, &sharingErr) {
		return sharingErr.IsNotFound()
	}

	return false
}

// IsUnauthorized checks if the error is a 401 client error.
func IsUnauthorized(err error) bool {
	sharingErr := &Error{}
	if errors.As(err, &sharingErr) {
		return sharingErr.Kind == ErrorKindClient && sharingErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the error is a 403 client error.
func IsForbidden(err error) bool {
	sharingErr := &Error{}
	if errors.As(err, &sharingErr) {
		return sharingErr.Kind == ErrorKindClient && sharingErr.StatusCode == http.StatusForbidden
	}

	return false
}

// IsProfileError checks if the error is a credential problem.
func IsProfileError(err error) bool {
	kind, ok := KindOf(err)

	return ok && kind == ErrorKindProfile
}

// ErrorResponse is the error envelope returned by sharing servers for
// classified 4xx/5xx responses.
type ErrorResponse struct {
	ErrorCode string `json:"errorCode" yaml:"errorCode"`
	Message   string `json:"message"   yaml:"message"`
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrorCode, e.Message)
}
