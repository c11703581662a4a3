package types

import "net/http"

// ErrorKind classifies a request failure. Every failure the dispatcher can
// produce maps onto exactly one kind; the transports translate kinds into
// JSON-RPC codes and HTTP statuses.
type ErrorKind string

const (
	ErrInvalidRequest ErrorKind = "INVALID_REQUEST"
	ErrInvalidParams  ErrorKind = "INVALID_PARAMS"
	ErrMethodNotFound ErrorKind = "METHOD_NOT_FOUND"
	ErrInternal       ErrorKind = "INTERNAL_ERROR"
)

// JSONRPCCode returns the JSON-RPC 2.0 error code for the kind.
func (k ErrorKind) JSONRPCCode() int {
	switch k {
	case ErrInvalidRequest:
		return -32600
	case ErrMethodNotFound:
		return -32601
	case ErrInvalidParams:
		return -32602
	default:
		return -32603
	}
}

// HTTPStatus returns the status used when the failure is rendered on the
// REST shape.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case ErrInvalidRequest, ErrInvalidParams:
		return http.StatusBadRequest
	case ErrMethodNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Failure is a typed request failure. Data carries user-visible diagnostics
// such as the missing parameter names and an example call, never internal
// stack traces.
type Failure struct {
	Kind    ErrorKind              `json:"kind"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func (f *Failure) Error() string {
	return f.Message
}

// NewFailure builds a Failure with no diagnostic data.
func NewFailure(kind ErrorKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}
