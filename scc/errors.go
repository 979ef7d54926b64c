package scc

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors, matched with errors.Is against an *Error.
var (
	// ErrTransport indicates the HTTP exchange could not be completed
	ErrTransport = errors.New("scc: transport failure")
	// ErrStatus indicates SCC answered with a non-success status
	ErrStatus = errors.New("scc: non-success response")
	// ErrDecode indicates the response body did not match the expected shape
	ErrDecode = errors.New("scc: decode failure")
)

// ErrorKind classifies the cause of an Error.
type ErrorKind int

const (
	// KindTransport covers DNS, connection and transport timeout failures
	KindTransport ErrorKind = iota + 1
	// KindStatus covers non-2xx responses
	KindStatus
	// KindDecode covers invalid JSON and shape mismatches
	KindDecode
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindStatus:
		return ErrStatus
	case KindDecode:
		return ErrDecode
	default:
		return nil
	}
}

// Error is returned by every failed Client call.
type Error struct {
	Kind       ErrorKind
	Method     string
	URL        string
	StatusCode int    // set for KindStatus, and for KindDecode when a response was received
	Body       string // raw response body, when one was received
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Body != "" {
			return fmt.Sprintf("scc API error: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, truncate(e.Body, maxErrorBody))
		}
		return fmt.Sprintf("scc API error: %s %s: status %d", e.Method, e.URL, e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("scc API error: %s %s: failed to decode response: %v", e.Method, e.URL, e.Err)
	default:
		return fmt.Sprintf("scc API error: %s %s: request failed: %v", e.Method, e.URL, e.Err)
	}
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the error's kind
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// IsUnauthorized checks if the error indicates rejected credentials
func (e *Error) IsUnauthorized() bool {
	return e.Kind == KindStatus && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// IsNotFound checks if the error indicates a not found response
func (e *Error) IsNotFound() bool {
	return e.Kind == KindStatus && e.StatusCode == http.StatusNotFound
}

// Temporary reports whether repeating the call later may succeed.
func (e *Error) Temporary() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindStatus:
		return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

// AsError extracts an *Error from err's chain
func AsError(err error) (*Error, bool) {
	var sccErr *Error
	if errors.As(err, &sccErr) {
		return sccErr, true
	}
	return nil, false
}
