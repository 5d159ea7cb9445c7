package upnperr

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeTransport indicates a socket or HTTP layer failure
	ErrTypeTransport ErrorType = iota
	// ErrTypeTimeout indicates a request or socket timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the device refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates the device answered with a non-2xx status
	ErrTypeHTTP
	// ErrTypeDescription indicates XML that violates the required structure
	ErrTypeDescription
	// ErrTypeValidation indicates a caller-supplied value the schema rejects
	ErrTypeValidation
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeDescription:
		return "Description Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// IsTransportClass reports whether the type belongs to the Transport class.
func (et ErrorType) IsTransportClass() bool {
	return et != ErrTypeDescription && et != ErrTypeValidation
}

// Error is returned by every discovery, description, schema and invocation
// operation that fails below the UPnP fault level.
type Error struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	Path           string              // Offending element path for description errors
	URL            string              // Request URL, when one was involved
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	Retryable      bool                // Informational; the library never retries
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.URL != "" {
		fmt.Fprintf(&b, " (%s)", e.URL)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes an error and returns a more specific error type
func ClassifyNetworkError(err error, target string) *Error {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &Error{
			Type:           ErrTypeTimeout,
			Message:        "request timed out",
			URL:            target,
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			Retryable:      true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			URL:            target,
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &Error{
				Type:           ErrTypeConnectionRefused,
				Message:        "device refused connection",
				URL:            target,
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				Retryable:      true,
			}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &Error{
				Type:           ErrTypeTransport,
				Message:        "host unreachable",
				URL:            target,
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				Retryable:      true,
			}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &Error{
				Type:           ErrTypeTransport,
				Message:        "network unreachable",
				URL:            target,
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				Retryable:      true,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if target == "" {
			target = urlErr.URL
		}
		return ClassifyNetworkError(urlErr.Err, target)
	}

	return &Error{
		Type:           ErrTypeTransport,
		Message:        "network error occurred",
		URL:            target,
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Retryable:      true,
	}
}

// NewTransportError creates a transport-level error with automatic classification
func NewTransportError(message, target string, err error) *Error {
	if classified := ClassifyNetworkError(err, target); classified != nil {
		classified.Message = message
		return classified
	}
	return &Error{
		Type:      ErrTypeTransport,
		Message:   message,
		URL:       target,
		Retryable: true,
	}
}

// NewHTTPError creates an error for a non-2xx response
func NewHTTPError(statusCode int, target string) *Error {
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		URL:        target,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewDescriptionError creates an error for XML that is present but unusable.
// path names the offending element, e.g. "root/device/UDN".
func NewDescriptionError(message, path string, err error) *Error {
	return &Error{
		Type:    ErrTypeDescription,
		Message: message,
		Path:    path,
		Err:     err,
	}
}

// NewValidationError creates an error for an argument value that does not
// match its declared type, allowed list or range
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

// IsTransport reports whether err is a Transport-class error (socket, HTTP
// status, timeout, DNS, refused).
func IsTransport(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type.IsTransportClass()
	}
	return false
}

// IsDescription reports whether err is a Description error.
func IsDescription(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrTypeDescription
	}
	return false
}

// IsValidation reports whether err is a Validation error.
func IsValidation(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrTypeValidation
	}
	return false
}

// IsHTTPStatus reports whether err carries the given HTTP status code.
func IsHTTPStatus(err error, code int) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode == code
	}
	return false
}

// IsRetryable reports whether a caller-level retry might succeed.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
