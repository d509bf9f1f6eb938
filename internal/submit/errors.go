package submit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of a submission failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the receiver did not answer in time
	ErrTypeTimeout
	// ErrTypeHTTP indicates a non-2xx HTTP response
	ErrTypeHTTP
	// ErrTypeRejected indicates the receiver answered and refused the submission
	ErrTypeRejected
	// ErrTypeCanceled indicates the caller abandoned the submission
	ErrTypeCanceled
	// ErrTypeEncode indicates the form could not be serialized
	ErrTypeEncode
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeRejected:
		return "Rejected"
	case ErrTypeCanceled:
		return "Canceled"
	case ErrTypeEncode:
		return "Encode Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error describes why a submission did not complete
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether another attempt may succeed
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyError analyzes a transport error and returns a typed Error
func ClassifyError(message string, err error) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Type: ErrTypeCanceled, Message: message, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &Error{Type: ErrTypeTimeout, Message: message, Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Error{Type: ErrTypeTimeout, Message: message, Err: err, Retryable: true}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &Error{Type: ErrTypeNetwork, Message: message + ": connection refused", Err: err, Retryable: true}
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Type: ErrTypeNetwork, Message: message + ": cannot resolve " + dnsErr.Name, Err: err}
	}

	return &Error{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: true}
}

// NewHTTPError creates an error for a non-2xx response.
// Server errors are retryable, client errors are not.
func NewHTTPError(statusCode int, message string) *Error {
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewRejectedError creates an error for an explicit refusal by the receiver
func NewRejectedError(reason string) *Error {
	return &Error{Type: ErrTypeRejected, Message: reason}
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var subErr *Error
	if errors.As(err, &subErr) {
		return subErr.Retryable
	}
	return false
}

// IsCanceled reports whether the submission was abandoned by the caller
func IsCanceled(err error) bool {
	var subErr *Error
	if errors.As(err, &subErr) {
		return subErr.Type == ErrTypeCanceled
	}
	return errors.Is(err, context.Canceled)
}

// ShortMessage returns a concise description for logs and the CLI
func ShortMessage(err error) string {
	var subErr *Error
	if !errors.As(err, &subErr) {
		return err.Error()
	}

	switch subErr.Type {
	case ErrTypeTimeout:
		return "Receiver not responding (timeout)"
	case ErrTypeNetwork:
		return "Network error - check the submit URL"
	case ErrTypeHTTP:
		return fmt.Sprintf("Receiver error (HTTP %d)", subErr.StatusCode)
	case ErrTypeRejected:
		return "Submission rejected: " + subErr.Message
	case ErrTypeCanceled:
		return "Submission canceled"
	default:
		return subErr.Message
	}
}
