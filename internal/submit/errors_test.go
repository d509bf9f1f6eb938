package submit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeTimeout, "Timeout"},
		{ErrTypeHTTP, "HTTP Error"},
		{ErrTypeRejected, "Rejected"},
		{ErrTypeCanceled, "Canceled"},
		{ErrTypeEncode, "Encode Error"},
		{ErrorType(99), "ErrorType(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.errType.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err := &Error{Type: ErrTypeNetwork, Message: "failed to connect"}
	if got := err.Error(); got != "Network Error: failed to connect" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := &Error{Type: ErrTypeTimeout, Message: "slow", Err: context.DeadlineExceeded}
	want := "Timeout: slow (caused by: context deadline exceeded)"
	if got := wrapped.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, context.DeadlineExceeded) {
		t.Error("Unwrap should expose the underlying error")
	}
}

func TestClassifyError(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	dns := &net.DNSError{Err: "no such host", Name: "receiver.invalid"}
	existing := NewRejectedError("duplicate")

	tests := []struct {
		name          string
		err           error
		wantType      ErrorType
		wantRetryable bool
	}{
		{"canceled", context.Canceled, ErrTypeCanceled, false},
		{"wrapped canceled", fmt.Errorf("post: %w", context.Canceled), ErrTypeCanceled, false},
		{"deadline", context.DeadlineExceeded, ErrTypeTimeout, true},
		{"connection refused", refused, ErrTypeNetwork, true},
		{"dns failure", dns, ErrTypeNetwork, false},
		{"unknown", errors.New("boom"), ErrTypeNetwork, true},
		{"already typed", existing, ErrTypeRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError("submit", tt.err)
			if got == nil {
				t.Fatal("ClassifyError returned nil")
			}
			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.wantRetryable)
			}
		})
	}

	if ClassifyError("submit", nil) != nil {
		t.Error("ClassifyError(nil) should return nil")
	}
}

func TestNewHTTPError(t *testing.T) {
	if err := NewHTTPError(503, "unavailable"); !err.Retryable {
		t.Error("5xx should be retryable")
	}
	if err := NewHTTPError(400, "bad request"); err.Retryable {
		t.Error("4xx should not be retryable")
	}
}

func TestIsRetryableAndCanceled(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
	if !IsRetryable(fmt.Errorf("wrapped: %w", NewHTTPError(500, "x"))) {
		t.Error("wrapped 5xx should be retryable")
	}
	if !IsCanceled(context.Canceled) {
		t.Error("context.Canceled should count as canceled")
	}
	if !IsCanceled(ClassifyError("x", context.Canceled)) {
		t.Error("classified cancel should count as canceled")
	}
	if IsCanceled(NewRejectedError("no")) {
		t.Error("rejection is not a cancel")
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", &Error{Type: ErrTypeTimeout}, "Receiver not responding (timeout)"},
		{"network", &Error{Type: ErrTypeNetwork}, "Network error - check the submit URL"},
		{"http", NewHTTPError(502, "bad gateway"), "Receiver error (HTTP 502)"},
		{"rejected", NewRejectedError("duplicate"), "Submission rejected: duplicate"},
		{"canceled", &Error{Type: ErrTypeCanceled}, "Submission canceled"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortMessage(tt.err); got != tt.want {
				t.Errorf("ShortMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
