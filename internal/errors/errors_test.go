// Package errors provides unit tests for error code handling.
package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrStorageUnavailable, "store is closed")

	if err.Code != ErrStorageUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrStorageUnavailable)
	}
	if err.Message != "store is closed" {
		t.Errorf("Message = %q, want %q", err.Message, "store is closed")
	}
	if err.Err != nil {
		t.Errorf("Err should be nil, got %v", err.Err)
	}
}

func TestErrorFormat(t *testing.T) {
	err := New(ErrMalformedRecord, "bad payload")
	want := "[MALFORMED_RECORD] bad payload"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	inner := fmt.Errorf("unexpected end of JSON input")
	wrapped := Wrap(ErrMalformedRecord, "bad payload", inner)
	want = "[MALFORMED_RECORD] bad payload: unexpected end of JSON input"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}
}

func TestWrapUnwrap(t *testing.T) {
	inner := errors.New("disk I/O error")
	err := Wrap(ErrStorageUnavailable, "write failed", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
	if err.Unwrap() != inner {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), inner)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrRemoteFailed, "endpoint returned 502")

	if !Is(err, ErrRemoteFailed) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrRemoteTimeout) {
		t.Error("Is should not match a different code")
	}
	if Is(errors.New("plain"), ErrRemoteFailed) {
		t.Error("Is should not match a non-AppError")
	}
	if Is(nil, ErrRemoteFailed) {
		t.Error("Is should not match nil")
	}
}
