package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidCapacity, "capacity must be positive, got %v", -1)

	if err.Code != ErrCodeInvalidCapacity {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidCapacity)
	}

	if err.Message != "capacity must be positive, got -1" {
		t.Errorf("Message = %v, want %v", err.Message, "capacity must be positive, got -1")
	}

	expected := "INVALID_CAPACITY: capacity must be positive, got -1"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("no such file")
	err := Wrap(ErrCodeFileNotFound, cause, "open %s", "items.toml")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "FILE_NOT_FOUND: open items.toml: no such file"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeResourceExhausted, "stack of %d frames", 4096)
	outer := fmt.Errorf("solve: %w", inner)

	if !Is(outer, ErrCodeResourceExhausted) {
		t.Error("Is should find the code through fmt.Errorf wrapping")
	}
	if Is(outer, ErrCodeInternal) {
		t.Error("Is should not match a different code")
	}
	if Is(errors.New("plain"), ErrCodeInternal) {
		t.Error("Is should be false for plain errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeUnsupported, "x")); got != ErrCodeUnsupported {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeUnsupported)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "bad count")); got != "bad count" {
		t.Errorf("UserMessage() = %q, want %q", got, "bad count")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidItem, http.StatusBadRequest},
		{ErrCodeInvalidCapacity, http.StatusBadRequest},
		{ErrCodeInvalidAlgorithm, http.StatusBadRequest},
		{ErrCodeInvalidFormat, http.StatusBadRequest},
		{ErrCodeFileNotFound, http.StatusNotFound},
		{ErrCodeUnsupported, http.StatusUnprocessableEntity},
		{ErrCodeResourceExhausted, http.StatusInsufficientStorage},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.code); got != tt.want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
