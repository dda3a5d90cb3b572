package apiclient

import (
	"errors"
	"testing"
	"time"
)

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"integer seconds", "120", 120},
		{"zero", "0", 0},
		{"negative floors at zero", "-5", 0},
		{"absent defaults", "", 60},
		{"garbage defaults", "soon", 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRetryAfter(tt.value); got != tt.want {
				t.Errorf("ParseRetryAfter(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseRetryAfterHTTPDate(t *testing.T) {
	future := time.Now().Add(90 * time.Second).UTC().Format(time.RFC1123)
	got := ParseRetryAfter(future)
	if got < 85 || got > 90 {
		t.Errorf("ParseRetryAfter(date) = %d, want ~90", got)
	}

	past := time.Now().Add(-time.Minute).UTC().Format(time.RFC1123)
	if got := ParseRetryAfter(past); got != 0 {
		t.Errorf("ParseRetryAfter(past date) = %d, want 0", got)
	}
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"authentication with message", &AuthenticationError{Message: "session expired"}, "session expired"},
		{"authentication without message", &AuthenticationError{}, "authentication required"},
		{"validation", &ValidationError{Message: "front too long"}, "front too long"},
		{"api error fallback", &APIError{Status: 500}, "api error: status 500"},
		{"plain error", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorMessage(tt.err); got != tt.want {
				t.Errorf("GetErrorMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNetworkErrorUnwraps(t *testing.T) {
	inner := errors.New("connection refused")
	err := &NetworkError{Err: inner}
	if !errors.Is(err, inner) {
		t.Error("NetworkError should unwrap to the transport error")
	}
}
