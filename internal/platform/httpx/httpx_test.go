package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unknown", errors.New("connection reset"), true},
		{"client timeout", fmt.Errorf("post: %w", context.DeadlineExceeded), true},
		{"server error", &StatusError{Service: "x", StatusCode: http.StatusBadGateway}, true},
		{"rate limited", &StatusError{Service: "x", StatusCode: http.StatusTooManyRequests}, true},
		{"unauthorized", &StatusError{Service: "x", StatusCode: http.StatusUnauthorized}, false},
		{"not found", fmt.Errorf("wrapped: %w", &StatusError{Service: "x", StatusCode: http.StatusNotFound}), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
	}
}
