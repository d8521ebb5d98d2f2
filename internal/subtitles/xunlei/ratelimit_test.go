package xunlei

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"
)

func TestIsRetriable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("search: %w", context.DeadlineExceeded), true},
		{"canceled", context.Canceled, false},
		{"rate limited", errors.New("xunlei: search failed (429 Too Many Requests): slow down"), true},
		{"bad gateway", errors.New("xunlei: search failed (502 Bad Gateway): "), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"not found", errors.New("xunlei: subtitle download failed (404 Not Found): "), false},
		{"decode", errors.New("xunlei: decode search response: invalid character"), false},
		{"typed too many requests", &StatusError{Op: "search", StatusCode: 429, Status: "429 Too Many Requests"}, true},
		{"typed service unavailable", fmt.Errorf("wrapped: %w", &StatusError{Op: "subtitle download", StatusCode: 503, Status: "503 Service Unavailable"}), true},
		{"typed forbidden", &StatusError{Op: "subtitle download", StatusCode: 403, Status: "403 Forbidden", Body: "quota 429 reached"}, false},
		{"transport error on url with 429", fmt.Errorf("xunlei: fetch subtitle payload: %w", &url.Error{
			Op:  "Get",
			URL: "http://host.invalid/A4/29/a429bc.srt",
			Err: errors.New("dial tcp: lookup host.invalid: no such host"),
		}), false},
		{"transport error on url with 503", fmt.Errorf("xunlei: search request failed: %w", &url.Error{
			Op:  "Post",
			URL: "http://idx.test/503/search",
			Err: errors.New("tls: bad certificate"),
		}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetriable(tt.err); got != tt.want {
				t.Fatalf("IsRetriable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	want := []time.Duration{InitialBackoff, 2 * InitialBackoff, 4 * InitialBackoff, 8 * InitialBackoff, MaxBackoff, MaxBackoff}
	for i, expected := range want {
		if got := Backoff(i + 1); got != expected {
			t.Fatalf("Backoff(%d) = %s, want %s", i+1, got, expected)
		}
	}
	if got := Backoff(0); got != InitialBackoff {
		t.Fatalf("Backoff(0) = %s, want %s", got, InitialBackoff)
	}
}

func TestSleepWithContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SleepWithContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := SleepWithContext(context.Background(), 0); err != nil {
		t.Fatalf("expected nil for zero duration, got %v", err)
	}
}
