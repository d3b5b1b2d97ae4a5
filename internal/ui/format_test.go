package ui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/five82/slumber/internal/sleep"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"negative", -5 * time.Second, "just now"},
		{"seconds", 12 * time.Second, "just now"},
		{"minutes", 61 * time.Second, "1m ago"},
		{"hours", 2*time.Hour + 10*time.Minute, "2h ago"},
		{"days", 49 * time.Hour, "2d ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := humanizeDuration(tc.in); got != tc.want {
				t.Fatalf("humanizeDuration(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatHours(t *testing.T) {
	cases := map[float64]string{
		0:     "0m",
		-1:    "0m",
		0.25:  "15m",
		7.5:   "7h 30m",
		8:     "8h 0m",
		6.999: "7h 0m",
	}
	for in, want := range cases {
		if got := formatHours(in); got != want {
			t.Fatalf("formatHours(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestQualityBar(t *testing.T) {
	if got := qualityBar(0.5, 4); got != "██░░" {
		t.Fatalf("qualityBar(0.5, 4) = %q", got)
	}
	if got := qualityBar(1.7, 3); got != "███" {
		t.Fatalf("qualityBar clamps high values, got %q", got)
	}
	if got := qualityBar(-1, 2); got != "░░" {
		t.Fatalf("qualityBar clamps low values, got %q", got)
	}
	if got := qualityPercent(0.826); got != 83 {
		t.Fatalf("qualityPercent(0.826) = %d, want 83", got)
	}
}

func TestClassifyConnectionError(t *testing.T) {
	cases := map[string]string{
		"dial tcp 127.0.0.1:8765: connect: connection refused": "OFFLINE",
		"lookup bridge: no such host":                          "HOST NOT FOUND",
		"context deadline exceeded":                            "TIMEOUT",
		"api /api/permissions returned status 503":             "BAD RESPONSE",
		"boom":                                                 "ERROR",
	}
	for msg, want := range cases {
		if got := classifyConnectionError(errors.New(msg)); got != want {
			t.Fatalf("classifyConnectionError(%q) = %q, want %q", msg, got, want)
		}
	}
	if got := classifyConnectionError(nil); got != "" {
		t.Fatalf("classifyConnectionError(nil) = %q, want empty", got)
	}
}

func TestDescribeFetchError_WrappedPermission(t *testing.T) {
	err := fmt.Errorf("fetch: %w", sleep.ErrPermissionDenied)
	if got := describeFetchError(err); got != "Sleep permission not granted" {
		t.Fatalf("describeFetchError = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "a..." {
		t.Fatalf("truncate = %q, want a...", got)
	}
	if got := truncate("ab", 4); got != "ab" {
		t.Fatalf("truncate short = %q, want ab", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("truncate tiny = %q, want ab", got)
	}
}
