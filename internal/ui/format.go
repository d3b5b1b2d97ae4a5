package ui

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/five82/slumber/internal/sleep"
)

// humanizeDuration formats an age as "just now", "5m ago", "3h ago" or "2d ago".
func humanizeDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

// formatHours formats fractional hours as "7h 30m".
func formatHours(hours float64) string {
	if hours <= 0 || math.IsNaN(hours) {
		return "0m"
	}
	total := int(math.Round(hours * 60))
	h, m := total/60, total%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func qualityPercent(q float64) int {
	return int(math.Round(clamp01(q) * 100))
}

// qualityBar renders q (0..1) as a bar of width cells.
func qualityBar(q float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(clamp01(q) * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "returned status"):
		return "BAD RESPONSE"
	default:
		return "ERROR"
	}
}

func isPermissionDenied(err error) bool {
	return errors.Is(err, sleep.ErrPermissionDenied)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
