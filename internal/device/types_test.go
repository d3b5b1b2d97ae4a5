package device

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	cases := map[string]bool{
		"":                          false,
		"garbage":                   false,
		"2026-03-10T06:30:00Z":      true,
		"2026-03-10T06:30:00.5Z":    true,
		"2026-03-10T06:30:00+02:00": true,
		"2026-03-10 06:30:00":       true,
	}
	for in, ok := range cases {
		if got := parseTime(in); got.IsZero() == ok {
			t.Fatalf("parseTime(%q) = %v, want parsed=%v", in, got, ok)
		}
	}
}

func TestSleepRecord_SessionUsesLocalTime(t *testing.T) {
	rec := SleepRecord{StartTime: "2026-03-09T22:00:00Z", EndTime: "2026-03-10T06:00:00Z"}
	s, ok := rec.Session()
	if !ok {
		t.Fatalf("Session() ok = false, want true")
	}
	if s.Start.Location() != time.Local {
		t.Fatalf("Start location = %v, want Local", s.Start.Location())
	}
	if !s.Start.Equal(time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC)) {
		t.Fatalf("Start = %v, want 22:00Z", s.Start)
	}
}
