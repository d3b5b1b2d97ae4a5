package device

import (
	"time"

	"github.com/five82/slumber/internal/capability"
	"github.com/five82/slumber/internal/sleep"
)

const bridgeTimestampLayout = "2006-01-02 15:04:05"

// StatusResponse mirrors /api/sdk/status.
type StatusResponse struct {
	Status string `json:"status"`
}

// InitializeResponse mirrors /api/sdk/initialize.
type InitializeResponse struct {
	Initialized bool `json:"initialized"`
}

// PermissionsResponse mirrors /api/permissions.
type PermissionsResponse struct {
	Granted []capability.Grant `json:"granted"`
}

// RecordsResponse mirrors /api/records/SleepSession.
type RecordsResponse struct {
	Records []SleepRecord `json:"records"`
}

// SleepRecord is a sleep session in transport form.
type SleepRecord struct {
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Title        string `json:"title,omitempty"`
	AwakeSeconds int    `json:"awakeSeconds,omitempty"`
	Awakenings   int    `json:"awakenings,omitempty"`
}

// Session converts the record to local time. ok is false when either
// timestamp is missing or unparseable, or when the record ends before it
// starts.
func (r SleepRecord) Session() (sleep.Session, bool) {
	start := parseTime(r.StartTime)
	end := parseTime(r.EndTime)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return sleep.Session{}, false
	}
	return sleep.Session{
		Start:        start.Local(),
		End:          end.Local(),
		Title:        r.Title,
		AwakeSeconds: r.AwakeSeconds,
		Awakenings:   r.Awakenings,
	}, true
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(bridgeTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
