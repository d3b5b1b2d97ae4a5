package sleep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/five82/slumber/internal/capability"
)

// ErrPermissionDenied means the sleep permission is not granted. Fetches
// failing with it are not retried.
var ErrPermissionDenied = errors.New("sleep permission not granted")

// Source produces the current daily summary. A nil summary with a nil error
// means there is no data yet.
type Source interface {
	Daily(ctx context.Context) (*DailySummary, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*DailySummary, error)

func (f SourceFunc) Daily(ctx context.Context) (*DailySummary, error) { return f(ctx) }

// RangeSource scores every session in [start, end].
type RangeSource interface {
	Range(ctx context.Context, start, end time.Time) ([]DailySummary, error)
}

// RangeSourceFunc adapts a function to RangeSource.
type RangeSourceFunc func(ctx context.Context, start, end time.Time) ([]DailySummary, error)

func (f RangeSourceFunc) Range(ctx context.Context, start, end time.Time) ([]DailySummary, error) {
	return f(ctx, start, end)
}

// SessionReader reads sleep sessions overlapping [start, end].
type SessionReader interface {
	SleepSessions(ctx context.Context, start, end time.Time) ([]Session, error)
}

// PermissionChecker reports whether a record type is granted.
type PermissionChecker interface {
	HasPermission(ctx context.Context, kind string) bool
}

// HealthSource aggregates summaries from device sleep sessions.
type HealthSource struct {
	Sessions    SessionReader
	Permissions PermissionChecker
	Now         func() time.Time // nil uses time.Now
}

// Daily reads sessions from 18:00 yesterday until now and summarizes the one
// that ended last.
func (h HealthSource) Daily(ctx context.Context) (*DailySummary, error) {
	now := h.now()
	sessions, err := h.read(ctx, Window(now), now)
	if err != nil {
		return nil, err
	}
	return Summarize(sessions), nil
}

// Range reads sessions in [start, end] and scores each of them.
func (h HealthSource) Range(ctx context.Context, start, end time.Time) ([]DailySummary, error) {
	sessions, err := h.read(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return SummarizeAll(sessions), nil
}

func (h HealthSource) read(ctx context.Context, start, end time.Time) ([]Session, error) {
	if h.Sessions == nil {
		return nil, fmt.Errorf("no session reader configured")
	}
	if h.Permissions != nil && !h.Permissions.HasPermission(ctx, capability.RecordSleepSession) {
		return nil, ErrPermissionDenied
	}
	sessions, err := h.Sessions.SleepSessions(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("read sleep sessions: %w", err)
	}
	return sessions, nil
}

func (h HealthSource) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Window returns the start of the daily window ending at now: 18:00 on the
// previous day, in now's location.
func Window(now time.Time) time.Time {
	y, m, d := now.AddDate(0, 0, -1).Date()
	return time.Date(y, m, d, 18, 0, 0, 0, now.Location())
}

// WeekStart is seven days before now, at the same clock time.
func WeekStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -7)
}

// MonthStart is one calendar month before now. Days past the end of the
// earlier month roll over, so March 31 maps to March 3 (or 2 in leap years).
func MonthStart(now time.Time) time.Time {
	return now.AddDate(0, -1, 0)
}
