package sleep

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/five82/slumber/internal/observe"
)

const (
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 10 * time.Second
)

// Status is the state of the daily summary fetch.
type Status int

const (
	// StatusPending means no fetch has completed yet.
	StatusPending Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Snapshot is the observable state of the store.
type Snapshot struct {
	Status  Status
	Summary *DailySummary // nil: no data

	LastErr             error
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// HasData reports whether a summary is present.
func (s Snapshot) HasData() bool {
	return s.Summary != nil
}

// Stale reports whether the visible summary predates a failed fetch.
func (s Snapshot) Stale() bool {
	return s.Status == StatusFailed && s.Summary != nil
}

// Period selects a multi-day history fetch.
type Period int

const (
	PeriodWeekly Period = iota
	PeriodMonthly
)

func (p Period) String() string {
	if p == PeriodMonthly {
		return "monthly"
	}
	return "weekly"
}

// Start returns the first instant of the period ending at now.
func (p Period) Start(now time.Time) time.Time {
	if p == PeriodMonthly {
		return MonthStart(now)
	}
	return WeekStart(now)
}

// RangeSnapshot is the observable state of one period's history.
type RangeSnapshot struct {
	Status    Status
	Summaries []DailySummary // ordered by start; empty when none recorded

	LastErr             error
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// Options configure a Store.
type Options struct {
	Source     Source
	Ranges     RangeSource   // nil: Source is used when it implements RangeSource
	Attempts   int           // per fetch; zero uses 3
	RetryDelay time.Duration // first backoff step; zero uses 500ms
	Now        func() time.Time
	Logger     *zap.Logger
}

// Store owns the daily summary and the weekly and monthly history.
type Store struct {
	source     Source
	ranges     RangeSource
	attempts   int
	retryDelay time.Duration
	now        func() time.Time
	logger     *zap.Logger
	topic      *observe.Topic[Snapshot]
	flight     singleflight.Group

	mu       sync.RWMutex
	snapshot Snapshot
	history  [2]RangeSnapshot // indexed by Period
}

// NewStore returns a store with no data.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("sleep")
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	ranges := opts.Ranges
	if ranges == nil {
		ranges, _ = opts.Source.(RangeSource)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		source:     opts.Source,
		ranges:     ranges,
		attempts:   attempts,
		retryDelay: delay,
		now:        now,
		logger:     logger,
		topic:      observe.NewTopic[Snapshot]("sleep", logger),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Summary = s.snapshot.Summary.clone()
	return snap
}

// Daily returns the current summary, or false when there is none.
func (s *Store) Daily() (*DailySummary, bool) {
	snap := s.Snapshot()
	return snap.Summary, snap.Summary != nil
}

// Subscribe streams snapshots until ctx is cancelled.
func (s *Store) Subscribe(ctx context.Context) <-chan Snapshot {
	ch, _ := s.topic.Subscribe(ctx)
	return ch
}

// FetchDaily refreshes the summary, retrying transient failures. Concurrent
// calls share one fetch. On failure the previous summary stays visible and
// the snapshot reports StatusFailed.
func (s *Store) FetchDaily(ctx context.Context) Snapshot {
	_, _, _ = s.flight.Do("daily", func() (any, error) {
		s.fetch(ctx)
		return nil, nil
	})
	return s.Snapshot()
}

func (s *Store) fetch(ctx context.Context) {
	s.update(func(snap *Snapshot) { snap.Status = StatusLoading })

	summary, err := s.fetchWithRetry(ctx)
	if err != nil {
		s.logger.Warn("daily summary fetch failed", zap.Error(err))
		s.update(func(snap *Snapshot) {
			snap.Status = StatusFailed
			snap.LastErr = err
			snap.LastUpdated = time.Now()
			snap.ConsecutiveFailures++
		})
		return
	}

	s.logger.Debug("daily summary fetched", zap.Bool("has_data", summary != nil))
	s.update(func(snap *Snapshot) {
		snap.Status = StatusReady
		snap.Summary = summary
		snap.LastErr = nil
		snap.LastUpdated = time.Now()
		snap.ConsecutiveFailures = 0
	})
}

func (s *Store) fetchWithRetry(ctx context.Context) (*DailySummary, error) {
	if s.source == nil {
		return nil, fmt.Errorf("no daily summary source configured")
	}
	return retry(ctx, s, "daily summary", s.source.Daily)
}

// FetchWeekly refreshes the sessions of the last seven days.
func (s *Store) FetchWeekly(ctx context.Context) RangeSnapshot {
	return s.fetchPeriod(ctx, PeriodWeekly)
}

// FetchMonthly refreshes the sessions of the last calendar month.
func (s *Store) FetchMonthly(ctx context.Context) RangeSnapshot {
	return s.fetchPeriod(ctx, PeriodMonthly)
}

// Weekly returns the last fetched weekly history.
func (s *Store) Weekly() RangeSnapshot { return s.History(PeriodWeekly) }

// Monthly returns the last fetched monthly history.
func (s *Store) Monthly() RangeSnapshot { return s.History(PeriodMonthly) }

// History returns a copy of the state for p.
func (s *Store) History(p Period) RangeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.history[p]
	snap.Summaries = cloneAll(snap.Summaries)
	return snap
}

func (s *Store) fetchPeriod(ctx context.Context, p Period) RangeSnapshot {
	_, _, _ = s.flight.Do(p.String(), func() (any, error) {
		s.updateHistory(p, func(snap *RangeSnapshot) { snap.Status = StatusLoading })

		summaries, err := s.rangeWithRetry(ctx, p)
		if err != nil {
			s.logger.Warn("history fetch failed", zap.Stringer("period", p), zap.Error(err))
			s.updateHistory(p, func(snap *RangeSnapshot) {
				snap.Status = StatusFailed
				snap.LastErr = err
				snap.LastUpdated = time.Now()
				snap.ConsecutiveFailures++
			})
			return nil, nil
		}

		s.logger.Debug("history fetched", zap.Stringer("period", p), zap.Int("sessions", len(summaries)))
		s.updateHistory(p, func(snap *RangeSnapshot) {
			snap.Status = StatusReady
			snap.Summaries = summaries
			snap.LastErr = nil
			snap.LastUpdated = time.Now()
			snap.ConsecutiveFailures = 0
		})
		return nil, nil
	})
	return s.History(p)
}

func (s *Store) rangeWithRetry(ctx context.Context, p Period) ([]DailySummary, error) {
	if s.ranges == nil {
		return nil, fmt.Errorf("no %s history source configured", p)
	}
	end := s.now()
	start := p.Start(end)
	return retry(ctx, s, p.String()+" history", func(ctx context.Context) ([]DailySummary, error) {
		return s.ranges.Range(ctx, start, end)
	})
}

// retry calls fn up to s.attempts times with exponential backoff between
// attempts. ErrPermissionDenied and a done ctx end it early.
func retry[T any](ctx context.Context, s *Store, what string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			delay := retryBackoff(attempt-1, s.retryDelay)
			s.logger.Debug("retrying "+what+" fetch",
				zap.Int("attempt", attempt+1), zap.Duration("delay", delay), zap.Error(lastErr))
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, errors.Join(lastErr, ctx.Err())
			case <-timer.C:
			}
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if errors.Is(err, ErrPermissionDenied) || ctx.Err() != nil {
			break
		}
	}
	return zero, lastErr
}

// retryBackoff doubles base per completed retry, capped at maxRetryDelay.
func retryBackoff(retries int, base time.Duration) time.Duration {
	if retries <= 0 {
		return base
	}
	delay := base
	for i := 0; i < retries; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}

func (s *Store) update(mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.snapshot)
	snap := s.snapshot
	snap.Summary = s.snapshot.Summary.clone()
	s.mu.Unlock()

	s.topic.Publish(snap)
}

func (s *Store) updateHistory(p Period, mutate func(*RangeSnapshot)) {
	s.mu.Lock()
	mutate(&s.history[p])
	s.mu.Unlock()
}
