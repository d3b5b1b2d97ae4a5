// Package bootstrap owns the "has the user seen the welcome screen" flag.
//
// The flag starts as WelcomeUnknown so a consumer can tell "not loaded yet"
// apart from "confirmed not seen". Load and SetHasSeenWelcome both leave it
// at WelcomeSeen or WelcomeNotSeen, whatever the storage outcome.
package bootstrap

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/slumber/internal/kv"
	"github.com/five82/slumber/internal/observe"
)

// StorageKey is the persisted key owned by the bootstrap store.
const StorageKey = "hasSeenWelcome"

// Welcome is the tri-state onboarding flag.
type Welcome int

const (
	WelcomeUnknown Welcome = iota
	WelcomeNotSeen
	WelcomeSeen
)

func (w Welcome) String() string {
	switch w {
	case WelcomeNotSeen:
		return "not-seen"
	case WelcomeSeen:
		return "seen"
	default:
		return "unknown"
	}
}

// Known reports whether the flag has been resolved to a boolean.
func (w Welcome) Known() bool { return w != WelcomeUnknown }

// Seen reports whether the welcome screen has been confirmed seen.
func (w Welcome) Seen() bool { return w == WelcomeSeen }

func fromBool(v bool) Welcome {
	if v {
		return WelcomeSeen
	}
	return WelcomeNotSeen
}

// State is the observable bootstrap state.
type State struct {
	HasSeenWelcome Welcome
	Degraded       bool
	PersistErr     error
}

// Options configure a Store.
type Options struct {
	KV     kv.Store
	Logger *zap.Logger
}

// Store owns the onboarding flag.
type Store struct {
	kv     kv.Store
	logger *zap.Logger
	topic  *observe.Topic[State]

	opMu sync.Mutex

	mu    sync.RWMutex
	state State
}

// NewStore returns a store in the WelcomeUnknown state.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("bootstrap")
	return &Store{
		kv:     opts.KV,
		logger: logger,
		topic:  observe.NewTopic[State]("bootstrap", logger),
	}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe streams state changes until ctx is cancelled.
func (s *Store) Subscribe(ctx context.Context) <-chan State {
	ch, _ := s.topic.Subscribe(ctx)
	return ch
}

// Load reads the persisted flag. Only the exact value "true" counts as seen;
// absent, other values, and read failures all resolve to WelcomeNotSeen.
func (s *Store) Load(ctx context.Context) Welcome {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.kv == nil {
		return s.apply(WelcomeNotSeen, nil)
	}
	stored, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("loading app state failed", zap.Error(err))
		return s.apply(WelcomeNotSeen, err)
	}
	w := fromBool(ok && stored == "true")
	s.logger.Debug("loaded app state", zap.Stringer("has_seen_welcome", w))
	return s.apply(w, nil)
}

// SetHasSeenWelcome persists value and applies it regardless of the write
// outcome.
func (s *Store) SetHasSeenWelcome(ctx context.Context, value bool) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	raw := "false"
	if value {
		raw = "true"
	}
	var err error
	if s.kv != nil {
		err = s.kv.Set(ctx, StorageKey, raw)
	}
	if err != nil {
		s.logger.Warn("saving welcome state failed", zap.Bool("value", value), zap.Error(err))
	}
	s.apply(fromBool(value), err)
}

func (s *Store) apply(w Welcome, persistErr error) Welcome {
	s.mu.Lock()
	s.state = State{
		HasSeenWelcome: w,
		Degraded:       persistErr != nil,
		PersistErr:     persistErr,
	}
	snap := s.state
	s.mu.Unlock()

	s.topic.Publish(snap)
	return w
}
