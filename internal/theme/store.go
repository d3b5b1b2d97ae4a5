package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/slumber/internal/kv"
	"github.com/five82/slumber/internal/observe"
)

// StorageKey is the persisted key owned by the theme store.
const StorageKey = "appTheme"

// ErrInvalidTheme is returned by SetTheme for values other than light/dark.
var ErrInvalidTheme = errors.New("invalid theme")

// Theme is the UI theme selection.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ParseTheme accepts exactly "light" or "dark".
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	}
	return "", false
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) String() string { return string(t) }

// State is the observable theme state.
type State struct {
	Theme   Theme
	Palette Palette

	// Degraded is set while the last persistence operation failed; the
	// in-memory theme stays authoritative.
	Degraded   bool
	PersistErr error
}

// Options configure a Store.
type Options struct {
	KV         kv.Store
	Appearance Appearance
	Logger     *zap.Logger
}

// Store owns the theme selection and writes it through to the kv store.
type Store struct {
	kv         kv.Store
	appearance Appearance
	logger     *zap.Logger
	topic      *observe.Topic[State]

	opMu sync.Mutex // serializes mutations across their I/O

	mu    sync.RWMutex
	state State
}

// NewStore returns a store holding the light theme.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("theme")
	appearance := opts.Appearance
	if appearance == nil {
		appearance = TerminalAppearance{}
	}
	return &Store{
		kv:         opts.KV,
		appearance: appearance,
		logger:     logger,
		topic:      observe.NewTopic[State]("theme", logger),
		state:      State{Theme: Light, Palette: PaletteFor(Light)},
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

// SetTheme persists t and applies it. A failed write still applies t and
// marks the store degraded.
func (s *Store) SetTheme(ctx context.Context, t Theme) error {
	if _, ok := ParseTheme(string(t)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, string(t))
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLocked(ctx, t)
	return nil
}

// Toggle switches to the opposite theme and returns it.
func (s *Store) Toggle(ctx context.Context) Theme {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.State().Theme.Opposite()
	s.setLocked(ctx, next)
	return next
}

// LoadSavedTheme adopts the persisted theme, or the system theme when the
// persisted value is absent, invalid, or unreadable.
func (s *Store) LoadSavedTheme(ctx context.Context) Theme {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	saved, ok, err := s.get(ctx)
	if err != nil {
		s.logger.Warn("reading saved theme failed, using system theme", zap.Error(err))
		return s.apply(s.systemTheme(), err)
	}
	if ok {
		if t, valid := ParseTheme(saved); valid {
			s.logger.Debug("loaded saved theme", zap.Stringer("theme", t))
			return s.apply(t, nil)
		}
		s.logger.Debug("ignoring invalid saved theme", zap.String("value", saved))
	}
	return s.apply(s.systemTheme(), nil)
}

// LoadSystemTheme adopts the host preference. It never fails.
func (s *Store) LoadSystemTheme() Theme {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.apply(s.systemTheme(), s.State().PersistErr)
}

func (s *Store) systemTheme() Theme {
	if s.appearance.ColorScheme() == string(Dark) {
		return Dark
	}
	return Light
}

func (s *Store) setLocked(ctx context.Context, t Theme) {
	err := s.set(ctx, string(t))
	if err != nil {
		s.logger.Warn("persisting theme failed, keeping in-memory value",
			zap.Stringer("theme", t), zap.Error(err))
	}
	s.apply(t, err)
}

// apply updates the state and publishes it. persistErr is the outcome of the
// persistence operation that led here.
func (s *Store) apply(t Theme, persistErr error) Theme {
	s.mu.Lock()
	s.state = State{
		Theme:      t,
		Palette:    PaletteFor(t),
		Degraded:   persistErr != nil,
		PersistErr: persistErr,
	}
	snap := s.state
	s.mu.Unlock()

	s.topic.Publish(snap)
	return t
}

func (s *Store) get(ctx context.Context) (string, bool, error) {
	if s.kv == nil {
		return "", false, nil
	}
	return s.kv.Get(ctx, StorageKey)
}

func (s *Store) set(ctx context.Context, value string) error {
	if s.kv == nil {
		return nil
	}
	return s.kv.Set(ctx, StorageKey, value)
}
