package capability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/slumber/internal/observe"
)

const defaultCallTimeout = 10 * time.Second

// Permission is the three-valued result of a permission check.
type Permission int

const (
	// PermissionIndeterminate means the grant query failed.
	PermissionIndeterminate Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "indeterminate"
	}
}

// State is the observable handshake state.
type State struct {
	Status      Status
	Initialized bool
	Checking    bool
	LastErr     error
	CheckedAt   time.Time
}

// Ready reports whether the subsystem is available and initialized.
func (s State) Ready() bool {
	return s.Status == StatusAvailable && s.Initialized
}

// Options configure a Store.
type Options struct {
	API         API
	CallTimeout time.Duration // per API call; zero uses 10s
	Logger      *zap.Logger
}

// Store owns the capability handshake.
type Store struct {
	api     API
	timeout time.Duration
	logger  *zap.Logger
	topic   *observe.Topic[State]

	opMu sync.Mutex

	mu    sync.RWMutex
	state State
}

// NewStore returns a store in {unknown, not initialized, checking}.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("capability")
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Store{
		api:     opts.API,
		timeout: timeout,
		logger:  logger,
		topic:   observe.NewTopic[State]("capability", logger),
		state:   State{Status: StatusUnknown, Checking: true},
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

// Check runs the handshake: query status, and initialize when available.
// Unless silent, Checking is raised first. Any failure leaves the store
// unavailable and uninitialized. Checking is always cleared on return.
func (s *Store) Check(ctx context.Context, silent bool) (final State) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !silent {
		s.update(func(st *State) { st.Checking = true })
	}
	defer func() {
		final = s.update(func(st *State) { st.Checking = false })
	}()

	status, initialized, err := s.handshake(ctx)
	if err != nil {
		s.logger.Warn("capability check failed", zap.Error(err))
		s.update(func(st *State) {
			st.Status = StatusUnavailable
			st.Initialized = false
			st.LastErr = err
			st.CheckedAt = time.Now()
		})
	} else {
		s.logger.Debug("capability checked",
			zap.Stringer("status", status), zap.Bool("initialized", initialized))
		s.update(func(st *State) {
			st.Status = status
			st.Initialized = initialized
			st.LastErr = nil
			st.CheckedAt = time.Now()
		})
	}
	return s.State()
}

func (s *Store) handshake(ctx context.Context) (Status, bool, error) {
	if s.api == nil {
		return StatusUnavailable, false, fmt.Errorf("no capability api configured")
	}

	statusCtx, cancel := context.WithTimeout(ctx, s.timeout)
	status, err := s.api.Status(statusCtx)
	cancel()
	if err != nil {
		return StatusUnavailable, false, fmt.Errorf("query status: %w", err)
	}
	if status != StatusAvailable {
		return status, false, nil
	}

	initCtx, cancel := context.WithTimeout(ctx, s.timeout)
	initialized, err := s.api.Initialize(initCtx)
	cancel()
	if err != nil {
		return StatusUnavailable, false, fmt.Errorf("initialize: %w", err)
	}
	return status, initialized, nil
}

// HasPermission reports whether kind is granted. Query failures report false.
func (s *Store) HasPermission(ctx context.Context, kind string) bool {
	return s.CheckPermission(ctx, kind) == PermissionGranted
}

// CheckPermission distinguishes a denied permission from a failed query.
func (s *Store) CheckPermission(ctx context.Context, kind string) Permission {
	if s.api == nil {
		return PermissionIndeterminate
	}
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	granted, err := s.api.GrantedPermissions(callCtx)
	if err != nil {
		s.logger.Warn("permission check failed", zap.String("kind", kind), zap.Error(err))
		return PermissionIndeterminate
	}
	for _, g := range granted {
		if g.RecordType == kind {
			return PermissionGranted
		}
	}
	return PermissionDenied
}

func (s *Store) update(mutate func(*State)) State {
	s.mu.Lock()
	mutate(&s.state)
	if s.state.Status != StatusAvailable {
		s.state.Initialized = false
	}
	snap := s.state
	s.mu.Unlock()

	s.topic.Publish(snap)
	return snap
}
