package capability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu sync.Mutex

	status    Status
	statusErr error
	init      bool
	initErr   error
	grants    []Grant
	grantErr  error
	block     bool // Status waits for ctx cancellation

	initCalls int
}

func (f *fakeAPI) Status(ctx context.Context) (Status, error) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return StatusUnknown, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.statusErr
}

func (f *fakeAPI) Initialize(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls++
	return f.init, f.initErr
}

func (f *fakeAPI) GrantedPermissions(context.Context) ([]Grant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.grants, f.grantErr
}

func TestNewStore_InitialState(t *testing.T) {
	s := NewStore(Options{API: &fakeAPI{}})
	st := s.State()
	assert.Equal(t, StatusUnknown, st.Status)
	assert.False(t, st.Initialized)
	assert.True(t, st.Checking)
}

func TestCheck_AvailableInitializes(t *testing.T) {
	api := &fakeAPI{status: StatusAvailable, init: true}
	s := NewStore(Options{API: api})

	got := s.Check(context.Background(), false)
	assert.Equal(t, StatusAvailable, got.Status)
	assert.True(t, got.Initialized)
	assert.False(t, got.Checking)
	assert.True(t, got.Ready())
	assert.Equal(t, got, s.State())
	assert.Equal(t, 1, api.initCalls)
}

func TestCheck_AvailableButInitializeReturnsFalse(t *testing.T) {
	s := NewStore(Options{API: &fakeAPI{status: StatusAvailable, init: false}})

	got := s.Check(context.Background(), false)
	assert.Equal(t, StatusAvailable, got.Status)
	assert.False(t, got.Initialized)
	assert.False(t, got.Ready())
}

func TestCheck_NotAvailableSkipsInitialize(t *testing.T) {
	for _, status := range []Status{StatusUnavailable, StatusUnknown} {
		t.Run(status.String(), func(t *testing.T) {
			api := &fakeAPI{status: status, init: true}
			s := NewStore(Options{API: api})

			got := s.Check(context.Background(), false)
			assert.Equal(t, status, got.Status)
			assert.False(t, got.Initialized)
			assert.False(t, got.Checking)
			assert.Equal(t, 0, api.initCalls)
		})
	}
}

func TestCheck_StatusErrorFailsClosed(t *testing.T) {
	s := NewStore(Options{API: &fakeAPI{statusErr: errors.New("sdk crashed")}})

	got := s.Check(context.Background(), false)
	assert.Equal(t, StatusUnavailable, got.Status)
	assert.False(t, got.Initialized)
	assert.False(t, got.Checking)
	require.Error(t, got.LastErr)
	assert.Contains(t, got.LastErr.Error(), "sdk crashed")
}

func TestCheck_InitializeErrorFailsClosed(t *testing.T) {
	s := NewStore(Options{API: &fakeAPI{status: StatusAvailable, initErr: errors.New("init failed")}})

	got := s.Check(context.Background(), false)
	assert.Equal(t, StatusUnavailable, got.Status)
	assert.False(t, got.Initialized)
	assert.False(t, got.Checking)
}

func TestCheck_ErrorAfterSuccessResetsState(t *testing.T) {
	api := &fakeAPI{status: StatusAvailable, init: true}
	s := NewStore(Options{API: api})
	require.True(t, s.Check(context.Background(), false).Ready())

	api.mu.Lock()
	api.statusErr = errors.New("gone")
	api.mu.Unlock()

	got := s.Check(context.Background(), true)
	assert.Equal(t, StatusUnavailable, got.Status)
	assert.False(t, got.Initialized)
}

func TestCheck_TimesOutHungAPI(t *testing.T) {
	s := NewStore(Options{API: &fakeAPI{block: true}, CallTimeout: 20 * time.Millisecond})

	start := time.Now()
	got := s.Check(context.Background(), false)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, StatusUnavailable, got.Status)
	assert.ErrorIs(t, got.LastErr, context.DeadlineExceeded)
	assert.False(t, got.Checking)
}

func TestCheck_NoAPIFailsClosed(t *testing.T) {
	s := NewStore(Options{})
	got := s.Check(context.Background(), false)
	assert.Equal(t, StatusUnavailable, got.Status)
	assert.False(t, got.Checking)
	assert.Equal(t, PermissionIndeterminate, s.CheckPermission(context.Background(), RecordSleepSession))
}

func TestCheck_NonSilentPublishesChecking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{status: StatusAvailable, init: true}
	s := NewStore(Options{API: api})
	s.Check(ctx, false) // settle Checking=false

	ch := s.Subscribe(ctx)
	api.mu.Lock()
	api.block = true
	api.mu.Unlock()

	callCtx, callCancel := context.WithCancel(ctx)
	done := make(chan State)
	go func() { done <- s.Check(callCtx, false) }()

	select {
	case st := <-ch:
		assert.True(t, st.Checking)
	case <-time.After(time.Second):
		t.Fatal("checking state not published")
	}
	callCancel()
	final := <-done
	assert.False(t, final.Checking)
	assert.False(t, s.State().Checking)
}

func TestCheck_SilentDoesNotRaiseChecking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{status: StatusAvailable, init: true}
	s := NewStore(Options{API: api})
	s.Check(ctx, false)

	ch := s.Subscribe(ctx)
	s.Check(ctx, true)

	// Every state published during a silent check has Checking=false.
	for {
		select {
		case st := <-ch:
			assert.False(t, st.Checking)
		default:
			return
		}
	}
}

func TestHasPermission(t *testing.T) {
	grants := []Grant{{RecordType: "Steps", AccessType: "read"}, {RecordType: RecordSleepSession, AccessType: "read"}}

	tests := []struct {
		name string
		api  *fakeAPI
		kind string
		want Permission
	}{
		{"granted", &fakeAPI{grants: grants}, RecordSleepSession, PermissionGranted},
		{"denied", &fakeAPI{grants: grants}, "HeartRate", PermissionDenied},
		{"empty grants", &fakeAPI{}, RecordSleepSession, PermissionDenied},
		{"query error", &fakeAPI{grants: grants, grantErr: errors.New("binder died")}, RecordSleepSession, PermissionIndeterminate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(Options{API: tt.api})
			assert.Equal(t, tt.want, s.CheckPermission(context.Background(), tt.kind))
			assert.Equal(t, tt.want == PermissionGranted, s.HasPermission(context.Background(), tt.kind))
		})
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusAvailable, ParseStatus(" Available "))
	assert.Equal(t, StatusUnavailable, ParseStatus("unavailable"))
	assert.Equal(t, StatusUnknown, ParseStatus("update_required"))
}
