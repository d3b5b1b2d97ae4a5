package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/slumber/internal/bootstrap"
	"github.com/five82/slumber/internal/capability"
	"github.com/five82/slumber/internal/kv/kvtest"
	"github.com/five82/slumber/internal/sleep"
	"github.com/five82/slumber/internal/theme"
)

type stubAPI struct {
	status capability.Status
}

func (s stubAPI) Status(context.Context) (capability.Status, error) { return s.status, nil }

func (s stubAPI) Initialize(context.Context) (bool, error) {
	return s.status == capability.StatusAvailable, nil
}

func (s stubAPI) GrantedPermissions(context.Context) ([]capability.Grant, error) {
	return []capability.Grant{{RecordType: capability.RecordSleepSession}}, nil
}

type fixture struct {
	store *kvtest.Store
	opts  Options
}

func newFixture(t *testing.T, seed map[string]string) fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := kvtest.New(seed)
	summary := &sleep.DailySummary{
		Start:   time.Date(2026, 3, 9, 23, 0, 0, 0, time.Local),
		End:     time.Date(2026, 3, 10, 6, 30, 0, 0, time.Local),
		Title:   "Main sleep",
		Quality: 0.82,
	}
	return fixture{
		store: store,
		opts: Options{
			Context:    ctx,
			Theme:      theme.NewStore(theme.Options{KV: store, Appearance: theme.AppearanceFunc(func() string { return "light" })}),
			Bootstrap:  bootstrap.NewStore(bootstrap.Options{KV: store}),
			Capability: capability.NewStore(capability.Options{API: stubAPI{status: capability.StatusAvailable}}),
			Sleep: sleep.NewStore(sleep.Options{Source: sleep.SourceFunc(func(context.Context) (*sleep.DailySummary, error) {
				return summary, nil
			})}),
		},
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// press sends msg and runs the returned command synchronously.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	if cmd != nil {
		cmd()
	}
	return next.(Model)
}

func TestView_LoadingUntilBootstrapKnown(t *testing.T) {
	f := newFixture(t, nil)
	m := New(f.opts)
	assert.Contains(t, m.View(), "Loading...")
}

func TestWelcome_EnterPersistsAndShowsDashboard(t *testing.T) {
	f := newFixture(t, nil)
	ctx := f.opts.Context
	f.opts.Bootstrap.Load(ctx)

	m := New(f.opts)
	require.True(t, m.onWelcome())
	assert.Contains(t, m.View(), welcomeTitle)

	// Refresh is disabled on the welcome screen.
	_, cmd := m.Update(keyRune('r'))
	assert.Nil(t, cmd)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	v, ok := f.store.Value(bootstrap.StorageKey)
	require.True(t, ok)
	assert.Equal(t, "true", v)

	next, _ := m.Update(bootstrapMsg(f.opts.Bootstrap.State()))
	m = next.(Model)
	assert.False(t, m.onWelcome())
	assert.Contains(t, m.View(), "Health bridge")
}

func TestSeenWelcomeGoesStraightToDashboard(t *testing.T) {
	f := newFixture(t, map[string]string{bootstrap.StorageKey: "true"})
	f.opts.Bootstrap.Load(f.opts.Context)

	m := New(f.opts)
	assert.False(t, m.onWelcome())
	assert.NotContains(t, m.View(), welcomeTitle)
}

func TestToggleThemeKey(t *testing.T) {
	f := newFixture(t, nil)
	m := New(f.opts)
	require.Equal(t, theme.Light, m.theme.Theme)

	press(t, m, keyRune('t'))
	assert.Equal(t, theme.Dark, f.opts.Theme.State().Theme)

	v, ok := f.store.Value(theme.StorageKey)
	require.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestRecheckKeyFetchesWhenReady(t *testing.T) {
	f := newFixture(t, map[string]string{bootstrap.StorageKey: "true"})
	f.opts.Bootstrap.Load(f.opts.Context)
	m := New(f.opts)

	press(t, m, keyRune('c'))

	assert.True(t, f.opts.Capability.State().Ready())
	snap := f.opts.Sleep.Snapshot()
	assert.Equal(t, sleep.StatusReady, snap.Status)
	require.True(t, snap.HasData())

	next, _ := m.Update(sleepMsg(snap))
	m = next.(Model)
	next, _ = m.Update(capabilityMsg(f.opts.Capability.State()))
	m = next.(Model)
	view := m.View()
	assert.Contains(t, view, "Main sleep")
	assert.Contains(t, view, "7h 30m")
	assert.Contains(t, view, "82%")
	assert.Contains(t, view, "Connected")
}

func TestSleepCard_FailedKeepsPreviousSummary(t *testing.T) {
	f := newFixture(t, map[string]string{bootstrap.StorageKey: "true"})
	f.opts.Bootstrap.Load(f.opts.Context)
	m := New(f.opts)

	m.sleep = sleep.Snapshot{
		Status:  sleep.StatusFailed,
		LastErr: errors.New("dial tcp: connection refused"),
		Summary: &sleep.DailySummary{
			Start: time.Date(2026, 3, 9, 23, 0, 0, 0, time.Local),
			End:   time.Date(2026, 3, 10, 7, 0, 0, 0, time.Local),
			Title: "Old night",
		},
	}
	view := m.View()
	assert.Contains(t, view, "Fetch failed: OFFLINE")
	assert.Contains(t, view, "showing previous result")
	assert.Contains(t, view, "Old night")

	m.sleep = sleep.Snapshot{Status: sleep.StatusFailed, LastErr: sleep.ErrPermissionDenied}
	assert.Contains(t, m.View(), "Sleep permission not granted")
}

func TestDegradedThemeShowsWarning(t *testing.T) {
	f := newFixture(t, nil)
	f.store.FailSet(errors.New("read-only"))
	require.NoError(t, f.opts.Theme.SetTheme(f.opts.Context, theme.Dark))

	m := New(f.opts)
	assert.Contains(t, m.View(), "theme not saved")
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	f := newFixture(t, nil)
	m := New(f.opts)

	m = press(t, m, keyRune('?'))
	require.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = press(t, m, keyRune('x'))
	assert.False(t, m.showHelp)
}

func TestQuitKey(t *testing.T) {
	f := newFixture(t, nil)
	m := New(f.opts)

	_, cmd := m.Update(keyRune('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSubscriptionMessagesUpdateModel(t *testing.T) {
	f := newFixture(t, nil)
	m := New(f.opts)

	require.NoError(t, f.opts.Theme.SetTheme(f.opts.Context, theme.Dark))
	msg := m.listenTheme()()
	next, cmd := m.Update(msg)
	m = next.(Model)

	assert.Equal(t, theme.Dark, m.theme.Theme)
	assert.NotNil(t, cmd, "model keeps listening")
}

func TestRunValidatesOptions(t *testing.T) {
	err := Run(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme store")
}
