package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/slumber/internal/bootstrap"
	"github.com/five82/slumber/internal/capability"
	"github.com/five82/slumber/internal/sleep"
	"github.com/five82/slumber/internal/theme"
)

// Model is the root application state for Bubble Tea. It only renders store
// state and forwards key presses to store operations.
type Model struct {
	ctx       context.Context
	deviceURL string

	themeStore      *theme.Store
	bootstrapStore  *bootstrap.Store
	capabilityStore *capability.Store
	sleepStore      *sleep.Store

	themeCh      <-chan theme.State
	bootstrapCh  <-chan bootstrap.State
	capabilityCh <-chan capability.State
	sleepCh      <-chan sleep.Snapshot

	// Latest store states
	theme      theme.State
	bootstrap  bootstrap.State
	capability capability.State
	sleep      sleep.Snapshot

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	width    int
	height   int
	showHelp bool
}

// New subscribes to every store and returns the model. Subscriptions end
// when opts.Context is cancelled.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	m := Model{
		ctx:             ctx,
		deviceURL:       opts.DeviceURL,
		themeStore:      opts.Theme,
		bootstrapStore:  opts.Bootstrap,
		capabilityStore: opts.Capability,
		sleepStore:      opts.Sleep,
		keys:            defaultKeyMap(),
		help:            help.New(),
		spinner:         spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}

	// Subscribe before reading so no change between the two is lost.
	m.themeCh = opts.Theme.Subscribe(ctx)
	m.bootstrapCh = opts.Bootstrap.Subscribe(ctx)
	m.capabilityCh = opts.Capability.Subscribe(ctx)
	m.sleepCh = opts.Sleep.Subscribe(ctx)

	m.theme = opts.Theme.State()
	m.bootstrap = opts.Bootstrap.State()
	m.capability = opts.Capability.State()
	m.sleep = opts.Sleep.Snapshot()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.listenTheme(),
		m.listenBootstrap(),
		m.listenCapability(),
		m.listenSleep(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case themeMsg:
		m.theme = theme.State(msg)
		return m, m.listenTheme()

	case bootstrapMsg:
		m.bootstrap = bootstrap.State(msg)
		return m, m.listenBootstrap()

	case capabilityMsg:
		m.capability = capability.State(msg)
		return m, m.listenCapability()

	case sleepMsg:
		m.sleep = sleep.Snapshot(msg)
		return m, m.listenSleep()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	keys := m.activeKeys()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, keys.ToggleTheme):
		return m, m.toggleThemeCmd()
	case key.Matches(msg, keys.Continue):
		return m, m.dismissWelcomeCmd()
	case key.Matches(msg, keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, keys.Recheck):
		return m, m.recheckCmd()
	}
	return m, nil
}

// onWelcome reports whether the welcome gate is showing.
func (m Model) onWelcome() bool {
	return m.bootstrap.HasSeenWelcome == bootstrap.WelcomeNotSeen
}

func (m Model) activeKeys() keyMap {
	if m.onWelcome() {
		return m.keys.welcomeKeys()
	}
	if m.bootstrap.HasSeenWelcome == bootstrap.WelcomeUnknown {
		k := m.keys.dashboardKeys()
		k.Refresh.SetEnabled(false)
		k.Recheck.SetEnabled(false)
		return k
	}
	return m.keys.dashboardKeys()
}

// View implements tea.Model.
func (m Model) View() string {
	styles := m.theme.Palette.Styles()

	var body string
	switch {
	case m.showHelp:
		body = m.renderHelp(styles)
	case !m.bootstrap.HasSeenWelcome.Known():
		body = m.renderLoading(styles)
	case m.onWelcome():
		body = m.renderWelcome(styles)
	default:
		body = m.renderDashboard(styles)
	}

	return m.frame(styles, body)
}
