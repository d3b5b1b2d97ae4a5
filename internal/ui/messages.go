package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/slumber/internal/bootstrap"
	"github.com/five82/slumber/internal/capability"
	"github.com/five82/slumber/internal/sleep"
	"github.com/five82/slumber/internal/theme"
)

type (
	themeMsg      theme.State
	bootstrapMsg  bootstrap.State
	capabilityMsg capability.State
	sleepMsg      sleep.Snapshot
)

// listen waits for the next value on ch. A closed channel ends the chain.
func listen[T any](ch <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(v)
	}
}

func (m Model) listenTheme() tea.Cmd {
	return listen(m.themeCh, func(s theme.State) tea.Msg { return themeMsg(s) })
}

func (m Model) listenBootstrap() tea.Cmd {
	return listen(m.bootstrapCh, func(s bootstrap.State) tea.Msg { return bootstrapMsg(s) })
}

func (m Model) listenCapability() tea.Cmd {
	return listen(m.capabilityCh, func(s capability.State) tea.Msg { return capabilityMsg(s) })
}

func (m Model) listenSleep() tea.Cmd {
	return listen(m.sleepCh, func(s sleep.Snapshot) tea.Msg { return sleepMsg(s) })
}

// Store actions. Their results arrive through the subscriptions.

func (m Model) toggleThemeCmd() tea.Cmd {
	store, ctx := m.themeStore, m.ctx
	return func() tea.Msg {
		store.Toggle(ctx)
		return nil
	}
}

func (m Model) dismissWelcomeCmd() tea.Cmd {
	store, ctx := m.bootstrapStore, m.ctx
	return func() tea.Msg {
		store.SetHasSeenWelcome(ctx, true)
		return nil
	}
}

func (m Model) refreshCmd() tea.Cmd {
	store, ctx := m.sleepStore, m.ctx
	return func() tea.Msg {
		store.FetchDaily(ctx)
		return nil
	}
}

// recheckCmd reruns the handshake and, when the device turns ready, fetches
// the summary.
func (m Model) recheckCmd() tea.Cmd {
	caps, sleepStore, ctx := m.capabilityStore, m.sleepStore, m.ctx
	return func() tea.Msg {
		if st := caps.Check(ctx, false); st.Ready() {
			sleepStore.FetchDaily(ctx)
		}
		return nil
	}
}
