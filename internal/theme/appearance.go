package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Appearance reports the host's colour scheme preference, typically "light"
// or "dark". Implementations must not block.
type Appearance interface {
	ColorScheme() string
}

// AppearanceFunc adapts a function to Appearance.
type AppearanceFunc func() string

func (f AppearanceFunc) ColorScheme() string { return f() }

// TerminalAppearance derives the preference from the terminal background.
// A non-empty Override of "light" or "dark" wins over detection.
type TerminalAppearance struct {
	Override string
}

func (a TerminalAppearance) ColorScheme() string {
	switch strings.ToLower(strings.TrimSpace(a.Override)) {
	case string(Dark):
		return string(Dark)
	case string(Light):
		return string(Light)
	}
	if lipgloss.HasDarkBackground() {
		return string(Dark)
	}
	return string(Light)
}

// FixedAppearance is a preference resolved ahead of time.
type FixedAppearance string

func (f FixedAppearance) ColorScheme() string { return string(f) }

// Resolve queries a once and returns the answer as a FixedAppearance.
// TerminalAppearance detection writes to the terminal and reads the reply
// from stdin, so it has to run before anything else reads stdin.
func Resolve(a Appearance) FixedAppearance {
	if a == nil {
		a = TerminalAppearance{}
	}
	return FixedAppearance(a.ColorScheme())
}
