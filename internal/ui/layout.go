package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/slumber/internal/theme"
)

const minCardWidth = 36

// frame wraps body with the header and the key hint footer.
func (m Model) frame(styles theme.Styles, body string) string {
	var b strings.Builder
	b.WriteString(m.renderHeader(styles))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(styles.Footer.Render(m.help.View(m.activeKeys())))

	out := b.String()
	if m.width <= 0 || m.height <= 0 {
		return out
	}
	return styles.App.
		Width(m.width).
		Height(m.height).
		Render(out)
}

func (m Model) renderHeader(styles theme.Styles) string {
	parts := []string{
		styles.Title.Render("slumber"),
		styles.Subtle.Render(m.theme.Theme.String()),
	}
	if warn := m.persistenceWarning(); warn != "" {
		parts = append(parts, styles.Warning.Render(warn))
	}
	return strings.Join(parts, "  ")
}

// persistenceWarning is non-empty while a store could not read or write its
// saved value.
func (m Model) persistenceWarning() string {
	switch {
	case m.theme.Degraded && m.bootstrap.Degraded:
		return "settings not saved"
	case m.theme.Degraded:
		return "theme not saved"
	case m.bootstrap.Degraded:
		return "welcome state not saved"
	}
	return ""
}

func (m Model) renderLoading(styles theme.Styles) string {
	return m.spinner.View() + " " + styles.Subtle.Render("Loading...")
}

// renderHelp renders the help overlay.
func (m Model) renderHelp(styles theme.Styles) string {
	full := m.help
	full.ShowAll = true

	var b strings.Builder
	b.WriteString(styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(full.View(m.activeKeys()))
	b.WriteString("\n\n")
	b.WriteString(styles.Subtle.Render("Press any key to close"))

	modal := styles.Card.Padding(1, 2).Render(b.String())
	if m.width <= 0 || m.height <= 0 {
		return modal
	}
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) cardWidth() int {
	w := m.width - 4
	if w < minCardWidth {
		return minCardWidth
	}
	if w > 72 {
		return 72
	}
	return w
}
