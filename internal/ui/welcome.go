package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/slumber/internal/theme"
)

const (
	welcomeTitle = "Welcome to slumber"
	welcomeBody  = "slumber reads your sleep sessions from the health bridge on " +
		"your phone and scores last night's rest. Nothing leaves this machine."
	permissionHint = "Grant read access to sleep sessions in the health app so " +
		"the daily summary can load. You can change this at any time."
)

func (m Model) renderWelcome(styles theme.Styles) string {
	width := m.cardWidth()

	var b strings.Builder
	b.WriteString(styles.Title.Render(welcomeTitle))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Width(width - 4).Render(welcomeBody))
	b.WriteString("\n\n")
	b.WriteString(styles.Subtle.Width(width - 4).Render(permissionHint))
	b.WriteString("\n\n")
	b.WriteString(styles.Accent.Render("Press enter to continue"))

	card := styles.Card.Width(width).Render(b.String())
	if m.width <= 0 {
		return card
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, card)
}
