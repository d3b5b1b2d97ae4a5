package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/slumber/internal/capability"
	"github.com/five82/slumber/internal/sleep"
	"github.com/five82/slumber/internal/theme"
)

func (m Model) renderDashboard(styles theme.Styles) string {
	width := m.cardWidth()
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Card.Width(width).Render(m.renderDeviceCard(styles)),
		styles.Card.Width(width).Render(m.renderSleepCard(styles, width-4)),
	)
}

func (m Model) renderDeviceCard(styles theme.Styles) string {
	st := m.capability

	var b strings.Builder
	b.WriteString(styles.Title.Render("Health bridge"))
	if m.deviceURL != "" {
		b.WriteString("  ")
		b.WriteString(styles.Subtle.Render(m.deviceURL))
	}
	b.WriteString("\n")

	switch {
	case st.Checking:
		b.WriteString(m.spinner.View() + " " + styles.Subtle.Render("Checking device..."))
	case st.Ready():
		b.WriteString(styles.Accent.Render("Connected"))
	case st.Status == capability.StatusAvailable:
		b.WriteString(styles.Warning.Render("Available, not initialized"))
	default:
		b.WriteString(styles.Warning.Render(strings.ToUpper(st.Status.String())))
		if st.LastErr != nil {
			b.WriteString("  ")
			b.WriteString(styles.Subtle.Render(classifyConnectionError(st.LastErr)))
		}
	}

	if !st.CheckedAt.IsZero() {
		b.WriteString("\n")
		b.WriteString(styles.Subtle.Render("checked " + humanizeDuration(time.Since(st.CheckedAt))))
	}
	return b.String()
}

func (m Model) renderSleepCard(styles theme.Styles, width int) string {
	snap := m.sleep

	var b strings.Builder
	b.WriteString(styles.Title.Render("Last sleep"))
	b.WriteString("\n")

	switch snap.Status {
	case sleep.StatusPending:
		if m.capability.Ready() || m.capability.Checking {
			b.WriteString(m.spinner.View() + " " + styles.Subtle.Render("Waiting for data..."))
		} else {
			b.WriteString(styles.Subtle.Render("Health data unavailable. Press c to recheck."))
		}
		return b.String()
	case sleep.StatusLoading:
		if !snap.HasData() {
			b.WriteString(m.spinner.View() + " " + styles.Subtle.Render("Loading..."))
			return b.String()
		}
	case sleep.StatusFailed:
		b.WriteString(styles.Warning.Render(describeFetchError(snap.LastErr)))
		b.WriteString("\n")
		if !snap.HasData() {
			return b.String()
		}
		b.WriteString(styles.Subtle.Render("showing previous result"))
		b.WriteString("\n")
	}

	if !snap.HasData() {
		b.WriteString(styles.Subtle.Render("No sleep recorded since 18:00 yesterday."))
		return b.String()
	}

	b.WriteString(renderSummary(styles, *snap.Summary, width))
	if !snap.LastUpdated.IsZero() {
		b.WriteString("\n")
		b.WriteString(styles.Subtle.Render("updated " + humanizeDuration(time.Since(snap.LastUpdated))))
	}
	return b.String()
}

func renderSummary(styles theme.Styles, s sleep.DailySummary, width int) string {
	kind := "Night"
	if s.IsNap {
		kind = "Nap"
	}
	title := kind
	if t := strings.TrimSpace(s.Title); t != "" {
		title = fmt.Sprintf("%s · %s", kind, truncate(t, width-len(kind)-3))
	}

	lines := []string{
		styles.Text.Bold(true).Render(title),
		styles.Text.Render(fmt.Sprintf("%s → %s   %s",
			s.Start.Format("Mon 15:04"), s.End.Format("15:04"), formatHours(s.Hours()))),
		styles.Accent.Render(qualityBar(s.Quality, 20)) + " " +
			styles.Text.Render(fmt.Sprintf("%d%%", qualityPercent(s.Quality))),
	}
	return strings.Join(lines, "\n")
}

// describeFetchError turns a fetch failure into a short line for the card.
func describeFetchError(err error) string {
	if err == nil {
		return "Fetch failed"
	}
	if isPermissionDenied(err) {
		return "Sleep permission not granted"
	}
	return "Fetch failed: " + classifyConnectionError(err)
}
