package app

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/five82/slumber/internal/capability"
	"github.com/five82/slumber/internal/sleep"
)

// WriteStatus prints a plain-text report of every store.
func WriteStatus(w io.Writer, rt *Runtime) error {
	th := rt.Theme.State()
	boot := rt.Bootstrap.State()
	caps := rt.Capability.State()
	snap := rt.Sleep.Snapshot()

	rows := [][2]string{
		{"theme", withDegraded(th.Theme.String(), th.Degraded)},
		{"welcome", withDegraded(boot.HasSeenWelcome.String(), boot.Degraded)},
		{"device", describeCapability(caps)},
		{"last sleep", describeSleep(snap)},
		{"past week", describeHistory(rt.Sleep.Weekly())},
	}

	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%-11s %s\n", row[0]+":", row[1])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func withDegraded(value string, degraded bool) string {
	if degraded {
		return value + " (not saved)"
	}
	return value
}

func describeCapability(st capability.State) string {
	switch {
	case st.Checking:
		return "checking"
	case st.Ready():
		return "available, initialized"
	case st.LastErr != nil:
		return fmt.Sprintf("%s (%v)", st.Status, st.LastErr)
	case st.Status == capability.StatusAvailable:
		return "available, not initialized"
	default:
		return st.Status.String()
	}
}

func describeSleep(snap sleep.Snapshot) string {
	var parts []string
	if snap.Summary != nil {
		s := snap.Summary
		kind := "night"
		if s.IsNap {
			kind = "nap"
		}
		mins := int(math.Round(s.Hours() * 60))
		parts = append(parts, fmt.Sprintf("%s %s-%s, %dh %02dm, quality %d%%",
			kind, s.Start.Format("15:04"), s.End.Format("15:04"),
			mins/60, mins%60, int(math.Round(s.Quality*100))))
	}

	switch snap.Status {
	case sleep.StatusFailed:
		parts = append(parts, fmt.Sprintf("fetch failed: %v", snap.LastErr))
	case sleep.StatusReady:
		if snap.Summary == nil {
			parts = append(parts, "none recorded")
		}
	default:
		if snap.Summary == nil {
			parts = append(parts, snap.Status.String())
		}
	}
	return strings.Join(parts, "; ")
}

func describeHistory(snap sleep.RangeSnapshot) string {
	switch snap.Status {
	case sleep.StatusReady:
	case sleep.StatusFailed:
		if len(snap.Summaries) == 0 {
			return fmt.Sprintf("fetch failed: %v", snap.LastErr)
		}
	default:
		return snap.Status.String()
	}
	if len(snap.Summaries) == 0 {
		return "none recorded"
	}

	var nights, naps int
	var hours, quality float64
	for _, s := range snap.Summaries {
		if s.IsNap {
			naps++
			continue
		}
		nights++
		hours += s.Hours()
		quality += s.Quality
	}
	out := fmt.Sprintf("%d nights, %d naps", nights, naps)
	if nights > 0 {
		mins := int(math.Round(hours / float64(nights) * 60))
		out += fmt.Sprintf(", avg %dh %02dm, quality %d%%",
			mins/60, mins%60, int(math.Round(quality/float64(nights)*100)))
	}
	if snap.Status == sleep.StatusFailed {
		out += fmt.Sprintf("; fetch failed: %v", snap.LastErr)
	}
	return out
}
