package sleep

import (
	"sort"
	"time"
)

// DailySummary is the derived record shown for the current day.
type DailySummary struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Title   string    `json:"title,omitempty"`
	Quality float64   `json:"quality"`
	IsNap   bool      `json:"isNap"`

	// DurationHours overrides End-Start when set, e.g. to exclude time awake.
	DurationHours *float64 `json:"durationHours,omitempty"`
}

// Hours returns DurationHours when set, otherwise End-Start.
func (d DailySummary) Hours() float64 {
	if d.DurationHours != nil {
		return *d.DurationHours
	}
	return d.End.Sub(d.Start).Hours()
}

// Summarize builds the summary of the session that ended last. It returns
// nil for an empty slice.
func Summarize(sessions []Session) *DailySummary {
	if len(sessions) == 0 {
		return nil
	}
	main := sessions[0]
	for _, s := range sessions[1:] {
		if s.End.After(main.End) {
			main = s
		}
	}
	return summarize(main)
}

// SummarizeAll scores every session, ordered by start time.
func SummarizeAll(sessions []Session) []DailySummary {
	out := make([]DailySummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, *summarize(s))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func summarize(s Session) *DailySummary {
	isNap := Classify(s)
	summary := &DailySummary{
		Start:   s.Start,
		End:     s.End,
		Title:   s.Title,
		Quality: Quality(s, isNap),
		IsNap:   isNap,
	}
	if s.AwakeSeconds > 0 {
		asleep := s.Hours() - float64(s.AwakeSeconds)/3600
		if asleep < 0 {
			asleep = 0
		}
		summary.DurationHours = &asleep
	}
	return summary
}

func (d *DailySummary) clone() *DailySummary {
	if d == nil {
		return nil
	}
	dup := *d
	if d.DurationHours != nil {
		h := *d.DurationHours
		dup.DurationHours = &h
	}
	return &dup
}

func cloneAll(list []DailySummary) []DailySummary {
	if list == nil {
		return nil
	}
	out := make([]DailySummary, len(list))
	for i := range list {
		out[i] = *list[i].clone()
	}
	return out
}
