package sleep

import (
	"math"
	"time"
)

// Session is one sleep session read from the device.
type Session struct {
	Start time.Time
	End   time.Time
	Title string

	AwakeSeconds int
	Awakenings   int
}

// Hours returns the session length in hours.
func (s Session) Hours() float64 {
	return s.End.Sub(s.Start).Hours()
}

const (
	napMaxHours      = 3
	napWindowFrom    = 10 // hour of day, inclusive
	napWindowTo      = 18 // hour of day, inclusive
	nightTargetMin   = 7.0
	nightTargetMax   = 9.0
	durationWeight   = 0.4
	efficiencyWeight = 0.4
	fragmentWeight   = 0.2
)

// Classify reports whether s is a nap: shorter than three hours, or starting
// between 10:00 and 18:00 in the session's own location.
func Classify(s Session) bool {
	if s.Hours() < napMaxHours {
		return true
	}
	h := s.Start.Hour()
	return h >= napWindowFrom && h <= napWindowTo
}

// Quality scores s in [0, 1].
func Quality(s Session, isNap bool) float64 {
	if isNap {
		return napQuality(s.Hours())
	}
	return nightQuality(s)
}

func napQuality(h float64) float64 {
	var score float64
	switch {
	case h < 0.17:
		score = 0.4
	case h >= 0.33 && h <= 0.5:
		score = 1.0
	case h >= 0.9 && h <= 1.6:
		score = 0.9
	case h >= 0.5 && h <= 1:
		score = mapRange(h, 0.5, 1) * 0.7
	case h > 2:
		score = 0.3
	default:
		score = mapRange(h, 0.17, 1.5)
	}

	// Sleep inertia penalty.
	var penalty float64
	switch {
	case h >= 0.5 && h < 1:
		penalty = 0.2
	case h >= 1 && h < 1.5:
		penalty = 0.3
	case h >= 1.5:
		penalty = 0.4
	}
	return clamp01(score - penalty)
}

func nightQuality(s Session) float64 {
	total := s.End.Sub(s.Start).Seconds()
	if total <= 0 {
		return 0
	}
	h := total / 3600

	duration := 1.0
	if h < nightTargetMin {
		duration = h / nightTargetMin
	} else if h > nightTargetMax {
		duration = nightTargetMax / h
	}

	efficiency := 1 - float64(s.AwakeSeconds)/total
	var effScore float64
	switch {
	case efficiency >= 0.95:
		effScore = 1
	case efficiency >= 0.9:
		effScore = 0.9
	case efficiency >= 0.85:
		effScore = 0.8
	case efficiency >= 0.8:
		effScore = 0.7
	default:
		effScore = 0.6
	}

	var fragScore float64
	switch {
	case s.Awakenings <= 2:
		fragScore = 1
	case s.Awakenings <= 4:
		fragScore = 0.8
	case s.Awakenings <= 6:
		fragScore = 0.6
	default:
		fragScore = 0.4
	}

	return duration*durationWeight + effScore*efficiencyWeight + fragScore*fragmentWeight
}

func mapRange(v, lo, hi float64) float64 {
	return clamp01((v - lo) / (hi - lo))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
