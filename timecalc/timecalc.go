// Package timecalc turns raw clock-in/out punches and a declared break into
// net worked hours. All functions are pure and deliberately permissive:
// punches come from free-text form fields, so malformed input resolves to
// zero instead of an error.
package timecalc

import (
	"strconv"
	"strings"
)

// Clock is a wall-clock time of day parsed from an HH:MM punch field.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) Hours() float64 {
	return float64(c.Hour) + float64(c.Minute)/60
}

// ParseTime parses a strict H:MM or HH:MM value (hour 0-23, minute 00-59).
// Anything else returns ok=false; empty fields are the normal case, not an
// error.
func ParseTime(value string) (Clock, bool) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return Clock{}, false
	}
	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return Clock{}, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, false
	}
	return Clock{Hour: hour, Minute: minute}, true
}

// PauseToHours maps a declared break to decimal hours. Known shapes are
// "Keine", "<N>min", "<N>min." and bare minutes; unrecognized tokens count
// as no declared break.
func PauseToHours(token string) float64 {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" || token == "keine" {
		return 0
	}
	token = strings.TrimSuffix(token, ".")
	token = strings.TrimSuffix(token, "min")
	token = strings.TrimSpace(token)
	minutes, err := strconv.Atoi(token)
	if err != nil || minutes < 0 {
		return 0
	}
	return float64(minutes) / 60
}

// LegalPauseHours returns the statutory minimum break for a raw span length.
// Thresholds follow ArbZG paragraph 4: more than six hours of work require a
// 30 minute break, more than nine hours 45 minutes. Exactly 6.0 and 9.0
// stay below the respective threshold.
func LegalPauseHours(rawSpanHours float64) float64 {
	switch {
	case rawSpanHours > 9:
		return 0.75
	case rawSpanHours > 6:
		return 0.5
	default:
		return 0
	}
}

// Span is the result of evaluating one day's punches.
type Span struct {
	RawHours   float64 // summed punch spans before any break
	PauseHours float64 // effective break: max(declared, statutory)
	NetHours   float64 // raw minus effective break, floored at zero
}

// ComputeNetHours sums up to two in/out spans and applies the effective
// break. A span whose end lies numerically before its start wraps past
// midnight. Spans with a missing or malformed punch contribute nothing.
func ComputeNetHours(kommt1, geht1, kommt2, geht2, pauseToken string) Span {
	raw := spanHours(kommt1, geht1) + spanHours(kommt2, geht2)

	pause := PauseToHours(pauseToken)
	if legal := LegalPauseHours(raw); legal > pause {
		pause = legal
	}

	net := raw - pause
	if net < 0 {
		net = 0
	}
	return Span{RawHours: raw, PauseHours: pause, NetHours: net}
}

func spanHours(start, end string) float64 {
	from, ok := ParseTime(start)
	if !ok {
		return 0
	}
	to, ok := ParseTime(end)
	if !ok {
		return 0
	}
	hours := to.Hours() - from.Hours()
	if hours < 0 {
		// end before start means the shift ran past midnight
		hours += 24
	}
	return hours
}
