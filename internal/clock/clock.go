// Package clock formats the timestamps stamped onto process creation,
// completion, and per-instruction log lines.
package clock

import (
	"strings"
	"time"
)

// layout produces "MM/DD/YYYY HH:MM:SS" with a 12-hour clock; the am/pm
// suffix is appended separately, lowercased, since the original tool
// prints it lowercase.
const layout = "01/02/2006 03:04:05"

// Clock yields the current wall-clock timestamp. It exists so workers and
// the engine can be driven by a fixed clock in tests instead of wall time.
type Clock interface {
	Now() string
}

// System is the real wall-clock implementation, used everywhere outside
// of tests.
type System struct{}

func (System) Now() string {
	return Format(time.Now())
}

// Format renders t in the "MM/DD/YYYY HH:MM:SSam|pm" layout spec.md
// requires, matching original_source/main.cpp's generateTimestamp.
func Format(t time.Time) string {
	return t.Format(layout) + strings.ToLower(t.Format("PM"))
}

// Fixed is a Clock that always reports the same instant, for tests that
// need deterministic log lines.
type Fixed time.Time

func (f Fixed) Now() string {
	return Format(time.Time(f))
}
