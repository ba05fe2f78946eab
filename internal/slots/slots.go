// Package slots generates the fixed daily schedule and classifies each slot
// as available or unavailable for a doctor and date.
package slots

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FirstHour and LastHour bound the schedule in 24-hour clock hours, inclusive.
	FirstHour = 9
	LastHour  = 19

	// BlockedSlot is closed for every doctor on every date.
	BlockedSlot = "1:00-1:50 PM"
)

// ErrMalformedLabel is returned when a label does not look like "H:00-H:50 AM".
var ErrMalformedLabel = errors.New("slots: malformed slot label")

// Generate returns the 11 slot labels from 9 AM to 7 PM in order.
func Generate() []string {
	out := make([]string, 0, LastHour-FirstHour+1)
	for h := FirstHour; h <= LastHour; h++ {
		out = append(out, Label(h))
	}
	return out
}

// Label formats a 24-hour clock hour as a slot label.
func Label(hour24 int) string {
	period := "AM"
	if hour24 >= 12 {
		period = "PM"
	}
	hour := hour24 % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:00-%d:50 %s", hour, hour, period)
}

// IsKnown reports whether label is one of the generated slots.
func IsKnown(label string) bool {
	for _, s := range Generate() {
		if s == label {
			return true
		}
	}
	return false
}

// StartHour returns the hour portion of the label, e.g. "9" for "9:00-9:50 AM".
func StartHour(label string) (string, error) {
	hour, _, ok := strings.Cut(label, ":")
	hour = strings.TrimSpace(hour)
	if !ok || hour == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedLabel, label)
	}
	return hour, nil
}

// EndTime returns the closing wall-clock time of the label, e.g. "9:50 AM".
func EndTime(label string) (string, error) {
	_, end, ok := strings.Cut(label, "-")
	end = strings.TrimSpace(end)
	if !ok || end == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedLabel, label)
	}
	return end, nil
}
