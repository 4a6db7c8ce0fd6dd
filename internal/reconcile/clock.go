package reconcile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidClock indicates a wall-clock string is not of the form "HH:MM".
var ErrInvalidClock = errors.New(`reconcile: clock value must be "HH:MM"`)

// ParseClock converts a wall-clock "HH:MM" string into minutes since
// midnight. "24:00" is accepted as the exclusive end of day.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	if hour == 24 && minute != 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight back into "HH:MM".
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 24*60 {
		minutes = 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
