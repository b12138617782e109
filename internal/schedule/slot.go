// Package schedule holds the client-side rules for schedule forms: slot
// arithmetic, required fields per activity kind and the advisory guards that
// run before anything is sent to the backend.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// SessionMinutes is the length of one teaching session.
const SessionMinutes = 50

const minutesPerDay = 24 * 60

// EndTime returns start + sessions × 50 minutes as HH:MM. Hours wrap at
// midnight; no calendar rollover is implied.
func EndTime(start string, sessions int) (string, error) {
	if sessions < 1 {
		return "", fmt.Errorf("session count must be >= 1")
	}
	total, err := parseClock(start)
	if err != nil {
		return "", err
	}
	total += sessions * SessionMinutes
	total %= minutesPerDay
	return formatClock(total), nil
}

// NormalizeClock rewrites H.MM / HH:MM input as HH:MM.
func NormalizeClock(value string) (string, error) {
	total, err := parseClock(value)
	if err != nil {
		return "", err
	}
	return formatClock(total), nil
}

func parseClock(value string) (int, error) {
	value = strings.TrimSpace(value)
	sep := strings.IndexAny(value, ":.")
	if sep <= 0 || sep == len(value)-1 {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}
	hours, err := strconv.Atoi(value[:sep])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}
	// Backend rows may carry seconds (HH:MM:SS); they are dropped.
	rest := value[sep+1:]
	if len(rest) > 2 && (rest[2] == ':' || rest[2] == '.') {
		rest = rest[:2]
	}
	minutes, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time %q out of range", value)
	}
	return hours*60 + minutes, nil
}

func formatClock(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
