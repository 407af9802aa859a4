package progress

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts a race time of the form "HH:MM:SS" into seconds.
// A two-field "MM:SS" value is accepted for shorter races.
func ParseClock(s string) (int, error) {
	fields := strings.Split(strings.TrimSpace(s), ":")
	switch len(fields) {
	case 3:
	case 2:
		fields = append([]string{"0"}, fields...)
	default:
		return 0, fmt.Errorf("malformed race time %q", s)
	}
	total := 0
	for _, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return 0, fmt.Errorf("malformed race time %q: %w", s, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("malformed race time %q: negative field", s)
		}
		total = total*60 + v
	}
	return total, nil
}

// FormatClock renders a non-negative number of seconds as "HH:MM:SS".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
