// Package timecode converts between human-readable time strings and whole seconds.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormat is returned when a time string has the wrong number of fields
	// or a field that is not a base-10 integer.
	ErrInvalidFormat = errors.New("invalid time format, use HH:MM:SS, HH:MM, or SS")
	// ErrInvalidDuration is returned when formatting a negative number of seconds.
	ErrInvalidDuration = errors.New("invalid duration")
)

// Parse converts "H:M:S", "H:M" or "S" into seconds.
//
// Fields are not range checked, so "0:90" is 5400 and negative fields are
// added up as written. A total that does not fit in an int is rejected.
func Parse(text string) (int, error) {
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q has %d fields", ErrInvalidFormat, text, len(parts))
	}

	fields := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidFormat, part)
		}
		fields[i] = n
	}

	var weights []int
	switch len(fields) {
	case 3:
		weights = []int{3600, 60, 1}
	case 2:
		weights = []int{3600, 60}
	default:
		weights = []int{1}
	}

	total := 0
	for i, f := range fields {
		w := weights[i]
		if f > math.MaxInt/w || f < math.MinInt/w {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidFormat, text)
		}
		p := f * w
		if (p > 0 && total > math.MaxInt-p) || (p < 0 && total < math.MinInt-p) {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidFormat, text)
		}
		total += p
	}

	return total, nil
}

// Format renders seconds as MM:SS, or HH:MM:SS once it reaches an hour.
func Format(seconds int) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("%w: %d seconds", ErrInvalidDuration, seconds)
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs), nil
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs), nil
}
