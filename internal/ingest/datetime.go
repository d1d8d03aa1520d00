package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDateTime parses the device export format "dd/mm/yyyy H:MM" (seconds
// optional) in loc. Out-of-range fields are rejected rather than normalized.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return time.Time{}, fmt.Errorf("invalid datetime %q: expected date and time", s)
	}

	dateParts := strings.Split(fields[0], "/")
	if len(dateParts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q: expected dd/mm/yyyy", fields[0])
	}
	timeParts := strings.Split(fields[1], ":")
	if len(timeParts) < 2 || len(timeParts) > 3 {
		return time.Time{}, fmt.Errorf("invalid time %q: expected H:MM", fields[1])
	}

	day, err := atoiRange(dateParts[0], 1, 31)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in %q: %w", s, err)
	}
	month, err := atoiRange(dateParts[1], 1, 12)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	year, err := atoiRange(dateParts[2], 1, 9999)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	hour, err := atoiRange(timeParts[0], 0, 23)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := atoiRange(timeParts[1], 0, 59)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	second := 0
	if len(timeParts) == 3 {
		if second, err = atoiRange(timeParts[2], 0, 59); err != nil {
			return time.Time{}, fmt.Errorf("invalid second in %q: %w", s, err)
		}
	}

	if day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("invalid datetime %q: day out of range", s)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), nil
}

func atoiRange(s string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d out of range [%d, %d]", n, lo, hi)
	}
	return n, nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
