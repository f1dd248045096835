package domain

import (
	"math"
	"time"
)

// BusinessDays counts the Monday–Friday days between start and end, walking
// day by day from start while the cursor is before end. The start day itself
// is counted when it falls on a weekday; holidays are not considered.
// Returns 0 when end is not after start.
//
// Every business-day SLA check in the system goes through this function.
func BusinessDays(start, end time.Time) int {
	count := 0
	for current := start; current.Before(end); current = current.AddDate(0, 0, 1) {
		wd := current.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// CalendarDays returns the number of calendar days between start and end,
// rounding partial days up.
func CalendarDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// AddBusinessDays returns the date that is n business days after date,
// skipping Saturdays and Sundays.
func AddBusinessDays(date time.Time, n int) time.Time {
	result := date
	for added := 0; added < n; {
		result = result.AddDate(0, 0, 1)
		if wd := result.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return result
}
