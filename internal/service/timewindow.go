package service

import (
	"time"
)

// NextTargetWeekStart returns the calendar date (YYYY-MM-DD) of the next
// Monday in the given timezone, strictly after today, plus weeksAhead
// additional weeks. A run triggered on a Monday targets the following week.
// Arithmetic is on civil dates so DST transitions cannot shift the result.
func NextTargetWeekStart(tz string, weeksAhead int, now time.Time) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", err
	}

	local := now.In(loc)
	year, month, day := local.Date()

	daysAhead := (int(time.Monday) - int(local.Weekday()) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}

	target := time.Date(year, month, day+daysAhead+7*weeksAhead, 0, 0, 0, 0, time.UTC)
	return target.Format("2006-01-02"), nil
}
