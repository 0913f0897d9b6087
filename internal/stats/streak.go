package stats

import "time"

// Streak counts consecutive days with reading activity, walking back from
// today. A streak that is unbroken up to yesterday still counts even if
// today has no activity yet, so the dashboard does not show zero before
// the user's first session of the day.
//
// days may be in any order and may contain duplicates or full timestamps;
// only the calendar date (in now's location) matters.
func Streak(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	active := make(map[time.Time]bool, len(days))
	for _, d := range days {
		active[dateOf(d.In(now.Location()))] = true
	}

	cursor := dateOf(now)
	if !active[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for active[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
