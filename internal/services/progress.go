package services

import "time"

// Stats is the streak/daily-goal aggregate of one user.
type Stats struct {
	Streak         int
	DailyGoalCount int
	LastActive     *time.Time
}

// NextStats applies one completed focus session on the given day.
//
// The streak grows when the previous session was yesterday, holds when it
// was today and restarts at 1 otherwise. DailyGoalCount is incremented
// unconditionally; it is not reset when a new day begins.
func NextStats(cur Stats, today time.Time) Stats {
	today = DateOf(today)
	yesterday := today.AddDate(0, 0, -1)

	next := Stats{
		Streak:         1,
		DailyGoalCount: cur.DailyGoalCount + 1,
		LastActive:     &today,
	}

	if cur.LastActive != nil {
		last := DateOf(*cur.LastActive)
		switch {
		case last.Equal(yesterday):
			next.Streak = cur.Streak + 1
		case last.Equal(today):
			next.Streak = cur.Streak
		}
	}
	return next
}

// DateOf strips the time of day, keeping t's calendar date as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
