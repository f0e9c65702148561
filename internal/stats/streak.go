// Package stats contains statistics calculations and reporting.
package stats

import (
	"time"

	"github.com/verte-zerg/wordbin/internal/model"
)

const (
	// DailyGoal is the number of correct answers that checks a day.
	DailyGoal = 20
	// StreakWindow is the number of days shown in the streak calendar.
	StreakWindow = 28
)

// Day is one entry of the streak calendar.
type Day struct {
	Key     string
	Correct int
	Checked bool
}

// Streak counts consecutive checked days ending today, or ending yesterday
// when today is not checked yet. daily maps day keys to correct answers.
func Streak(daily map[string]int, today time.Time, required int) int {
	day := today
	if daily[model.DayKey(day)] < required {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for daily[model.DayKey(day)] >= required && required > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// PastDays returns the day keys of the n days up to today, oldest first.
func PastDays(today time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = model.DayKey(today.AddDate(0, 0, -i))
	}
	return out
}

// Calendar returns the last n days with their progress, oldest first.
func Calendar(daily map[string]int, today time.Time, n, required int) []Day {
	keys := PastDays(today, n)
	out := make([]Day, 0, len(keys))
	for _, key := range keys {
		out = append(out, Day{Key: key, Correct: daily[key], Checked: required > 0 && daily[key] >= required})
	}
	return out
}
