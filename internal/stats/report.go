// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/wordbin/internal/course"
	"github.com/verte-zerg/wordbin/internal/model"
	"github.com/verte-zerg/wordbin/internal/store"
)

const (
	// DefaultTopMissed is the number of missed words in a report.
	DefaultTopMissed = 15
	// DefaultTopErrors is the number of error-prone course words in a report.
	DefaultTopErrors = 15
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions   []model.SessionAggregate
	Summary    Summary
	Daily      map[string]int
	Calendar   []Day
	Streak     int
	Missed     []model.MissedWord
	Lists      []course.ListStat
	ErrorProne []course.WordHistory
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig, today time.Time) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	daily, err := st.ListDaily(ctx, today.AddDate(0, 0, -StreakWindow))
	if err != nil {
		return Report{}, fmt.Errorf("failed to load daily progress: %w", err)
	}
	missed, err := st.TopMissed(ctx, DefaultTopMissed)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load missed words: %w", err)
	}

	report := Report{
		Sessions: sessions,
		Summary:  Summarize(sessions),
		Daily:    daily,
		Calendar: Calendar(daily, today, StreakWindow, DailyGoal),
		Streak:   Streak(daily, today, DailyGoal),
		Missed:   missed,
	}

	snap, ok, err := st.LoadCourse(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load course: %w", err)
	}
	if ok {
		c, err := course.Restore(snap)
		if err != nil {
			return Report{}, fmt.Errorf("failed to restore course: %w", err)
		}
		report.Lists = c.ListStats()
		report.ErrorProne = ErrorProne(c.Histories(), DefaultTopErrors)
	}
	return report, nil
}
