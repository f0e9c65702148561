package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordbin/internal/course"
	"github.com/verte-zerg/wordbin/internal/model"
	"github.com/verte-zerg/wordbin/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "wordbin.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	today := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	var ids []string
	for i := 0; i < 3; i++ {
		start := today.Add(time.Duration(i-3) * time.Hour)
		id, err := st.InsertSession(ctx, model.SessionStats{
			StartedAt: start,
			EndedAt:   start.Add(10 * time.Minute),
			ListID:    "animals.txt",
			Words:     2,
			Bins:      4,
			Correct:   8,
			Incorrect: 2,
			Finished:  true,
		}, []model.WordStats{{Question: "hond", Answer: "dog", Attempts: 3, Correct: 2, Bin: 3}})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, st.AddDailyCorrect(ctx, today, 24))
	require.NoError(t, st.AddDailyCorrect(ctx, today.AddDate(0, 0, -1), 20))

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 2}, today)
	require.NoError(t, err)
	require.Len(t, report.Sessions, 2)
	assert.Equal(t, ids[1], report.Sessions[0].SessionID)
	assert.Equal(t, ids[2], report.Sessions[1].SessionID)
	assert.Equal(t, 2, report.Summary.Sessions)
	assert.Equal(t, 2, report.Streak)
	assert.Len(t, report.Calendar, StreakWindow)
	require.Len(t, report.Missed, 1)
	assert.Equal(t, 3, report.Missed[0].Wrong)
	assert.Empty(t, report.Lists)

	c, err := course.New(course.DefaultSettings())
	require.NoError(t, err)
	c.AddList(course.ListDescriptor{ID: "animals.txt"}, []model.WordPair{{Question: "hond", Answer: "dog"}})
	c.Record("hond", false)
	require.NoError(t, st.SaveCourse(ctx, c.Snapshot()))

	report, err = BuildReport(ctx, st, model.StatsConfig{}, today)
	require.NoError(t, err)
	require.Len(t, report.Lists, 1)
	assert.Equal(t, "animals.txt", report.Lists[0].ID)
	require.Len(t, report.ErrorProne, 1)
	assert.Equal(t, "hond", report.ErrorProne[0].Pair.Question)
}
