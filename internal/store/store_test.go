package store

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordbin/internal/course"
	"github.com/verte-zerg/wordbin/internal/drill"
	"github.com/verte-zerg/wordbin/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "wordbin.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func TestOpenTwiceKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordbin.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.AddDailyCorrect(context.Background(), time.Now(), 3))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	daily, err := st.ListDaily(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, daily[model.DayKey(time.Now())])
}

func TestCourseRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, ok, err := st.LoadCourse(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	clock := time.Date(2024, 5, 1, 8, 30, 0, 123456789, time.UTC)
	c, err := course.New(course.DefaultSettings(), course.WithClock(func() time.Time { return clock }))
	require.NoError(t, err)
	c.AddList(course.ListDescriptor{ID: "animals.txt", SourceTimestamp: clock.Add(-time.Hour), ContentHash: "abc"},
		[]model.WordPair{
			{Question: "hond", Answer: "dog"},
			{Question: "dog", Answer: "hond", Direction: 1},
		})
	c.AddList(course.ListDescriptor{ID: "empty.txt"}, nil)
	c.Record("hond", false)

	snap := c.Snapshot()
	require.NoError(t, st.SaveCourse(ctx, snap))
	require.NoError(t, st.SaveCourse(ctx, snap))

	loaded, ok, err := st.LoadCourse(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, loaded)

	restored, err := course.Restore(loaded)
	require.NoError(t, err)
	assert.Equal(t, c.ComposeLesson(), restored.ComposeLesson())
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := st.InsertSession(ctx, model.SessionStats{
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			EndedAt:   base.Add(time.Duration(i)*time.Hour + 10*time.Minute),
			ListID:    []string{"a.txt", "b.txt", "a.txt"}[i],
			Words:     4,
			Bins:      4,
			Asked:     10,
			Correct:   8 - i,
			Incorrect: 2 + i,
			Finished:  i != 1,
		}, []model.WordStats{{Question: "hond", Answer: "dog", Attempts: 3, Correct: 2, Bin: 3}})
		require.NoError(t, err)
		_, err = uuid.Parse(id)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[0], all[0].SessionID)
	assert.True(t, all[0].Finished)
	assert.False(t, all[1].Finished)
	assert.Equal(t, base.Add(10*time.Minute), all[0].EndedAt)

	filtered, err := st.ListSessions(ctx, model.StatsConfig{ListID: "a.txt"})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, ids[2], filtered[1].SessionID)

	since := base.Add(60 * time.Minute)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[1], recent[0].SessionID)
	assert.Equal(t, ids[2], recent[1].SessionID)

	since = base.Add(90 * time.Minute)
	recent, err = st.ListSessions(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, ids[2], recent[0].SessionID)

	last, err := st.ListSessions(ctx, model.StatsConfig{Last: 2})
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, ids[1], last[0].SessionID)
	assert.Equal(t, ids[2], last[1].SessionID)
}

func TestListSessionsSubSecondTimes(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	noon := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for _, end := range []time.Time{noon.Add(500 * time.Millisecond), noon, noon.Add(-time.Nanosecond)} {
		id, err := st.InsertSession(ctx, model.SessionStats{StartedAt: end.Add(-time.Minute), EndedAt: end, ListID: "a.txt"}, nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &noon})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[1], recent[0].SessionID)
	assert.Equal(t, ids[0], recent[1].SessionID)
	assert.Equal(t, noon.Add(500*time.Millisecond), recent[1].EndedAt)
}

func TestInsertSessionKeepsGivenID(t *testing.T) {
	st := openTestStore(t)
	id, err := st.InsertSession(context.Background(), model.SessionStats{ID: "fixed"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)
}

func TestTopMissed(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	words := []model.WordStats{
		{Question: "hond", Answer: "dog", Attempts: 4, Correct: 1},
		{Question: "kat", Answer: "cat", Attempts: 2, Correct: 1},
		{Question: "vis", Answer: "fish", Attempts: 1, Correct: 1},
	}
	_, err := st.InsertSession(ctx, model.SessionStats{}, words)
	require.NoError(t, err)
	_, err = st.InsertSession(ctx, model.SessionStats{}, words[1:2])
	require.NoError(t, err)

	missed, err := st.TopMissed(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []model.MissedWord{
		{Question: "hond", Answer: "dog", Attempts: 4, Wrong: 3},
		{Question: "kat", Answer: "cat", Attempts: 4, Wrong: 2},
	}, missed)

	top, err := st.TopMissed(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestDailyProgress(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	day := time.Date(2024, 5, 3, 9, 0, 0, 0, time.Local)

	require.NoError(t, st.AddDailyCorrect(ctx, day, 5))
	require.NoError(t, st.AddDailyCorrect(ctx, day.Add(2*time.Hour), 7))
	require.NoError(t, st.AddDailyCorrect(ctx, day.AddDate(0, 0, -3), 20))
	require.NoError(t, st.AddDailyCorrect(ctx, day, 0))

	daily, err := st.ListDaily(ctx, day.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2024-05-03": 12}, daily)

	daily, err = st.ListDaily(ctx, day.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Len(t, daily, 2)
}

func TestActiveSession(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, ok, err := st.LoadActiveSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	s, err := drill.NewSession([]model.WordPair{
		{Question: "hond", Answer: "dog"},
		{Question: "kat", Answer: "cat"},
	}, drill.WithRand(rand.New(rand.NewSource(3))))
	require.NoError(t, err)
	require.NoError(t, s.SelectNext())
	_, err = s.Evaluate("wrong")
	require.NoError(t, err)

	active := ActiveSession{
		ListID:    "animals.txt",
		StartedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Asked:     1,
		Drill:     s.Snapshot(),
	}
	require.NoError(t, st.SaveActiveSession(ctx, active))
	require.NoError(t, st.SaveActiveSession(ctx, active))

	loaded, ok, err := st.LoadActiveSession(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, active, loaded)

	resumed, err := drill.Restore(loaded.Drill)
	require.NoError(t, err)
	assert.Equal(t, s.Population(), resumed.Population())

	require.NoError(t, st.ClearActiveSession(ctx))
	_, ok, err = st.LoadActiveSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
