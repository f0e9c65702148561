package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/wordbin/internal/model"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// tickingClock returns a clock that advances one minute per call.
func tickingClock() func() time.Time {
	now := baseTime
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func pairs(questions ...string) []model.WordPair {
	out := make([]model.WordPair, 0, len(questions))
	for i, q := range questions {
		out = append(out, model.WordPair{Question: q, Answer: q + "-answer", PairIndex: i})
	}
	return out
}

func newTestCourse(t *testing.T, settings Settings) *Course {
	t.Helper()
	c, err := New(settings, WithClock(tickingClock()))
	require.NoError(t, err)
	return c
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		want   error
	}{
		{name: "defaults", modify: func(*Settings) {}},
		{name: "zero weights", modify: func(s *Settings) { s.PctErrors, s.PctRepetition = 0, 0 }},
		{name: "zero lesson", modify: func(s *Settings) { s.LessonSize = 0 }, want: ErrInvalidLessonSize},
		{name: "negative pct", modify: func(s *Settings) { s.PctErrors = -0.1 }, want: ErrInvalidWeights},
		{name: "pct above one", modify: func(s *Settings) { s.PctRepetition = 1.5 }, want: ErrInvalidWeights},
		{name: "sum one", modify: func(s *Settings) { s.PctErrors, s.PctRepetition = 0.5, 0.5 }, want: ErrInvalidWeights},
		{name: "decay zero", modify: func(s *Settings) { s.Decay = 0 }, want: ErrInvalidDecay},
		{name: "decay one", modify: func(s *Settings) { s.Decay = 1 }, want: ErrInvalidDecay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			err := s.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSetSettingsKeepsOldOnError(t *testing.T) {
	c := newTestCourse(t, DefaultSettings())
	bad := DefaultSettings()
	bad.LessonSize = -1
	assert.ErrorIs(t, c.SetSettings(bad), ErrInvalidLessonSize)
	assert.Equal(t, DefaultSettings(), c.Settings())

	good := DefaultSettings()
	good.Decay = 0.9
	require.NoError(t, c.SetSettings(good))
	assert.Equal(t, 0.9, c.Settings().Decay)
}

func TestRecordDecay(t *testing.T) {
	c := newTestCourse(t, DefaultSettings())
	c.AddList(ListDescriptor{ID: "l1"}, pairs("a", "b"))

	require.True(t, c.Record("a", false))
	require.True(t, c.Record("a", false))
	require.True(t, c.Record("a", true))

	h := c.Histories()[0]
	assert.Equal(t, 3, h.AskedTimes)
	assert.InDelta(t, 0.328125, h.ErrorRate, 1e-12)
	require.NotNil(t, h.LastAsked)
	assert.Equal(t, baseTime.Add(3*time.Minute), *h.LastAsked)

	other := c.Histories()[1]
	assert.Zero(t, other.AskedTimes)
	assert.Nil(t, other.LastAsked)
}

func TestRecordSlowDecay(t *testing.T) {
	s := DefaultSettings()
	s.Decay = 0.9
	c := newTestCourse(t, s)
	c.AddList(ListDescriptor{ID: "l1"}, pairs("a"))

	c.Record("a", false)
	assert.InDelta(t, 0.1, c.Histories()[0].ErrorRate, 1e-12)
}

func TestRecordFirstMatchWins(t *testing.T) {
	c := newTestCourse(t, DefaultSettings())
	c.AddList(ListDescriptor{ID: "l1"}, pairs("a"))
	c.AddList(ListDescriptor{ID: "l2"}, pairs("a"))

	c.Record("a", true)
	h := c.Histories()
	require.Len(t, h, 2)
	assert.Equal(t, 1, h[0].AskedTimes)
	assert.Equal(t, 0, h[1].AskedTimes)
}

func TestRecordUnknownQuestion(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c, err := New(DefaultSettings(), WithLogger(zap.New(core)))
	require.NoError(t, err)
	c.AddList(ListDescriptor{ID: "l1"}, pairs("a"))

	assert.False(t, c.Record("missing", false))
	assert.Zero(t, c.Histories()[0].AskedTimes)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "unknown question", logs.All()[0].Message)
}

func TestHistoriesAreCopies(t *testing.T) {
	c := newTestCourse(t, DefaultSettings())
	c.AddList(ListDescriptor{ID: "l1"}, pairs("a"))
	c.Record("a", true)

	h := c.Histories()
	*h[0].LastAsked = time.Time{}
	h[0].AskedTimes = 42

	fresh := c.Histories()[0]
	assert.Equal(t, 1, fresh.AskedTimes)
	assert.False(t, fresh.LastAsked.IsZero())
}

func TestAddAndRemoveList(t *testing.T) {
	c := newTestCourse(t, DefaultSettings())
	assert.True(t, c.AddList(ListDescriptor{ID: "l1"}, pairs("a", "b")))
	assert.False(t, c.AddList(ListDescriptor{ID: "l1"}, pairs("c")))
	assert.True(t, c.AddList(ListDescriptor{ID: "l2"}, pairs("c")))
	assert.Equal(t, 3, c.WordCount())
	assert.True(t, c.HasList("l2"))

	assert.True(t, c.RemoveList("l1"))
	assert.False(t, c.RemoveList("l1"))
	assert.Equal(t, 1, c.WordCount())
	assert.Equal(t, []ListDescriptor{{ID: "l2"}}, c.Lists())
	assert.False(t, c.Record("a", true))
}

func TestRefreshList(t *testing.T) {
	c := newTestCourse(t, DefaultSettings())
	c.AddList(ListDescriptor{ID: "l1", ContentHash: "old"}, []model.WordPair{
		{Question: "a", Answer: "x"},
		{Question: "b", Answer: "y"},
		{Question: "c", Answer: "z"},
	})
	c.Record("a", false)
	c.Record("c", false)

	res, err := c.RefreshList(ListDescriptor{ID: "l1", ContentHash: "new"}, []model.WordPair{
		{Question: "d", Answer: "w"},
		{Question: "a", Answer: "x"},
		{Question: "c", Answer: "changed"},
	})
	require.NoError(t, err)
	assert.Equal(t, RefreshResult{Kept: 1, Added: 2, Removed: 2}, res)

	h := c.Histories()
	require.Len(t, h, 3)
	assert.Equal(t, "d", h[0].Pair.Question)
	assert.Zero(t, h[0].AskedTimes)
	assert.Equal(t, "a", h[1].Pair.Question)
	assert.Equal(t, 1, h[1].AskedTimes)
	assert.Equal(t, "c", h[2].Pair.Question)
	assert.Zero(t, h[2].AskedTimes)
	assert.Equal(t, "new", c.Lists()[0].ContentHash)

	_, err = c.RefreshList(ListDescriptor{ID: "nope"}, nil)
	assert.ErrorIs(t, err, ErrUnknownList)
}

func TestStaleLists(t *testing.T) {
	c := newTestCourse(t, DefaultSettings())
	c.AddList(ListDescriptor{ID: "l1", SourceTimestamp: baseTime}, pairs("a"))
	c.AddList(ListDescriptor{ID: "l2", SourceTimestamp: baseTime}, pairs("b"))
	c.AddList(ListDescriptor{ID: "l3", SourceTimestamp: baseTime}, pairs("c"))

	stale := c.StaleLists(map[string]time.Time{
		"l1": baseTime.Add(time.Second),
		"l2": baseTime,
	})
	assert.Equal(t, []string{"l1"}, stale)
}

func TestListStats(t *testing.T) {
	c := newTestCourse(t, DefaultSettings())
	c.AddList(ListDescriptor{ID: "l1"}, pairs("a", "b"))
	c.AddList(ListDescriptor{ID: "empty"}, nil)
	c.Record("a", false)
	c.Record("a", true)
	c.Record("b", true)

	stats := c.ListStats()
	require.Len(t, stats, 2)
	assert.Equal(t, "l1", stats[0].ID)
	assert.Equal(t, 2, stats[0].Size)
	assert.InDelta(t, 1.5, stats[0].AvgAsked, 1e-12)
	assert.InDelta(t, 0.09375, stats[0].AvgErrorRate, 1e-12)
	assert.Equal(t, ListStat{ID: "empty"}, stats[1])
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := newTestCourse(t, DefaultSettings())
	local := time.FixedZone("CET", 3600)
	c.AddList(ListDescriptor{ID: "l1", SourceTimestamp: baseTime.In(local), ContentHash: "h1"}, pairs("a", "b"))
	c.AddList(ListDescriptor{ID: "l2", ContentHash: "h2"}, pairs("c"))
	c.Record("a", false)
	c.Record("c", true)

	snap := c.Snapshot()
	assert.Equal(t, time.UTC, snap.Lists[0].SourceTimestamp.Location())

	restored, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())
	assert.Equal(t, c.ComposeLesson(), restored.ComposeLesson())
}

func TestRestoreRejects(t *testing.T) {
	snap := Snapshot{Version: 7, Settings: DefaultSettings()}
	_, err := Restore(snap)
	assert.ErrorIs(t, err, ErrUnsupportedSnapshot)

	snap.Version = SnapshotVersion
	snap.Settings.LessonSize = 0
	_, err = Restore(snap)
	assert.ErrorIs(t, err, ErrInvalidLessonSize)

	snap.Settings = DefaultSettings()
	snap.Lists = []ListSnapshot{{ID: "l1"}, {ID: "l1"}}
	_, err = Restore(snap)
	assert.ErrorIs(t, err, ErrDuplicateList)
}
