package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordbin/internal/model"
)

func questions(lesson []model.WordPair) []string {
	out := make([]string, 0, len(lesson))
	for _, p := range lesson {
		out = append(out, p.Question)
	}
	return out
}

func word(q string, asked int, lastAsked *time.Time, errorRate float64) WordSnapshot {
	return WordSnapshot{
		Pair:       model.WordPair{Question: q, Answer: q + "-answer"},
		AskedTimes: asked,
		LastAsked:  lastAsked,
		ErrorRate:  errorRate,
	}
}

func at(minutes int) *time.Time {
	t := baseTime.Add(time.Duration(minutes) * time.Minute)
	return &t
}

func TestComposeLessonThreePools(t *testing.T) {
	settings := DefaultSettings()
	settings.LessonSize = 10
	c, err := Restore(Snapshot{
		Version:  SnapshotVersion,
		Settings: settings,
		Lists: []ListSnapshot{{
			ID: "l1",
			Words: []WordSnapshot{
				word("B", 1, nil, 0.5),
				word("E", 1, at(3), 0),
				word("F", 0, nil, 0),
				word("C", 1, at(1), 0),
				word("A", 1, nil, 0.9),
				word("G", 0, nil, 0),
				word("D", 1, at(2), 0),
				word("H", 0, nil, 0),
				word("I", 0, nil, 0),
				word("J", 0, nil, 0),
			},
		}},
	})
	require.NoError(t, err)

	lesson := c.ComposeLesson()
	assert.Equal(t, []string{"A", "B", "C", "D", "F", "G", "H", "I", "J"}, questions(lesson))
	assert.Equal(t, lesson, c.ComposeLesson())
}

func TestComposeLessonOnlyNewWords(t *testing.T) {
	settings := Settings{LessonSize: 3, Decay: DefaultDecay}
	c := newTestCourse(t, settings)
	c.AddList(ListDescriptor{ID: "l1"}, pairs("a", "b", "c", "d", "e"))

	assert.Equal(t, []string{"a", "b", "c"}, questions(c.ComposeLesson()))

	settings.LessonSize = 10
	require.NoError(t, c.SetSettings(settings))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, questions(c.ComposeLesson()))
}

func TestComposeLessonZeroWeightsSkipAskedWords(t *testing.T) {
	settings := Settings{LessonSize: 4, Decay: DefaultDecay}
	c := newTestCourse(t, settings)
	c.AddList(ListDescriptor{ID: "l1"}, pairs("a", "b", "c", "d", "e", "f", "g", "h"))
	c.Record("a", true)
	c.Record("b", true)

	assert.Equal(t, []string{"c", "d", "e", "f"}, questions(c.ComposeLesson()))
}

func TestComposeLessonDuplicatesShortenLesson(t *testing.T) {
	settings := DefaultSettings()
	settings.LessonSize = 4
	c := newTestCourse(t, settings)
	c.AddList(ListDescriptor{ID: "l1"}, pairs("w1", "w2", "w3", "new"))
	c.Record("w1", false)
	c.Record("w2", false)
	c.Record("w3", false)

	// new (1 word) is served first, then the oldest repeat w1, then the
	// error pool whose head w1 is already in the lesson.
	assert.Equal(t, []string{"new", "w1", "w2"}, questions(c.ComposeLesson()))
}

func TestComposeLessonEmptyCourse(t *testing.T) {
	c := newTestCourse(t, DefaultSettings())
	assert.Empty(t, c.ComposeLesson())
}

func TestComposeLessonAllAnswered(t *testing.T) {
	settings := DefaultSettings()
	settings.LessonSize = 2
	c := newTestCourse(t, settings)
	c.AddList(ListDescriptor{ID: "l1"}, pairs("a", "b", "c"))
	c.Record("c", true)
	c.Record("a", true)
	c.Record("b", true)

	// Errors and new words are empty; the repeat pool fills the lesson oldest first.
	assert.Equal(t, []string{"c", "a"}, questions(c.ComposeLesson()))
}

func TestErrorPoolThreshold(t *testing.T) {
	all := []*WordHistory{
		{Pair: model.WordPair{Question: "low"}, ErrorRate: 0.09},
		{Pair: model.WordPair{Question: "edge"}, ErrorRate: 0.1},
		{Pair: model.WordPair{Question: "high"}, ErrorRate: 0.8},
	}
	got := errorPool(all)
	require.Len(t, got, 2)
	assert.Equal(t, "high", got[0].Pair.Question)
	assert.Equal(t, "edge", got[1].Pair.Question)
}

func TestTarget(t *testing.T) {
	assert.Equal(t, 2, target(10, 0.2))
	assert.Equal(t, 29, target(100, 0.29))
	assert.Equal(t, 0, target(10, 0))
	assert.Equal(t, 0, target(0, 0.5))
	assert.Equal(t, 1, target(3, 0.5))
}
