package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordbin/internal/course"
	"github.com/verte-zerg/wordbin/internal/model"
	"github.com/verte-zerg/wordbin/internal/stats"
	"github.com/verte-zerg/wordbin/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "wordbin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestRenderCalendarWeeks(t *testing.T) {
	today := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	daily := map[string]int{model.DayKey(today): 25}
	days := stats.Calendar(daily, today, 10, stats.DailyGoal)

	out := renderCalendar(days, 1)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Last 10 days")
	assert.Equal(t, 7, strings.Count(lines[1], "□"))
	assert.Equal(t, 2, strings.Count(lines[2], "□"))
	assert.Equal(t, 1, strings.Count(lines[2], "■"))
}

func TestDashboardWithCourse(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	c, err := course.New(course.DefaultSettings())
	require.NoError(t, err)
	c.AddList(course.ListDescriptor{ID: "animals.txt"}, []model.WordPair{
		{Question: "hond", Answer: "dog"},
		{Question: "kat", Answer: "cat"},
	})
	c.Record("hond", false)
	require.NoError(t, st.SaveCourse(ctx, c.Snapshot()))
	_, err = st.InsertSession(ctx, model.SessionStats{
		StartedAt: time.Now().Add(-time.Minute),
		EndedAt:   time.Now(),
		ListID:    "animals.txt",
		Correct:   3,
		Incorrect: 1,
		Finished:  true,
	}, nil)
	require.NoError(t, err)

	m := NewModel(st, model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	require.Empty(t, m.errMsg)

	view := m.View()
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "Sessions")
	assert.Contains(t, view, "75.0%")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabLists, m.activeTab)
	assert.Contains(t, m.View(), "animals.txt")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabErrors, m.activeTab)
	assert.Contains(t, m.View(), "hond")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabOverview, m.activeTab)
}

func TestApplyFilter(t *testing.T) {
	m := NewModel(openTestStore(t), model.StatsConfig{})
	m.startFilter()
	m.filterInputs[0].SetValue("animals.txt")
	m.filterInputs[1].SetValue("2024-05-01")
	m.filterInputs[2].SetValue("3")
	require.NoError(t, m.applyFilter())
	assert.Equal(t, "animals.txt", m.cfg.ListID)
	require.NotNil(t, m.cfg.Since)
	assert.Equal(t, "2024-05-01", m.cfg.Since.Format(model.DayLayout))
	assert.Equal(t, 3, m.cfg.Last)

	m.filterInputs[1].SetValue("May 1st")
	assert.Error(t, m.applyFilter())
	m.filterInputs[1].SetValue("")
	m.filterInputs[2].SetValue("-1")
	assert.Error(t, m.applyFilter())
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(openTestStore(t), model.StatsConfig{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
