package stats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordbin/internal/course"
	"github.com/verte-zerg/wordbin/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"List", "Questions", "Error Rate"}
	rows := [][]string{
		{"a.txt", "12", "97.50%"},
		{"animals.txt", "3", "8.00%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	require.Len(t, lines, 3)
	assert.Equal(t, "List        Questions Error Rate", lines[0])
	assert.Equal(t, "a.txt              12     97.50%", lines[1])
	assert.Equal(t, "animals.txt         3      8.00%", lines[2])
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Q", "A"}, [][]string{{"犬", "dog"}, {"cat", "猫"}}, nil)
	require.Len(t, lines, 3)
	assert.Equal(t, "Q   A", lines[0])
	assert.Equal(t, "犬  dog", lines[1])
	assert.Equal(t, "cat 猫", lines[2])
}

func TestRenderListTable(t *testing.T) {
	var buf bytes.Buffer
	err := RenderListTable(&buf, []course.ListStat{
		{ID: "animals.txt", Size: 10, AvgAsked: 2.5, AvgErrorRate: 0.125},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Lists\n")
	assert.Contains(t, out, "List        Questions Times Asked Error Rate")
	assert.Contains(t, out, "animals.txt        10         2.5     12.50%")
}

func TestRenderEmptyTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderListTable(&buf, nil))
	require.NoError(t, RenderMissedTable(&buf, nil))
	require.NoError(t, RenderErrorTable(&buf, nil))
	assert.Equal(t, "No lists in the course.\nNo missed words.\nNo error-prone words.\n", buf.String())
}

func TestRenderMissedTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderMissedTable(&buf, []model.MissedWord{
		{Question: "hond", Answer: "dog", Attempts: 5, Wrong: 3},
	}))
	assert.Contains(t, buf.String(), "hond     dog           5     3")
}
