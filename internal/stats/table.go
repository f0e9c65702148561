// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wordbin/internal/course"
	"github.com/verte-zerg/wordbin/internal/model"
)

// ListTable returns the header and rows of the per-list table.
func ListTable(lists []course.ListStat) ([]string, [][]string) {
	headers := []string{"List", "Questions", "Times Asked", "Error Rate"}
	rows := make([][]string, 0, len(lists))
	for _, l := range lists {
		rows = append(rows, []string{
			l.ID,
			fmt.Sprintf("%d", l.Size),
			fmt.Sprintf("%.1f", l.AvgAsked),
			fmt.Sprintf("%.2f%%", l.AvgErrorRate*100),
		})
	}
	return headers, rows
}

// RenderListTable prints size, average times asked and error rate per list.
func RenderListTable(w io.Writer, lists []course.ListStat) error {
	if len(lists) == 0 {
		_, err := fmt.Fprintln(w, "No lists in the course.")
		return err
	}
	headers, rows := ListTable(lists)
	return writeTable(w, "Lists", headers, rows, map[int]bool{1: true, 2: true, 3: true})
}

// RenderMissedTable prints the words answered wrong most often.
func RenderMissedTable(w io.Writer, missed []model.MissedWord) error {
	if len(missed) == 0 {
		_, err := fmt.Fprintln(w, "No missed words.")
		return err
	}
	headers := []string{"Question", "Answer", "Attempts", "Wrong"}
	rows := make([][]string, 0, len(missed))
	for _, m := range missed {
		rows = append(rows, []string{
			m.Question,
			m.Answer,
			fmt.Sprintf("%d", m.Attempts),
			fmt.Sprintf("%d", m.Wrong),
		})
	}
	return writeTable(w, "Most Missed", headers, rows, map[int]bool{2: true, 3: true})
}

// ErrorTable returns the header and rows of the error-prone word table.
func ErrorTable(words []course.WordHistory) ([]string, [][]string) {
	headers := []string{"Question", "Answer", "Asked", "Error Rate"}
	rows := make([][]string, 0, len(words))
	for _, h := range words {
		rows = append(rows, []string{
			h.Pair.Question,
			h.Pair.Answer,
			fmt.Sprintf("%d", h.AskedTimes),
			fmt.Sprintf("%.2f%%", h.ErrorRate*100),
		})
	}
	return headers, rows
}

// RenderErrorTable prints the most error-prone words of the course.
func RenderErrorTable(w io.Writer, words []course.WordHistory) error {
	if len(words) == 0 {
		_, err := fmt.Fprintln(w, "No error-prone words.")
		return err
	}
	headers, rows := ErrorTable(words)
	return writeTable(w, "Error-Prone Words", headers, rows, map[int]bool{2: true, 3: true})
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

// displayWidth counts terminal cells, so wide scripts line up.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
