// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/wordbin/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionAccuracy returns the share of correct answers of a session.
func SessionAccuracy(correct, incorrect int) float64 {
	den := correct + incorrect
	if den <= 0 {
		return 0
	}
	return float64(correct) / float64(den)
}

// Summary aggregates a set of sessions.
type Summary struct {
	Sessions     int
	Finished     int
	Correct      int
	Incorrect    int
	AvgAccuracy  float64
	BestAccuracy float64
}

// Summarize computes the summary of sessions.
func Summarize(sessions []model.SessionAggregate) Summary {
	var sum Summary
	if len(sessions) == 0 {
		return sum
	}
	var totalAcc float64
	for _, s := range sessions {
		sum.Sessions++
		if s.Finished {
			sum.Finished++
		}
		sum.Correct += s.Correct
		sum.Incorrect += s.Incorrect
		acc := SessionAccuracy(s.Correct, s.Incorrect)
		totalAcc += acc
		if acc > sum.BestAccuracy {
			sum.BestAccuracy = acc
		}
	}
	sum.AvgAccuracy = totalAcc / float64(len(sessions))
	return sum
}

// AccuracySeries returns the accuracy of each session in percent.
func AccuracySeries(sessions []model.SessionAggregate) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		out[i] = SessionAccuracy(s.Correct, s.Incorrect) * 100
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary of sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d (%d finished)\n", sum.Sessions, sum.Finished); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Answers: %d correct, %d wrong\n", sum.Correct, sum.Incorrect); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", sum.AvgAccuracy*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Accuracy: %.2f%%\n", sum.BestAccuracy*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Trend: %s\n", Sparkline(MovingAverage(AccuracySeries(sessions), 5))); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
