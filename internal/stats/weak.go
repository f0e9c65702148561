// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/wordbin/internal/course"
)

// ErrorProne selects the words with the highest error rate that were asked
// at least once. Ties are broken by times asked, then by question.
func ErrorProne(histories []course.WordHistory, top int) []course.WordHistory {
	candidates := make([]course.WordHistory, 0, len(histories))
	for _, h := range histories {
		if h.AskedTimes > 0 && h.ErrorRate > 0 {
			candidates = append(candidates, h)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ErrorRate == candidates[j].ErrorRate {
			if candidates[i].AskedTimes == candidates[j].AskedTimes {
				return candidates[i].Pair.Question < candidates[j].Pair.Question
			}
			return candidates[i].AskedTimes > candidates[j].AskedTimes
		}
		return candidates[i].ErrorRate > candidates[j].ErrorRate
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}
