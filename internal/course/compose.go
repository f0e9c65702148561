// Package course tracks word history across word lists and composes lessons.
package course

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/verte-zerg/wordbin/internal/model"
)

// ErrorThreshold is the lowest error rate of a word in the error pool.
const ErrorThreshold = 0.1

// floorEpsilon absorbs float error in budget*weight before truncation.
const floorEpsilon = 1e-9

type pool struct {
	name   string
	words  []*WordHistory
	weight float64
}

// ComposeLesson builds the word set of the next lesson.
//
// Error-prone, long unasked and new words form three pools weighted by
// PctErrors, PctRepetition and the rest. Pools are served smallest first so
// that rounding does not starve a small pool; the largest pool fills the
// remaining budget. A word picked by two pools appears once, so the lesson
// can be shorter than LessonSize.
func (c *Course) ComposeLesson() []model.WordPair {
	all := c.all()
	pools := [3]pool{
		{name: "errors", words: errorPool(all), weight: c.settings.PctErrors},
		{name: "repetition", words: repeatPool(all), weight: c.settings.PctRepetition},
		{name: "new", words: newPool(all), weight: 1 - c.settings.PctErrors - c.settings.PctRepetition},
	}
	for i := range pools {
		for j := 0; j < i; j++ {
			if len(pools[i].words) < len(pools[j].words) {
				pools[i], pools[j] = pools[j], pools[i]
			}
		}
	}

	size := c.settings.LessonSize
	l := newLesson(size)
	l.take(pools[0].words, target(size, pools[0].weight))

	middle := 0.0
	if sum := pools[1].weight + pools[2].weight; sum > 0 {
		middle = pools[1].weight / sum
	}
	l.take(pools[1].words, target(size-l.len(), middle))
	l.take(pools[2].words, size-l.len())

	c.log.Debug("composed lesson",
		zap.Int(pools[0].name, len(pools[0].words)),
		zap.Int(pools[1].name, len(pools[1].words)),
		zap.Int(pools[2].name, len(pools[2].words)),
		zap.Int("words", l.len()))
	return l.pairs
}

func target(budget int, weight float64) int {
	if budget <= 0 || weight <= 0 {
		return 0
	}
	return int(math.Floor(float64(budget)*weight + floorEpsilon))
}

// errorPool returns words with an error rate of at least ErrorThreshold, worst first.
func errorPool(all []*WordHistory) []*WordHistory {
	var out []*WordHistory
	for _, h := range all {
		if h.ErrorRate >= ErrorThreshold {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ErrorRate > out[j].ErrorRate
	})
	return out
}

// repeatPool returns words asked before, least recently asked first.
func repeatPool(all []*WordHistory) []*WordHistory {
	var out []*WordHistory
	for _, h := range all {
		if h.LastAsked != nil {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastAsked.Before(*out[j].LastAsked)
	})
	return out
}

// newPool returns words never asked, in list order.
func newPool(all []*WordHistory) []*WordHistory {
	var out []*WordHistory
	for _, h := range all {
		if h.AskedTimes == 0 {
			out = append(out, h)
		}
	}
	return out
}

type lesson struct {
	seen  map[*WordHistory]struct{}
	pairs []model.WordPair
}

func newLesson(size int) *lesson {
	return &lesson{
		seen:  make(map[*WordHistory]struct{}, size),
		pairs: make([]model.WordPair, 0, size),
	}
}

func (l *lesson) len() int { return len(l.pairs) }

// take adds the first n words of words, skipping words already in the lesson.
func (l *lesson) take(words []*WordHistory, n int) {
	if n > len(words) {
		n = len(words)
	}
	for _, h := range words[:max(n, 0)] {
		if _, ok := l.seen[h]; ok {
			continue
		}
		l.seen[h] = struct{}{}
		l.pairs = append(l.pairs, h.Pair)
	}
}
