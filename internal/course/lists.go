// Package course tracks word history across word lists and composes lessons.
package course

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/wordbin/internal/model"
)

// RefreshResult summarizes a list refresh.
type RefreshResult struct {
	Kept    int
	Added   int
	Removed int
}

// ListStat describes one list of the course.
type ListStat struct {
	ID           string
	Size         int
	AvgAsked     float64
	AvgErrorRate float64
}

// AddList adds a list with fresh history for every pair. A list that is
// already part of the course is left alone and false is returned.
func (c *Course) AddList(desc ListDescriptor, pairs []model.WordPair) bool {
	if c.list(desc.ID) != nil {
		return false
	}
	l := &list{desc: desc, words: make([]*WordHistory, 0, len(pairs))}
	for _, p := range pairs {
		l.words = append(l.words, newHistory(p))
	}
	c.lists = append(c.lists, l)
	c.log.Info("list added", zap.String("list", desc.ID), zap.Int("words", len(pairs)))
	return true
}

// RemoveList drops a list and its word history. It reports whether the list existed.
func (c *Course) RemoveList(id string) bool {
	for i, l := range c.lists {
		if l.desc.ID == id {
			c.lists = append(c.lists[:i], c.lists[i+1:]...)
			c.log.Info("list removed", zap.String("list", id))
			return true
		}
	}
	return false
}

// RefreshList replaces the words of a list that changed on disk. History is
// kept for pairs whose question and answer did not change.
func (c *Course) RefreshList(desc ListDescriptor, pairs []model.WordPair) (RefreshResult, error) {
	l := c.list(desc.ID)
	if l == nil {
		return RefreshResult{}, fmt.Errorf("%w: %s", ErrUnknownList, desc.ID)
	}
	old := make([]*WordHistory, len(l.words))
	copy(old, l.words)

	var res RefreshResult
	words := make([]*WordHistory, 0, len(pairs))
	for _, p := range pairs {
		h := popHistory(&old, p)
		if h == nil {
			h = newHistory(p)
			res.Added++
			c.log.Info("word added", zap.String("list", desc.ID), zap.String("question", p.Question), zap.String("answer", p.Answer))
		} else {
			h.Pair = p
			res.Kept++
		}
		words = append(words, h)
	}
	for _, h := range old {
		res.Removed++
		c.log.Info("word removed", zap.String("list", desc.ID), zap.String("question", h.Pair.Question), zap.String("answer", h.Pair.Answer))
	}
	l.desc = desc
	l.words = words
	return res, nil
}

func popHistory(old *[]*WordHistory, p model.WordPair) *WordHistory {
	key := p.Key()
	for i, h := range *old {
		if h.Pair.Key() == key {
			*old = append((*old)[:i], (*old)[i+1:]...)
			return h
		}
	}
	return nil
}

// StaleLists returns the IDs of lists whose source changed after they were
// read. modTimes maps list IDs to the current modification time of their
// source; lists missing from it are skipped.
func (c *Course) StaleLists(modTimes map[string]time.Time) []string {
	var out []string
	for _, l := range c.lists {
		mod, ok := modTimes[l.desc.ID]
		if ok && mod.After(l.desc.SourceTimestamp) {
			out = append(out, l.desc.ID)
		}
	}
	return out
}

// Lists returns the descriptors of all lists in insertion order.
func (c *Course) Lists() []ListDescriptor {
	out := make([]ListDescriptor, 0, len(c.lists))
	for _, l := range c.lists {
		out = append(out, l.desc)
	}
	return out
}

// HasList reports whether the course holds a list.
func (c *Course) HasList(id string) bool {
	return c.list(id) != nil
}

// ListStats returns size, average times asked and average error rate per list.
func (c *Course) ListStats() []ListStat {
	out := make([]ListStat, 0, len(c.lists))
	for _, l := range c.lists {
		stat := ListStat{ID: l.desc.ID, Size: len(l.words)}
		if len(l.words) > 0 {
			var asked int
			var errs float64
			for _, h := range l.words {
				asked += h.AskedTimes
				errs += h.ErrorRate
			}
			stat.AvgAsked = float64(asked) / float64(len(l.words))
			stat.AvgErrorRate = errs / float64(len(l.words))
		}
		out = append(out, stat)
	}
	return out
}

func (c *Course) list(id string) *list {
	for _, l := range c.lists {
		if l.desc.ID == id {
			return l
		}
	}
	return nil
}
