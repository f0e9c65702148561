// Package course tracks word history across word lists and composes lessons.
package course

import (
	"fmt"
	"time"

	"github.com/verte-zerg/wordbin/internal/model"
)

// SnapshotVersion is the current course snapshot layout.
const SnapshotVersion = 1

// Snapshot is the persisted form of a course.
type Snapshot struct {
	Version  int            `yaml:"version"`
	Settings Settings       `yaml:"settings"`
	Lists    []ListSnapshot `yaml:"lists"`
}

// ListSnapshot is the persisted form of one list and its word history.
type ListSnapshot struct {
	ID              string         `yaml:"id"`
	SourceTimestamp time.Time      `yaml:"source_timestamp"`
	ContentHash     string         `yaml:"content_hash"`
	Words           []WordSnapshot `yaml:"words"`
}

// WordSnapshot is the persisted form of one word history.
type WordSnapshot struct {
	Pair       model.WordPair `yaml:"pair"`
	AskedTimes int            `yaml:"asked_times"`
	LastAsked  *time.Time     `yaml:"last_asked,omitempty"`
	ErrorRate  float64        `yaml:"error_rate"`
}

// Snapshot captures the course state. Times are stored in UTC.
func (c *Course) Snapshot() Snapshot {
	snap := Snapshot{
		Version:  SnapshotVersion,
		Settings: c.settings,
		Lists:    make([]ListSnapshot, 0, len(c.lists)),
	}
	for _, l := range c.lists {
		ls := ListSnapshot{
			ID:              l.desc.ID,
			SourceTimestamp: l.desc.SourceTimestamp.UTC(),
			ContentHash:     l.desc.ContentHash,
			Words:           make([]WordSnapshot, 0, len(l.words)),
		}
		for _, h := range l.words {
			ws := WordSnapshot{
				Pair:       h.Pair,
				AskedTimes: h.AskedTimes,
				ErrorRate:  h.ErrorRate,
			}
			if h.LastAsked != nil {
				t := h.LastAsked.UTC()
				ws.LastAsked = &t
			}
			ls.Words = append(ls.Words, ws)
		}
		snap.Lists = append(snap.Lists, ls)
	}
	return snap
}

// Restore rebuilds a course from a snapshot.
func Restore(snap Snapshot, opts ...Option) (*Course, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedSnapshot, snap.Version)
	}
	c, err := New(snap.Settings, opts...)
	if err != nil {
		return nil, err
	}
	for _, ls := range snap.Lists {
		if c.list(ls.ID) != nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateList, ls.ID)
		}
		l := &list{
			desc: ListDescriptor{
				ID:              ls.ID,
				SourceTimestamp: ls.SourceTimestamp.UTC(),
				ContentHash:     ls.ContentHash,
			},
			words: make([]*WordHistory, 0, len(ls.Words)),
		}
		for _, ws := range ls.Words {
			h := &WordHistory{
				Pair:       ws.Pair,
				AskedTimes: ws.AskedTimes,
				ErrorRate:  ws.ErrorRate,
			}
			if ws.LastAsked != nil {
				t := ws.LastAsked.UTC()
				h.LastAsked = &t
			}
			l.words = append(l.words, h)
		}
		c.lists = append(c.lists, l)
	}
	return c, nil
}
