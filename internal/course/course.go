// Package course tracks word history across word lists and composes lessons.
package course

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/wordbin/internal/model"
)

const (
	// DefaultLessonSize is the number of words in a composed lesson.
	DefaultLessonSize = 100
	// DefaultPctErrors is the share of a lesson taken from error-prone words.
	DefaultPctErrors = 0.2
	// DefaultPctRepetition is the share of a lesson taken from words asked long ago.
	DefaultPctRepetition = 0.2
	// DefaultDecay is the share of the old error rate kept per answer.
	// Higher values forget old mistakes more slowly.
	DefaultDecay = 0.75
)

// Settings controls lesson composition and error rate smoothing.
type Settings struct {
	LessonSize    int     `yaml:"lesson_size"`
	PctErrors     float64 `yaml:"pct_errors"`
	PctRepetition float64 `yaml:"pct_repetition"`
	Decay         float64 `yaml:"decay"`
}

// DefaultSettings returns the settings of a new course.
func DefaultSettings() Settings {
	return Settings{
		LessonSize:    DefaultLessonSize,
		PctErrors:     DefaultPctErrors,
		PctRepetition: DefaultPctRepetition,
		Decay:         DefaultDecay,
	}
}

// Validate checks the settings ranges.
func (s Settings) Validate() error {
	if s.LessonSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLessonSize, s.LessonSize)
	}
	if !inUnit(s.PctErrors) || !inUnit(s.PctRepetition) || s.PctErrors+s.PctRepetition >= 1 {
		return fmt.Errorf("%w: got %.2f and %.2f", ErrInvalidWeights, s.PctErrors, s.PctRepetition)
	}
	if !(s.Decay > 0 && s.Decay < 1) {
		return fmt.Errorf("%w: %v", ErrInvalidDecay, s.Decay)
	}
	return nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

// WordHistory is the long-term record of one word of a list.
type WordHistory struct {
	Pair       model.WordPair
	AskedTimes int
	LastAsked  *time.Time
	ErrorRate  float64
}

func newHistory(pair model.WordPair) *WordHistory {
	return &WordHistory{Pair: pair}
}

func (h *WordHistory) clone() WordHistory {
	out := *h
	if h.LastAsked != nil {
		t := *h.LastAsked
		out.LastAsked = &t
	}
	return out
}

// ListDescriptor identifies a word list of the course.
type ListDescriptor struct {
	ID              string
	SourceTimestamp time.Time
	ContentHash     string
}

type list struct {
	desc  ListDescriptor
	words []*WordHistory
}

// Course owns the word history of all its lists. A Course is not safe for
// concurrent use.
type Course struct {
	settings Settings
	lists    []*list
	now      func() time.Time
	log      *zap.Logger
}

// Option configures a Course.
type Option func(*Course)

// WithClock replaces the clock used for lastAsked timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Course) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Course) { c.log = l }
}

// New returns an empty course.
func New(settings Settings, opts ...Option) (*Course, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	c := &Course{settings: settings, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Settings returns the current settings.
func (c *Course) Settings() Settings { return c.settings }

// SetSettings validates and replaces the settings.
func (c *Course) SetSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	c.settings = settings
	return nil
}

// Record stores the outcome of one answer to question. The first word of the
// course with that question text is updated. It reports whether a word was found.
func (c *Course) Record(question string, correct bool) bool {
	h := c.find(question)
	if h == nil {
		c.log.Warn("unknown question", zap.String("question", question))
		return false
	}
	now := c.now()
	penalty := 0.0
	if !correct {
		penalty = 1 - c.settings.Decay
	}
	before := h.ErrorRate
	h.LastAsked = &now
	h.ErrorRate = h.ErrorRate*c.settings.Decay + penalty
	h.AskedTimes++
	c.log.Debug("recorded answer",
		zap.String("question", question),
		zap.Bool("correct", correct),
		zap.Float64("error_rate_before", before),
		zap.Float64("error_rate", h.ErrorRate))
	return true
}

func (c *Course) find(question string) *WordHistory {
	for _, l := range c.lists {
		for _, h := range l.words {
			if h.Pair.Question == question {
				return h
			}
		}
	}
	return nil
}

// Histories returns a copy of every word history in list order.
func (c *Course) Histories() []WordHistory {
	var out []WordHistory
	for _, h := range c.all() {
		out = append(out, h.clone())
	}
	return out
}

// WordCount returns the number of words over all lists.
func (c *Course) WordCount() int {
	n := 0
	for _, l := range c.lists {
		n += len(l.words)
	}
	return n
}

func (c *Course) all() []*WordHistory {
	out := make([]*WordHistory, 0, c.WordCount())
	for _, l := range c.lists {
		out = append(out, l.words...)
	}
	return out
}
