// Package drill implements the adaptive question scheduler for a single word list.
package drill

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/wordbin/internal/model"
)

const (
	// DefaultBins is the bin count of a session unless configured otherwise.
	DefaultBins = 4
	// MinBins is the smallest valid bin count.
	MinBins = 2

	// DefaultTemplate is used when a word list does not define question templates.
	DefaultTemplate = `What is ""?`

	dueWait      = 3
	eagerDueWait = 2
	eagerPercent = 40
)

// Session drills one fixed set of words until every word reached the last bin.
// A Session is not safe for concurrent use.
type Session struct {
	words       []*WordState
	counter     int
	pop         Population
	current     int
	answered    bool
	bins        int
	hint        string
	answerIndex map[string]string
	question1   string
	question2   string
	rnd         Rand
	log         *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithBins sets the bin count; the last bin is bins-1.
func WithBins(bins int) Option {
	return func(s *Session) { s.bins = bins }
}

// WithRand replaces the random source used for shuffling and thresholds.
func WithRand(r Rand) Option {
	return func(s *Session) { s.rnd = r }
}

// WithTemplates sets the question templates. question1 is used for reversed
// words, question2 for words asked in list direction.
func WithTemplates(question1, question2 string) Option {
	return func(s *Session) {
		s.question1 = question1
		s.question2 = question2
	}
}

// WithLogger sets the logger for selection tracing.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// Word is a read-only view of the selected word.
type Word struct {
	Pair      model.WordPair
	Bin       int
	Attempts  int
	Correct   int
	DueAt     int
	Remaining int
}

// WordResult is the outcome of one word at the end of a session.
type WordResult struct {
	Pair         model.WordPair
	Bin          int
	Attempts     int
	Correct      int
	WrongAnswers map[string]int
}

// ValidateBins checks a configured bin count.
func ValidateBins(bins int) error {
	if bins < MinBins || bins > MaxBins {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBins, bins, MinBins, MaxBins)
	}
	return nil
}

// NewSession builds a session over pairs with all words in bin 0.
func NewSession(pairs []model.WordPair, opts ...Option) (*Session, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptySession
	}
	s := newSession(opts)
	if err := ValidateBins(s.bins); err != nil {
		return nil, err
	}
	s.words = make([]*WordState, 0, len(pairs))
	for _, p := range pairs {
		s.words = append(s.words, NewWordState(p))
		s.answerIndex[p.Answer] = p.Question
	}
	s.pop[0] = len(s.words)
	s.shuffle()
	return s, nil
}

func newSession(opts []Option) *Session {
	s := &Session{
		counter:     1,
		current:     -1,
		bins:        DefaultBins,
		answerIndex: map[string]string{},
		question1:   DefaultTemplate,
		question2:   DefaultTemplate,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = newRand()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// SetBins changes the bin count of a running session.
func (s *Session) SetBins(bins int) error {
	if err := ValidateBins(bins); err != nil {
		return err
	}
	s.bins = bins
	return nil
}

// SelectNext picks the next question.
//
// The word that has been due the longest is asked when it waited at least
// three questions (two, with a 40% chance). Otherwise the first two words in
// shuffled order that are neither due nor in the last bin are compared and
// the one in the lower bin is asked. With a single such word that word is
// asked; with none, the longest-due word is asked regardless of its wait.
// ErrNoCandidate is returned when no word qualifies at all.
func (s *Session) SelectNext() error {
	s.shuffle()
	s.current = -1
	s.answered = false

	best, maxAge := -1, -1
	for i, w := range s.words {
		if !w.Due() {
			continue
		}
		if age := s.counter - w.dueAt; age > maxAge {
			best, maxAge = i, age
		}
	}

	threshold := dueWait
	if s.rnd.Intn(100) < eagerPercent {
		threshold = eagerDueWait
	}
	if best >= 0 && maxAge >= threshold {
		s.current = best
		s.log.Debug("selected due word", zap.String("question", s.words[best].pair.Question), zap.Int("due_age", maxAge))
		return nil
	}

	first, second := -1, -1
	for i, w := range s.words {
		if !s.eligible(w) {
			continue
		}
		if first < 0 {
			first = i
			continue
		}
		second = i
		break
	}

	switch {
	case second >= 0:
		s.current = first
		if s.words[second].bin < s.words[first].bin {
			s.current = second
		}
	case first >= 0:
		s.current = first
	case best >= 0:
		s.current = best
	default:
		return ErrNoCandidate
	}
	s.log.Debug("selected word", zap.String("question", s.words[s.current].pair.Question), zap.Int("bin", s.words[s.current].bin))
	return nil
}

func (s *Session) eligible(w *WordState) bool {
	return w.bin < s.bins-1 && !w.Due()
}

// Evaluate checks the answer to the selected question. It sets the hint when
// the answer belongs to another word of the session and advances the counter.
// A question can be answered once; SelectNext must be called before the next.
func (s *Session) Evaluate(given string) (bool, error) {
	if s.current < 0 {
		return false, ErrNoQuestion
	}
	if s.answered {
		return false, ErrAlreadyAnswered
	}
	w := s.words[s.current]
	ok := w.Evaluate(given, s.counter, &s.pop)
	s.hint = ""
	if !ok {
		if question, found := s.answerIndex[given]; found && question != w.pair.Question {
			s.hint = fmt.Sprintf("You may be confused with %q -> %q", given, question)
		}
	}
	s.counter++
	s.answered = true
	return ok, nil
}

// IsFinished reports whether every word reached the last bin.
func (s *Session) IsFinished() bool {
	for b := 0; b < s.bins-1; b++ {
		if s.pop[b] != 0 {
			return false
		}
	}
	return true
}

// Answered reports whether the selected question was already evaluated.
func (s *Session) Answered() bool { return s.answered }

// Hint returns the confusion hint of the last wrong answer, or "".
func (s *Session) Hint() string { return s.hint }

// Counter returns the number of the next question, starting at 1.
func (s *Session) Counter() int { return s.counter }

// Bins returns the configured bin count.
func (s *Session) Bins() int { return s.bins }

// BinCount returns the number of words in bin b.
func (s *Session) BinCount(b int) int {
	if b < 0 || b >= MaxBins {
		return 0
	}
	return s.pop[b]
}

// Population returns a copy of the bin population.
func (s *Session) Population() Population { return s.pop }

// WordCount returns the number of words in the session.
func (s *Session) WordCount() int { return len(s.words) }

// Current returns the selected word.
func (s *Session) Current() (Word, bool) {
	if s.current < 0 {
		return Word{}, false
	}
	w := s.words[s.current]
	return Word{
		Pair:      w.pair,
		Bin:       w.bin,
		Attempts:  w.attempts,
		Correct:   w.correct,
		DueAt:     w.dueAt,
		Remaining: w.answersNeeded,
	}, true
}

// Question renders the selected question with its template.
func (s *Session) Question() string {
	if s.current < 0 {
		return ""
	}
	pair := s.words[s.current].pair
	tmpl := s.question2
	if pair.Direction == 1 {
		tmpl = s.question1
	}
	return RenderQuestion(tmpl, pair.Question)
}

// CorrectAnswer returns the answer of the selected question.
func (s *Session) CorrectAnswer() string {
	if s.current < 0 {
		return ""
	}
	return s.words[s.current].pair.Answer
}

// RenderQuestion places question between the quotes of a `""` placeholder,
// or appends it after a space when the template has none.
func RenderQuestion(tmpl, question string) string {
	if pos := strings.Index(tmpl, `""`); pos >= 0 {
		return tmpl[:pos+1] + question + tmpl[pos+1:]
	}
	if tmpl == "" {
		return question
	}
	return tmpl + " " + question
}

// MostDifficult returns up to n words ordered by attempts, most first.
func (s *Session) MostDifficult(n int) []WordResult {
	results := s.Results()
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Attempts > results[j].Attempts
	})
	if n >= 0 && n < len(results) {
		results = results[:n]
	}
	return results
}

// Results returns the outcome of every word.
func (s *Session) Results() []WordResult {
	out := make([]WordResult, 0, len(s.words))
	for _, w := range s.words {
		out = append(out, WordResult{
			Pair:         w.pair,
			Bin:          w.bin,
			Attempts:     w.attempts,
			Correct:      w.correct,
			WrongAnswers: w.WrongAnswers(),
		})
	}
	return out
}

func (s *Session) shuffle() {
	s.rnd.Shuffle(len(s.words), func(i, j int) {
		s.words[i], s.words[j] = s.words[j], s.words[i]
	})
}
