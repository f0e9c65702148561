// Package drill implements the adaptive question scheduler for a single word list.
package drill

import (
	"strings"

	"github.com/verte-zerg/wordbin/internal/model"
)

// MaxBins is the number of learning bins a word can move through.
const MaxBins = 10

// NotDue marks a word that is not waiting to be repeated.
const NotDue = -1

const answerSeparator = " / "

// Population counts the words in each bin.
type Population [MaxBins]int

// Total returns the number of words over all bins.
func (p *Population) Total() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

func (p *Population) move(from, to int) {
	p[from]--
	p[to]++
}

// WordState is the learning state of one word during a session.
type WordState struct {
	pair          model.WordPair
	bin           int
	answersNeeded int
	dueAt         int
	attempts      int
	correct       int
	wrongAnswers  map[string]int
}

// NewWordState returns a word in bin 0 that needs one correct answer.
func NewWordState(pair model.WordPair) *WordState {
	return &WordState{
		pair:          pair,
		answersNeeded: 1,
		dueAt:         NotDue,
		wrongAnswers:  map[string]int{},
	}
}

// Pair returns the wrapped question/answer pair.
func (w *WordState) Pair() model.WordPair { return w.pair }

// Bin returns the current bin.
func (w *WordState) Bin() int { return w.bin }

// AnswersNeeded returns how many correct answers are left before promotion.
func (w *WordState) AnswersNeeded() int { return w.answersNeeded }

// DueAt returns the counter value the word became due at, or NotDue.
func (w *WordState) DueAt() int { return w.dueAt }

// Due reports whether the word waits to be repeated.
func (w *WordState) Due() bool { return w.dueAt != NotDue }

// Attempts returns how often the word was answered.
func (w *WordState) Attempts() int { return w.attempts }

// Correct returns how often the word was answered correctly.
func (w *WordState) Correct() int { return w.correct }

// WrongAnswers returns a copy of the wrong answer histogram.
func (w *WordState) WrongAnswers() map[string]int {
	out := make(map[string]int, len(w.wrongAnswers))
	for k, v := range w.wrongAnswers {
		out[k] = v
	}
	return out
}

// Evaluate checks an answer given at the session counter and moves the word
// through the bins. pop is updated when the word is promoted.
// Each call counts as one attempt.
func (w *WordState) Evaluate(given string, counter int, pop *Population) bool {
	w.attempts++
	if !matchAnswer(given, w.pair.Answer) {
		w.dueAt = counter
		w.answersNeeded = 2
		w.wrongAnswers[given]++
		return false
	}

	w.correct++
	w.answersNeeded--
	if w.answersNeeded > 0 {
		w.dueAt = counter
		return true
	}
	if w.bin < MaxBins-1 {
		pop.move(w.bin, w.bin+1)
		w.bin++
	}
	w.dueAt = NotDue
	w.answersNeeded = 1
	return true
}

// matchAnswer accepts the answer itself and, for answers of the form
// "a / b", the swapped form "b / a".
func matchAnswer(given, answer string) bool {
	if given == answer {
		return true
	}
	parts := strings.Split(answer, answerSeparator)
	if len(parts) != 2 {
		return false
	}
	return given == parts[1]+answerSeparator+parts[0]
}
