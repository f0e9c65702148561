// Package drill implements the adaptive question scheduler for a single word list.
package drill

import (
	"fmt"

	"github.com/verte-zerg/wordbin/internal/model"
)

// SnapshotVersion is the current session snapshot layout.
const SnapshotVersion = 1

// Snapshot is the persisted form of a running session.
type Snapshot struct {
	Version   int            `yaml:"version"`
	Counter   int            `yaml:"counter"`
	Bins      int            `yaml:"bins"`
	Current   int            `yaml:"current"`
	Answered  bool           `yaml:"answered"`
	Question1 string         `yaml:"question1"`
	Question2 string         `yaml:"question2"`
	Words     []WordSnapshot `yaml:"words"`
}

// WordSnapshot is the persisted form of one word state.
type WordSnapshot struct {
	Pair          model.WordPair `yaml:"pair"`
	Bin           int            `yaml:"bin"`
	AnswersNeeded int            `yaml:"answers_needed"`
	DueAt         int            `yaml:"due_at"`
	Attempts      int            `yaml:"attempts"`
	Correct       int            `yaml:"correct"`
	WrongAnswers  map[string]int `yaml:"wrong_answers,omitempty"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Version:   SnapshotVersion,
		Counter:   s.counter,
		Bins:      s.bins,
		Current:   s.current,
		Answered:  s.answered,
		Question1: s.question1,
		Question2: s.question2,
		Words:     make([]WordSnapshot, 0, len(s.words)),
	}
	for _, w := range s.words {
		ws := WordSnapshot{
			Pair:          w.pair,
			Bin:           w.bin,
			AnswersNeeded: w.answersNeeded,
			DueAt:         w.dueAt,
			Attempts:      w.attempts,
			Correct:       w.correct,
		}
		if len(w.wrongAnswers) > 0 {
			ws.WrongAnswers = w.WrongAnswers()
		}
		snap.Words = append(snap.Words, ws)
	}
	return snap
}

// Restore rebuilds a session from a snapshot. Word order is kept as stored.
func Restore(snap Snapshot, opts ...Option) (*Session, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedSnapshot, snap.Version)
	}
	if len(snap.Words) == 0 {
		return nil, ErrEmptySession
	}
	if err := ValidateBins(snap.Bins); err != nil {
		return nil, err
	}
	if snap.Current < -1 || snap.Current >= len(snap.Words) {
		return nil, fmt.Errorf("%w: current index %d", ErrUnsupportedSnapshot, snap.Current)
	}
	if snap.Counter < 1 {
		return nil, fmt.Errorf("%w: counter %d", ErrUnsupportedSnapshot, snap.Counter)
	}

	s := newSession(opts)
	s.counter = snap.Counter
	s.bins = snap.Bins
	s.current = snap.Current
	s.answered = snap.Answered
	s.question1 = snap.Question1
	s.question2 = snap.Question2
	s.words = make([]*WordState, 0, len(snap.Words))
	for i, ws := range snap.Words {
		if ws.Bin < 0 || ws.Bin >= MaxBins {
			return nil, fmt.Errorf("%w: word %d in bin %d", ErrUnsupportedSnapshot, i, ws.Bin)
		}
		if ws.AnswersNeeded < 1 {
			return nil, fmt.Errorf("%w: word %d needs %d answers", ErrUnsupportedSnapshot, i, ws.AnswersNeeded)
		}
		if ws.DueAt < NotDue || ws.DueAt > snap.Counter {
			return nil, fmt.Errorf("%w: word %d due at %d", ErrUnsupportedSnapshot, i, ws.DueAt)
		}
		w := &WordState{
			pair:          ws.Pair,
			bin:           ws.Bin,
			answersNeeded: ws.AnswersNeeded,
			dueAt:         ws.DueAt,
			attempts:      ws.Attempts,
			correct:       ws.Correct,
			wrongAnswers:  map[string]int{},
		}
		for k, v := range ws.WrongAnswers {
			w.wrongAnswers[k] = v
		}
		s.words = append(s.words, w)
		s.pop[ws.Bin]++
		s.answerIndex[ws.Pair.Answer] = ws.Pair.Question
	}
	return s, nil
}
