// Package model defines shared data structures.
package model

import "time"

// WordPair is one question/answer item of a word list.
// Direction 0 asks the first column, 1 asks the second column.
// Both directions of one source line share PairIndex.
type WordPair struct {
	Question  string `yaml:"question"`
	Answer    string `yaml:"answer"`
	Direction int    `yaml:"direction"`
	PairIndex int    `yaml:"pair"`
}

// Key identifies a pair by its text, independent of position.
func (p WordPair) Key() string {
	return p.Question + "\x00" + p.Answer
}

// DrillConfig defines settings for a drill run.
type DrillConfig struct {
	Bins     int
	ShowHint bool
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	ListID string
	Since  *time.Time
	Last   int
}

// SessionStats captures a completed or interrupted drill.
type SessionStats struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	ListID    string
	Words     int
	Bins      int
	Asked     int
	Correct   int
	Incorrect int
	Finished  bool
}

// WordStats stores per-word outcomes for a session.
type WordStats struct {
	Question string
	Answer   string
	Attempts int
	Correct  int
	Bin      int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID string
	ListID    string
	EndedAt   time.Time
	Correct   int
	Incorrect int
	Finished  bool
}

// MissedWord aggregates wrong answers for one word across sessions.
type MissedWord struct {
	Question string
	Answer   string
	Attempts int
	Wrong    int
}

// DayLayout formats the calendar day keys of daily progress.
const DayLayout = "2006-01-02"

// DayKey returns the local calendar day of t.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}
