// Package course tracks word history across word lists and composes lessons.
package course

import "errors"

var (
	// ErrInvalidLessonSize is returned when the lesson size is not positive.
	ErrInvalidLessonSize = errors.New("course: lesson size must be positive")
	// ErrInvalidWeights is returned when the pool percentages are out of range
	// or leave nothing for new words.
	ErrInvalidWeights = errors.New("course: pct-errors and pct-repetition must be in [0, 1] and sum below 1")
	// ErrInvalidDecay is returned when the error rate decay is not in (0, 1).
	ErrInvalidDecay = errors.New("course: decay must be in (0, 1)")
	// ErrUnknownList is returned for operations on a list the course does not hold.
	ErrUnknownList = errors.New("course: unknown list")
	// ErrDuplicateList is returned when a snapshot holds the same list twice.
	ErrDuplicateList = errors.New("course: duplicate list")
	// ErrUnsupportedSnapshot is returned for snapshots of an unknown version.
	ErrUnsupportedSnapshot = errors.New("course: unsupported snapshot")
)
