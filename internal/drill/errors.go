// Package drill implements the adaptive question scheduler for a single word list.
package drill

import "errors"

// Sentinel errors for the drill package.
var (
	ErrInvalidBins         = errors.New("drill: bin count out of range")
	ErrEmptySession        = errors.New("drill: no words to drill")
	ErrNoCandidate         = errors.New("drill: no word can be asked")
	ErrNoQuestion          = errors.New("drill: no question selected")
	ErrAlreadyAnswered     = errors.New("drill: question already answered")
	ErrUnsupportedSnapshot = errors.New("drill: unsupported snapshot")
)
