// Package drill implements the adaptive question scheduler for a single word list.
package drill

import (
	"math/rand"
	"time"
)

// Rand is the randomness a Session draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

func newRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
